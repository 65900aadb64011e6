package api

import (
	"github.com/julianstephens/habitlog/internal/models"
)

// AddHabitRequest is the body of POST /api/habits.
type AddHabitRequest struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	CreatedDate string `json:"created_date,omitempty"`
}

type AddHabitResponse struct {
	ID int64 `json:"id"`
}

// DayHabitDTO is a habit as it appears on a day.
type DayHabitDTO struct {
	models.Habit
	Completed bool `json:"completed"`
}

type DayHabitsResponse struct {
	Date   string              `json:"date"`
	Habits []DayHabitDTO       `json:"habits"`
	Record *models.DailyRecord `json:"record"`
}

type SetCompletionRequest struct {
	Completed bool `json:"completed"`
}

type SetMoodRequest struct {
	Mood int `json:"mood"`
}

type ExistsResponse struct {
	Name   string `json:"name"`
	Scope  string `json:"scope"`
	Exists bool   `json:"exists"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
