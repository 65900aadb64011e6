package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/tracker"
)

// Handler exposes the tracker over JSON.
type Handler struct {
	Tracker *tracker.Tracker
}

func NewHandler(t *tracker.Tracker) *Handler {
	return &Handler{Tracker: t}
}

// ListHabits returns the active habits, or only the base habits with ?base=true.
func (h *Handler) ListHabits(w http.ResponseWriter, r *http.Request) {
	var habits []models.Habit
	var err error
	if r.URL.Query().Get("base") == "true" {
		habits, err = h.Tracker.BaseHabits(r.Context())
	} else {
		habits, err = h.Tracker.ListHabits(r.Context())
	}
	if err != nil {
		writeTrackerError(w, "Failed to list habits", err)
		return
	}
	writeJSON(w, http.StatusOK, habits)
}

func (h *Handler) AddHabit(w http.ResponseWriter, r *http.Request) {
	var req AddHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	kind := models.KindBase
	if req.Kind != "" {
		k, err := models.ParseHabitKind(req.Kind)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid habit kind", err)
			return
		}
		kind = k
	}

	id, err := h.Tracker.AddHabit(r.Context(), req.Name, kind, req.CreatedDate)
	if err != nil {
		writeTrackerError(w, "Failed to add habit", err)
		return
	}
	writeJSON(w, http.StatusCreated, AddHabitResponse{ID: id})
}

// HabitExists checks a name. scope=today restricts the check to today's
// one-off habits.
func (h *Handler) HabitExists(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "Missing name", nil)
		return
	}

	scope := r.URL.Query().Get("scope")
	var exists bool
	var err error
	switch scope {
	case "", "all":
		scope = "all"
		exists, err = h.Tracker.HabitNameExists(r.Context(), name)
	case "today":
		exists, err = h.Tracker.HabitNameExistsToday(r.Context(), name)
	default:
		writeError(w, http.StatusBadRequest, "Invalid scope", fmt.Errorf("scope must be all or today, got %q", scope))
		return
	}
	if err != nil {
		writeTrackerError(w, "Failed to check habit name", err)
		return
	}
	writeJSON(w, http.StatusOK, ExistsResponse{Name: name, Scope: scope, Exists: exists})
}

func (h *Handler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	id, ok := habitID(w, r)
	if !ok {
		return
	}
	done, err := h.Tracker.DeleteOrDeactivate(r.Context(), id)
	writeLifecycleResult(w, "Failed to delete habit", done, err)
}

func (h *Handler) RetireHabit(w http.ResponseWriter, r *http.Request) {
	id, ok := habitID(w, r)
	if !ok {
		return
	}
	done, err := h.Tracker.DeactivateBaseFromFuture(r.Context(), id)
	writeLifecycleResult(w, "Failed to retire habit", done, err)
}

// DayHabits returns the habits of a day with their completion state.
func (h *Handler) DayHabits(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	habits, err := h.Tracker.HabitsForDate(r.Context(), date)
	if err != nil {
		writeTrackerError(w, "Failed to resolve habits", err)
		return
	}

	resp := DayHabitsResponse{Date: date, Habits: make([]DayHabitDTO, 0, len(habits))}
	for _, habit := range habits {
		completed, err := h.Tracker.CompletionStatus(r.Context(), habit.ID, date)
		if err != nil {
			writeTrackerError(w, "Failed to read completion", err)
			return
		}
		resp.Habits = append(resp.Habits, DayHabitDTO{Habit: habit, Completed: completed})
	}

	resp.Record, err = h.Tracker.DailyRecord(r.Context(), date)
	if err != nil {
		writeTrackerError(w, "Failed to read daily record", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) SetCompletion(w http.ResponseWriter, r *http.Request) {
	id, ok := habitID(w, r)
	if !ok {
		return
	}
	var req SetCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date := chi.URLParam(r, "date")
	if err := h.Tracker.SetCompletion(r.Context(), id, date, req.Completed); err != nil {
		writeTrackerError(w, "Failed to set completion", err)
		return
	}

	record, err := h.Tracker.DailyRecord(r.Context(), date)
	if err != nil {
		writeTrackerError(w, "Failed to read daily record", err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) RemoveFromDay(w http.ResponseWriter, r *http.Request) {
	id, ok := habitID(w, r)
	if !ok {
		return
	}
	done, err := h.Tracker.RemoveFromDay(r.Context(), id, chi.URLParam(r, "date"))
	writeLifecycleResult(w, "Failed to remove habit from day", done, err)
}

// DailyRecord returns 404 for days without data.
func (h *Handler) DailyRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.Tracker.DailyRecord(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		writeTrackerError(w, "Failed to read daily record", err)
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "No record for this day", nil)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) SetMood(w http.ResponseWriter, r *http.Request) {
	var req SetMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	record, err := h.Tracker.SetMood(r.Context(), chi.URLParam(r, "date"), models.Mood(req.Mood))
	if err != nil {
		writeTrackerError(w, "Failed to set mood", err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// RecordsInRange returns a date to record map for ?start=&end=.
func (h *Handler) RecordsInRange(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "start and end are required", nil)
		return
	}

	records, err := h.Tracker.RecordsInRange(r.Context(), start, end)
	if err != nil {
		writeTrackerError(w, "Failed to list records", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) MonthSummary(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	summary, err := h.Tracker.MonthSummary(r.Context(), year, time.Month(month))
	if err != nil {
		writeTrackerError(w, "Failed to summarise month", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func habitID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid habit id", err)
		return 0, false
	}
	return id, true
}

// writeLifecycleResult maps a (done, err) lifecycle result to a response;
// not applicable is a 404.
func writeLifecycleResult(w http.ResponseWriter, message string, done bool, err error) {
	if err != nil {
		writeTrackerError(w, message, err)
		return
	}
	if !done {
		writeError(w, http.StatusNotFound, "Not applicable to this habit", nil)
		return
	}
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}

// writeTrackerError maps tracker errors to status codes.
func writeTrackerError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, tracker.ErrDuplicateName):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, tracker.ErrInvalidName),
		errors.Is(err, tracker.ErrInvalidDate),
		errors.Is(err, tracker.ErrInvalidMood):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
