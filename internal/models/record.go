package models

import "github.com/julianstephens/habitlog/internal/constants"

// DailyRecord is the persisted per-day summary of mood and habit completion.
type DailyRecord struct {
	ID              int64  `json:"id"`
	Date            string `json:"date"`
	Mood            Mood   `json:"mood"`
	CompletedHabits int    `json:"completed_habits"`
	TotalHabits     int    `json:"total_habits"`
}

// CompletionRatio returns completed/total, or 0 when the day had no habits.
func (r DailyRecord) CompletionRatio() float64 {
	if r.TotalHabits == 0 {
		return 0
	}
	return float64(r.CompletedHabits) / float64(r.TotalHabits)
}

// Mood is a 1-7 rating of the day. Zero means unset.
type Mood int

func (m Mood) Valid() bool {
	return m == constants.MoodUnset || (m >= constants.MoodMin && m <= constants.MoodMax)
}

func (m Mood) IsSet() bool { return m != constants.MoodUnset }

var moodLabels = map[Mood]string{
	1: "Very bad",
	2: "Bad",
	3: "Slightly bad",
	4: "Neutral",
	5: "Good",
	6: "Very good",
	7: "Excellent!",
}

// Label returns a short human description of the mood.
func (m Mood) Label() string {
	if l, ok := moodLabels[m]; ok {
		return l
	}
	return "Not set"
}

var moodColors = map[Mood]string{
	1: "#8A2BE2",
	2: "#9370DB",
	3: "#6495ED",
	4: "#00BFFF",
	5: "#FFD700",
	6: "#FF6347",
	7: "#DC143C",
}

// Color returns the hex colour of the mood on the violet to red scale, or
// gray when unset.
func (m Mood) Color() string {
	if c, ok := moodColors[m]; ok {
		return c
	}
	return "#808080"
}
