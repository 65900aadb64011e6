package models

import "testing"

func TestParseHabitKind(t *testing.T) {
	tests := []struct {
		in      string
		want    HabitKind
		wantErr bool
	}{
		{"base", KindBase, false},
		{"daily", KindBase, false},
		{"day", KindDay, false},
		{"once", KindDay, false},
		{"weekly", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseHabitKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHabitKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHabitKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMood(t *testing.T) {
	for m := Mood(0); m <= 7; m++ {
		if !m.Valid() {
			t.Errorf("mood %d should be valid", m)
		}
	}
	for _, m := range []Mood{-1, 8} {
		if m.Valid() {
			t.Errorf("mood %d should be invalid", m)
		}
	}

	if Mood(0).IsSet() || Mood(0).Label() != "Not set" || Mood(0).Color() != "#808080" {
		t.Errorf("unset mood should render as gray Not set")
	}
	if Mood(7).Label() != "Excellent!" || Mood(1).Color() != "#8A2BE2" {
		t.Errorf("unexpected mood scale ends: %q %q", Mood(7).Label(), Mood(1).Color())
	}
}

func TestCompletionRatio(t *testing.T) {
	if r := (DailyRecord{}).CompletionRatio(); r != 0 {
		t.Errorf("empty day ratio = %v, want 0", r)
	}
	if r := (DailyRecord{CompletedHabits: 1, TotalHabits: 4}).CompletionRatio(); r != 0.25 {
		t.Errorf("ratio = %v, want 0.25", r)
	}
}

func TestRetired(t *testing.T) {
	cutoff := "2024-01-10"
	h := Habit{Kind: KindDay, DeactivatedDate: &cutoff}
	if !h.Retired() || h.IsBase() {
		t.Errorf("habit with cutoff should be retired and not base")
	}
	if (Habit{Kind: KindBase}).Retired() {
		t.Errorf("base habit without cutoff is not retired")
	}
}
