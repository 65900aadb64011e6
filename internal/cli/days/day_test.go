package days

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/config"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage/sqlite"
	"github.com/julianstephens/habitlog/internal/tracker"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "days.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Default()
	cfg.DBPath = dbPath
	cfg.Timezone = "UTC"

	ctx := cli.NewContext(store, cfg, "")
	clock := func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }
	ctx.Tracker = tracker.New(store, tracker.WithTimezone("UTC"), tracker.WithClock(clock))

	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, out
}

func TestTodayCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	bg := context.Background()

	water, err := ctx.Tracker.AddHabit(bg, "Water", models.KindBase, "2024-01-01")
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	if _, err := ctx.Tracker.AddHabit(bg, "Call mom", models.KindDay, "2024-01-10"); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	if err := ctx.Tracker.SetCompletion(bg, water, "2024-01-10", true); err != nil {
		t.Fatalf("failed to set completion: %v", err)
	}

	if err := (&TodayCmd{}).Run(ctx); err != nil {
		t.Fatalf("today failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"2024-01-10", "Mood: Not set", "[x] Water", "[ ] Call mom", "(one-off)", "1/2 done"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDayCmd_Empty(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&DayCmd{Date: "yesterday"}).Run(ctx); err != nil {
		t.Fatalf("day failed: %v", err)
	}
	if !strings.Contains(out.String(), "2024-01-09") || !strings.Contains(out.String(), "No habits for this day.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	if err := (&DayCmd{Date: "01/09/2024"}).Run(ctx); err == nil {
		t.Errorf("expected invalid date error")
	}
}

func TestMoodCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&MoodCmd{Level: 6, Date: "2024-01-08"}).Run(ctx); err != nil {
		t.Fatalf("mood failed: %v", err)
	}
	if !strings.Contains(out.String(), "Mood for 2024-01-08: Very good") {
		t.Errorf("unexpected output: %q", out.String())
	}

	record, err := ctx.Tracker.DailyRecord(context.Background(), "2024-01-08")
	if err != nil || record == nil {
		t.Fatalf("expected record, got %v, %v", record, err)
	}
	if record.Mood != 6 {
		t.Errorf("expected mood 6, got %d", record.Mood)
	}

	if err := (&MoodCmd{Level: 8}).Run(ctx); err == nil {
		t.Errorf("expected invalid mood error")
	}
}

func TestCalendarCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	bg := context.Background()

	if _, err := ctx.Tracker.SetMood(bg, "2024-01-03", 4); err != nil {
		t.Fatalf("failed to set mood: %v", err)
	}
	if _, err := ctx.Tracker.SetMood(bg, "2024-01-04", 6); err != nil {
		t.Fatalf("failed to set mood: %v", err)
	}

	if err := (&CalendarCmd{}).Run(ctx); err != nil {
		t.Fatalf("calendar failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"January 2024", "Mo Tu We Th Fr Sa Su", "Days filled: 2 of 31", "Average mood: 5.0"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	if err := (&CalendarCmd{Month: "2024-13"}).Run(ctx); err == nil {
		t.Errorf("expected invalid month error")
	}
}

func TestRenderMonthStartsOnMonday(t *testing.T) {
	// February 2024 starts on a Thursday
	days := make([]string, 29)
	for i := range days {
		days[i] = time.Date(2024, 2, i+1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	}
	s := tracker.MonthSummary{Year: 2024, Month: time.February, Days: days, DaysInMonth: 29}

	lines := strings.Split(RenderMonth(s), "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected render:\n%s", strings.Join(lines, "\n"))
	}
	if lines[2] != "          1  2  3  4" {
		t.Errorf("first week misaligned: %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], " 5  6") {
		t.Errorf("second week should start on Monday the 5th: %q", lines[3])
	}
}
