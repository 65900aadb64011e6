package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tempDir)
	}

	return store, cleanup
}

func TestInitCreatesSchema(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	for _, table := range []string{"habits", "habit_exclusions", "habit_completions", "daily_records"} {
		exists, err := store.tableExists(table)
		if err != nil {
			t.Fatalf("tableExists(%s): %v", table, err)
		}
		if !exists {
			t.Errorf("expected table %s to exist", table)
		}
	}

	version, err := store.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != 2 {
		t.Errorf("expected schema version 2, got %d", version)
	}
}

func TestInitRunsOnceConcurrently(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "concurrent.db")
	store := NewStore(dbPath)
	defer store.Close()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Init()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("Init call %d failed: %v", i, err)
		}
	}
}

func TestInitIsIdempotentAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	first := NewStore(dbPath)
	if err := first.Init(); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	ctx := context.Background()
	if _, err := first.CreateHabit(ctx, models.Habit{Name: "Water", CreatedDate: "2024-01-01", IsActive: true, Kind: models.KindBase}); err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}
	first.Close()

	second := NewStore(dbPath)
	if err := second.Init(); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	defer second.Close()

	habits, err := second.ListActiveHabits(ctx)
	if err != nil {
		t.Fatalf("ListActiveHabits: %v", err)
	}
	if len(habits) != 1 {
		t.Errorf("expected data to survive reopen, got %d habits", len(habits))
	}
}

func TestInitFailsOnUnavailablePath(t *testing.T) {
	tempDir := t.TempDir()
	blocker := filepath.Join(tempDir, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewStore(filepath.Join(blocker, "habits.db"))
	if err := store.Init(); err == nil {
		store.Close()
		t.Fatal("expected Init to fail when the parent path is a file")
	}
	// The failure is sticky.
	if err := store.Init(); err == nil {
		t.Error("expected second Init to report the same failure")
	}
}

func TestHabitLifecycle(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	baseID, err := store.CreateHabit(ctx, models.Habit{Name: "Water", CreatedDate: "2024-01-01", IsActive: true, Kind: models.KindBase})
	if err != nil {
		t.Fatalf("CreateHabit base: %v", err)
	}
	dayID, err := store.CreateHabit(ctx, models.Habit{Name: "Call mom", CreatedDate: "2024-02-10", IsActive: true, Kind: models.KindDay})
	if err != nil {
		t.Fatalf("CreateHabit day: %v", err)
	}
	if baseID == dayID || baseID <= 0 || dayID <= 0 {
		t.Fatalf("expected distinct positive ids, got %d and %d", baseID, dayID)
	}

	got, err := store.GetHabit(ctx, baseID)
	if err != nil {
		t.Fatalf("GetHabit: %v", err)
	}
	if got.Name != "Water" || !got.IsBase() || !got.IsActive || got.DeactivatedDate != nil {
		t.Errorf("unexpected habit: %+v", got)
	}

	bases, err := store.ListActiveBaseHabits(ctx)
	if err != nil {
		t.Fatalf("ListActiveBaseHabits: %v", err)
	}
	if len(bases) != 1 || bases[0].ID != baseID {
		t.Errorf("expected only the base habit, got %+v", bases)
	}

	// day habits cannot be retired
	ok, err := store.RetireBaseHabit(ctx, dayID, "2024-02-10")
	if err != nil || ok {
		t.Errorf("RetireBaseHabit on day habit: ok=%v err=%v", ok, err)
	}

	ok, err = store.RetireBaseHabit(ctx, baseID, "2024-01-10")
	if err != nil || !ok {
		t.Fatalf("RetireBaseHabit: ok=%v err=%v", ok, err)
	}
	retired, err := store.GetHabit(ctx, baseID)
	if err != nil {
		t.Fatalf("GetHabit: %v", err)
	}
	if retired.IsBase() || retired.DeactivatedDate == nil || *retired.DeactivatedDate != "2024-01-10" {
		t.Errorf("unexpected retired habit: %+v", retired)
	}

	// base habits cannot be deleted
	ok, err = store.DeleteDayHabit(ctx, dayID)
	if err != nil || !ok {
		t.Fatalf("DeleteDayHabit: ok=%v err=%v", ok, err)
	}
	if _, err := store.GetHabit(ctx, dayID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeactivateBaseHabit(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.CreateHabit(ctx, models.Habit{Name: "Read", CreatedDate: "2024-01-01", IsActive: true, Kind: models.KindBase})
	if err != nil {
		t.Fatal(err)
	}

	ok, err := store.DeactivateBaseHabit(ctx, id)
	if err != nil || !ok {
		t.Fatalf("DeactivateBaseHabit: ok=%v err=%v", ok, err)
	}
	ok, err = store.DeactivateBaseHabit(ctx, id)
	if err != nil || ok {
		t.Errorf("second DeactivateBaseHabit should match nothing: ok=%v err=%v", ok, err)
	}

	habits, err := store.ListActiveHabits(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 0 {
		t.Errorf("expected no active habits, got %d", len(habits))
	}
}

func TestListActiveHabitsOrdering(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for _, name := range []string{"b", "B", "a", "b"} {
		if _, err := store.CreateHabit(ctx, models.Habit{Name: name, CreatedDate: "2024-01-01", IsActive: true, Kind: models.KindBase}); err != nil {
			t.Fatal(err)
		}
	}

	habits, err := store.ListActiveHabits(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"B", "a", "b", "b"}
	for i, h := range habits {
		if h.Name != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], h.Name)
		}
	}
	if habits[2].ID > habits[3].ID {
		t.Errorf("expected ties broken by id, got %d before %d", habits[2].ID, habits[3].ID)
	}
}

func TestExclusions(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Exclude(ctx, 1, "2024-01-05"); err != nil {
			t.Fatalf("Exclude: %v", err)
		}
	}
	if err := store.Exclude(ctx, 1, "2024-01-20"); err != nil {
		t.Fatal(err)
	}

	excluded, err := store.ExcludedHabitIDs(ctx, "2024-01-05")
	if err != nil {
		t.Fatal(err)
	}
	if !excluded[1] || len(excluded) != 1 {
		t.Errorf("unexpected exclusions: %v", excluded)
	}

	removed, err := store.RemoveFutureExclusions(ctx, 1, "2024-01-10")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("expected 1 future exclusion removed, got %d", removed)
	}

	removed, err = store.RemoveAllExclusions(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("expected the duplicate exclusions to be a single row, removed %d", removed)
	}
}

func TestCompletionUpsert(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.GetCompletion(ctx, 1, "2024-01-05"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.UpsertCompletion(ctx, 1, "2024-01-05", true); err != nil {
		t.Fatal(err)
	}
	first, err := store.GetCompletion(ctx, 1, "2024-01-05")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertCompletion(ctx, 1, "2024-01-05", false); err != nil {
		t.Fatal(err)
	}
	second, err := store.GetCompletion(ctx, 1, "2024-01-05")
	if err != nil {
		t.Fatal(err)
	}
	if second.IsCompleted {
		t.Error("expected completion to be toggled off")
	}
	if first.ID != second.ID {
		t.Errorf("expected upsert to keep row id %d, got %d", first.ID, second.ID)
	}

	if err := store.UpsertCompletion(ctx, 2, "2024-01-05", true); err != nil {
		t.Fatal(err)
	}
	completed, err := store.CompletedHabitIDs(ctx, "2024-01-05")
	if err != nil {
		t.Fatal(err)
	}
	if completed[1] || !completed[2] {
		t.Errorf("unexpected completed set: %v", completed)
	}

	if err := store.UpsertCompletion(ctx, 2, "2024-01-15", true); err != nil {
		t.Fatal(err)
	}
	removed, err := store.RemoveFutureCompletions(ctx, 2, "2024-01-10")
	if err != nil || removed != 1 {
		t.Errorf("RemoveFutureCompletions: removed=%d err=%v", removed, err)
	}
	removed, err = store.RemoveCompletion(ctx, 2, "2024-01-05")
	if err != nil || removed != 1 {
		t.Errorf("RemoveCompletion: removed=%d err=%v", removed, err)
	}
}

func TestDailyRecords(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.GetDailyRecord(ctx, "2024-01-05"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	saved, err := store.SaveDailyRecord(ctx, models.DailyRecord{Date: "2024-01-05", Mood: 4, CompletedHabits: 1, TotalHabits: 3})
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == 0 {
		t.Error("expected saved record to carry an id")
	}

	updated, err := store.SaveDailyRecord(ctx, models.DailyRecord{ID: 999, Date: "2024-01-05", Mood: 6, CompletedHabits: 2, TotalHabits: 3})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != saved.ID {
		t.Errorf("expected id %d to be preserved, got %d", saved.ID, updated.ID)
	}
	if updated.Mood != 6 || updated.CompletedHabits != 2 {
		t.Errorf("unexpected record: %+v", updated)
	}

	for _, d := range []string{"2024-01-01", "2024-01-31", "2024-02-01"} {
		if _, err := store.SaveDailyRecord(ctx, models.DailyRecord{Date: d, TotalHabits: 1}); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.ListDailyRecords(ctx, "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2024-01-01", "2024-01-05", "2024-01-31"}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i, r := range records {
		if r.Date != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], r.Date)
		}
	}

	records, err = store.ListDailyRecords(ctx, "2024-02-05", "2024-02-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty result for inverted range, got %d", len(records))
	}
}

func TestDailyRecordRejectsInvalidCounts(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.SaveDailyRecord(context.Background(), models.DailyRecord{Date: "2024-01-05", CompletedHabits: 4, TotalHabits: 3})
	if err == nil {
		t.Error("expected CHECK constraint to reject completed > total")
	}
}
