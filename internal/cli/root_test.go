package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitlog/internal/config"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage/sqlite"
	"github.com/julianstephens/habitlog/internal/tracker"
)

func setupTestContext(t *testing.T) *Context {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "cli.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Default()
	cfg.DBPath = dbPath
	cfg.Timezone = "UTC"

	ctx := NewContext(store, cfg, "")
	clock := func() time.Time { return time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC) }
	ctx.Tracker = tracker.New(store, tracker.WithTimezone("UTC"), tracker.WithClock(clock))
	ctx.Out = &bytes.Buffer{}
	return ctx
}

func TestResolveDate(t *testing.T) {
	ctx := setupTestContext(t)

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "2024-03-01", false},
		{"today", "2024-03-01", false},
		{"Yesterday", "2024-02-29", false},
		{"tomorrow", "2024-03-02", false},
		{"2024-01-05", "2024-01-05", false},
		{"2024-02-30", "", true},
		{"someday", "", true},
	}
	for _, tt := range tests {
		got, err := ctx.ResolveDate(tt.in)
		if tt.wantErr {
			if !errors.Is(err, tracker.ErrInvalidDate) {
				t.Errorf("ResolveDate(%q): expected ErrInvalidDate, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ResolveDate(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestFindHabitPrefersDate(t *testing.T) {
	ctx := setupTestContext(t)
	bg := context.Background()

	early, err := ctx.Tracker.AddHabit(bg, "Dentist", models.KindDay, "2024-02-01")
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	late, err := ctx.Tracker.AddHabit(bg, "Dentist", models.KindDay, "2024-02-20")
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	h, err := ctx.FindHabit("dentist", "2024-02-20")
	if err != nil || h.ID != late {
		t.Errorf("expected habit #%d on 2024-02-20, got #%d (%v)", late, h.ID, err)
	}
	h, err = ctx.FindHabit(" Dentist ", "2024-02-01")
	if err != nil || h.ID != early {
		t.Errorf("expected habit #%d on 2024-02-01, got #%d (%v)", early, h.ID, err)
	}

	if _, err := ctx.FindHabit("Gym", ""); !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestAskSkipsPromptWithYes(t *testing.T) {
	ctx := setupTestContext(t)
	asked := false
	ctx.Confirm = func(string, string) (bool, error) {
		asked = true
		return false, nil
	}

	ok, err := ctx.Ask(true, "title", "desc")
	if err != nil || !ok || asked {
		t.Errorf("Ask with assumeYes should not prompt: ok=%v asked=%v err=%v", ok, asked, err)
	}
	ok, _ = ctx.Ask(false, "title", "desc")
	if ok || !asked {
		t.Errorf("Ask without assumeYes should use the prompt")
	}
}

func TestPerformAutomaticBackupRespectsConfig(t *testing.T) {
	ctx := setupTestContext(t)

	ctx.Config.Backup.Auto = false
	ctx.PerformAutomaticBackup()
	backups, err := ctx.BackupManager().ListBackups()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups with auto disabled, got %d", len(backups))
	}

	ctx.Config.Backup.Auto = true
	ctx.PerformAutomaticBackup()
	backups, _ = ctx.BackupManager().ListBackups()
	if len(backups) != 1 {
		t.Errorf("expected 1 automatic backup, got %d", len(backups))
	}
}
