package backup

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage/sqlite"
)

// tickingClock advances one second per call so every snapshot gets its own name.
func tickingClock() func() time.Time {
	now := time.Date(2024, 1, 5, 8, 0, 0, 0, time.Local)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func setupTestDB(t *testing.T, habits ...string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habitlog.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer store.Close()

	for _, name := range habits {
		h := models.Habit{Name: name, CreatedDate: "2024-01-01", IsActive: true, Kind: models.KindBase}
		if _, err := store.CreateHabit(context.Background(), h); err != nil {
			t.Fatalf("failed to insert habit: %v", err)
		}
	}
	return dbPath
}

func countHabits(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM habits").Scan(&count); err != nil {
		t.Fatalf("failed to count habits: %v", err)
	}
	return count
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t, "Water", "Read")

	mgr := NewManager(dbPath, WithClock(tickingClock()))
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if filepath.Dir(backupPath) != filepath.Join(filepath.Dir(dbPath), "backups") {
		t.Errorf("unexpected backup location %s", backupPath)
	}
	if got := filepath.Base(backupPath); got != "habitlog-20240105-080001.db" {
		t.Errorf("unexpected backup name %s", got)
	}
	if count := countHabits(t, backupPath); count != 2 {
		t.Errorf("expected 2 habits in backup, got %d", count)
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t, "Water")

	mgr := NewManager(dbPath, WithMaxBackups(3), WithClock(tickingClock()))
	var paths []string
	for i := 0; i < 5; i++ {
		p, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		paths = append(paths, p)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups after rotation, got %d", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups are not sorted newest first at %d", i)
		}
	}
	if backups[0].Path != paths[4] {
		t.Errorf("expected newest backup %s first, got %s", paths[4], backups[0].Path)
	}
	if _, err := os.Stat(paths[0]); !os.IsNotExist(err) {
		t.Error("expected the oldest backup to be rotated away")
	}
}

func TestListBackups(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(tickingClock()))

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected 0 backups initially, got %d", len(backups))
	}

	for i := 0; i < 3; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}
	// files that are not snapshots are ignored
	if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("expected 3 backups, got %d", len(backups))
	}
	for _, b := range backups {
		if b.Path == "" || b.Size == 0 || b.Timestamp.IsZero() {
			t.Errorf("incomplete backup info: %+v", b)
		}
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupTestDB(t)

	frozen := time.Date(2024, 1, 5, 8, 0, 0, 0, time.Local)
	mgr := NewManager(dbPath, WithClock(func() time.Time { return frozen }))

	paths := make(map[string]bool)
	for i := 0; i < 5; i++ {
		backupPath, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		name := filepath.Base(backupPath)
		if paths[name] {
			t.Errorf("duplicate backup filename: %s", name)
		}
		paths[name] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 5 {
		t.Fatalf("expected 5 backups, got %d", len(backups))
	}
	if filepath.Base(backups[0].Path) != "habitlog-20240105-080000-4.db" {
		t.Errorf("expected highest counter first, got %s", filepath.Base(backups[0].Path))
	}
}

func TestParseBackupName(t *testing.T) {
	tests := []struct {
		name        string
		wantOK      bool
		wantCounter int
	}{
		{"habitlog-20240105-080000.db", true, 0},
		{"habitlog-20240105-080000-12.db", true, 12},
		{"habitlog-20240105-080000-x.db", false, 0},
		{"habitlog-2024.db", false, 0},
		{"other-20240105-080000.db", false, 0},
		{"habitlog-20240105-080000.txt", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, counter, ok := parseBackupName(tt.name)
			if ok != tt.wantOK || counter != tt.wantCounter {
				t.Errorf("parseBackupName(%s) = %d, %v; want %d, %v", tt.name, counter, ok, tt.wantCounter, tt.wantOK)
			}
		})
	}
}

func TestVerifyBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(tickingClock()))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if err := verifyBackup(backupPath); err != nil {
		t.Errorf("verifyBackup failed for valid backup: %v", err)
	}

	invalidPath := filepath.Join(mgr.GetBackupDir(), "invalid.db")
	if err := os.WriteFile(invalidPath, []byte("not a database"), 0600); err != nil {
		t.Fatalf("failed to create invalid file: %v", err)
	}
	if err := verifyBackup(invalidPath); err == nil {
		t.Error("verifyBackup should fail for invalid backup")
	}

	// a valid SQLite file without the habit schema
	foreign := filepath.Join(t.TempDir(), "foreign.db")
	db, err := sql.Open("sqlite", foreign)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE tasks (id TEXT)"); err != nil {
		t.Fatal(err)
	}
	db.Close()
	if err := verifyBackup(foreign); err == nil {
		t.Error("verifyBackup should fail for a database without habits")
	}
}

func TestBackupWithNoDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "nonexistent.db"))
	if _, err := mgr.CreateBackup(); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("expected ErrNoDatabase, got %v", err)
	}
}
