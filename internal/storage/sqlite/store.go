package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/migration"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/migrations"
)

var _ storage.Provider = (*Store)(nil)

// Store is the SQLite-backed habit store. One Store owns one database file;
// construct it once at startup and share the handle.
type Store struct {
	path string
	db   *sql.DB

	initOnce sync.Once
	initErr  error
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// Init opens the database and applies pending migrations. It is safe to call
// from several goroutines; the work runs exactly once and every caller sees
// the same result.
func (s *Store) Init() error {
	s.initOnce.Do(func() {
		s.initErr = s.init()
	})
	return s.initErr
}

func (s *Store) init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// single writer: every statement runs on the same connection, in order
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to open database %s: %w", s.path, err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		db.Close()
		s.db = nil
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Debug("Habit store initialized", "path", s.path)
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, constants.MigrationsSubdir)
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

// SchemaVersion reports the applied schema version.
func (s *Store) SchemaVersion() (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("store not initialized")
	}
	subFS, err := fs.Sub(migrations.FS, constants.MigrationsSubdir)
	if err != nil {
		return 0, err
	}
	return migration.NewRunner(s.db, subFS).GetCurrentVersion()
}

// tableExists checks if a table exists in the SQLite database.
// The check is case-insensitive to match SQLite's behavior.
func (s *Store) tableExists(tableName string) (bool, error) {
	var count int
	row := s.db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", tableName)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Init.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
