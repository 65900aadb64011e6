package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/utils"
)

// Config is the on-disk configuration for habitlog.
type Config struct {
	DBPath   string       `toml:"db_path"`
	Timezone string       `toml:"timezone"`
	Debug    bool         `toml:"debug"`
	Server   ServerConfig `toml:"server"`
	Backup   BackupConfig `toml:"backup"`
}

// ServerConfig holds settings for `habitlog serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// BackupConfig controls database snapshots.
type BackupConfig struct {
	MaxBackups int  `toml:"max_backups"`
	Auto       bool `toml:"auto"` // snapshot before destructive habit operations
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DBPath:   constants.DefaultDBPath,
		Timezone: constants.DefaultTimezone,
		Server: ServerConfig{
			Addr:           constants.DefaultServerAddr,
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Backup: BackupConfig{
			MaxBackups: constants.MaxBackups,
			Auto:       true,
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader on top of the defaults.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	expanded, err := utils.ExpandHome(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(expanded)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		return cfg, cfg.normalize()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", expanded, err)
	}
	return cfg, cfg.normalize()
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	expanded, err := utils.ExpandHome(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(expanded)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", expanded, err)
	}
	return nil
}

// normalize expands paths and validates values.
func (c *Config) normalize() error {
	if c.DBPath == "" {
		c.DBPath = constants.DefaultDBPath
	}
	p, err := utils.ExpandHome(c.DBPath)
	if err != nil {
		return err
	}
	c.DBPath = p

	if c.Timezone == "" {
		c.Timezone = constants.DefaultTimezone
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q in config", c.Timezone)
	}
	if c.Server.Addr == "" {
		c.Server.Addr = constants.DefaultServerAddr
	}
	if c.Backup.MaxBackups <= 0 {
		c.Backup.MaxBackups = constants.MaxBackups
	}
	return nil
}

// Dir returns the directory holding the database, which also hosts logs and backups.
func (c *Config) Dir() string {
	return filepath.Dir(c.DBPath)
}
