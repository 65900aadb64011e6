package system

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/config"
	"github.com/julianstephens/habitlog/internal/utils"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting existing database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()

	if c.Force {
		if _, err := os.Stat(dbPath); err == nil {
			// Close first to release the file handle
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
				if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("failed to delete existing database: %w", err)
				}
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitlog storage at: %s\n", dbPath)

	if ctx.ConfigPath == "" {
		return nil
	}
	written, err := writeDefaultConfig(ctx.ConfigPath, ctx.Config)
	if err != nil {
		return err
	}
	if written {
		ctx.Printf("Wrote configuration to: %s\n", ctx.ConfigPath)
	}
	return nil
}

// writeDefaultConfig saves cfg to path unless a config file already exists.
func writeDefaultConfig(path string, cfg *config.Config) (bool, error) {
	expanded, err := utils.ExpandHome(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(expanded); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to access config file: %w", err)
	}

	if cfg == nil {
		cfg = config.Default()
	}
	if err := config.Save(expanded, cfg); err != nil {
		return false, err
	}
	return true, nil
}
