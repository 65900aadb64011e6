package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/cli/backups"
	"github.com/julianstephens/habitlog/internal/cli/days"
	"github.com/julianstephens/habitlog/internal/cli/habits"
	"github.com/julianstephens/habitlog/internal/cli/system"
	"github.com/julianstephens/habitlog/internal/config"
	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/errors"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/storage/sqlite"
	"github.com/julianstephens/habitlog/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path." type:"string" default:"~/.config/habitlog/config.toml"`
	DB       string `help:"Database path (overrides db_path from the config)." type:"string" name:"db"`
	Timezone string `help:"IANA timezone used to decide what today is (overrides the config)."`
	Debug    bool   `help:"Enable debug logging to stderr."`

	Init     system.InitCmd   `cmd:"" help:"Initialize habitlog storage."`
	Tui      system.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Serve    system.ServeCmd  `cmd:"" help:"Serve the JSON API."`
	Today    days.TodayCmd    `cmd:"" help:"Show today's habits and mood."`
	Day      days.DayCmd      `cmd:"" help:"Show the habits and mood of a day."`
	Mood     days.MoodCmd     `cmd:"" help:"Record the mood of a day."`
	Calendar days.CalendarCmd `cmd:"" help:"Show a month of daily records."`
	Habit    habits.HabitCmd  `cmd:"" help:"Manage habits and habit tracking."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily habit and mood tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err))
		os.Exit(1)
	}
	if err := applyOverrides(cfg); err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err))
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.Dir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store := sqlite.NewStore(cfg.DBPath)
	defer store.Close()

	// init opens the store itself so --force can remove the file first
	if ctx.Selected() == nil || ctx.Selected().Name != "init" {
		if err := store.Init(); err != nil {
			errors.Fatal(err)
		}
	}

	appCtx := cli.NewContext(store, cfg, CLI.Config)
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

// applyOverrides layers command line flags over the loaded config.
func applyOverrides(cfg *config.Config) error {
	if CLI.DB != "" {
		p, err := utils.ExpandHome(CLI.DB)
		if err != nil {
			return err
		}
		cfg.DBPath = p
	}
	if CLI.Timezone != "" {
		if !utils.ValidateTimezone(CLI.Timezone) {
			return fmt.Errorf("invalid timezone %q", CLI.Timezone)
		}
		cfg.Timezone = CLI.Timezone
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	return nil
}
