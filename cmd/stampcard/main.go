package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"stampcard/internal/appstate"
	"stampcard/internal/assets"
	"stampcard/internal/cache"
	"stampcard/internal/cli"
	"stampcard/internal/config"
	"stampcard/internal/engine"
	"stampcard/internal/logger"
	"stampcard/internal/seed"
	"stampcard/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Db      string `help:"Store file path (overrides STAMPCARD_DB)." default:""`
	Debug   bool   `help:"Enable debug logging."`
	Memory  bool   `help:"Use a volatile in-memory store."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize storage and seed defaults."`
	Goal     cli.GoalCmd     `cmd:"" help:"Manage goals."`
	Stamp    cli.StampCmd    `cmd:"" help:"Record a completion stamp for a goal."`
	Stats    cli.StatsCmd    `cmd:"" help:"Show progress statistics for a goal."`
	Trainer  cli.TrainerCmd  `cmd:"" help:"Manage trainer personas."`
	Settings cli.SettingsCmd `cmd:"" help:"Manage application settings."`
	Reset    cli.ResetCmd    `cmd:"" help:"Wipe all data and reseed defaults."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run storage health checks."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("stampcard"),
		kong.Description("Local-first habit tracker: goals, daily stamps, streaks and trainer personas"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": "v1.0.0"},
	)

	cfg := config.Load()
	if CLI.Db != "" {
		cfg.DBPath = CLI.Db
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if CLI.Memory {
		cfg.InMemory = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, DataDir: cfg.DataDir}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
	}

	// Backend selection happens exactly once; everything above the store
	// sees only the Provider interface. Open never fails, it degrades.
	store := storage.Open(storage.Capability{
		DurableFS: !cfg.InMemory,
		Path:      cfg.DBPath,
		InMemory:  cfg.InMemory,
	})
	defer store.Close()

	// Bootstrap runs unconditionally; it is a no-op on populated tables.
	// In degraded mode it fails, which is logged and tolerated so read
	// commands still work.
	if err := seed.Bootstrap(store); err != nil {
		logger.Warn("bootstrap skipped", "error", err)
	}

	readCache := cache.New(cache.DefaultTTL)
	svc := engine.New(store, readCache)
	state := appstate.New(store, readCache)
	if err := state.Refresh(); err != nil {
		logger.Warn("initial refresh failed", "error", err)
	}

	err := ctx.Run(&cli.Context{
		Store:  store,
		Engine: svc,
		State:  state,
		Player: &assets.TextPlayer{Out: os.Stdout},
	})
	if err != nil {
		logger.Error("command failed", "error", err)
		// os.Exit skips deferred calls; release the store first.
		store.Close()
		os.Exit(1)
	}
}
