package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/minjae-ko/gyomucal/internal/cli"
	"github.com/minjae-ko/gyomucal/internal/db"
	"github.com/minjae-ko/gyomucal/internal/events"
	"github.com/minjae-ko/gyomucal/internal/llm"
	"github.com/minjae-ko/gyomucal/internal/planner"
	"github.com/minjae-ko/gyomucal/internal/repository"
	"github.com/minjae-ko/gyomucal/internal/schedule"
	"github.com/minjae-ko/gyomucal/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.BasePath)
	if err != nil {
		return err
	}

	builtins := schedule.Builtin(time.Now().Year(), os.Stderr)

	database, err := db.OpenDB(filepath.Join(cfg.BasePath, "descriptions.db"))
	if err != nil {
		return fmt.Errorf("opening description cache: %w", err)
	}
	defer database.Close()
	descRepo := repository.NewSQLiteDescriptionRepo(database)

	// Persisted settings first, env vars on top.
	settings := st.Settings()
	llmCfg := llm.DefaultConfig()
	if cfg.Provider != "" {
		llmCfg.Preference = cfg.Provider
	}
	if settings.Provider != "" {
		llmCfg.Preference = settings.Provider
	}
	llmCfg.GeminiKey = settings.GeminiKey
	llmCfg.OpenRouterKey = settings.OpenRouterKey
	llmCfg.OpenRouterModel = settings.Model
	llmCfg.ApplyEnv()

	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		observer = llm.NewLogObserver(os.Stderr)
	}

	// No key means AI commands report their own error; the rest of the
	// calendar works without a provider.
	provider, _ := llm.Select(llmCfg, observer)

	describer := planner.NewDescriber(provider, descRepo)
	eventSvc := events.NewService(st, builtins, describer)

	app := &cli.App{
		Store:     st,
		Events:    eventSvc,
		Planner:   planner.NewPipeline(provider, eventSvc, nil, nil),
		Describer: describer,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
