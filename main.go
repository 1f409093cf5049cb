package main

import (
	"fmt"
	"os"

	"ember/internal/config"
	"ember/internal/db"
	"ember/internal/engine"
	"ember/internal/llm"
	"ember/internal/models"
	"ember/internal/session"
	"ember/internal/tools"
	"ember/internal/ui"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.LogPath, cfg.Debug)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := llm.New(cfg.BaseURL, cfg.APIKey)
	state := models.NewState(cfg.Model, cfg.UnloadPrevious)

	registry := tools.NewRegistry()
	registry.MustRegister(
		tools.Add,
		tools.ReadFile,
		tools.WriteFile,
		tools.NewListModels(client),
		tools.NewSetModel(client, state),
	)

	// The audit log is best effort: a read-only home directory should not
	// keep the chat from starting.
	var audit engine.Audit
	auditLog, dbErr := db.OpenEmberDB()
	if dbErr == nil {
		audit = auditLog
		defer auditLog.Close()
	}

	eng := engine.New(engine.Options{
		Transport: client,
		Registry:  registry,
		Session:   session.New(cfg.SystemPrompt),
		State:     state,
		Audit:     audit,
		Logger:    logger,
		Config: engine.Config{
			MaxToolRounds: cfg.MaxToolRounds,
			Stream:        cfg.Stream,
			UseTools:      cfg.UseTools,
		},
	})
	worker := engine.NewWorker(eng, logger)

	p := ui.NewProgram(cfg, eng, worker)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
