package main

import (
	"fmt"

	"github.com/at-ishikawa/pocketgem/internal/config"
	"github.com/at-ishikawa/pocketgem/internal/diaglog"
	"github.com/at-ishikawa/pocketgem/internal/inference/gemini"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loader.Load() > %w", err)
	}
	if debugLog {
		cfg.DebugLog.Enabled = true
	}
	return cfg, nil
}

// newClient creates the Gemini client. The caller owns it and must Close it.
func newClient(cfg *config.Config) *gemini.Client {
	transport := gemini.NewRestyTransport(cfg.Gemini.Timeout, cfg.Gemini.UserAgent)
	diagLog := diaglog.OpenIfEnabled(cfg.DebugLog.Enabled, cfg.DebugLog.Path)
	return gemini.NewClient(
		transport,
		cfg.Gemini.Endpoint,
		cfg.Gemini.APIKey,
		gemini.WithMode(gemini.Mode(cfg.Gemini.Mode)),
		gemini.WithDiagnosticLog(diagLog),
	)
}
