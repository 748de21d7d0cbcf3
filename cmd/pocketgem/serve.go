package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/pocketgem/internal/bootstrap"
	"github.com/at-ishikawa/pocketgem/internal/server"
)

func newServeCommand() *cobra.Command {
	var port int
	command := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /ask and GET /metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), port)
		},
	}
	command.Flags().IntVar(&port, "port", 0, "port to listen on (overrides server.port)")

	return command
}

func runServer(ctx context.Context, portOverride int) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}
	port := cfg.Server.Port
	if portOverride > 0 {
		port = portOverride
	}

	client := newClient(cfg)
	app.AddShutdownHook(func(ctx context.Context) error {
		return client.Close()
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           server.NewHTTPHandler(server.NewAskHandler(client), version),
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.AddShutdownHook(srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Default().Info("starting server", "addr", srv.Addr, "mode", cfg.Gemini.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe() > %w", err)
		}
		return nil
	})
}
