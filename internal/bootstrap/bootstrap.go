// Package bootstrap runs a long-lived command until it returns or the
// process is asked to stop, then releases what it registered.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const DefaultShutdownTimeout = 5 * time.Second

// App runs shutdown hooks in reverse registration order.
type App struct {
	mu              sync.Mutex
	hooks           []func(ctx context.Context) error
	signals         []os.Signal
	shutdownTimeout time.Duration
}

func New() *App {
	return &App{
		signals:         []os.Signal{os.Interrupt, syscall.SIGTERM},
		shutdownTimeout: DefaultShutdownTimeout,
	}
}

// AddShutdownHook is safe to call from inside the run function.
func (a *App) AddShutdownHook(fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// Run calls run and waits. When ctx is canceled or a stop signal arrives,
// the hooks are run and their joined error is returned. If run returns
// first, the hooks are also run and run's error takes precedence.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, a.signals...)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Default().Info("shutting down", "reason", context.Cause(ctx))
		return a.shutdown()
	case err := <-errCh:
		return errors.Join(err, a.shutdown())
	}
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	a.mu.Lock()
	hooks := a.hooks
	a.hooks = nil
	a.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			slog.Default().Warn("shutdown hook failed", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
