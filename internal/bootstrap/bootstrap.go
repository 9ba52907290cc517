// Package bootstrap runs a command with cleanup that happens on both normal exit and interrupt.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
)

type hook struct {
	name string
	fn   func(ctx context.Context) error
}

// App owns the resources of one command run.
type App struct {
	mu     sync.Mutex
	hooks  []hook
	done   bool
	logger *slog.Logger
}

func New(logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{logger: logger}
}

// AddShutdownHook registers fn to run when Run returns. Hooks run in reverse order.
func (a *App) AddShutdownHook(name string, fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, hook{name: name, fn: fn})
}

// Run executes run until it returns or the process is interrupted, then runs the shutdown hooks.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("interrupted, shutting down")
	case runErr = <-errCh:
	}
	return errors.Join(runErr, a.Shutdown(context.WithoutCancel(ctx)))
}

// Shutdown runs the registered hooks once.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done {
		return nil
	}
	a.done = true

	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		h := a.hooks[i]
		a.logger.Debug("running shutdown hook", slog.String("hook", h.name))
		if err := h.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
		}
	}
	return errors.Join(errs...)
}
