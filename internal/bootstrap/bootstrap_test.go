package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApp_Run(t *testing.T) {
	t.Run("run returns nil", func(t *testing.T) {
		app := New(nil)
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("run returns error", func(t *testing.T) {
		app := New(nil)
		want := errors.New("run failed")
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return want
		})
		assert.ErrorIs(t, err, want)
	})

	t.Run("hooks run in LIFO order after run returns", func(t *testing.T) {
		app := New(nil)
		var order []string
		for _, name := range []string{"first", "second", "third"} {
			app.AddShutdownHook(name, func(ctx context.Context) error {
				order = append(order, name)
				return nil
			})
		}

		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, []string{"third", "second", "first"}, order)
	})

	t.Run("hooks run on context cancel", func(t *testing.T) {
		app := New(nil)
		var mu sync.Mutex
		called := false
		app.AddShutdownHook("close", func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			called = true
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		err := app.Run(ctx, func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		})
		assert.NoError(t, err)
		mu.Lock()
		defer mu.Unlock()
		assert.True(t, called)
	})

	t.Run("hook errors are joined with the run error", func(t *testing.T) {
		app := New(nil)
		runErr := errors.New("run failed")
		hookErr := errors.New("close failed")
		app.AddShutdownHook("db", func(ctx context.Context) error {
			return hookErr
		})

		err := app.Run(context.Background(), func(ctx context.Context) error {
			return runErr
		})
		assert.ErrorIs(t, err, runErr)
		assert.ErrorIs(t, err, hookErr)
		assert.ErrorContains(t, err, "db: close failed")
	})
}

func TestApp_Shutdown(t *testing.T) {
	app := New(nil)
	calls := 0
	app.AddShutdownHook("count", func(ctx context.Context) error {
		calls++
		return nil
	})

	assert.NoError(t, app.Shutdown(context.Background()))
	assert.NoError(t, app.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)
}
