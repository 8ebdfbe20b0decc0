package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kantiankant/musicwidget/internal/artwork"
	"github.com/kantiankant/musicwidget/internal/config"
	"github.com/kantiankant/musicwidget/internal/domain"
	"github.com/kantiankant/musicwidget/internal/engine"
	"github.com/kantiankant/musicwidget/internal/executor"
	"github.com/kantiankant/musicwidget/internal/fetcher"
	"github.com/kantiankant/musicwidget/internal/input"
	"github.com/kantiankant/musicwidget/internal/mpris"
	"github.com/kantiankant/musicwidget/internal/playerctl"
	"github.com/kantiankant/musicwidget/internal/render"
	"github.com/kantiankant/musicwidget/internal/wayland"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const stopTimeout = 5 * time.Second

// AppOptions is the complete application graph
var AppOptions = fx.Options(
	// Logger configuration
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),

	// Provide dependencies
	fx.Provide(
		newLogger,
		fx.Annotate(config.NewAppConfig, fx.As(new(domain.Config))),
		fx.Annotate(executor.NewRunner, fx.As(new(domain.CommandRunner))),
		fx.Annotate(executor.NewConverter, fx.As(new(domain.Converter))),
		fx.Annotate(fetcher.NewHTTPFetcher, fx.As(new(domain.Fetcher))),
		fx.Annotate(artwork.NewResolver, fx.As(new(domain.ArtworkResolver))),
		fx.Annotate(render.NewRenderer, fx.As(new(domain.Renderer))),
		fx.Annotate(wayland.NewSession, fx.As(new(domain.Session))),
		newPlayerBackend,
		newCursorSetter,
		input.NewController,
		engine.NewEngine,
	),

	// Lifecycle hooks
	fx.Invoke(registerHooks),
)

func main() {
	app := fx.New(AppOptions)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "musicwidget: %v\n", err)
		os.Exit(1)
	}

	// Run until interrupted or until the event loop gives up
	select {
	case <-ctx.Done():
	case <-app.Wait():
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "musicwidget: %v\n", err)
	}
}

// newLogger creates a new zap logger instance
func newLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// playerBackend exposes one implementation as both the state source and the toggler
type playerBackend struct {
	fx.Out

	Source  domain.StateSource
	Toggler domain.Toggler
}

type backend interface {
	domain.StateSource
	domain.Toggler
}

// newPlayerBackend prefers the playerctl tool and falls back to talking
// MPRIS over the session bus when it is not installed.
func newPlayerBackend(lc fx.Lifecycle, logger *zap.Logger, runner domain.CommandRunner, cfg domain.Config) playerBackend {
	var b backend = playerctl.NewSource(logger, runner, cfg)

	if !runner.Exists(playerctl.Binary) {
		src, err := mpris.Connect(logger, cfg.GetPlayerName())
		if err != nil {
			logger.Warn("playerctl not found and session bus unavailable, player state will stay empty",
				zap.Error(err))
		} else {
			logger.Info("playerctl not found, reading player state over D-Bus")
			lc.Append(fx.StopHook(src.Close))
			b = src
		}
	}

	return playerBackend{Source: b, Toggler: b}
}

func newCursorSetter(s domain.Session) input.CursorSetter {
	return s
}

// registerHooks connects to the compositor and runs the event loop
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, session domain.Session, eng *engine.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := session.Connect(ctx); err != nil {
				_ = session.Close()
				return fmt.Errorf("failed to connect to the compositor: %w", err)
			}
			logger.Info("Music widget started")
			return eng.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			if err := eng.Stop(ctx); err != nil {
				logger.Warn("Engine did not stop cleanly", zap.Error(err))
			}
			return session.Close()
		},
	})
}
