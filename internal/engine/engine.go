package engine

import (
	"context"
	"errors"
	"time"

	"github.com/kantiankant/musicwidget/internal/domain"
	"github.com/kantiankant/musicwidget/internal/input"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var errClosed = errors.New("surface closed")

// Engine runs the widget event loop.
// It merges compositor events with a fixed-interval poll of the player and
// owns the application state: nothing else mutates it.
type Engine struct {
	logger     *zap.Logger
	cfg        domain.Config
	session    domain.Session
	source     domain.StateSource
	renderer   domain.Renderer
	input      *input.Controller
	shutdowner fx.Shutdowner

	state  domain.AppState
	cancel context.CancelFunc
	done   chan struct{}
}

// NewEngine creates a new event loop
func NewEngine(
	logger *zap.Logger,
	cfg domain.Config,
	session domain.Session,
	source domain.StateSource,
	renderer domain.Renderer,
	ctrl *input.Controller,
	shutdowner fx.Shutdowner,
) *Engine {
	return &Engine{
		logger:     logger,
		cfg:        cfg,
		session:    session,
		source:     source,
		renderer:   renderer,
		input:      ctrl,
		shutdowner: shutdowner,
	}
}

// Start launches the loop in a goroutine.
// It returns immediately (non-blocking). The session must already be connected.
func (e *Engine) Start(_ context.Context) error {
	e.logger.Info("Engine starting...")

	// The start context expires once fx finishes starting, the loop outlives it
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})

	go e.runLoop(ctx)
	return nil
}

// Stop cancels the loop and waits for it to return
func (e *Engine) Stop(ctx context.Context) error {
	e.logger.Info("Engine stopping...")
	if e.cancel == nil {
		return nil
	}
	e.cancel()

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) runLoop(ctx context.Context) {
	defer close(e.done)

	interval := e.cfg.GetPollInterval()
	events := e.session.Events()

	lastPoll := time.Now()
	if err := e.poll(ctx); err != nil {
		e.fail(ctx, "Initial render failed", err)
		return
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		if err := e.session.Flush(); err != nil {
			e.fail(ctx, "Failed to flush compositor requests", err)
			return
		}

		remaining := max(interval-time.Since(lastPoll), 0)
		timer.Reset(remaining)

		select {
		case <-ctx.Done():
			e.logger.Info("Engine loop stopped")
			return

		case ev, ok := <-events:
			if !ok {
				e.fail(ctx, "Compositor connection lost", nil)
				return
			}
			if !e.dispatchAll(ctx, ev, events) {
				return
			}

		case <-timer.C:
		}

		if time.Since(lastPoll) < interval {
			continue
		}
		lastPoll = time.Now()

		if err := e.tick(ctx); err != nil {
			e.fail(ctx, "Failed to present frame", err)
			return
		}
	}
}

// dispatchAll handles ev and then every event already queued behind it.
// It returns false once the loop must stop.
func (e *Engine) dispatchAll(ctx context.Context, ev domain.Event, events <-chan domain.Event) bool {
	for {
		if err := e.dispatch(ctx, ev); err != nil {
			if errors.Is(err, errClosed) {
				e.fail(ctx, "Surface closed by compositor", nil)
			} else {
				e.fail(ctx, "Failed to handle compositor event", err)
			}
			return false
		}

		var ok bool
		select {
		case ev, ok = <-events:
			if !ok {
				e.fail(ctx, "Compositor connection lost", nil)
				return false
			}
		default:
			return true
		}
	}
}

func (e *Engine) dispatch(ctx context.Context, ev domain.Event) error {
	switch ev := ev.(type) {
	case domain.EnterEvent:
		e.input.HandleEnter(&e.state, ev)

	case domain.MotionEvent:
		e.input.HandleMotion(&e.state, ev)

	case domain.ButtonEvent:
		var err error
		e.input.HandleButton(&e.state, ev, func() {
			if err = e.redraw(ctx); err == nil {
				err = e.session.Flush()
			}
		})
		return err

	case domain.ConfigureEvent:
		e.logger.Debug("Surface configured",
			zap.Uint32("width", ev.Width),
			zap.Uint32("height", ev.Height))
		return e.redraw(ctx)

	case domain.ClosedEvent:
		return errClosed
	}
	return nil
}

// tick runs one poll deadline: skipped while a click suppression window is open
func (e *Engine) tick(ctx context.Context) error {
	if e.state.Transport.SuppressTicks > 0 {
		e.state.Transport.SuppressTicks--
		return nil
	}
	return e.poll(ctx)
}

// poll replaces the snapshot and lets the polled state overwrite the displayed one
func (e *Engine) poll(ctx context.Context) error {
	e.state.Snapshot = e.source.Poll(ctx)
	e.state.Transport.Playing = e.state.Snapshot.Playing
	return e.redraw(ctx)
}

func (e *Engine) redraw(ctx context.Context) error {
	return e.session.Present(e.renderer.Render(ctx, &e.state))
}

// fail stops the application unless the loop is already being cancelled
func (e *Engine) fail(ctx context.Context, msg string, err error) {
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		e.logger.Error(msg, zap.Error(err))
	} else {
		e.logger.Info(msg)
	}
	if err := e.shutdowner.Shutdown(); err != nil {
		e.logger.Error("Failed to request shutdown", zap.Error(err))
	}
}
