package main

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/kantiankant/musicwidget/internal/domain"
	"go.uber.org/fx"
)

// TestAppGraphValidity verifies that the dependency graph is resolvable.
// This test will fail if you forget an fx.Provide for a required interface.
func TestAppGraphValidity(t *testing.T) {
	if err := fx.ValidateApp(AppOptions); err != nil {
		t.Errorf("Dependency graph is not valid: %v", err)
	}
}

// TestNewLogger specifically verifies the logger configuration
func TestNewLogger(t *testing.T) {
	logger, err := newLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger should not be nil")
	}
	logger.Info("Test logger initialization")
}

// headlessSession stands in for the compositor
type headlessSession struct {
	events   chan domain.Event
	presents chan struct{}
	closed   bool
}

func (s *headlessSession) Connect(ctx context.Context) error    { return nil }
func (s *headlessSession) Events() <-chan domain.Event          { return s.events }
func (s *headlessSession) Flush() error                         { return nil }
func (s *headlessSession) SetCursor(uint32, domain.CursorShape) {}

func (s *headlessSession) Present(*image.RGBA) error {
	select {
	case s.presents <- struct{}{}:
	default:
	}
	return nil
}

func (s *headlessSession) Close() error {
	s.closed = true
	return nil
}

// isolate keeps the test away from real player tools and the session bus
func isolate(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "unix:path="+t.TempDir()+"/missing")
}

// TestEndToEndStartup starts the whole graph against a headless session
func TestEndToEndStartup(t *testing.T) {
	isolate(t)
	session := &headlessSession{
		events:   make(chan domain.Event, 1),
		presents: make(chan struct{}, 1),
	}

	app := fx.New(
		AppOptions,
		fx.Decorate(func() domain.Session { return session }),
		fx.NopLogger, // Silence Fx logs during tests
	)

	if err := app.Start(testContext(t)); err != nil {
		t.Fatalf("App failed to start: %v", err)
	}

	// The first frame is presented without waiting for the poll interval
	select {
	case <-session.presents:
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout: no frame presented")
	}

	if err := app.Stop(testContext(t)); err != nil {
		t.Fatalf("App failed to stop: %v", err)
	}
	if !session.closed {
		t.Error("Session was not closed on stop")
	}
}

// TestCompositorClosesSurface verifies that a closed surface shuts the app down
func TestCompositorClosesSurface(t *testing.T) {
	isolate(t)
	session := &headlessSession{
		events:   make(chan domain.Event, 1),
		presents: make(chan struct{}, 1),
	}

	app := fx.New(
		AppOptions,
		fx.Decorate(func() domain.Session { return session }),
		fx.NopLogger,
	)
	if err := app.Start(testContext(t)); err != nil {
		t.Fatalf("App failed to start: %v", err)
	}

	session.events <- domain.ClosedEvent{}

	select {
	case <-app.Wait():
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout: app did not request shutdown")
	}

	if err := app.Stop(testContext(t)); err != nil {
		t.Fatalf("App failed to stop: %v", err)
	}
}

// testContext mirrors testing.T.Context (Go 1.24+): a context canceled when the test ends.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
