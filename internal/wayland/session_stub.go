//go:build !linux
// +build !linux

package wayland

import (
	"context"
	"errors"
	"image"

	"github.com/kantiankant/musicwidget/internal/domain"
	"go.uber.org/zap"
)

// Session stub for non-Linux platforms
type Session struct {
	logger *zap.Logger
	events chan domain.Event
}

// NewSession creates a stub session that fails to connect on non-Linux platforms
func NewSession(logger *zap.Logger) *Session {
	events := make(chan domain.Event)
	close(events)
	return &Session{logger: logger, events: events}
}

func (s *Session) Connect(ctx context.Context) error {
	return errors.New("layer-shell overlays are only supported on Linux")
}

func (s *Session) Events() <-chan domain.Event          { return s.events }
func (s *Session) Flush() error                         { return nil }
func (s *Session) Present(*image.RGBA) error            { return nil }
func (s *Session) SetCursor(uint32, domain.CursorShape) {}
func (s *Session) Close() error                         { return nil }
