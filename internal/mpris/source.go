// Package mpris reads player state directly from the session bus.
// It backs the widget when the playerctl tool is not installed.
package mpris

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/kantiankant/musicwidget/internal/domain"
	"go.uber.org/zap"
)

const (
	busPrefix   = "org.mpris.MediaPlayer2."
	objectPath  = "/org/mpris/MediaPlayer2"
	playerIface = "org.mpris.MediaPlayer2.Player"
)

// Source polls an MPRIS player over D-Bus
type Source struct {
	logger  *zap.Logger
	conn    DBusClient // Interface for testability
	busName string
}

// NewSource creates a source bound to org.mpris.MediaPlayer2.<player>
func NewSource(logger *zap.Logger, conn DBusClient, player string) *Source {
	return &Source{
		logger:  logger,
		conn:    conn,
		busName: busPrefix + player,
	}
}

// Connect opens the session bus and returns a source for player
func Connect(logger *zap.Logger, player string) (*Source, error) {
	conn, err := NewStdDBusClient()
	if err != nil {
		return nil, fmt.Errorf("session bus connection failed: %w", err)
	}
	src := NewSource(logger, conn, player)
	if err := src.detectPlayer(); err != nil {
		logger.Warn("Failed to detect MPRIS player", zap.Error(err))
	}
	return src, nil
}

// Close closes the bus connection
func (s *Source) Close() error {
	return s.conn.Close()
}

// detectPlayer logs whether the target player is currently on the bus.
// Absence is fine: the player may start later and polling picks it up.
func (s *Source) detectPlayer() error {
	names, err := s.conn.ListNames()
	if err != nil {
		return fmt.Errorf("failed to list bus names: %w", err)
	}

	players := 0
	for _, name := range names {
		if !strings.HasPrefix(name, busPrefix) {
			continue
		}
		players++
		if name != s.busName {
			continue
		}
		owner, err := s.conn.GetNameOwner(name)
		if err != nil {
			owner = "unknown"
		}
		s.logger.Info("Target MPRIS player found",
			zap.String("name", name),
			zap.String("unique", owner))
		return nil
	}

	s.logger.Info("Target MPRIS player not running yet",
		zap.String("name", s.busName),
		zap.Int("otherPlayers", players))
	return nil
}

// Poll reads metadata, position and status. Any failure degrades to zero values.
func (s *Source) Poll(ctx context.Context) domain.Snapshot {
	var snap domain.Snapshot

	if v, err := s.property("Metadata"); err == nil {
		metadata, ok := v.Value().(map[string]dbus.Variant)
		if ok {
			s.parseMetadata(metadata, &snap)
		}
	} else {
		s.logger.Debug("Failed to get metadata", zap.Error(err))
	}

	if v, err := s.property("Position"); err == nil {
		snap.Position = microsToSeconds(v.Value())
	}

	if v, err := s.property("PlaybackStatus"); err == nil {
		status, _ := v.Value().(string)
		snap.Playing = domain.PlayerStatus(status).IsPlaying()
	}

	return snap.Bounded()
}

// TogglePlayback calls PlayPause without waiting for the reply
func (s *Source) TogglePlayback() {
	go func() {
		if err := s.conn.Call(s.busName, objectPath, playerIface+".PlayPause"); err != nil {
			s.logger.Warn("Failed to toggle playback", zap.Error(err))
		}
	}()
}

func (s *Source) property(name string) (dbus.Variant, error) {
	return s.conn.GetProperty(s.busName, objectPath, playerIface+"."+name)
}

// parseMetadata copies MPRIS metadata into the snapshot
func (s *Source) parseMetadata(metadata map[string]dbus.Variant, snap *domain.Snapshot) {
	if titleVar, ok := metadata["xesam:title"]; ok {
		if title, ok := titleVar.Value().(string); ok {
			snap.Title = title
		}
	}

	// Artist is usually an array
	if artistVar, ok := metadata["xesam:artist"]; ok {
		switch artists := artistVar.Value().(type) {
		case []string:
			if len(artists) > 0 {
				snap.Artist = artists[0]
			}
		case string:
			snap.Artist = artists
		default:
			s.logger.Debug("Unexpected artist type in metadata",
				zap.String("type", fmt.Sprintf("%T", artistVar.Value())))
		}
	}

	if albumVar, ok := metadata["xesam:album"]; ok {
		if album, ok := albumVar.Value().(string); ok {
			snap.Album = album
		}
	}

	if artVar, ok := metadata["mpris:artUrl"]; ok {
		if artURL, ok := artVar.Value().(string); ok {
			snap.ArtURL = artURL
		}
	}

	if lengthVar, ok := metadata["mpris:length"]; ok {
		snap.Duration = microsToSeconds(lengthVar.Value())
	}
}

// microsToSeconds accepts the integer types players use for mpris:length
func microsToSeconds(v interface{}) float64 {
	var us float64
	switch n := v.(type) {
	case int64:
		us = float64(n)
	case uint64:
		us = float64(n)
	case int32:
		us = float64(n)
	case uint32:
		us = float64(n)
	case float64:
		us = n
	default:
		return 0
	}
	if us < 0 || math.IsNaN(us) || math.IsInf(us, 0) {
		return 0
	}
	return us / 1e6
}
