// Package playerctl reads player state by shelling out to the playerctl tool.
package playerctl

import (
	"context"

	"github.com/kantiankant/musicwidget/internal/domain"
	"go.uber.org/zap"
)

// Binary is the status tool executable
const Binary = "playerctl"

// Source polls player state through playerctl, one invocation per field
type Source struct {
	logger *zap.Logger
	runner domain.CommandRunner
	cfg    domain.Config
}

// NewSource creates a playerctl-backed state source
func NewSource(logger *zap.Logger, runner domain.CommandRunner, cfg domain.Config) *Source {
	return &Source{
		logger: logger,
		runner: runner,
		cfg:    cfg,
	}
}

// Poll queries every field. Failed queries leave the field at its zero value.
func (s *Source) Poll(ctx context.Context) domain.Snapshot {
	return domain.Snapshot{
		Title:    s.query(ctx, "metadata", "title"),
		Artist:   s.query(ctx, "metadata", "artist"),
		Album:    s.query(ctx, "metadata", "album"),
		ArtURL:   s.query(ctx, "metadata", "mpris:artUrl"),
		Position: parseSeconds(s.query(ctx, "position")),
		// mpris:length is in microseconds
		Duration: parseSeconds(s.query(ctx, "metadata", "mpris:length")) / 1e6,
		Playing:  domain.PlayerStatus(s.query(ctx, "status")).IsPlaying(),
	}.Bounded()
}

// TogglePlayback fires play-pause and returns without waiting
func (s *Source) TogglePlayback() {
	if err := s.runner.Start(Binary, s.playerArg(), "play-pause"); err != nil {
		s.logger.Warn("Failed to toggle playback", zap.Error(err))
	}
}

func (s *Source) query(ctx context.Context, args ...string) string {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GetToolTimeout())
	defer cancel()

	out, err := s.runner.Output(ctx, Binary, append([]string{s.playerArg()}, args...)...)
	if err != nil {
		s.logger.Debug("Status query failed",
			zap.Strings("args", args),
			zap.Error(err))
	}
	return out
}

func (s *Source) playerArg() string {
	return "--player=" + s.cfg.GetPlayerName()
}
