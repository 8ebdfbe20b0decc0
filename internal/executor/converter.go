package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kantiankant/musicwidget/internal/domain"
	"go.uber.org/zap"
)

// ErrNoConverter is returned when no image converter was found on this system
var ErrNoConverter = errors.New("no supported image converter found")

// ConverterCommand represents a detected image conversion command
type ConverterCommand struct {
	Name   string
	Binary string
	Args   []string // {src} and {dst} are replaced with the file paths
}

var (
	// Ordered list of converters to try (highest priority first)
	converterCommands = []ConverterCommand{
		// Only the first frame of animated or multi-image sources is kept
		{Name: "ffmpeg", Binary: "ffmpeg", Args: []string{"-y", "-loglevel", "error", "-i", "{src}", "-frames:v", "1", "{dst}"}},
		// ImageMagick 7
		{Name: "magick", Binary: "magick", Args: []string{"{src}[0]", "{dst}"}},
		// ImageMagick 6
		{Name: "convert", Binary: "convert", Args: []string{"{src}[0]", "{dst}"}},
	}
)

// CommandConverter converts artwork files with an external program
type CommandConverter struct {
	logger  *zap.Logger
	runner  domain.CommandRunner
	command ConverterCommand
}

// NewConverter detects the best available converter.
// A missing converter is not fatal: every conversion then fails and the
// widget shows the artwork placeholder.
func NewConverter(logger *zap.Logger, runner domain.CommandRunner) *CommandConverter {
	cmd := detectConverter(runner)
	if cmd.Binary == "" {
		logger.Warn("No image converter found, artwork will not be shown",
			zap.Strings("tried", converterNames()))
	} else {
		logger.Info("Image converter detected",
			zap.String("name", cmd.Name),
			zap.String("binary", cmd.Binary))
	}

	return &CommandConverter{
		logger:  logger,
		runner:  runner,
		command: cmd,
	}
}

// detectConverter picks the first converter present in PATH
func detectConverter(runner domain.CommandRunner) ConverterCommand {
	for _, cmd := range converterCommands {
		if runner.Exists(cmd.Binary) {
			return cmd
		}
	}
	return ConverterCommand{} // No command found
}

func converterNames() []string {
	names := make([]string, 0, len(converterCommands))
	for _, cmd := range converterCommands {
		names = append(names, cmd.Name)
	}
	return names
}

// Convert writes src to dst in the format implied by dst's extension
func (c *CommandConverter) Convert(ctx context.Context, src, dst string) error {
	if c.command.Binary == "" {
		return ErrNoConverter
	}

	args := make([]string, len(c.command.Args))
	for i, arg := range c.command.Args {
		arg = strings.ReplaceAll(arg, "{src}", src)
		args[i] = strings.ReplaceAll(arg, "{dst}", dst)
	}

	c.logger.Debug("Converting artwork",
		zap.String("command", c.command.Binary),
		zap.Strings("args", args))

	if err := c.runner.Run(ctx, c.command.Binary, args...); err != nil {
		return fmt.Errorf("failed to convert artwork with %s: %w", c.command.Name, err)
	}
	return nil
}
