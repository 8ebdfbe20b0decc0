package config

import (
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	defaultPlayerName     = "kew"
	defaultPollInterval   = 100 * time.Millisecond
	defaultDebounceWindow = 300 * time.Millisecond
	defaultSuppressTicks  = 3
	defaultToolTimeout    = 2 * time.Second
	defaultConvertTimeout = 5 * time.Second
)

// AppConfig holds application configuration.
// The widget is not runtime-configurable, every value is a constant.
type AppConfig struct {
	logger         *zap.Logger
	playerName     string
	tempDir        string
	pollInterval   time.Duration
	debounceWindow time.Duration
	suppressTicks  int
	toolTimeout    time.Duration
	convertTimeout time.Duration
}

// NewAppConfig creates a new application configuration instance
func NewAppConfig(logger *zap.Logger) *AppConfig {
	cfg := &AppConfig{
		logger:         logger,
		playerName:     defaultPlayerName,
		tempDir:        os.TempDir(),
		pollInterval:   defaultPollInterval,
		debounceWindow: defaultDebounceWindow,
		suppressTicks:  defaultSuppressTicks,
		toolTimeout:    defaultToolTimeout,
		convertTimeout: defaultConvertTimeout,
	}

	logger.Info("Configuration loaded",
		zap.String("player", cfg.playerName),
		zap.String("tempDir", cfg.tempDir),
		zap.Duration("pollInterval", cfg.pollInterval))

	return cfg
}

// GetPlayerName returns the player identity passed to the status tool
func (c *AppConfig) GetPlayerName() string {
	return c.playerName
}

// GetTempDir returns the directory for intermediate artwork files
func (c *AppConfig) GetTempDir() string {
	return c.tempDir
}

func (c *AppConfig) GetPollInterval() time.Duration {
	return c.pollInterval
}

func (c *AppConfig) GetDebounceWindow() time.Duration {
	return c.debounceWindow
}

func (c *AppConfig) GetSuppressTicks() int {
	return c.suppressTicks
}

func (c *AppConfig) GetToolTimeout() time.Duration {
	return c.toolTimeout
}

func (c *AppConfig) GetConvertTimeout() time.Duration {
	return c.convertTimeout
}
