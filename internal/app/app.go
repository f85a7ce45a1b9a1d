package app

import (
	"io"
	"log/slog"
)

// App encapsulates the player's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	inR    io.Reader
	logger *slog.Logger
	config *Config
}

// NewApp is the constructor for the dialogue player. It returns a fully
// initialized App instance with its own isolated logger.
func NewApp(outW io.Writer, inR io.Reader, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		inR:    inR,
		logger: logger,
		config: cfg,
	}
}
