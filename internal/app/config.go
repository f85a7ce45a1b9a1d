package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ScriptPath string

	LogFormat      string
	LogLevel       string
	Strict         bool
	AllowSelfLoops bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScriptPath == "" {
		return nil, errors.New("ScriptPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
