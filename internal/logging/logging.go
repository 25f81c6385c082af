// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Level string
	JSON  bool
	// Output defaults to stderr.
	Output io.Writer
}

// Setup builds a logger from cfg, installs it as log.Logger and returns it.
func Setup(cfg Config) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
		level = l
	}

	out := cfg.Output
	if out == nil {
		out = colorable.NewColorableStderr()
	}
	if !cfg.JSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.Output != nil,
		}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	return logger, nil
}

// Quiet discards everything below warn level. Used by the live view, which
// owns the terminal.
func Quiet() zerolog.Logger {
	logger := log.Logger.Level(zerolog.WarnLevel)
	log.Logger = logger
	return logger
}
