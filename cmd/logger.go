package cmd

import (
	"os"

	"github.com/protofab/protofab/internal/config"
	"github.com/protofab/protofab/internal/logging"
)

// newLogger builds the process logger from the logging section of the
// configuration.
func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
}
