package logging

import (
	"codecompanion/config"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup configures the standard logrus logger from cfg.
// The returned closer releases the log file when output is a path.
func Setup(cfg config.LoggingConfig) io.Closer {
	return Configure(logrus.StandardLogger(), cfg)
}

// Configure applies cfg to logger.
func Configure(logger *logrus.Logger, cfg config.LoggingConfig) io.Closer {
	// Set log level
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info' instead. Error: %v", cfg.Level, err)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Set log format
	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	// Set log output
	var closer io.Closer = nopCloser{}
	switch strings.ToLower(cfg.Output) {
	case "", "stdout":
		logger.SetOutput(os.Stdout)
	case "stderr":
		logger.SetOutput(os.Stderr)
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logger.Warnf("Failed to open log file '%s', using 'stdout' instead. Error: %v", cfg.Output, err)
			logger.SetOutput(os.Stdout)
		} else {
			logger.SetOutput(file)
			closer = file
		}
	}

	logger.Debug("Logger initialized successfully")
	return closer
}
