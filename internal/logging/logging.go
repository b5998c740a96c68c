package logging

import (
	"io"
	"os"
	"strings"

	"dream-analyzer/internal/config"

	"github.com/sirupsen/logrus"
)

// Init configures the global logrus logger.
func Init(cfg config.LoggingConfig) {
	InitWithOutput(cfg, os.Stdout)
}

func InitWithOutput(cfg config.LoggingConfig, out io.Writer) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("Invalid log level '%s', using 'info' instead. Error: %v", cfg.Level, err)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	logrus.SetOutput(out)
}
