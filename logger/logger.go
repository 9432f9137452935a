// Package logger owns the process-wide logrus logger
// Output defaults to io.Discard since the terminal backend owns stdout
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lixenwraith/gridcrawl/config"
)

// Rotation limits for the log file
const (
	MaxLogSizeMB  = 10
	MaxLogBackups = 3
	MaxLogAgeDays = 28
)

// Log is the global logger, usable before Init
var Log = newDiscard()

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Init configures Log from cfg and returns the rotating file writer, nil when output is discarded
// The file rotates past MaxLogSizeMB and keeps MaxLogBackups old files; the caller closes it on exit
func Init(cfg config.Log) (io.Closer, error) {
	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if cfg.Format == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			DisableColors:    true,
			DisableQuote:     true,
			QuoteEmptyFields: true,
		})
	}

	if cfg.File == "" {
		Log.SetOutput(io.Discard)
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		Log.SetOutput(io.Discard)
		return nil, fmt.Errorf("log dir: %w", err)
	}

	out := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    MaxLogSizeMB,
		MaxBackups: MaxLogBackups,
		MaxAge:     MaxLogAgeDays,
	}
	Log.SetOutput(out)
	return out, nil
}
