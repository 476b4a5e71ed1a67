package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/iliyamo/movielist/internal/config"
)

// New builds the JSON application logger.  With a file path configured the
// output rotates through lumberjack; otherwise it goes to stdout.
func New(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{}
	if cfg.Debug {
		opts.Level = slog.LevelDebug
	}

	var output io.Writer = os.Stdout
	if cfg.FilePath != "" {
		output = RotatingFile(cfg.FilePath, cfg)
	}

	return slog.New(slog.NewJSONHandler(output, opts))
}

// RotatingFile returns a size-rotated file writer with the limits in cfg.
func RotatingFile(path string, cfg config.LogConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
}
