package server

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the package-wide logger. It discards everything until InitLogger runs.
var Log = zap.NewNop().Sugar()

// LogConfig selects the log destination and level.
type LogConfig struct {
	// File is the rolling log file; empty logs to stderr.
	File  string
	Level string
}

// InitLogger points Log at a rolling file (10MB per file, 3 backups, 7 days).
func InitLogger(cfg LogConfig) error {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
		level = l
	}

	var ws zapcore.WriteSyncer
	if cfg.File == "" {
		ws = zapcore.Lock(os.Stderr)
	} else {
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		})
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, level)
	Log = zap.New(core, zap.AddCaller()).Sugar()
	return nil
}

// SyncLogger flushes buffered entries.
func SyncLogger() {
	_ = Log.Sync()
}
