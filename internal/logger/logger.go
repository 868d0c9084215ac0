package logger

import (
	"log"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// Init sets up the global logger. Production mode emits JSON at the configured
// level; otherwise a colourised development logger is used.
func Init(production bool, level string) {
	once.Do(func() {
		var cfg zap.Config
		if production {
			cfg = zap.NewProductionConfig()
		} else {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		if level != "" {
			lvl, err := zapcore.ParseLevel(level)
			if err != nil {
				log.Printf("Unknown log level %q, using default", level)
			} else {
				cfg.Level = zap.NewAtomicLevelAt(lvl)
			}
		}

		var err error
		logger, err = cfg.Build()
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	})
}

// L returns the global logger, falling back to a development logger when
// Init was never called (tests, tools).
func L() *zap.Logger {
	Init(false, "")
	return logger
}

// Sync flushes buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
