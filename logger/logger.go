package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// Initialize builds the process logger at the given level.
func Initialize(level zap.AtomicLevel) error {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	log, err := cfg.Build()
	if err != nil {
		return err
	}
	current.Store(log)
	return nil
}

// Set replaces the process logger and returns a function restoring the previous one.
func Set(log *zap.Logger) (restore func()) {
	previous := current.Swap(log)
	return func() {
		current.Store(previous)
	}
}

func Logger() *zap.Logger {
	return current.Load()
}

func Sugar() *zap.SugaredLogger {
	return current.Load().Sugar()
}

func Sync() {
	_ = current.Load().Sync()
}
