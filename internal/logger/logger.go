package logger

import (
	"go.uber.org/zap"
)

// Log is the process-wide logger. It discards everything until Init is called.
var Log = zap.NewNop()

// Init installs a production JSON logger.
func Init() error {
	l, err := zap.NewProduction()
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// InitDevelopment installs a human readable logger with debug level enabled.
func InitDevelopment() error {
	l, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Set replaces the logger, mostly for tests that want to observe output.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Log = l
}

func Sync() {
	_ = Log.Sync()
}
