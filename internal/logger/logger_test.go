package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestDefaultLoggerIsUsable(t *testing.T) {
	if Log == nil {
		t.Fatal("default logger should not be nil")
	}
	Log.Info("discarded", zap.String("key", "value"))
}

func TestSetNilFallsBackToNop(t *testing.T) {
	prev := Log
	defer Set(prev)

	Set(nil)
	if Log == nil {
		t.Fatal("Set(nil) should install a no-op logger")
	}
}

func TestInitDevelopment(t *testing.T) {
	prev := Log
	defer Set(prev)

	if err := InitDevelopment(); err != nil {
		t.Fatalf("InitDevelopment failed: %v", err)
	}
	if Log == prev {
		t.Error("InitDevelopment should replace the logger")
	}
}
