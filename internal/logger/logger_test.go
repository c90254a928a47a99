package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker", "test"} {
		l, err := NewLogger(env)
		if err != nil {
			t.Errorf("NewLogger(%q) error: %v", env, err)
			continue
		}
		if l == nil {
			t.Errorf("NewLogger(%q) returned nil", env)
		}
	}
}

func TestNewLogger_UnknownEnv(t *testing.T) {
	if _, err := NewLogger("staging"); err == nil {
		t.Fatal("expected error for unknown env")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "warn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}

	if _, err := NewLogger("prod", "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestFromContext(t *testing.T) {
	stored := zap.NewExample()
	fallback := zap.NewExample()

	if got := FromContext(ContextWithLogger(context.Background(), stored)); got != stored {
		t.Error("expected stored logger")
	}
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Error("expected fallback logger")
	}
	if got := FromContext(context.Background()); got == nil {
		t.Error("expected nop logger, got nil")
	}
}
