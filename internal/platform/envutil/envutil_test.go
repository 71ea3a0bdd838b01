package envutil

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

func TestEnvParsesAndDefaults(t *testing.T) {
	t.Setenv("T_INT", " 42 ")
	t.Setenv("T_FLOAT", "0.7")
	t.Setenv("T_BOOL", "yes")
	t.Setenv("T_DUR", "90")
	t.Setenv("T_DUR2", "2m")
	t.Setenv("T_EMPTY", "  ")
	t.Setenv("T_SECOND", "b")

	env := New(nil)
	if got := env.Int("T_INT", 1); got != 42 {
		t.Fatalf("Int = %d", got)
	}
	if got := env.Float("T_FLOAT", 0); got != 0.7 {
		t.Fatalf("Float = %v", got)
	}
	if !env.Bool("T_BOOL", false) {
		t.Fatal("Bool = false")
	}
	if got := env.Duration("T_DUR", 0); got != 90*time.Second {
		t.Fatalf("Duration(seconds) = %v", got)
	}
	if got := env.Duration("T_DUR2", 0); got != 2*time.Minute {
		t.Fatalf("Duration = %v", got)
	}
	if got := env.String("T_EMPTY", "def"); got != "def" {
		t.Fatalf("String = %q", got)
	}
	if got := env.FirstString("def", "T_EMPTY", "T_SECOND"); got != "b" {
		t.Fatalf("FirstString = %q", got)
	}
}

func TestEnvWarnsOnMalformedValues(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	env := New(&logger.Logger{SugaredLogger: zap.New(core).Sugar()})

	t.Setenv("T_TIMEOUT", "soon")
	t.Setenv("T_TOKENS", "lots")
	t.Setenv("T_FLAG", "maybe")
	t.Setenv("T_NEG", "-5s")

	if got := env.Duration("T_TIMEOUT", time.Minute); got != time.Minute {
		t.Fatalf("Duration = %v", got)
	}
	if got := env.Int("T_TOKENS", 4000); got != 4000 {
		t.Fatalf("Int = %d", got)
	}
	if got := env.Bool("T_FLAG", true); !got {
		t.Fatal("Bool lost default")
	}
	if got := env.Duration("T_NEG", time.Second); got != time.Second {
		t.Fatalf("negative Duration = %v", got)
	}

	entries := logs.All()
	if len(entries) != 4 {
		t.Fatalf("logged %d warnings, want 4", len(entries))
	}
	if got := entries[0].ContextMap()["env_var"]; got != "T_TIMEOUT" {
		t.Fatalf("env_var = %v", got)
	}
	if got := entries[0].ContextMap()["provided"]; got != "soon" {
		t.Fatalf("provided = %v", got)
	}
}

func TestEnvUnsetIsSilent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	env := New(&logger.Logger{SugaredLogger: zap.New(core).Sugar()})
	t.Setenv("T_UNSET", "")
	_ = env.Int("T_UNSET", 1)
	_ = env.Duration("T_UNSET", time.Second)
	if logs.Len() != 0 {
		t.Fatalf("unexpected logs: %d", logs.Len())
	}
}
