package tesseract

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "tesseract")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return path
}

func TestBuildArgsDefaults(t *testing.T) {
	e, err := New(logger.Nop(), Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := strings.Join(e.args, " ")
	want := "stdin stdout -l rus+eng --oem 3 --psm 6"
	if got != want {
		t.Fatalf("args: want=%q got=%q", want, got)
	}
}

func TestExtractTextReadsStdout(t *testing.T) {
	bin := fakeBinary(t, `cat >/dev/null; echo "Вал  Сталь 45"; echo "$@" >&2`)
	e, err := New(logger.Nop(), Config{BinaryPath: bin})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := e.ExtractText(context.Background(), []byte("png"), "image/png")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if strings.TrimSpace(got) != "Вал  Сталь 45" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestExtractTextReportsStderr(t *testing.T) {
	bin := fakeBinary(t, `cat >/dev/null; echo "Error opening data file" >&2; exit 1`)
	e, err := New(logger.Nop(), Config{BinaryPath: bin})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = e.ExtractText(context.Background(), []byte("png"), "image/png")
	if err == nil || !strings.Contains(err.Error(), "Error opening data file") {
		t.Fatalf("expected stderr in error, got=%v", err)
	}
}

func TestExtractTextEmptyImage(t *testing.T) {
	e, err := New(logger.Nop(), Config{BinaryPath: "/nonexistent"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := e.ExtractText(context.Background(), nil, "image/png")
	if err != nil || got != "" {
		t.Fatalf("expected empty result, got=%q err=%v", got, err)
	}
}
