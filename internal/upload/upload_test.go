package upload

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

var (
	pngHead  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHead = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
)

func TestValidate(t *testing.T) {
	v := NewValidator(0)
	cases := []struct {
		name string
		file string
		size int64
		head []byte
		want error
	}{
		{"png ok", "drawing.png", 100, pngHead, nil},
		{"jpeg ok", "scan.JPG", 100, jpegHead, nil},
		{"jpeg ext", "scan.jpeg", 100, jpegHead, nil},
		{"no name", "", 100, pngHead, ErrNoFile},
		{"empty file", "a.png", 0, pngHead, ErrNoFile},
		{"pdf ext", "drawing.pdf", 100, []byte("%PDF-1.4"), ErrInvalidType},
		{"no ext", "drawing", 100, pngHead, ErrInvalidType},
		{"too large", "big.png", DefaultMaxBytes + 1, pngHead, ErrTooLarge},
		{"spoofed content", "fake.png", 100, []byte("<html><body>"), ErrInvalidType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.file, tc.size, tc.head)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"drawing.png":         "drawing.png",
		"../../etc/passwd":    "passwd",
		`C:\scans\part 1.jpg`: "part_1.jpg",
		"чертёж.png":          "png",
		"...":                 "upload",
		"a b?c.jpeg":          "a_b_c.jpeg",
	}
	for in, want := range cases {
		if got := SanitizeName(in); got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSaverSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSaver(logger.Nop(), dir)
	if err != nil {
		t.Fatal(err)
	}
	path, err := s.Save(strings.NewReader("data"), "../part.png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("file written outside upload dir: %s", path)
	}
	if !strings.HasSuffix(path, "_part.png") {
		t.Fatalf("unexpected name: %s", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil || string(raw) != "data" {
		t.Fatalf("read back: %q, %v", raw, err)
	}

	other, err := s.Save(strings.NewReader("x"), "part.png")
	if err != nil || other == path {
		t.Fatalf("second save must get a distinct path: %s, %v", other, err)
	}

	s.Remove(path)
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file not removed")
	}
	s.Remove(path)
}

func TestSweeperRemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	stale := filepath.Join(dir, "stale.png")
	fresh := filepath.Join(dir, "fresh.png")
	for _, p := range []string{stale, fresh} {
		if err := os.WriteFile(p, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Chtimes(stale, now.Add(-2*time.Hour), now.Add(-2*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	n, err := NewSweeper(logger.Nop(), dir, 0).Sweep(now)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 removed, got %d", n)
	}
	if _, err := os.Stat(stale); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stale file kept")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh file removed")
	}
}

func TestSweeperMissingDir(t *testing.T) {
	n, err := NewSweeper(logger.Nop(), filepath.Join(t.TempDir(), "nope"), time.Minute).Sweep(time.Now())
	if err != nil || n != 0 {
		t.Fatalf("got %d, %v", n, err)
	}
}
