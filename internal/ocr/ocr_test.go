package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

type fakeEngine struct {
	text  string
	err   error
	calls int
	mime  string
	img   []byte
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) ExtractText(ctx context.Context, img []byte, mimeType string) (string, error) {
	f.calls++
	f.mime = mimeType
	f.img = img
	return f.text, f.err
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "drawing.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractTextCollapsesWhitespace(t *testing.T) {
	eng := &fakeEngine{text: "  Вал\n\n  Сталь 45\tГОСТ 1050  "}
	s := NewService(logger.Nop(), eng)
	got := s.ExtractText(context.Background(), writePNG(t, 10, 8))
	if got != "Вал Сталь 45 ГОСТ 1050" {
		t.Fatalf("unexpected text %q", got)
	}
	if eng.calls != 1 || eng.mime != "image/png" {
		t.Fatalf("calls=%d mime=%q", eng.calls, eng.mime)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(eng.img))
	if err != nil || format != "png" || cfg.Width != 10 || cfg.Height != 8 {
		t.Fatalf("engine got %s %dx%d, %v", format, cfg.Width, cfg.Height, err)
	}
}

func TestExtractTextFailuresYieldEmpty(t *testing.T) {
	ctx := context.Background()

	eng := &fakeEngine{err: errors.New("engine down")}
	if got := NewService(logger.Nop(), eng).ExtractText(ctx, writePNG(t, 4, 4)); got != "" {
		t.Fatalf("engine error: got %q", got)
	}

	eng = &fakeEngine{text: "x"}
	s := NewService(logger.Nop(), eng)
	if got := s.ExtractText(ctx, filepath.Join(t.TempDir(), "missing.png")); got != "" {
		t.Fatalf("missing file: got %q", got)
	}
	bad := filepath.Join(t.TempDir(), "bad.png")
	_ = os.WriteFile(bad, []byte("not an image"), 0o600)
	if got := s.ExtractText(ctx, bad); got != "" {
		t.Fatalf("bad image: got %q", got)
	}
	if eng.calls != 0 {
		t.Fatalf("engine should not be called for unreadable input")
	}
}

func TestDisabledService(t *testing.T) {
	s := NewService(logger.Nop(), nil)
	if s.Enabled() || s.EngineName() != "none" {
		t.Fatalf("expected disabled service")
	}
	if got := s.ExtractText(context.Background(), writePNG(t, 2, 2)); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestPreprocessDownscalesLargeImages(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 5000, 1000))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	out, err := Preprocess(buf.Bytes())
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if format != "png" || cfg.Width != MaxSide || cfg.Height != 819 {
		t.Fatalf("got %s %dx%d", format, cfg.Width, cfg.Height)
	}
}

func TestFitWithin(t *testing.T) {
	cases := []struct{ w, h, ww, wh int }{
		{100, 50, 100, 50},
		{8192, 4096, 4096, 2048},
		{1000, 9000, 455, 4096},
		{10000, 1, 4096, 1},
	}
	for _, tc := range cases {
		w, h := fitWithin(tc.w, tc.h, MaxSide)
		if w != tc.ww || h != tc.wh {
			t.Errorf("fitWithin(%d,%d) = %d,%d want %d,%d", tc.w, tc.h, w, h, tc.ww, tc.wh)
		}
	}
}
