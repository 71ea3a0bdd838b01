package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/image/draw"

	"github.com/yungbote/materials-advisor/internal/observability"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

// MaxSide is the largest width or height sent to an engine; bigger images
// are scaled down keeping the aspect ratio.
const MaxSide = 4096

// Engine recognizes text in an encoded image.
type Engine interface {
	ExtractText(ctx context.Context, img []byte, mimeType string) (string, error)
}

type named interface {
	Name() string
}

// Service turns an uploaded drawing into plain text. It never fails: any
// problem is logged and yields an empty string.
type Service struct {
	log    *logger.Logger
	engine Engine
}

// NewService returns a Service. A nil engine disables OCR.
func NewService(log *logger.Logger, engine Engine) *Service {
	return &Service{log: log.With("service", "OCRService"), engine: engine}
}

func (s *Service) Enabled() bool { return s != nil && s.engine != nil }

func (s *Service) EngineName() string {
	if n, ok := s.engine.(named); ok {
		return n.Name()
	}
	if s.engine == nil {
		return "none"
	}
	return fmt.Sprintf("%T", s.engine)
}

// ExtractText reads the image at path and returns its text with whitespace
// runs collapsed to single spaces.
func (s *Service) ExtractText(ctx context.Context, path string) string {
	if !s.Enabled() {
		return ""
	}
	ctx, span := observability.StartSpan(ctx, "ocr.ExtractText", attribute.String("ocr.engine", s.EngineName()))
	var spanErr error
	defer func() { observability.EndSpan(span, spanErr) }()

	raw, err := os.ReadFile(path)
	if err != nil {
		spanErr = err
		s.log.Warn("ocr read failed", "path", path, "error", err)
		return ""
	}
	img, err := Preprocess(raw)
	if err != nil {
		spanErr = err
		s.log.Warn("ocr preprocess failed", "path", path, "error", err)
		return ""
	}
	text, err := s.engine.ExtractText(ctx, img, "image/png")
	if err != nil {
		spanErr = err
		s.log.Warn("ocr engine failed", "engine", s.EngineName(), "error", err)
		return ""
	}
	text = Collapse(text)
	s.log.Debug("ocr complete", "engine", s.EngineName(), "chars", len([]rune(text)), "ocr_text", text)
	return text
}

// Preprocess decodes a PNG or JPEG, flattens it to RGBA, scales it down to
// MaxSide and re-encodes it as PNG.
func Preprocess(raw []byte) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := src.Bounds()
	w, h := fitWithin(b.Dx(), b.Dy(), MaxSide)
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty %s image", format)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func fitWithin(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w >= h {
		return max, maxInt(1, h*max/w)
	}
	return maxInt(1, w*max/h), max
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Collapse replaces every whitespace run with a single space and trims.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
