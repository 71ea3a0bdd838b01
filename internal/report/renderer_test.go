package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/materials-advisor/internal/analysis"
	"github.com/yungbote/materials-advisor/internal/domain"
	"github.com/yungbote/materials-advisor/internal/i18n"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

func sampleRecord() analysis.Record {
	return analysis.Record{
		analysis.SectionProductAssessment: map[string]any{
			"purpose":              "Вал редуктора",
			"operating_conditions": "До 200°C, σв ≥ 600 МПа",
		},
		analysis.SectionMaterialSelection: map[string]any{
			"recommended_materials": []any{"Сталь 40Х", "Сталь 45"},
			"primary_choice":        "Сталь 40Х",
			"heat_input":            map[string]any{"max": 1.5, "unit": "kJ/mm"},
		},
		analysis.SectionDefectAnalysis: []any{"Трещины", "Поры"},
		analysis.SectionTestingMethods: "ГОСТ 1497",
		analysis.RawResponseKey:        "RAW-SHOULD-NOT-APPEAR",
	}
}

func newFallbackRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(logger.Nop(), i18n.MustLoad(), filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.UnicodeFonts() {
		t.Fatalf("expected fallback mode")
	}
	r.compress = false
	return r
}

func TestRenderFallbackTransliterates(t *testing.T) {
	r := newFallbackRenderer(t)
	var buf bytes.Buffer
	err := r.Render(context.Background(), &buf, Input{
		Record:      sampleRecord(),
		InputText:   "Вал, нагрузка 600 МПа",
		Language:    domain.LanguageRU,
		GeneratedAt: time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "%PDF-") {
		t.Fatalf("not a pdf: %q", out[:min(len(out), 16)])
	}
	for _, want := range []string{"Otchet po analizu materialov", "Sozdano: 05.03.2024 14:07:09", "Stal 40Kh", "1. Otsenka naznacheniya", "MPa"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
	for _, unwanted := range []string{"Сталь", "МПа", "RAW-SHOULD-NOT-APPEAR", "3. Tekhnologiya"} {
		if strings.Contains(out, unwanted) {
			t.Fatalf("unexpected %q in output", unwanted)
		}
	}
}

func TestRenderEnglishLabelsAndOrder(t *testing.T) {
	r := newFallbackRenderer(t)
	var buf bytes.Buffer
	err := r.Render(context.Background(), &buf, Input{
		Record:      sampleRecord(),
		InputText:   strings.Repeat("x", 600),
		Language:    domain.LanguageEN,
		GeneratedAt: time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Material Analysis Report", "Generated: 2024-03-05 14:07:09", "Recommended Materials:", "Heat Input:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
	i1 := strings.Index(out, "1. Product Purpose")
	i2 := strings.Index(out, "2. Material Selection")
	i5 := strings.Index(out, "5. Defect Analysis")
	i6 := strings.Index(out, "6. Material Properties Testing")
	if i1 < 0 || i2 < i1 || i5 < i2 || i6 < i5 {
		t.Fatalf("sections out of order: %d %d %d %d", i1, i2, i5, i6)
	}
}

func TestRenderEmptyRecord(t *testing.T) {
	r := newFallbackRenderer(t)
	var buf bytes.Buffer
	if err := r.Render(context.Background(), &buf, Input{Language: domain.LanguageEN}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF-") {
		t.Fatalf("expected a pdf")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderWriteError(t *testing.T) {
	r := newFallbackRenderer(t)
	if err := r.Render(context.Background(), failingWriter{}, Input{Record: sampleRecord()}); err == nil {
		t.Fatalf("expected write error")
	}
}

func TestRenderUnicodeFonts(t *testing.T) {
	dir := os.Getenv("FONT_DIR")
	if dir == "" {
		dir = "/usr/share/fonts/truetype/dejavu"
	}
	if _, err := loadUnicodeFonts(dir); err != nil {
		t.Skipf("dejavu fonts not available: %v", err)
	}
	r, err := New(logger.Nop(), i18n.MustLoad(), dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !r.UnicodeFonts() {
		t.Fatalf("expected unicode mode")
	}
	var buf bytes.Buffer
	if err := r.Render(context.Background(), &buf, Input{Record: sampleRecord(), InputText: "Вал", Language: domain.LanguageRU}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF-") {
		t.Fatalf("expected a pdf")
	}
}

func TestCheckGlyphsRejectsGarbage(t *testing.T) {
	if err := checkGlyphs([]byte("not a font")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("ж", 600)
	got := excerpt(long)
	if len([]rune(got)) != 503 || !strings.HasSuffix(got, "...") {
		t.Fatalf("excerpt runes=%d", len([]rune(got)))
	}
	if excerpt("  short  ") != "short" {
		t.Fatalf("short input should be kept")
	}
}
