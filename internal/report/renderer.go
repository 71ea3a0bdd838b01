package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/unicode/norm"

	"github.com/yungbote/materials-advisor/internal/analysis"
	"github.com/yungbote/materials-advisor/internal/domain"
	"github.com/yungbote/materials-advisor/internal/i18n"
	"github.com/yungbote/materials-advisor/internal/observability"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

const (
	margin        = 25.4
	bulletIndent  = 7.0
	excerptRunes  = 500
	unicodeFamily = "DejaVu"
	coreFamily    = "Helvetica"
)

type Input struct {
	Record      analysis.Record
	InputText   string
	Language    domain.Language
	GeneratedAt time.Time
}

// Renderer turns an analysis record into a paginated A4 report.
type Renderer struct {
	log      *logger.Logger
	msgs     *i18n.Bundle
	fonts    *fontSet
	compress bool
}

// New loads DejaVu fonts from fontDir. When they are missing or lack Cyrillic
// glyphs the renderer runs in transliteration mode with core fonts.
func New(log *logger.Logger, msgs *i18n.Bundle, fontDir string) (*Renderer, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if msgs == nil {
		return nil, fmt.Errorf("message bundle required")
	}
	slog := log.With("service", "ReportRenderer")
	fonts, err := loadUnicodeFonts(fontDir)
	if err != nil {
		slog.Warn("unicode fonts unavailable, reports will be transliterated", "font_dir", fontDir, "error", err)
		fonts = nil
	} else {
		slog.Info("unicode fonts loaded", "font_dir", fontDir)
	}
	return &Renderer{log: slog, msgs: msgs, fonts: fonts, compress: true}, nil
}

// UnicodeFonts reports whether reports embed a Cyrillic-capable font.
func (r *Renderer) UnicodeFonts() bool { return r.fonts != nil }

// Render writes the complete PDF to w, or nothing on error.
func (r *Renderer) Render(ctx context.Context, w io.Writer, in Input) (err error) {
	lang := domain.ParseLanguage(string(in.Language))
	_, span := observability.StartSpan(ctx, "report.Render",
		attribute.String("language", string(lang)),
		attribute.Bool("unicode_fonts", r.UnicodeFonts()),
	)
	defer func() { observability.EndSpan(span, err) }()

	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}

	d := r.newDocument(lang)
	d.build(in)

	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		r.log.Error("pdf render failed", "language", lang, "error", err)
		return fmt.Errorf("render pdf: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

type document struct {
	pdf     *fpdf.Fpdf
	msgs    *i18n.Bundle
	lang    domain.Language
	family  string
	unicode bool
}

func (r *Renderer) newDocument(lang domain.Language) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetCompression(r.compress)

	d := &document{pdf: pdf, msgs: r.msgs, lang: lang, family: coreFamily}
	if r.fonts != nil {
		pdf.AddUTF8FontFromBytes(unicodeFamily, "", r.fonts.regular)
		pdf.AddUTF8FontFromBytes(unicodeFamily, "B", r.fonts.bold)
		d.family = unicodeFamily
		d.unicode = true
	}
	return d
}

// text prepares s for the active font.
func (d *document) text(s string) string {
	s = norm.NFC.String(s)
	if d.unicode {
		return s
	}
	return encodeCP1252(Transliterate(s))
}

func (d *document) t(key string) string { return d.msgs.T(d.lang, key) }

func (d *document) build(in Input) {
	pdf := d.pdf
	title := d.t("report.title")
	if d.unicode {
		pdf.SetTitle(title, true)
	} else {
		pdf.SetTitle(Transliterate(title), true)
	}
	pdf.SetCreationDate(in.GeneratedAt)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(d.family, "", 8)
		pdf.CellFormat(0, 10, d.text(fmt.Sprintf("%s %d", d.t("report.page"), pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(d.family, "B", 16)
	pdf.MultiCell(0, 8, d.text(title), "", "C", false)
	pdf.Ln(6)

	generated := d.t("report.generated") + ": " + in.GeneratedAt.Format(d.t("report.date_layout"))
	d.paragraph(generated)
	pdf.Ln(4)

	d.heading(d.t("report.input"))
	d.paragraph(excerpt(in.InputText))
	pdf.Ln(3)

	for _, name := range analysis.Sections {
		value, ok := in.Record.Section(name)
		if !ok {
			continue
		}
		d.heading(d.t("report.section." + name))
		d.section(name, value)
		pdf.Ln(3)
	}
}

func (d *document) heading(s string) {
	d.pdf.Ln(2)
	d.pdf.SetFont(d.family, "B", 14)
	d.pdf.MultiCell(0, 7, d.text(s), "", "L", false)
	d.pdf.Ln(2)
}

func (d *document) subheading(s string) {
	d.pdf.SetFont(d.family, "B", 11)
	d.pdf.MultiCell(0, 5.5, d.text(s), "", "L", false)
}

func (d *document) paragraph(s string) {
	d.pdf.SetFont(d.family, "", 11)
	d.pdf.MultiCell(0, 5.5, d.text(s), "", "L", false)
	d.pdf.Ln(1)
}

func (d *document) bullet(s string) {
	d.pdf.SetFont(d.family, "", 10)
	d.pdf.SetX(margin + bulletIndent)
	d.pdf.MultiCell(0, 5, d.text("• "+s), "", "L", false)
}

func (d *document) label(key string) string {
	if v, ok := d.msgs.Lookup(d.lang, "field."+key); ok {
		return v
	}
	return analysis.Humanize(key)
}

// section renders one top-level value: string as paragraph, sequence as
// bullets, map entry-by-entry.
func (d *document) section(name string, v any) {
	switch t := v.(type) {
	case string:
		d.paragraph(t)
	case []any:
		for _, item := range t {
			d.bullet(analysis.Inline(item))
		}
	case map[string]any:
		d.fields(name, t)
	default:
		d.paragraph(analysis.Inline(t))
	}
}

func (d *document) fields(section string, m map[string]any) {
	for _, key := range analysis.OrderedKeys(section, m) {
		label := d.label(key)
		switch t := m[key].(type) {
		case []any:
			d.subheading(label + ":")
			for _, item := range t {
				d.bullet(analysis.Inline(item))
			}
		case map[string]any:
			d.subheading(label + ":")
			d.fields("", t)
		case nil:
			d.paragraph(label + ":")
		default:
			d.paragraph(label + ": " + analysis.Inline(t))
		}
	}
}

func excerpt(s string) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	r := []rune(s)
	if len(r) <= excerptRunes {
		return s
	}
	return string(r[:excerptRunes]) + "..."
}
