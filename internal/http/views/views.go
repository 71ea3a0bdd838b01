package views

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/yungbote/materials-advisor/internal/analysis"
	"github.com/yungbote/materials-advisor/internal/catalog"
	"github.com/yungbote/materials-advisor/internal/domain"
	"github.com/yungbote/materials-advisor/internal/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	IndexPage    = "index.html"
	AnalysisPage = "analysis.html"
	ErrorPage    = "error.html"
)

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"score": func(f *float64) string {
			if f == nil {
				return ""
			}
			return fmt.Sprintf("%.3f", *f)
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// Page is the data every template receives.
type Page struct {
	Lang        domain.Language
	Languages   []domain.Language
	Error       string
	Notice      string
	Description string
	Status      int
	Analysis    *Analysis
	SectionList []string

	msgs *i18n.Bundle
}

func NewPage(msgs *i18n.Bundle, lang domain.Language) *Page {
	p := &Page{Lang: lang, Languages: domain.Languages, msgs: msgs}
	for _, s := range analysis.Sections {
		p.SectionList = append(p.SectionList, msgs.T(lang, "section."+s))
	}
	return p
}

// T returns the localized message for key.
func (p *Page) T(key string) string { return p.msgs.T(p.Lang, key) }

type Analysis struct {
	ID           string
	InputText    string
	OCRExtracted bool
	Fallback     bool
	Sections     []Section
	Related      []catalog.Match
}

type Section struct {
	Key   string
	Title string
	Field
}

// Field is one rendered value: a paragraph, a bullet list, or nested fields.
type Field struct {
	Label  string
	Text   string
	Items  []string
	Fields []Field
}

// BuildSections lays out rec in canonical section order, skipping absent sections.
func BuildSections(msgs *i18n.Bundle, lang domain.Language, rec analysis.Record) []Section {
	var out []Section
	for _, name := range analysis.Sections {
		v, ok := rec.Section(name)
		if !ok {
			continue
		}
		out = append(out, Section{
			Key:   name,
			Title: msgs.T(lang, "section."+name),
			Field: buildField(msgs, lang, name, "", v),
		})
	}
	return out
}

func buildField(msgs *i18n.Bundle, lang domain.Language, section, label string, v any) Field {
	f := Field{Label: label}
	switch t := v.(type) {
	case nil:
	case string:
		f.Text = t
	case []any:
		for _, item := range t {
			f.Items = append(f.Items, analysis.Inline(item))
		}
	case []string:
		f.Items = append(f.Items, t...)
	case map[string]any:
		for _, k := range analysis.OrderedKeys(section, t) {
			f.Fields = append(f.Fields, buildField(msgs, lang, section, fieldLabel(msgs, lang, k), t[k]))
		}
	default:
		f.Text = analysis.Inline(t)
	}
	return f
}

func fieldLabel(msgs *i18n.Bundle, lang domain.Language, key string) string {
	if s, ok := msgs.Lookup(lang, "field."+key); ok {
		return s
	}
	return analysis.Humanize(key)
}
