package views

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yungbote/materials-advisor/internal/analysis"
	"github.com/yungbote/materials-advisor/internal/catalog"
	"github.com/yungbote/materials-advisor/internal/domain"
	"github.com/yungbote/materials-advisor/internal/i18n"
)

func TestBuildSectionsOrderAndLabels(t *testing.T) {
	msgs := i18n.MustLoad()
	rec := analysis.Record{
		analysis.SectionTestingMethods: map[string]any{"standards": []any{"GOST 1497-84"}},
		analysis.SectionMaterialSelection: map[string]any{
			"heat_input":     "low",
			"justification":  "strength",
			"primary_choice": "Steel 40X",
		},
		analysis.RawResponseKey: "raw",
	}
	got := BuildSections(msgs, domain.LanguageEN, rec)
	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(got))
	}
	if got[0].Key != analysis.SectionMaterialSelection || got[1].Key != analysis.SectionTestingMethods {
		t.Fatalf("sections out of order: %s, %s", got[0].Key, got[1].Key)
	}
	labels := []string{}
	for _, f := range got[0].Fields {
		labels = append(labels, f.Label)
	}
	want := []string{"Primary Choice", "Justification", "Heat Input"}
	if strings.Join(labels, "|") != strings.Join(want, "|") {
		t.Fatalf("labels = %v, want %v", labels, want)
	}
	if items := got[1].Fields[0].Items; len(items) != 1 || items[0] != "GOST 1497-84" {
		t.Fatalf("unexpected items %v", items)
	}
}

func TestTemplatesRender(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}
	msgs := i18n.MustLoad()

	page := NewPage(msgs, domain.LanguageRU)
	page.Error = "<b>bad</b>"
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, IndexPage, page); err != nil {
		t.Fatalf("index: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `lang="ru"`) || !strings.Contains(out, msgs.T(domain.LanguageRU, "form.submit")) {
		t.Fatalf("index not localized")
	}
	if strings.Contains(out, "<b>bad</b>") {
		t.Fatalf("error message not escaped")
	}

	score := 0.5
	page = NewPage(msgs, domain.LanguageEN)
	page.Analysis = &Analysis{
		ID:        "abc",
		InputText: "shaft",
		Sections:  BuildSections(msgs, domain.LanguageEN, analysis.Normalize("plain prose", domain.LanguageEN).Record),
		Fallback:  true,
		Related:   []catalog.Match{{Entry: catalog.Entry{Name: "Steel 45"}, Score: &score}},
	}
	buf.Reset()
	if err := tmpl.ExecuteTemplate(&buf, AnalysisPage, page); err != nil {
		t.Fatalf("analysis: %v", err)
	}
	out = buf.String()
	for _, want := range []string{"/download_pdf?analysis_id=abc", "Steel 45", "0.500", "Product Purpose Assessment", "plain prose"} {
		if !strings.Contains(out, want) {
			t.Fatalf("analysis page missing %q", want)
		}
	}

	page = NewPage(msgs, domain.LanguageEN)
	page.Status = 404
	buf.Reset()
	if err := tmpl.ExecuteTemplate(&buf, ErrorPage, page); err != nil {
		t.Fatalf("error: %v", err)
	}
	if !strings.Contains(buf.String(), "Page Not Found") {
		t.Fatalf("404 title missing")
	}
}
