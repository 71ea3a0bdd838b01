package analysis

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/yungbote/materials-advisor/internal/domain"
)

func assertAllSections(t *testing.T, rec Record) {
	t.Helper()
	for _, name := range Sections {
		if _, ok := rec.Section(name); !ok {
			t.Fatalf("missing section %q in %v", name, rec)
		}
	}
}

func TestNormalizePlainJSON(t *testing.T) {
	raw := `{"product_assessment":{"purpose":"Shaft"},"material_selection":{"primary_choice":"Steel 45"}}`
	res := Normalize(raw, domain.LanguageEN)
	if res.Kind != Structured {
		t.Fatalf("kind=%v", res.Kind)
	}
	pa := res.Record[SectionProductAssessment].(map[string]any)
	if pa["purpose"] != "Shaft" {
		t.Fatalf("purpose=%v", pa["purpose"])
	}
	ms := res.Record[SectionMaterialSelection].(map[string]any)
	if ms["primary_choice"] != "Steel 45" {
		t.Fatalf("primary_choice=%v", ms["primary_choice"])
	}
	if _, ok := ms["justification"]; ok {
		t.Fatalf("provided section must not be merged with placeholders")
	}
	assertAllSections(t, res.Record)
	if _, ok := res.Record[RawResponseKey]; ok {
		t.Fatalf("structured result must not carry raw_response")
	}
}

func TestNormalizeFencedJSON(t *testing.T) {
	cases := []string{
		"Here you go:\n```json\n{\"product_assessment\":{\"purpose\":\"Gear\"}}\n```\nThanks",
		"```JSON\n{\"product_assessment\":{\"purpose\":\"Gear\"}}\n```",
		"```\n{\"product_assessment\":{\"purpose\":\"Gear\"}}\n```",
		"```javascript\n{\"product_assessment\":{\"purpose\":\"Gear\"}}\n```",
		"```json\n{\"product_assessment\":{\"purpose\":\"Gear\"}}",
	}
	for _, raw := range cases {
		res := Normalize(raw, domain.LanguageEN)
		if res.Kind != Structured {
			t.Fatalf("kind=%v for %q", res.Kind, raw)
		}
		pa := res.Record[SectionProductAssessment].(map[string]any)
		if pa["purpose"] != "Gear" {
			t.Fatalf("purpose=%v for %q", pa["purpose"], raw)
		}
		assertAllSections(t, res.Record)
	}
}

func TestNormalizeJSONFenceWinsOverEarlierFence(t *testing.T) {
	raw := "```text\nnot json\n```\n```json\n{\"testing_methods\":{\"standards\":[\"GOST 1497\"]}}\n```"
	res := Normalize(raw, domain.LanguageEN)
	if res.Kind != Structured {
		t.Fatalf("kind=%v", res.Kind)
	}
}

func TestNormalizeInvalidJSONFallsBack(t *testing.T) {
	raw := `{"product_assessment": {"purpose": "broken",}`
	res := Normalize(raw, domain.LanguageEN)
	if res.Kind != Fallback {
		t.Fatalf("kind=%v", res.Kind)
	}
	if res.Record[RawResponseKey] != raw || res.Raw != raw {
		t.Fatalf("raw_response not preserved")
	}
	assertAllSections(t, res.Record)
}

func TestNormalizeTrailingDataFallsBack(t *testing.T) {
	res := Normalize(`{"a":1} {"b":2}`, domain.LanguageEN)
	if res.Kind != Fallback {
		t.Fatalf("kind=%v", res.Kind)
	}
}

func TestNormalizeProseTruncatesJustification(t *testing.T) {
	raw := "  " + strings.Repeat("ж", 600) + "  "
	res := Normalize(raw, domain.LanguageRU)
	if res.Kind != Fallback {
		t.Fatalf("kind=%v", res.Kind)
	}
	ms := res.Record[SectionMaterialSelection].(map[string]any)
	j := ms["justification"].(string)
	if !strings.HasSuffix(j, "...") || len([]rune(j)) != 503 {
		t.Fatalf("justification runes=%d", len([]rune(j)))
	}
	if res.Record[RawResponseKey] != raw {
		t.Fatalf("raw_response must be verbatim")
	}
	pa := res.Record[SectionProductAssessment].(map[string]any)
	if !strings.Contains(pa["purpose"].(string), "Анализ") {
		t.Fatalf("expected russian placeholder, got=%v", pa["purpose"])
	}
}

func TestNormalizeShortProseKeepsJustification(t *testing.T) {
	res := Normalize("Use steel 40X.", domain.LanguageEN)
	ms := res.Record[SectionMaterialSelection].(map[string]any)
	if ms["justification"] != "Use steel 40X." {
		t.Fatalf("justification=%v", ms["justification"])
	}
}

func TestNormalizeEmpty(t *testing.T) {
	res := Normalize("", domain.LanguageEN)
	if res.Kind != Fallback {
		t.Fatalf("kind=%v", res.Kind)
	}
	ms := res.Record[SectionMaterialSelection].(map[string]any)
	if ms["justification"] != "" {
		t.Fatalf("justification=%q", ms["justification"])
	}
	assertAllSections(t, res.Record)
}

func TestNormalizeNullSectionFilled(t *testing.T) {
	res := Normalize(`{"defect_analysis": null}`, domain.LanguageEN)
	if res.Kind != Structured {
		t.Fatalf("kind=%v", res.Kind)
	}
	assertAllSections(t, res.Record)
}

func TestNormalizeRecordIsSerializable(t *testing.T) {
	for _, raw := range []string{`{"material_selection":{"hardness":45}}`, "prose"} {
		res := Normalize(raw, domain.LanguageEN)
		if _, err := json.Marshal(res.Record); err != nil {
			t.Fatalf("marshal: %v", err)
		}
	}
}

func TestFallbackDoesNotShareState(t *testing.T) {
	a := Normalize("first", domain.LanguageEN)
	b := Normalize("second", domain.LanguageEN)
	am := a.Record[SectionMaterialSelection].(map[string]any)
	bm := b.Record[SectionMaterialSelection].(map[string]any)
	if am["justification"] == bm["justification"] {
		t.Fatalf("fallback records share placeholder maps")
	}
}

func TestOrderedKeys(t *testing.T) {
	m := map[string]any{"zeta": 1, "justification": "", "heat_input": 2, "recommended_materials": nil}
	got := strings.Join(OrderedKeys(SectionMaterialSelection, m), ",")
	want := "recommended_materials,justification,heat_input,zeta"
	if got != want {
		t.Fatalf("OrderedKeys: want=%q got=%q", want, got)
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"heat_input":    "Heat Input",
		"purpose":       "Purpose",
		"non-destruct":  "Non Destruct",
		"__x__":         "X",
		"предел_текуч.": "Предел Текуч.",
	}
	for in, want := range cases {
		if got := Humanize(in); got != want {
			t.Fatalf("Humanize(%q): want=%q got=%q", in, want, got)
		}
	}
}

func TestInline(t *testing.T) {
	got := Inline(map[string]any{"unit": "kJ/mm", "max": 1.5, "ok": true, "list": []any{"a", "b"}})
	want := "List: a, b; Max: 1.5; Ok: true; Unit: kJ/mm"
	if got != want {
		t.Fatalf("Inline: want=%q got=%q", want, got)
	}
}
