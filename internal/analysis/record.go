package analysis

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Record is the six-section material analysis as returned by the model.
// Values are JSON-shaped: strings, []any, map[string]any, numbers, bools.
type Record map[string]any

const (
	SectionProductAssessment         = "product_assessment"
	SectionMaterialSelection         = "material_selection"
	SectionManufacturingTechnology   = "manufacturing_technology"
	SectionStructuralCharacteristics = "structural_characteristics"
	SectionDefectAnalysis            = "defect_analysis"
	SectionTestingMethods            = "testing_methods"

	// RawResponseKey holds the unparsed model text of a fallback record. Never rendered.
	RawResponseKey = "raw_response"
)

// Sections is the canonical rendering order.
var Sections = []string{
	SectionProductAssessment,
	SectionMaterialSelection,
	SectionManufacturingTechnology,
	SectionStructuralCharacteristics,
	SectionDefectAnalysis,
	SectionTestingMethods,
}

var sectionFields = map[string][]string{
	SectionProductAssessment:         {"purpose", "operating_conditions", "critical_requirements"},
	SectionMaterialSelection:         {"recommended_materials", "primary_choice", "justification", "properties_analysis", "gost_standards"},
	SectionManufacturingTechnology:   {"processing_methods", "heat_treatment", "surface_treatment", "quality_control"},
	SectionStructuralCharacteristics: {"microstructure", "grain_structure", "phase_composition", "mechanical_properties"},
	SectionDefectAnalysis:            {"common_defects", "causes", "prevention_methods", "correction_methods"},
	SectionTestingMethods:            {"mechanical_tests", "non_destructive_tests", "standards", "acceptance_criteria"},
}

// Fields returns the known field vocabulary of a section.
func Fields(section string) []string {
	return sectionFields[section]
}

// Section returns the named section if present.
func (r Record) Section(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// OrderedKeys lists the keys of m: known fields of section first in vocabulary
// order, then any other keys in lexical order.
func OrderedKeys(section string, m map[string]any) []string {
	out := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range sectionFields[section] {
		if _, ok := m[k]; ok {
			out = append(out, k)
			seen[k] = true
		}
	}
	extra := make([]string, 0, len(m)-len(out))
	for k := range m {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Humanize turns a snake_case key into a title ("heat_input" -> "Heat Input").
func Humanize(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' || unicode.IsSpace(r) })
	for i, p := range parts {
		rs := []rune(p)
		rs[0] = unicode.ToUpper(rs[0])
		parts[i] = string(rs)
	}
	return strings.Join(parts, " ")
}

// Inline formats a value on one line.
func Inline(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, Inline(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, Humanize(k)+": "+Inline(t[k]))
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(t)
	}
}
