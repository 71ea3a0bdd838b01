package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/yungbote/materials-advisor/internal/domain"
)

// Kind tells whether a Result came from parsed model output or was synthesized.
type Kind int

const (
	Structured Kind = iota + 1
	Fallback
)

func (k Kind) String() string {
	switch k {
	case Structured:
		return "structured"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

type Result struct {
	Kind   Kind
	Record Record
	// Raw is the model text a Fallback was built from.
	Raw string
}

func (r Result) IsFallback() bool { return r.Kind == Fallback }

const justificationRunes = 500

// Normalize turns raw model text into a Result that always carries all six
// sections. It never fails.
func Normalize(raw string, lang domain.Language) Result {
	trimmed := strings.TrimSpace(raw)
	candidate := extractJSONCandidate(trimmed)
	if strings.HasPrefix(candidate, "{") && strings.HasSuffix(candidate, "}") {
		if m, err := decodeObject(candidate); err == nil {
			return Result{Kind: Structured, Record: fillMissingSections(m, lang)}
		}
	}
	return fallbackResult(raw, trimmed, lang)
}

// extractJSONCandidate prefers a ```json fenced block, then any fenced block,
// then the text itself.
func extractJSONCandidate(s string) string {
	if i := indexFold(s, "```json"); i >= 0 {
		return strings.TrimSpace(untilFence(s[i+len("```json"):]))
	}
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 && !strings.Contains(rest[:nl], "```") {
			// Drop a language tag on the opening line.
			if tag := strings.TrimSpace(rest[:nl]); tag == "" || !strings.ContainsAny(tag, "{}") {
				rest = rest[nl+1:]
			}
		}
		return strings.TrimSpace(untilFence(rest))
	}
	return s
}

func untilFence(s string) string {
	if j := strings.Index(s, "```"); j >= 0 {
		return s[:j]
	}
	return s
}

func indexFold(s, sub string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(sub))
}

func decodeObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after object")
	}
	if m == nil {
		return nil, errors.New("null object")
	}
	return m, nil
}

func fillMissingSections(m map[string]any, lang domain.Language) Record {
	var placeholders map[string]map[string]any
	for _, name := range Sections {
		if v, ok := m[name]; ok && v != nil {
			continue
		}
		if placeholders == nil {
			placeholders = placeholderSections(lang)
		}
		m[name] = placeholders[name]
	}
	return Record(m)
}

func fallbackResult(raw, trimmed string, lang domain.Language) Result {
	rec := make(Record, len(Sections)+1)
	for name, section := range placeholderSections(lang) {
		rec[name] = section
	}
	rec[SectionMaterialSelection].(map[string]any)["justification"] = truncateRunes(trimmed, justificationRunes)
	rec[RawResponseKey] = raw
	return Result{Kind: Fallback, Record: rec, Raw: raw}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
