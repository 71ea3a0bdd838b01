// Package i18n holds the English and Russian message tables and resolves the
// request language.
package i18n

import (
	"embed"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/materials-advisor/internal/domain"
)

//go:embed locales/*.yaml
var localeFS embed.FS

type Bundle struct {
	messages map[domain.Language]map[string]string
	matcher  language.Matcher
}

// Load parses the embedded locale tables.
func Load() (*Bundle, error) {
	b := &Bundle{
		messages: make(map[domain.Language]map[string]string, len(domain.Languages)),
		matcher:  language.NewMatcher([]language.Tag{language.English, language.Russian}),
	}
	for _, lang := range domain.Languages {
		raw, err := localeFS.ReadFile("locales/" + string(lang) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", lang, err)
		}
		table := map[string]string{}
		if err := yaml.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", lang, err)
		}
		b.messages[lang] = table
	}
	return b, nil
}

// MustLoad is Load for package-level initialization; the tables are compiled in.
func MustLoad() *Bundle {
	b, err := Load()
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Bundle) Lookup(lang domain.Language, key string) (string, bool) {
	if m, ok := b.messages[lang]; ok {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	return "", false
}

// T returns the message for key in lang, falling back to English, then to the key.
func (b *Bundle) T(lang domain.Language, key string) string {
	if v, ok := b.Lookup(lang, key); ok {
		return v
	}
	if v, ok := b.Lookup(domain.LanguageEN, key); ok {
		return v
	}
	return key
}

// Size is a byte count rendered in the message language, e.g. "16MB".
type Size int64

// Tf is T followed by fmt.Sprintf with args. Size arguments are formatted
// with the language's unit names.
func (b *Bundle) Tf(lang domain.Language, key string, args ...any) string {
	msg := b.T(lang, key)
	if len(args) == 0 {
		return msg
	}
	out := make([]any, len(args))
	for i, a := range args {
		if s, ok := a.(Size); ok {
			out[i] = b.FormatSize(lang, int64(s))
			continue
		}
		out[i] = a
	}
	return fmt.Sprintf(msg, out...)
}

// FormatSize renders n in the largest unit that divides it exactly.
func (b *Bundle) FormatSize(lang domain.Language, n int64) string {
	switch {
	case n > 0 && n%(1<<20) == 0:
		return fmt.Sprintf(b.T(lang, "size.mb"), n>>20)
	case n > 0 && n%(1<<10) == 0:
		return fmt.Sprintf(b.T(lang, "size.kb"), n>>10)
	default:
		return fmt.Sprintf(b.T(lang, "size.bytes"), n)
	}
}

// Keys lists every key of lang's table.
func (b *Bundle) Keys(lang domain.Language) []string {
	m := b.messages[lang]
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// Negotiate picks a supported language from an Accept-Language header.
func (b *Bundle) Negotiate(acceptLanguage string) domain.Language {
	tags, _, err := language.ParseAcceptLanguage(strings.TrimSpace(acceptLanguage))
	if err != nil || len(tags) == 0 {
		return domain.LanguageEN
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return domain.LanguageEN
	}
	return domain.Languages[idx]
}

// Resolve applies the language precedence: explicit cookie value, then the
// Accept-Language header, then English.
func (b *Bundle) Resolve(cookie string, acceptLanguage string) domain.Language {
	if l, ok := domain.LookupLanguage(cookie); ok {
		return l
	}
	return b.Negotiate(acceptLanguage)
}
