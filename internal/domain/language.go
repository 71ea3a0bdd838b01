package domain

import "strings"

// Language is a supported interface/report language.
type Language string

const (
	LanguageEN Language = "en"
	LanguageRU Language = "ru"
)

// Languages lists the supported languages, default first.
var Languages = []Language{LanguageEN, LanguageRU}

// ParseLanguage resolves s to a supported language; anything unknown is English.
func ParseLanguage(s string) Language {
	if l, ok := LookupLanguage(s); ok {
		return l
	}
	return LanguageEN
}

// LookupLanguage reports whether s names a supported language.
func LookupLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageEN:
		return LanguageEN, true
	case LanguageRU:
		return LanguageRU, true
	default:
		return "", false
	}
}

func (l Language) String() string { return string(l) }

func (l Language) IsRussian() bool { return l == LanguageRU }
