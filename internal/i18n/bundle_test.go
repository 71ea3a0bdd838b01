package i18n

import (
	"sort"
	"testing"

	"github.com/yungbote/materials-advisor/internal/domain"
)

func TestLocalesHaveSameKeys(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	en := b.Keys(domain.LanguageEN)
	ru := b.Keys(domain.LanguageRU)
	sort.Strings(en)
	sort.Strings(ru)
	if len(en) != len(ru) {
		t.Fatalf("key count: en=%d ru=%d", len(en), len(ru))
	}
	for i := range en {
		if en[i] != ru[i] {
			t.Fatalf("key mismatch at %d: en=%q ru=%q", i, en[i], ru[i])
		}
	}
}

func TestT(t *testing.T) {
	b := MustLoad()
	if got := b.T(domain.LanguageEN, "error.no_input"); got != "Please provide either a text description or upload a drawing." {
		t.Fatalf("en=%q", got)
	}
	if got := b.T(domain.LanguageRU, "error.no_input"); got != "Пожалуйста, предоставьте текстовое описание или загрузите чертеж." {
		t.Fatalf("ru=%q", got)
	}
	if got := b.T(domain.LanguageRU, "missing.key"); got != "missing.key" {
		t.Fatalf("missing key=%q", got)
	}
}

func TestNegotiate(t *testing.T) {
	b := MustLoad()
	cases := map[string]domain.Language{
		"":                              domain.LanguageEN,
		"ru-RU,ru;q=0.9,en-US;q=0.8":    domain.LanguageRU,
		"en-GB,en;q=0.9":                domain.LanguageEN,
		"de-DE,ru;q=0.5":                domain.LanguageRU,
		"fr":                            domain.LanguageEN,
		"not a valid header;;;q=banana": domain.LanguageEN,
	}
	for header, want := range cases {
		if got := b.Negotiate(header); got != want {
			t.Fatalf("Negotiate(%q): want=%q got=%q", header, want, got)
		}
	}
}

func TestResolveCookieWins(t *testing.T) {
	b := MustLoad()
	if got := b.Resolve("en", "ru-RU"); got != domain.LanguageEN {
		t.Fatalf("cookie should win, got=%q", got)
	}
	if got := b.Resolve("xx", "ru-RU"); got != domain.LanguageRU {
		t.Fatalf("invalid cookie should fall through to header, got=%q", got)
	}
}

func TestTfFormatsSizes(t *testing.T) {
	b := MustLoad()
	cases := []struct {
		lang domain.Language
		size Size
		want string
	}{
		{domain.LanguageEN, 16 << 20, "File size must be less than 16MB"},
		{domain.LanguageRU, 16 << 20, "Размер файла должен быть менее 16МБ"},
		{domain.LanguageEN, 512 << 10, "File size must be less than 512KB"},
		{domain.LanguageEN, 64, "File size must be less than 64 bytes"},
		{domain.LanguageRU, 1500, "Размер файла должен быть менее 1500 байт"},
	}
	for _, tc := range cases {
		if got := b.Tf(tc.lang, "error.file_too_large", tc.size); got != tc.want {
			t.Fatalf("Tf(%s, %d) = %q, want %q", tc.lang, tc.size, got, tc.want)
		}
	}
	if got := b.Tf(domain.LanguageEN, "error.no_text"); got != "No text available for analysis." {
		t.Fatalf("Tf without args = %q", got)
	}
}
