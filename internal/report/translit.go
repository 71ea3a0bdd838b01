package report

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// symbolReplacer maps typographic symbols and unit abbreviations to ASCII.
// Multi-rune Cyrillic units come first so they win over letter-by-letter
// transliteration.
var symbolReplacer = strings.NewReplacer(
	"Дж/см²", "J/cm2",
	"МПа", "MPa",
	"НВ", "HB",
	"σ", "sigma",
	"°", " grad",
	"≥", ">=",
	"≤", "<=",
	"№", "No.",
	"–", "-",
	"—", "-",
	"“", `"`,
	"”", `"`,
	"«", `"`,
	"»", `"`,
	"‘", "'",
	"’", "'",
	"µ", "mikro",
	"μ", "mikro",
	"•", "*",
	"…", "...",
)

var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts",
	'ч': "ch", 'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
	'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D", 'Е': "E", 'Ё': "Yo", 'Ж': "Zh",
	'З': "Z", 'И': "I", 'Й': "Y", 'К': "K", 'Л': "L", 'М': "M", 'Н': "N", 'О': "O",
	'П': "P", 'Р': "R", 'С': "S", 'Т': "T", 'У': "U", 'Ф': "F", 'Х': "Kh", 'Ц': "Ts",
	'Ч': "Ch", 'Ш': "Sh", 'Щ': "Shch", 'Ъ': "", 'Ы': "Y", 'Ь': "", 'Э': "E", 'Ю': "Yu", 'Я': "Ya",
}

// Transliterate converts text to a Latin-only approximation: NFC first, then
// symbol replacement, then Cyrillic letters. Other Cyrillic code points
// (Ukrainian, Serbian, ...) become '?'.
func Transliterate(s string) string {
	s = symbolReplacer.Replace(norm.NFC.String(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if lat, ok := cyrillicToLatin[r]; ok {
			b.WriteString(lat)
			continue
		}
		if isCyrillic(r) {
			b.WriteByte('?')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isCyrillic(r rune) bool {
	return (r >= 0x0400 && r <= 0x052F) || (r >= 0x1C80 && r <= 0x1C8F) ||
		(r >= 0x2DE0 && r <= 0x2DFF) || (r >= 0xA640 && r <= 0xA69F)
}

// encodeCP1252 produces the byte string the core PDF fonts expect; runes
// outside Windows-1252 become '?'.
func encodeCP1252(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}
