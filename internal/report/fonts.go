package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/freetype/truetype"
)

const (
	regularFontFile = "DejaVuSans.ttf"
	boldFontFile    = "DejaVuSans-Bold.ttf"
)

// glyphProbe must all be present for a font to be used for Russian reports.
var glyphProbe = []rune{'А', 'Ж', 'Я', 'а', 'ж', 'я', '°', '≥'}

type fontSet struct {
	regular []byte
	bold    []byte
}

// loadUnicodeFonts reads and validates the regular and bold faces from dir.
func loadUnicodeFonts(dir string) (*fontSet, error) {
	if dir == "" {
		return nil, errors.New("font dir not configured")
	}
	regular, err := readFont(filepath.Join(dir, regularFontFile))
	if err != nil {
		return nil, err
	}
	bold, err := readFont(filepath.Join(dir, boldFontFile))
	if err != nil {
		return nil, err
	}
	return &fontSet{regular: regular, bold: bold}, nil
}

func readFont(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	if err := checkGlyphs(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return raw, nil
}

func checkGlyphs(raw []byte) error {
	f, err := truetype.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	for _, r := range glyphProbe {
		if f.Index(r) == 0 {
			return fmt.Errorf("font has no glyph for %q", r)
		}
	}
	return nil
}
