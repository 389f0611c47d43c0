package plot

import (
	"fmt"
	"os"
	"unicode"

	"github.com/golang/freetype/truetype"
	"github.com/mozillazg/go-unidecode"
	"github.com/wcharczuk/go-chart/v2"
)

// LoadFont reads a TrueType font used for every chart label.
func LoadFont(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	font, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return font, nil
}

// painter carries the font settings into every renderer.
// Without a configured font the built-in one is used and labels are transliterated to ASCII.
type painter struct {
	font          *truetype.Font
	transliterate bool
}

func newPainter(font *truetype.Font) painter {
	return painter{font: font, transliterate: font == nil}
}

func (p painter) label(s string) string {
	if !p.transliterate || isASCII(s) {
		return s
	}
	return unidecode.Unidecode(s)
}

func (p painter) labels(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = p.label(v)
	}
	return out
}

// resolveFont returns the configured font or go-chart's default.
func (p painter) resolveFont() (*truetype.Font, error) {
	if p.font != nil {
		return p.font, nil
	}
	return chart.GetDefaultFont()
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
