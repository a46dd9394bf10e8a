package subtitles

import (
	"strconv"

	"crd/internal/ass"
	"crd/internal/config"
)

// StyleRules describes which styles get the house style applied and the
// values written into them.
type StyleRules struct {
	// LegacyFont matches styles by font name.
	LegacyFont string
	// PlaceholderStyle matches styles by style name.
	PlaceholderStyle    string
	LegacyFontSize      int
	PlaceholderFontSize int
	Outline             int
	MarginV             int
	MarginHorizontal    int
}

func styleRulesFrom(cfg config.Styles) StyleRules {
	return StyleRules{
		LegacyFont:          cfg.LegacyFont,
		PlaceholderStyle:    cfg.PlaceholderStyle,
		LegacyFontSize:      cfg.LegacyFontSize,
		PlaceholderFontSize: cfg.PlaceholderFontSize,
		Outline:             cfg.Outline,
		MarginV:             cfg.MarginV,
		MarginHorizontal:    cfg.MarginHorizontal,
	}
}

// NormalizeStyles rewrites recognized styles in place. Styles using the
// legacy font get the house size, outline and vertical margin; styles named
// like the placeholder additionally get horizontal margins and the larger
// placeholder size. The name rule runs second, so a style matching both ends
// up with the placeholder values. Unrecognized styles are untouched.
func NormalizeStyles(doc *ass.Document, rules StyleRules) {
	for i := range doc.Styles.Styles {
		style := &doc.Styles.Styles[i]
		if style.Get("Fontname") == rules.LegacyFont {
			style.Set("Fontsize", strconv.Itoa(rules.LegacyFontSize))
			style.Set("Outline", strconv.Itoa(rules.Outline))
			style.Set("MarginV", strconv.Itoa(rules.MarginV))
		}
		if style.Name() == rules.PlaceholderStyle {
			style.Set("Fontsize", strconv.Itoa(rules.PlaceholderFontSize))
			style.Set("Outline", strconv.Itoa(rules.Outline))
			style.Set("MarginL", strconv.Itoa(rules.MarginHorizontal))
			style.Set("MarginR", strconv.Itoa(rules.MarginHorizontal))
			style.Set("MarginV", strconv.Itoa(rules.MarginV))
		}
	}
}
