package usecase

import (
	"regexp"
	"strings"
)

// sizeRules match a quantity immediately followed (optionally hyphenated or
// spaced) by a unit from the fixed vocabulary. Applied in order; the first
// match wins, so compound units like "fl oz" must precede their suffixes.
var sizeRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\d+\.?\d*)[-\s]*(fl\s*oz|fluid\s+ounces?)\b`),
	regexp.MustCompile(`(?i)\b(\d+\.?\d*)[-\s]*(oz|ounces?)\b`),
	regexp.MustCompile(`(?i)\b(\d+\.?\d*)[-\s]*(lbs?|pounds?)\b`),
	regexp.MustCompile(`(?i)\b(\d+\.?\d*)[-\s]*(kg|kilograms?)\b`),
	regexp.MustCompile(`(?i)\b(\d+\.?\d*)[-\s]*(grams?|g)\b`),
	regexp.MustCompile(`(?i)\b(\d+\.?\d*)[-\s]*(ml|milliliters?)\b`),
	regexp.MustCompile(`(?i)\b(\d+\.?\d*)[-\s]*(liters?|l)\b`),
	regexp.MustCompile(`(?i)\b(\d+\.?\d*)[-\s]*(count|ct|pack|pk)\b`),
}

// whitespaceRegex collapses runs of whitespace inside matched compound units.
var whitespaceRegex = regexp.MustCompile(`\s+`)

// TitleNormalizer extracts brand, size, and unit from raw product titles.
// It is stateless: identical input always yields identical output.
type TitleNormalizer struct{}

// NewTitleNormalizer creates a title normalizer.
func NewTitleNormalizer() *TitleNormalizer {
	return &TitleNormalizer{}
}

// Normalize extracts (brand, size, unit) from a raw title.
//
// The brand is the first whitespace-delimited token of the trimmed title.
// Size and unit come from the first size rule that matches; if none does,
// both are empty, which is a normal outcome rather than an error. Normalize
// never fails, whatever the input.
func (n *TitleNormalizer) Normalize(title string) (brand, size, unit string) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", "", ""
	}

	if fields := strings.Fields(trimmed); len(fields) > 0 {
		brand = fields[0]
	}

	for _, rule := range sizeRules {
		m := rule.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		size = m[1]
		unit = strings.ToLower(whitespaceRegex.ReplaceAllString(m[2], " "))
		break
	}

	return brand, size, unit
}
