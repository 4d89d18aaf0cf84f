package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Package-level compiled regex patterns for fingerprint generation
var (
	nonAlnumPattern       = regexp.MustCompile(`[^a-z0-9]`)
	salesPrefixPattern    = regexp.MustCompile(`^(adicionais|adicional|opcionais|borda|acrescimos?|extras?)\s*[-–]?\s*`)
	combiningRunesRemover = runes.Remove(runes.In(unicode.Mn))
)

// stripDiacritics decomposes accented runes and drops the combining marks
// ("açaí" -> "acai").
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, combiningRunesRemover, norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fingerprint derives the comparison key used for exact and substring catalog
// matching: diacritics stripped, lowercased, non-alphanumerics removed.
func Fingerprint(text string) string {
	if text == "" {
		return ""
	}
	clean := stripDiacritics(strings.ToLower(text))
	return nonAlnumPattern.ReplaceAllString(clean, "")
}

// AdditionFingerprint fingerprints an addition name after dropping the sales
// group prefix the POS prepends ("Adicionais - Bacon" -> "bacon").
func AdditionFingerprint(text string) string {
	if text == "" {
		return ""
	}
	clean := stripDiacritics(strings.ToLower(text))
	clean = salesPrefixPattern.ReplaceAllString(clean, "")
	return nonAlnumPattern.ReplaceAllString(clean, "")
}
