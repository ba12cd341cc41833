package domain

import (
	"strings"
)

// CollapseSpaces trims leading/trailing whitespace and compresses runs of
// spaces into one. Case, line breaks and diacritics are preserved.
func CollapseSpaces(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeText prepares text for comparison: CollapseSpaces plus lowercase.
// Two practice questions that normalize equally are considered duplicates.
func NormalizeText(text string) string {
	return strings.ToLower(CollapseSpaces(text))
}
