package folio

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// readingSpeed is the assumed reading pace in tokens per minute,
// tuned for mixed Chinese/English content.
const readingSpeed = 200

// Slugify converts a title to a URL-safe slug. The input is lowercased,
// decomposed (NFD) so accented letters lose their diacritics, and every
// run of characters outside a-z, 0-9 and the CJK unified ideograph block
// collapses to a single hyphen. Leading and trailing hyphens are
// stripped, so reapplying Slugify to its own output is a no-op.
//
// An empty or all-punctuation title yields "" — callers must treat that
// as a validation failure, never store it as a slug.
func Slugify(s string) string {
	s = norm.NFD.String(strings.ToLower(strings.TrimSpace(s)))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining marks left over from decomposition
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r >= 0x4e00 && r <= 0x9fa5:
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// EstimateReadTime derives a minutes-to-read label from the content's
// whitespace-separated token count. Non-empty content always reports at
// least one minute; empty content reports zero.
func EstimateReadTime(content string) string {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / readingSpeed))
	return fmt.Sprintf("%d 分钟", minutes)
}
