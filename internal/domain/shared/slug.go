package shared

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)
	slugPattern      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify turns free text into a lower-case kebab-case identifier,
// folding accented letters to their base form ("Città" -> "citta").
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = slugInvalidChars.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(folded, "-")
}

// IsValidSlug reports whether s is already in kebab-case form
func IsValidSlug(s string) bool {
	return len(s) <= 200 && slugPattern.MatchString(s)
}
