package store

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLen = 50

// slugRegex matches runs of characters that become a single hyphen
var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a title into a stored definition name.
// Accents are stripped, letters lowercased, everything else outside
// [a-z0-9] collapses to a hyphen, and the result is cut at a word
// boundary to at most 50 characters.
//
//	"User Profile Route" -> "user-profile-route"
//	"Café: /menu/{id}"   -> "cafe-menu-id"
func Slugify(title string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(fold, strings.TrimSpace(title))
	if err != nil {
		result = title
	}

	result = cases.Lower(language.Und).String(result)
	result = strings.Trim(slugRegex.ReplaceAllString(result, "-"), "-")

	if len(result) > maxSlugLen {
		cutoff := maxSlugLen
		if idx := strings.LastIndex(result[:cutoff], "-"); idx > 0 {
			cutoff = idx
		}
		result = result[:cutoff]
	}

	return result
}

// GenerateUniqueSlug generates a name from a title that does not collide
// with existing names, adding a numeric suffix if needed.
func GenerateUniqueSlug(title string, existing []string) string {
	base := Slugify(title)
	if base == "" {
		base = "template"
	}

	slug := base
	for i := 2; slices.Contains(existing, slug); i++ {
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return slug
}
