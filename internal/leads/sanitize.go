package leads

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict strips every tag and attribute, keeping inner text only.
var strict = bluemonday.StrictPolicy()

// Clean removes all markup from a free-text string and trims whitespace.
// It is pure and applied to every string field before persistence.
func Clean(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// cleanUTM sanitizes every attribution field.
func cleanUTM(u UTMParams) UTMParams {
	return UTMParams{
		Source:   Clean(u.Source),
		Medium:   Clean(u.Medium),
		Campaign: Clean(u.Campaign),
		Content:  Clean(u.Content),
		Term:     Clean(u.Term),
		Referrer: Clean(u.Referrer),
		Page:     Clean(u.Page),
	}
}
