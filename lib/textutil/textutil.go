package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var lineBreakRegex = regexp.MustCompile(`[ \t]*[\r\n]+[ \t]*`)
var nameRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize trims a piece of scraped text and collapses every run of line
// breaks (and the blanks surrounding it) into a single space.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = lineBreakRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// NormalizeName lowercases a name and drops anything that isn't a letter or
// a digit, so "Sainte-Foy" and "saintefoy" compare equal.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.NewReplacer(
		"é", "e", "è", "e", "ê", "e",
		"à", "a", "â", "a",
		"ç", "c", "ô", "o", "î", "i",
	).Replace(name)
	return nameRegex.ReplaceAllString(name, "")
}

// ClosestMatch returns the candidate closest to name by Jaro-Winkler
// similarity, along with its score. Both sides are compared in their
// normalized form.
func ClosestMatch(name string, candidates []string) (string, float64) {
	name = NormalizeName(name)

	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score := matchr.JaroWinkler(name, NormalizeName(c), false)
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best, bestScore
}
