package institution

import (
	"fmt"
	"omnivox-backend/lib/scrapers/omnivox/assemble"
	"omnivox-backend/lib/scrapers/omnivox/lea"
	"omnivox-backend/lib/textutil"
	"omnivox-backend/lib/timezone"
	"sort"
)

// suggestions below this similarity are not worth showing
const suggestionThreshold = 0.8

// Institution pairs the portal navigation of a college with the assembler
// for its markup.
type Institution struct {
	Name      string
	Portal    lea.Portal
	Assembler assemble.Assembler
}

type variant struct {
	portal    lea.Portal
	assembler func(clock timezone.Clock) assemble.Assembler
}

var variants = map[string]variant{
	"saintfoy": {
		portal:    lea.SaintFoy,
		assembler: assemble.SaintFoy,
	},
	"champlain": {
		portal:    lea.Champlain,
		assembler: assemble.Champlain,
	},
}

var aliases = map[string]string{
	"saintefoy":          "saintfoy",
	"stefoy":             "saintfoy",
	"csf":                "saintfoy",
	"cegepdesaintefoy":   "saintfoy",
	"champlaincollege":   "champlain",
	"champlainstlambert": "champlain",
}

// UnknownError is returned by Lookup for names that aren't supported.
type UnknownError struct {
	Name string
	// Suggestion is the closest supported name, empty if none is close.
	Suggestion string
}

func (e *UnknownError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown institution '%s', did you mean '%s'?", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown institution '%s'", e.Name)
}

// Names returns the supported institution names in order.
func Names() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// suggestionCandidates lists the supported names then the aliases, each
// sorted, ties in similarity go to the earliest candidate.
func suggestionCandidates() []string {
	sortedAliases := make([]string, 0, len(aliases))
	for alias := range aliases {
		sortedAliases = append(sortedAliases, alias)
	}
	sort.Strings(sortedAliases)
	return append(Names(), sortedAliases...)
}

// Lookup finds an institution by name, ignoring case, accents and
// punctuation. The assembler reads the current year from clock.
func Lookup(name string, clock timezone.Clock) (Institution, error) {
	key := textutil.NormalizeName(name)
	if alias, ok := aliases[key]; ok {
		key = alias
	}

	v, ok := variants[key]
	if !ok {
		err := &UnknownError{Name: name}
		match, score := textutil.ClosestMatch(name, suggestionCandidates())
		if score >= suggestionThreshold {
			if canonical, ok := aliases[match]; ok {
				match = canonical
			}
			err.Suggestion = match
		}
		return Institution{}, err
	}

	return Institution{
		Name:      key,
		Portal:    v.portal,
		Assembler: v.assembler(clock),
	}, nil
}
