package institution

import (
	"errors"
	"omnivox-backend/lib/timezone"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{name: "champlain", expected: "champlain"},
		{name: "Champlain", expected: "champlain"},
		{name: "saintfoy", expected: "saintfoy"},
		{name: "Sainte-Foy", expected: "saintfoy"},
		{name: "Cégep de Sainte-Foy", expected: "saintfoy"},
		{name: "dawson", expected: ""},
		{name: "ste-foy", expected: "saintfoy"},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			inst, err := Lookup(test.name, timezone.StandardClock{})
			if test.expected == "" {
				var unknown *UnknownError
				require.True(t, errors.As(err, &unknown))
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.expected, inst.Name)
			require.NotEmpty(t, inst.Portal.LoginUrl)
			require.NotEmpty(t, inst.Assembler.Institution)
		})
	}
}

func TestLookupSuggestion(t *testing.T) {
	_, err := Lookup("champlian", timezone.StandardClock{})
	var unknown *UnknownError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "champlain", unknown.Suggestion)
	require.Contains(t, err.Error(), "did you mean 'champlain'")

	_, err = Lookup("dawson", timezone.StandardClock{})
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "", unknown.Suggestion)
}

func TestSuggestionCandidatesOrder(t *testing.T) {
	expected := []string{
		"champlain", "saintfoy",
		"cegepdesaintefoy", "champlaincollege", "champlainstlambert",
		"csf", "saintefoy", "stefoy",
	}
	for i := 0; i < 10; i++ {
		require.Equal(t, expected, suggestionCandidates())
	}
}

func TestNames(t *testing.T) {
	require.Equal(t, []string{"champlain", "saintfoy"}, Names())
}
