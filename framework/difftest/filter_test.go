package difftest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type regexFilterTestParams struct {
	run         []string
	skip        []string
	path        string
	shouldMatch bool
}

func TestRegexFilters(t *testing.T) {
	allParams := []regexFilterTestParams{
		// matches everything by default
		{nil, nil, "/geohack.php?pagename=A", true},

		// -run
		{[]string{"pagename=A"}, nil, "/geohack.php?pagename=A", true},
		{[]string{"pagename=A"}, nil, "/geohack.php?pagename=B", false},
		{[]string{"pagename=[AB]"}, nil, "/geohack.php?pagename=B", true},

		// -run with multiple patterns
		{[]string{"pagename=A", "pagename=B"}, nil, "/geohack.php?pagename=A", true},
		{[]string{"pagename=A", "pagename=B"}, nil, "/geohack.php?pagename=B", true},
		{[]string{"pagename=A", "pagename=B"}, nil, "/geohack.php?pagename=C", false},

		// -skip
		{nil, []string{"pagename=A"}, "/geohack.php?pagename=A", false},
		{nil, []string{"pagename=A"}, "/geohack.php?pagename=B", true},

		// -run and -skip together; skip wins
		{[]string{"geohack"}, []string{"pagename=A"}, "/geohack.php?pagename=A", false},
		{[]string{"geohack"}, []string{"pagename=A"}, "/geohack.php?pagename=B", true},
	}
	for _, params := range allParams {
		t.Run(fmt.Sprintf("run=%v, skip=%v, path=%s", params.run, params.skip, params.path), func(t *testing.T) {
			var filters RegexFilters
			for _, p := range params.run {
				require.NoError(t, filters.MustMatch.Set(p))
			}
			for _, p := range params.skip {
				require.NoError(t, filters.MustNotMatch.Set(p))
			}
			assert.Equal(t, params.shouldMatch, filters.Match(params.path))
		})
	}
}

func TestPatternListSetRejectsInvalidRegex(t *testing.T) {
	var l PatternList
	assert.Error(t, l.Set("("))
	assert.False(t, l.IsDefined())
}

func TestPatternListString(t *testing.T) {
	var l PatternList
	require.NoError(t, l.Set("a.*b"))
	require.NoError(t, l.Set("c"))
	assert.Equal(t, `"a.*b" or "c"`, l.String())
}
