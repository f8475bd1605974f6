package difftest

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Comparison is the outcome of comparing one case's two response bodies.
// Byte counts are taken on the unnormalized bodies, so a size discrepancy
// stays visible even when the bodies are judged equivalent.
type Comparison struct {
	Match          bool
	ReferenceBytes int
	CandidateBytes int
	Diff           string // unified diff of the normalized bodies; empty on match
}

// Normalize applies the whitespace-insensitive transformation used for
// comparison: the body is split into whitespace-separated tokens and rejoined
// one token per line. Spacing, indentation, and line-ending variation all
// disappear; every non-whitespace byte is preserved.
func Normalize(body []byte) string {
	return strings.Join(strings.Fields(string(body)), "\n")
}

// Compare determines whether two response bodies are equivalent under
// whitespace normalization. Two empty bodies are equivalent. On a mismatch,
// Diff holds a line-level unified diff of the normalized texts, which makes
// the differing tokens visible directly.
func Compare(reference, candidate []byte) Comparison {
	c := Comparison{
		ReferenceBytes: len(reference),
		CandidateBytes: len(candidate),
	}
	refNorm, candNorm := Normalize(reference), Normalize(candidate)
	if refNorm == candNorm {
		c.Match = true
		return c
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(refNorm),
		B:        difflib.SplitLines(candNorm),
		FromFile: "reference",
		ToFile:   "candidate",
		Context:  2,
	})
	if err != nil {
		// can only happen if the writer fails, which a string builder won't
		diff = "(diff unavailable: " + err.Error() + ")"
	}
	c.Diff = diff
	return c
}
