package difftest

import "fmt"

// Status classifies the outcome of one test case.
type Status int

const (
	// StatusMatch means both fetches succeeded and the normalized bodies were equal.
	StatusMatch Status = iota
	// StatusMismatch means both fetches succeeded but the normalized bodies differed.
	StatusMismatch
	// StatusFetchFailed means at least one endpoint could not be reached, so the
	// bodies were never compared.
	StatusFetchFailed
)

func (s Status) String() string {
	switch s {
	case StatusMatch:
		return "match"
	case StatusMismatch:
		return "mismatch"
	case StatusFetchFailed:
		return "fetch failed"
	default:
		return fmt.Sprintf("unknown status %d", int(s))
	}
}

// Verdict is the recorded outcome for one test case.
type Verdict struct {
	// Path is the request path that identifies the case.
	Path string

	Status Status

	// Comparison is populated unless Status is StatusFetchFailed.
	Comparison Comparison

	// Err is populated only when Status is StatusFetchFailed.
	Err error
}

func (v Verdict) OK() bool { return v.Status == StatusMatch }

// Results accumulates the verdicts of a whole run, in corpus order.
type Results struct {
	Cases    []Verdict
	Failures []Verdict
}

func (r *Results) Record(v Verdict) {
	r.Cases = append(r.Cases, v)
	if !v.OK() {
		r.Failures = append(r.Failures, v)
	}
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}
