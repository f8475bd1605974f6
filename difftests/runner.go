// Package difftests runs the differential test suite: for each corpus case it
// fetches both endpoints, compares the normalized bodies, and reports a
// verdict, in corpus order.
package difftests

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/geohack-port/diff-harness/corpus"
	"github.com/geohack-port/diff-harness/framework"
	"github.com/geohack-port/diff-harness/framework/difftest"
	"github.com/geohack-port/diff-harness/framework/harness"
)

const skippedByFilter = "excluded by filter parameters"

// SuiteOptions configures a suite run.
type SuiteOptions struct {
	Filters  difftest.RegexFilters
	Reporter difftest.Reporter

	// Workers is the number of cases fetched concurrently. Values below 2
	// select the baseline sequential model. Reporting is always serialized
	// back into corpus order, so the transcript is the same either way.
	Workers int

	// SaveBodiesDir, if non-empty, is a directory where both bodies of every
	// fetched case are persisted for external inspection.
	SaveBodiesDir string
}

// RunSuite replays the corpus and returns the accumulated results. One verdict
// is recorded per executed case; cases excluded by filters are reported as
// skipped and produce no verdict. A failing case never prevents later cases
// from running.
//
// If ctx is canceled mid-run, the case in flight is not reported (its fetches
// were cut short, so any verdict would be misleading) and the remaining cases
// are omitted.
func RunSuite(
	ctx context.Context,
	h *harness.TestHarness,
	cases []corpus.TestCase,
	opts SuiteOptions,
) difftest.Results {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = difftest.NullReporter()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	type caseOutcome struct {
		verdict difftest.Verdict
		output  framework.CapturedOutput
	}

	pending := make([]chan caseOutcome, len(cases))
	sem := make(chan struct{}, workers)
	for i, tc := range cases {
		if !opts.Filters.Match(tc.Path) {
			continue
		}
		pending[i] = make(chan caseOutcome, 1)
		go func(ch chan<- caseOutcome, tc corpus.TestCase) {
			sem <- struct{}{}
			defer func() { <-sem }()
			verdict, output := runCase(ctx, h, tc, opts)
			ch <- caseOutcome{verdict, output}
		}(pending[i], tc)
	}

	var results difftest.Results
	for i, tc := range cases {
		if pending[i] == nil {
			reporter.CaseSkipped(tc.Path, skippedByFilter)
			continue
		}
		outcome := <-pending[i]
		if ctx.Err() != nil {
			break
		}
		reporter.CaseStarted(tc.Path)
		results.Record(outcome.verdict)
		reporter.CaseFinished(outcome.verdict, outcome.output)
	}
	return results
}

func runCase(
	ctx context.Context,
	h *harness.TestHarness,
	tc corpus.TestCase,
	opts SuiteOptions,
) (verdict difftest.Verdict, output framework.CapturedOutput) {
	logger := &framework.CapturingLogger{}
	verdict.Path = tc.Path

	defer func() {
		output = logger.Output()
		if r := recover(); r != nil {
			verdict.Status = difftest.StatusFetchFailed
			verdict.Err = fmt.Errorf("unexpected panic in case: %+v\n%s", r, string(debug.Stack()))
		}
	}()

	reference, candidate, err := h.FetchBoth(ctx, tc.Path, logger)
	if err != nil {
		verdict.Status = difftest.StatusFetchFailed
		verdict.Err = err
		return
	}

	if opts.SaveBodiesDir != "" {
		refFile, candFile, err := harness.SaveBodies(opts.SaveBodiesDir, tc.Path, reference, candidate)
		if err != nil {
			logger.Printf("could not save response bodies: %s", err)
		} else {
			logger.Printf("saved bodies to %s and %s", refFile, candFile)
		}
	}

	verdict.Comparison = difftest.Compare(reference.Body, candidate.Body)
	if verdict.Comparison.Match {
		verdict.Status = difftest.StatusMatch
	} else {
		verdict.Status = difftest.StatusMismatch
	}
	return
}
