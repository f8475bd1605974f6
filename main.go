package main

import (
	"bufio"
	"context"
	_ "embed" // this is required in order for go:embed to work
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"time"

	"github.com/geohack-port/diff-harness/corpus"
	"github.com/geohack-port/diff-harness/difftests"
	"github.com/geohack-port/diff-harness/framework"
	"github.com/geohack-port/diff-harness/framework/difftest"
	"github.com/geohack-port/diff-harness/framework/harness"

	"golang.org/x/exp/slices"
)

const statusProbeTimeout = time.Second * 10

//go:embed VERSION
var versionString string // comes from the VERSION file which we update for each release

func main() {
	fmt.Printf("geohack-diff-harness v%s\n", strings.TrimSpace(versionString))

	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	results, err := run(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !results.OK() {
		os.Exit(1)
	}
}

func run(params commandParams) (*difftest.Results, error) {
	if params.skipFile != "" {
		if err := loadSuppressions(&params); err != nil {
			return nil, err
		}
	}

	suite, err := corpus.LoadFile(params.corpusFile)
	if err != nil {
		return nil, err
	}
	cases := suite.Cases()

	prefix := params.pathPrefix
	if suite.Prefix != "" {
		prefix = suite.Prefix
	}
	if offenders := corpus.WithoutPrefix(cases, prefix); len(offenders) > 0 {
		fmt.Printf("Warning: %d of %d corpus lines do not start with %q (first: %s); they will still be run\n",
			len(offenders), len(cases), prefix, offenders[0].Path)
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	h, err := harness.NewTestHarness(
		params.referenceURL,
		params.candidateURL,
		params.requestTimeout,
		statusProbeTimeout,
		mainDebugLogger,
		os.Stdout,
	)
	if err != nil {
		return nil, err
	}

	difftest.PrintFilterDescription(params.filters)

	consoleReporter := difftest.ConsoleReporter{
		Verbose:              params.verbose,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	var reporter difftest.Reporter = consoleReporter
	if params.jUnitFile != "" {
		reporter = &difftest.MultiReporter{Reporters: []difftest.Reporter{
			consoleReporter,
			difftest.NewJUnitReporter(params.jUnitFile, params.referenceURL, params.candidateURL, params.filters),
		}}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Running %d cases from %s\n\n", len(cases), suite.Name)
	results := difftests.RunSuite(ctx, h, cases, difftests.SuiteOptions{
		Filters:       params.filters,
		Reporter:      reporter,
		Workers:       params.workers,
		SaveBodiesDir: params.saveBodiesDir,
	})

	logErr := reporter.EndLog(results)
	if logErr != nil {
		return nil, fmt.Errorf("error writing log: %v", logErr)
	}

	if ctx.Err() != nil {
		return nil, errors.New("run interrupted before all cases completed")
	}

	if params.recordFailures != "" {
		if err := writeFailedPaths(params.recordFailures, results); err != nil {
			return nil, err
		}
	}

	return &results, nil
}

func loadSuppressions(params *commandParams) error {
	file, err := os.Open(params.skipFile)
	if err != nil {
		return fmt.Errorf("cannot open provided suppression file: %v", err)
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Ignore blank lines
		if line == "" {
			continue
		}
		escaped := regexp.QuoteMeta(line)
		if err := params.filters.MustNotMatch.Set(escaped); err != nil {
			return fmt.Errorf("cannot parse suppression: %v", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("while processing suppression file: %v", err)
	}
	return nil
}

// writeFailedPaths records the failing paths, deduplicated and sorted, in a
// file that can later be fed back as a corpus or a -skip-file.
func writeFailedPaths(filePath string, results difftest.Results) error {
	paths := make([]string, 0, len(results.Failures))
	for _, v := range results.Failures {
		paths = append(paths, v.Path)
	}
	slices.Sort(paths)
	paths = slices.Compact(paths)

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("cannot create failure record file: %v", err)
	}
	for _, p := range paths {
		fmt.Fprintln(f, p)
	}
	return f.Close()
}
