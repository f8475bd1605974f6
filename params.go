package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/geohack-port/diff-harness/framework/difftest"
)

const (
	defaultReferenceURL = "https://geohack.toolforge.org"
	defaultCandidateURL = "http://localhost:8000"
	defaultPathPrefix   = "/geohack.php"
)

type commandParams struct {
	corpusFile     string
	referenceURL   string
	candidateURL   string
	pathPrefix     string
	requestTimeout time.Duration
	workers        int
	filters        difftest.RegexFilters
	verbose        bool
	debug          bool
	debugAll       bool
	skipFile       string
	recordFailures string
	jUnitFile      string
	saveBodiesDir  string
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.corpusFile, "corpus", "",
		"corpus file with one request path per line, or a .yaml/.json suite file")
	fs.StringVar(&c.referenceURL, "reference", defaultReferenceURL, "base URL of the trusted reference service")
	fs.StringVar(&c.candidateURL, "candidate", defaultCandidateURL, "base URL of the candidate service under test")
	fs.StringVar(&c.pathPrefix, "prefix", defaultPathPrefix,
		"expected request path prefix; deviating corpus lines cause a warning but are still run")
	fs.DurationVar(&c.requestTimeout, "timeout", time.Second*10, "per-request timeout")
	fs.IntVar(&c.workers, "workers", 1, "number of cases to fetch concurrently")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select cases to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select cases not to run")
	fs.BoolVar(&c.verbose, "v", false, "print byte counts for every case instead of only for failures")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed cases")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all cases")
	fs.StringVar(&c.skipFile, "skip-file", "", "file with request paths to skip, one per line")
	fs.StringVar(&c.recordFailures, "record-failures", "", "file to write the failing request paths to")
	fs.StringVar(&c.jUnitFile, "junit", "", "write JUnit XML output to the specified path")
	fs.StringVar(&c.saveBodiesDir, "save-bodies", "", "directory in which to save both response bodies of every case")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if c.corpusFile == "" {
		fmt.Fprintln(os.Stderr, "-corpus is required")
		fs.Usage()
		return false
	}
	if c.workers < 1 {
		fmt.Fprintln(os.Stderr, "-workers must be at least 1")
		return false
	}
	return true
}
