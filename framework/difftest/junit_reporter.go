package difftest

import (
	"encoding/xml"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/geohack-port/diff-harness/framework"
	o "github.com/geohack-port/diff-harness/framework/opt"
)

// JUnitReporter accumulates verdicts and writes them as a JUnit XML file at
// the end of the run, so the harness can feed CI systems directly.
type JUnitReporter struct {
	filePath      string
	referenceBase string
	candidateBase string
	filters       RegexFilters
	paths         []string // preserves the order that the cases were run in
	cases         map[string]jUnitCaseStatus
	lock          sync.Mutex
}

type jUnitCaseStatus struct {
	verdict   Verdict
	skipped   o.Maybe[string]
	output    string
	startTime time.Time
	duration  time.Duration
}

// Struct definitions for the JUnit XML schema - see https://github.com/jstemmer/go-junit-report

type jUnitXMLDocument struct {
	XMLName xml.Name            `xml:"testsuites"`
	Suites  []jUnitXMLTestSuite `xml:"testsuite"`
}

type jUnitXMLTestSuite struct {
	XMLName    xml.Name           `xml:"testsuite"`
	Tests      int                `xml:"tests,attr"`
	Failures   int                `xml:"failures,attr"`
	Time       string             `xml:"time,attr"`
	Name       string             `xml:"name,attr"`
	Properties []jUnitXMLProperty `xml:"properties>property,omitempty"`
	TestCases  []jUnitXMLTestCase `xml:"testcase"`
}

type jUnitXMLTestCase struct {
	XMLName     xml.Name             `xml:"testcase"`
	Classname   string               `xml:"classname,attr"`
	Name        string               `xml:"name,attr"`
	Time        string               `xml:"time,attr"`
	SkipMessage *jUnitXMLSkipMessage `xml:"skipped,omitempty"`
	Failure     *jUnitXMLFailure     `xml:"failure,omitempty"`
}

type jUnitXMLSkipMessage struct {
	Message string `xml:"message,attr"`
}

type jUnitXMLProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type jUnitXMLFailure struct {
	Message  string `xml:"message,attr"`
	Type     string `xml:"type,attr"`
	Contents string `xml:",chardata"`
}

func NewJUnitReporter(
	filePath string,
	referenceBase string,
	candidateBase string,
	filters RegexFilters,
) *JUnitReporter {
	return &JUnitReporter{
		filePath:      filePath,
		referenceBase: referenceBase,
		candidateBase: candidateBase,
		filters:       filters,
		cases:         make(map[string]jUnitCaseStatus),
	}
}

func (j *JUnitReporter) CaseStarted(path string) {
	j.lock.Lock()
	defer j.lock.Unlock()
	j.paths = append(j.paths, path)
	j.cases[path] = jUnitCaseStatus{
		startTime: time.Now(),
	}
}

func (j *JUnitReporter) CaseFinished(v Verdict, debugOutput framework.CapturedOutput) {
	j.lock.Lock()
	defer j.lock.Unlock()
	status := j.cases[v.Path]
	status.verdict = v
	status.output = debugOutput.ToString("")
	status.duration = time.Since(status.startTime)
	j.cases[v.Path] = status
}

func (j *JUnitReporter) CaseSkipped(path string, reason string) {
	j.lock.Lock()
	defer j.lock.Unlock()
	if _, seen := j.cases[path]; !seen {
		j.paths = append(j.paths, path)
	}
	status := j.cases[path]
	status.skipped = o.Some(reason)
	j.cases[path] = status
}

func (j *JUnitReporter) EndLog(results Results) error {
	fmt.Printf("Writing JUnit data to %s\n", j.filePath)

	suite := jUnitXMLTestSuite{
		Name: "geohack differential tests",
		Properties: []jUnitXMLProperty{
			{Name: "harness.endpoint.reference", Value: j.referenceBase},
			{Name: "harness.endpoint.candidate", Value: j.candidateBase},
			{Name: "harness.filter.mustMatch", Value: j.filters.MustMatch.String()},
			{Name: "harness.filter.mustNotMatch", Value: j.filters.MustNotMatch.String()},
		},
	}

	suiteTotalDuration := time.Duration(0)
	for _, path := range j.paths {
		status := j.cases[path]

		suite.Tests++
		suiteTotalDuration += status.duration

		testCase := jUnitXMLTestCase{
			Name: path,
			Time: jUnitDurationString(status.duration),
		}
		if status.skipped.IsDefined() {
			testCase.SkipMessage = &jUnitXMLSkipMessage{Message: status.skipped.Value()}
		} else if !status.verdict.OK() {
			suite.Failures++
			testCase.Failure = jUnitFailureFor(status.verdict, status.output)
		}

		suite.TestCases = append(suite.TestCases, testCase)
	}
	suite.Time = jUnitDurationString(suiteTotalDuration)

	doc := jUnitXMLDocument{Suites: []jUnitXMLTestSuite{suite}}
	bytes, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	bytes = append(bytes, '\n')

	return os.WriteFile(j.filePath, bytes, 0644) //nolint:gosec
}

func jUnitFailureFor(v Verdict, output string) *jUnitXMLFailure {
	switch v.Status {
	case StatusFetchFailed:
		return &jUnitXMLFailure{
			Message:  v.Err.Error(),
			Type:     "FetchFailure",
			Contents: output,
		}
	default:
		message := fmt.Sprintf("reference %d bytes, candidate %d bytes\n%s",
			v.Comparison.ReferenceBytes, v.Comparison.CandidateBytes, v.Comparison.Diff)
		return &jUnitXMLFailure{
			Message:  message,
			Type:     "ContentMismatch",
			Contents: output,
		}
	}
}

func jUnitDurationString(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
