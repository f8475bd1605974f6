package harness

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/geohack-port/diff-harness/framework"
)

// TestHarness manages communication with the two services being compared.
//
// It verifies on startup that both endpoints are alive. The reference service
// is a live deployment and is queried once; the candidate service is typically
// a local process that may still be starting, so it is polled until it answers
// or the probe timeout elapses.
//
// It contains no comparison logic, only the HTTP plumbing that test runs
// build on.
type TestHarness struct {
	reference Endpoint
	candidate Endpoint
	client    *http.Client
	logger    framework.Logger
}

// NewTestHarness creates a TestHarness and verifies that both endpoints are
// responding. Any HTTP response, including an error status, counts as alive;
// only transport-level failures do not.
func NewTestHarness(
	referenceBase string,
	candidateBase string,
	requestTimeout time.Duration,
	probeTimeout time.Duration,
	debugLogger framework.Logger,
	startupOutput io.Writer,
) (*TestHarness, error) {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}

	h := &TestHarness{
		reference: Endpoint{Role: RoleReference, BaseURL: referenceBase},
		candidate: Endpoint{Role: RoleCandidate, BaseURL: candidateBase},
		client:    &http.Client{Timeout: requestTimeout},
		logger:    debugLogger,
	}

	if err := h.probeOnce(h.reference, startupOutput); err != nil {
		return nil, err
	}
	if err := h.probeUntilReady(h.candidate, probeTimeout, startupOutput); err != nil {
		return nil, err
	}

	return h, nil
}

// Reference returns the trusted endpoint.
func (h *TestHarness) Reference() Endpoint { return h.reference }

// Candidate returns the endpoint under test.
func (h *TestHarness) Candidate() Endpoint { return h.candidate }

func (h *TestHarness) probeOnce(endpoint Endpoint, output io.Writer) error {
	fmt.Fprintf(output, "Checking %s\n", endpoint)
	resp, err := h.client.Head(endpoint.BaseURL)
	if err != nil {
		return fmt.Errorf("cannot reach %s: %w", endpoint, err)
	}
	_ = resp.Body.Close()
	return nil
}

func (h *TestHarness) probeUntilReady(endpoint Endpoint, timeout time.Duration, output io.Writer) error {
	fmt.Fprintf(output, "Connecting to %s", endpoint)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := h.client.Head(endpoint.BaseURL)
		if err == nil {
			_ = resp.Body.Close()
			fmt.Fprintln(output)
			return nil
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return fmt.Errorf("timed out waiting for %s, result of last query was: %w", endpoint, err)
		}
		time.Sleep(time.Millisecond * 100)
	}
}
