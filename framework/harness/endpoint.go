package harness

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// EndpointRole identifies which side of the comparison a response came from.
type EndpointRole string

const (
	// RoleReference is the trusted live service whose output is the oracle.
	RoleReference EndpointRole = "reference"
	// RoleCandidate is the implementation under test.
	RoleCandidate EndpointRole = "candidate"
)

// Endpoint is one of the two services the harness fetches from.
type Endpoint struct {
	Role    EndpointRole
	BaseURL string
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s (%s)", e.Role, e.BaseURL)
}

// URLFor joins the endpoint's base URL with a request path from the corpus.
func (e Endpoint) URLFor(path string) string {
	base := strings.TrimSuffix(e.BaseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// ResponseCapture is the raw body returned by one endpoint for one test case.
// The HTTP status is recorded for debug output only; it never influences the
// verdict, since body content is the sole comparison signal.
type ResponseCapture struct {
	Role    EndpointRole
	Body    []byte
	Status  int
	Elapsed time.Duration
}

// FetchError indicates that an endpoint could not be reached at all (connection
// refused, DNS failure, timeout). It is deliberately distinct from an empty
// response body: an unreachable endpoint and an endpoint that returned nothing
// require different remediation.
type FetchError struct {
	Role EndpointRole
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s endpoint: GET %s: %v", e.Role, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (h *TestHarness) fetch(ctx context.Context, endpoint Endpoint, path string) (ResponseCapture, error) {
	url := endpoint.URLFor(path)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return ResponseCapture{}, &FetchError{Role: endpoint.Role, URL: url, Err: err}
	}
	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return ResponseCapture{}, &FetchError{Role: endpoint.Role, URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ResponseCapture{}, &FetchError{Role: endpoint.Role, URL: url, Err: err}
	}
	return ResponseCapture{
		Role:    endpoint.Role,
		Body:    body,
		Status:  resp.StatusCode,
		Elapsed: time.Since(start),
	}, nil
}
