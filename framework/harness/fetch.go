package harness

import (
	"context"
	"os"
	"strings"

	"github.com/geohack-port/diff-harness/framework"
)

// FetchBoth issues one GET against the reference endpoint and one against the
// candidate endpoint for the same request path, concurrently, and returns both
// captures. The full body is read regardless of HTTP status.
//
// If either fetch fails at the transport level, the returned error is a
// *FetchError naming the endpoint that failed; if both fail, the reference
// error is returned and the candidate error is logged, since an unreachable
// reference usually means the whole run is misconfigured.
func (h *TestHarness) FetchBoth(
	ctx context.Context,
	path string,
	logger framework.Logger,
) (reference, candidate ResponseCapture, err error) {
	if logger == nil {
		logger = h.logger
	}

	type fetchResult struct {
		capture ResponseCapture
		err     error
	}
	candidateCh := make(chan fetchResult, 1)
	go func() {
		capture, err := h.fetch(ctx, h.candidate, path)
		candidateCh <- fetchResult{capture, err}
	}()

	reference, refErr := h.fetch(ctx, h.reference, path)
	candidateResult := <-candidateCh
	candidate = candidateResult.capture

	for _, c := range []ResponseCapture{reference, candidate} {
		if c.Status != 0 {
			logger.Printf("%s: GET %s -> %d (%d bytes, %v)",
				c.Role, path, c.Status, len(c.Body), c.Elapsed)
		}
	}

	if refErr != nil {
		if candidateResult.err != nil {
			logger.Printf("also failed: %s", candidateResult.err)
		}
		return reference, candidate, refErr
	}
	return reference, candidate, candidateResult.err
}

// SaveBodies persists both captured bodies to uniquely named files under dir,
// for external inspection. Names are unique per case so that concurrent cases
// never clobber each other's artifacts. Returns the two file paths.
func SaveBodies(dir, casePath string, reference, candidate ResponseCapture) (string, string, error) {
	refFile, err := saveBody(dir, casePath, reference)
	if err != nil {
		return "", "", err
	}
	candFile, err := saveBody(dir, casePath, candidate)
	if err != nil {
		return refFile, "", err
	}
	return refFile, candFile, nil
}

func saveBody(dir, casePath string, capture ResponseCapture) (string, error) {
	pattern := artifactName(casePath) + "." + string(capture.Role) + ".*.html"
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	if _, err := f.Write(capture.Body); err != nil {
		return "", err
	}
	return f.Name(), nil
}

// artifactName reduces a request path to something safe to use in a filename.
func artifactName(casePath string) string {
	mapper := func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}
	name := strings.Map(mapper, strings.TrimPrefix(casePath, "/"))
	const maxLen = 80
	if len(name) > maxLen {
		name = name[:maxLen]
	}
	return name
}
