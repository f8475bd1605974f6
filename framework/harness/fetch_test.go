package harness

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/geohack-port/diff-harness/framework"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHarness(t *testing.T, refHandler, candHandler http.Handler) (*TestHarness, *httptest.Server, *httptest.Server) {
	t.Helper()
	ref := httptest.NewServer(refHandler)
	t.Cleanup(ref.Close)
	cand := httptest.NewServer(candHandler)
	t.Cleanup(cand.Close)
	h, err := NewTestHarness(ref.URL, cand.URL, time.Second*5, time.Second, framework.NullLogger(), io.Discard)
	require.NoError(t, err)
	return h, ref, cand
}

func TestFetchBothCapturesBothBodies(t *testing.T) {
	refHandler, refRequests := httphelpers.RecordingHandler(
		httphelpers.HandlerWithResponse(200, nil, []byte("<html>  <body>Test</body></html>")))
	candHandler := httphelpers.HandlerWithResponse(200, nil, []byte("<html><body>Test</body></html>"))
	h, _, _ := newTestHarness(t, refHandler, candHandler)

	reference, candidate, err := h.FetchBoth(context.Background(), "/geohack.php?pagename=Test&params=10_N_20_E", nil)
	require.NoError(t, err)

	assert.Equal(t, RoleReference, reference.Role)
	assert.Equal(t, []byte("<html>  <body>Test</body></html>"), reference.Body)
	assert.Equal(t, 200, reference.Status)

	assert.Equal(t, RoleCandidate, candidate.Role)
	assert.Equal(t, []byte("<html><body>Test</body></html>"), candidate.Body)

	<-refRequests // startup probe
	got := <-refRequests
	assert.Equal(t, "GET", got.Request.Method)
	assert.Equal(t, "/geohack.php", got.Request.URL.Path)
	assert.Equal(t, "pagename=Test&params=10_N_20_E", got.Request.URL.RawQuery)
}

func TestFetchBothIgnoresHTTPStatus(t *testing.T) {
	// Status codes are not part of the comparison signal; the body is captured
	// either way.
	refHandler := httphelpers.HandlerWithResponse(500, nil, []byte("boom"))
	candHandler := httphelpers.HandlerWithResponse(404, nil, []byte("boom"))
	h, _, _ := newTestHarness(t, refHandler, candHandler)

	reference, candidate, err := h.FetchBoth(context.Background(), "/geohack.php?pagename=X", nil)
	require.NoError(t, err)
	assert.Equal(t, 500, reference.Status)
	assert.Equal(t, []byte("boom"), reference.Body)
	assert.Equal(t, 404, candidate.Status)
	assert.Equal(t, []byte("boom"), candidate.Body)
}

func TestFetchBothReportsWhichEndpointFailed(t *testing.T) {
	h, _, cand := newTestHarness(t,
		httphelpers.HandlerWithStatus(200),
		httphelpers.HandlerWithStatus(200))
	cand.Close()

	_, _, err := h.FetchBoth(context.Background(), "/geohack.php?pagename=X", nil)
	require.Error(t, err)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, RoleCandidate, fetchErr.Role)
}

func TestFetchBothPrefersReferenceErrorWhenBothFail(t *testing.T) {
	h, ref, cand := newTestHarness(t,
		httphelpers.HandlerWithStatus(200),
		httphelpers.HandlerWithStatus(200))
	ref.Close()
	cand.Close()

	_, _, err := h.FetchBoth(context.Background(), "/geohack.php?pagename=X", nil)
	require.Error(t, err)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, RoleReference, fetchErr.Role)
}

func TestFetchBothHonorsContextCancellation(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second * 5):
		}
	})
	h, _, _ := newTestHarness(t, slow, slow)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*100)
	defer cancel()
	start := time.Now()
	_, _, err := h.FetchBoth(ctx, "/geohack.php?pagename=X", nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSaveBodiesWritesUniqueArtifactsPerCase(t *testing.T) {
	dir := t.TempDir()
	reference := ResponseCapture{Role: RoleReference, Body: []byte("ref body")}
	candidate := ResponseCapture{Role: RoleCandidate, Body: []byte("cand body")}

	refFile1, candFile1, err := SaveBodies(dir, "/geohack.php?pagename=Test", reference, candidate)
	require.NoError(t, err)
	refFile2, candFile2, err := SaveBodies(dir, "/geohack.php?pagename=Test", reference, candidate)
	require.NoError(t, err)

	// a second run of the same case never clobbers earlier artifacts
	assert.NotEqual(t, refFile1, refFile2)
	assert.NotEqual(t, candFile1, candFile2)

	data, err := os.ReadFile(refFile1)
	require.NoError(t, err)
	assert.Equal(t, []byte("ref body"), data)
	data, err = os.ReadFile(candFile1)
	require.NoError(t, err)
	assert.Equal(t, []byte("cand body"), data)

	assert.Contains(t, refFile1, "reference")
	assert.Contains(t, candFile1, "candidate")
}

func TestArtifactNameSanitizesPaths(t *testing.T) {
	assert.Equal(t, "geohack.php_pagename_Test_params_10_N_20_E",
		artifactName("/geohack.php?pagename=Test&params=10_N_20_E"))
}
