package serve

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalelab/scalecharts/internal/build"
	"github.com/scalelab/scalecharts/internal/testutil"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	return NewServer(Config{
		Builder: &build.Builder{
			DataDir: "../../data",
			OutDir:  t.TempDir(),
			Formats: []string{build.FormatSVG},
		},
		Port:   0,
		Logger: testutil.NewTestLogger(t),
	})
}

func TestGalleryBeforeBuild(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleIndex(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, 503, rec.Code)
}

func TestGalleryAfterRebuild(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.rebuild(context.Background()))

	rec := httptest.NewRecorder()
	s.handleIndex(rec, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "ai-compute-timeline")
	assert.Contains(t, body, "energetic-scaling-bio")
	assert.Contains(t, body, "/charts/adoption-timeline/")
	assert.Contains(t, body, "SVG")
	assert.Contains(t, body, "exponent")
}

func TestGalleryUnknownPath(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.rebuild(context.Background()))

	rec := httptest.NewRecorder()
	s.handleIndex(rec, httptest.NewRequest("GET", "/nope", nil))

	assert.Equal(t, 404, rec.Code)
}

func TestGalleryShowsChartError(t *testing.T) {
	s := newTestServer(t)
	s.summary = &build.Summary{
		RunID: "test-run",
		Results: []build.Result{
			{Chart: "ai-compute-timeline", Err: errors.New("dataset missing")},
		},
		Failed: 1,
	}

	rec := httptest.NewRecorder()
	s.handleIndex(rec, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "dataset missing")
	assert.Contains(t, rec.Body.String(), "test-run")
}

func TestSSEHandshake(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest("GET", "/__reload", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleSSE(rec, req)

	assert.Contains(t, rec.Body.String(), "data: connected")
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
}

func TestNotifyClientsNonBlocking(t *testing.T) {
	s := newTestServer(t)

	ch := make(chan struct{}, 1)
	s.clientsMu.Lock()
	s.clients[ch] = struct{}{}
	s.clientsMu.Unlock()

	// Second notify must not block on the full channel.
	s.notifyClients()
	s.notifyClients()

	select {
	case <-ch:
	default:
		t.Fatal("expected a queued notification")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	cancel()
	err := <-done
	// Cancellation may land during the initial build or while serving.
	if err != nil {
		require.ErrorIs(t, err, context.Canceled)
	}
}
