package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/datamonkey-labs/dmchat/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDatamonkey struct {
	statuses map[string]string
	hits     map[string]*atomic.Int32
}

func newFakeDatamonkey(statuses map[string]string) *fakeDatamonkey {
	return &fakeDatamonkey{statuses: statuses, hits: map[string]*atomic.Int32{}}
}

func (f *fakeDatamonkey) count(path string) int32 {
	if c, ok := f.hits[path]; ok {
		return c.Load()
	}
	return 0
}

func (f *fakeDatamonkey) server(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	for path := range map[string]bool{"/api/v1/health": true, "/api/v1/jobs/": true} {
		f.hits[path] = &atomic.Int32{}
	}
	mux.HandleFunc("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		f.hits["/api/v1/health"].Add(1)
		_, _ = w.Write([]byte(`{"status":"OK","version":"2.1.0"}`))
	})
	mux.HandleFunc("/api/v1/jobs/", func(w http.ResponseWriter, r *http.Request) {
		f.hits["/api/v1/jobs/"].Add(1)
		switch r.URL.Path {
		case "/api/v1/jobs/done":
			_, _ = w.Write([]byte(`{"status":"` + f.statuses["done"] + `"}`))
		case "/api/v1/jobs/done/results":
			_, _ = w.Write([]byte(`{"test results":{"p-value":0.01}}`))
		case "/api/v1/jobs/busy":
			_, _ = w.Write([]byte(`{"status":"` + f.statuses["busy"] + `"}`))
		case "/api/v1/jobs/broken":
			_, _ = w.Write([]byte(`{"status":"error","error_message":"alignment has stop codons"}`))
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	fake := newFakeDatamonkey(nil)
	srv := fake.server(t)
	c, err := NewClient(srv.URL, 0)
	require.NoError(t, err)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OK", h.Status)
	assert.Equal(t, "2.1.0", h.Version)
}

func TestResultsForCompletedJobAreCached(t *testing.T) {
	fake := newFakeDatamonkey(map[string]string{"done": "completed"})
	srv := fake.server(t)
	c, err := NewClient(srv.URL+"/", 8)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := c.Results(ctx, "done")
	require.NoError(t, err)
	assert.JSONEq(t, `{"test results":{"p-value":0.01}}`, string(first))
	hits := fake.count("/api/v1/jobs/")

	second, err := c.Results(ctx, "done")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, hits, fake.count("/api/v1/jobs/"), "completed results come from cache")
}

func TestResultsRefusedUntilCompleted(t *testing.T) {
	fake := newFakeDatamonkey(map[string]string{"busy": "running"})
	srv := fake.server(t)
	c, err := NewClient(srv.URL, 0)
	require.NoError(t, err)

	_, err = c.Results(context.Background(), "busy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotCompleted))

	_, err = c.Results(context.Background(), "broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotCompleted))
	assert.Contains(t, err.Error(), "stop codons")
}

func TestStatusCachesOnlyTerminalStates(t *testing.T) {
	fake := newFakeDatamonkey(map[string]string{"busy": "running"})
	srv := fake.server(t)
	c, err := NewClient(srv.URL, 0)
	require.NoError(t, err)
	ctx := context.Background()

	s, err := c.Status(ctx, "busy")
	require.NoError(t, err)
	assert.Equal(t, model.JobRunning, s.Status)
	_, _ = c.Status(ctx, "busy")
	assert.Equal(t, int32(2), fake.count("/api/v1/jobs/"))

	s, err = c.Status(ctx, "broken")
	require.NoError(t, err)
	assert.Equal(t, model.JobError, s.Status)
	assert.Equal(t, "broken", s.ID)
	_, _ = c.Status(ctx, "broken")
	assert.Equal(t, int32(3), fake.count("/api/v1/jobs/"))
}

func TestStatusUnknownJob(t *testing.T) {
	srv := newFakeDatamonkey(nil).server(t)
	c, err := NewClient(srv.URL, 0)
	require.NoError(t, err)

	_, err = c.Status(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
