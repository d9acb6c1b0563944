package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeAgentBackend_StartStopReloadAll(t *testing.T) {
	var gotPaths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b := NewNodeAgentBackend(srv.URL, srv.Client())
	ctx := context.Background()

	require.NoError(t, b.Start(ctx, "hello-model.service", "node-a"))
	require.NoError(t, b.Stop(ctx, "hello-model.service", "node-a"))
	require.NoError(t, b.ReloadAll(ctx, "node-a"))

	assert.Equal(t, []string{
		"/workloads/hello-model.service/start",
		"/workloads/hello-model.service/stop",
		"/reload-all",
	}, gotPaths)
}

func TestNodeAgentBackend_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	b := NewNodeAgentBackend(srv.URL, srv.Client())
	err := b.Start(context.Background(), "m.service", "node-a")
	assert.Error(t, err)
}

func TestNodeAgentBackend_DeadlineExceededIsTimeoutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b := NewNodeAgentBackend(srv.URL, srv.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Millisecond)
	defer cancel()

	err := b.Start(ctx, "m.service", "node-a")
	require.Error(t, err)
	var te *TimeoutError
	assert.ErrorAs(t, err, &te)
}

func TestWorkloadID(t *testing.T) {
	assert.Equal(t, "hello-model.service", WorkloadID("hello-model"))
}
