package httpgw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"piccolo/internal/artifact"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	put         []artifact.Bundle
	withdrawn   []string
	withdrawErr error
}

func (f *fakeRepo) PutBundle(_ context.Context, b artifact.Bundle) error {
	f.put = append(f.put, b)
	return nil
}

func (f *fakeRepo) WithdrawScenario(_ context.Context, name string) error {
	f.withdrawn = append(f.withdrawn, name)
	return f.withdrawErr
}

type alwaysExistsResolver struct{}

func (alwaysExistsResolver) ModelExists(context.Context, string) (bool, error) { return true, nil }
func (alwaysExistsResolver) NodeExists(context.Context, string) (bool, error)  { return true, nil }

const validBundleYAML = `
kind: Scenario
name: hello
action: launch
target: hello-package
---
kind: Package
name: hello-package
models:
  - name: m1
    node: node-a
`

func TestHandler_ApplyValidBundle(t *testing.T) {
	repo := &fakeRepo{}
	h := NewHandler(repo, alwaysExistsResolver{})

	req := httptest.NewRequest(http.MethodPost, "/artifacts?op=apply", strings.NewReader(validBundleYAML))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.put, 1)
	assert.Equal(t, "hello", repo.put[0].Scenario.Name)
}

func TestHandler_ApplyInvalidBundleIsBadRequest(t *testing.T) {
	repo := &fakeRepo{}
	h := NewHandler(repo, alwaysExistsResolver{})

	req := httptest.NewRequest(http.MethodPost, "/artifacts?op=apply", strings.NewReader("kind: Package\nname: orphan\n"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.put)
}

func TestHandler_WithdrawByQueryParam(t *testing.T) {
	repo := &fakeRepo{}
	h := NewHandler(repo, alwaysExistsResolver{})

	req := httptest.NewRequest(http.MethodPost, "/artifacts?op=withdraw&scenario=hello", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"hello"}, repo.withdrawn)
}

func TestHandler_WithdrawMissingScenarioIsBadRequest(t *testing.T) {
	repo := &fakeRepo{}
	h := NewHandler(repo, alwaysExistsResolver{})

	req := httptest.NewRequest(http.MethodPost, "/artifacts?op=withdraw", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_UnknownOpIsBadRequest(t *testing.T) {
	h := NewHandler(&fakeRepo{}, alwaysExistsResolver{})
	req := httptest.NewRequest(http.MethodPost, "/artifacts", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_NonPostIsMethodNotAllowed(t *testing.T) {
	h := NewHandler(&fakeRepo{}, alwaysExistsResolver{})
	req := httptest.NewRequest(http.MethodGet, "/artifacts?op=apply", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
