// Package httpgw is the single HTTP endpoint §6 allows beyond the core's
// transport-agnostic RPC surface: artifact submission. It is a thin
// net/http + encoding/json adapter over the artifact pipeline, not a
// second transport for trigger/reconcile/state-change.
package httpgw

import (
	"context"
	"io"
	"net/http"

	"piccolo/internal/artifact"

	"piccolo/pkg/logging"
)

// Repository is the subset of artifact.Repository the gateway needs.
type Repository interface {
	PutBundle(ctx context.Context, b artifact.Bundle) error
	WithdrawScenario(ctx context.Context, name string) error
}

// Handler serves the artifact submission endpoint: POST with
// ?op=apply|withdraw and a YAML body. apply validates the bundle before
// writing it; withdraw only needs the Scenario name, which may arrive
// either as a minimal Scenario-only YAML body or the ?scenario= query
// parameter.
type Handler struct {
	repo     Repository
	resolver artifact.Resolver
}

// NewHandler builds a Handler. resolver is used to validate cross-
// references an apply's bundle doesn't itself carry (see
// artifact.ValidateBundle).
func NewHandler(repo Repository, resolver artifact.Resolver) *Handler {
	return &Handler{repo: repo, resolver: resolver}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Query().Get("op") {
	case "apply":
		h.apply(w, r)
	case "withdraw":
		h.withdraw(w, r)
	default:
		http.Error(w, `missing or unknown "op" query parameter, want apply or withdraw`, http.StatusBadRequest)
	}
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	bundle, err := artifact.SplitAndClassify(body)
	if err != nil {
		writeArtifactErr(w, err)
		return
	}
	if err := artifact.ValidateBundle(r.Context(), bundle, h.resolver); err != nil {
		writeArtifactErr(w, err)
		return
	}
	if err := h.repo.PutBundle(r.Context(), bundle); err != nil {
		logging.Warn("HTTPGateway", "apply: PutBundle failed: %v", err)
		http.Error(w, "failed to persist bundle: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"applied","scenario":"` + bundle.Scenario.Name + `"}`))
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("scenario")
	if name == "" {
		body, err := io.ReadAll(r.Body)
		if err == nil && len(body) > 0 {
			if bundle, err := artifact.SplitAndClassify(body); err == nil && bundle.Scenario != nil {
				name = bundle.Scenario.Name
			}
		}
	}
	if name == "" {
		http.Error(w, `withdraw requires a "scenario" query parameter or a Scenario document body`, http.StatusBadRequest)
		return
	}

	if err := h.repo.WithdrawScenario(r.Context(), name); err != nil {
		logging.Warn("HTTPGateway", "withdraw(%s) failed: %v", name, err)
		writeArtifactErr(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"withdrawn","scenario":"` + name + `"}`))
}

func writeArtifactErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case artifact.IsNotFound(err):
		status = http.StatusNotFound
	case artifact.IsMissingScenario(err), artifact.IsMissingPackage(err),
		artifact.IsDanglingReference(err), artifact.IsInvalidArgument(err):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}
