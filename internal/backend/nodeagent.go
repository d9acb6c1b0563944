package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// NodeAgentBackend drives a node's container-centric local agent over a
// small HTTP control API: POST /workloads/{id}/start, .../stop, and
// POST /reload-all. Unlike the bluechi backend there is no shared
// client library for this agent's wire protocol anywhere in the
// example pack, so this is the one component in the backend package
// built directly on net/http rather than an imported client (see
// DESIGN.md).
type NodeAgentBackend struct {
	baseURL string
	client  *http.Client
	dialer  Dialer
}

// NewNodeAgentBackend builds a backend that issues requests to baseURL
// (e.g. "http://{node}:8765") using client for transport. Every request
// is bounded by the §5 per-call deadline (DefaultDialer.CallTimeout).
func NewNodeAgentBackend(baseURL string, client *http.Client) *NodeAgentBackend {
	return &NodeAgentBackend{baseURL: baseURL, client: client, dialer: DefaultDialer()}
}

func (n *NodeAgentBackend) Kind() string { return "nodeagent" }

func (n *NodeAgentBackend) Start(ctx context.Context, workloadID, node string) error {
	return n.post(ctx, fmt.Sprintf("/workloads/%s/start", workloadID), node, "start")
}

func (n *NodeAgentBackend) Stop(ctx context.Context, workloadID, node string) error {
	return n.post(ctx, fmt.Sprintf("/workloads/%s/stop", workloadID), node, "stop")
}

func (n *NodeAgentBackend) ReloadAll(ctx context.Context, node string) error {
	return n.post(ctx, "/reload-all", node, "reload-all")
}

type nodeAgentRequest struct {
	Node string `json:"node"`
}

func (n *NodeAgentBackend) post(ctx context.Context, path, node, op string) error {
	body, err := json.Marshal(nodeAgentRequest{Node: node})
	if err != nil {
		return err
	}

	callCtx, cancel := n.dialer.WithCallTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, n.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		if callCtx.Err() != nil {
			return &TimeoutError{Node: node, Op: op}
		}
		return fmt.Errorf("nodeagent backend: %s on %s: %w", op, node, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("nodeagent backend: %s on %s: unexpected status %d", op, node, resp.StatusCode)
	}
	return nil
}
