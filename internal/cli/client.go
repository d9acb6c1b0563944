// Package cli is the thin HTTP client the "piccolo" apply and withdraw
// subcommands use to talk to a running daemon's gateway, the same role
// muster's internal/cli package plays for its MCP-over-HTTP calls, plus
// the table renderers the read-only subcommands print with.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client posts artifact bundles to a running daemon's HTTP gateway.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client targeting baseURL (e.g. "http://localhost:7890").
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: http.DefaultClient}
}

// ApplyResult is the gateway's response body on a successful apply.
type ApplyResult struct {
	Status   string `json:"status"`
	Scenario string `json:"scenario"`
}

// Apply posts bundleYAML to the gateway's apply operation.
func (c *Client) Apply(ctx context.Context, bundleYAML []byte) (*ApplyResult, error) {
	var result ApplyResult
	if err := c.post(ctx, "apply", bundleYAML, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Withdraw posts a withdraw request for the named scenario.
func (c *Client) Withdraw(ctx context.Context, scenarioName string) error {
	url := fmt.Sprintf("%s/artifacts?op=withdraw&scenario=%s", c.baseURL, scenarioName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("contacting daemon: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("daemon returned %s: %s", resp.Status, string(body))
	}
	return nil
}

func (c *Client) post(ctx context.Context, op string, body []byte, out any) error {
	url := fmt.Sprintf("%s/artifacts?op=%s", c.baseURL, op)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/yaml")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("contacting daemon: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("daemon returned %s: %s", resp.Status, string(respBody))
	}
	if out != nil {
		return json.Unmarshal(respBody, out)
	}
	return nil
}
