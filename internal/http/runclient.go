package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

var (
	okPrefix    = []byte("OK\n")
	errorPrefix = []byte("ERROR\n")
)

// RunResponse is a decoded /run response body.
type RunResponse struct {
	Succeeded bool
	Output    string
}

// RunClient triggers backend runs on a local run server.
type RunClient struct {
	baseURL string
	client  *Client
}

// NewRunClient creates a RunClient for a server listening on address
// (host:port).
func NewRunClient(address string, client *Client) *RunClient {
	if client == nil {
		client = NewClient()
	}
	return &RunClient{
		baseURL: "http://" + strings.TrimSuffix(address, "/"),
		client:  client,
	}
}

// Trigger asks the server to run the backend for exportsDir and waits for
// the result. A backend failure is a RunResponse with Succeeded false, not
// an error.
func (r *RunClient) Trigger(ctx context.Context, exportsDir string) (*RunResponse, error) {
	runURL := r.baseURL + "/run?exports_dir=" + url.QueryEscape(exportsDir)

	resp, err := r.client.Get(ctx, runURL)
	if err != nil {
		return nil, fmt.Errorf("failed to trigger run: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("run server returned status %d: %s", resp.StatusCode, string(resp.Body))
	}

	switch {
	case bytes.HasPrefix(resp.Body, okPrefix):
		return &RunResponse{Succeeded: true, Output: string(resp.Body[len(okPrefix):])}, nil
	case bytes.HasPrefix(resp.Body, errorPrefix):
		return &RunResponse{Succeeded: false, Output: string(resp.Body[len(errorPrefix):])}, nil
	default:
		return nil, fmt.Errorf("unexpected run response: %q", string(resp.Body))
	}
}

// Ping checks that a run server answers at the address. Unknown paths get
// a 404 from the server, which is the expected answer here.
func (r *RunClient) Ping(ctx context.Context) error {
	resp, err := r.client.Get(ctx, r.baseURL+"/")
	if err != nil {
		return fmt.Errorf("run server not reachable at %s: %w", r.baseURL, err)
	}
	if resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, r.baseURL)
	}
	return nil
}
