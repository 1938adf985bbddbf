// Package gateway is the HTTP client for the recommender backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"cinechat/internal/types"
)

// StatusError is returned when the backend answers with a non-2xx status.
// The body is kept verbatim for rendering.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway responded %d: %s", e.Code, e.Body)
}

// Client talks to one gateway base URL. The underlying http.Client carries
// no timeout: in-flight requests are never cancelled from this side, a slow
// backend simply delays the response.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Send posts one utterance to POST {base}/gateway and decodes the response.
// Transport failures come back as wrapped errors, non-2xx statuses as
// *StatusError. A 2xx body that is not valid JSON decodes to the zero
// payload so the dispatcher degrades to its fallback rendering.
func (c *Client) Send(ctx context.Context, utterance string) (*types.GatewayResponse, error) {
	body, err := json.Marshal(types.GatewayRequest{Utterance: utterance, TipoBusqueda: "texto"})
	if err != nil {
		return nil, fmt.Errorf("marshal gateway request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/gateway", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	out := &types.GatewayResponse{}
	// Malformed bodies degrade to the empty payload rather than erroring.
	_ = json.Unmarshal(raw, out)
	return out, nil
}

// Evaluate posts one rating: POST {base}/evaluar/{objectID}?evaluacion={score}.
// The response body is not interpreted beyond its status code.
func (c *Client) Evaluate(ctx context.Context, objectID string, score int) error {
	u := fmt.Sprintf("%s/evaluar/%s?evaluacion=%d", c.baseURL, url.PathEscape(objectID), score)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return fmt.Errorf("build evaluar request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("evaluar request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return nil
}
