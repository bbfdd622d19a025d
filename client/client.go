package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is the shared HTTP plumbing for the gamma and CLOB APIs: base URL,
// timeout, optional auth, JSON decoding.
type Client struct {
	httpClient *http.Client
	baseURL    string
	auth       AuthProvider
}

var (
	// ErrUnauthorized signals rejected or expired API credentials (HTTP 401).
	// Callers surface this distinctly: it means re-derive the API key, not
	// retry the order.
	ErrUnauthorized = errors.New("unauthorized: API credentials rejected or expired")

	// ErrAPIFailure wraps every other non-2xx response.
	ErrAPIFailure = errors.New("api request failed")
)

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

// SetAuth configures an optional AuthProvider applied to every outbound
// request.
func (c *Client) SetAuth(auth AuthProvider) {
	c.auth = auth
}

func (c *Client) doRequest(req *http.Request, applyAuth bool, result interface{}) error {
	if applyAuth && c.auth != nil {
		if err := c.auth.Apply(req); err != nil {
			return err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", ErrUnauthorized, string(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("API error %d: %s: %w", resp.StatusCode, string(body), ErrAPIFailure)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	return c.doRequest(req, true, result)
}

func (c *Client) getWithHeaders(ctx context.Context, endpoint string, headers map[string]string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.doRequest(req, true, result)
}

// post sends a JSON body. When the auth provider signs payloads (the L2 HMAC
// covers the body), the exact encoded bytes are handed to it and the generic
// auth step is skipped.
func (c *Client) post(ctx context.Context, endpoint string, payload interface{}, result interface{}) error {
	buf := &bytes.Buffer{}
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(payload); err != nil {
		return err
	}
	bodyBytes := bytes.TrimSpace(buf.Bytes())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if signer, ok := c.auth.(BodySigner); ok {
		if err := signer.SignWithBody(req, string(bodyBytes)); err != nil {
			return err
		}
		return c.doRequest(req, false, result)
	}

	return c.doRequest(req, true, result)
}

func (c *Client) delete(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}

	return c.doRequest(req, true, result)
}
