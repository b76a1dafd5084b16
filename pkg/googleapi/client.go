// Package googleapi is a thin JSON client for Google REST APIs, shared by
// the Gmail, Calendar, and Drive adapters. It issues requests through the
// session's authenticated http.Client and renders Google's error envelope
// as a short message.
package googleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the production Google API host. Tests point the client
// at an httptest server instead.
const DefaultBaseURL = "https://www.googleapis.com"

const maxErrorBody = 1 << 16

type Client struct {
	http *http.Client
	base string
}

// New builds a client over an authenticated http.Client. An empty baseURL
// selects the production host.
func New(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: httpClient, base: strings.TrimRight(baseURL, "/")}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, "", nil, out)
}

func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any) error {
	data, err := marshalBody(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, query, "application/json", data, out)
}

func (c *Client) Patch(ctx context.Context, path string, query url.Values, body, out any) error {
	data, err := marshalBody(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, path, query, "application/json", data, out)
}

func (c *Client) Put(ctx context.Context, path string, query url.Values, body, out any) error {
	data, err := marshalBody(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, query, "application/json", data, out)
}

func (c *Client) Delete(ctx context.Context, path string, query url.Values) error {
	return c.do(ctx, http.MethodDelete, path, query, "", nil, nil)
}

// Upload sends raw (non-JSON) content, used by Drive media uploads.
func (c *Client) Upload(ctx context.Context, method, path string, query url.Values, contentType string, content []byte, out any) error {
	return c.do(ctx, method, path, query, contentType, content, out)
}

// GetRaw fetches a response body verbatim, used by Drive file downloads
// and document exports.
func (c *Client) GetRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, "", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body []byte, out any) error {
	req, err := c.newRequest(ctx, method, path, query, contentType, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("google api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("google api: decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, contentType string, body []byte) (*http.Request, error) {
	endpoint := c.base + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("google api: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func marshalBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("google api: marshal request: %w", err)
	}
	return data, nil
}

// apiError renders Google's {"error": {"code", "message"}} envelope. When
// the body is not that shape the status line is used instead.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Errorf("google api: %d: %s", resp.StatusCode, envelope.Error.Message)
	}
	return fmt.Errorf("google api: %s", resp.Status)
}
