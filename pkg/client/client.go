// Package client is a Go SDK for the squadhub HTTP API. A Client is stateless; per-user state
// lives in a Session and its Store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrAuthenticationRequired is returned when no session is active or the server rejects the
// credential. It is never folded into a silent logout.
var ErrAuthenticationRequired = errors.New("authentication required")

// APIError is a non-2xx response decoded from the server's {"error", "code"} body.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("squadhub: %d %s: %s", e.Status, e.Code, e.Message)
}

// Is lets errors.Is(err, ErrAuthenticationRequired) match rejected credentials.
func (e *APIError) Is(target error) bool {
	return target == ErrAuthenticationRequired && e.Status == http.StatusUnauthorized
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New returns a client for the API rooted at baseURL, for example "https://api.example.com/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type requestAuth struct {
	token    string
	language string
}

// do performs a single attempt. Backend failures are surfaced, never retried.
func (c *Client) do(ctx context.Context, auth requestAuth, method, path string, body, out interface{}) error {
	if auth.token == "" {
		return ErrAuthenticationRequired
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "unable to encode the request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "unable to build the request")
	}
	req.Header.Set("Authorization", "Bearer "+auth.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth.language != "" {
		req.Header.Set("Accept-Language", auth.language)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s failed", method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "unable to read the response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var decoded struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(respBody, &decoded) == nil {
			apiErr.Code = decoded.Code
			if decoded.Error != "" {
				apiErr.Message = decoded.Error
			}
		}
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrap(err, "unable to decode the response")
	}
	return nil
}
