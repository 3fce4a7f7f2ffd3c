// Copyright (c) 2025, Netgauge Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package prtg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	tablePath = "/api/table.json"

	// defaultMaxRetries is the number of retries after the initial attempt.
	defaultMaxRetries = 3

	// defaultBackoffBase is the delay before the first retry; each
	// subsequent retry doubles it (250ms, 500ms, 1000ms).
	defaultBackoffBase = 250 * time.Millisecond

	defaultTimeout = 30 * time.Second
)

// Client issues authenticated queries against one PRTG server.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu       sync.RWMutex
	username string
	passhash string

	maxRetries  int
	backoffBase time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBackoffBase overrides the base retry delay. Primarily for tests.
func WithBackoffBase(d time.Duration) Option {
	return func(c *Client) {
		c.backoffBase = d
	}
}

// New creates a Client for the PRTG server at baseURL. The passhash is an
// opaque credential token forwarded verbatim as the API's passhash query
// parameter.
func New(baseURL, username, passhash string, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		username:    username,
		passhash:    passhash,
		maxRetries:  defaultMaxRetries,
		backoffBase: defaultBackoffBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetCredentials replaces the username and passhash used for subsequent
// requests. In-flight requests keep the credentials they started with.
func (c *Client) SetCredentials(username, passhash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.username = username
	c.passhash = passhash
}

// do issues the request produced by build, retrying on transport errors and
// 5xx responses. The builder is invoked once per attempt so each retry gets
// a fresh request. Responses below 500 (including 4xx) are returned as-is;
// callers inspect the status. The context is checked before every attempt
// and honored during backoff waits, so cancellation never burns a retry.
func (c *Client) do(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoffBase << (attempt - 1)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := c.httpClient.Do(req.WithContext(ctx))
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("server error: %s", resp.Status)
			drain(resp.Body)
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// table runs one table.json query and decodes the envelope.
func (c *Client) table(ctx context.Context, params url.Values) (*tableResponse, error) {
	resp, err := c.do(ctx, func() (*http.Request, error) {
		return c.newTableRequest(params)
	})
	if err != nil {
		return nil, err
	}
	defer drain(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var tr tableResponse
	if err := decodeTable(resp.Body, &tr); err != nil {
		return nil, fmt.Errorf("decode table response: %w", err)
	}
	return &tr, nil
}

func (c *Client) newTableRequest(params url.Values) (*http.Request, error) {
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}

	c.mu.RLock()
	q.Set("username", c.username)
	q.Set("passhash", c.passhash)
	c.mu.RUnlock()

	u := c.baseURL + tablePath + "?" + q.Encode()
	return http.NewRequest(http.MethodGet, u, nil)
}

// drain consumes and closes a response body so the underlying connection
// can be reused.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
