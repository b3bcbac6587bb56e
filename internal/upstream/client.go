// Package upstream is the typed client of the platform REST API.  Every
// endpoint has exactly one response envelope, documented on its method.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/event-entry/internal/model"
)

// Client calls the platform on behalf of an authenticated session.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New builds a client for baseURL with a per-request timeout.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout}, log)
}

// NewWithHTTPClient builds a client around an existing http.Client.
func NewWithHTTPClient(baseURL string, hc *http.Client, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		log:     log.With().Str("component", "upstream").Logger(),
	}
}

type request struct {
	op          string
	method      string
	path        string
	body        io.Reader
	contentType string
	headers     map[string]string
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// do sends req and decodes a 2xx body into out (when out is non-nil).
func (c *Client) do(ctx context.Context, sess model.Session, req request, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, req.body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if sess.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+sess.Token)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Warn().Err(err).Str("op", req.op).Msg("platform request failed")
		return fmt.Errorf("%s: %w", req.op, err)
	}
	defer resp.Body.Close()
	c.log.Debug().
		Str("op", req.op).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(started)).
		Msg("platform call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Op: req.op, Status: resp.StatusCode}
		var body struct {
			Message string `json:"message"`
		}
		if raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil && len(raw) > 0 {
			if json.Unmarshal(raw, &body) == nil {
				apiErr.Message = body.Message
			}
		}
		return apiErr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", req.op, err)
	}
	return nil
}
