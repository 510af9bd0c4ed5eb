// Package api is the single chokepoint through which photoshare-cli talks to
// the Photoshare REST API. Every call is normalized into one of three
// failure shapes: NetworkError, HTTPError or DecodeError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenSource supplies the current bearer token. An empty string means no
// session; authenticated calls still proceed unauthenticated in that case
// and the server decides whether to reject.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a plain function to a TokenSource.
type TokenSourceFunc func() string

// Token returns f().
func (f TokenSourceFunc) Token() string { return f() }

// Client issues HTTP calls against the Photoshare API.
//
// The client applies no retries and no built-in timeout: callers that need
// bounded latency pass a context with a deadline, and expiry surfaces as a
// NetworkError. A consumer that is torn down cancels its context and the
// in-flight response is abandoned.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

// WithTokenSource sets the source of the bearer token for authenticated calls.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the structured logger used for request logging.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a Client for the given API base URL (e.g. "http://localhost:8000/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   http.DefaultClient,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// requestOptions describes one outgoing request.
type requestOptions struct {
	body        io.Reader
	contentType string
	auth        bool
}

// do issues a single request and decodes the JSON response into out (out may
// be nil when the body is irrelevant). Exactly one request is sent; retry
// decisions belong to the caller and no call site retries.
func (c *Client) do(ctx context.Context, method, path string, opts requestOptions, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, opts.body)
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("failed to build request: %w", err)}
	}

	if opts.contentType != "" {
		req.Header.Set("Content-Type", opts.contentType)
	}

	// Attach the credential only when one exists; an anonymous call is still
	// sent and the server decides whether to reject it.
	if opts.auth && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	reqID := uuid.NewString()
	c.log.Debug().
		Str("request_id", reqID).
		Str("method", method).
		Str("path", path).
		Bool("auth", opts.auth).
		Msg("api request")

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Debug().Str("request_id", reqID).Err(err).Msg("api transport failure")
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.log.Debug().
			Str("request_id", reqID).
			Int("status", resp.StatusCode).
			Msg("api request rejected")
		return &HTTPError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// getJSON issues a GET and decodes the response.
func (c *Client) getJSON(ctx context.Context, path string, auth bool, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, requestOptions{auth: auth}, out)
}

// sendJSON issues a request with a JSON-encoded body.
func (c *Client) sendJSON(ctx context.Context, method, path string, payload interface{}, auth bool, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return &ValidationError{Message: fmt.Sprintf("failed to encode request body: %v", err)}
	}
	opts := requestOptions{
		body:        bytes.NewReader(data),
		contentType: "application/json",
		auth:        auth,
	}
	return c.do(ctx, method, path, opts, out)
}

// filePart is an optional file attachment for multipart requests.
type filePart struct {
	field    string
	filename string
	reader   io.Reader
}

// sendMultipart issues a POST with multipart form fields and an optional file.
func (c *Client) sendMultipart(ctx context.Context, path string, fields map[string]string, file *filePart, auth bool, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return &ValidationError{Message: fmt.Sprintf("failed to write form field %s: %v", key, err)}
		}
	}

	if file != nil {
		part, err := writer.CreateFormFile(file.field, file.filename)
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("failed to create file part: %v", err)}
		}
		if _, err := io.Copy(part, file.reader); err != nil {
			return &ValidationError{Message: fmt.Sprintf("failed to read file: %v", err)}
		}
	}

	if err := writer.Close(); err != nil {
		return &ValidationError{Message: fmt.Sprintf("failed to finalize form: %v", err)}
	}

	opts := requestOptions{
		body:        &buf,
		contentType: writer.FormDataContentType(),
		auth:        auth,
	}
	return c.do(ctx, http.MethodPost, path, opts, out)
}
