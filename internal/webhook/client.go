// Package webhook talks to the workflow-automation endpoints that store stock,
// sales and purchases. One call is one request; nothing is retried.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/aglafone/stokpos/internal/encoding"
)

const DefaultTimeout = 30 * time.Second

// Endpoint is a named, externally configured URL. An empty URL means the
// endpoint is not configured.
type Endpoint struct {
	Name string
	URL  string
}

func (e Endpoint) Configured() bool {
	return strings.TrimSpace(e.URL) != ""
}

func (e Endpoint) label() string {
	if e.Name == "" {
		return "webhook"
	}

	return e.Name
}

// ReadRequest is the body that asks a list endpoint for its records.
type ReadRequest struct {
	Action string `json:"action"`
}

var Read = ReadRequest{Action: "read"}

// RequestOptions tune a single request. A zero Timeout uses the client default.
type RequestOptions struct {
	Timeout time.Duration
	Headers map[string]string
}

// Response is a successful reply. JSON is the parsed body; an empty body
// parses to a null result.
type Response struct {
	Status int
	Body   []byte
	JSON   gjson.Result
}

// NewResponse wraps an already validated body.
func NewResponse(status int, body []byte) *Response {
	return &Response{
		Status: status,
		Body:   body,
		JSON:   gjson.ParseBytes(body),
	}
}

// Message returns the body's message field, if any.
func (r *Response) Message() string {
	if r == nil {
		return ""
	}

	return strings.TrimSpace(r.JSON.Get("message").String())
}

type Client struct {
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the default request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Request sends body (JSON encoded, may be nil) to ep and validates the reply.
// Every failure is an *Error.
func (c *Client) Request(ctx context.Context, ep Endpoint, method string, body any, opts RequestOptions) (*Response, error) {
	if !ep.Configured() {
		return nil, c.fail(NotConfigured(ep))
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := c.newRequest(ctx, ep, method, body, opts.Headers)
	if err != nil {
		return nil, c.fail(&Error{Kind: KindNetwork, Message: "could not build request", Endpoint: ep.Name, Err: err})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(transportError(ep, err))
	}
	defer resp.Body.Close()

	raw, err := encoding.DecodeBody(resp.Body)
	if errors.Is(err, encoding.ErrBodyTooLarge) {
		return nil, c.fail(&Error{
			Kind:     KindMalformed,
			Status:   resp.StatusCode,
			Message:  ErrMalformedResponse.Error(),
			Endpoint: ep.Name,
			Err:      err,
		})
	}
	if err != nil {
		return nil, c.fail(transportError(ep, err))
	}

	raw = bytes.TrimSpace(raw)
	valid := len(raw) == 0 || gjson.ValidBytes(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(&Error{
			Kind:     KindHTTP,
			Status:   resp.StatusCode,
			Message:  statusMessage(resp.StatusCode, raw, valid),
			Endpoint: ep.Name,
		})
	}

	if !valid {
		return nil, c.fail(&Error{
			Kind:     KindMalformed,
			Status:   resp.StatusCode,
			Message:  ErrMalformedResponse.Error(),
			Endpoint: ep.Name,
			Err:      fmt.Errorf("body is not json: %.64q", raw),
		})
	}

	out := NewResponse(resp.StatusCode, raw)

	if out.JSON.IsObject() && out.JSON.Get("success").Type == gjson.False {
		msg := out.Message()
		if msg == "" {
			msg = "the server rejected the request"
		}

		return nil, c.fail(&Error{Kind: KindBusiness, Status: resp.StatusCode, Message: msg, Endpoint: ep.Name})
	}

	return out, nil
}

func (c *Client) newRequest(ctx context.Context, ep Endpoint, method string, body any, headers map[string]string) (*http.Request, error) {
	var payload io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding body: %w", err)
		}

		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, ep.URL, payload)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// fail logs the technical cause. The logger's level decides whether it is seen.
func (c *Client) fail(e *Error) *Error {
	c.logger.Debug("webhook request failed",
		"endpoint", e.Endpoint,
		"kind", e.Kind.String(),
		"status", e.Status,
		"message", e.Message,
		"error", e.Err,
	)

	return e
}

func transportError(ep Endpoint, err error) *Error {
	var ne net.Error

	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return &Error{Kind: KindTimeout, Message: ErrTimeout.Error(), Endpoint: ep.Name, Err: err}
	}

	return &Error{
		Kind:     KindNetwork,
		Message:  "could not reach the server, check the connection",
		Endpoint: ep.Name,
		Err:      err,
	}
}

func statusMessage(status int, raw []byte, valid bool) string {
	if valid && len(raw) > 0 {
		if msg := strings.TrimSpace(gjson.GetBytes(raw, "message").String()); msg != "" {
			return msg
		}
	}

	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}

	return fmt.Sprintf("server error (%d)", status)
}
