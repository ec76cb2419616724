package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/busbooking/internal/domain"
)

const defaultTimeout = 15 * time.Second

// Sender is the capability the services depend on.
type Sender interface {
	Send(ctx context.Context, method, path string, body any) (json.RawMessage, error)
}

// CredentialSource supplies the bearer credential for outgoing requests.
type CredentialSource interface {
	Credential() string
}

type credentialKey struct{}
type requestIDKey struct{}

// WithCredentials attaches the caller's credential source to ctx.
func WithCredentials(ctx context.Context, src CredentialSource) context.Context {
	return context.WithValue(ctx, credentialKey{}, src)
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func credential(ctx context.Context) string {
	src, ok := ctx.Value(credentialKey{}).(CredentialSource)
	if !ok || src == nil {
		return ""
	}
	return src.Credential()
}

// Client talks JSON to the remote booking API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

type Option func(*Client)

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send performs one request. A nil body sends no payload. The decoded body is
// returned as raw JSON; an empty 2xx body comes back as JSON null.
func (c *Client) Send(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	ctx := req.Context()
	req.Header.Set("Accept", "application/json")
	if token := credential(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("[transport] request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return nil, &domain.Error{Kind: domain.KindNetwork, Message: "booking service unavailable", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindNetwork, Status: resp.StatusCode, Message: "read response body", Err: err}
	}

	c.log.Debug("[transport] request done",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
		"request_id", RequestID(ctx),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := errorFromResponse(resp.StatusCode, data)
		c.log.Warn("[transport] api error", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "kind", apiErr.Kind, "message", apiErr.Message)
		return nil, apiErr
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(data) {
		return nil, &domain.Error{Kind: domain.KindMalformed, Status: resp.StatusCode, Message: "response is not valid JSON"}
	}
	return json.RawMessage(data), nil
}
