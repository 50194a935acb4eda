package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tearaglass/godscruiseline/internal/access"
	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
)

// APIError is a failure envelope returned by the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// TransportError means no usable response reached the client: the request
// could not be sent, or the body was not an envelope.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// Document is a JSON object as submitted by the console. Absent keys are
// not sent, so the server keeps their stored value on update.
type Document map[string]any

// Client talks to the catalog API.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the API rooted at baseURL (e.g. http://localhost:8080).
// A nil hc uses a client with a 10s timeout.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *Client) Records() *Collection[domain.Record] {
	return &Collection[domain.Record]{client: c, path: "/api/records"}
}

func (c *Client) Projects() *Collection[domain.Project] {
	return &Collection[domain.Project]{client: c, path: "/api/projects"}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Level   *string         `json:"level"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	op := method + " " + path

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("invalid response (status %d): %w", resp.StatusCode, err)}
	}
	if !env.Success {
		return &env, &APIError{Status: resp.StatusCode, Message: env.Error}
	}
	return &env, nil
}

// ResolveTier submits a passphrase to the access tier endpoint.
func (c *Client) ResolveTier(ctx context.Context, passphrase string) (access.Tier, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth", map[string]string{"passphrase": passphrase})
	if err != nil {
		return access.TierNone, err
	}
	if env.Level == nil {
		return access.TierNone, nil
	}
	return access.Tier(*env.Level), nil
}

// Collection is the typed client for one resource endpoint.
type Collection[T any] struct {
	client *Client
	path   string
}

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := c.call(ctx, http.MethodGet, c.path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := c.call(ctx, http.MethodGet, c.path+"?id="+url.QueryEscape(id), nil, &out)
	return out, err
}

func (c *Collection[T]) Create(ctx context.Context, doc Document) (T, error) {
	var out T
	err := c.call(ctx, http.MethodPost, c.path, doc, &out)
	return out, err
}

func (c *Collection[T]) Update(ctx context.Context, doc Document) (T, error) {
	var out T
	err := c.call(ctx, http.MethodPut, c.path, doc, &out)
	return out, err
}

func (c *Collection[T]) Delete(ctx context.Context, id string) (T, error) {
	var out T
	err := c.call(ctx, http.MethodDelete, c.path+"?id="+url.QueryEscape(id), nil, &out)
	return out, err
}

func (c *Collection[T]) call(ctx context.Context, method, path string, body any, out any) error {
	env, err := c.client.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &TransportError{Op: method + " " + path, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}
