package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hoofix/services/session"
	"hoofix/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client talks to the marketplace backend on behalf of one page session.
type Client struct {
	baseURL string
	http    *http.Client
	creds   session.CredentialStore
	logger  *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds every call. Zero leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

func NewClient(baseURL string, creds session.CredentialStore, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		creds:   creds,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Credentials exposes the slot this client authenticates with.
func (c *Client) Credentials() session.CredentialStore {
	return c.creds
}

type call struct {
	op          string
	method      string
	path        string
	body        io.Reader
	contentType string
	public      bool
}

func jsonCall(op, method, path string, payload interface{}) (call, error) {
	cl := call{op: op, method: method, path: path}
	if payload == nil {
		return cl, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return cl, &Error{Kind: InvalidInput, Op: op, Message: "could not encode request", Err: err}
	}
	cl.body = bytes.NewReader(data)
	cl.contentType = "application/json"
	return cl, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, out interface{}) error {
	return c.do(ctx, call{op: op, method: http.MethodGet, path: path}, out)
}

func (c *Client) sendJSON(ctx context.Context, op, method, path string, payload, out interface{}) error {
	cl, err := jsonCall(op, method, path, payload)
	if err != nil {
		return err
	}
	return c.do(ctx, cl, out)
}

// credentialError classifies a failed slot read. Only an empty slot means
// nobody is logged in; a slot that cannot be read right now is transient.
func credentialError(op string, err error) *Error {
	switch {
	case errors.Is(err, session.ErrNoCredential):
		return &Error{Kind: Unauthorized, Op: op, Message: "not logged in", Err: err}
	case errors.Is(err, session.ErrSealedCredential):
		return &Error{Kind: ServerError, Op: op, Message: "credential cannot be opened", Err: err}
	default:
		return &Error{Kind: NetworkError, Op: op, Message: "credential store unavailable", Err: err}
	}
}

// do performs one request and decodes a 2xx body into out (when non-nil).
func (c *Client) do(ctx context.Context, cl call, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, cl.body)
	if err != nil {
		return &Error{Kind: NetworkError, Op: cl.op, Message: "could not build request", Err: err}
	}
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}

	fields := []zap.Field{
		zap.String("op", cl.op),
		zap.String("method", cl.method),
		zap.String("path", cl.path),
		zap.String("requestID", requestID),
	}

	if !cl.public {
		token, err := c.creds.Get(ctx)
		if err != nil {
			return credentialError(cl.op, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		fields = append(fields, zap.String("token", utils.TokenFingerprint(token)))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend call failed", append(fields, zap.Error(err))...)
		return &Error{Kind: NetworkError, Op: cl.op, Message: "backend unreachable", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: NetworkError, Op: cl.op, Status: resp.StatusCode, Message: "could not read response", Err: err}
	}

	fields = append(fields, zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := kindForStatus(resp.StatusCode)
		msg := backendMessage(body)
		c.logger.Warn("backend call rejected", append(fields, zap.String("kind", string(kind)), zap.String("message", msg))...)
		return &Error{Kind: kind, Op: cl.op, Status: resp.StatusCode, Message: msg}
	}
	c.logger.Debug("backend call", fields...)

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error("backend response did not decode", append(fields, zap.Error(err))...)
		return &Error{Kind: ServerError, Op: cl.op, Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}

// backendMessage pulls the human readable reason out of an error body. The
// backend uses "error" or "message" interchangeably.
func backendMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error != "":
			return payload.Error
		case payload.Message != "":
			return payload.Message
		case payload.Detail != "":
			return payload.Detail
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

// refine narrows a rejected call's kind when the backend's reason is more
// specific than its status code.
func refine(err error, kind Kind, marker string) error {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest &&
		strings.Contains(strings.ToLower(apiErr.Message), marker) {
		apiErr.Kind = kind
	}
	return err
}

func escape(id string) string {
	return url.PathEscape(id)
}
