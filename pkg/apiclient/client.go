// Package apiclient is the single request helper every storefront service goes
// through: base URL, bearer auth, per-call timeout, envelope decoding and the
// mapping of failures onto pkg/errors codes.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/types"
)

const (
	DefaultTimeout              = 10 * time.Second
	responseBodyReadLimit int64 = 4 << 20
	errorBodyReadLimit    int64 = 1024
)

var errBaseURLRequired = errors.New("api base url is required")

// TokenSource yields the bearer token for authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// Client performs JSON and multipart calls against the storefront backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	tokens     TokenSource
	logg       *logger.Logger
	metrics    *metrics.RequestMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the per-call deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logg = logg
		}
	}
}

func WithMetrics(m *metrics.RequestMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New builds a client rooted at baseURL, e.g. https://host/api.
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	client := &Client{
		httpClient: &http.Client{},
		baseURL:    trimmed,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.logg == nil {
		client.logg = logger.Nop()
	}
	return client, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// File is one multipart file part.
type File struct {
	Field    string
	Name     string
	Content  io.Reader
	MimeType string
}

// Request describes one backend call. Body is JSON encoded unless Form or
// Files are set, in which case the call is sent as multipart/form-data.
type Request struct {
	Name   string
	Method string
	Path   string
	Query  url.Values
	Body   any
	Form   map[string]string
	Files  []File
	Auth   bool
}

// Response is the decoded envelope of a successful call.
type Response struct {
	Status   int
	Envelope types.Envelope
}

// Do executes req and decodes the envelope data into out when out is non-nil.
func (c *Client) Do(ctx context.Context, req Request, out any) (*Response, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "api client not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	name := req.Name
	if name == "" {
		name = req.Method + " " + req.Path
	}
	ctx = c.logg.WithFields(ctx, map[string]any{"endpoint": name})

	start := time.Now()
	resp, status, err := c.do(ctx, req, out)
	elapsed := time.Since(start)

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = string(pkgerrors.As(err).Code())
	}
	c.metrics.Observe(name, outcome, elapsed)

	logCtx := c.logg.WithFields(ctx, map[string]any{
		"status":      status,
		"duration_ms": elapsed.Milliseconds(),
	})
	if err != nil {
		c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "api.request.failed")
		return nil, err
	}
	c.logg.Debug(logCtx, "api.request.complete")
	return resp, nil
}

func (c *Client) do(ctx context.Context, req Request, out any) (*Response, int, error) {
	var token string
	if req.Auth {
		t, err := c.token(ctx)
		if err != nil {
			return nil, 0, err
		}
		token = t
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := c.buildRequest(callCtx, req)
	if err != nil {
		return nil, 0, err
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, classifyTransportError(ctx, callCtx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, resp.StatusCode, classifyTransportError(ctx, callCtx, err)
	}

	var env types.Envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, statusError(resp.StatusCode, env, decodeErr, body)
	}
	if decodeErr != nil {
		return nil, resp.StatusCode, pkgerrors.Wrap(pkgerrors.CodeDependency, decodeErr, "decode response envelope")
	}
	if !env.Success {
		message := env.Message
		if message == "" {
			message = pkgerrors.MetadataFor(pkgerrors.CodeBusiness).PublicMessage
		}
		return nil, resp.StatusCode, pkgerrors.New(pkgerrors.CodeBusiness, message).
			WithDetails(pkgerrors.ServerDetails{Status: resp.StatusCode, Errors: env.Errors})
	}

	if out != nil && env.HasData() {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, resp.StatusCode, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response data")
		}
	}
	return &Response{Status: resp.StatusCode, Envelope: env}, resp.StatusCode, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "not logged in")
	}
	token, err := c.tokens.Token(ctx)
	if err != nil || strings.TrimSpace(token) == "" {
		return "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "not logged in")
	}
	return token, nil
}

func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case len(req.Files) > 0 || req.Form != nil:
		buf, ct, err := encodeMultipart(req.Form, req.Files)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case req.Body != nil:
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		body, contentType = bytes.NewReader(payload), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

func encodeMultipart(form map[string]string, files []File) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for key, value := range form {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write form field")
		}
	}
	for _, f := range files {
		if f.Content == nil {
			continue
		}
		part, err := createFilePart(w, f)
		if err != nil {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create form file")
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "copy form file")
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close multipart writer")
	}
	return buf, w.FormDataContentType(), nil
}

func createFilePart(w *multipart.Writer, f File) (io.Writer, error) {
	if f.MimeType == "" {
		return w.CreateFormFile(f.Field, f.Name)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Name))
	h.Set("Content-Type", f.MimeType)
	return w.CreatePart(h)
}

// classifyTransportError separates our own deadline from caller cancellation
// and plain network failures.
func classifyTransportError(parent, call context.Context, err error) error {
	if parent.Err() != nil {
		return pkgerrors.Wrap(pkgerrors.CodeCanceled, err, "request canceled")
	}
	if errors.Is(call.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.CodeTimeout, err, "Request timeout")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "network request failed")
}

func statusError(status int, env types.Envelope, decodeErr error, body []byte) error {
	code := pkgerrors.CodeForStatus(status)
	message := env.Message
	if decodeErr != nil || message == "" {
		snippet := strings.TrimSpace(string(body))
		if int64(len(snippet)) > errorBodyReadLimit {
			snippet = snippet[:errorBodyReadLimit]
		}
		if decodeErr == nil || snippet == "" {
			snippet = pkgerrors.MetadataFor(code).PublicMessage
		}
		message = fmt.Sprintf("%s (status %d)", snippet, status)
	}
	return pkgerrors.New(code, message).
		WithDetails(pkgerrors.ServerDetails{Status: status, Errors: env.Errors})
}
