// Package schemarepo is an HTTP client for the Avro-style schema repository:
// a named collection of subjects, each holding an ordered history of schema
// versions identified by opaque, server-assigned ids.
//
// Lookup-style operations follow a soft-failure contract: anything that goes
// wrong short of a transport fault collapses to an absent value with the
// cause logged, never an error. Register-style operations surface validator
// rejections as *ValidationError and transport faults as errors. Callers
// depend on that asymmetry to scan for a subject or schema before deciding
// whether to create it.
package schemarepo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Client talks to one remote schema repository. It holds no mutable state
// beyond the base URL and a shared transport, so a single instance is safe
// for concurrent use across goroutines.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

// New creates a repository client bound to cfg.URL.
func New(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		httpClient: httpClient,
		logger:     logger,
		userAgent:  cfg.UserAgent,
	}, nil
}

// Register creates the subject on the repository, or returns it unchanged if
// it already exists, attaching the given validator class. The handle wraps
// the canonical name the server replied with. The protocol gives no way to
// tell a rejected registration from any other failure here, so every non-2xx
// response comes back as a *StatusError.
func (c *Client) Register(ctx context.Context, subject, validatorClass string) (*Subject, error) {
	if err := validateName(subject); err != nil {
		return nil, err
	}
	form := url.Values{"validator_class": {validatorClass}}
	status, body, err := c.do(ctx, http.MethodPost, joinPath(c.baseURL, subject), contentTypeForm, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("register subject %q: %w", subject, err)
	}
	if !is2xx(status) {
		return nil, &StatusError{Status: status, Body: string(body)}
	}
	return &Subject{name: strings.TrimSpace(string(body)), client: c}, nil
}

// Lookup returns a handle for an existing subject, or nil when the
// repository does not know the name or could not be asked. The cause behind
// a nil result is only logged.
func (c *Client) Lookup(ctx context.Context, subject string) (*Subject, error) {
	if err := validateName(subject); err != nil {
		return nil, err
	}
	status, _, err := c.do(ctx, http.MethodGet, joinPath(c.baseURL, subject), "", nil)
	if err != nil || !is2xx(status) {
		c.logSoftFailure(ctx, "Subject lookup yielded no subject", status, err, "subject", subject)
		return nil, nil
	}
	return &Subject{name: subject, client: c}, nil
}

// Subjects lists every subject the repository knows. Any failure yields an
// empty slice with the cause logged; the listing never errors.
func (c *Client) Subjects(ctx context.Context) []*Subject {
	status, body, err := c.do(ctx, http.MethodGet, joinPath(c.baseURL), "", nil)
	if err != nil || !is2xx(status) {
		c.logSoftFailure(ctx, "Subject listing yielded no subjects", status, err)
		return nil
	}
	var subjects []*Subject
	for _, name := range subjectNamesFromString(string(body)) {
		subjects = append(subjects, &Subject{name: name, client: c})
	}
	return subjects
}

// do issues one request and reads the whole response. A non-nil error means
// the transport failed or the body could not be read; HTTP-level failures
// come back as a status code for the caller to interpret.
func (c *Client) do(ctx context.Context, method, url, contentType string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", ContentTypeRegistry)
	req.Header.Set("X-Request-Id", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.DebugContext(ctx, "Repository request", "method", method, "url", url, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response body: %w", err)
	}
	return resp.StatusCode, data, nil
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}

// logSoftFailure records the cause behind an absent result. Plain not-found
// responses log at debug; anything else is unexpected enough to warn about.
func (c *Client) logSoftFailure(ctx context.Context, msg string, status int, err error, attrs ...any) {
	attrs = append(attrs, "status", status)
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	if status == http.StatusNotFound {
		c.logger.DebugContext(ctx, msg, attrs...)
		return
	}
	c.logger.WarnContext(ctx, msg, attrs...)
}
