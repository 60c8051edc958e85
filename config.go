package schemarepo

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Config configures a repository client. Only URL is required.
type Config struct {
	// URL is the repository base endpoint, e.g. "http://localhost:2876/schema-repo".
	URL string

	// Timeout bounds each request when no HTTPClient is supplied. Zero means
	// no client-side timeout; the transport default applies.
	Timeout time.Duration

	// HTTPClient, when set, is used for every request. It must be safe for
	// concurrent use; the client never mutates it and Timeout is ignored.
	HTTPClient *http.Client

	// Logger receives soft-failure causes. Defaults to slog.Default().
	Logger *slog.Logger

	// UserAgent is sent on every request when non-empty.
	UserAgent string
}

func (c Config) validate() error {
	if c.URL == "" {
		return fmt.Errorf("repository URL is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid repository URL %q: %w", c.URL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("repository URL %q must be absolute", c.URL)
	}
	return nil
}
