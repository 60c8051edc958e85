package schemarepo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Subject is a handle on one named subject of the repository. It carries no
// state of its own; every operation is a single stateless request through
// the owning client.
type Subject struct {
	name   string
	client *Client
}

// Name returns the subject name as known to the repository.
func (s *Subject) Name() string { return s.name }

// Register submits schema text as a new version of this subject and returns
// the entry with the id the server assigned. A 403 means the schema failed
// the subject's validator and surfaces as *ValidationError carrying the
// rejected text. Any other non-2xx response returns (nil, nil) — the
// historical contract conflates it with "no result" — while a transport
// failure is fatal and propagates as an error.
func (s *Subject) Register(ctx context.Context, schema string) (*SchemaEntry, error) {
	if err := validateSchema(schema); err != nil {
		return nil, err
	}
	return s.register(ctx, joinPath(s.client.baseURL, s.name, "register"), schema)
}

// RegisterIfLatest is Register guarded by optimistic concurrency: the write
// goes through only when latest matches the subject's true current latest
// entry on the server. Pass nil to require that the subject has no versions
// yet. A stale expectation is rejected by the server and comes back absent.
func (s *Subject) RegisterIfLatest(ctx context.Context, schema string, latest *SchemaEntry) (*SchemaEntry, error) {
	if err := validateSchema(schema); err != nil {
		return nil, err
	}
	latestID := ""
	if latest != nil {
		latestID = latest.ID
	}
	return s.register(ctx, joinPath(s.client.baseURL, s.name, "register_if_latest", latestID), schema)
}

func (s *Subject) register(ctx context.Context, url, schema string) (*SchemaEntry, error) {
	status, body, err := s.client.do(ctx, http.MethodPost, url, ContentTypeRegistry, strings.NewReader(schema))
	if err != nil {
		return nil, fmt.Errorf("register schema under %q: %w", s.name, err)
	}
	switch {
	case is2xx(status):
		return &SchemaEntry{ID: strings.TrimSpace(string(body)), Schema: schema}, nil
	case status == http.StatusForbidden:
		return nil, &ValidationError{Schema: schema}
	default:
		s.client.logSoftFailure(ctx, "Schema registration yielded no entry", status, nil, "subject", s.name)
		return nil, nil
	}
}

// LookupBySchema finds the existing entry whose text equals schema. It never
// creates one: a match returns the entry with the server's id and the
// submitted text, and any failure — not found included — collapses to
// (nil, nil) with the cause logged.
func (s *Subject) LookupBySchema(ctx context.Context, schema string) (*SchemaEntry, error) {
	if err := validateSchema(schema); err != nil {
		return nil, err
	}
	status, body, err := s.client.do(ctx, http.MethodPost, joinPath(s.client.baseURL, s.name, "schema"), ContentTypeRegistry, strings.NewReader(schema))
	if err != nil || !is2xx(status) {
		s.client.logSoftFailure(ctx, "Schema lookup by content yielded no entry", status, err, "subject", s.name)
		return nil, nil
	}
	return &SchemaEntry{ID: strings.TrimSpace(string(body)), Schema: schema}, nil
}

// LookupByID fetches the schema text registered under id. The returned entry
// always carries the requested id; any failure collapses to (nil, nil).
func (s *Subject) LookupByID(ctx context.Context, id string) (*SchemaEntry, error) {
	if err := validateName(id); err != nil {
		return nil, err
	}
	status, body, err := s.client.do(ctx, http.MethodGet, joinPath(s.client.baseURL, s.name, "id", id), "", nil)
	if err != nil || !is2xx(status) {
		s.client.logSoftFailure(ctx, "Schema lookup by id yielded no entry", status, err, "subject", s.name, "id", id)
		return nil, nil
	}
	return &SchemaEntry{ID: id, Schema: string(body)}, nil
}

// Latest returns the subject's newest entry, decoded from the server's JSON
// document, or nil on any failure. There is nothing to validate and the soft
// contract leaves no error to surface, so Latest has no error return.
func (s *Subject) Latest(ctx context.Context) *SchemaEntry {
	status, body, err := s.client.do(ctx, http.MethodGet, joinPath(s.client.baseURL, s.name, "latest"), "", nil)
	if err != nil || !is2xx(status) {
		s.client.logSoftFailure(ctx, "Latest entry lookup yielded no entry", status, err, "subject", s.name)
		return nil
	}
	var entry SchemaEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		s.client.logSoftFailure(ctx, "Latest entry lookup yielded no entry", status, err, "subject", s.name)
		return nil
	}
	return &entry
}

// AllEntries returns every entry of the subject in the order the server
// sent them, or an empty slice on any failure.
func (s *Subject) AllEntries(ctx context.Context) []SchemaEntry {
	status, body, err := s.client.do(ctx, http.MethodGet, joinPath(s.client.baseURL, s.name, "all"), "", nil)
	if err != nil || !is2xx(status) {
		s.client.logSoftFailure(ctx, "Entry listing yielded no entries", status, err, "subject", s.name)
		return nil
	}
	entries, err := entriesFromString(string(body))
	if err != nil {
		s.client.logSoftFailure(ctx, "Entry listing yielded no entries", status, err, "subject", s.name)
		return nil
	}
	return entries
}
