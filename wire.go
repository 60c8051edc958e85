package schemarepo

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// ContentTypeRegistry is the media type the repository speaks. It is sent as
// Accept on every request and as Content-Type on schema submissions; only
// subject registration is form-encoded instead.
const (
	ContentTypeRegistry = "application/vnd.schemaregistry.v1+json"
	contentTypeForm     = "application/x-www-form-urlencoded"
)

// forbiddenNameRunes would change the meaning of a URL when a name is used
// verbatim as a path segment.
const forbiddenNameRunes = "/?#%"

// validateName checks that a subject name or schema id is usable as a URL
// path segment. Names travel verbatim, never percent-escaped, so anything
// unsafe is rejected before a request is built.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	for _, r := range name {
		if strings.ContainsRune(forbiddenNameRunes, r) || unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("name %q contains character %q unsafe for a path segment", name, r)
		}
	}
	return nil
}

// validateSchema checks schema text before it is shipped to the repository.
func validateSchema(schema string) error {
	if schema == "" {
		return fmt.Errorf("schema must not be empty")
	}
	return nil
}

// joinPath appends path segments to the base URL. Segments are joined
// verbatim; an empty trailing segment keeps its slash, which
// register-if-latest relies on to mean "expect no prior version".
func joinPath(base string, segments ...string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}

// subjectNamesFromString decodes the newline-separated subject listing.
func subjectNamesFromString(body string) []string {
	var names []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names
}

// entriesFromString decodes the newline-separated schema entry listing, one
// JSON object per line. A malformed line fails the whole decode so a
// truncated response is not silently half-read.
func entriesFromString(body string) ([]SchemaEntry, error) {
	var entries []SchemaEntry
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e SchemaEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return nil, fmt.Errorf("malformed entry line %q: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
