package schemarepo

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain name", input: "com.example.Greeting"},
		{name: "dashes and underscores", input: "payments_v2-events"},
		{name: "empty", input: "", wantErr: true},
		{name: "slash", input: "a/b", wantErr: true},
		{name: "question mark", input: "a?b", wantErr: true},
		{name: "hash", input: "a#b", wantErr: true},
		{name: "percent", input: "a%b", wantErr: true},
		{name: "space", input: "a b", wantErr: true},
		{name: "tab", input: "a\tb", wantErr: true},
		{name: "newline", input: "a\nb", wantErr: true},
		{name: "control character", input: "a\x00b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateName(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("validateName(%q) expected error, got nil", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validateName(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

func TestValidateSchema(t *testing.T) {
	if err := validateSchema(""); err == nil {
		t.Error("validateSchema(\"\") expected error, got nil")
	}
	if err := validateSchema(`{"type":"string"}`); err != nil {
		t.Errorf("validateSchema() unexpected error: %v", err)
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		segments []string
		want     string
	}{
		{
			name:     "subject path",
			base:     "http://localhost:2876/schema-repo",
			segments: []string{"greetings"},
			want:     "http://localhost:2876/schema-repo/greetings",
		},
		{
			name:     "trailing slash on base is collapsed",
			base:     "http://localhost:2876/schema-repo/",
			segments: []string{"greetings", "register"},
			want:     "http://localhost:2876/schema-repo/greetings/register",
		},
		{
			name:     "no segments yields the collection root",
			base:     "http://localhost:2876/schema-repo",
			segments: nil,
			want:     "http://localhost:2876/schema-repo/",
		},
		{
			// An absent expected-latest entry is encoded as an empty final
			// segment, so the trailing slash must survive.
			name:     "empty trailing segment keeps its slash",
			base:     "http://localhost:2876/schema-repo",
			segments: []string{"greetings", "register_if_latest", ""},
			want:     "http://localhost:2876/schema-repo/greetings/register_if_latest/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := joinPath(tt.base, tt.segments...)
			if got != tt.want {
				t.Errorf("joinPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSubjectNamesFromString(t *testing.T) {
	names := subjectNamesFromString("alpha\nbeta\n\ngamma\n")
	want := []string{"alpha", "beta", "gamma"}
	if len(names) != len(want) {
		t.Fatalf("got %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	if got := subjectNamesFromString(""); len(got) != 0 {
		t.Errorf("empty body should decode to no names, got %v", got)
	}
}

func TestEntriesFromString(t *testing.T) {
	body := strings.Join([]string{
		`{"id":"1","schema":"{\"type\":\"string\"}"}`,
		`{"id":"2","schema":"{\"type\":\"int\"}"}`,
	}, "\n")

	entries, err := entriesFromString(body)
	if err != nil {
		t.Fatalf("entriesFromString() unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != "1" || entries[0].Schema != `{"type":"string"}` {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].ID != "2" {
		t.Errorf("entries[1].ID = %q, want %q", entries[1].ID, "2")
	}

	if entries, err := entriesFromString("\n\n"); err != nil || len(entries) != 0 {
		t.Errorf("blank body should decode to no entries, got %v, %v", entries, err)
	}

	if _, err := entriesFromString("not json"); err == nil {
		t.Error("malformed line should fail the decode")
	}
}
