package registrytest

import (
	"strconv"
	"sync"
)

type entry struct {
	ID     string `json:"id"`
	Schema string `json:"schema"`
}

type subjectState struct {
	validatorClass string
	entries        []entry
}

// store holds the fake registry's subjects and entries. Ids are sequential
// decimal strings purely so test transcripts stay readable; clients treat
// them as opaque.
type store struct {
	mu       sync.RWMutex
	subjects map[string]*subjectState
	nextID   int
}

func newStore() *store {
	return &store{subjects: make(map[string]*subjectState)}
}

// ensureSubject creates the subject if absent and returns its canonical name.
func (s *store) ensureSubject(name, validatorClass string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subjects[name]; !exists {
		s.subjects[name] = &subjectState{validatorClass: validatorClass}
	}
	return name
}

func (s *store) subjectExists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.subjects[name]
	return exists
}

func (s *store) subjectNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.subjects))
	for name := range s.subjects {
		names = append(names, name)
	}
	return names
}

// register appends schema as a new entry of subject, or returns the existing
// id when the identical text is already registered. The second return is
// false when the subject does not exist.
func (s *store) register(subject, schema string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.registerLocked(subject, schema)
}

// registerIfLatest is register guarded by the caller's view of the latest
// entry: latestID must name the current newest entry, or be empty when the
// subject has no entries yet. conflict is true when the guard failed.
func (s *store) registerIfLatest(subject, schema, latestID string) (id string, ok, conflict bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, exists := s.subjects[subject]
	if !exists {
		return "", false, false
	}
	current := ""
	if n := len(st.entries); n > 0 {
		current = st.entries[n-1].ID
	}
	if latestID != current {
		return "", false, true
	}
	id, ok = s.registerLocked(subject, schema)
	return id, ok, false
}

func (s *store) registerLocked(subject, schema string) (string, bool) {
	st, exists := s.subjects[subject]
	if !exists {
		return "", false
	}
	for _, e := range st.entries {
		if e.Schema == schema {
			return e.ID, true
		}
	}
	s.nextID++
	id := strconv.Itoa(s.nextID)
	st.entries = append(st.entries, entry{ID: id, Schema: schema})
	return id, true
}

func (s *store) findBySchema(subject, schema string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, exists := s.subjects[subject]
	if !exists {
		return "", false
	}
	for _, e := range st.entries {
		if e.Schema == schema {
			return e.ID, true
		}
	}
	return "", false
}

func (s *store) findByID(subject, id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, exists := s.subjects[subject]
	if !exists {
		return "", false
	}
	for _, e := range st.entries {
		if e.ID == id {
			return e.Schema, true
		}
	}
	return "", false
}

func (s *store) latest(subject string) (entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, exists := s.subjects[subject]
	if !exists || len(st.entries) == 0 {
		return entry{}, false
	}
	return st.entries[len(st.entries)-1], true
}

// all returns the subject's entries in registration order. ok is false when
// the subject does not exist; an existing empty subject returns ok with no
// entries.
func (s *store) all(subject string) ([]entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, exists := s.subjects[subject]
	if !exists {
		return nil, false
	}
	out := make([]entry, len(st.entries))
	copy(out, st.entries)
	return out, true
}
