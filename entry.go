package schemarepo

// SchemaEntry is one registered schema version under a subject. The id is
// assigned by the repository server; the client only ever echoes it back.
// Entries are immutable once constructed.
type SchemaEntry struct {
	ID     string `json:"id"`
	Schema string `json:"schema"`
}
