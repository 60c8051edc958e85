// Package avro checks schema text for well-formedness as an Avro schema.
package avro

import (
	"context"
	"fmt"

	avrolib "github.com/amient/avro"
)

// Checker verifies that schema text parses as an Avro schema.
type Checker struct{}

// NewChecker creates a new Avro checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Check parses the schema text. Parse failures are reported with the
// underlying cause wrapped.
func (c *Checker) Check(_ context.Context, schema string) error {
	if _, err := avrolib.ParseSchema(schema); err != nil {
		return fmt.Errorf("invalid avro schema: %w", err)
	}
	return nil
}
