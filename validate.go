package schemarepo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Format names a schema language the prevalidator can check locally.
type Format string

const (
	FormatAvro     Format = "avro"
	FormatProtobuf Format = "protobuf"
	FormatJSON     Format = "json"
)

// FormatChecker inspects schema text for well-formedness in one format.
// Implementations live under formats/.
type FormatChecker interface {
	Check(ctx context.Context, schema string) error
}

// Fingerprint returns the SHA-256 hex digest of schema text. It keys the
// prevalidation cache.
func Fingerprint(schema string) string {
	sum := sha256.Sum256([]byte(schema))
	return hex.EncodeToString(sum[:])
}

// Prevalidator runs local format checks before a schema is shipped to the
// repository, so obviously broken schemas fail without a round trip. The
// repository applies the subject's validator class authoritatively either
// way; this is a fast-fail front. Results are cached by fingerprint and
// concurrent checks of the same text are deduped.
type Prevalidator struct {
	mu       sync.RWMutex
	checkers map[Format]FormatChecker
	results  map[string]error
	group    singleflight.Group // dedupe concurrent checks of one schema
}

// NewPrevalidator creates a prevalidator with no formats registered.
func NewPrevalidator() *Prevalidator {
	return &Prevalidator{
		checkers: make(map[Format]FormatChecker),
		results:  make(map[string]error),
	}
}

// RegisterFormat installs the checker for a format, replacing any previous
// one. Call during setup, before Check is used.
func (p *Prevalidator) RegisterFormat(format Format, checker FormatChecker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checkers[format] = checker
}

// Supports reports whether the format has a registered checker.
func (p *Prevalidator) Supports(format Format) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.checkers[format]
	return ok
}

// SupportedFormats returns all registered formats.
func (p *Prevalidator) SupportedFormats() []Format {
	p.mu.RLock()
	defer p.mu.RUnlock()
	formats := make([]Format, 0, len(p.checkers))
	for format := range p.checkers {
		formats = append(formats, format)
	}
	return formats
}

// Check validates schema text in the given format. A nil return means the
// text is well-formed as far as local checks can tell.
func (p *Prevalidator) Check(ctx context.Context, format Format, schema string) error {
	p.mu.RLock()
	checker, ok := p.checkers[format]
	p.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unsupported schema format: %s", format)
	}

	key := string(format) + ":" + Fingerprint(schema)

	p.mu.RLock()
	if res, cached := p.results[key]; cached {
		p.mu.RUnlock()
		return res
	}
	p.mu.RUnlock()

	res, _, _ := p.group.Do(key, func() (interface{}, error) {
		// Double-check after acquiring the singleflight slot.
		p.mu.RLock()
		if res, cached := p.results[key]; cached {
			p.mu.RUnlock()
			return res, nil
		}
		p.mu.RUnlock()

		checkErr := checker.Check(ctx, schema)
		// A failure caused by the caller's context is transient, not a
		// verdict on the schema; caching it would fail every later check of
		// the same text.
		if !errors.Is(checkErr, context.Canceled) && !errors.Is(checkErr, context.DeadlineExceeded) {
			p.mu.Lock()
			p.results[key] = checkErr
			p.mu.Unlock()
		}
		return checkErr, nil
	})
	if res == nil {
		return nil
	}
	return res.(error)
}
