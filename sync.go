package schemarepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SyncOptions controls a directory sync.
type SyncOptions struct {
	// ValidatorClass is attached to subjects the sync has to create.
	ValidatorClass string

	// Prevalidator, when set, checks each schema file locally before it is
	// submitted; files that fail are recorded in the report and skipped.
	// Files whose format has no registered checker are submitted unchecked.
	Prevalidator *Prevalidator
}

// SyncReport summarizes one SyncDir run.
type SyncReport struct {
	SubjectsCreated int
	Registered      int
	AlreadyPresent  int

	// Invalid lists schema files rejected locally or by the repository.
	Invalid []string
}

var syncFormats = map[string]Format{
	".avsc":  FormatAvro,
	".proto": FormatProtobuf,
	".json":  FormatJSON,
}

// SyncDir mirrors a directory tree of <dir>/<subject>/<schema file> into the
// repository: missing subjects are created with the configured validator
// class, and each schema file the repository does not already hold is
// registered. A second run over the same tree registers nothing new.
// Rejected schemas are recorded and skipped; transport failures abort the
// run.
func (c *Client) SyncDir(ctx context.Context, dir string, opts SyncOptions) (*SyncReport, error) {
	subjectDirs, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading sync dir: %w", err)
	}

	report := &SyncReport{}
	for _, sd := range subjectDirs {
		if !sd.IsDir() {
			continue
		}
		name := sd.Name()
		if err := validateName(name); err != nil {
			return nil, fmt.Errorf("directory %q is not a valid subject name: %w", name, err)
		}

		subject, err := c.Lookup(ctx, name)
		if err != nil {
			return nil, err
		}
		if subject == nil {
			if subject, err = c.Register(ctx, name, opts.ValidatorClass); err != nil {
				return nil, err
			}
			report.SubjectsCreated++
		}

		if err := c.syncSubjectDir(ctx, filepath.Join(dir, name), subject, opts, report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (c *Client) syncSubjectDir(ctx context.Context, dir string, subject *Subject, opts SyncOptions, report *SyncReport) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading subject dir: %w", err)
	}
	for _, f := range files {
		format, known := syncFormats[filepath.Ext(f.Name())]
		if f.IsDir() || !known {
			continue
		}
		path := filepath.Join(dir, f.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading schema file %q: %w", path, err)
		}
		schema := string(content)

		if opts.Prevalidator != nil && opts.Prevalidator.Supports(format) {
			if err := opts.Prevalidator.Check(ctx, format, schema); err != nil {
				c.logger.WarnContext(ctx, "Schema file failed local validation", "file", path, "format", format, "error", err)
				report.Invalid = append(report.Invalid, path)
				continue
			}
		}

		existing, err := subject.LookupBySchema(ctx, schema)
		if err != nil {
			return err
		}
		if existing != nil {
			report.AlreadyPresent++
			continue
		}

		entry, err := subject.Register(ctx, schema)
		var validationErr *ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.logger.WarnContext(ctx, "Repository rejected schema", "file", path, "subject", subject.Name())
			report.Invalid = append(report.Invalid, path)
		case err != nil:
			return err
		case entry == nil:
			// Non-forbidden rejection; the cause was already logged by Register.
			report.Invalid = append(report.Invalid, path)
		default:
			report.Registered++
		}
	}
	return nil
}
