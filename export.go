package schemarepo

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultExportWorkers bounds concurrent subject fetches during an export.
const DefaultExportWorkers = 4

// Dump is a snapshot of every subject and its full version history. It is
// not transactionally consistent: the repository is read subject by subject
// and writes may land in between.
type Dump struct {
	ExportedAt time.Time     `json:"exported_at" yaml:"exported_at"`
	Subjects   []SubjectDump `json:"subjects" yaml:"subjects"`
}

// SubjectDump holds one subject's entries in server order.
type SubjectDump struct {
	Subject string        `json:"subject" yaml:"subject"`
	Entries []SchemaEntry `json:"entries" yaml:"entries"`
}

// Export walks every subject and fetches its full version history, up to
// workers subjects at a time (DefaultExportWorkers when workers <= 0). The
// soft-failure contract applies throughout: a subject that cannot be read
// comes back with no entries, and an unreachable repository produces an
// empty dump. Subjects are sorted by name so repeated exports diff cleanly.
func (c *Client) Export(ctx context.Context, workers int) *Dump {
	if workers <= 0 {
		workers = DefaultExportWorkers
	}
	subjects := c.Subjects(ctx)

	dumps := make([]SubjectDump, len(subjects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, subject := range subjects {
		g.Go(func() error {
			dumps[i] = SubjectDump{
				Subject: subject.Name(),
				Entries: subject.AllEntries(gctx),
			}
			return nil
		})
	}
	_ = g.Wait() // fetch goroutines never return an error

	sort.Slice(dumps, func(a, b int) bool { return dumps[a].Subject < dumps[b].Subject })

	return &Dump{
		ExportedAt: time.Now().UTC(),
		Subjects:   dumps,
	}
}
