package ports

import (
	"context"
	"time"

	"FilingWatch/internal/domain"
)

// PageSource executes one watch-rule search and walks its pagination,
// returning the raw HTML of every result page visited. A failed rule yields
// an empty slice together with the error; callers continue with remaining
// rules.
type PageSource interface {
	Search(ctx context.Context, rule domain.WatchRule) ([]string, error)
}

// Extractor converts one raw result page into the valid filing records it
// contains, in table order. A page without a recognizable table yields an
// empty list, not an error.
type Extractor interface {
	ExtractPage(html string) ([]domain.FilingRecord, error)
}

// LedgerStore persists the set of previously observed filing keys between
// runs. Load returns an empty slice when no prior state exists. Save must
// replace the old state atomically: a crash leaves either version intact,
// never a partial write.
type LedgerStore interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, keys []string) error
}

// Notifier delivers the rendered digest. A notifier failure must never
// prevent ledger persistence.
type Notifier interface {
	Send(ctx context.Context, subject, bodyHTML string) error
}

// Scheduler controls when recurring pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
