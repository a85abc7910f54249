// Package analytics requests server-computed clinic statistics for a date
// range. The computation happens on the clinic API; this side only owns
// range defaults, the missing-bound guard, and staleness handling for
// superseded requests.
package analytics

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/reliefpc/clinic-portal/internal/patients"
	"github.com/reliefpc/clinic-portal/pkg/logging"
)

// Range is an inclusive [Start, End] date range, both YYYY-MM-DD.
type Range struct {
	Start string
	End   string
}

// Complete reports whether both bounds are present. An incomplete range is
// not an error; it simply suppresses the fetch.
func (r Range) Complete() bool {
	return r.Start != "" && r.End != ""
}

// DefaultRange is the last 30 days ending today.
func DefaultRange(now time.Time) Range {
	return Range{
		Start: patients.DayString(now.AddDate(0, 0, -30)),
		End:   patients.DayString(now),
	}
}

// Source is the single upstream operation the aggregator consumes.
type Source interface {
	Analytics(ctx context.Context, startDate, endDate string) (*patients.AnalyticsSnapshot, error)
}

// Fetcher issues snapshot requests tagged with a monotonic generation
// number. A response that comes back after a newer request was issued is
// reported stale and must be discarded by the caller, so out-of-order
// completions can never overwrite a fresher view.
type Fetcher struct {
	src    Source
	logger *logging.Logger
	gen    atomic.Uint64
}

func NewFetcher(src Source, logger *logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Fetcher{src: src, logger: logger.Component("analytics")}
}

// Result is the outcome of one fetch attempt.
type Result struct {
	Snapshot *patients.AnalyticsSnapshot
	// Issued is false when the range was incomplete and no request was
	// made.
	Issued bool
	// Stale is true when a newer fetch was issued while this one was in
	// flight; the snapshot must not be displayed.
	Stale bool
}

// Fetch requests the snapshot for a range. An incomplete range is a
// no-op, not an error.
func (f *Fetcher) Fetch(ctx context.Context, r Range) (Result, error) {
	if !r.Complete() {
		return Result{}, nil
	}

	gen := f.gen.Add(1)
	snap, err := f.src.Analytics(ctx, r.Start, r.End)
	if err != nil {
		return Result{Issued: true}, err
	}

	if f.gen.Load() != gen {
		f.logger.Debug("discarding superseded analytics response",
			"generation", gen, "start", r.Start, "end", r.End)
		return Result{Issued: true, Stale: true}, nil
	}
	return Result{Snapshot: snap, Issued: true}, nil
}
