package audit

import (
	"context"
	"time"
)

// Store is the event-store collaborator. Writes are inserts only; reads are
// the aggregate queries the monitoring surface needs. Implementations live
// under store/.
type Store interface {
	Append(ctx context.Context, event Event) error

	CountAll(ctx context.Context) (int64, error)
	CountByTypes(ctx context.Context, types []EventType, since time.Time) (int64, error)
	CountFailuresByIP(ctx context.Context, ip string, since time.Time) (int64, error)

	// ListRecentFailures returns up to limit failed events, newest first.
	ListRecentFailures(ctx context.Context, limit int) ([]Event, error)
	// ListIPsWithFailures returns the IPs with at least minCount failed
	// events, with no time bound.
	ListIPsWithFailures(ctx context.Context, minCount int64) ([]string, error)
	// ListRecent returns up to limit events of any type, newest first.
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
