package timelog

import (
	"context"
	"time"
)

// LogRepository is the append-only event log store. Implementations
// retry transient backend failures internally before surfacing an error,
// and invalidate any read cache on every mutation.
type LogRepository interface {
	// ReadAll returns every event, ordered by timestamp with ties in
	// insertion order.
	ReadAll(ctx context.Context) ([]Event, error)

	// Append records a punch and returns the store-assigned timestamp.
	Append(ctx context.Context, employee string, action ActionKind) (time.Time, error)

	// ClearAll wipes the whole log.
	ClearAll(ctx context.Context) error
}
