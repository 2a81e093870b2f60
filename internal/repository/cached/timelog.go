// Package cached wraps the persistent repositories with short-lived
// read caches. Every punch screen render re-reads the full log, so the
// cache absorbs the read bursts while writes invalidate immediately.
package cached

import (
	"context"
	"time"

	"github.com/timewise-hq/timeclock-backend-go/internal/domain/timelog"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/cache"
)

const logKey = "time_logs"

type timelogRepository struct {
	inner timelog.LogRepository
	store *cache.Store[string, []timelog.Event]
}

func NewTimelogRepository(inner timelog.LogRepository, ttl time.Duration) timelog.LogRepository {
	return &timelogRepository{
		inner: inner,
		store: cache.New[string, []timelog.Event](ttl),
	}
}

// ReadAll implements timelog.LogRepository.
func (r *timelogRepository) ReadAll(ctx context.Context) ([]timelog.Event, error) {
	if events, ok := r.store.Get(logKey); ok {
		out := make([]timelog.Event, len(events))
		copy(out, events)
		return out, nil
	}

	events, err := r.inner.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	r.store.Set(logKey, events)

	out := make([]timelog.Event, len(events))
	copy(out, events)
	return out, nil
}

// Append implements timelog.LogRepository.
func (r *timelogRepository) Append(ctx context.Context, employee string, action timelog.ActionKind) (time.Time, error) {
	loggedAt, err := r.inner.Append(ctx, employee, action)
	if err != nil {
		return time.Time{}, err
	}
	r.store.Invalidate(logKey)
	return loggedAt, nil
}

// ClearAll implements timelog.LogRepository.
func (r *timelogRepository) ClearAll(ctx context.Context) error {
	if err := r.inner.ClearAll(ctx); err != nil {
		return err
	}
	r.store.Invalidate(logKey)
	return nil
}
