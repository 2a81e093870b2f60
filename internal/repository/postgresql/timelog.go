package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/timewise-hq/timeclock-backend-go/internal/domain/timelog"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/database"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/retry"
)

type timelogRepository struct {
	db *database.DB
}

func NewTimelogRepository(db *database.DB) timelog.LogRepository {
	return &timelogRepository{db: db}
}

// ReadAll implements timelog.LogRepository. Rows come back in append
// order; the id tiebreaker keeps same-second punches stable.
func (r *timelogRepository) ReadAll(ctx context.Context) ([]timelog.Event, error) {
	return retry.Value(func() ([]timelog.Event, error) {
		query := `
			SELECT employee, action, logged_at
			FROM time_logs
			ORDER BY logged_at, id
		`

		rows, err := r.db.Query(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to query time log: %w", err)
		}
		defer rows.Close()

		var events []timelog.Event
		for rows.Next() {
			var (
				rawAction string
				event     timelog.Event
			)
			if err := rows.Scan(&event.Employee, &rawAction, &event.Timestamp); err != nil {
				return nil, fmt.Errorf("failed to scan time log row: %w", err)
			}
			event.Action, err = timelog.ParseAction(rawAction)
			if err != nil {
				return nil, retry.Permanent(fmt.Errorf("%w: unknown action %q", timelog.ErrMalformedLogRow, rawAction))
			}
			events = append(events, event)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read time log rows: %w", err)
		}
		return events, nil
	})
}

// Append implements timelog.LogRepository. The timestamp is assigned by
// the database, truncated to whole seconds to match the log format.
func (r *timelogRepository) Append(ctx context.Context, employee string, action timelog.ActionKind) (time.Time, error) {
	return retry.Value(func() (time.Time, error) {
		query := `
			INSERT INTO time_logs (employee, action, logged_at)
			VALUES ($1, $2, date_trunc('second', now()))
			RETURNING logged_at
		`

		var loggedAt time.Time
		if err := r.db.QueryRow(ctx, query, employee, string(action)).Scan(&loggedAt); err != nil {
			return time.Time{}, fmt.Errorf("failed to append time log row: %w", err)
		}
		return loggedAt, nil
	})
}

// ClearAll implements timelog.LogRepository.
func (r *timelogRepository) ClearAll(ctx context.Context) error {
	return retry.Do(func() error {
		if _, err := r.db.Exec(ctx, `TRUNCATE time_logs RESTART IDENTITY`); err != nil {
			return fmt.Errorf("failed to clear time log: %w", err)
		}
		return nil
	})
}
