package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/saranya/tutorquest/internal/remote"
)

// RequestEventRepo records one row per remote service call. It implements
// remote.RequestLog.
type RequestEventRepo struct {
	db *sql.DB
}

// RequestEvents returns the request event repository.
func (s *Store) RequestEvents() *RequestEventRepo {
	return &RequestEventRepo{db: s.db}
}

// AppendRequestEvent records one remote call outcome.
func (r *RequestEventRepo) AppendRequestEvent(ctx context.Context, data remote.RequestEventData) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO request_events (service, operation, latency_ms, success, error_message, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		data.Service, data.Operation, data.LatencyMs, data.Success,
		data.ErrorMessage, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append request event: %w", err)
	}
	return nil
}

// ServiceStats aggregates the recorded calls for one remote service.
type ServiceStats struct {
	Service      string
	Calls        int
	Failures     int
	AvgLatencyMs float64
}

// Stats returns per-service aggregates over the request log, ordered by
// service name.
func (r *RequestEventRepo) Stats(ctx context.Context) ([]ServiceStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT service,
		       COUNT(*),
		       COUNT(*) - SUM(success),
		       AVG(latency_ms)
		FROM request_events
		GROUP BY service
		ORDER BY service`)
	if err != nil {
		return nil, fmt.Errorf("query request stats: %w", err)
	}
	defer rows.Close()

	var stats []ServiceStats
	for rows.Next() {
		var s ServiceStats
		if err := rows.Scan(&s.Service, &s.Calls, &s.Failures, &s.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan request stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
