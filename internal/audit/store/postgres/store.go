// Package postgres persists audit events in the audit_events table. Rows are
// insert-only; no statement in this package updates or deletes.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"agendo/internal/audit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Schema creates the audit_events table. Called by the server at startup and
// by integration tests against a fresh database.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id         UUID PRIMARY KEY,
	event_type TEXT NOT NULL,
	username   TEXT NOT NULL,
	ip_address TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT '',
	success    BOOLEAN NOT NULL,
	details    JSONB,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_events_created_at ON audit_events (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_audit_events_ip_failures ON audit_events (ip_address, created_at) WHERE NOT success;
`

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate audit_events: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	var details []byte
	if len(event.Details) > 0 {
		var err error
		details, err = json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
	}

	const query = `
		INSERT INTO audit_events (id, event_type, username, ip_address, user_agent, success, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		string(event.EventType),
		event.Username,
		event.IPAddress,
		event.UserAgent,
		event.Success,
		details,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *Store) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_events`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return count, nil
}

func (s *Store) CountByTypes(ctx context.Context, types []audit.EventType, since time.Time) (int64, error) {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}

	const query = `
		SELECT COUNT(*) FROM audit_events
		WHERE event_type = ANY($1) AND created_at >= $2
	`
	var count int64
	err := s.db.QueryRowContext(ctx, query, pq.Array(names), since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count events by type: %w", err)
	}
	return count, nil
}

func (s *Store) CountFailuresByIP(ctx context.Context, ip string, since time.Time) (int64, error) {
	const query = `
		SELECT COUNT(*) FROM audit_events
		WHERE NOT success AND ip_address = $1 AND created_at >= $2
	`
	var count int64
	err := s.db.QueryRowContext(ctx, query, ip, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count failures by ip: %w", err)
	}
	return count, nil
}

func (s *Store) ListRecentFailures(ctx context.Context, limit int) ([]audit.Event, error) {
	const query = `
		SELECT id, event_type, username, ip_address, user_agent, success, details, created_at
		FROM audit_events
		WHERE NOT success
		ORDER BY created_at DESC
		LIMIT $1
	`
	return s.list(ctx, query, limit)
}

func (s *Store) ListIPsWithFailures(ctx context.Context, minCount int64) ([]string, error) {
	const query = `
		SELECT ip_address FROM audit_events
		WHERE NOT success AND ip_address <> ''
		GROUP BY ip_address
		HAVING COUNT(*) >= $1
		ORDER BY ip_address
	`
	rows, err := s.db.QueryContext(ctx, query, minCount)
	if err != nil {
		return nil, fmt.Errorf("list ips with failures: %w", err)
	}
	defer rows.Close()

	var ips []string
	for rows.Next() {
		var ip string
		if err := rows.Scan(&ip); err != nil {
			return nil, fmt.Errorf("scan ip: %w", err)
		}
		ips = append(ips, ip)
	}
	return ips, rows.Err()
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	const query = `
		SELECT id, event_type, username, ip_address, user_agent, success, details, created_at
		FROM audit_events
		ORDER BY created_at DESC
		LIMIT $1
	`
	return s.list(ctx, query, limit)
}

func (s *Store) list(ctx context.Context, query string, limit int) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			event     audit.Event
			eventType string
			details   []byte
		)
		err := rows.Scan(&event.ID, &eventType, &event.Username, &event.IPAddress,
			&event.UserAgent, &event.Success, &details, &event.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.EventType = audit.EventType(eventType)
		if len(details) > 0 {
			if err := json.Unmarshal(details, &event.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
