package principal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agendo/pkg/platform/sentinel"
)

// PostgresStore backs principal lookup with the users table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const Schema = `
CREATE TABLE IF NOT EXISTS principals (
	id            UUID PRIMARY KEY,
	identifier    TEXT NOT NULL UNIQUE,
	role          TEXT NOT NULL,
	active        BOOLEAN NOT NULL DEFAULT TRUE,
	password_hash TEXT NOT NULL
);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate principals: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByIdentifier(ctx context.Context, identifier string) (*Principal, error) {
	const query = `
		SELECT id, identifier, role, active, password_hash
		FROM principals WHERE identifier = $1
	`
	var p Principal
	err := s.db.QueryRowContext(ctx, query, identifier).
		Scan(&p.ID, &p.Identifier, &p.Role, &p.Active, &p.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("principal %q: %w", identifier, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find principal: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) Create(ctx context.Context, p *Principal) error {
	const query = `
		INSERT INTO principals (id, identifier, role, active, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (identifier) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query, p.ID, p.Identifier, p.Role, p.Active, p.PasswordHash)
	if err != nil {
		return fmt.Errorf("insert principal: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("principal %q: %w", p.Identifier, sentinel.ErrConflict)
	}
	return nil
}
