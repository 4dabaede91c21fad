package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound = errors.New("NOT_FOUND")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("DUPLICATE")
	// ErrCodeCollision means the generated applicant code already exists.
	ErrCodeCollision = errors.New("APPLICANT_CODE_COLLISION")
	ErrInUse         = errors.New("IN_USE")
)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store is the Postgres data access for every table the workers touch.
type Store struct {
	q Querier
}

func New(db *sql.DB) *Store {
	return &Store{q: db}
}

// WithTx returns a Store whose queries run inside tx.
func (s *Store) WithTx(tx *sql.Tx) *Store {
	return &Store{q: tx}
}

// Audit appends to audit_log. Callers treat failures as best-effort.
func (s *Store) Audit(ctx context.Context, eventType, resourceType string, resourceID int64, details map[string]interface{}) error {
	body, err := json.Marshal(details)
	if err != nil {
		body = []byte("{}")
	}
	_, err = s.q.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		eventType, resourceType, fmt.Sprint(resourceID), body, time.Now().UTC(),
	)
	return err
}

func notFound(err error, what string, id interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %v", ErrNotFound, what, id)
	}
	return err
}
