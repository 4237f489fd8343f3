// Package history provides optional PostgreSQL persistence for search and
// document events. The agent works fully without it; a nil store drops
// every record.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// SearchRecord is one logged job search.
type SearchRecord struct {
	ID          uuid.UUID
	Keywords    string
	Location    string
	ResultCount int
	CreatedAt   time.Time
}

// DocumentRecord is one logged generated document.
type DocumentRecord struct {
	ID        uuid.UUID
	DocType   string
	JobID     string
	Path      string
	CreatedAt time.Time
}

// Connect establishes a connection pool and verifies it.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the history tables when they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS job_searches (
			id UUID PRIMARY KEY,
			keywords TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			result_count INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS generated_documents (
			id UUID PRIMARY KEY,
			doc_type TEXT NOT NULL,
			job_id TEXT NOT NULL,
			path TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}
	return nil
}

// RecordSearch logs one job search. Safe on a nil store.
func (s *Store) RecordSearch(ctx context.Context, keywords, location string, resultCount int) error {
	if s == nil || s.pool == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO job_searches (id, keywords, location, result_count)
		 VALUES ($1, $2, $3, $4)`,
		uuid.New(), keywords, location, resultCount,
	)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// RecordDocument logs one generated document. Safe on a nil store.
func (s *Store) RecordDocument(ctx context.Context, docType, jobID, path string) error {
	if s == nil || s.pool == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO generated_documents (id, doc_type, job_id, path)
		 VALUES ($1, $2, $3, $4)`,
		uuid.New(), docType, jobID, path,
	)
	if err != nil {
		return fmt.Errorf("failed to record document: %w", err)
	}
	return nil
}

// RecentSearches returns the latest logged searches, newest first.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]SearchRecord, error) {
	if s == nil || s.pool == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, keywords, location, result_count, created_at
		 FROM job_searches ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}
	defer rows.Close()

	var records []SearchRecord
	for rows.Next() {
		var r SearchRecord
		if err := rows.Scan(&r.ID, &r.Keywords, &r.Location, &r.ResultCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// DocumentsForJob returns the logged documents for one job id.
func (s *Store) DocumentsForJob(ctx context.Context, jobID string) ([]DocumentRecord, error) {
	if s == nil || s.pool == nil {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, doc_type, job_id, path, created_at
		 FROM generated_documents WHERE job_id = $1 ORDER BY created_at DESC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var records []DocumentRecord
	for rows.Next() {
		var r DocumentRecord
		if err := rows.Scan(&r.ID, &r.DocType, &r.JobID, &r.Path, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
