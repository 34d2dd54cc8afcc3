package memory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// Store defines memory persistence operations.
type Store interface {
	Insert(ctx context.Context, rec *Record) error
	Search(ctx context.Context, accountID, excludeEventID string, embedding []float32, topK int) ([]Hit, error)
}

// PostgresStore implements Store using pgx + pgvector.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new pgvector-backed memory store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert appends one record. The store assigns the id.
func (s *PostgresStore) Insert(ctx context.Context, rec *Record) error {
	vec := pgvector.NewVector(rec.Embedding)
	err := s.pool.QueryRow(ctx,
		`INSERT INTO account_memory (account_id, event_id, content, embedding)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		rec.AccountID, rec.EventID, rec.Content, vec,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting account memory: %w", err)
	}
	return nil
}

// Search returns up to topK hits for the account, nearest first, skipping
// the record whose event id equals excludeEventID when one is given. Ties
// in distance break by insertion order.
func (s *PostgresStore) Search(ctx context.Context, accountID, excludeEventID string, embedding []float32, topK int) ([]Hit, error) {
	var exclude any
	if excludeEventID != "" {
		exclude = excludeEventID
	}

	vec := pgvector.NewVector(embedding)
	rows, err := s.pool.Query(ctx,
		`SELECT id, account_id, event_id, content, created_at,
		        embedding <=> $1 AS distance
		 FROM account_memory
		 WHERE account_id = $2
		   AND ($3::text IS NULL OR event_id IS DISTINCT FROM $3::text)
		 ORDER BY embedding <=> $1, id
		 LIMIT $4`,
		vec, accountID, exclude, topK,
	)
	if err != nil {
		return nil, fmt.Errorf("searching account memory: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.ID, &h.AccountID, &h.EventID, &h.Content, &h.CreatedAt, &h.Distance); err != nil {
			return nil, fmt.Errorf("scanning memory hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
