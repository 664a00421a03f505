// Package calibstore persists the labeled calibration set (scored pairs
// with a human-confirmed match/non-match label) that pkg/decision's NP and
// conformal calibration routines consume. It is the rebuilt, domain-scoped
// home for the teacher's deleted multi-tenant pkg/store: same driver
// stack (modernc.org/sqlite for the real backend, DATA-DOG/go-sqlmock for
// unit tests against the *sql.DB contract), generalized to one table
// instead of a tenant-partitioned schema.
package calibstore

import (
	"context"
	"database/sql"
	"fmt"
)

// LabeledPair is one row of the calibration_labels table.
type LabeledPair struct {
	PairID  string
	PMatch  float64
	IsMatch bool
}

// Store wraps a *sql.DB holding the calibration_labels table.
type Store struct {
	db *sql.DB
}

// New wraps an already-open *sql.DB (modernc.org/sqlite in production,
// go-sqlmock in tests).
func New(db *sql.DB) *Store { return &Store{db: db} }

// Open opens a sqlite database at path using the modernc.org/sqlite
// driver and ensures the calibration_labels table exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("calibstore: open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS calibration_labels (
		pair_id  TEXT PRIMARY KEY,
		p_match  REAL NOT NULL,
		is_match INTEGER NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("calibstore: create schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// Upsert records or updates one labeled pair.
func (s *Store) Upsert(ctx context.Context, p LabeledPair) error {
	const q = `INSERT INTO calibration_labels (pair_id, p_match, is_match)
		VALUES (?, ?, ?)
		ON CONFLICT(pair_id) DO UPDATE SET p_match = excluded.p_match, is_match = excluded.is_match`
	isMatch := 0
	if p.IsMatch {
		isMatch = 1
	}
	if _, err := s.db.ExecContext(ctx, q, p.PairID, p.PMatch, isMatch); err != nil {
		return fmt.Errorf("calibstore: upsert %s: %w", p.PairID, err)
	}
	return nil
}

// LoadAll returns every labeled pair, ordered by pair_id for determinism.
func (s *Store) LoadAll(ctx context.Context) ([]LabeledPair, error) {
	const q = `SELECT pair_id, p_match, is_match FROM calibration_labels ORDER BY pair_id ASC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("calibstore: query: %w", err)
	}
	defer rows.Close()

	var out []LabeledPair
	for rows.Next() {
		var p LabeledPair
		var isMatch int
		if err := rows.Scan(&p.PairID, &p.PMatch, &isMatch); err != nil {
			return nil, fmt.Errorf("calibstore: scan: %w", err)
		}
		p.IsMatch = isMatch != 0
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("calibstore: rows: %w", err)
	}
	return out, nil
}
