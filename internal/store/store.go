// Package store provides DuckDB-backed gene, contig and cluster lookups for
// assembling region diagrams.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// ErrGeneNotFound is returned when a requested gene has no record.
var ErrGeneNotFound = errors.New("gene not found")

// Store manages a DuckDB connection holding genome annotation data.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS genes (
		gene_id VARCHAR PRIMARY KEY,
		organism VARCHAR,
		contig_id VARCHAR,
		start_pos BIGINT,
		stop_pos BIGINT,
		strand TINYINT,
		annotation VARCHAR
	)`); err != nil {
		return err
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS clusters (
		run_id VARCHAR,
		cluster_id INTEGER,
		gene_id VARCHAR,
		PRIMARY KEY (run_id, gene_id)
	)`)
	return err
}
