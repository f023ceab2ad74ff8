// Package duckdb loads label index and genotype sample outputs into DuckDB
// so they can be queried with SQL.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection over corpus outputs.
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

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS label_drugs (
			name VARCHAR PRIMARY KEY,
			ord BIGINT,
			has_primary_source BOOLEAN,
			has_secondary_source BOOLEAN,
			has_pgx BOOLEAN,
			sections VARCHAR,
			genes VARCHAR,
			phenotypes VARCHAR,
			brand_names VARCHAR,
			manufacturer VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS label_genes (
			gene VARCHAR,
			drug VARCHAR,
			ord BIGINT,
			PRIMARY KEY (gene, drug)
		)`,
		`CREATE TABLE IF NOT EXISTS sample_calls (
			sample_id VARCHAR,
			source VARCHAR,
			variant_id VARCHAR,
			gene VARCHAR,
			genotype VARCHAR,
			PRIMARY KEY (sample_id, variant_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
