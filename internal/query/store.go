// Package query exposes the chart datasets through an in-memory DuckDB
// database so they can be explored with plain SQL.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Store wraps a DuckDB connection with one view per dataset CSV.
type Store struct {
	db    *sql.DB
	views []string
}

// Open creates an in-memory DuckDB database and registers every CSV file
// under dataDir as a view named after the file stem.
func Open(ctx context.Context, dataDir string) (*Store, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	s := &Store{db: db}
	if err := s.mountCSVs(ctx, dataDir); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing connection. Used by tests.
func NewWithDB(db *sql.DB, views ...string) *Store {
	return &Store{db: db, views: views}
}

func (s *Store) mountCSVs(ctx context.Context, dataDir string) error {
	matches, err := filepath.Glob(filepath.Join(dataDir, "*.csv"))
	if err != nil {
		return fmt.Errorf("failed to scan data directory: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no CSV datasets found in %s", dataDir)
	}
	sort.Strings(matches)

	for _, path := range matches {
		name := viewName(path)
		stmt := fmt.Sprintf(
			`CREATE OR REPLACE VIEW %s AS SELECT * FROM read_csv_auto('%s', header=true)`,
			name, strings.ReplaceAll(path, "'", "''"),
		)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to register view %s: %w", name, err)
		}
		s.views = append(s.views, name)
	}
	return nil
}

// viewName derives a SQL identifier from a CSV file path.
func viewName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "v_" + name
	}
	return name
}

// Views returns the registered view names in sorted order.
func (s *Store) Views() []string {
	out := make([]string, len(s.views))
	copy(out, s.views)
	return out
}

// Query executes a SQL statement and returns the rows. The caller owns
// the returned rows and must close them.
func (s *Store) Query(ctx context.Context, sqlStr string) (*sql.Rows, error) {
	rows, err := s.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return rows, nil
}

// Describe returns the column names and types of a registered view.
func (s *Store) Describe(ctx context.Context, view string) (*sql.Rows, error) {
	found := false
	for _, v := range s.views {
		if v == view {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("unknown dataset view %q", view)
	}
	return s.Query(ctx, fmt.Sprintf("DESCRIBE %s", view))
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
