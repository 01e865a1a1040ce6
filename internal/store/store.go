// Package store persists feature sets in DuckDB.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/seqfeat/internal/feature"
)

// Store manages a DuckDB connection holding features and their attributes.
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
			return nil, fmt.Errorf("create store directory: %w", err)
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

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
// row_id keeps insertion order, which is the order sets are loaded in.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS features (
		row_id BIGINT PRIMARY KEY,
		id VARCHAR,
		seq_id VARCHAR,
		source VARCHAR,
		feature_type VARCHAR,
		start_ BIGINT,
		end_ BIGINT,
		strand VARCHAR,
		score DOUBLE
	)`); err != nil {
		return err
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS feature_attributes (
		row_id BIGINT,
		name VARCHAR,
		value VARCHAR,
		PRIMARY KEY (row_id, name)
	)`)
	return err
}

// WriteSet appends every feature of set after the features already stored,
// using the Appender API. On failure the rows of this call are removed
// again, so the store keeps its previous content.
func (s *Store) WriteSet(set *feature.Set) error {
	if set.IsEmpty() {
		return nil
	}

	var next int64
	if err := s.db.QueryRow("SELECT COALESCE(MAX(row_id) + 1, 0) FROM features").Scan(&next); err != nil {
		return fmt.Errorf("query next row id: %w", err)
	}

	if err := s.appendSet(set, next); err != nil {
		if derr := s.deleteFrom(next); derr != nil {
			return fmt.Errorf("%w (cleanup: %v)", err, derr)
		}
		return err
	}
	return nil
}

// appendSet appends set with row ids starting at next. The appenders are
// closed before it returns.
func (s *Store) appendSet(set *feature.Set, next int64) (err error) {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	features, err := newAppender(conn, "features")
	if err != nil {
		return err
	}
	defer closeAppender(features, "features", &err)
	attributes, err := newAppender(conn, "feature_attributes")
	if err != nil {
		return err
	}
	defer closeAppender(attributes, "feature_attributes", &err)

	for i, f := range set.All() {
		rowID := next + int64(i)
		if err := features.AppendRow(
			rowID, f.ID(), f.SequenceID(), f.Source(), f.Type(),
			f.Start(), f.End(), f.Strand().String(), f.Score(),
		); err != nil {
			return fmt.Errorf("append feature: %w", err)
		}
		attrs := f.Attributes()
		for _, name := range attrs.Names() {
			if err := attributes.AppendRow(rowID, name, attrs[name]); err != nil {
				return fmt.Errorf("append attribute: %w", err)
			}
		}
	}

	if err := features.Flush(); err != nil {
		return fmt.Errorf("flush features: %w", err)
	}
	if err := attributes.Flush(); err != nil {
		return fmt.Errorf("flush attributes: %w", err)
	}
	return nil
}

func closeAppender(a *goduckdb.Appender, table string, err *error) {
	if cerr := a.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("close %s appender: %w", table, cerr)
	}
}

// deleteFrom removes the rows with a row id of at least rowID.
func (s *Store) deleteFrom(rowID int64) error {
	if _, err := s.db.Exec("DELETE FROM feature_attributes WHERE row_id >= ?", rowID); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM features WHERE row_id >= ?", rowID)
	return err
}

func newAppender(conn *sql.Conn, table string) (*goduckdb.Appender, error) {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return nil, fmt.Errorf("create %s appender: %w", table, err)
	}
	return appender, nil
}

// Count returns the number of stored features.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM features").Scan(&n); err != nil {
		return 0, fmt.Errorf("count features: %w", err)
	}
	return n, nil
}

// Clear removes all stored features.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM feature_attributes"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM features")
	return err
}

// LoadSet reads every stored feature in insertion order.
func (s *Store) LoadSet() (*feature.Set, error) {
	return s.load("TRUE")
}

// LoadSequence reads the features on seqID.
func (s *Store) LoadSequence(seqID string) (*feature.Set, error) {
	return s.load("f.seq_id = ?", seqID)
}

// LoadRange reads the features on seqID lying within r (complete) or
// overlapping it, with the same semantics as Set.SubsetForRange.
func (s *Store) LoadRange(seqID string, r feature.Range, complete bool) (*feature.Set, error) {
	if complete {
		return s.load("f.seq_id = ? AND f.start_ >= ? AND f.end_ <= ?", seqID, r.Begin, r.End)
	}
	return s.load("f.seq_id = ? AND GREATEST(f.start_, ?) < LEAST(f.end_, ?)", seqID, r.Begin, r.End)
}

// load reads the features matching where, with their attributes.
func (s *Store) load(where string, args ...any) (*feature.Set, error) {
	attrs, err := s.loadAttributes(where, args...)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT f.row_id, f.id, f.seq_id, f.source, f.feature_type,
		f.start_, f.end_, f.strand, f.score
		FROM features f
		WHERE `+where+`
		ORDER BY f.row_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	set := feature.NewSet()
	for rows.Next() {
		var (
			rowID                  int64
			id, seqID, source, typ string
			start, end             int64
			strand                 string
			score                  float64
		)
		if err := rows.Scan(&rowID, &id, &seqID, &source, &typ, &start, &end, &strand, &score); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		f := feature.NewRecord(id, seqID, source, typ, start, end, feature.ParseStrand(strand))
		f.SetScore(score)
		for name, value := range attrs[rowID] {
			f.SetAttribute(name, value)
		}
		set.Add(f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate features: %w", err)
	}
	return set, nil
}

func (s *Store) loadAttributes(where string, args ...any) (map[int64]feature.Attributes, error) {
	rows, err := s.db.Query(`SELECT a.row_id, a.name, a.value
		FROM feature_attributes a
		JOIN features f ON f.row_id = a.row_id
		WHERE `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query attributes: %w", err)
	}
	defer rows.Close()

	attrs := make(map[int64]feature.Attributes)
	for rows.Next() {
		var (
			rowID       int64
			name, value string
		)
		if err := rows.Scan(&rowID, &name, &value); err != nil {
			return nil, fmt.Errorf("scan attribute: %w", err)
		}
		a := attrs[rowID]
		a.Set(name, value)
		attrs[rowID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attributes: %w", err)
	}
	return attrs, nil
}

// IsStorePath reports whether path names a DuckDB database file.
func IsStorePath(path string) bool {
	return strings.HasSuffix(path, ".duckdb") || strings.HasSuffix(path, ".db")
}
