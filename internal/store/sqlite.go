package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/peekknuf/appprofile/internal/dataset"
	"github.com/peekknuf/appprofile/internal/stats"
)

// Store writes cleaned exports and their summaries to a SQLite file
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTable replaces table name with the rows of t. Every column is TEXT,
// values are stored exactly as read.
func (s *Store) SaveTable(name string, t dataset.Table) error {
	columns := columnNames(t.Header)

	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = quoteIdent(c) + " TEXT"
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",")

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DROP TABLE IF EXISTS ` + quoteIdent(name)); err != nil {
		return fmt.Errorf("drop %s: %w", name, err)
	}
	if _, err := tx.Exec(fmt.Sprintf(`CREATE TABLE %s (%s)`, quoteIdent(name), strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %s VALUES (%s)`, quoteIdent(name), placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert %s: %w", name, err)
	}
	defer stmt.Close()

	args := make([]any, len(columns))
	for _, row := range t.Rows {
		for i := range args {
			if i < len(row) {
				args[i] = row[i]
			} else {
				args[i] = nil
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// SaveFrequency replaces table name with (value, app_count, proportion) rows
func (s *Store) SaveFrequency(name string, ft stats.FrequencyTable) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DROP TABLE IF EXISTS ` + quoteIdent(name)); err != nil {
		return fmt.Errorf("drop %s: %w", name, err)
	}
	create := fmt.Sprintf(`CREATE TABLE %s (value TEXT PRIMARY KEY, app_count INTEGER NOT NULL, proportion REAL NOT NULL)`, quoteIdent(name))
	if _, err := tx.Exec(create); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	for _, share := range ft.Sorted() {
		if _, err := tx.Exec(fmt.Sprintf(`INSERT INTO %s VALUES (?, ?, ?)`, quoteIdent(name)),
			share.Value, share.Count, share.Proportion); err != nil {
			return fmt.Errorf("insert %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// CountRows returns the number of rows in table name
func (s *Store) CountRows(name string) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM ` + quoteIdent(name)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", name, err)
	}
	return n, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// columnNames makes header cells usable as column names: blanks get a
// positional name and repeats get a numeric suffix.
func columnNames(header dataset.Row) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i)
		}
		key := strings.ToLower(name)
		if n := seen[key]; n > 0 {
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		seen[key]++
		out[i] = name
	}
	return out
}
