package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/joacominatel/phonebook/internal/database"
	_ "modernc.org/sqlite"
)

// Store implements database.Store on a SQLite file. The routines installed on
// PostgreSQL are expressed here as Go around plain statements.
type Store struct {
	db     *sql.DB
	dbName string
}

// New creates a new SQLite store.
func New() *Store {
	return &Store{}
}

var errNotConnected = errors.New("not connected")

// Connect opens the database file named by dsn.
func (s *Store) Connect(ctx context.Context, dsn string) error {
	if dsn == "" {
		return fmt.Errorf("connect: empty database path")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	// One session for the whole process.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping: %w", err)
	}
	// Match PostgreSQL LIKE semantics.
	if _, err := db.ExecContext(ctx, "PRAGMA case_sensitive_like = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("pragma: %w", err)
	}

	s.db = db
	s.dbName = filepath.Base(dsn)
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Ping checks if the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return errNotConnected
	}
	return s.db.PingContext(ctx)
}

// EnsureSchema creates the table and adds the surname column to older tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return errNotConnected
	}
	if _, err := s.db.ExecContext(ctx, queryCreateTable); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, queryTableColumns)
	if err != nil {
		return fmt.Errorf("table info: %w", err)
	}
	defer rows.Close()

	hasSurname := false
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan column: %w", err)
		}
		if name == "user_surname" {
			hasSurname = true
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("table info: %w", err)
	}
	rows.Close()

	if !hasSurname {
		if _, err := s.db.ExecContext(ctx, queryAddSurname); err != nil {
			return fmt.Errorf("migrate surname: %w", err)
		}
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insert(ctx context.Context, db execer, c *database.Contact) error {
	if err := db.QueryRowContext(ctx, queryInsert, c.Name, c.Surname, c.Phone).Scan(&c.ID); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

// Insert adds one contact and sets its ID.
func (s *Store) Insert(ctx context.Context, c *database.Contact) error {
	if s.db == nil {
		return errNotConnected
	}
	return insert(ctx, s.db, c)
}

// BulkInsert inserts the valid entries in one transaction and returns the rest.
func (s *Store) BulkInsert(ctx context.Context, contacts []database.Contact) ([]database.Contact, error) {
	if s.db == nil {
		return nil, errNotConnected
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var rejected []database.Contact
	for _, c := range contacts {
		if c.Name == "" || !database.ValidPhone(c.Phone) {
			rejected = append(rejected, c)
			continue
		}
		if err := insert(ctx, tx, &c); err != nil {
			return nil, fmt.Errorf("bulk %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return rejected, nil
}

// Copy inserts every contact in one transaction, all or nothing.
func (s *Store) Copy(ctx context.Context, contacts []database.Contact) (int64, error) {
	if s.db == nil {
		return 0, errNotConnected
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, queryInsert)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, c := range contacts {
		var id int64
		if err := stmt.QueryRowContext(ctx, c.Name, c.Surname, c.Phone).Scan(&id); err != nil {
			return 0, fmt.Errorf("copy row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return int64(len(contacts)), nil
}

// Count returns how many rows the match selects.
func (s *Store) Count(ctx context.Context, m database.Match) (int64, error) {
	if s.db == nil {
		return 0, errNotConnected
	}
	q, args := countQuery(m)
	var n int64
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// Update applies changes to the matched rows.
func (s *Store) Update(ctx context.Context, m database.Match, ch database.Changes) (int64, error) {
	if s.db == nil {
		return 0, errNotConnected
	}
	if m.Field == database.FieldAll {
		return 0, fmt.Errorf("update: refusing to update every row")
	}
	cols, vals := ch.Assignments()
	if len(cols) == 0 {
		return 0, nil
	}
	q, args := updateQuery(cols, vals, m)
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("update: %w", err)
	}
	return res.RowsAffected()
}

// Delete removes the matched rows.
func (s *Store) Delete(ctx context.Context, m database.Match) (int64, error) {
	if s.db == nil {
		return 0, errNotConnected
	}
	if m.Field == database.FieldAll {
		return 0, fmt.Errorf("delete: refusing to delete every row")
	}
	q, args := deleteQuery(m)
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("delete: %w", err)
	}
	return res.RowsAffected()
}

// Search returns contacts whose name, surname or phone is LIKE pattern.
func (s *Store) Search(ctx context.Context, pattern string) ([]database.Contact, error) {
	if s.db == nil {
		return nil, errNotConnected
	}
	rows, err := s.db.QueryContext(ctx, querySearch, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return collectContacts(rows)
}

// List returns every matching contact when q.Limit is 0, otherwise one page.
func (s *Store) List(ctx context.Context, q database.PageQuery) ([]database.Contact, error) {
	if s.db == nil {
		return nil, errNotConnected
	}
	query, args := listQuery(q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return collectContacts(rows)
}

// Upsert updates the phone of the contact with the same full name, or inserts it.
func (s *Store) Upsert(ctx context.Context, c *database.Contact) (bool, error) {
	if s.db == nil {
		return false, errNotConnected
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, queryUpdatePhoneByFullName, c.Phone, c.Name, c.Surname)
	if err != nil {
		return false, fmt.Errorf("upsert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("upsert: %w", err)
	}

	inserted := n == 0
	if inserted {
		if err := insert(ctx, tx, c); err != nil {
			return false, fmt.Errorf("upsert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// DatabaseName returns the database file name.
func (s *Store) DatabaseName() string {
	return s.dbName
}

func collectContacts(rows *sql.Rows) ([]database.Contact, error) {
	defer rows.Close()

	var contacts []database.Contact
	for rows.Next() {
		var c database.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Surname, &c.Phone); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return contacts, nil
}

var _ database.Store = (*Store)(nil)
