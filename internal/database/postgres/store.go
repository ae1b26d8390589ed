package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joacominatel/phonebook/internal/database"
)

//go:embed routines.sql
var defaultRoutines string

// Store implements database.Store for PostgreSQL over a single pgx connection.
// Outside explicit transactions every statement commits on its own.
type Store struct {
	conn         *pgx.Conn
	dbName       string
	routinesPath string
}

// Option configures a Store.
type Option func(*Store)

// WithRoutinesScript replaces the embedded routines with the SQL script at path.
func WithRoutinesScript(path string) Option {
	return func(s *Store) {
		s.routinesPath = path
	}
}

// New creates a new PostgreSQL store.
func New(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var errNotConnected = errors.New("not connected")

// Connect opens the session.
func (s *Store) Connect(ctx context.Context, dsn string) error {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("parse dsn: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return fmt.Errorf("ping: %w", err)
	}

	s.conn = conn
	s.dbName = cfg.Database
	if s.dbName == "" {
		_ = conn.QueryRow(ctx, queryCurrentDatabase).Scan(&s.dbName)
	}
	return nil
}

// Close releases the session.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close(context.Background())
	s.conn = nil
	return err
}

// Ping checks if the session is alive.
func (s *Store) Ping(ctx context.Context) error {
	if s.conn == nil {
		return errNotConnected
	}
	return s.conn.Ping(ctx)
}

// EnsureSchema creates the table, adds the surname column to older tables
// and installs the routines script.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s.conn == nil {
		return errNotConnected
	}
	if _, err := s.conn.Exec(ctx, queryCreateTable); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if _, err := s.conn.Exec(ctx, queryAddSurname); err != nil {
		return fmt.Errorf("migrate surname: %w", err)
	}

	script := defaultRoutines
	if s.routinesPath != "" {
		b, err := os.ReadFile(s.routinesPath)
		if err != nil {
			return fmt.Errorf("read routines: %w", err)
		}
		script = string(b)
	}
	// No arguments: pgx sends the script over the simple protocol, which
	// accepts several statements at once.
	if _, err := s.conn.Exec(ctx, script); err != nil {
		return fmt.Errorf("install routines: %w", err)
	}
	return nil
}

// Insert adds one contact and sets its ID.
func (s *Store) Insert(ctx context.Context, c *database.Contact) error {
	if s.conn == nil {
		return errNotConnected
	}
	var id int32
	if err := s.conn.QueryRow(ctx, queryInsert, c.Name, c.Surname, c.Phone).Scan(&id); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	c.ID = int64(id)
	return nil
}

// BulkInsert calls bulk_insert_users, which validates and inserts in one statement.
func (s *Store) BulkInsert(ctx context.Context, contacts []database.Contact) ([]database.Contact, error) {
	if s.conn == nil {
		return nil, errNotConnected
	}
	names := make([]string, len(contacts))
	surnames := make([]string, len(contacts))
	phones := make([]string, len(contacts))
	for i, c := range contacts {
		names[i], surnames[i], phones[i] = c.Name, c.Surname, c.Phone
	}

	rows, err := s.conn.Query(ctx, queryBulkInsert, names, surnames, phones)
	if err != nil {
		return nil, fmt.Errorf("bulk insert: %w", err)
	}
	defer rows.Close()

	var rejected []database.Contact
	for rows.Next() {
		var c database.Contact
		if err := rows.Scan(&c.Name, &c.Surname, &c.Phone); err != nil {
			return nil, fmt.Errorf("scan rejected: %w", err)
		}
		rejected = append(rejected, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bulk insert: %w", err)
	}
	return rejected, nil
}

// Copy bulk-loads contacts with the COPY protocol.
func (s *Store) Copy(ctx context.Context, contacts []database.Contact) (int64, error) {
	if s.conn == nil {
		return 0, errNotConnected
	}
	n, err := s.conn.CopyFrom(ctx,
		pgx.Identifier{"phone_book"},
		copyColumns,
		pgx.CopyFromSlice(len(contacts), func(i int) ([]any, error) {
			c := contacts[i]
			return []any{c.Name, c.Surname, c.Phone}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy: %w", err)
	}
	return n, nil
}

// Count returns how many rows the match selects.
func (s *Store) Count(ctx context.Context, m database.Match) (int64, error) {
	if s.conn == nil {
		return 0, errNotConnected
	}
	q, args := countQuery(m)
	var n int64
	if err := s.conn.QueryRow(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// Update applies changes to the matched rows.
func (s *Store) Update(ctx context.Context, m database.Match, ch database.Changes) (int64, error) {
	if s.conn == nil {
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
	tag, err := s.conn.Exec(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("update: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes the matched rows. Exact name and phone matches go through
// delete_contact; other matches run an inline DELETE.
func (s *Store) Delete(ctx context.Context, m database.Match) (int64, error) {
	if s.conn == nil {
		return 0, errNotConnected
	}
	switch m.Field {
	case database.FieldName:
		return s.deleteContact(ctx, m.Text, nil)
	case database.FieldPhone:
		return s.deleteContact(ctx, nil, m.Text)
	case database.FieldAll:
		return 0, fmt.Errorf("delete: refusing to delete every row")
	default:
		q, args := deleteQuery(m)
		tag, err := s.conn.Exec(ctx, q, args...)
		if err != nil {
			return 0, fmt.Errorf("delete: %w", err)
		}
		return tag.RowsAffected(), nil
	}
}

func (s *Store) deleteContact(ctx context.Context, name, phone any) (int64, error) {
	var n int32
	if err := s.conn.QueryRow(ctx, queryDeleteContact, name, phone).Scan(&n); err != nil {
		return 0, fmt.Errorf("delete: %w", err)
	}
	return int64(n), nil
}

// Search calls find_contacts_by_pattern.
func (s *Store) Search(ctx context.Context, pattern string) ([]database.Contact, error) {
	if s.conn == nil {
		return nil, errNotConnected
	}
	rows, err := s.conn.Query(ctx, querySearch, pattern)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return collectContacts(rows)
}

// List returns every matching contact when q.Limit is 0, otherwise one page
// from get_contacts_paginated.
func (s *Store) List(ctx context.Context, q database.PageQuery) ([]database.Contact, error) {
	if s.conn == nil {
		return nil, errNotConnected
	}
	var (
		rows pgx.Rows
		err  error
	)
	if q.Limit <= 0 {
		sql, args := listQuery(q)
		rows, err = s.conn.Query(ctx, sql, args...)
	} else {
		args, argErr := pageArgs(q)
		if argErr != nil {
			return nil, fmt.Errorf("list: %w", argErr)
		}
		rows, err = s.conn.Query(ctx, queryPage, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return collectContacts(rows)
}

// Upsert calls upsert_user.
func (s *Store) Upsert(ctx context.Context, c *database.Contact) (bool, error) {
	if s.conn == nil {
		return false, errNotConnected
	}
	var inserted bool
	if err := s.conn.QueryRow(ctx, queryUpsert, c.Name, c.Surname, c.Phone).Scan(&inserted); err != nil {
		return false, fmt.Errorf("upsert: %w", err)
	}
	return inserted, nil
}

// DatabaseName returns the name of the connected database.
func (s *Store) DatabaseName() string {
	return s.dbName
}

func collectContacts(rows pgx.Rows) ([]database.Contact, error) {
	contacts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (database.Contact, error) {
		var (
			c  database.Contact
			id int32
		)
		err := row.Scan(&id, &c.Name, &c.Surname, &c.Phone)
		c.ID = int64(id)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return contacts, nil
}

var _ database.Store = (*Store)(nil)
