package database

import "context"

// Store defines the phone book operations a database backend provides.
// A Store holds a single session; it is not safe for concurrent use.
type Store interface {
	// Connect opens the session. Every statement afterwards commits on its own.
	Connect(ctx context.Context, dsn string) error

	// Close releases the session.
	Close() error

	// Ping checks if the session is alive.
	Ping(ctx context.Context) error

	// EnsureSchema creates the phone_book table and any supporting routines.
	// It is safe to call on every start.
	EnsureSchema(ctx context.Context) error

	// Insert adds one contact and sets its ID.
	Insert(ctx context.Context, c *Contact) error

	// BulkInsert atomically inserts the valid entries and returns the rejected ones.
	BulkInsert(ctx context.Context, contacts []Contact) ([]Contact, error)

	// Copy bulk-loads contacts in one operation and returns the row count.
	Copy(ctx context.Context, contacts []Contact) (int64, error)

	// Count returns how many rows the match selects.
	Count(ctx context.Context, m Match) (int64, error)

	// Update applies changes to the matched rows and returns the affected count.
	Update(ctx context.Context, m Match, ch Changes) (int64, error)

	// Delete removes the matched rows and returns the affected count.
	Delete(ctx context.Context, m Match) (int64, error)

	// Search returns contacts whose name, surname or phone is LIKE pattern, ordered by ID.
	Search(ctx context.Context, pattern string) ([]Contact, error)

	// List returns a window of contacts.
	List(ctx context.Context, q PageQuery) ([]Contact, error)

	// Upsert updates the phone of the contact with the same name and surname,
	// or inserts it. It reports whether a row was inserted.
	Upsert(ctx context.Context, c *Contact) (bool, error)

	// DatabaseName returns the name of the connected database.
	DatabaseName() string
}
