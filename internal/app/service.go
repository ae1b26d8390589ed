package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joacominatel/phonebook/internal/database"
	"go.uber.org/zap"
)

// Options tunes the service.
type Options struct {
	// PreCheck counts the matching rows before an update or delete and
	// returns ErrNoMatch instead of running the statement when there are none.
	PreCheck bool
}

// Service runs the phone book operations against a store. Every method takes
// its input as arguments; collecting input is the caller's job.
type Service struct {
	store database.Store
	log   *zap.Logger
	opts  Options
}

// NewService creates a new application service.
func NewService(store database.Store, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, log: logger, opts: opts}
}

// Connect opens the database session.
func (s *Service) Connect(ctx context.Context, dsn string) error {
	if err := s.store.Connect(ctx, dsn); err != nil {
		return &ErrConnection{Cause: err}
	}
	s.log.Debug("connected", zap.String("database", s.store.DatabaseName()))
	return nil
}

// Init makes sure the phone_book table and routines exist.
func (s *Service) Init(ctx context.Context) error {
	if err := s.store.EnsureSchema(ctx); err != nil {
		return &ErrSchema{Cause: err}
	}
	return nil
}

// Disconnect closes the database session.
func (s *Service) Disconnect() error {
	return s.store.Close()
}

// DatabaseName returns the current database name.
func (s *Service) DatabaseName() string {
	return s.store.DatabaseName()
}

// AddContact inserts one contact. Empty name or phone is rejected before any
// statement runs.
func (s *Service) AddContact(ctx context.Context, name, surname, phone string) (database.Contact, error) {
	c := normalize(database.Contact{Name: name, Surname: surname, Phone: phone})
	if err := validate(c); err != nil {
		return database.Contact{}, err
	}
	if err := s.store.Insert(ctx, &c); err != nil {
		return database.Contact{}, s.queryErr("insert", err)
	}
	s.log.Debug("contact inserted", zap.Int64("id", c.ID))
	return c, nil
}

// BatchInsert inserts the entries one statement at a time. Each insert commits
// on its own, so when an entry fails the earlier ones stay and a *BatchError
// says where the batch stopped.
func (s *Service) BatchInsert(ctx context.Context, entries []database.Contact) ([]database.Contact, error) {
	batchID := uuid.NewString()
	log := s.log.With(zap.String("batch_id", batchID))

	inserted := make([]database.Contact, 0, len(entries))
	for i, e := range entries {
		c := normalize(e)
		if err := validate(c); err != nil {
			log.Warn("batch stopped", zap.Int("index", i), zap.Error(err))
			return inserted, &BatchError{Index: i, Inserted: len(inserted), Cause: err}
		}
		if err := s.store.Insert(ctx, &c); err != nil {
			log.Warn("batch stopped", zap.Int("index", i), zap.Error(err))
			return inserted, &BatchError{Index: i, Inserted: len(inserted), Cause: &ErrQuery{Op: "insert", Cause: err}}
		}
		inserted = append(inserted, c)
	}
	log.Debug("batch inserted", zap.Int("rows", len(inserted)))
	return inserted, nil
}

// BulkInsert inserts the valid entries in one atomic call and returns how many
// were accepted along with the rejected entries.
func (s *Service) BulkInsert(ctx context.Context, entries []database.Contact) (int, []database.Contact, error) {
	normalized := make([]database.Contact, len(entries))
	for i, e := range entries {
		normalized[i] = normalize(e)
	}
	rejected, err := s.store.BulkInsert(ctx, normalized)
	if err != nil {
		return 0, nil, s.queryErr("bulk insert", err)
	}
	accepted := len(normalized) - len(rejected)
	s.log.Debug("bulk insert", zap.Int("accepted", accepted), zap.Int("rejected", len(rejected)))
	return accepted, rejected, nil
}

// ImportCSV bulk-loads the CSV file at path, skipping its header line. Nothing
// is inserted unless every row is well formed.
func (s *Service) ImportCSV(ctx context.Context, path string) (int64, error) {
	importID := uuid.NewString()
	log := s.log.With(zap.String("import_id", importID), zap.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, &FileNotFoundError{Path: path}
		}
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	contacts, err := readContactsCSV(f)
	if err != nil {
		log.Warn("import rejected", zap.Error(err))
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(contacts) == 0 {
		return 0, nil
	}

	n, err := s.store.Copy(ctx, contacts)
	if err != nil {
		return 0, s.queryErr("import", err)
	}
	log.Debug("import complete", zap.Int64("rows", n))
	return n, nil
}

// UpdatePhoneByName sets a new phone on every contact with the given name.
func (s *Service) UpdatePhoneByName(ctx context.Context, name, phone string) (int64, error) {
	name, phone = strings.TrimSpace(name), strings.TrimSpace(phone)
	if name == "" {
		return 0, &ValidationError{Field: "name"}
	}
	if phone == "" {
		return 0, &ValidationError{Field: "phone"}
	}
	return s.update(ctx, database.ByName(name), database.Changes{Phone: phone})
}

// UpdateNameByPhone sets a new name on every contact with the given phone.
func (s *Service) UpdateNameByPhone(ctx context.Context, phone, name string) (int64, error) {
	name, phone = strings.TrimSpace(name), strings.TrimSpace(phone)
	if phone == "" {
		return 0, &ValidationError{Field: "phone"}
	}
	if name == "" {
		return 0, &ValidationError{Field: "name"}
	}
	return s.update(ctx, database.ByPhone(phone), database.Changes{Name: name})
}

// UpdateByID applies the non-blank changes to the contact with the given ID.
func (s *Service) UpdateByID(ctx context.Context, id int64, ch database.Changes) (int64, error) {
	if id <= 0 {
		return 0, ErrInvalidID
	}
	ch = database.Changes{
		Name:    strings.TrimSpace(ch.Name),
		Surname: strings.TrimSpace(ch.Surname),
		Phone:   strings.TrimSpace(ch.Phone),
	}
	return s.update(ctx, database.ByID(id), ch)
}

func (s *Service) update(ctx context.Context, m database.Match, ch database.Changes) (int64, error) {
	if ch.Empty() {
		return 0, ErrNothingToUpdate
	}
	if err := s.precheck(ctx, m); err != nil {
		return 0, err
	}
	n, err := s.store.Update(ctx, m, ch)
	if err != nil {
		return 0, s.queryErr("update", err)
	}
	s.log.Debug("contacts updated", zap.Stringer("match", m), zap.Int64("rows", n))
	return n, nil
}

// DeleteByName removes every contact with exactly this name.
func (s *Service) DeleteByName(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, &ValidationError{Field: "name"}
	}
	return s.delete(ctx, database.ByName(name))
}

// DeleteByPhone removes every contact with exactly this phone.
func (s *Service) DeleteByPhone(ctx context.Context, phone string) (int64, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return 0, &ValidationError{Field: "phone"}
	}
	return s.delete(ctx, database.ByPhone(phone))
}

// DeleteByNameOrSurname removes every contact whose name or surname is exactly text.
func (s *Service) DeleteByNameOrSurname(ctx context.Context, text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, &ValidationError{Field: "name or surname"}
	}
	return s.delete(ctx, database.ByNameOrSurname(text))
}

func (s *Service) delete(ctx context.Context, m database.Match) (int64, error) {
	if err := s.precheck(ctx, m); err != nil {
		return 0, err
	}
	n, err := s.store.Delete(ctx, m)
	if err != nil {
		return 0, s.queryErr("delete", err)
	}
	s.log.Debug("contacts deleted", zap.Stringer("match", m), zap.Int64("rows", n))
	return n, nil
}

func (s *Service) precheck(ctx context.Context, m database.Match) error {
	if !s.opts.PreCheck {
		return nil
	}
	n, err := s.store.Count(ctx, m)
	if err != nil {
		return s.queryErr("count", err)
	}
	if n == 0 {
		return fmt.Errorf("%w for %s", ErrNoMatch, m)
	}
	return nil
}

// Search returns contacts whose name, surname or phone matches pattern. A
// pattern without LIKE wildcards matches as a substring.
func (s *Service) Search(ctx context.Context, pattern string) ([]database.Contact, error) {
	contacts, err := s.store.Search(ctx, likePattern(strings.TrimSpace(pattern)))
	if err != nil {
		return nil, s.queryErr("search", err)
	}
	return contacts, nil
}

// ListAll returns every contact ordered by ID.
func (s *Service) ListAll(ctx context.Context) ([]database.Contact, error) {
	contacts, err := s.store.List(ctx, database.PageQuery{})
	if err != nil {
		return nil, s.queryErr("list", err)
	}
	return contacts, nil
}

// ListUpToID returns the contacts with an ID less than or equal to maxID,
// ordered by ID.
func (s *Service) ListUpToID(ctx context.Context, maxID int64) ([]database.Contact, error) {
	if maxID <= 0 {
		return nil, nil
	}
	contacts, err := s.store.List(ctx, database.PageQuery{MaxID: maxID})
	if err != nil {
		return nil, s.queryErr("list", err)
	}
	return contacts, nil
}

// Upsert updates the phone of the contact with this name and surname, or
// inserts a new one. It reports whether a row was inserted.
func (s *Service) Upsert(ctx context.Context, name, surname, phone string) (database.Contact, bool, error) {
	c := normalize(database.Contact{Name: name, Surname: surname, Phone: phone})
	if err := validate(c); err != nil {
		return database.Contact{}, false, err
	}
	inserted, err := s.store.Upsert(ctx, &c)
	if err != nil {
		return database.Contact{}, false, s.queryErr("upsert", err)
	}
	s.log.Debug("contact upserted", zap.Bool("inserted", inserted))
	return c, inserted, nil
}

// OpenPager counts the contacts and starts a pager on page 1. A non-empty
// phone narrows the listing to matching phones; without wildcards it matches
// as a substring.
func (s *Service) OpenPager(ctx context.Context, size int, sort, phone string) (*Pager, error) {
	p := &Pager{}
	// Validate before touching the database.
	if err := p.Start(size, sort, 0); err != nil {
		return nil, err
	}
	if phone = strings.TrimSpace(phone); phone != "" {
		p.phone = likePattern(phone)
	}
	total, err := s.store.Count(ctx, p.match())
	if err != nil {
		return nil, s.queryErr("count", err)
	}
	p.total = total
	return p, nil
}

// FetchPage returns the rows of the pager's current page. An empty page ends
// the listing.
func (s *Service) FetchPage(ctx context.Context, p *Pager) ([]database.Contact, error) {
	if p.State() != StateShowingPage {
		return nil, fmt.Errorf("pager is %s", p.State())
	}
	rows, err := s.store.List(ctx, p.Query())
	if err != nil {
		return nil, s.queryErr("page", err)
	}
	p.observe(len(rows))
	return rows, nil
}

// Refresh recounts the contacts for an open pager.
func (s *Service) Refresh(ctx context.Context, p *Pager) error {
	total, err := s.store.Count(ctx, p.match())
	if err != nil {
		return s.queryErr("count", err)
	}
	p.total = total
	return nil
}

func (s *Service) queryErr(op string, err error) error {
	s.log.Warn("statement failed", zap.String("op", op), zap.Error(err))
	return &ErrQuery{Op: op, Cause: err}
}

func normalize(c database.Contact) database.Contact {
	return database.Contact{
		ID:      c.ID,
		Name:    strings.TrimSpace(c.Name),
		Surname: strings.TrimSpace(c.Surname),
		Phone:   strings.TrimSpace(c.Phone),
	}
}

func validate(c database.Contact) error {
	if c.Name == "" {
		return &ValidationError{Field: "name"}
	}
	if c.Phone == "" {
		return &ValidationError{Field: "phone"}
	}
	return nil
}

func likePattern(p string) string {
	if strings.ContainsAny(p, "%_") {
		return p
	}
	return "%" + p + "%"
}
