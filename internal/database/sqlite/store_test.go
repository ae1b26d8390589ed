package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/joacominatel/phonebook/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s := New()
	require.NoError(t, s.Connect(context.Background(), filepath.Join(t.TempDir(), "phonebook.db")))
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.Equal(t, "phonebook.db", s.DatabaseName())
}

func TestEnsureSchemaAddsSurnameColumn(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "old.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE phone_book (
		user_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_name TEXT NOT NULL,
		phone_num TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO phone_book (user_name, phone_num) VALUES ('Old', '111')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s := New()
	require.NoError(t, s.Connect(ctx, path))
	defer s.Close()
	require.NoError(t, s.EnsureSchema(ctx))

	all, err := s.List(ctx, database.PageQuery{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, database.Contact{ID: 1, Name: "Old", Phone: "111"}, all[0])
}

func TestInsertAssignsIDs(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	a := database.Contact{Name: "Ann", Phone: "0701"}
	b := database.Contact{Name: "Bob", Surname: "Lee", Phone: "0702"}
	require.NoError(t, s.Insert(ctx, &a))
	require.NoError(t, s.Insert(ctx, &b))
	assert.NotZero(t, a.ID)
	assert.Greater(t, b.ID, a.ID)

	err := s.Insert(ctx, &database.Contact{Name: "", Phone: "1"})
	require.Error(t, err, "empty name violates the check constraint")
}

func TestUpdateDeleteCount(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	for _, c := range []database.Contact{
		{Name: "Ann", Phone: "1"},
		{Name: "Ann", Phone: "2"},
		{Name: "Bob", Phone: "3"},
	} {
		require.NoError(t, s.Insert(ctx, &c))
	}

	n, err := s.Count(ctx, database.ByName("Ann"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.Update(ctx, database.ByPhone("3"), database.Changes{Name: "Rob"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.Delete(ctx, database.ByName("Ann"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.Count(ctx, database.MatchAll())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Delete(ctx, database.MatchAll())
	require.Error(t, err)
}

func TestSearchMatchesAnyColumn(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	for _, c := range []database.Contact{
		{Name: "Anna", Phone: "87015550000"},
		{Name: "Bob", Surname: "Hanna", Phone: "87770000000"},
		{Name: "Carl", Phone: "555"},
	} {
		require.NoError(t, s.Insert(ctx, &c))
	}

	got, err := s.Search(ctx, "%nna%")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Anna", got[0].Name)
	assert.Equal(t, "Bob", got[1].Name)

	got, err = s.Search(ctx, "%555%")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListPagedAndSorted(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	for _, name := range []string{"Dan", "Ann", "Cid", "Bea"} {
		require.NoError(t, s.Insert(ctx, &database.Contact{Name: name, Phone: "100"}))
	}

	page, err := s.List(ctx, database.PageQuery{Limit: 3, Offset: 0, Sort: database.SortByName})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, []string{"Ann", "Bea", "Cid"}, names(page))

	page, err = s.List(ctx, database.PageQuery{Limit: 3, Offset: 3, Sort: database.SortByName})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dan"}, names(page))

	page, err = s.List(ctx, database.PageQuery{Limit: 3, Offset: 6, Sort: database.SortByName})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	for _, c := range []database.Contact{
		{Name: "Ann", Phone: "7701"},
		{Name: "Bob", Phone: "8802"},
		{Name: "Cid", Phone: "7703"},
		{Name: "Dan", Phone: "7704"},
	} {
		require.NoError(t, s.Insert(ctx, &c))
	}

	got, err := s.List(ctx, database.PageQuery{MaxID: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann", "Bob"}, names(got))

	got, err = s.List(ctx, database.PageQuery{Phone: "77%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann", "Cid", "Dan"}, names(got))

	got, err = s.List(ctx, database.PageQuery{Limit: 2, Offset: 2, Sort: database.SortByName, Phone: "77%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dan"}, names(got))

	n, err := s.Count(ctx, database.ByPhonePattern("77%"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestDeleteByNameOrSurname(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	for _, c := range []database.Contact{
		{Name: "Lee", Phone: "1"},
		{Name: "Ann", Surname: "Lee", Phone: "2"},
		{Name: "Bob", Surname: "Kim", Phone: "3"},
	} {
		require.NoError(t, s.Insert(ctx, &c))
	}

	n, err := s.Delete(ctx, database.ByNameOrSurname("Lee"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	all, err := s.List(ctx, database.PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob"}, names(all))
}

func TestUpsert(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	c := database.Contact{Name: "Ann", Surname: "Lee", Phone: "111"}
	inserted, err := s.Upsert(ctx, &c)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.Upsert(ctx, &database.Contact{Name: "Ann", Surname: "Lee", Phone: "222"})
	require.NoError(t, err)
	assert.False(t, inserted)

	all, err := s.List(ctx, database.PageQuery{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "222", all[0].Phone)
}

func TestBulkInsertRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	rejected, err := s.BulkInsert(ctx, []database.Contact{
		{Name: "Ann", Phone: "+77011234567"},
		{Name: "Bad", Phone: "12ab"},
		{Name: "", Phone: "12345"},
		{Name: "Bob", Phone: "87011234567"},
	})
	require.NoError(t, err)
	require.Len(t, rejected, 2)
	assert.Equal(t, "Bad", rejected[0].Name)

	n, err := s.Count(ctx, database.MatchAll())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCopyIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	n, err := s.Copy(ctx, []database.Contact{{Name: "A", Phone: "1"}, {Name: "B", Phone: "2"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = s.Copy(ctx, []database.Contact{{Name: "C", Phone: "3"}, {Name: "D", Phone: ""}})
	require.Error(t, err)

	total, err := s.Count(ctx, database.MatchAll())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestRequiresConnection(t *testing.T) {
	s := New()
	require.ErrorIs(t, s.Ping(context.Background()), errNotConnected)
	require.Error(t, s.Connect(context.Background(), ""))
	require.NoError(t, s.Close())
}

func names(cs []database.Contact) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}
