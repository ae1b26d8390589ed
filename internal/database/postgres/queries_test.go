package postgres

import (
	"context"
	"math"
	"testing"

	"github.com/joacominatel/phonebook/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateQuery(t *testing.T) {
	cols, vals := database.Changes{Name: "Ann", Phone: "555"}.Assignments()
	q, args := updateQuery(cols, vals, database.ByID(7))
	assert.Equal(t, "UPDATE phone_book SET user_name = $1, phone_num = $2 WHERE user_id = $3", q)
	assert.Equal(t, []any{"Ann", "555", int64(7)}, args)

	q, args = updateQuery([]string{"phone_num"}, []any{"1"}, database.ByNameOrSurname("Lee"))
	assert.Equal(t, "UPDATE phone_book SET phone_num = $1 WHERE (user_name = $2 OR user_surname = $3)", q)
	assert.Equal(t, []any{"1", "Lee", "Lee"}, args)
}

func TestCountQuery(t *testing.T) {
	q, args := countQuery(database.MatchAll())
	assert.Equal(t, "SELECT count(*) FROM phone_book", q)
	assert.Empty(t, args)

	q, args = countQuery(database.ByPhonePattern("%77%"))
	assert.Equal(t, "SELECT count(*) FROM phone_book WHERE phone_num LIKE $1", q)
	assert.Equal(t, []any{"%77%"}, args)
}

func TestDeleteQuery(t *testing.T) {
	q, args := deleteQuery(database.ByNameOrSurname("Lee"))
	assert.Equal(t, "DELETE FROM phone_book WHERE (user_name = $1 OR user_surname = $2)", q)
	assert.Equal(t, []any{"Lee", "Lee"}, args)
}

func TestListQuery(t *testing.T) {
	q, args := listQuery(database.PageQuery{})
	assert.Equal(t, "SELECT user_id, user_name, user_surname, phone_num FROM phone_book ORDER BY user_id", q)
	assert.Empty(t, args)

	q, args = listQuery(database.PageQuery{MaxID: 4})
	assert.Contains(t, q, "WHERE user_id <= $1 ORDER BY user_id")
	assert.Equal(t, []any{int64(4)}, args)
}

func TestPageArgs(t *testing.T) {
	args, err := pageArgs(database.PageQuery{Limit: 5, Offset: 10, Sort: "user_name"})
	require.NoError(t, err)
	assert.Equal(t, []any{int32(5), int32(10), "user_name", nil, nil}, args)

	args, err = pageArgs(database.PageQuery{Limit: 5, Sort: "bogus", Phone: "%7%", MaxID: 9})
	require.NoError(t, err)
	assert.Equal(t, []any{int32(5), int32(0), "user_id", "%7%", int64(9)}, args)
}

func TestPageArgsRefusesTruncation(t *testing.T) {
	for _, q := range []database.PageQuery{
		{Limit: math.MaxInt32 + 1},
		{Limit: 1 << 32},
		{Limit: 5, Offset: math.MaxInt32 + 1},
		{Limit: 5, Offset: -1},
	} {
		_, err := pageArgs(q)
		assert.Error(t, err, "limit %d offset %d", q.Limit, q.Offset)
	}
}

func TestDefaultRoutinesEmbedded(t *testing.T) {
	for _, name := range []string{
		"find_contacts_by_pattern",
		"upsert_user",
		"bulk_insert_users",
		"get_contacts_paginated",
		"delete_contact",
	} {
		assert.Contains(t, defaultRoutines, "FUNCTION "+name+"(")
	}
}

func TestStoreRequiresConnection(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.ErrorIs(t, s.Ping(ctx), errNotConnected)
	require.ErrorIs(t, s.EnsureSchema(ctx), errNotConnected)
	_, err := s.List(ctx, database.PageQuery{})
	require.ErrorIs(t, err, errNotConnected)
	require.NoError(t, s.Close())
}

func TestConnectRejectsBadDSN(t *testing.T) {
	err := New().Connect(context.Background(), "postgres://%zz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse dsn")
}
