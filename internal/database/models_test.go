package database

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSortColumn(t *testing.T) {
	for _, c := range SortColumns {
		got, ok := ParseSortColumn(" " + string(c) + " ")
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}

	_, ok := ParseSortColumn("user_id; DROP TABLE phone_book")
	assert.False(t, ok)
	_, ok = ParseSortColumn("")
	assert.False(t, ok)
}

func TestSortColumnOrderBy(t *testing.T) {
	assert.Equal(t, "user_id", SortByID.OrderBy())
	assert.Equal(t, "user_name, user_id", SortByName.OrderBy())
	assert.Equal(t, "user_id", SortColumn("random()").OrderBy())
	assert.Equal(t, "user_id", SortColumn("").OrderBy())
}

func TestChangesAssignments(t *testing.T) {
	cols, vals := Changes{Phone: "555", Name: "Ann"}.Assignments()
	assert.Equal(t, []string{"user_name", "phone_num"}, cols)
	assert.Equal(t, []any{"Ann", "555"}, vals)

	assert.True(t, Changes{}.Empty())
	assert.False(t, Changes{Surname: "Lee"}.Empty())
}

func TestMatch(t *testing.T) {
	assert.Equal(t, "user_id", ByID(3).Field.Column())
	assert.Equal(t, "", MatchAll().Field.Column())
	assert.Equal(t, `phone "123"`, ByPhone("123").String())
	assert.Equal(t, `name or surname "Lee"`, ByNameOrSurname("Lee").String())
}

func numbered() func() string {
	n := 0
	return func() string {
		n++
		return "$" + strconv.Itoa(n)
	}
}

func TestMatchCondition(t *testing.T) {
	tests := []struct {
		m    Match
		cond string
		args []any
	}{
		{MatchAll(), "", nil},
		{ByID(3), "user_id = $1", []any{int64(3)}},
		{ByName("Bob"), "user_name = $1", []any{"Bob"}},
		{ByPhone("123"), "phone_num = $1", []any{"123"}},
		{ByNameOrSurname("Lee"), "(user_name = $1 OR user_surname = $2)", []any{"Lee", "Lee"}},
		{ByPhonePattern("%77%"), "phone_num LIKE $1", []any{"%77%"}},
	}
	for _, tt := range tests {
		cond, args := tt.m.Condition(numbered())
		assert.Equal(t, tt.cond, cond, tt.m.String())
		assert.Equal(t, tt.args, args, tt.m.String())
	}
}

func TestPageQueryCondition(t *testing.T) {
	cond, args := PageQuery{}.Condition(numbered())
	assert.Empty(t, cond)
	assert.Empty(t, args)

	cond, args = PageQuery{Phone: "%7%", MaxID: 10}.Condition(numbered())
	assert.Equal(t, "phone_num LIKE $1 AND user_id <= $2", cond)
	assert.Equal(t, []any{"%7%", int64(10)}, args)

	cond, _ = PageQuery{MaxID: -1}.Condition(numbered())
	assert.Empty(t, cond)
}

func TestValidPhone(t *testing.T) {
	tests := map[string]bool{
		"87011234567":  true,
		"+77011234567": true,
		"123":          true,
		"12":           false,
		"12a45":        false,
		"":             false,
		"++123":        false,
	}
	for phone, want := range tests {
		assert.Equal(t, want, ValidPhone(phone), phone)
	}
}
