package postgres

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/joacominatel/phonebook/internal/database"
)

// SQL statements for the phone_book table and its routines.
const (
	queryCreateTable = `
		CREATE TABLE IF NOT EXISTS phone_book (
			user_id SERIAL PRIMARY KEY,
			user_name VARCHAR(150) NOT NULL CHECK (user_name <> ''),
			user_surname VARCHAR(150) NOT NULL DEFAULT '',
			phone_num VARCHAR(20) NOT NULL CHECK (phone_num <> '')
		)`

	// Tables created before the surname column existed.
	queryAddSurname = `
		ALTER TABLE phone_book
		ADD COLUMN IF NOT EXISTS user_surname VARCHAR(150) NOT NULL DEFAULT ''`

	queryInsert = `
		INSERT INTO phone_book (user_name, user_surname, phone_num)
		VALUES ($1, $2, $3)
		RETURNING user_id`

	querySearch = `SELECT user_id, user_name, user_surname, phone_num FROM find_contacts_by_pattern($1)`

	queryUpsert = `SELECT upsert_user($1, $2, $3)`

	queryBulkInsert = `SELECT bad_name, bad_surname, bad_phone FROM bulk_insert_users($1, $2, $3)`

	queryPage = `SELECT user_id, user_name, user_surname, phone_num FROM get_contacts_paginated($1, $2, $3, $4, $5)`

	queryDeleteContact = `SELECT delete_contact($1, $2)`

	queryCurrentDatabase = `SELECT current_database()`
)

var copyColumns = []string{"user_name", "user_surname", "phone_num"}

// placeholders numbers $n parameters in the order they are requested.
type placeholders struct{ n int }

func (p *placeholders) next() string {
	p.n++
	return "$" + strconv.Itoa(p.n)
}

func where(cond string) string {
	if cond == "" {
		return ""
	}
	return " WHERE " + cond
}

// countQuery builds the count statement for a match. Column names come from
// database.Match and are never user input.
func countQuery(m database.Match) (string, []any) {
	var p placeholders
	cond, args := m.Condition(p.next)
	return "SELECT count(*) FROM phone_book" + where(cond), args
}

// updateQuery builds an UPDATE with numbered placeholders for each assigned
// column followed by the match placeholders.
func updateQuery(cols []string, vals []any, m database.Match) (string, []any) {
	var p placeholders
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = " + p.next()
	}
	cond, args := m.Condition(p.next)
	q := "UPDATE phone_book SET " + strings.Join(sets, ", ") + where(cond)
	return q, append(vals, args...)
}

func deleteQuery(m database.Match) (string, []any) {
	var p placeholders
	cond, args := m.Condition(p.next)
	return "DELETE FROM phone_book" + where(cond), args
}

// listQuery returns the unpaged listing ordered by id, narrowed by the filters.
func listQuery(q database.PageQuery) (string, []any) {
	var p placeholders
	cond, args := q.Condition(p.next)
	return "SELECT user_id, user_name, user_surname, phone_num FROM phone_book" + where(cond) + " ORDER BY user_id", args
}

// pageArgs converts a paged query into get_contacts_paginated arguments. The
// routine takes INT bounds, so windows past the int32 range are refused
// instead of being truncated.
func pageArgs(q database.PageQuery) ([]any, error) {
	if q.Limit <= 0 || q.Limit > math.MaxInt32 || q.Offset < 0 || q.Offset > math.MaxInt32 {
		return nil, fmt.Errorf("page window out of range: limit %d offset %d", q.Limit, q.Offset)
	}
	sort, ok := database.ParseSortColumn(string(q.Sort))
	if !ok {
		sort = database.SortByID
	}
	var phone, maxID any
	if q.Phone != "" {
		phone = q.Phone
	}
	if q.MaxID > 0 {
		maxID = q.MaxID
	}
	return []any{int32(q.Limit), int32(q.Offset), string(sort), phone, maxID}, nil
}
