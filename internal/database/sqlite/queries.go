package sqlite

import (
	"strings"

	"github.com/joacominatel/phonebook/internal/database"
)

const (
	queryCreateTable = `
		CREATE TABLE IF NOT EXISTS phone_book (
			user_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_name TEXT NOT NULL CHECK (user_name <> ''),
			user_surname TEXT NOT NULL DEFAULT '',
			phone_num TEXT NOT NULL CHECK (phone_num <> '')
		)`

	queryTableColumns = `SELECT name FROM pragma_table_info('phone_book')`

	queryAddSurname = `ALTER TABLE phone_book ADD COLUMN user_surname TEXT NOT NULL DEFAULT ''`

	queryInsert = `
		INSERT INTO phone_book (user_name, user_surname, phone_num)
		VALUES (?, ?, ?)
		RETURNING user_id`

	querySearch = `
		SELECT user_id, user_name, user_surname, phone_num
		FROM phone_book
		WHERE user_name LIKE ? OR user_surname LIKE ? OR phone_num LIKE ?
		ORDER BY user_id`

	queryUpdatePhoneByFullName = `
		UPDATE phone_book SET phone_num = ?
		WHERE user_name = ? AND user_surname = ?`
)

func placeholder() string { return "?" }

func where(cond string) string {
	if cond == "" {
		return ""
	}
	return " WHERE " + cond
}

func countQuery(m database.Match) (string, []any) {
	cond, args := m.Condition(placeholder)
	return "SELECT count(*) FROM phone_book" + where(cond), args
}

func updateQuery(cols []string, vals []any, m database.Match) (string, []any) {
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = ?"
	}
	cond, args := m.Condition(placeholder)
	return "UPDATE phone_book SET " + strings.Join(sets, ", ") + where(cond), append(vals, args...)
}

func deleteQuery(m database.Match) (string, []any) {
	cond, args := m.Condition(placeholder)
	return "DELETE FROM phone_book" + where(cond), args
}

// listQuery orders by an allow-listed expression from database.SortColumn.OrderBy.
func listQuery(q database.PageQuery) (string, []any) {
	cond, args := q.Condition(placeholder)
	sql := "SELECT user_id, user_name, user_surname, phone_num FROM phone_book" + where(cond)
	if q.Limit <= 0 {
		return sql + " ORDER BY user_id", args
	}
	sql += " ORDER BY " + q.Sort.OrderBy() + " LIMIT ? OFFSET ?"
	return sql, append(args, q.Limit, q.Offset)
}
