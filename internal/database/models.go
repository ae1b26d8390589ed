package database

import (
	"fmt"
	"regexp"
	"strings"
)

// Contact is one row of the phone_book table.
type Contact struct {
	ID      int64
	Name    string
	Surname string
	Phone   string
}

// FullName joins name and surname, skipping an empty surname.
func (c Contact) FullName() string {
	if c.Surname == "" {
		return c.Name
	}
	return c.Name + " " + c.Surname
}

// Field selects the column a Match compares against.
type Field int

const (
	FieldAll Field = iota
	FieldID
	FieldName
	FieldPhone
	FieldNameOrSurname
	FieldPhonePattern
)

// Column returns the phone_book column of a single-column field, or "" for
// FieldAll and FieldNameOrSurname.
func (f Field) Column() string {
	switch f {
	case FieldID:
		return "user_id"
	case FieldName:
		return "user_name"
	case FieldPhone, FieldPhonePattern:
		return "phone_num"
	default:
		return ""
	}
}

func (f Field) String() string {
	switch f {
	case FieldAll:
		return "all"
	case FieldID:
		return "id"
	case FieldName:
		return "name"
	case FieldPhone:
		return "phone"
	case FieldNameOrSurname:
		return "name or surname"
	case FieldPhonePattern:
		return "phone like"
	default:
		return "unknown"
	}
}

// Match identifies the rows an update, delete or count applies to.
type Match struct {
	Field Field
	Text  string
	ID    int64
}

// MatchAll matches every row.
func MatchAll() Match { return Match{Field: FieldAll} }

// ByID matches the row with the given identifier.
func ByID(id int64) Match { return Match{Field: FieldID, ID: id} }

// ByName matches every row with exactly this name.
func ByName(name string) Match { return Match{Field: FieldName, Text: name} }

// ByPhone matches every row with exactly this phone number.
func ByPhone(phone string) Match { return Match{Field: FieldPhone, Text: phone} }

// ByNameOrSurname matches every row whose name or surname is exactly text.
func ByNameOrSurname(text string) Match { return Match{Field: FieldNameOrSurname, Text: text} }

// ByPhonePattern matches every row whose phone is LIKE pattern.
func ByPhonePattern(pattern string) Match { return Match{Field: FieldPhonePattern, Text: pattern} }

// Condition returns the WHERE condition of the match with its arguments, or ""
// for FieldAll. next yields the placeholder of each argument in order.
func (m Match) Condition(next func() string) (string, []any) {
	switch m.Field {
	case FieldAll:
		return "", nil
	case FieldID:
		return "user_id = " + next(), []any{m.ID}
	case FieldNameOrSurname:
		name := next()
		surname := next()
		return "(user_name = " + name + " OR user_surname = " + surname + ")", []any{m.Text, m.Text}
	case FieldPhonePattern:
		return "phone_num LIKE " + next(), []any{m.Text}
	default:
		return m.Field.Column() + " = " + next(), []any{m.Text}
	}
}

func (m Match) String() string {
	switch m.Field {
	case FieldAll:
		return "all contacts"
	case FieldID:
		return fmt.Sprintf("id %d", m.ID)
	default:
		return fmt.Sprintf("%s %q", m.Field, m.Text)
	}
}

// Changes holds the new values of an update. Empty fields stay untouched.
type Changes struct {
	Name    string
	Surname string
	Phone   string
}

// Empty reports whether the update would not change anything.
func (c Changes) Empty() bool {
	return c.Name == "" && c.Surname == "" && c.Phone == ""
}

// Assignments returns the SET column list and values in a fixed column order.
func (c Changes) Assignments() ([]string, []any) {
	var cols []string
	var vals []any
	if c.Name != "" {
		cols = append(cols, "user_name")
		vals = append(vals, c.Name)
	}
	if c.Surname != "" {
		cols = append(cols, "user_surname")
		vals = append(vals, c.Surname)
	}
	if c.Phone != "" {
		cols = append(cols, "phone_num")
		vals = append(vals, c.Phone)
	}
	return cols, vals
}

// SortColumn is a column the paginated listing may be ordered by.
type SortColumn string

const (
	SortByID      SortColumn = "user_id"
	SortByName    SortColumn = "user_name"
	SortBySurname SortColumn = "user_surname"
	SortByPhone   SortColumn = "phone_num"
)

// SortColumns is the allow-list of ordering columns. Dynamic ORDER BY clauses
// are only ever built from these values.
var SortColumns = []SortColumn{SortByID, SortByName, SortBySurname, SortByPhone}

// ParseSortColumn validates s against the allow-list.
func ParseSortColumn(s string) (SortColumn, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range SortColumns {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// OrderBy returns the ORDER BY expression for the column, with user_id as tie breaker.
// Unknown columns fall back to user_id.
func (s SortColumn) OrderBy() string {
	if _, ok := ParseSortColumn(string(s)); !ok || s == SortByID {
		return "user_id"
	}
	return string(s) + ", user_id"
}

// PageQuery selects a window of the listing. Limit 0 means no limit.
// Phone, when set, keeps rows whose phone is LIKE it; MaxID, when positive,
// keeps rows with user_id <= MaxID.
type PageQuery struct {
	Limit  int
	Offset int
	Sort   SortColumn
	Phone  string
	MaxID  int64
}

// Condition returns the WHERE condition for the query filters, or "" when
// there are none.
func (q PageQuery) Condition(next func() string) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if q.Phone != "" {
		conds = append(conds, "phone_num LIKE "+next())
		args = append(args, q.Phone)
	}
	if q.MaxID > 0 {
		conds = append(conds, "user_id <= "+next())
		args = append(args, q.MaxID)
	}
	return strings.Join(conds, " AND "), args
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{3,15}$`)

// ValidPhone reports whether phone is an optional '+' followed by 3 to 15 digits.
// The same rule is enforced by the bulk_insert_users routine.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
