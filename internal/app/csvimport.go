package app

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joacominatel/phonebook/internal/database"
)

// readContactsCSV parses a comma-separated file whose first line is a header.
// Rows have either (name, phone) or (name, surname, phone), as set by the header.
func readContactsCSV(r io.Reader) ([]database.Contact, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	width := len(header)
	if width != 2 && width != 3 {
		return nil, fmt.Errorf("header has %d columns, want name,phone or name,surname,phone", width)
	}

	var contacts []database.Contact
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		if len(rec) != width {
			return nil, fmt.Errorf("line %d: %d fields, want %d", line, len(rec), width)
		}

		c := database.Contact{Name: strings.TrimSpace(rec[0])}
		if width == 3 {
			c.Surname = strings.TrimSpace(rec[1])
		}
		c.Phone = strings.TrimSpace(rec[width-1])
		if err := validate(c); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
