package menu

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/joacominatel/phonebook/internal/console"
	"github.com/joacominatel/phonebook/internal/database"
)

// errAborted ends a command when input runs out or the user presses Ctrl-C.
var errAborted = errors.New("input aborted")

// NumberError reports console input that should have been a number.
type NumberError struct {
	Input string
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("%q is not a valid number", e.Input)
}

func (m *Menu) ask(prompt string) (string, error) {
	line, err := m.in.ReadLine(prompt)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, console.ErrInterrupted) {
			return "", errAborted
		}
		return "", err
	}
	return line, nil
}

func (m *Menu) askInt(prompt string) (int64, error) {
	line, err := m.ask(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return 0, &NumberError{Input: line}
	}
	return n, nil
}

// maxBatchSize caps how many contacts one console batch may read.
const maxBatchSize = 10000

// RangeError reports a number outside the accepted bounds.
type RangeError struct {
	N, Min, Max int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%d is out of range (%d-%d)", e.N, e.Min, e.Max)
}

// askCount reads how many entries follow, between 1 and maxBatchSize.
func (m *Menu) askCount(prompt string) (int, error) {
	n, err := m.askInt(prompt)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > maxBatchSize {
		return 0, &RangeError{N: n, Min: 1, Max: maxBatchSize}
	}
	return int(n), nil
}

// askEntries reads n lines of "NAME [SURNAME] PHONE".
func (m *Menu) askEntries(n int) ([]database.Contact, error) {
	m.out.Info("Enter NAME [SURNAME] PHONE separated by spaces, one contact per line:")
	entries := make([]database.Contact, 0, n)
	for i := 0; i < n; i++ {
		line, err := m.ask(fmt.Sprintf("%d/%d> ", i+1, n))
		if err != nil {
			return nil, err
		}
		entries = append(entries, parseEntry(line))
	}
	return entries, nil
}

// parseEntry splits a console line into a contact. A line with a single word
// yields an entry without a phone, which the insert then rejects.
func parseEntry(line string) database.Contact {
	fields := strings.Fields(line)
	switch len(fields) {
	case 0:
		return database.Contact{}
	case 1:
		return database.Contact{Name: fields[0]}
	case 2:
		return database.Contact{Name: fields[0], Phone: fields[1]}
	default:
		last := len(fields) - 1
		return database.Contact{
			Name:    fields[0],
			Surname: strings.Join(fields[1:last], " "),
			Phone:   fields[last],
		}
	}
}
