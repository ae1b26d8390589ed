package console

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/joacominatel/phonebook/internal/database"
	"github.com/joacominatel/phonebook/internal/tui/theme"
)

// Printer writes prefixed report lines and contact tables.
type Printer struct {
	w      io.Writer
	ok     lipgloss.Style
	info   lipgloss.Style
	warn   lipgloss.Style
	err    lipgloss.Style
	title  lipgloss.Style
	header lipgloss.Style
	border lipgloss.Style
	cell   lipgloss.Style
}

// NewPrinter creates a printer whose colors follow what w supports.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		ok:     r.NewStyle().Foreground(theme.ColorOK).Bold(true),
		info:   r.NewStyle().Foreground(theme.ColorDim),
		warn:   r.NewStyle().Foreground(theme.ColorWarn),
		err:    r.NewStyle().Foreground(theme.ColorFail).Bold(true),
		title:  r.NewStyle().Foreground(theme.ColorAccent).Bold(true),
		header: r.NewStyle().Foreground(theme.ColorAccent).Bold(true).Padding(0, 1),
		border: r.NewStyle().Foreground(theme.ColorRule),
		cell:   r.NewStyle().Padding(0, 1),
	}
}

func (p *Printer) OK(format string, args ...any) {
	p.line(p.ok.Render("[OK]"), format, args...)
}

func (p *Printer) Info(format string, args ...any) {
	p.line(p.info.Render("[INFO]"), format, args...)
}

func (p *Printer) Warn(format string, args ...any) {
	p.line(p.warn.Render("[WARN]"), format, args...)
}

func (p *Printer) Error(format string, args ...any) {
	p.line(p.err.Render("[ERROR]"), format, args...)
}

// Title prints a section heading.
func (p *Printer) Title(s string) {
	fmt.Fprintln(p.w, p.title.Render(s))
}

// Println writes an unstyled line.
func (p *Printer) Println(s string) {
	fmt.Fprintln(p.w, s)
}

// Contacts renders the contacts as a table followed by the record count.
func (p *Printer) Contacts(contacts []database.Contact) {
	if len(contacts) == 0 {
		p.Info("No records found.")
		return
	}
	fmt.Fprintln(p.w, p.contactTable(contacts))
	fmt.Fprintf(p.w, "%d record(s)\n", len(contacts))
}

func (p *Printer) contactTable(contacts []database.Contact) string {
	rows := make([][]string, len(contacts))
	for i, c := range contacts {
		rows[i] = []string{strconv.FormatInt(c.ID, 10), c.Name, c.Surname, c.Phone}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.border).
		Headers("ID", "NAME", "SURNAME", "PHONE").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.header
			}
			return p.cell
		}).
		String()
}

func (p *Printer) line(prefix, format string, args ...any) {
	fmt.Fprintln(p.w, prefix+" "+fmt.Sprintf(format, args...))
}
