package results

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/phonebook/internal/database"
	"github.com/joacominatel/phonebook/internal/tui/theme"
)

var columns = []string{"ID", "NAME", "SURNAME", "PHONE"}

// Model renders one page of contacts.
type Model struct {
	rows      [][]string
	page      int
	pages     int
	sort      database.SortColumn
	err       error
	width     int
	height    int
	loading   bool
	colWidths []int
}

// New creates a new results model.
func New() Model {
	return Model{}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(l bool) {
	m.loading = l
}

// SetPage shows the contacts of one page.
func (m *Model) SetPage(contacts []database.Contact, page, pages int, sort database.SortColumn) {
	m.rows = make([][]string, len(contacts))
	for i, c := range contacts {
		m.rows[i] = []string{strconv.FormatInt(c.ID, 10), c.Name, c.Surname, c.Phone}
	}
	m.page = page
	m.pages = pages
	m.sort = sort
	m.err = nil
	m.loading = false
	m.calculateColumnWidths()
}

// SetError sets an error to display.
func (m *Model) SetError(err error) {
	m.err = err
	m.rows = nil
	m.loading = false
}

// RowCount returns the number of contacts on the page.
func (m Model) RowCount() int {
	return len(m.rows)
}

func (m *Model) calculateColumnWidths() {
	m.colWidths = make([]int, len(columns))

	// Use display width (not byte length) for accurate measurement
	for i, col := range columns {
		m.colWidths[i] = lipgloss.Width(col)
	}
	for _, row := range m.rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > m.colWidths[i] {
				m.colWidths[i] = w
			}
		}
	}
	for i := range m.colWidths {
		if m.colWidths[i] > 40 {
			m.colWidths[i] = 40
		}
	}
}

// View renders the page.
func (m Model) View() string {
	title := theme.StyleHeading.Padding(0, 1).Render("Contacts")

	if m.loading {
		return title + "\n" + theme.StyleDim.Render("  Loading page...")
	}

	if m.err != nil {
		return title + "\n" + theme.StyleFail.Render("  Error: "+m.err.Error())
	}

	if len(m.rows) == 0 {
		return title + "\n" + theme.StyleDim.Render("  No records found.")
	}

	stats := fmt.Sprintf("page %d/%d | sorted by %s", m.page, m.pages, m.sort)
	var b strings.Builder
	b.WriteString(title + "  " + theme.StyleDim.Render(stats))
	b.WriteString("\n")
	b.WriteString(m.renderRow(columns, true))
	b.WriteString("\n")
	b.WriteString(m.renderSeparator())

	visible := m.height - 3
	if visible < 1 {
		visible = len(m.rows)
	}
	for i := 0; i < len(m.rows) && i < visible; i++ {
		b.WriteString("\n")
		b.WriteString(m.renderRow(m.rows[i], false))
	}
	return b.String()
}

func (m Model) renderRow(cells []string, isHeader bool) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		width := m.colWidths[i]
		display := cell
		if lipgloss.Width(display) > width {
			runes := []rune(display)
			for len(runes) > 0 && lipgloss.Width(string(runes)) >= width {
				runes = runes[:len(runes)-1]
			}
			display = string(runes) + "…"
		}
		if pad := width - lipgloss.Width(display); pad > 0 {
			display += strings.Repeat(" ", pad)
		}
		if isHeader {
			display = theme.StyleHeading.Render(display)
		}
		parts[i] = display
	}
	return "  " + strings.Join(parts, " │ ")
}

func (m Model) renderSeparator() string {
	parts := make([]string, len(m.colWidths))
	for i, w := range m.colWidths {
		parts[i] = strings.Repeat("─", w)
	}
	return "  " + lipgloss.NewStyle().Foreground(theme.ColorRule).Render(strings.Join(parts, "─┼─"))
}
