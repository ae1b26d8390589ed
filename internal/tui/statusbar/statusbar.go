package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/phonebook/internal/tui/theme"
)

// Model is the status bar of the page browser.
type Model struct {
	width     int
	connected bool
	connName  string
	page      int
	pages     int
	total     int64
	message   string
}

// New creates a new status bar model.
func New() Model {
	return Model{}
}

// SetWidth updates the component width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetConnected updates the connection status display.
func (m *Model) SetConnected(connected bool, name string) {
	m.connected = connected
	m.connName = name
}

// SetPage updates the position shown on the right.
func (m *Model) SetPage(page, pages int, total int64) {
	m.page = page
	m.pages = pages
	m.total = total
}

// SetMessage sets a temporary status message. It replaces the position until cleared.
func (m *Model) SetMessage(msg string) {
	m.message = msg
}

// View renders the status bar.
func (m Model) View() string {
	style := theme.StyleStatusBar.Width(m.width)

	var connIndicator string
	if m.connected {
		connIndicator = lipgloss.NewStyle().
			Foreground(theme.ColorOK).
			Render("●") + " " + m.connName
	} else {
		connIndicator = lipgloss.NewStyle().
			Foreground(theme.ColorFail).
			Render("●") + " disconnected"
	}

	right := fmt.Sprintf("page %d/%d │ %d record(s)", m.page, m.pages, m.total)
	if m.message != "" {
		right = m.message
	}

	padding := m.width - lipgloss.Width(connIndicator) - lipgloss.Width(right) - 4
	if padding < 1 {
		padding = 1
	}

	return style.Render(connIndicator + strings.Repeat(" ", padding) + right)
}
