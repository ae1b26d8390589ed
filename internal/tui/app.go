package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/phonebook/internal/app"
	"github.com/joacominatel/phonebook/internal/database"
	"github.com/joacominatel/phonebook/internal/tui/results"
	"github.com/joacominatel/phonebook/internal/tui/statusbar"
	"github.com/joacominatel/phonebook/internal/tui/theme"
)

const fetchTimeout = 10 * time.Second

type keyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Sort    key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Sort, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Sort, k.Refresh},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("n", "right", "pgdown"),
		key.WithHelp("n/→", "next page"),
	),
	Prev: key.NewBinding(
		key.WithKeys("p", "left", "pgup"),
		key.WithHelp("p/←", "previous page"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "cycle sort"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type (
	pageLoadedMsg struct {
		rows []database.Contact
		err  error
	}
	refreshedMsg struct {
		err error
	}
)

// Model is a full-screen browser over the paginated contact listing.
type Model struct {
	service   *app.Service
	pager     *app.Pager
	results   results.Model
	statusbar statusbar.Model
	help      help.Model
	loading   bool
	width     int
	height    int
}

// NewModel opens a pager on the service, narrowed to phones like phone when
// it is set. The page size and sort column are validated before any query runs.
func NewModel(ctx context.Context, service *app.Service, size int, sort, phone string) (Model, error) {
	p, err := service.OpenPager(ctx, size, sort, phone)
	if err != nil {
		return Model{}, err
	}
	m := Model{
		service:   service,
		pager:     p,
		results:   results.New(),
		statusbar: statusbar.New(),
		help:      help.New(),
		loading:   true,
	}
	m.results.SetLoading(true)
	m.statusbar.SetConnected(true, service.DatabaseName())
	m.statusbar.SetPage(p.Page(), p.Pages(), p.Total())
	return m, nil
}

// Pager exposes the listing state, mostly for callers that inspect it after
// the program exits.
func (m Model) Pager() *app.Pager {
	return m.pager
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return m.fetchCmd()
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case pageLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.results.SetError(msg.err)
			m.statusbar.SetMessage("")
			return m, nil
		}
		m.results.SetPage(msg.rows, m.pager.Page(), m.pager.Pages(), m.pager.Sort())
		m.statusbar.SetPage(m.pager.Page(), m.pager.Pages(), m.pager.Total())
		if m.pager.State() == app.StateDone {
			m.statusbar.SetMessage("No more records.")
		} else {
			m.statusbar.SetMessage("")
		}
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			m.loading = false
			m.results.SetError(msg.err)
			return m, nil
		}
		return m, m.fetchCmd()
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		// A fetch in flight still owns the pager.
		if !m.loading {
			m.pager.Quit()
		}
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	}

	// The pager is shared with the running fetch until it reports back.
	if m.loading || m.pager.State() == app.StateDone {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Next):
		if err := m.pager.Next(); err != nil {
			m.statusbar.SetMessage("No more records.")
			return m, nil
		}
		return m.startFetch()
	case key.Matches(msg, keys.Prev):
		if !m.pager.Prev() {
			m.statusbar.SetMessage("Already on the first page.")
			return m, nil
		}
		return m.startFetch()
	case key.Matches(msg, keys.Sort):
		m.pager.SetSort(nextSort(m.pager.Sort()))
		return m.startFetch()
	case key.Matches(msg, keys.Refresh):
		m.loading = true
		m.results.SetLoading(true)
		return m, m.refreshCmd()
	}
	return m, nil
}

func (m Model) startFetch() (tea.Model, tea.Cmd) {
	m.loading = true
	m.results.SetLoading(true)
	m.statusbar.SetMessage("Loading...")
	return m, m.fetchCmd()
}

func nextSort(cur database.SortColumn) database.SortColumn {
	for i, c := range database.SortColumns {
		if c == cur {
			return database.SortColumns[(i+1)%len(database.SortColumns)]
		}
	}
	return database.SortByID
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.help.Width = m.width

	helpHeight := lipgloss.Height(m.help.View(keys))
	statusHeight := 1
	frame := theme.StyleFrame.GetVerticalFrameSize()

	resultsHeight := m.height - statusHeight - helpHeight - frame
	if resultsHeight < 3 {
		resultsHeight = 3
	}
	m.results.SetSize(m.width-theme.StyleFrame.GetHorizontalFrameSize(), resultsHeight)
	m.statusbar.SetWidth(m.width)
}

// Async commands

func (m Model) fetchCmd() tea.Cmd {
	service, pager := m.service, m.pager
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		rows, err := service.FetchPage(ctx, pager)
		return pageLoadedMsg{rows: rows, err: err}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	service, pager := m.service, m.pager
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		if err := service.Refresh(ctx, pager); err != nil {
			return refreshedMsg{err: err}
		}
		// Rows deleted elsewhere can leave the current page past the end.
		if pager.Page() > pager.Pages() {
			pager.SetSort(pager.Sort())
		}
		return refreshedMsg{}
	}
}

// View renders the browser.
func (m Model) View() string {
	frame := theme.StyleFrame
	if m.width > 0 {
		frame = frame.Width(m.width - frame.GetHorizontalFrameSize())
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		frame.Render(m.results.View()),
		m.statusbar.View(),
		m.help.View(keys),
	)
}

// Run starts the browser on the alternate screen and blocks until it quits.
func Run(ctx context.Context, service *app.Service, size int, sort, phone string) error {
	m, err := NewModel(ctx, service, size, sort, phone)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
