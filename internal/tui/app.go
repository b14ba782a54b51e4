// Package tui implements the single-screen buffer browser membufctl
// launches via "membufctl inspect".
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/elyor0529/membuf"
)

const pollInterval = 3 * time.Second

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

// BuffersLoadedMsg is sent when a scan completes. Exported for testing.
type BuffersLoadedMsg struct {
	Buffers []*membuf.Buffer
	Err     error
}

type pollTickMsg struct{}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Refresh, k.Help, k.Quit}}
}

// App is the Bubbletea model for the buffer browser.
type App struct {
	helper  *membuf.Helper
	window  membuf.AddressRange
	minFree uint64

	keys    keyMap
	help    help.Model
	table   table.Model
	loading bool
	err     error
	width   int
	height  int
}

// NewApp builds a buffer browser over the given Helper, restricted to
// window and filtered to buffers with at least minFree bytes remaining.
func NewApp(h *membuf.Helper, window membuf.AddressRange, minFree uint64) App {
	columns := []table.Column{
		{Title: "Address", Width: 18},
		{Title: "Size", Width: 10},
		{Title: "Remaining", Width: 10},
		{Title: "Alignment", Width: 9},
	}
	t := table.New(table.WithColumns(columns), table.WithFocused(true), table.WithHeight(12))

	return App{
		helper:  h,
		window:  window,
		minFree: minFree,
		keys: keyMap{
			Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
			Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
			Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
			Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
			Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		},
		help:    help.New(),
		table:   t,
		loading: true,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.scan(), pollTick())
}

func (a App) scan() tea.Cmd {
	return func() tea.Msg {
		buffers, err := a.helper.GetBuffersInRange(a.minFree, a.window, false)
		return BuffersLoadedMsg{Buffers: buffers, Err: err}
	}
}

func pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(_ time.Time) tea.Msg { return pollTickMsg{} })
}

// Rows returns the currently displayed table rows (for testing).
func (a App) Rows() []table.Row {
	return a.table.Rows()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case BuffersLoadedMsg:
		a.loading = false
		a.err = msg.Err
		a.table.SetRows(rowsFor(msg.Buffers))
		return a, nil

	case pollTickMsg:
		return a, tea.Batch(a.scan(), pollTick())

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Refresh):
			a.loading = true
			return a, a.scan()
		case key.Matches(msg, a.keys.Help):
			a.help.ShowAll = !a.help.ShowAll
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

func rowsFor(buffers []*membuf.Buffer) []table.Row {
	rows := make([]table.Row, 0, len(buffers))
	for _, b := range buffers {
		hdr, err := b.Header()
		if err != nil {
			rows = append(rows, table.Row{fmt.Sprintf("%#x", b.Address()), "?", "?", "?"})
			continue
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%#x", b.Address()),
			fmt.Sprintf("%d", hdr.Size),
			fmt.Sprintf("%d", hdr.Remaining()),
			fmt.Sprintf("%d", hdr.Alignment),
		})
	}
	return rows
}

func (a App) View() string {
	var status string
	switch {
	case a.loading:
		status = "scanning..."
	case a.err != nil:
		status = fmt.Sprintf("scan error: %v", a.err)
	default:
		status = fmt.Sprintf("%d buffer(s)", len(a.table.Rows()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("membufctl — buffers"),
		a.table.View(),
		statusStyle.Render(status),
		a.help.View(a.keys),
	)
}
