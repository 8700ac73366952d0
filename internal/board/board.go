// Package board contains the interactive dependency board.
// Nodes are grouped into four columns by display state; the board
// re-runs the whole pipeline whenever the deps file changes.
package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/shoal/internal/classify"
	"github.com/zjrosen/shoal/internal/depfile"
	"github.com/zjrosen/shoal/internal/graph"
	"github.com/zjrosen/shoal/internal/log"
)

// Column indices in display order.
const (
	ColNext     = 0
	ColAwaiting = 1
	ColPending  = 2
	ColComplete = 3
)

const (
	detailHeight = 9
	footerHeight = 2
)

// Snapshot is one fully classified parse of the deps file.
type Snapshot struct {
	Doc   *depfile.Document
	Graph *graph.Graph
	Set   *classify.Set
}

// LoadFunc produces a fresh snapshot from the deps file.
type LoadFunc func() (Snapshot, error)

// SnapshotMsg carries the result of a load.
type SnapshotMsg struct {
	Snap Snapshot
	Err  error
}

// RefreshMsg signals that the deps file changed on disk.
type RefreshMsg struct{}

// Model holds the board state.
type Model struct {
	columns []Column
	focused int
	width   int
	height  int

	keys KeyMap
	help help.Model

	load     LoadFunc
	snap     Snapshot
	haveSnap bool
	lastErr  error

	source  string          // deps file path, shown while loading
	changes <-chan struct{} // watcher signal, nil disables auto refresh
	logs    *log.LogListener
	lastLog string
}

// New creates a board that loads snapshots via load.
func New(load LoadFunc) Model {
	columns := []Column{
		NewColumn("Next", classify.StateNext),
		NewColumn("Awaiting", classify.StateWaiting),
		NewColumn("Pending", classify.StatePending),
		NewColumn("Complete", classify.StateComplete),
	}

	return Model{
		columns: columns,
		focused: ColNext,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		load:    load,
	}
}

// SetSource sets the deps file path shown while loading.
func (m Model) SetSource(path string) Model {
	m.source = path
	return m
}

// SetChanges wires a watcher channel; each signal reloads the snapshot.
func (m Model) SetChanges(ch <-chan struct{}) Model {
	m.changes = ch
	return m
}

// SetLogs wires a log listener whose entries surface in the footer.
func (m Model) SetLogs(listener *log.LogListener) Model {
	m.logs = listener
	return m
}

// SetShowCounts sets whether column titles include node counts.
func (m Model) SetShowCounts(show bool) Model {
	for i := range m.columns {
		m.columns[i] = m.columns[i].SetShowCounts(show)
	}
	return m
}

// SetSize updates board dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.help.Width = width

	colWidth := width / len(m.columns)
	colHeight := height - detailHeight - footerHeight
	if colHeight < 3 {
		colHeight = 3
	}

	for i := range m.columns {
		m.columns[i] = m.columns[i].SetSize(colWidth, colHeight)
	}
	return m
}

// FocusedColumn returns the currently focused column index.
func (m Model) FocusedColumn() int {
	return m.focused
}

// SetFocus sets the focused column.
func (m Model) SetFocus(col int) Model {
	if col >= 0 && col < len(m.columns) {
		m.focused = col
	}
	return m
}

// Column returns the column at the given index.
func (m Model) Column(idx int) Column {
	if idx < 0 || idx >= len(m.columns) {
		return Column{}
	}
	return m.columns[idx]
}

// Err returns the error from the last failed load, if any.
func (m Model) Err() error {
	return m.lastErr
}

// Init kicks off the first load and arms the refresh sources.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitChangeCmd(), m.listenLogCmd())
}

func (m Model) loadCmd() tea.Cmd {
	load := m.load
	if load == nil {
		return nil
	}
	return func() tea.Msg {
		snap, err := load()
		return SnapshotMsg{Snap: snap, Err: err}
	}
}

func (m Model) waitChangeCmd() tea.Cmd {
	ch := m.changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return RefreshMsg{}
	}
}

func (m Model) listenLogCmd() tea.Cmd {
	if m.logs == nil {
		return nil
	}
	return m.logs.Listen()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case SnapshotMsg:
		if msg.Err != nil {
			// Keep the last good snapshot on parse failures
			m.lastErr = msg.Err
			log.ErrorErr(log.CatBoard, "reload failed", msg.Err)
			return m, nil
		}
		return m.withSnapshot(msg.Snap), nil

	case RefreshMsg:
		log.Debug(log.CatBoard, "deps file changed, reloading")
		return m, tea.Batch(m.loadCmd(), m.waitChangeCmd())

	case log.LogEvent:
		m.lastLog = strings.TrimSpace(msg.Payload)
		return m, m.listenLogCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			log.Debug(log.CatBoard, "manual refresh")
			return m, m.loadCmd()

		case key.Matches(msg, m.keys.Left):
			if m.focused > 0 {
				m.focused--
			}
			return m, nil

		case key.Matches(msg, m.keys.Right):
			if m.focused < len(m.columns)-1 {
				m.focused++
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			col := m.columns[m.focused]
			col, _ = col.Update(msg)
			m.columns[m.focused] = col
			return m, nil
		}
	}
	return m, nil
}

// withSnapshot replaces the board contents with a fresh snapshot.
func (m Model) withSnapshot(snap Snapshot) Model {
	m.snap = snap
	m.haveSnap = true
	m.lastErr = nil

	buckets := make(map[classify.State][]Item)
	for _, rec := range snap.Set.Records() {
		state := rec.State()
		buckets[state] = append(buckets[state], Item{Name: rec.Name, State: state})
	}

	for i := range m.columns {
		m.columns[i] = m.columns[i].SetItems(buckets[m.columns[i].State()])
	}
	return m
}

// View renders the board.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	if !m.haveSnap {
		if m.lastErr != nil {
			return bannerStyle.Render(fmt.Sprintf("✗ %v", m.lastErr))
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			footerStyle.Render("Loading "+m.source+"…"))
	}

	colHeight := m.height - detailHeight - footerHeight
	if colHeight < 3 {
		colHeight = 3
	}

	cols := make([]string, len(m.columns))
	for i, col := range m.columns {
		isFocused := i == m.focused
		col = col.SetFocused(isFocused)
		cols[i] = renderTitleBorder(col.View(), col.Title(), col.width, colHeight, isFocused, col.Color())
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	detail := renderTitleBorder(m.detailView(), "Detail", m.width, detailHeight, false, pendingColor)

	var b strings.Builder
	b.WriteString(row)
	b.WriteString("\n")
	b.WriteString(detail)
	b.WriteString("\n")
	b.WriteString(m.footerView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// detailView renders the selected node: its comment as real lines, plus
// direct neighbors with their states.
func (m Model) detailView() string {
	item := m.columns[m.focused].SelectedItem()
	if item == nil {
		return emptyStyle.Render("Nothing selected")
	}

	innerWidth := m.width - 2
	if innerWidth < 1 {
		innerWidth = 1
	}

	var lines []string
	lines = append(lines, detailKeyStyle.Render(item.Name.String())+"  "+m.stateBadge(item.State))

	if comment := m.snap.Doc.Comment(item.Name); comment != "" {
		for _, line := range depfile.CommentLines(comment) {
			if line == "" {
				continue
			}
			lines = append(lines, footerStyle.Render(line))
		}
	}

	lines = append(lines, "needs: "+m.neighborList(m.snap.Graph.Predecessors(item.Name)))
	lines = append(lines, "unlocks: "+m.neighborList(m.snap.Graph.Successors(item.Name)))

	for i, line := range lines {
		lines[i] = ansi.Truncate(line, innerWidth, "…")
	}
	return strings.Join(lines, "\n")
}

// neighborList formats adjacent nodes as "name (state)" pairs.
func (m Model) neighborList(names []graph.Name) string {
	if len(names) == 0 {
		return footerStyle.Render("none")
	}

	parts := make([]string, 0, len(names))
	for _, name := range names {
		state := classify.StatePending
		if rec, ok := m.snap.Set.Record(name); ok {
			state = rec.State()
		}
		style := lipgloss.NewStyle().Foreground(stateColor(state))
		parts = append(parts, style.Render(name.String())+footerStyle.Render(" ("+state.String()+")"))
	}
	return strings.Join(parts, ", ")
}

func (m Model) stateBadge(state classify.State) string {
	return lipgloss.NewStyle().Foreground(stateColor(state)).Render("[" + state.String() + "]")
}

// footerView renders the error banner when the last reload failed,
// otherwise the most recent log entry.
func (m Model) footerView() string {
	if m.lastErr != nil {
		return ansi.Truncate(bannerStyle.Render(fmt.Sprintf("✗ %v (showing last good snapshot)", m.lastErr)), m.width, "…")
	}
	if m.lastLog != "" {
		return ansi.Truncate(footerStyle.Render(m.lastLog), m.width, "…")
	}
	return ""
}
