package board

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/zjrosen/shoal/internal/classify"
	"github.com/zjrosen/shoal/internal/graph"
)

// Item is one node entry in a column.
type Item struct {
	Name  graph.Name
	State classify.State
}

// FilterValue implements list.Item.
func (i Item) FilterValue() string { return i.Name.String() }

// nodeDelegate renders nodes as single compact lines.
type nodeDelegate struct {
	focused *bool // pointer to column's focused state
	color   lipgloss.Color
}

func (d nodeDelegate) Height() int                             { return 1 }
func (d nodeDelegate) Spacing() int                            { return 0 }
func (d nodeDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render writes a node line with a selection cursor when the column
// has focus. Names are plain text, so go-runewidth is enough to keep
// them inside the column.
func (d nodeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	node, ok := item.(Item)
	if !ok {
		return
	}

	isSelected := index == m.Index() && d.focused != nil && *d.focused

	maxWidth := m.Width() - 2
	if maxWidth < 1 {
		maxWidth = 1
	}
	name := runewidth.Truncate(node.Name.String(), maxWidth, "…")

	nameStyle := lipgloss.NewStyle().Foreground(d.color)

	var line string
	if isSelected {
		line = selectionStyle.Render(">") + " " + nameStyle.Render(name)
	} else {
		line = "  " + nameStyle.Render(name)
	}

	_, _ = fmt.Fprint(w, line)
}

// Column represents a single board column holding nodes of one state.
type Column struct {
	title      string
	state      classify.State
	color      lipgloss.Color
	list       list.Model
	items      []Item
	width      int
	height     int
	focused    *bool // pointer so it survives value copies
	showCounts *bool // pointer so it survives value copies (nil = default true)
}

// NewColumn creates a column for the given display state.
func NewColumn(title string, state classify.State) Column {
	// Allocate focused state on heap so pointer survives copies
	focused := new(bool)
	color := stateColor(state)

	l := list.New([]list.Item{}, nodeDelegate{focused: focused, color: color}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return Column{
		title:   title,
		state:   state,
		color:   color,
		list:    l,
		focused: focused,
	}
}

// State returns the display state this column holds.
func (c Column) State() classify.State {
	return c.state
}

// SetSize updates column dimensions.
func (c Column) SetSize(width, height int) Column {
	c.width = width
	c.height = height

	// Fit the list inside the borders
	listWidth := width - 2
	if listWidth < 1 {
		listWidth = 1
	}
	listHeight := height - 2
	if listHeight < 1 {
		listHeight = 1
	}
	c.list.SetSize(listWidth, listHeight)
	return c
}

// SetFocused sets whether this column is focused.
func (c Column) SetFocused(focused bool) Column {
	*c.focused = focused
	return c
}

// SetItems populates the column.
func (c Column) SetItems(items []Item) Column {
	c.items = items
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}
	c.list.SetItems(listItems)
	return c
}

// SetShowCounts sets whether to display counts in the column title.
func (c Column) SetShowCounts(show bool) Column {
	if c.showCounts == nil {
		c.showCounts = new(bool)
	}
	*c.showCounts = show
	return c
}

// SelectedItem returns the currently selected node.
func (c Column) SelectedItem() *Item {
	if item := c.list.SelectedItem(); item != nil {
		node := item.(Item)
		return &node
	}
	return nil
}

// Items returns all nodes in the column.
func (c Column) Items() []Item {
	return c.items
}

// Update handles messages.
func (c Column) Update(msg tea.Msg) (Column, tea.Cmd) {
	var cmd tea.Cmd
	c.list, cmd = c.list.Update(msg)
	return c, cmd
}

// Title returns the formatted title with optional count for border rendering.
func (c Column) Title() string {
	if c.showCounts != nil && !*c.showCounts {
		return c.title
	}
	return fmt.Sprintf("%s (%d)", c.title, len(c.items))
}

// View renders the column content (border applied by the board).
func (c Column) View() string {
	if len(c.items) == 0 {
		return emptyStyle.Render("No nodes")
	}
	return c.list.View()
}

// Color returns the column's accent color.
func (c Column) Color() lipgloss.Color {
	return c.color
}
