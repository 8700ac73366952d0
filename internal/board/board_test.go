package board

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/shoal/internal/classify"
	"github.com/zjrosen/shoal/internal/depfile"
	"github.com/zjrosen/shoal/internal/graph"
	"github.com/zjrosen/shoal/internal/log"
)

func init() {
	// Force ANSI color output in tests (lipgloss disables colors when no TTY)
	lipgloss.SetColorProfile(termenv.ANSI256)
}

const boardFixture = `- [complete] order pellets
- [complete] feed fish
"soak pellets first"
- await water test
- clean filter
- scrub pond walls

- order pellets -> feed fish
- feed fish -> await water test
- feed fish -> clean filter
- clean filter -> scrub pond walls
`

func fixtureSnapshot(t *testing.T) Snapshot {
	t.Helper()
	doc, err := depfile.Parse(strings.NewReader(boardFixture), depfile.DefaultOptions())
	require.NoError(t, err)
	g := graph.Build(doc.Edges)
	return Snapshot{Doc: doc, Graph: g, Set: classify.Run(g, doc.Completed())}
}

func fixtureModel(t *testing.T) Model {
	t.Helper()
	snap := fixtureSnapshot(t)
	m := New(func() (Snapshot, error) { return snap, nil })
	updated, _ := m.Update(SnapshotMsg{Snap: snap})
	return updated.(Model)
}

func TestBoard_New_DefaultFocus(t *testing.T) {
	m := New(nil)
	require.Equal(t, ColNext, m.FocusedColumn(), "expected default focus on Next column")
}

func TestBoard_Snapshot_BucketsByState(t *testing.T) {
	m := fixtureModel(t)

	next := m.Column(ColNext).Items()
	require.Len(t, next, 1)
	require.Equal(t, "clean filter", next[0].Name.String())

	awaiting := m.Column(ColAwaiting).Items()
	require.Len(t, awaiting, 1)
	require.Equal(t, "await water test", awaiting[0].Name.String())

	pending := m.Column(ColPending).Items()
	require.Len(t, pending, 1)
	require.Equal(t, "scrub pond walls", pending[0].Name.String())

	complete := m.Column(ColComplete).Items()
	require.Len(t, complete, 2)
	require.Equal(t, "order pellets", complete[0].Name.String())
	require.Equal(t, "feed fish", complete[1].Name.String())
}

func TestBoard_NavigateRight(t *testing.T) {
	m := fixtureModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	require.Equal(t, ColAwaiting, updated.(Model).FocusedColumn(), "expected Awaiting after 'l'")
}

func TestBoard_NavigateLeft(t *testing.T) {
	m := fixtureModel(t).SetFocus(ColPending)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	require.Equal(t, ColAwaiting, updated.(Model).FocusedColumn(), "expected Awaiting after 'h'")
}

func TestBoard_NavigateBoundaries(t *testing.T) {
	m := fixtureModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	require.Equal(t, ColNext, updated.(Model).FocusedColumn(), "expected to stay at left boundary")

	m = fixtureModel(t).SetFocus(ColComplete)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	require.Equal(t, ColComplete, updated.(Model).FocusedColumn(), "expected to stay at right boundary")
}

func TestBoard_SetFocus_InvalidIndex(t *testing.T) {
	m := fixtureModel(t)
	original := m.FocusedColumn()
	m = m.SetFocus(100)
	require.Equal(t, original, m.FocusedColumn(), "expected focus to remain for invalid index")
}

func TestBoard_ParseErrorKeepsSnapshot(t *testing.T) {
	m := fixtureModel(t).SetSize(120, 40)

	updated, _ := m.Update(SnapshotMsg{Err: errors.New("duplicate node \"feed fish\" (line 7)")})
	m = updated.(Model)

	require.Error(t, m.Err())
	require.Len(t, m.Column(ColComplete).Items(), 2, "last good snapshot retained")

	out := ansi.Strip(m.View())
	require.Contains(t, out, "duplicate node")
	require.Contains(t, out, "showing last good snapshot")
}

func TestBoard_SnapshotClearsError(t *testing.T) {
	m := fixtureModel(t)

	updated, _ := m.Update(SnapshotMsg{Err: errors.New("unterminated comment block (line 3)")})
	m = updated.(Model)
	require.Error(t, m.Err())

	updated, _ = m.Update(SnapshotMsg{Snap: fixtureSnapshot(t)})
	m = updated.(Model)
	require.NoError(t, m.Err())
}

func TestBoard_RefreshSchedulesReload(t *testing.T) {
	m := fixtureModel(t)
	_, cmd := m.Update(RefreshMsg{})
	require.NotNil(t, cmd, "refresh should schedule a reload")
}

func TestBoard_ManualRefreshKey(t *testing.T) {
	m := fixtureModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, SnapshotMsg{}, msg, "'r' should run the loader")
}

func TestBoard_QuitKey(t *testing.T) {
	m := fixtureModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBoard_HelpToggle(t *testing.T) {
	m := fixtureModel(t)
	require.False(t, m.help.ShowAll)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = updated.(Model)
	require.True(t, m.help.ShowAll)
}

func TestBoard_LogEventUpdatesFooter(t *testing.T) {
	m := fixtureModel(t).SetSize(120, 40)

	updated, _ := m.Update(log.LogEvent{Payload: "12:00:00 [WARN] [parse] skipped line line=4\n"})
	m = updated.(Model)

	require.Contains(t, ansi.Strip(m.View()), "skipped line")
}

func TestBoard_View_Loading(t *testing.T) {
	m := New(nil).SetSource("deps.txt").SetSize(80, 24)
	require.Contains(t, ansi.Strip(m.View()), "Loading deps.txt")
}

func TestBoard_View_ShowsColumnsAndDetail(t *testing.T) {
	m := fixtureModel(t).SetSize(120, 40)

	out := ansi.Strip(m.View())
	require.Contains(t, out, "Next (1)")
	require.Contains(t, out, "Awaiting (1)")
	require.Contains(t, out, "Pending (1)")
	require.Contains(t, out, "Complete (2)")

	// Focused column is Next; its selection drives the detail pane
	require.Contains(t, out, "needs:")
	require.Contains(t, out, "unlocks:")
	require.Contains(t, out, "scrub pond walls")
}

func TestBoard_DetailShowsComment(t *testing.T) {
	m := fixtureModel(t).SetSize(120, 40).SetFocus(ColComplete)

	// Move selection from "order pellets" to "feed fish"
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = updated.(Model)

	require.Contains(t, ansi.Strip(m.View()), "soak pellets first")
}

func TestBoard_ShowCountsDisabled(t *testing.T) {
	snap := fixtureSnapshot(t)
	m := New(func() (Snapshot, error) { return snap, nil }).SetShowCounts(false)
	updated, _ := m.Update(SnapshotMsg{Snap: snap})
	m = updated.(Model).SetSize(120, 40)

	out := ansi.Strip(m.View())
	require.Contains(t, out, "Next")
	require.NotContains(t, out, "Next (1)")
}

func TestBoard_EndToEnd(t *testing.T) {
	snap := fixtureSnapshot(t)
	m := New(func() (Snapshot, error) { return snap, nil }).SetSource("deps.txt")

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Awaiting"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
