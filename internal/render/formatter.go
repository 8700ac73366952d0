// Package render turns a parsed deps file, its graph, and its
// classification into the tool's output documents: the DOT graph
// description, the todo lists, machine-readable exports, and rendered
// notes.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zjrosen/shoal/internal/classify"
	"github.com/zjrosen/shoal/internal/graph"
)

// ErrRootNotFound reports a focus root that is not part of the graph.
var ErrRootNotFound = errors.New("focus root not found in graph")

// Palette maps display states to DOT fill colors.
type Palette struct {
	Complete string
	Waiting  string
	Next     string
	Pending  string
}

// DefaultPalette returns the standard colors.
func DefaultPalette() Palette {
	return Palette{
		Complete: "lightgrey",
		Waiting:  "lightblue",
		Next:     "green",
		Pending:  "white",
	}
}

func (p Palette) color(s classify.State) string {
	switch s {
	case classify.StateComplete:
		return p.Complete
	case classify.StateWaiting:
		return p.Waiting
	case classify.StateNext:
		return p.Next
	default:
		return p.Pending
	}
}

// Formatter writes rendered output to a single destination.
type Formatter struct {
	w       io.Writer
	palette Palette
}

// NewFormatter creates a formatter writing to w.
func NewFormatter(w io.Writer, palette Palette) *Formatter {
	return &Formatter{w: w, palette: palette}
}

// TodoList writes the next-and-not-waiting nodes.
func (f *Formatter) TodoList(set *classify.Set) error {
	return f.list("TODO list:", set.Todo())
}

// AwaitingList writes the next-and-waiting nodes.
func (f *Formatter) AwaitingList(set *classify.Set) error {
	return f.list("Currently awaiting:", set.Awaiting())
}

// FocusList writes the next direct successors of root, waiting ones
// included. Returns ErrRootNotFound when root is not in the graph.
func (f *Formatter) FocusList(g *graph.Graph, set *classify.Set, root graph.Name) error {
	if !g.Has(root) {
		return fmt.Errorf("%w: %q", ErrRootNotFound, root)
	}

	var names []graph.Name
	for _, succ := range g.Successors(root) {
		if rec, ok := set.Record(succ); ok && rec.Next {
			names = append(names, succ)
		}
	}
	return f.list(focusHeader(root), names)
}

func (f *Formatter) list(header string, names []graph.Name) error {
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for _, n := range names {
		fmt.Fprintf(&b, " - %s\n", n)
	}
	_, err := io.WriteString(f.w, b.String())
	return err
}

func focusHeader(root graph.Name) string {
	return titleFirst(root.String()) + " TODO list:"
}

func titleFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
