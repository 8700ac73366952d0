// Package depfile parses plain-text dependency files.
//
// A deps file mixes three kinds of content. Lines whose first byte is "-"
// are markers: an edge line ("- a -> b") declares a dependency, any other
// marker line declares a node, optionally tagged "[complete]". A node
// declaration may be followed immediately by a quoted comment block that
// continues until a line ends with a quote. Everything else is free-form
// documentation and is ignored.
//
// The whole file is case-insensitive: every line is lowercased before any
// other processing.
package depfile

import (
	"fmt"

	"github.com/zjrosen/shoal/internal/graph"
)

// DefaultPath is the deps file read when no override is given.
const DefaultPath = "deps.txt"

// DefaultWrapWidth is the word-wrap width for comment blocks.
const DefaultWrapWidth = 30

// completeTag marks a declared node as finished. Detection is a substring
// check anywhere in the line; the tag is stripped from the name only when
// it leads the declaration.
const completeTag = "[complete]"

// Options configures parsing.
type Options struct {
	// WrapWidth is the word-wrap width for comment blocks.
	// Values < 1 fall back to DefaultWrapWidth.
	WrapWidth int
}

// DefaultOptions returns the standard parse options.
func DefaultOptions() Options {
	return Options{WrapWidth: DefaultWrapWidth}
}

// Decl is a parsed node declaration.
type Decl struct {
	Name     graph.Name
	Complete bool
	// Comment is the wrapped comment block in DOT label form: segments
	// joined with `\l` and a trailing `\l`, quotes stripped. Empty when
	// the declaration has no comment.
	Comment string
	// Line is the 1-based line number of the declaration.
	Line int
}

// Diagnostic reports a line the parser skipped or found suspicious.
// Diagnostics never affect rendered output; they exist so skips are
// observable instead of silent.
type Diagnostic struct {
	Line   int
	Reason string
	Text   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %q", d.Line, d.Reason, d.Text)
}

// Document is the parse result. It is immutable once returned.
type Document struct {
	// Edges holds one entry per edge expression in input order,
	// duplicates included. Graph construction collapses them; the DOT
	// renderer prints them verbatim.
	Edges []graph.Edge
	// Decls holds node declarations in declaration order.
	Decls []Decl
	// Prose holds the ignored free-form lines in their original casing,
	// blank lines included.
	Prose []string
	// Diags holds parse diagnostics in line order.
	Diags []Diagnostic

	declIdx map[graph.Name]int
}

// Decl returns the declaration for name, if any.
func (d *Document) Decl(name graph.Name) (Decl, bool) {
	i, ok := d.declIdx[name]
	if !ok {
		return Decl{}, false
	}
	return d.Decls[i], true
}

// Completed returns the set of names declared complete.
func (d *Document) Completed() map[graph.Name]bool {
	marks := make(map[graph.Name]bool, len(d.Decls))
	for _, decl := range d.Decls {
		if decl.Complete {
			marks[decl.Name] = true
		}
	}
	return marks
}

// Comment returns the wrapped comment for name, or "" when the name was
// never declared or declared without one.
func (d *Document) Comment(name graph.Name) string {
	decl, ok := d.Decl(name)
	if !ok {
		return ""
	}
	return decl.Comment
}
