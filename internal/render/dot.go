package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/zjrosen/shoal/internal/classify"
	"github.com/zjrosen/shoal/internal/depfile"
)

// DOT writes the graph-description document.
//
// The edge section prints one line per edge expression in input order,
// duplicates included; the node section follows in first-mention order.
// Node labels are the name, a blank label line, then the wrapped comment.
func (f *Formatter) DOT(doc *depfile.Document, set *classify.Set) error {
	var b strings.Builder

	b.WriteString("digraph G {\n")
	b.WriteString("rankdir=\"LR\"\n")
	b.WriteByte('\n')

	for _, e := range doc.Edges {
		fmt.Fprintf(&b, "   \"%s\" -> \"%s\"\n", e.Parent, e.Child)
	}

	for _, r := range set.Records() {
		fmt.Fprintf(&b, "    \"%s\" [label=\"%s\\l\\l%s\",style=filled,fillcolor=%s]\n",
			r.Name, r.Name, doc.Comment(r.Name), f.palette.color(r.State()))
	}

	b.WriteString("}\n")

	_, err := io.WriteString(f.w, b.String())
	return err
}
