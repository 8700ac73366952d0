package depfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zjrosen/shoal/internal/graph"
)

// Parse reads a deps file from r.
//
// Duplicate node declarations and unterminated comment blocks are fatal.
// Anything else the parser cannot understand is skipped and recorded as
// a diagnostic; rendered output never mentions skips.
func Parse(r io.Reader, opts Options) (*Document, error) {
	width := opts.WrapWidth
	if width < 1 {
		width = DefaultWrapWidth
	}

	var raw []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw = append(raw, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading deps file: %w", err)
	}

	// The whole file is case-insensitive.
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.ToLower(l)
	}

	doc := &Document{declIdx: make(map[graph.Name]int)}

	i := 0
	for i < len(lines) {
		line := lines[i]
		switch {
		case isEdgeLine(line):
			doc.parseEdge(line, i+1)
			i++
		case isNodeLine(line):
			next, err := doc.parseDecl(lines, i, width)
			if err != nil {
				return nil, err
			}
			i = next
		default:
			// Dash-only dividers are structure; everything else is
			// documentation, kept in its original casing.
			if !hasMarker(line) {
				doc.Prose = append(doc.Prose, raw[i])
			}
			i++
		}
	}

	return doc, nil
}

// ParseFile reads and parses the deps file at path.
func ParseFile(path string, opts Options) (*Document, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is the user's own deps file
	if err != nil {
		return nil, fmt.Errorf("opening deps file: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// parseEdge records one edge expression. Malformed expressions are
// skipped with a diagnostic rather than producing phantom nodes.
func (doc *Document) parseEdge(line string, lineNo int) {
	body := trimMarker(line)
	parent, child, found := strings.Cut(body, "->")
	if !found {
		// The only arrow sat inside the leading marker run ("-> x").
		doc.diag(lineNo, "edge without arrow", line)
		return
	}

	p, perr := graph.NewName(parent)
	c, cerr := graph.NewName(child)
	if perr != nil || cerr != nil {
		doc.diag(lineNo, "edge endpoint is empty", line)
		return
	}

	doc.Edges = append(doc.Edges, graph.Edge{Parent: p, Child: c})
}

// parseDecl consumes a node declaration and its optional comment block.
// Returns the index of the first unconsumed line.
func (doc *Document) parseDecl(lines []string, i, width int) (int, error) {
	line := lines[i]
	lineNo := i + 1

	name, err := graph.NewName(declName(line))
	if err != nil {
		doc.diag(lineNo, "declaration without name", line)
		return i + 1, nil
	}
	if _, dup := doc.declIdx[name]; dup {
		return 0, &DuplicateNodeError{Name: name, Line: lineNo}
	}

	decl := Decl{
		Name:     name,
		Complete: strings.Contains(line, completeTag),
		Line:     lineNo,
	}

	next := i + 1
	if next < len(lines) && isCommentStart(lines[next]) {
		comment, after, err := readComment(lines, next, width)
		if err != nil {
			return 0, err
		}
		decl.Comment = comment
		next = after
	}

	doc.declIdx[name] = len(doc.Decls)
	doc.Decls = append(doc.Decls, decl)
	return next, nil
}

func (doc *Document) diag(line int, reason, text string) {
	doc.Diags = append(doc.Diags, Diagnostic{
		Line:   line,
		Reason: reason,
		Text:   strings.TrimSpace(text),
	})
}
