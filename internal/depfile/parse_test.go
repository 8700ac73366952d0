package depfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/shoal/internal/graph"
)

func parse(t *testing.T, input string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(input), DefaultOptions())
	require.NoError(t, err)
	return doc
}

func TestParseEdges(t *testing.T) {
	doc := parse(t, strings.Join([]string{
		"- dig pond -> line pond",
		"- line pond -> fill pond",
		"- dig pond -> line pond", // duplicate expression is kept
	}, "\n"))

	require.Equal(t, []graph.Edge{
		{Parent: "dig pond", Child: "line pond"},
		{Parent: "line pond", Child: "fill pond"},
		{Parent: "dig pond", Child: "line pond"},
	}, doc.Edges)
	require.Empty(t, doc.Diags)
}

func TestParseCaseFolding(t *testing.T) {
	doc := parse(t, strings.Join([]string{
		"- Dig Pond -> LINE POND",
		"- [COMPLETE] Dig Pond",
	}, "\n"))

	require.Equal(t, []graph.Edge{{Parent: "dig pond", Child: "line pond"}}, doc.Edges)
	require.Len(t, doc.Decls, 1)
	require.Equal(t, graph.Name("dig pond"), doc.Decls[0].Name)
	require.True(t, doc.Decls[0].Complete)
}

func TestParseDecls(t *testing.T) {
	tests := []struct {
		name         string
		line         string
		wantName     graph.Name
		wantComplete bool
	}{
		{
			name:     "plain declaration",
			line:     "- feed fish",
			wantName: "feed fish",
		},
		{
			name:         "leading tag is stripped from the name",
			line:         "- [complete] feed fish",
			wantName:     "feed fish",
			wantComplete: true,
		},
		{
			name:         "trailing tag stays in the name but still marks complete",
			line:         "- feed fish [complete]",
			wantName:     "feed fish [complete]",
			wantComplete: true,
		},
		{
			name:     "extra dashes inside the name survive",
			line:     "- feed fish -- morning",
			wantName: "feed fish -- morning",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.line)

			require.Len(t, doc.Decls, 1)
			require.Equal(t, tt.wantName, doc.Decls[0].Name)
			require.Equal(t, tt.wantComplete, doc.Decls[0].Complete)
			require.Equal(t, 1, doc.Decls[0].Line)
		})
	}
}

func TestParseDuplicateDeclarationFatal(t *testing.T) {
	_, err := Parse(strings.NewReader(strings.Join([]string{
		"- feed fish",
		"some prose",
		"- [complete] feed fish",
	}, "\n")), DefaultOptions())

	var dup *DuplicateNodeError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, graph.Name("feed fish"), dup.Name)
	require.Equal(t, 3, dup.Line)
}

func TestParseSkipsMalformedLines(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantReason string
	}{
		{name: "bare arrow", line: "- ->", wantReason: "edge endpoint is empty"},
		{name: "missing child", line: "- dig pond ->", wantReason: "edge endpoint is empty"},
		{name: "missing parent", line: "- -> dig pond", wantReason: "edge endpoint is empty"},
		{name: "arrow swallowed by marker", line: "-> dig pond", wantReason: "edge without arrow"},
		{name: "tag-only declaration", line: "- [complete]", wantReason: "declaration without name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.line)

			require.Empty(t, doc.Edges)
			require.Empty(t, doc.Decls)
			require.Len(t, doc.Diags, 1)
			assert.Equal(t, 1, doc.Diags[0].Line)
			assert.Equal(t, tt.wantReason, doc.Diags[0].Reason)
		})
	}
}

func TestParseIgnoredLines(t *testing.T) {
	doc := parse(t, strings.Join([]string{
		"# Pond Plan",
		"",
		"- dig pond -> line pond",
		"-----",
		"- ",
		"Notes go Here.",
		"  - indented dash is prose",
	}, "\n"))

	require.Len(t, doc.Edges, 1)
	require.Empty(t, doc.Decls)
	// Prose keeps original casing and blank lines; dividers and marker
	// lines are dropped.
	require.Equal(t, []string{
		"# Pond Plan",
		"",
		"Notes go Here.",
		"  - indented dash is prose",
	}, doc.Prose)
}

func TestParseSplitsOnFirstArrow(t *testing.T) {
	doc := parse(t, "- a -> b -> c")

	require.Equal(t, []graph.Edge{{Parent: "a", Child: "b -> c"}}, doc.Edges)
}

func TestParseEdgeKeepsTagInName(t *testing.T) {
	// A tag on an edge line never marks anything complete; it is just
	// part of the child's name.
	doc := parse(t, "- a -> b [complete]")

	require.Equal(t, []graph.Edge{{Parent: "a", Child: "b [complete]"}}, doc.Edges)
	require.Empty(t, doc.Completed())
}

func TestParseCommentSingleLine(t *testing.T) {
	doc := parse(t, strings.Join([]string{
		"- feed fish",
		`"soak pellets first"`,
	}, "\n"))

	require.Len(t, doc.Decls, 1)
	require.Equal(t, `soak pellets first\l`, doc.Decls[0].Comment)
}

func TestParseCommentWrapsAtWidth(t *testing.T) {
	doc := parse(t, strings.Join([]string{
		"- feed fish",
		`"one two three four five six seven"`,
	}, "\n"))

	// The opening quote counts toward the width; quotes vanish from the
	// final text.
	require.Equal(t, `one two three four five six\lseven\l`, doc.Comment("feed fish"))
}

func TestParseCommentMultiLine(t *testing.T) {
	doc := parse(t, strings.Join([]string{
		"- feed fish",
		`"first part`,
		"",
		`and done"`,
	}, "\n"))

	require.Equal(t, `first part\land done\l`, doc.Comment("feed fish"))
}

func TestParseCommentConsumesItsLines(t *testing.T) {
	// A continuation line that happens to look like an edge belongs to
	// the comment, not the graph.
	doc := parse(t, strings.Join([]string{
		"- feed fish",
		`"start of note`,
		`- a -> b continues the note"`,
	}, "\n"))

	require.Empty(t, doc.Edges)
	require.Contains(t, doc.Comment("feed fish"), "continues the")
}

func TestParseCommentMustFollowDeclaration(t *testing.T) {
	// A quoted line with anything between it and the declaration is
	// prose, not a comment.
	doc := parse(t, strings.Join([]string{
		"- feed fish",
		"",
		`"not a comment"`,
	}, "\n"))

	require.Empty(t, doc.Comment("feed fish"))
	require.Equal(t, []string{"", `"not a comment"`}, doc.Prose)
}

func TestParseUnterminatedCommentFatal(t *testing.T) {
	_, err := Parse(strings.NewReader(strings.Join([]string{
		"- feed fish",
		`"never closed`,
		"more words",
	}, "\n")), DefaultOptions())

	var unterminated *UnterminatedCommentError
	require.ErrorAs(t, err, &unterminated)
	require.Equal(t, 2, unterminated.Line)
}

func TestParseCustomWrapWidth(t *testing.T) {
	doc, err := Parse(strings.NewReader(strings.Join([]string{
		"- x",
		`"alpha beta gamma"`,
	}, "\n")), Options{WrapWidth: 12})
	require.NoError(t, err)

	require.Equal(t, `alpha beta\lgamma\l`, doc.Comment("x"))
}

func TestParseEmptyInput(t *testing.T) {
	doc := parse(t, "")

	require.Empty(t, doc.Edges)
	require.Empty(t, doc.Decls)
	require.Empty(t, doc.Prose)
	require.Empty(t, doc.Diags)
}

func TestDocumentHelpers(t *testing.T) {
	doc := parse(t, strings.Join([]string{
		"- [complete] dig pond",
		"- feed fish",
		`"pellets"`,
	}, "\n"))

	require.Equal(t, map[graph.Name]bool{"dig pond": true}, doc.Completed())

	decl, ok := doc.Decl("feed fish")
	require.True(t, ok)
	require.Equal(t, `pellets\l`, decl.Comment)

	_, ok = doc.Decl("missing")
	require.False(t, ok)
	require.Empty(t, doc.Comment("missing"))
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deps.txt")
	require.NoError(t, os.WriteFile(path, []byte("- a -> b\n"), 0o600))

	doc, err := ParseFile(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, doc.Edges, 1)

	_, err = ParseFile(filepath.Join(dir, "absent.txt"), DefaultOptions())
	require.Error(t, err)
	require.True(t, os.IsNotExist(errors.Unwrap(err)))
}

// Arbitrary input never panics: parsing either fails with one of the two
// fatal error types or yields a document whose invariants hold.
func TestParseArbitraryInput(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lineGen := rapid.StringMatching(`[- >"a-z\[\]\t]{0,20}`)
		lines := rapid.SliceOfN(lineGen, 0, 30).Draw(rt, "lines")

		doc, err := Parse(strings.NewReader(strings.Join(lines, "\n")), DefaultOptions())
		if err != nil {
			var dup *DuplicateNodeError
			var unterminated *UnterminatedCommentError
			if !errors.As(err, &dup) && !errors.As(err, &unterminated) {
				rt.Fatalf("unexpected error type: %v", err)
			}
			return
		}

		seen := make(map[graph.Name]bool)
		for _, decl := range doc.Decls {
			if decl.Name == "" {
				rt.Fatalf("declaration with empty name")
			}
			if seen[decl.Name] {
				rt.Fatalf("duplicate declaration %q survived", decl.Name)
			}
			seen[decl.Name] = true
		}
		for _, edge := range doc.Edges {
			if edge.Parent == "" || edge.Child == "" {
				rt.Fatalf("edge with empty endpoint: %+v", edge)
			}
		}
		for _, diag := range doc.Diags {
			if diag.Line < 1 || diag.Line > len(lines) {
				rt.Fatalf("diagnostic line %d out of range", diag.Line)
			}
		}
	})
}
