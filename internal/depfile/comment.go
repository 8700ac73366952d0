package depfile

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// dotNewline terminates and left-justifies a line inside a DOT label.
const dotNewline = `\l`

// readComment consumes the comment block starting at lines[start] and
// returns the assembled DOT-label comment plus the index of the first
// line after the block.
//
// Each physical line is word-wrapped at width; the block ends on the
// line whose last wrapped segment ends with a quote. Blank lines inside
// a block contribute nothing and do not close it. All quote characters
// are stripped from the result and a trailing line terminator is
// appended.
func readComment(lines []string, start, width int) (string, int, error) {
	var segments []string
	i := start
	for {
		if i >= len(lines) {
			return "", 0, &UnterminatedCommentError{Line: start + 1}
		}
		segments = append(segments, wrapSegments(lines[i], width)...)
		if len(segments) > 0 && strings.HasSuffix(segments[len(segments)-1], `"`) {
			break
		}
		i++
	}

	joined := strings.Join(segments, dotNewline)
	joined = strings.ReplaceAll(joined, `"`, "")
	return joined + dotNewline, i + 1, nil
}

// wrapSegments word-wraps one physical line.
// Whitespace runs collapse to single spaces; a blank line yields nothing.
func wrapSegments(line string, width int) []string {
	normalized := strings.Join(strings.Fields(line), " ")
	if normalized == "" {
		return nil
	}
	return strings.Split(wordwrap.String(normalized, width), "\n")
}

// CommentLines splits a stored DOT-form comment back into its display
// lines. Returns nil for an empty comment.
func CommentLines(comment string) []string {
	if comment == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(comment, dotNewline), dotNewline)
}
