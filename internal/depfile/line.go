package depfile

import "strings"

// hasMarker reports whether the line is a marker line. The check is on
// the first byte: an indented dash does not count.
func hasMarker(line string) bool {
	return strings.HasPrefix(line, "-")
}

// isEdgeLine reports whether the line declares a dependency.
func isEdgeLine(line string) bool {
	return hasMarker(line) && strings.Contains(line, "->")
}

// isNodeLine reports whether the line declares a node. Lines of nothing
// but dashes and whitespace are dividers, not declarations.
func isNodeLine(line string) bool {
	if !hasMarker(line) || isEdgeLine(line) {
		return false
	}
	return strings.TrimSpace(strings.ReplaceAll(line, "-", "")) != ""
}

// isCommentStart reports whether the line opens a comment block.
func isCommentStart(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), `"`)
}

// trimMarker strips the single leading dash and surrounding whitespace.
func trimMarker(line string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, "-"))
}

// declName extracts the node name from a declaration line. The complete
// tag is stripped only when it leads the name; anywhere else it stays
// part of the name while still marking the node complete.
func declName(line string) string {
	body := trimMarker(line)
	if strings.HasPrefix(body, completeTag) {
		body = strings.TrimSpace(strings.TrimPrefix(body, completeTag))
	}
	return body
}
