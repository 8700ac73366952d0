package depfile

import (
	"fmt"

	"github.com/zjrosen/shoal/internal/graph"
)

// DuplicateNodeError reports a node declared more than once.
// Parse returns it instead of picking a winner.
type DuplicateNodeError struct {
	Name graph.Name
	// Line is the second declaration's 1-based line number.
	Line int
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("duplicate node declaration %q at line %d", e.Name, e.Line)
}

// UnterminatedCommentError reports a comment block with no closing quote
// before end of file.
type UnterminatedCommentError struct {
	// Line is the 1-based line number where the block opened.
	Line int
}

func (e *UnterminatedCommentError) Error() string {
	return fmt.Sprintf("comment block starting at line %d is never closed", e.Line)
}
