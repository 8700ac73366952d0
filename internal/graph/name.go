// Package graph provides the directed dependency graph and the node
// identity type shared by the parsing, classification, and rendering layers.
package graph

import (
	"errors"
	"strings"
)

// Name errors
var (
	ErrEmptyName = errors.New("empty node name")
)

// awaitPrefix marks nodes that represent waiting on something external.
const awaitPrefix = "await"

// Name is the canonical identity of a node: lowercased and
// whitespace-trimmed. Two raw spellings that normalize to the same string
// are the same node.
type Name string

// NewName normalizes raw into a Name.
// Returns ErrEmptyName if nothing remains after normalization.
func NewName(raw string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(raw)))
	if n == "" {
		return "", ErrEmptyName
	}
	return n, nil
}

func (n Name) String() string {
	return string(n)
}

// IsAwaiting reports whether the name carries the awaiting prefix.
func (n Name) IsAwaiting() bool {
	return strings.HasPrefix(string(n), awaitPrefix)
}
