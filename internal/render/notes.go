package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
)

// notesStyle removes document margins so notes line up with the
// terminal's left edge.
const notesStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// NotesWidth is the word-wrap width for rendered notes.
const NotesWidth = 80

// Notes renders the deps file's free-form documentation lines as
// markdown. style is "dark" or "light"; empty defaults to dark.
// WithStylePath is used instead of WithAutoStyle because the latter
// queries the terminal background and the response can leak into the
// output stream.
func (f *Formatter) Notes(prose []string, style string) error {
	if style == "" {
		style = "dark"
	}

	source := strings.TrimSpace(strings.Join(prose, "\n"))
	if source == "" {
		return nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(notesStyle)),
		glamour.WithWordWrap(NotesWidth),
	)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}

	rendered, err := r.Render(source)
	if err != nil {
		return fmt.Errorf("rendering notes: %w", err)
	}

	_, err = io.WriteString(f.w, rendered)
	return err
}
