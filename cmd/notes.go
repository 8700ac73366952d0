package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/shoal/internal/config"
	"github.com/zjrosen/shoal/internal/depfile"
	"github.com/zjrosen/shoal/internal/log"
	"github.com/zjrosen/shoal/internal/render"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Render the deps file's prose as markdown",
	Long: `Everything in a deps file that is not a marker line or a comment
block is free-form documentation. This renders those lines as markdown
in the terminal, in their original casing.

The color scheme follows ui.markdown_style in the config (dark or
light).`,
	RunE: runNotes,
}

func init() {
	rootCmd.AddCommand(notesCmd)
}

func runNotes(cmd *cobra.Command, args []string) error {
	cleanup, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	doc, err := depfile.ParseFile(cfg.DepsFile, depfile.Options{WrapWidth: cfg.WrapWidth})
	if err != nil {
		log.ErrorErr(log.CatParse, "parse failed", err, "file", cfg.DepsFile)
		return err
	}
	for _, diag := range doc.Diags {
		log.Warn(log.CatParse, "skipped line",
			"line", diag.Line, "reason", diag.Reason, "text", diag.Text)
	}

	f := render.NewFormatter(os.Stdout, palette())
	return f.Notes(doc.Prose, cfg.UI.MarkdownStyle)
}
