package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zjrosen/shoal/internal/board"
	"github.com/zjrosen/shoal/internal/classify"
	"github.com/zjrosen/shoal/internal/config"
	"github.com/zjrosen/shoal/internal/depfile"
	"github.com/zjrosen/shoal/internal/graph"
	"github.com/zjrosen/shoal/internal/log"
	"github.com/zjrosen/shoal/internal/watcher"
)

var noAutoRefresh bool

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Interactive board of the deps file",
	Long: `Open an interactive four-column board: Next, Awaiting, Pending,
and Complete. Selecting a task shows its comment and its direct
dependencies.

The board reloads automatically when the deps file changes on disk
(disable with --no-auto-refresh or auto_refresh: false in the config).
A parse error keeps the last good snapshot on screen.`,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)

	boardCmd.Flags().BoolVar(&noAutoRefresh, "no-auto-refresh", false,
		"disable reloading when the deps file changes")
}

func runBoard(cmd *cobra.Command, args []string) error {
	// Board logging goes through tea.LogToFile so bubbletea's own
	// messages land in the same file as ours.
	if os.Getenv("SHOAL_DEBUG") != "" || debugFlag {
		logPath := os.Getenv("SHOAL_LOG")
		if logPath == "" {
			logPath = "shoal-debug.log"
		}
		cleanup, err := log.InitWithTeaLog(logPath, "shoal-board")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		defer cleanup()
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	depsPath := cfg.DepsFile
	wrapWidth := cfg.WrapWidth
	loader := func() (board.Snapshot, error) {
		doc, err := depfile.ParseFile(depsPath, depfile.Options{WrapWidth: wrapWidth})
		if err != nil {
			return board.Snapshot{}, err
		}
		for _, diag := range doc.Diags {
			log.Warn(log.CatParse, "skipped line",
				"line", diag.Line, "reason", diag.Reason, "text", diag.Text)
		}
		g := graph.Build(doc.Edges)
		return board.Snapshot{Doc: doc, Graph: g, Set: classify.Run(g, doc.Completed())}, nil
	}

	model := board.New(loader).
		SetSource(depsPath).
		SetShowCounts(cfg.UI.ShowCounts)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if cfg.AutoRefresh && !noAutoRefresh {
		w, err := watcher.New(watcher.DefaultConfig(depsPath))
		if err != nil {
			return fmt.Errorf("watching deps file: %w", err)
		}
		changes, err := w.Start()
		if err != nil {
			return fmt.Errorf("watching deps file: %w", err)
		}
		defer func() { _ = w.Stop() }()
		model = model.SetChanges(changes)
	}

	// Nil when --debug is off; the board simply shows no footer log line.
	if listener := log.NewListener(ctx); listener != nil {
		model = model.SetLogs(listener)
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running board: %w", err)
	}
	return nil
}
