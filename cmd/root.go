package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/shoal/internal/classify"
	"github.com/zjrosen/shoal/internal/config"
	"github.com/zjrosen/shoal/internal/depfile"
	"github.com/zjrosen/shoal/internal/graph"
	"github.com/zjrosen/shoal/internal/log"
	"github.com/zjrosen/shoal/internal/render"
	"github.com/zjrosen/shoal/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config

	listNext     bool
	listAwaiting bool
	koiList      bool
)

var rootCmd = &cobra.Command{
	Use:   "shoal",
	Short: "Dependency-graph todo lists from a plain-text deps file",
	Long: `Shoal reads a plain-text deps file, builds the dependency graph it
describes, and works out which tasks are actionable: a task is "next"
when everything it depends on is complete, and "awaiting" when it is
next but named for something external (an "await ..." task).

By default the graph is rendered as a Graphviz DOT document on stdout:

  shoal | dot -Tpng > deps.png

The list flags swap the DOT document for a plain list and are mutually
exclusive:

  shoal --list-next         tasks ready to work on
  shoal --list-awaiting     tasks blocked on the outside world
  shoal --koi-list          ready tasks directly under the focus root`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .shoal/config.yaml, then ~/.config/shoal/config.yaml)")
	rootCmd.PersistentFlags().StringP("file", "f", "",
		"deps file to read (default: deps.txt)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write a diagnostic log (also enabled by SHOAL_DEBUG)")

	rootCmd.Flags().BoolVar(&listNext, "list-next", false,
		"print the todo list instead of the graph")
	rootCmd.Flags().BoolVar(&listAwaiting, "list-awaiting", false,
		"print the awaiting list instead of the graph")
	rootCmd.Flags().BoolVar(&koiList, "koi-list", false,
		"print the focus root's todo list instead of the graph")
	rootCmd.MarkFlagsMutuallyExclusive("list-next", "list-awaiting", "koi-list")

	// Bind flags to viper
	_ = viper.BindPFlag("deps_file", rootCmd.PersistentFlags().Lookup("file"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("deps_file", defaults.DepsFile)
	viper.SetDefault("focus_root", defaults.FocusRoot)
	viper.SetDefault("wrap_width", defaults.WrapWidth)
	viper.SetDefault("auto_refresh", defaults.AutoRefresh)
	viper.SetDefault("ui.show_counts", defaults.UI.ShowCounts)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("colors.complete", defaults.Colors.Complete)
	viper.SetDefault("colors.waiting", defaults.Colors.Waiting)
	viper.SetDefault("colors.next", defaults.Colors.Next)
	viper.SetDefault("colors.pending", defaults.Colors.Pending)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	// SHOAL_DEPS_FILE, SHOAL_UI_SHOW_COUNTS, ...
	viper.SetEnvPrefix("shoal")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .shoal/config.yaml (current directory)
		// 2. ~/.config/shoal/config.yaml (user config)
		if _, err := os.Stat(".shoal/config.yaml"); err == nil {
			viper.SetConfigFile(".shoal/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "shoal"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .shoal/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".shoal/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// initLogging turns on the diagnostic log when --debug or SHOAL_DEBUG is
// set. The returned cleanup is safe to call unconditionally.
func initLogging() (func(), error) {
	if os.Getenv("SHOAL_DEBUG") == "" && !debugFlag {
		return func() {}, nil
	}

	logPath := os.Getenv("SHOAL_LOG")
	if logPath == "" {
		logPath = "shoal-debug.log"
	}

	cleanup, err := log.Init(logPath)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "logging enabled", "run", log.RunID(), "file", viper.ConfigFileUsed())
	return cleanup, nil
}

// newTraceProvider builds the tracing provider from config. Disabled
// tracing yields a no-op provider, so callers never branch.
func newTraceProvider() (*tracing.Provider, error) {
	tcfg := tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     cfg.Tracing.FilePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		ServiceName:  "shoal",
		RunID:        log.RunID(),
	}
	if tcfg.FilePath == "" {
		tcfg.FilePath = config.DefaultTracesFilePath()
	}

	provider, err := tracing.NewProvider(tcfg)
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	return provider, nil
}

// shutdownProvider flushes buffered spans. Export failures are logged,
// not returned: a broken trace backend must not fail the run itself.
func shutdownProvider(provider *tracing.Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := provider.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatTrace, "trace shutdown failed", err)
	}
}

// pipeline holds the products of one full pass over the deps file.
type pipeline struct {
	doc *depfile.Document
	g   *graph.Graph
	set *classify.Set
}

// runPipeline parses the configured deps file, builds the graph, and
// classifies every node, with one child span per stage.
func runPipeline(ctx context.Context, tracer trace.Tracer) (pipeline, error) {
	_, loadSpan := tracer.Start(ctx, tracing.SpanLoad,
		trace.WithAttributes(attribute.String(tracing.AttrDepsFile, cfg.DepsFile)))
	doc, err := depfile.ParseFile(cfg.DepsFile, depfile.Options{WrapWidth: cfg.WrapWidth})
	if err != nil {
		loadSpan.RecordError(err)
		loadSpan.SetStatus(codes.Error, err.Error())
		loadSpan.End()
		log.ErrorErr(log.CatParse, "parse failed", err, "file", cfg.DepsFile)
		return pipeline{}, err
	}
	loadSpan.SetAttributes(
		attribute.Int(tracing.AttrExpressionCount, len(doc.Edges)),
		attribute.Int(tracing.AttrDeclCount, len(doc.Decls)),
		attribute.Int(tracing.AttrDiagnosticCount, len(doc.Diags)),
	)
	for _, diag := range doc.Diags {
		log.Warn(log.CatParse, "skipped line",
			"line", diag.Line, "reason", diag.Reason, "text", diag.Text)
		loadSpan.AddEvent(tracing.EventDiagnostic, trace.WithAttributes(
			attribute.Int("line", diag.Line),
			attribute.String("reason", diag.Reason),
		))
	}
	loadSpan.SetStatus(codes.Ok, "")
	loadSpan.End()

	_, buildSpan := tracer.Start(ctx, tracing.SpanBuild)
	g := graph.Build(doc.Edges)
	buildSpan.SetAttributes(
		attribute.Int(tracing.AttrNodeCount, g.NodeCount()),
		attribute.Int(tracing.AttrEdgeCount, g.EdgeCount()),
	)
	buildSpan.SetStatus(codes.Ok, "")
	buildSpan.End()

	// A declaration no edge mentions is invisible to the graph; that is
	// usually a typo in an edge line, so make it observable.
	for _, decl := range doc.Decls {
		if !g.Has(decl.Name) {
			log.Warn(log.CatGraph, "declaration unreferenced by any edge",
				"name", decl.Name.String(), "line", decl.Line)
		}
	}

	_, classifySpan := tracer.Start(ctx, tracing.SpanClassify)
	set := classify.Run(g, doc.Completed())
	var complete, next, waiting int
	for _, r := range set.Records() {
		switch {
		case r.Complete:
			complete++
		case r.Waiting:
			waiting++
		case r.Next:
			next++
		}
	}
	classifySpan.SetAttributes(
		attribute.Int(tracing.AttrCompleteCount, complete),
		attribute.Int(tracing.AttrNextCount, next),
		attribute.Int(tracing.AttrWaitingCount, waiting),
	)
	classifySpan.SetStatus(codes.Ok, "")
	classifySpan.End()

	log.Debug(log.CatClassify, "pipeline complete",
		"nodes", g.NodeCount(), "edges", g.EdgeCount(),
		"complete", complete, "next", next, "waiting", waiting)

	return pipeline{doc: doc, g: g, set: set}, nil
}

// palette maps the configured colors onto the renderer's palette.
func palette() render.Palette {
	return render.Palette{
		Complete: cfg.Colors.Complete,
		Waiting:  cfg.Colors.Waiting,
		Next:     cfg.Colors.Next,
		Pending:  cfg.Colors.Pending,
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	cleanup, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	provider, err := newTraceProvider()
	if err != nil {
		return err
	}
	defer shutdownProvider(provider)

	format := "dot"
	switch {
	case listNext:
		format = "todo"
	case listAwaiting:
		format = "awaiting"
	case koiList:
		format = "focus"
	}

	tracer := provider.Tracer()
	ctx, runSpan := tracer.Start(cmd.Context(), tracing.SpanRun, trace.WithAttributes(
		attribute.String(tracing.AttrRunID, log.RunID()),
		attribute.String(tracing.AttrDepsFile, cfg.DepsFile),
		attribute.String(tracing.AttrRenderFormat, format),
	))
	defer runSpan.End()

	p, err := runPipeline(ctx, tracer)
	if err != nil {
		runSpan.RecordError(err)
		runSpan.SetStatus(codes.Error, err.Error())
		return err
	}

	_, renderSpan := tracer.Start(ctx, tracing.SpanRender,
		trace.WithAttributes(attribute.String(tracing.AttrRenderFormat, format)))
	f := render.NewFormatter(os.Stdout, palette())
	switch {
	case listNext:
		err = f.TodoList(p.set)
	case listAwaiting:
		err = f.AwaitingList(p.set)
	case koiList:
		renderSpan.SetAttributes(attribute.String(tracing.AttrFocusRoot, cfg.FocusRoot))
		var root graph.Name
		if root, err = graph.NewName(cfg.FocusRoot); err == nil {
			err = f.FocusList(p.g, p.set, root)
		}
	default:
		err = f.DOT(p.doc, p.set)
	}
	if err != nil {
		renderSpan.RecordError(err)
		renderSpan.SetStatus(codes.Error, err.Error())
		renderSpan.End()
		runSpan.RecordError(err)
		runSpan.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("rendering output: %w", err)
	}
	renderSpan.SetStatus(codes.Ok, "")
	renderSpan.End()
	log.Debug(log.CatRender, "output rendered", "format", format)

	runSpan.SetStatus(codes.Ok, "")
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
