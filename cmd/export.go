package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/shoal/internal/config"
	"github.com/zjrosen/shoal/internal/log"
	"github.com/zjrosen/shoal/internal/render"
	"github.com/zjrosen/shoal/internal/tracing"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Machine-readable snapshot of the graph",
	Long: `Run the pipeline and print every node with its classification,
every distinct edge, and summary counts. Comments are exported as
natural text rather than DOT label syntax.

Examples:
  shoal export | jq '.nodes[] | select(.state == "next") | .name'
  shoal export --format yaml`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "json",
		"output format: json or yaml")
}

func runExport(cmd *cobra.Command, args []string) error {
	cleanup, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if exportFormat != "json" && exportFormat != "yaml" {
		return fmt.Errorf("unsupported format %q (want json or yaml)", exportFormat)
	}

	provider, err := newTraceProvider()
	if err != nil {
		return err
	}
	defer shutdownProvider(provider)

	tracer := provider.Tracer()
	ctx, runSpan := tracer.Start(cmd.Context(), tracing.SpanRun, trace.WithAttributes(
		attribute.String(tracing.AttrRunID, log.RunID()),
		attribute.String(tracing.AttrDepsFile, cfg.DepsFile),
		attribute.String(tracing.AttrRenderFormat, exportFormat),
	))
	defer runSpan.End()

	p, err := runPipeline(ctx, tracer)
	if err != nil {
		runSpan.RecordError(err)
		runSpan.SetStatus(codes.Error, err.Error())
		return err
	}

	_, renderSpan := tracer.Start(ctx, tracing.SpanRender,
		trace.WithAttributes(attribute.String(tracing.AttrRenderFormat, exportFormat)))
	f := render.NewFormatter(os.Stdout, palette())
	snap := render.FromPipeline(p.doc, p.g, p.set)
	if exportFormat == "yaml" {
		err = f.ExportYAML(snap)
	} else {
		err = f.ExportJSON(snap)
	}
	if err != nil {
		renderSpan.RecordError(err)
		renderSpan.SetStatus(codes.Error, err.Error())
		renderSpan.End()
		runSpan.RecordError(err)
		runSpan.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("exporting snapshot: %w", err)
	}
	renderSpan.SetStatus(codes.Ok, "")
	renderSpan.End()
	log.Debug(log.CatRender, "snapshot exported", "format", exportFormat)

	runSpan.SetStatus(codes.Ok, "")
	return nil
}
