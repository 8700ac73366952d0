package tracing

// Span names for the pipeline stages.
const (
	SpanRun      = "pipeline.run"
	SpanLoad     = "pipeline.load"
	SpanBuild    = "pipeline.build"
	SpanClassify = "pipeline.classify"
	SpanRender   = "pipeline.render"
)

// Span attribute keys for pipeline tracing.
const (
	// Run attributes
	AttrRunID    = "run.id"
	AttrDepsFile = "deps.file"

	// Parse attributes
	AttrExpressionCount = "parse.expressions"
	AttrDeclCount       = "parse.declarations"
	AttrDiagnosticCount = "parse.diagnostics"

	// Graph attributes
	AttrNodeCount = "graph.nodes"
	AttrEdgeCount = "graph.edges"

	// Classification attributes
	AttrCompleteCount = "classify.complete"
	AttrNextCount     = "classify.next"
	AttrWaitingCount  = "classify.waiting"

	// Render attributes
	AttrRenderFormat = "render.format"
	AttrFocusRoot    = "render.focus_root"

	// Error attributes
	AttrErrorMessage = "error.message"
)

// Event names for span events.
const (
	EventDiagnostic = "parse.diagnostic"
	EventRefresh    = "board.refresh"
)
