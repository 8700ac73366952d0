package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, "deps.txt", cfg.DepsFile)
	require.Equal(t, "koi", cfg.FocusRoot)
	require.Equal(t, 30, cfg.WrapWidth)
	require.True(t, cfg.AutoRefresh)
	require.True(t, cfg.UI.ShowCounts)
	require.Equal(t, "dark", cfg.UI.MarkdownStyle)
	require.Equal(t, DefaultColors(), cfg.Colors)

	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "file", cfg.Tracing.Exporter)
	require.Equal(t, "localhost:4317", cfg.Tracing.OTLPEndpoint)
	require.Equal(t, 1.0, cfg.Tracing.SampleRate)
}

func TestDefaults_Valid(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
}

func TestDefaultColors(t *testing.T) {
	colors := DefaultColors()
	require.Equal(t, "lightgrey", colors.Complete)
	require.Equal(t, "lightblue", colors.Waiting)
	require.Equal(t, "green", colors.Next)
	require.Equal(t, "white", colors.Pending)
}

func TestValidate_WrapWidth(t *testing.T) {
	cfg := Defaults()
	cfg.WrapWidth = 0
	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "wrap_width must be at least 10")

	cfg.WrapWidth = 9
	require.Error(t, Validate(cfg))

	cfg.WrapWidth = MinWrapWidth
	require.NoError(t, Validate(cfg))
}

func TestValidate_FocusRootEmpty(t *testing.T) {
	cfg := Defaults()
	cfg.FocusRoot = "   "
	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "focus_root must not be empty")
}

func TestValidateColors_Valid(t *testing.T) {
	require.NoError(t, ValidateColors(DefaultColors()))

	hex := ColorsConfig{
		Complete: "#BBBBBB",
		Waiting:  "#54A0FF",
		Next:     "#73F59F",
		Pending:  "#FFFFFF",
	}
	require.NoError(t, ValidateColors(hex))
}

func TestValidateColors_Empty(t *testing.T) {
	colors := DefaultColors()
	colors.Next = ""
	err := ValidateColors(colors)
	require.Error(t, err)
	require.Contains(t, err.Error(), "colors.next must not be empty")
}

func TestValidateColors_Unsafe(t *testing.T) {
	colors := DefaultColors()
	colors.Waiting = `light blue`
	err := ValidateColors(colors)
	require.Error(t, err)
	require.Contains(t, err.Error(), "colors.waiting")

	colors = DefaultColors()
	colors.Complete = `"lightgrey"`
	require.Error(t, ValidateColors(colors))
}

func TestValidateTracing_Empty(t *testing.T) {
	err := ValidateTracing(TracingConfig{SampleRate: 1.0})
	require.NoError(t, err, "empty tracing config should be valid (uses defaults)")
}

func TestValidateTracing_SampleRateRange(t *testing.T) {
	err := ValidateTracing(TracingConfig{SampleRate: 1.5})
	require.Error(t, err)
	require.Contains(t, err.Error(), "sample_rate must be between 0.0 and 1.0")

	err = ValidateTracing(TracingConfig{SampleRate: -0.1})
	require.Error(t, err)
}

func TestValidateTracing_InvalidExporter(t *testing.T) {
	err := ValidateTracing(TracingConfig{Exporter: "jaeger", SampleRate: 1.0})
	require.Error(t, err)
	require.Contains(t, err.Error(), "tracing.exporter must be")
}

func TestValidateTracing_FilePathOptional(t *testing.T) {
	// Enabling the file exporter without a path is valid: the default
	// traces location applies.
	cfg := Defaults().Tracing
	cfg.Enabled = true
	require.Equal(t, "file", cfg.Exporter)
	require.Empty(t, cfg.FilePath)
	require.NoError(t, ValidateTracing(cfg))
}

func TestValidateTracing_OTLPEndpointRequired(t *testing.T) {
	cfg := TracingConfig{Enabled: true, Exporter: "otlp", SampleRate: 1.0}
	err := ValidateTracing(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "otlp_endpoint is required")
}

func TestDefaultConfigTemplate_ValidYAML(t *testing.T) {
	var parsed map[string]any
	err := yaml.Unmarshal([]byte(DefaultConfigTemplate()), &parsed)
	require.NoError(t, err, "template must parse as YAML")

	require.Equal(t, "koi", parsed["focus_root"])
	require.Equal(t, 30, parsed["wrap_width"])
	require.Equal(t, true, parsed["auto_refresh"])

	ui, ok := parsed["ui"].(map[string]any)
	require.True(t, ok, "ui section should be a map")
	require.Equal(t, true, ui["show_counts"])
}

func TestWriteDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".shoal", "config.yaml")

	err := WriteDefaultConfig(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# Shoal Configuration")
	require.Contains(t, string(data), "focus_root: koi")
}
