// Package config provides configuration types and defaults for shoal.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zjrosen/shoal/internal/depfile"
	"github.com/zjrosen/shoal/internal/log"
)

// MinWrapWidth is the smallest accepted comment wrap width. Anything
// narrower degenerates into one word per DOT label line.
const MinWrapWidth = 10

// Config holds all configuration options for shoal.
type Config struct {
	DepsFile    string        `mapstructure:"deps_file"`
	FocusRoot   string        `mapstructure:"focus_root"`
	WrapWidth   int           `mapstructure:"wrap_width"`
	AutoRefresh bool          `mapstructure:"auto_refresh"`
	UI          UIConfig      `mapstructure:"ui"`
	Colors      ColorsConfig  `mapstructure:"colors"`
	Tracing     TracingConfig `mapstructure:"tracing"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowCounts    bool   `mapstructure:"show_counts"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// ColorsConfig holds node fill colors for DOT output and the board.
// Values are Graphviz color names or hex strings like "#73F59F".
type ColorsConfig struct {
	Complete string `mapstructure:"complete"`
	Waiting  string `mapstructure:"waiting"`
	Next     string `mapstructure:"next"`
	Pending  string `mapstructure:"pending"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/shoal/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// 1.0 = all traces, 0.1 = 10% of traces
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/shoal/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "shoal", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		DepsFile:    depfile.DefaultPath,
		FocusRoot:   "koi",
		WrapWidth:   depfile.DefaultWrapWidth,
		AutoRefresh: true,
		UI: UIConfig{
			ShowCounts:    true,
			MarkdownStyle: "dark",
		},
		Colors: DefaultColors(),
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

/// DefaultColors returns the stock fill colors: grey for complete nodes,
// blue for awaiting, green for actionable, white otherwise.
func DefaultColors() ColorsConfig {
	return ColorsConfig{
		Complete: "lightgrey",
		Waiting:  "lightblue",
		Next:     "green",
		Pending:  "white",
	}
}

// Validate checks the full configuration for errors.
func Validate(c Config) error {
	if c.WrapWidth < MinWrapWidth {
		return fmt.Errorf("wrap_width must be at least %d, got %d", MinWrapWidth, c.WrapWidth)
	}
	if strings.TrimSpace(c.FocusRoot) == "" {
		return fmt.Errorf("focus_root must not be empty")
	}
	if err := ValidateColors(c.Colors); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	return nil
}

// ValidateColors checks node color configuration for errors.
// Colors are embedded unquoted in DOT attributes, so they must not
// contain whitespace or quote characters.
func ValidateColors(colors ColorsConfig) error {
	for _, col := range []struct {
		key   string
		value string
	}{
		{"complete", colors.Complete},
		{"waiting", colors.Waiting},
		{"next", colors.Next},
		{"pending", colors.Pending},
	} {
		if col.value == "" {
			return fmt.Errorf("colors.%s must not be empty", col.key)
		}
		if strings.ContainsAny(col.value, "\" \t") {
			return fmt.Errorf("colors.%s must not contain spaces or quotes, got %q", col.key, col.value)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// An empty file_path is fine: the file exporter falls back to the
	// default traces location. The OTLP endpoint has no such fallback.
	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Shoal Configuration

# Path to the dependency list file (default: deps.txt in the working directory)
# deps_file: /path/to/deps.txt

# Root node for the focus list (shoal --koi-list)
focus_root: koi

# Wrap width for node comments in DOT labels
wrap_width: 30

# Auto-refresh the board when the deps file changes
auto_refresh: true

# UI settings
ui:
  show_counts: true       # Show node counts in board column headers
  # markdown_style: dark  # Markdown rendering style: "dark" (default) or "light"

# Node fill colors for DOT output and the board.
# Graphviz color names or hex strings both work.
# colors:
#   complete: lightgrey
#   waiting: lightblue
#   next: green
#   pending: white

# Tracing configuration
# Enables visibility into the parse/build/classify/render pipeline
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/shoal/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
#
# Example: Send traces to Jaeger via OTLP
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: jaeger.internal:4317
#   sample_rate: 0.1  # Sample 10% of traces
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
