// Package engine runs the Groovy to Kotlin build script conversion.
// It wires the parser, builder, transformation passes, lowering and printer
// together, and converts whole files or batches of files.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/g2kts/pkg/builder"
	"github.com/leapstack-labs/g2kts/pkg/gtree"
	"github.com/leapstack-labs/g2kts/pkg/kotlin"
	"github.com/leapstack-labs/g2kts/pkg/lower"
	"github.com/leapstack-labs/g2kts/pkg/parser"
	"github.com/leapstack-labs/g2kts/pkg/transform"
	_ "github.com/leapstack-labs/g2kts/pkg/transform/rules" // register built-in passes
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Engine converts build scripts. It is safe for concurrent use; every
// conversion owns its own trees.
type Engine struct {
	cfg    Config
	passes []transform.Transformation
	logger *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// DefaultTaskType is the element type of tasks.named when the source
	// gives none (lower.DefaultTaskType if empty).
	DefaultTaskType string
	// Indent is the number of spaces per nesting level (4 if zero).
	Indent int
	// DisabledPasses lists pass IDs to skip.
	DisabledPasses []string
	// OutputDir receives converted files. Empty writes next to the input.
	OutputDir string
	// Jobs bounds parallel conversions in ConvertFiles (GOMAXPROCS if zero).
	Jobs int
	// FailFast stops a batch at the first failing file.
	FailFast bool
	// Debounce delays reconversion in Watch (DefaultDebounce if zero).
	Debounce time.Duration
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Result is the outcome of converting one script.
type Result struct {
	Name string
	// Output is the Kotlin script text.
	Output string
	// Passes counts how often each pass rewrote a node.
	Passes transform.Report
	// Comments is the number of comments carried into the output.
	Comments int
}

// New creates an engine. Disabled pass IDs must name registered passes.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for _, id := range cfg.DisabledPasses {
		if _, ok := transform.GetByID(id); !ok {
			return nil, fmt.Errorf("unknown pass %q", id)
		}
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	passes := transform.Passes(cfg.DisabledPasses...)
	logger.Debug("initializing engine", "passes", len(passes), "disabled", cfg.DisabledPasses)

	return &Engine{
		cfg:    cfg,
		passes: passes,
		logger: logger,
	}, nil
}

// Passes returns the passes this engine applies, in order.
func (e *Engine) Passes() []transform.Transformation {
	return e.passes
}

// ConvertSource converts one script. Errors are prefixed with name.
func (e *Engine) ConvertSource(name, src string) (*Result, error) {
	start := time.Now()

	project, report, err := e.build(src, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	file, extras, err := lower.Lower(project, lower.Options{DefaultTaskType: e.cfg.DefaultTaskType})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	out := kotlin.Print(file, extras, kotlin.Options{Indent: e.cfg.Indent})
	e.logger.Debug("converted script",
		"name", name,
		"statements", len(file.Statements),
		"comments", extras.Len(),
		"duration", time.Since(start))

	return &Result{
		Name:     name,
		Output:   out,
		Passes:   report,
		Comments: extras.Len(),
	}, nil
}

// BuildTree parses src into a G-tree, optionally applying the passes. It
// is the diagnostic view of the pipeline before lowering.
func (e *Engine) BuildTree(name, src string, transformed bool) (*gtree.Project, error) {
	project, _, err := e.build(src, transformed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return project, nil
}

func (e *Engine) build(src string, transformed bool) (*gtree.Project, transform.Report, error) {
	script, err := parser.Parse(src)
	if err != nil {
		return nil, nil, err
	}
	project, err := builder.BuildProject(script)
	if err != nil {
		return nil, nil, err
	}
	if !transformed {
		return project, transform.Report{}, nil
	}
	report, err := transform.NewDriver(e.passes, e.logger).Apply(project)
	if err != nil {
		return nil, nil, err
	}
	return project, report, nil
}
