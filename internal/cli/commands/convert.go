package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"

	"github.com/leapstack-labs/g2kts/internal/cli/config"
	"github.com/leapstack-labs/g2kts/internal/cli/output"
	"github.com/leapstack-labs/g2kts/internal/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// stdinArg reads the script from standard input.
const stdinArg = "-"

// ConvertOptions holds options for the convert command.
type ConvertOptions struct {
	OutputDir       string
	Stdout          bool
	Watch           bool
	Jobs            int
	FailFast        bool
	Indent          int
	DefaultTaskType string
	DisablePasses   []string
	Debounce        int
}

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	opts := &ConvertOptions{}
	cmd := &cobra.Command{
		Use:   "convert [path...]",
		Short: "Convert Groovy build scripts to the Kotlin DSL",
		Long: `Convert Gradle build scripts from the Groovy DSL to the Kotlin DSL.

Each argument is a .gradle file or a directory searched for .gradle files.
build.gradle is written as build.gradle.kts next to the input, or under
--output-dir. Comments are carried over to the converted script.

Use "-" to read a script from standard input and print the result.
With --watch the directory is converted again whenever a script changes.`,
		Example: `  # Convert every build script under the current directory
  g2kts convert

  # Convert one file and print the result
  g2kts convert app/build.gradle --stdout

  # Convert from a pipe
  cat build.gradle | g2kts convert -

  # Write results to a separate tree, stopping at the first failure
  g2kts convert . --output-dir converted --fail-fast

  # Keep converting while editing
  g2kts convert . --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return runConvert(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "d", "", "Directory for converted scripts (default: next to the input)")
	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "Print converted scripts instead of writing files")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Convert again when scripts change")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Files converted in parallel (default: number of CPUs)")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "Stop at the first file that fails")
	cmd.Flags().IntVar(&opts.Indent, "indent", config.DefaultIndent, "Spaces per indentation level")
	cmd.Flags().StringVar(&opts.DefaultTaskType, "default-task-type", "", "Task type used by tasks.named when none is known")
	cmd.Flags().StringSliceVar(&opts.DisablePasses, "disable-pass", nil, "Transformation passes to skip")
	cmd.Flags().IntVar(&opts.Debounce, "debounce", config.DefaultDebounceMS, "Watch debounce in milliseconds")

	_ = cmd.RegisterFlagCompletionFunc("disable-pass", completePassIDs)

	return cmd
}

// buildConvertConfig overlays the explicitly set flags on the project
// configuration.
func buildConvertConfig(base *config.Config, flags *pflag.FlagSet, opts *ConvertOptions) *config.Config {
	cfg := *base
	if flags == nil {
		return &cfg
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = opts.OutputDir
	}
	if flags.Changed("jobs") {
		cfg.Jobs = opts.Jobs
	}
	if flags.Changed("fail-fast") {
		cfg.FailFast = opts.FailFast
	}
	if flags.Changed("indent") {
		cfg.Indent = opts.Indent
	}
	if flags.Changed("default-task-type") {
		cfg.DefaultTaskType = opts.DefaultTaskType
	}
	if flags.Changed("disable-pass") {
		cfg.Passes.Disable = opts.DisablePasses
	}
	if flags.Changed("debounce") {
		cfg.Watch.DebounceMS = opts.Debounce
	}
	return &cfg
}

func runConvert(cmd *cobra.Command, args []string, opts *ConvertOptions) error {
	cmdCtx, err := NewCommandContext(cmd, func(cfg *config.Config) {
		*cfg = *buildConvertConfig(cfg, cmd.Flags(), opts)
	})
	if err != nil {
		return err
	}

	if slices.Contains(args, stdinArg) {
		if len(args) != 1 {
			return fmt.Errorf("%q cannot be combined with other paths", stdinArg)
		}
		return convertStdin(cmd, cmdCtx)
	}

	if opts.Watch {
		if len(args) != 1 {
			return fmt.Errorf("--watch takes a single directory, got %d paths", len(args))
		}
		return watchConvert(cmd, cmdCtx, args[0])
	}

	paths, err := discoverAll(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		cmdCtx.Renderer.Warning("no .gradle files found")
		return nil
	}

	if opts.Stdout {
		return printConverted(cmdCtx, paths)
	}

	results, err := cmdCtx.Engine.ConvertFiles(cmd.Context(), paths)
	if err != nil {
		return err
	}
	return renderConvertResults(cmdCtx.Renderer, results)
}

// discoverAll expands args into build scripts, dropping duplicates.
func discoverAll(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, arg := range args {
		found, err := engine.Discover(arg)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	return paths, nil
}

func convertStdin(cmd *cobra.Command, cmdCtx *CommandContext) error {
	src, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	res, err := cmdCtx.Engine.ConvertSource("<stdin>", string(src))
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmdCtx.Renderer.Writer(), res.Output)
	return err
}

// printConverted writes converted scripts to the output. Several scripts
// are separated by a comment naming their source.
func printConverted(cmdCtx *CommandContext, paths []string) error {
	r := cmdCtx.Renderer
	for i, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		res, err := cmdCtx.Engine.ConvertSource(path, string(src))
		if err != nil {
			return err
		}
		if len(paths) > 1 {
			if i > 0 {
				r.Println("")
			}
			r.Printf("// %s\n", engine.OutputPath(path, ""))
		}
		r.Printf("%s", res.Output)
	}
	return nil
}

func watchConvert(cmd *cobra.Command, cmdCtx *CommandContext, dir string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	r := cmdCtx.Renderer
	r.Println(r.Muted(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", dir)))
	return cmdCtx.Engine.Watch(ctx, dir, func(res engine.FileResult) {
		if res.Err != nil {
			r.Error(res.Err.Error())
			return
		}
		r.Success(fmt.Sprintf("%s -> %s", res.Path, res.OutputPath))
	})
}

func renderConvertResults(r *output.Renderer, results []engine.FileResult) error {
	out := output.ConvertOutput{Files: make([]output.FileInfo, 0, len(results))}
	for _, res := range results {
		info := output.FileInfo{Path: res.Path}
		if res.Err != nil {
			info.Error = res.Err.Error()
			out.Summary.Failed++
		} else {
			info.Output = res.OutputPath
			if res.Result != nil {
				info.Comments = res.Result.Comments
				info.Passes = res.Result.Passes
			}
			out.Summary.Converted++
		}
		out.Files = append(out.Files, info)
	}
	out.Summary.Total = len(results)

	var err error
	switch r.EffectiveMode() {
	case output.ModeJSON:
		err = r.JSON(out)
	case output.ModeMarkdown:
		convertMarkdown(r, out)
	default:
		convertText(r, out)
	}
	if err != nil {
		return err
	}

	if out.Summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed to convert", out.Summary.Failed, out.Summary.Total)
	}
	return nil
}

func convertText(r *output.Renderer, out output.ConvertOutput) {
	for _, f := range out.Files {
		if f.Error != "" {
			r.Error(f.Error)
			continue
		}
		r.Success(fmt.Sprintf("%s -> %s", f.Path, f.Output))
	}
	r.Println("")
	r.Println(r.Muted(fmt.Sprintf("%d converted, %d failed", out.Summary.Converted, out.Summary.Failed)))
}

func convertMarkdown(r *output.Renderer, out output.ConvertOutput) {
	r.Println(output.FormatHeader(1, "Conversion"))
	r.Println("")
	for _, f := range out.Files {
		if f.Error != "" {
			r.Printf("- `%s`: failed: %s\n", f.Path, f.Error)
			continue
		}
		r.Printf("- `%s` -> `%s`\n", f.Path, f.Output)
	}
	r.Println("")
	r.Println(output.FormatKeyValue("Converted", fmt.Sprint(out.Summary.Converted)))
	r.Println(output.FormatKeyValue("Failed", fmt.Sprint(out.Summary.Failed)))
}
