package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/g2kts/internal/cli/output"
	"github.com/leapstack-labs/g2kts/pkg/transform"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PassesOptions holds options for the passes command.
type PassesOptions struct {
	Group   string // Filter by group
	Verbose bool   // Show before/after examples
	Format  string // Output format
}

// NewPassesCommand creates the passes command.
func NewPassesCommand() *cobra.Command {
	opts := &PassesOptions{}
	cmd := &cobra.Command{
		Use:   "passes [pass-id]",
		Short: "List transformation passes",
		Long: `List the transformation passes applied between parsing and printing.

Passes rewrite Gradle idioms into the forms the Kotlin DSL expects, such as
task declarations into tasks.creating delegates. They run in the order shown;
passes disabled in the configuration are marked.

Output adapts to environment:
  - Terminal: Table with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all passes
  g2kts passes

  # Show one pass with its example
  g2kts passes task-creation

  # Passes dealing with tasks, with examples
  g2kts passes --group tasks -V

  # Output as JSON
  g2kts passes --format json`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completePassIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showPass(cmd, args[0], opts)
			}
			return listPasses(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show before and after examples")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

// completePassIDs completes registered pass IDs.
func completePassIDs(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	defs := transform.GetAll()
	ids := make([]string, 0, len(defs))
	for _, def := range defs {
		ids = append(ids, def.ID+"\t"+def.Description)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// passInfos describes the registered passes in run order.
func passInfos(disabled []string, group string) []output.PassInfo {
	var infos []output.PassInfo
	for _, def := range transform.GetAll() {
		if group != "" && def.Group != group {
			continue
		}
		infos = append(infos, passInfo(def, disabled))
	}
	return infos
}

func passInfo(def transform.Def, disabled []string) output.PassInfo {
	return output.PassInfo{
		ID:          def.ID,
		Name:        def.Name,
		Group:       def.Group,
		Order:       def.Order,
		Description: def.Description,
		Enabled:     !slices.Contains(disabled, def.ID),
		Before:      def.Before,
		After:       def.After,
	}
}

func listPasses(cmd *cobra.Command, opts *PassesOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	r := cmdCtx.renderer(cmd, opts.Format)
	passes := passInfos(cmdCtx.Cfg.Passes.Disable, opts.Group)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listPassesJSON(r, passes)
	case output.ModeMarkdown:
		listPassesMarkdown(r, passes, opts.Verbose)
	default:
		listPassesText(r, passes, opts.Verbose)
	}
	return nil
}

func showPass(cmd *cobra.Command, id string, opts *PassesOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	r := cmdCtx.renderer(cmd, opts.Format)

	def, ok := transform.GetByID(id)
	if !ok {
		return fmt.Errorf("pass %q not found", id)
	}
	info := passInfo(def, cmdCtx.Cfg.Passes.Disable)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeMarkdown:
		showPassMarkdown(r, info)
	default:
		showPassText(r, info)
	}
	return nil
}

func status(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

// listPassesText outputs passes as a table.
func listPassesText(r *output.Renderer, passes []output.PassInfo, verbose bool) {
	styles := r.Styles()
	title := cases.Title(language.English)

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Transformation Passes (%d)", len(passes))))
	r.Println("")

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "ID", "Name", "Group", "Status"})
	for i, p := range passes {
		t.AppendRow(table.Row{i + 1, p.ID, p.Name, title.String(p.Group), status(p.Enabled)})
	}
	t.Render()

	if verbose {
		for _, p := range passes {
			r.Println("")
			showPassExamples(r, p)
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'g2kts passes <pass-id>' for details"))
	r.Println("")
}

// listPassesMarkdown outputs passes in markdown format.
func listPassesMarkdown(r *output.Renderer, passes []output.PassInfo, verbose bool) {
	r.Println(output.FormatHeader(1, "Transformation Passes"))
	r.Println("")

	title := cases.Title(language.English)
	currentGroup := ""
	for _, p := range passes {
		if p.Group != currentGroup {
			currentGroup = p.Group
			r.Println("")
			r.Println(output.FormatHeader(2, title.String(currentGroup)))
			r.Println("")
		}

		r.Printf("- **%s** - %s (`%s`)\n", p.ID, p.Description, status(p.Enabled))
		if verbose && p.Before != "" {
			r.Println("")
			r.Println(indentLines(output.FormatCode("groovy", p.Before), "  "))
			r.Println(indentLines(output.FormatCode("kotlin", p.After), "  "))
		}
	}
	r.Println("")
}

// PassesJSONOutput is the JSON output structure for passes listing.
type PassesJSONOutput struct {
	Passes []output.PassInfo `json:"passes"`
	Count  struct {
		Enabled int `json:"enabled"`
		Total   int `json:"total"`
	} `json:"count"`
}

func listPassesJSON(r *output.Renderer, passes []output.PassInfo) error {
	out := PassesJSONOutput{Passes: passes}
	if out.Passes == nil {
		out.Passes = []output.PassInfo{}
	}
	for _, p := range passes {
		if p.Enabled {
			out.Count.Enabled++
		}
	}
	out.Count.Total = len(passes)
	return r.JSON(out)
}

func showPassText(r *output.Renderer, p output.PassInfo) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", p.ID, p.Name)))
	r.Println("")
	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), p.Group)
	r.Printf("  %s: %d\n", styles.Bold.Render("Order"), p.Order)
	r.Printf("  %s: %s\n", styles.Bold.Render("Status"), status(p.Enabled))
	r.Println("")
	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + p.Description)
	r.Println("")
	showPassExamples(r, p)
}

func showPassExamples(r *output.Renderer, p output.PassInfo) {
	if p.Before == "" {
		return
	}
	styles := r.Styles()
	r.Println(styles.Bold.Render(p.ID + ": Groovy"))
	for _, line := range strings.Split(p.Before, "\n") {
		r.Println(styles.Muted.Render("  " + line))
	}
	r.Println(styles.Bold.Render(p.ID + ": Kotlin"))
	for _, line := range strings.Split(p.After, "\n") {
		r.Println(styles.Success.Render("  " + line))
	}
}

func showPassMarkdown(r *output.Renderer, p output.PassInfo) {
	r.Printf("# %s - %s\n\n", p.ID, p.Name)
	r.Printf("**Group:** %s | **Order:** %d | **Status:** `%s`\n\n", p.Group, p.Order, status(p.Enabled))
	r.Println(p.Description)
	r.Println("")

	if p.Before != "" {
		r.Println("## Groovy")
		r.Println("")
		r.Println(output.FormatCode("groovy", p.Before))
		r.Println("")
		r.Println("## Kotlin")
		r.Println("")
		r.Println(output.FormatCode("kotlin", p.After))
		r.Println("")
	}
}

func indentLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
