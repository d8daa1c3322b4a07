package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/g2kts/internal/cli/output"
	"github.com/leapstack-labs/g2kts/internal/taskgraph"
	"github.com/spf13/cobra"
)

// NewTasksCommand creates the tasks command.
func NewTasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks <file>",
		Short: "Show the task dependency graph of a build script",
		Long: `Display the tasks a build script declares and their dependsOn relations.

Tasks are grouped by level: a task only depends on tasks at lower levels.
Tasks that are configured or depended on without being declared in the
script, such as plugin tasks, are marked as external.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Show the task graph
  g2kts tasks build.gradle

  # Output as JSON
  g2kts tasks build.gradle --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, args[0])
		},
	}

	return cmd
}

func runTasks(cmd *cobra.Command, path string) error {
	cmdCtx, err := NewCommandContext(cmd, nil)
	if err != nil {
		return err
	}

	var src []byte
	if path == stdinArg {
		src, err = io.ReadAll(cmd.InOrStdin())
	} else {
		src, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	project, err := cmdCtx.Engine.BuildTree(path, string(src), true)
	if err != nil {
		return err
	}

	graph, err := taskgraph.FromProject(project)
	if err != nil {
		return fmt.Errorf("failed to build task graph: %w", err)
	}

	levels, err := graph.ExecutionLevels()
	if err != nil {
		return fmt.Errorf("failed to get task levels: %w", err)
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(tasksOutput(graph, levels))
	case output.ModeMarkdown:
		tasksMarkdown(r, graph, levels)
	default:
		tasksText(r, graph, levels)
	}
	return nil
}

func taskLabel(graph *taskgraph.Graph, name string) string {
	t, _ := graph.Task(name)
	label := name
	if t.Type != "" {
		label += " (" + t.Type + ")"
	}
	if !t.Declared {
		label += " [external]"
	}
	return label
}

func tasksText(r *output.Renderer, graph *taskgraph.Graph, levels [][]string) {
	styles := r.Styles()

	r.Header(1, "Task Graph")

	for i, level := range levels {
		r.Println(styles.Header2.Render(fmt.Sprintf("Level %d:", i)))
		for _, name := range level {
			deps := graph.Dependencies(name)
			users := graph.Dependents(name)

			r.Printf("  %s\n", styles.Bold.Render(taskLabel(graph, name)))
			if len(deps) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("depends on:"), strings.Join(deps, ", "))
			}
			if len(users) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("used by:"), strings.Join(users, ", "))
			}
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d tasks, %d dependencies", graph.TaskCount(), graph.EdgeCount())))
}

func tasksMarkdown(r *output.Renderer, graph *taskgraph.Graph, levels [][]string) {
	r.Println(output.FormatHeader(1, "Task Graph"))
	r.Println("")

	for i, level := range levels {
		r.Println(output.FormatHeader(2, fmt.Sprintf("Level %d", i)))
		r.Println("")
		for _, name := range level {
			r.Printf("- %s\n", taskLabel(graph, name))
			if deps := graph.Dependencies(name); len(deps) > 0 {
				r.Printf("  - depends on: %s\n", strings.Join(deps, ", "))
			}
			if users := graph.Dependents(name); len(users) > 0 {
				r.Printf("  - used by: %s\n", strings.Join(users, ", "))
			}
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println("")
	r.Println(output.FormatKeyValue("Total Tasks", fmt.Sprint(graph.TaskCount())))
	r.Println(output.FormatKeyValue("Total Dependencies", fmt.Sprint(graph.EdgeCount())))
}

func tasksOutput(graph *taskgraph.Graph, levels [][]string) output.TaskGraphOutput {
	out := output.TaskGraphOutput{
		Levels:     make([]output.TaskLevel, 0, len(levels)),
		TotalTasks: graph.TaskCount(),
		TotalEdges: graph.EdgeCount(),
	}
	for i, level := range levels {
		tl := output.TaskLevel{Level: i, Tasks: make([]output.TaskNode, 0, len(level))}
		for _, name := range level {
			t, _ := graph.Task(name)
			tl.Tasks = append(tl.Tasks, output.TaskNode{
				Name:      t.Name,
				Type:      t.Type,
				Declared:  t.Declared,
				DependsOn: append([]string{}, graph.Dependencies(name)...),
				UsedBy:    append([]string{}, graph.Dependents(name)...),
			})
		}
		out.Levels = append(out.Levels, tl)
	}
	return out
}
