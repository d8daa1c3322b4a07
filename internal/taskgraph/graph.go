// Package taskgraph builds the dependency graph of the tasks a build script
// declares. Edges come from dependsOn calls inside task bodies; tasks that
// are only referenced are kept as undeclared nodes.
package taskgraph

import (
	"fmt"
	"slices"
	"sort"

	"github.com/leapstack-labs/g2kts/pkg/gtree"
)

const dependsOnMethod = "dependsOn"

// Task is a node of the graph.
type Task struct {
	Name string
	// Type is the task class, when the script names one.
	Type string
	// Declared is false for tasks that are only configured or depended on.
	Declared bool
}

// Graph is a task dependency graph.
type Graph struct {
	tasks      map[string]*Task
	dependents map[string][]string // task -> tasks depending on it
	deps       map[string][]string // task -> tasks it depends on
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		tasks:      make(map[string]*Task),
		dependents: make(map[string][]string),
		deps:       make(map[string][]string),
	}
}

// AddTask adds a task, or updates it. A declaration is never downgraded,
// and a known type is never cleared.
func (g *Graph) AddTask(name, typ string, declared bool) {
	t, exists := g.tasks[name]
	if !exists {
		g.tasks[name] = &Task{Name: name, Type: typ, Declared: declared}
		g.dependents[name] = []string{}
		g.deps[name] = []string{}
		return
	}
	if typ != "" {
		t.Type = typ
	}
	t.Declared = t.Declared || declared
}

// AddDependency records that task depends on dep. Unknown tasks are added
// as undeclared.
func (g *Graph) AddDependency(task, dep string) error {
	if task == dep {
		return fmt.Errorf("task %q depends on itself", task)
	}
	g.AddTask(task, "", false)
	g.AddTask(dep, "", false)

	if !slices.Contains(g.dependents[dep], task) {
		g.dependents[dep] = append(g.dependents[dep], task)
	}
	if !slices.Contains(g.deps[task], dep) {
		g.deps[task] = append(g.deps[task], dep)
	}
	return nil
}

// Task returns a task by name.
func (g *Graph) Task(name string) (*Task, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// Tasks returns all tasks sorted by name.
func (g *Graph) Tasks() []*Task {
	tasks := make([]*Task, 0, len(g.tasks))
	for _, t := range g.tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].Name < tasks[j].Name
	})
	return tasks
}

// Dependencies returns the tasks name depends on, in declaration order.
func (g *Graph) Dependencies(name string) []string {
	return g.deps[name]
}

// Dependents returns the tasks depending on name.
func (g *Graph) Dependents(name string) []string {
	return g.dependents[name]
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// EdgeCount returns the number of dependencies in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, deps := range g.deps {
		count += len(deps)
	}
	return count
}

// HasCycle reports whether the graph contains a cycle, along with one
// cycle path that starts and ends with the same task.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	from := make(map[string]string)

	var cycle []string

	var dfs func(name string) bool
	dfs = func(name string) bool {
		visited[name] = true
		onStack[name] = true

		for _, next := range g.dependents[name] {
			if !visited[next] {
				from[next] = name
				if dfs(next) {
					return true
				}
			} else if onStack[next] {
				cycle = []string{next}
				for curr := name; curr != next; curr = from[curr] {
					cycle = append([]string{curr}, cycle...)
				}
				cycle = append([]string{next}, cycle...)
				return true
			}
		}

		onStack[name] = false
		return false
	}

	// Sorted for a deterministic cycle report.
	for _, t := range g.Tasks() {
		if !visited[t.Name] && dfs(t.Name) {
			return true, cycle
		}
	}
	return false, nil
}

// ExecutionLevels groups tasks so that every task comes after all of its
// dependencies. Level 0 holds tasks without dependencies.
func (g *Graph) ExecutionLevels() ([][]string, error) {
	if hasCycle, cycle := g.HasCycle(); hasCycle {
		return nil, fmt.Errorf("cycle detected: %v", cycle)
	}

	assigned := make(map[string]int)

	var levelOf func(name string) int
	levelOf = func(name string) int {
		if level, ok := assigned[name]; ok {
			return level
		}
		level := 0
		for _, dep := range g.deps[name] {
			level = max(level, levelOf(dep)+1)
		}
		assigned[name] = level
		return level
	}

	maxLevel := -1
	for name := range g.tasks {
		maxLevel = max(maxLevel, levelOf(name))
	}

	levels := make([][]string, maxLevel+1)
	for name, level := range assigned {
		levels[level] = append(levels[level], name)
	}
	for i := range levels {
		sort.Strings(levels[i])
	}
	return levels, nil
}

// Upstream returns every task name transitively depends on, sorted.
func (g *Graph) Upstream(name string) []string {
	seen := make(map[string]bool)

	var mark func(n string)
	mark = func(n string) {
		for _, dep := range g.deps[n] {
			if !seen[dep] {
				seen[dep] = true
				mark(dep)
			}
		}
	}
	mark(name)

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// FromProject collects the tasks of a transformed tree. Tasks come from
// task declarations and task configuration blocks.
func FromProject(project *gtree.Project) (*Graph, error) {
	g := NewGraph()
	var err error

	gtree.Walk(project, func(n gtree.Node) bool {
		if err != nil {
			return false
		}
		switch n := n.(type) {
		case *gtree.TaskCreating:
			g.AddTask(n.Name, n.Type, true)
			if n.Body != nil {
				err = collectDependencies(g, n.Name, n.Body)
			}
		case *gtree.TaskConfigure:
			g.AddTask(n.Name, n.Type, false)
			if n.Closure != nil {
				err = collectDependencies(g, n.Name, n.Closure)
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// collectDependencies adds the dependsOn calls in body to task. Nested
// task blocks are left to their own visit.
func collectDependencies(g *Graph, task string, body *gtree.Closure) error {
	var err error
	gtree.Walk(body.Body, func(n gtree.Node) bool {
		if err != nil {
			return false
		}
		switch n := n.(type) {
		case *gtree.TaskCreating, *gtree.TaskConfigure:
			return false
		case *gtree.MethodCall:
			if !gtree.IsNil(n.Object) || n.Method != dependsOnMethod {
				return true
			}
			for _, a := range n.Args() {
				for _, dep := range taskNames(a.Value) {
					if err = g.AddDependency(task, dep); err != nil {
						return false
					}
				}
			}
		}
		return true
	})
	return err
}

// taskNames returns the task names a dependsOn argument refers to.
// Expressions that are not a plain reference are skipped.
func taskNames(e gtree.Expression) []string {
	switch e := e.(type) {
	case *gtree.String:
		if !e.Template {
			return []string{e.Value}
		}
	case *gtree.Identifier:
		return []string{e.Name}
	case *gtree.TaskAccess:
		return []string{e.Name}
	case *gtree.PropertyAccess:
		if obj, ok := e.Object.(*gtree.Identifier); ok && obj.Name == "tasks" {
			return []string{e.Name}
		}
	case *gtree.List:
		var names []string
		for _, el := range e.Elements {
			names = append(names, taskNames(el)...)
		}
		return names
	}
	return nil
}
