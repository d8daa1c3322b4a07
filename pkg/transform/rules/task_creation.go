package rules

import (
	"github.com/leapstack-labs/g2kts/pkg/gtree"
	"github.com/leapstack-labs/g2kts/pkg/transform"
)

func init() {
	transform.Register(TaskCreation)
}

// Named arguments of the task idiom with dedicated handling.
const (
	taskTypeArg      = "type"
	taskDependsOnArg = "dependsOn"
)

// TaskCreation turns task name(args) { body } into a task declaration.
var TaskCreation = transform.Def{
	ID:          "task-creation",
	Name:        "tasks.creating",
	Group:       "tasks",
	Description: "Declares a new task with the delegated tasks.creating property.",
	Order:       10,
	Can:         canCreateTask,
	Transform:   createTask,
	Before:      "task copyDocs(type: Copy, dependsOn: 'docs') { from 'src' }",
	After:       "val copyDocs by tasks.creating(Copy::class) { dependsOn(\"docs\"); from(\"src\") }",
}

// taskCall returns the inner call of task name(...) or nil. The outer call
// is unqualified, named task, and has exactly one argument whose value is
// a call.
func taskCall(node gtree.Node) *gtree.MethodCall {
	outer, ok := node.(*gtree.MethodCall)
	if !ok || !gtree.IsNil(outer.Object) || outer.Method != "task" {
		return nil
	}
	args := outer.Args()
	if len(args) != 1 {
		return nil
	}
	inner, _ := args[0].Value.(*gtree.MethodCall)
	return inner
}

func canCreateTask(node, _ gtree.Node) bool {
	return taskCall(node) != nil
}

// createTask builds the task body in this order: the dependsOn call,
// positional arguments of the inner call as statements, the remaining
// named arguments as assignments, the inner closure, then a closure
// trailing the outer call.
func createTask(node gtree.Node) gtree.Node {
	inner := taskCall(node)
	if inner == nil {
		return node
	}
	outer := node.(*gtree.MethodCall)

	task := &gtree.TaskCreating{Name: inner.Method}
	if inner.Closure != nil {
		task.Body = gtree.Detach(inner.Closure)
	}
	if outer.Closure != nil {
		trailing := gtree.Detach(outer.Closure)
		if task.Body == nil {
			task.Body = trailing
		} else if trailing.Body != nil {
			body := ensureBody(task)
			body.Statements = append(body.Statements, trailing.Body.Statements...)
		}
	}

	var dependsOn, positional, assignments []gtree.Statement
	for _, a := range inner.Args() {
		switch a.Name {
		case "":
			positional = append(positional, &gtree.ExprStatement{Expr: gtree.Detach(a.Value)})
			continue
		case taskDependsOnArg:
			dependsOn = append(dependsOn, dependsOnStatement(a.Value))
			continue
		case taskTypeArg:
			if name, ok := dottedName(a.Value); ok {
				task.Type = name
				continue
			}
		}
		assignments = append(assignments, &gtree.ExprStatement{Expr: &gtree.BinaryExpression{
			Left:     &gtree.Identifier{Name: a.Name},
			Operator: &gtree.CommonBinaryOperator{Token: "="},
			Right:    gtree.Detach(a.Value),
		}})
	}

	hoisted := append(append(dependsOn, positional...), assignments...)
	if len(hoisted) > 0 {
		ensureBody(task).Prepend(hoisted...)
	}
	return task
}

// ensureBody returns the body block of task, creating an empty closure
// and block as needed.
func ensureBody(task *gtree.TaskCreating) *gtree.Block {
	if task.Body == nil {
		task.Body = &gtree.Closure{}
	}
	if task.Body.Body == nil {
		task.Body.Body = &gtree.Block{}
	}
	return task.Body.Body
}

// dependsOnStatement builds dependsOn(...) from the argument value. A list
// literal is spread into one argument per element.
func dependsOnStatement(value gtree.Expression) gtree.Statement {
	args := &gtree.ArgumentsList{}
	if list, ok := value.(*gtree.List); ok {
		for _, el := range list.Elements {
			args.Args = append(args.Args, &gtree.Argument{Value: gtree.Detach(el)})
		}
	} else {
		args.Args = append(args.Args, &gtree.Argument{Value: gtree.Detach(value)})
	}
	return &gtree.ExprStatement{Expr: &gtree.MethodCall{Method: taskDependsOnArg, Arguments: args}}
}
