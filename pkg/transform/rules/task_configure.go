package rules

import (
	"github.com/leapstack-labs/g2kts/pkg/gtree"
	"github.com/leapstack-labs/g2kts/pkg/transform"
)

func init() {
	transform.Register(TaskConfigure)
}

// TaskConfigure turns lookups of existing tasks into typed task access.
var TaskConfigure = transform.Def{
	ID:          "task-configure",
	Name:        "tasks.named",
	Group:       "tasks",
	Description: "Looks up or configures an existing task by name.",
	Order:       20,
	Can:         canConfigureTask,
	Transform:   configureTask,
	Before:      "tasks.named('test', Test) { useJUnitPlatform() }",
	After:       "tasks.named<Test>(\"test\") { useJUnitPlatform() }",
}

// taskLookup matches tasks.getByName("x"), tasks.named("x") and
// tasks.named("x", Type).
func taskLookup(node gtree.Node) (call *gtree.MethodCall, name, typ string, ok bool) {
	call, ok = node.(*gtree.MethodCall)
	if !ok {
		return nil, "", "", false
	}
	recv, ok := call.Object.(*gtree.Identifier)
	if !ok || recv.Name != "tasks" {
		return nil, "", "", false
	}

	args := call.Args()
	maxArgs := 1
	switch call.Method {
	case "named":
		maxArgs = 2
	case "getByName":
	default:
		return nil, "", "", false
	}
	if len(args) == 0 || len(args) > maxArgs {
		return nil, "", "", false
	}
	for _, a := range args {
		if a.IsNamed() {
			return nil, "", "", false
		}
	}

	str, isString := args[0].Value.(*gtree.String)
	if !isString || str.Template {
		return nil, "", "", false
	}
	if len(args) == 2 {
		if typ, ok = dottedName(args[1].Value); !ok {
			return nil, "", "", false
		}
	}
	return call, str.Value, typ, true
}

func canConfigureTask(node, _ gtree.Node) bool {
	_, _, _, ok := taskLookup(node)
	return ok
}

func configureTask(node gtree.Node) gtree.Node {
	call, name, typ, ok := taskLookup(node)
	if !ok {
		return node
	}
	if call.Closure == nil {
		return &gtree.TaskAccess{Name: name, Type: typ}
	}
	return &gtree.TaskConfigure{Name: name, Type: typ, Closure: gtree.Detach(call.Closure)}
}
