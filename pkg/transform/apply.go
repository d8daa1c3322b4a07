package transform

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/g2kts/pkg/gtree"
)

// Report counts applied rewrites per pass ID.
type Report map[string]int

// Driver applies a fixed list of passes to G-trees.
//
// The walk is pre-order. At each node the passes are tried in list order
// and the first one whose Can holds replaces the node; no other pass sees
// that node. The walk then continues into the replacement's children, so
// a replacement is never rewritten twice.
type Driver struct {
	passes []Transformation
	logger *slog.Logger
}

// NewDriver creates a driver. A nil logger discards output.
func NewDriver(passes []Transformation, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{passes: passes, logger: logger}
}

// Apply rewrites project in place with passes.
func Apply(project *gtree.Project, passes []Transformation) error {
	_, err := NewDriver(passes, nil).Apply(project)
	return err
}

// Apply rewrites project in place. On error the tree may be partially
// rewritten and should be discarded.
func (d *Driver) Apply(project *gtree.Project) (Report, error) {
	r := &run{Driver: d, report: Report{}}
	if _, err := rewrite(r, project, nil); err != nil {
		return nil, err
	}
	return r.report, nil
}

// run holds the state of one Apply call.
type run struct {
	*Driver
	report Report
}

// apply lets the first applicable pass replace n. It returns the ID of
// that pass, or "" when none applied.
func (r *run) apply(n, scope gtree.Node) (gtree.Node, string) {
	for _, p := range r.passes {
		if !p.Can(n, scope) {
			continue
		}
		r.report[p.ID()]++
		r.logger.Debug("pass applied",
			slog.String("pass", p.ID()),
			slog.String("node", gtree.Kind(n)))
		return p.Transform(n), p.ID()
	}
	return n, ""
}

// visit rewrites n and then its subtree. When a pass removed n it returns
// the zero value and the pass ID.
func visit[T gtree.Node](r *run, n T, scope gtree.Node) (T, string, error) {
	var zero T
	if gtree.IsNil(n) {
		return n, "", nil
	}
	replaced, pass := r.apply(n, scope)
	if pass != "" {
		if gtree.IsNil(replaced) {
			return zero, pass, nil
		}
		t, ok := replaced.(T)
		if !ok {
			return zero, "", &InvalidRewriteError{Pass: pass, From: gtree.Kind(n), To: gtree.Kind(replaced)}
		}
		n = t
	}
	if err := r.children(n, scope); err != nil {
		return zero, "", err
	}
	return n, "", nil
}

// rewrite is visit for places a node cannot be removed from.
func rewrite[T gtree.Node](r *run, n T, scope gtree.Node) (T, error) {
	out, removedBy, err := visit(r, n, scope)
	if err != nil {
		return out, err
	}
	if removedBy != "" {
		return n, &InvalidRewriteError{Pass: removedBy, From: gtree.Kind(n)}
	}
	return out, nil
}

func rewriteAll[T gtree.Node](r *run, nodes []T, scope gtree.Node) error {
	for i, n := range nodes {
		out, err := rewrite(r, n, scope)
		if err != nil {
			return err
		}
		nodes[i] = out
	}
	return nil
}

// statements rewrites a statement sequence. A statement expression that a
// pass removed drops its statement.
func (r *run) statements(stmts []gtree.Statement, scope gtree.Node) ([]gtree.Statement, error) {
	if stmts == nil {
		return nil, nil
	}
	out := make([]gtree.Statement, 0, len(stmts))
	for _, s := range stmts {
		next, removedBy, err := visit(r, s, scope)
		if err != nil {
			return nil, err
		}
		if removedBy != "" {
			if _, ok := s.(*gtree.ExprStatement); !ok {
				return nil, &InvalidRewriteError{Pass: removedBy, From: gtree.Kind(s)}
			}
			continue
		}
		if es, ok := next.(*gtree.ExprStatement); ok && es.Expr == nil {
			r.logger.Debug("statement removed")
			continue
		}
		out = append(out, next)
	}
	return out, nil
}

// children rewrites the direct children of n. Block owners become the
// scope of the blocks they own.
func (r *run) children(n, scope gtree.Node) error {
	var err error
	switch n := n.(type) {
	case *gtree.Project:
		n.Statements, err = r.statements(n.Statements, nil)

	case *gtree.ExprStatement:
		// A removed expression leaves Expr nil; statements drops it.
		n.Expr, _, err = visit(r, n.Expr, scope)

	case *gtree.DeclStatement:
		n.Decl, err = rewrite(r, n.Decl, scope)

	case *gtree.Block:
		n.Statements, err = r.statements(n.Statements, scope)

	case *gtree.VariableDeclaration:
		n.Initializer, err = rewrite(r, n.Initializer, scope)

	case *gtree.BinaryExpression:
		if n.Left, err = rewrite(r, n.Left, scope); err != nil {
			return err
		}
		n.Right, err = rewrite(r, n.Right, scope)

	case *gtree.UnaryExpression:
		n.Operand, err = rewrite(r, n.Operand, scope)

	case *gtree.MethodCall:
		if n.Object, err = rewrite(r, n.Object, scope); err != nil {
			return err
		}
		if n.Arguments, err = rewrite(r, n.Arguments, scope); err != nil {
			return err
		}
		n.Closure, err = rewrite(r, n.Closure, gtree.Node(n))

	case *gtree.ArgumentsList:
		err = rewriteAll(r, n.Args, scope)

	case *gtree.Argument:
		n.Value, err = rewrite(r, n.Value, scope)

	case *gtree.Closure:
		n.Body, err = rewrite(r, n.Body, scope)

	case *gtree.List:
		err = rewriteAll(r, n.Elements, scope)

	case *gtree.PropertyAccess:
		n.Object, err = rewrite(r, n.Object, scope)

	case *gtree.ExtensionAccess:
		if n.Object, err = rewrite(r, n.Object, scope); err != nil {
			return err
		}
		n.Index, err = rewrite(r, n.Index, scope)

	case *gtree.If:
		if n.Condition, err = rewrite(r, n.Condition, scope); err != nil {
			return err
		}
		if n.Then, err = rewrite(r, n.Then, gtree.Node(n)); err != nil {
			return err
		}
		n.Else, err = rewrite(r, n.Else, gtree.Node(n))

	case *gtree.While:
		if n.Condition, err = rewrite(r, n.Condition, scope); err != nil {
			return err
		}
		n.Body, err = rewrite(r, n.Body, gtree.Node(n))

	case *gtree.TryCatch:
		if n.Try, err = rewrite(r, n.Try, gtree.Node(n)); err != nil {
			return err
		}
		if err = rewriteAll(r, n.Catches, gtree.Node(n)); err != nil {
			return err
		}
		n.Finally, err = rewrite(r, n.Finally, gtree.Node(n))

	case *gtree.Catch:
		n.Body, err = rewrite(r, n.Body, scope)

	case *gtree.Switch:
		if n.Subject, err = rewrite(r, n.Subject, scope); err != nil {
			return err
		}
		if err = rewriteAll(r, n.Cases, gtree.Node(n)); err != nil {
			return err
		}
		n.Default, err = rewrite(r, n.Default, gtree.Node(n))

	case *gtree.SwitchCase:
		if n.Value, err = rewrite(r, n.Value, scope); err != nil {
			return err
		}
		n.Body, err = rewrite(r, n.Body, scope)

	case *gtree.BuildScriptBlock:
		n.Body, err = rewrite(r, n.Body, gtree.Node(n))

	case *gtree.TaskConfigure:
		n.Closure, err = rewrite(r, n.Closure, gtree.Node(n))

	case *gtree.TaskCreating:
		n.Body, err = rewrite(r, n.Body, gtree.Node(n))

	case *gtree.Comment, *gtree.Identifier, *gtree.String, *gtree.Const, *gtree.TaskAccess:
		// leaves

	default:
		panic(fmt.Sprintf("transform: unhandled node %T", n))
	}
	return err
}
