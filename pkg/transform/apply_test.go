package transform_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/g2kts/internal/testutil"
	"github.com/leapstack-labs/g2kts/pkg/builder"
	"github.com/leapstack-labs/g2kts/pkg/gtree"
	"github.com/leapstack-labs/g2kts/pkg/parser"
	"github.com/leapstack-labs/g2kts/pkg/transform"
)

func build(t *testing.T, src string) *gtree.Project {
	t.Helper()
	script, err := parser.Parse(src)
	require.NoError(t, err)
	project, err := builder.BuildProject(script)
	require.NoError(t, err)
	return project
}

func identNamed(name string) transform.CanFunc {
	return func(node, _ gtree.Node) bool {
		id, ok := node.(*gtree.Identifier)
		return ok && id.Name == name
	}
}

func callNamed(name string) transform.CanFunc {
	return func(node, _ gtree.Node) bool {
		call, ok := node.(*gtree.MethodCall)
		return ok && call.Method == name
	}
}

func renameTo(name string) transform.TransformFunc {
	return func(gtree.Node) gtree.Node {
		return &gtree.Identifier{Name: name}
	}
}

func firstCall(t *testing.T, p *gtree.Project) *gtree.MethodCall {
	t.Helper()
	require.NotEmpty(t, p.Statements)
	call, ok := p.Statements[0].(*gtree.ExprStatement).Expr.(*gtree.MethodCall)
	require.True(t, ok)
	return call
}

func TestApply_FirstMatchWins(t *testing.T) {
	reg := transform.NewRegistry()
	reg.Register(transform.Def{ID: "b-second", Order: 10, Can: identNamed("a"), Transform: renameTo("second")})
	reg.Register(transform.Def{ID: "a-first", Order: 1, Can: identNamed("a"), Transform: renameTo("first")})

	project := build(t, "foo(a)")
	report, err := transform.NewDriver(reg.Passes(), testutil.NewTestLogger(t)).Apply(project)
	require.NoError(t, err)

	arg := firstCall(t, project).Args()[0].Value
	assert.Equal(t, &gtree.Identifier{Name: "first"}, arg)
	assert.Equal(t, transform.Report{"a-first": 1}, report)
}

func TestApply_OrderTiesBrokenByID(t *testing.T) {
	reg := transform.NewRegistry()
	reg.Register(transform.Def{ID: "zeta", Can: identNamed("a"), Transform: renameTo("zeta")})
	reg.Register(transform.Def{ID: "alpha", Can: identNamed("a"), Transform: renameTo("alpha")})

	project := build(t, "foo(a)")
	require.NoError(t, transform.Apply(project, reg.Passes()))
	assert.Equal(t, &gtree.Identifier{Name: "alpha"}, firstCall(t, project).Args()[0].Value)
}

func TestApply_DescendsIntoReplacement(t *testing.T) {
	wrap := transform.Def{
		ID:  "wrap",
		Can: callNamed("foo"),
		Transform: func(gtree.Node) gtree.Node {
			return &gtree.MethodCall{
				Method:    "bar",
				Arguments: &gtree.ArgumentsList{Args: []*gtree.Argument{{Value: &gtree.Identifier{Name: "x"}}}},
			}
		},
	}
	rename := transform.Def{ID: "rename", Order: 1, Can: identNamed("x"), Transform: renameTo("y")}

	project := build(t, "foo()")
	report, err := transform.NewDriver([]transform.Transformation{wrap.Pass(), rename.Pass()}, nil).Apply(project)
	require.NoError(t, err)

	call := firstCall(t, project)
	assert.Equal(t, "bar", call.Method)
	assert.Equal(t, &gtree.Identifier{Name: "y"}, call.Args()[0].Value)
	assert.Equal(t, transform.Report{"wrap": 1, "rename": 1}, report)
}

func TestApply_ReplacementIsNotRevisited(t *testing.T) {
	calls := 0
	grow := transform.Def{
		ID:  "grow",
		Can: callNamed("foo"),
		Transform: func(n gtree.Node) gtree.Node {
			calls++
			return &gtree.MethodCall{Method: "foo", Arguments: &gtree.ArgumentsList{}}
		},
	}

	project := build(t, "foo()")
	require.NoError(t, transform.Apply(project, []transform.Transformation{grow.Pass()}))
	assert.Equal(t, 1, calls)
}

func TestApply_RemovesStatementExpression(t *testing.T) {
	drop := transform.Def{
		ID:        "drop",
		Can:       callNamed("drop"),
		Transform: func(gtree.Node) gtree.Node { return nil },
	}

	project := build(t, "a()\ndrop()\nb {\n    drop()\n    c()\n}")
	require.NoError(t, transform.Apply(project, []transform.Transformation{drop.Pass()}))

	require.Len(t, project.Statements, 2)
	assert.Equal(t, "a", firstCall(t, project).Method)
	nested := project.Statements[1].(*gtree.ExprStatement).Expr.(*gtree.MethodCall)
	require.Len(t, nested.Closure.Body.Statements, 1)
	assert.Equal(t, "c", nested.Closure.Body.Statements[0].(*gtree.ExprStatement).Expr.(*gtree.MethodCall).Method)
}

func TestApply_InvalidRewrites(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		def      transform.Def
		wantFrom string
		wantTo   string
	}{
		{
			name: "argument removed",
			src:  "foo(a)",
			def: transform.Def{
				ID: "remove-arg", Can: identNamed("a"),
				Transform: func(gtree.Node) gtree.Node { return nil },
			},
			wantFrom: "Identifier",
		},
		{
			name: "closure replaced by an expression",
			src:  "foo { }",
			def: transform.Def{
				ID: "bad-closure",
				Can: func(n, _ gtree.Node) bool {
					_, ok := n.(*gtree.Closure)
					return ok
				},
				Transform: renameTo("x"),
			},
			wantFrom: "Closure",
			wantTo:   "Identifier",
		},
		{
			name: "statement replaced by an expression",
			src:  "// note\nfoo()",
			def: transform.Def{
				ID: "bad-comment",
				Can: func(n, _ gtree.Node) bool {
					_, ok := n.(*gtree.Comment)
					return ok
				},
				Transform: renameTo("x"),
			},
			wantFrom: "Comment",
			wantTo:   "Identifier",
		},
		{
			name: "comment removed",
			src:  "// note\nfoo()",
			def: transform.Def{
				ID: "drop-comment",
				Can: func(n, _ gtree.Node) bool {
					_, ok := n.(*gtree.Comment)
					return ok
				},
				Transform: func(gtree.Node) gtree.Node { return nil },
			},
			wantFrom: "Comment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := build(t, tt.src)
			err := transform.Apply(project, []transform.Transformation{tt.def.Pass()})
			require.Error(t, err)
			assert.True(t, errors.Is(err, transform.ErrInvalidRewrite))

			var ire *transform.InvalidRewriteError
			require.True(t, errors.As(err, &ire))
			assert.Equal(t, tt.def.ID, ire.Pass)
			assert.Equal(t, tt.wantFrom, ire.From)
			assert.Equal(t, tt.wantTo, ire.To)
		})
	}
}

func TestApply_Scope(t *testing.T) {
	scopes := map[string]string{}
	record := transform.Def{
		ID: "record",
		Can: func(n, scope gtree.Node) bool {
			if id, ok := n.(*gtree.Identifier); ok {
				if scope == nil {
					scopes[id.Name] = "<top>"
				} else {
					scopes[id.Name] = gtree.Kind(scope)
				}
			}
			return false
		},
	}

	src := `x = 1
foo(a) {
    y = 2
}
if (c) {
    z = 3
} else {
    w = 4
}
plugins {
    while (d) { v = 5 }
}`
	project := build(t, src)
	require.NoError(t, transform.Apply(project, []transform.Transformation{record.Pass()}))

	assert.Equal(t, map[string]string{
		"x": "<top>",
		"a": "<top>",
		"y": "MethodCall",
		"c": "<top>",
		"z": "If",
		"w": "If",
		"d": "MethodCall",
		"v": "While",
	}, scopes)
}

func TestApply_NoPassesIsNoOp(t *testing.T) {
	project := build(t, "foo(a, b) { bar() }\nx = [1, 2]")
	before := gtree.Detach(project)

	report, err := transform.NewDriver(nil, nil).Apply(project)
	require.NoError(t, err)
	assert.Empty(t, report)
	assert.Equal(t, before, project)
}
