// Package lower translates a G-tree into the Kotlin destination AST.
//
// Comments are not emitted as statements. Lower moves every gtree.Comment
// into a kotlin.Extras side table, attached before, after or within the
// destination node that owns its position:
//
//   - comments leading a statement sequence go before its first statement
//   - comments following a statement go after that statement
//   - a sequence made only of comments goes within the enclosing block
package lower

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/g2kts/pkg/gtree"
	"github.com/leapstack-labs/g2kts/pkg/kotlin"
)

// DefaultTaskType is the element type of tasks.named when the source
// gave none.
const DefaultTaskType = "Task"

// Names used by the task lowering.
const (
	tasksReceiver = "tasks"
	namedFunc     = "named"
	creatingFunc  = "creating"
	listFunc      = "listOf"
	runFunc       = "run"
	anyType       = "Any"
	exceptionType = "Exception"
)

// Options configures lowering.
type Options struct {
	// DefaultTaskType replaces DefaultTaskType when set.
	DefaultTaskType string
}

func (o Options) taskType(t string) string {
	if t != "" {
		return t
	}
	if o.DefaultTaskType != "" {
		return o.DefaultTaskType
	}
	return DefaultTaskType
}

// Lower translates a whole project into a script block and its comment
// side table. The side table belongs to this call only.
func Lower(project *gtree.Project, opts Options) (*kotlin.Block, *kotlin.Extras, error) {
	l := newLowerer(opts)
	file := &kotlin.Block{}
	if project != nil {
		if err := l.statements(file, project.Statements); err != nil {
			return nil, nil, err
		}
	}
	return file, l.extras, nil
}

// LowerNode translates any single G-tree node. Each variant maps to one
// destination node kind:
//
//	Project, Block       *kotlin.Block (a nested Block statement is run { })
//	Comment              *kotlin.Block holding the comment within
//	ArgumentsList        *kotlin.ValueArguments
//	Argument             *kotlin.Argument
//	Catch                *kotlin.Catch
//	SwitchCase           *kotlin.WhenBranch
//	operators            *kotlin.Operator
//	statements           kotlin.Statement
//	expressions          kotlin.Expression
//
// A Catch over several types lowers to a clause for its first type; the
// owning TryCatch emits one clause per type.
func LowerNode(n gtree.Node, opts Options) (kotlin.Node, *kotlin.Extras, error) {
	l := newLowerer(opts)
	out, err := l.node(n)
	if err != nil {
		return nil, nil, err
	}
	return out, l.extras, nil
}

type lowerer struct {
	opts   Options
	extras *kotlin.Extras
}

func newLowerer(opts Options) *lowerer {
	return &lowerer{opts: opts, extras: kotlin.NewExtras()}
}

func (l *lowerer) node(n gtree.Node) (kotlin.Node, error) {
	switch n := n.(type) {
	case *gtree.Project:
		file := &kotlin.Block{}
		return file, l.statements(file, n.Statements)
	case *gtree.Block:
		return l.block(n)
	case *gtree.Comment:
		b := &kotlin.Block{}
		l.extras.AddWithin(b, comment(n))
		return b, nil
	case *gtree.ExprStatement, *gtree.DeclStatement:
		return l.statement(n.(gtree.Statement))
	case *gtree.VariableDeclaration:
		return l.property(n)
	case gtree.Expression:
		return l.expr(n)
	case *gtree.ArgumentsList:
		return l.arguments(n)
	case *gtree.Argument:
		return l.argument(n)
	case *gtree.Catch:
		cs, err := l.catches(n)
		if err != nil {
			return nil, err
		}
		return cs[0], nil
	case *gtree.SwitchCase:
		return l.whenBranch([]gtree.Expression{n.Value}, n.Body)
	case gtree.BinaryOperator:
		return l.binaryOperator(n)
	case gtree.UnaryOperator:
		return l.unaryOperator(n)
	case nil:
		return nil, nil
	default:
		panic(fmt.Sprintf("lower: unhandled node %s", gtree.Kind(n)))
	}
}

// statements lowers stmts into owner, moving comments to the side table.
func (l *lowerer) statements(owner *kotlin.Block, stmts []gtree.Statement) error {
	var leading []kotlin.Comment
	var prev kotlin.Statement

	for _, s := range stmts {
		if c, ok := s.(*gtree.Comment); ok {
			kc := comment(c)
			if prev == nil {
				kc.Trailing = false
				leading = append(leading, kc)
				continue
			}
			l.extras.AddAfter(prev, kc)
			continue
		}

		out, err := l.statement(s)
		if err != nil {
			return err
		}
		if out == nil {
			continue
		}
		if len(leading) > 0 {
			l.extras.AddBefore(out, leading...)
			leading = nil
		}
		owner.Statements = append(owner.Statements, out)
		prev = out
	}

	if len(leading) > 0 {
		l.extras.AddWithin(owner, leading...)
	}
	return nil
}

func comment(c *gtree.Comment) kotlin.Comment {
	return kotlin.Comment{Text: c.Text, Trailing: c.Trailing}
}

func (l *lowerer) block(b *gtree.Block) (*kotlin.Block, error) {
	out := &kotlin.Block{}
	if b == nil {
		return out, nil
	}
	return out, l.statements(out, b.Statements)
}

// optionalBlock keeps an absent else or finally absent.
func (l *lowerer) optionalBlock(b *gtree.Block) (*kotlin.Block, error) {
	if b == nil {
		return nil, nil
	}
	return l.block(b)
}

func (l *lowerer) statement(s gtree.Statement) (kotlin.Statement, error) {
	switch s := s.(type) {
	case *gtree.ExprStatement:
		switch e := s.Expr.(type) {
		case *gtree.TaskCreating:
			return l.taskProperty(e)
		case *gtree.While:
			return l.while(e)
		}
		out, err := l.expr(s.Expr)
		if err != nil || out == nil {
			return nil, err
		}
		return out, nil
	case *gtree.DeclStatement:
		switch d := s.Decl.(type) {
		case *gtree.VariableDeclaration:
			return l.property(d)
		case nil:
			return nil, nil
		default:
			panic(fmt.Sprintf("lower: unhandled declaration %s", gtree.Kind(d)))
		}
	case *gtree.Block:
		return l.run(s)
	case *gtree.Comment:
		// Comments are handled by statements.
		return nil, nil
	default:
		panic(fmt.Sprintf("lower: unhandled statement %s", gtree.Kind(s)))
	}
}

// run wraps a block that is not a lambda as run { ... }.
func (l *lowerer) run(b *gtree.Block) (*kotlin.Call, error) {
	body, err := l.block(b)
	if err != nil {
		return nil, err
	}
	return &kotlin.Call{Name: runFunc, Lambda: &kotlin.Lambda{Body: body}}, nil
}

func (l *lowerer) property(d *gtree.VariableDeclaration) (*kotlin.Property, error) {
	init, err := l.expr(d.Initializer)
	if err != nil {
		return nil, err
	}
	prop := &kotlin.Property{
		Name:        d.Name,
		Type:        typeName(d.Type),
		Mutable:     !d.ReadOnly,
		Initializer: init,
	}
	prop.Nullable = prop.Type != ""
	// Script properties must be initialized.
	if init == nil {
		if prop.Type == "" {
			prop.Type = anyType
		}
		prop.Nullable = true
		prop.Initializer = &kotlin.Literal{Text: "null"}
	}
	return prop, nil
}

func (l *lowerer) expr(e gtree.Expression) (kotlin.Expression, error) {
	if gtree.IsNil(e) {
		return nil, nil
	}
	switch e := e.(type) {
	case *gtree.Identifier:
		return &kotlin.Name{Text: e.Name}, nil
	case *gtree.String:
		return &kotlin.StringLit{Value: e.Value, Template: e.Template}, nil
	case *gtree.Const:
		return &kotlin.Literal{Text: e.Text}, nil
	case *gtree.BinaryExpression:
		return l.binary(e)
	case *gtree.UnaryExpression:
		return l.unary(e)
	case *gtree.MethodCall:
		return l.call(e)
	case *gtree.Closure:
		return l.lambda(e)
	case *gtree.List:
		return l.list(e)
	case *gtree.PropertyAccess:
		recv, err := l.expr(e.Object)
		if err != nil {
			return nil, err
		}
		if recv == nil {
			return &kotlin.Name{Text: e.Name}, nil
		}
		return &kotlin.Dot{Receiver: recv, Name: e.Name, Safe: e.Safe}, nil
	case *gtree.ExtensionAccess:
		recv, err := l.expr(e.Object)
		if err != nil {
			return nil, err
		}
		index, err := l.expr(e.Index)
		if err != nil {
			return nil, err
		}
		return &kotlin.Index{Receiver: recv, Index: index}, nil
	case *gtree.If:
		return l.ifExpr(e)
	case *gtree.While:
		loop, err := l.while(e)
		if err != nil {
			return nil, err
		}
		return &kotlin.Call{Name: runFunc, Lambda: &kotlin.Lambda{Body: &kotlin.Block{Statements: []kotlin.Statement{loop}}}}, nil
	case *gtree.TryCatch:
		return l.try(e)
	case *gtree.Switch:
		return l.when(e)
	case *gtree.BuildScriptBlock:
		body, err := l.block(e.Body)
		if err != nil {
			return nil, err
		}
		return &kotlin.Call{Name: e.Type, Lambda: &kotlin.Lambda{Body: body}}, nil
	case *gtree.TaskAccess:
		return l.named(e.Name, e.Type, nil)
	case *gtree.TaskConfigure:
		return l.named(e.Name, e.Type, e.Closure)
	case *gtree.TaskCreating:
		return l.creating(e)
	default:
		panic(fmt.Sprintf("lower: unhandled expression %s", gtree.Kind(e)))
	}
}

func (l *lowerer) binary(e *gtree.BinaryExpression) (*kotlin.BinaryOp, error) {
	op, err := l.binaryOperator(e.Operator)
	if err != nil {
		return nil, err
	}
	left, err := l.expr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := l.expr(e.Right)
	if err != nil {
		return nil, err
	}
	return &kotlin.BinaryOp{Left: left, Op: op, Right: right}, nil
}

func (l *lowerer) unary(e *gtree.UnaryExpression) (*kotlin.UnaryOp, error) {
	op, err := l.unaryOperator(e.Operator)
	if err != nil {
		return nil, err
	}
	operand, err := l.expr(e.Operand)
	if err != nil {
		return nil, err
	}
	return &kotlin.UnaryOp{Op: op, Operand: operand, Prefix: e.Prefix}, nil
}

// binaryOperator resolves a common token against the Kotlin table. An
// uncommon operator becomes a named infix call.
func (l *lowerer) binaryOperator(op gtree.BinaryOperator) (*kotlin.Operator, error) {
	switch op := op.(type) {
	case *gtree.CommonBinaryOperator:
		tok, ok := kotlin.BinaryTokens[op.Token]
		if !ok {
			return nil, &UnknownOperatorTokenError{Token: op.Token}
		}
		return &kotlin.Operator{Token: tok}, nil
	case *gtree.UncommonBinaryOperator:
		return &kotlin.Operator{Infix: op.Name}, nil
	case nil:
		return nil, &UnknownOperatorTokenError{}
	default:
		panic(fmt.Sprintf("lower: unhandled binary operator %s", gtree.Kind(op)))
	}
}

// unaryOperator resolves a unary token. Kotlin has no named prefix
// functions, so an uncommon unary operator cannot be lowered.
func (l *lowerer) unaryOperator(op gtree.UnaryOperator) (*kotlin.Operator, error) {
	switch op := op.(type) {
	case *gtree.CommonUnaryOperator:
		tok, ok := kotlin.UnaryTokens[op.Token]
		if !ok {
			return nil, &UnknownOperatorTokenError{Token: op.Token, Unary: true}
		}
		return &kotlin.Operator{Token: tok}, nil
	case *gtree.UncommonUnaryOperator:
		return nil, &UnknownOperatorTokenError{Token: op.Name, Unary: true}
	case nil:
		return nil, &UnknownOperatorTokenError{Unary: true}
	default:
		panic(fmt.Sprintf("lower: unhandled unary operator %s", gtree.Kind(op)))
	}
}

// call lowers a method call. The closure becomes the trailing lambda and
// the parentheses are dropped when nothing else is passed.
func (l *lowerer) call(m *gtree.MethodCall) (*kotlin.Call, error) {
	recv, err := l.expr(m.Object)
	if err != nil {
		return nil, err
	}
	out := &kotlin.Call{Receiver: recv, Name: m.Method}
	if len(m.Args()) > 0 {
		if out.Args, err = l.arguments(m.Arguments); err != nil {
			return nil, err
		}
	}
	if m.Closure != nil {
		if out.Lambda, err = l.lambda(m.Closure); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (l *lowerer) arguments(list *gtree.ArgumentsList) (*kotlin.ValueArguments, error) {
	out := &kotlin.ValueArguments{}
	if list == nil {
		return out, nil
	}
	for _, a := range list.Args {
		arg, err := l.argument(a)
		if err != nil {
			return nil, err
		}
		out.Args = append(out.Args, arg)
	}
	return out, nil
}

func (l *lowerer) argument(a *gtree.Argument) (*kotlin.Argument, error) {
	value, err := l.expr(a.Value)
	if err != nil {
		return nil, err
	}
	return &kotlin.Argument{Name: a.Name, Value: value}, nil
}

func (l *lowerer) lambda(c *gtree.Closure) (*kotlin.Lambda, error) {
	body, err := l.block(c.Body)
	if err != nil {
		return nil, err
	}
	out := &kotlin.Lambda{Body: body}
	for _, p := range c.Params {
		out.Params = append(out.Params, kotlin.Param{Name: p.Name, Type: typeName(p.Type)})
	}
	return out, nil
}

func (l *lowerer) list(e *gtree.List) (*kotlin.Call, error) {
	out := &kotlin.Call{Name: listFunc, Args: &kotlin.ValueArguments{}}
	for _, el := range e.Elements {
		value, err := l.expr(el)
		if err != nil {
			return nil, err
		}
		out.Args.Args = append(out.Args.Args, &kotlin.Argument{Value: value})
	}
	return out, nil
}

func (l *lowerer) ifExpr(e *gtree.If) (*kotlin.If, error) {
	cond, err := l.expr(e.Condition)
	if err != nil {
		return nil, err
	}
	then, err := l.block(e.Then)
	if err != nil {
		return nil, err
	}
	els, err := l.optionalBlock(e.Else)
	if err != nil {
		return nil, err
	}
	return &kotlin.If{Condition: cond, Then: then, Else: els}, nil
}

func (l *lowerer) while(e *gtree.While) (*kotlin.While, error) {
	cond, err := l.expr(e.Condition)
	if err != nil {
		return nil, err
	}
	body, err := l.block(e.Body)
	if err != nil {
		return nil, err
	}
	return &kotlin.While{Condition: cond, Body: body}, nil
}

func (l *lowerer) try(e *gtree.TryCatch) (*kotlin.Try, error) {
	body, err := l.block(e.Try)
	if err != nil {
		return nil, err
	}
	out := &kotlin.Try{Body: body}
	for _, c := range e.Catches {
		cs, err := l.catches(c)
		if err != nil {
			return nil, err
		}
		out.Catches = append(out.Catches, cs...)
	}
	if out.Finally, err = l.optionalBlock(e.Finally); err != nil {
		return nil, err
	}
	return out, nil
}

// catches lowers one catch clause. Kotlin has no multi-catch, so a union
// of types becomes one clause per type, each with its own copy of the
// body.
func (l *lowerer) catches(c *gtree.Catch) ([]*kotlin.Catch, error) {
	types := strings.Split(c.Type, "|")
	out := make([]*kotlin.Catch, 0, len(types))
	for _, t := range types {
		t = typeName(strings.TrimSpace(t))
		if t == "" {
			t = exceptionType
		}
		body, err := l.block(c.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, &kotlin.Catch{Name: c.Name, Type: t, Body: body})
	}
	return out, nil
}

// when lowers a switch. Cases with an empty body fall through, so their
// values join the next case's branch.
func (l *lowerer) when(e *gtree.Switch) (*kotlin.When, error) {
	subject, err := l.expr(e.Subject)
	if err != nil {
		return nil, err
	}
	out := &kotlin.When{Subject: subject}

	var pending []gtree.Expression
	for _, c := range e.Cases {
		pending = append(pending, c.Value)
		if c.Body == nil || len(c.Body.Statements) == 0 {
			continue
		}
		br, err := l.whenBranch(pending, c.Body)
		if err != nil {
			return nil, err
		}
		out.Branches = append(out.Branches, br)
		pending = nil
	}
	if len(pending) > 0 {
		// Trailing empty cases fall into the default.
		br, err := l.whenBranch(pending, e.Default)
		if err != nil {
			return nil, err
		}
		out.Branches = append(out.Branches, br)
	}

	if out.Else, err = l.optionalBlock(e.Default); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *lowerer) whenBranch(values []gtree.Expression, body *gtree.Block) (*kotlin.WhenBranch, error) {
	out := &kotlin.WhenBranch{}
	for _, v := range values {
		cond, err := l.expr(v)
		if err != nil {
			return nil, err
		}
		out.Conditions = append(out.Conditions, cond)
	}
	var err error
	out.Body, err = l.block(body)
	return out, err
}

// named lowers a task lookup to tasks.named<Type>("name") with the
// configuring closure, if any, as trailing lambda.
func (l *lowerer) named(name, typ string, closure *gtree.Closure) (*kotlin.Call, error) {
	out := &kotlin.Call{
		Receiver: &kotlin.Name{Text: tasksReceiver},
		Name:     namedFunc,
		TypeArgs: []string{l.opts.taskType(typ)},
		Args:     &kotlin.ValueArguments{Args: []*kotlin.Argument{{Value: &kotlin.StringLit{Value: name}}}},
	}
	if closure != nil {
		lambda, err := l.lambda(closure)
		if err != nil {
			return nil, err
		}
		out.Lambda = lambda
	}
	return out, nil
}

// taskProperty lowers a task declaration to val name by tasks.creating.
func (l *lowerer) taskProperty(t *gtree.TaskCreating) (*kotlin.Property, error) {
	init, err := l.creating(t)
	if err != nil {
		return nil, err
	}
	return &kotlin.Property{Name: t.Name, Delegate: true, Initializer: init}, nil
}

// creating builds the tasks.creating delegate. Without a type or body it
// is a plain property reference.
func (l *lowerer) creating(t *gtree.TaskCreating) (kotlin.Expression, error) {
	tasks := &kotlin.Name{Text: tasksReceiver}
	if t.Type == "" && t.Body == nil {
		return &kotlin.Dot{Receiver: tasks, Name: creatingFunc}, nil
	}
	out := &kotlin.Call{Receiver: tasks, Name: creatingFunc}
	if t.Type != "" {
		out.Args = &kotlin.ValueArguments{Args: []*kotlin.Argument{{Value: &kotlin.ClassLiteral{Type: t.Type}}}}
	}
	if t.Body != nil {
		lambda, err := l.lambda(t.Body)
		if err != nil {
			return nil, err
		}
		out.Lambda = lambda
	}
	return out, nil
}

// typeNames maps origin primitive and dynamic types to Kotlin.
var typeNames = map[string]string{
	"def":     "",
	"Object":  anyType,
	"int":     "Int",
	"long":    "Long",
	"short":   "Short",
	"byte":    "Byte",
	"char":    "Char",
	"float":   "Float",
	"double":  "Double",
	"boolean": "Boolean",
	"Integer": "Int",
}

func typeName(t string) string {
	if k, ok := typeNames[t]; ok {
		return k
	}
	return t
}
