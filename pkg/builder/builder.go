// Package builder translates the origin parse tree produced by pkg/parser
// into the G-tree.
//
// Translation is structural and fail-fast: the first origin node without a
// rule aborts the whole file with an UnsupportedConstructError, so no
// partial tree is ever returned.
package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/g2kts/pkg/gtree"
	"github.com/leapstack-labs/g2kts/pkg/parser"
	"github.com/leapstack-labs/g2kts/pkg/token"
)

// reservedTasksCallee is the receiver name task passes own; as a bare
// call it has no translation.
const reservedTasksCallee = "tasks"

// taskCallee declares a task: task name(...) { }.
const taskCallee = "task"

// infixNames maps bitwise and shift operators to the named infix functions
// that replace them.
var infixNames = map[token.TokenType]string{
	token.BIT_AND: "and",
	token.BIT_OR:  "or",
	token.BIT_XOR: "xor",
	token.LSHIFT:  "shl",
	token.RSHIFT:  "shr",
	token.URSHIFT: "ushr",
}

// BuildProject translates a whole script. The root must be a block.
func BuildProject(root parser.Statement) (*gtree.Project, error) {
	if root == nil {
		return nil, NewInvalidInput(nil)
	}
	block, ok := root.(*parser.BlockStatement)
	if !ok {
		return nil, NewInvalidInput(root)
	}
	if block == nil {
		return nil, NewInvalidInput(nil)
	}

	stmts, err := buildStatements(block.Statements)
	if err != nil {
		return nil, err
	}
	return &gtree.Project{Statements: stmts}, nil
}

// BuildStatement translates a single statement.
func BuildStatement(s parser.Statement) (gtree.Statement, error) {
	switch s := s.(type) {
	case *parser.ExpressionStatement:
		if decl, ok := s.Expression.(*parser.DeclarationExpression); ok {
			d, err := buildDeclaration(decl)
			if err != nil {
				return nil, err
			}
			return &gtree.DeclStatement{Decl: d}, nil
		}
		// Assignments are statements in Kotlin; only this level may hold one.
		if bin, ok := s.Expression.(*parser.BinaryExpression); ok && token.IsAssignment(bin.Operation.Type) {
			expr, err := buildBinary(bin)
			if err != nil {
				return nil, err
			}
			return &gtree.ExprStatement{Expr: expr}, nil
		}
		expr, err := BuildExpression(s.Expression)
		if err != nil {
			return nil, err
		}
		return &gtree.ExprStatement{Expr: expr}, nil

	case *parser.BlockStatement:
		return buildBlock(s)

	case *parser.CommentStatement:
		return &gtree.Comment{Text: s.Comment.Text, Trailing: s.Comment.Trailing}, nil

	case *parser.IfStatement:
		expr, err := buildIf(s)
		if err != nil {
			return nil, err
		}
		return &gtree.ExprStatement{Expr: expr}, nil

	case *parser.WhileStatement:
		cond, err := BuildExpression(s.Condition)
		if err != nil {
			return nil, err
		}
		body, err := blockOf(s.Body)
		if err != nil {
			return nil, err
		}
		return &gtree.ExprStatement{Expr: &gtree.While{Condition: cond, Body: body}}, nil

	case *parser.TryCatchStatement:
		expr, err := buildTryCatch(s)
		if err != nil {
			return nil, err
		}
		return &gtree.ExprStatement{Expr: expr}, nil

	case *parser.SwitchStatement:
		expr, err := buildSwitch(s)
		if err != nil {
			return nil, err
		}
		return &gtree.ExprStatement{Expr: expr}, nil
	}
	return nil, NewUnsupportedConstruct(s, "")
}

// BuildExpression translates a single expression.
func BuildExpression(e parser.Expression) (gtree.Expression, error) {
	switch e := e.(type) {
	case *parser.MethodCallExpression:
		return buildCall(e)
	case *parser.ConstantExpression:
		return buildConstant(e), nil
	case *parser.GStringExpression:
		return &gtree.String{Value: e.Raw, Template: true}, nil
	case *parser.VariableExpression:
		return buildVariable(e), nil
	case *parser.ClosureExpression:
		return buildClosure(e)
	case *parser.BinaryExpression:
		if token.IsAssignment(e.Operation.Type) {
			return nil, NewUnsupportedConstruct(e, "assignment used as a value")
		}
		return buildBinary(e)
	case *parser.UnaryExpression:
		operand, err := BuildExpression(e.Operand)
		if err != nil {
			return nil, err
		}
		return &gtree.UnaryExpression{Operator: unaryOperator(e.Operation), Operand: operand, Prefix: e.Prefix}, nil
	case *parser.ListExpression:
		list := &gtree.List{}
		for _, el := range e.Expressions {
			v, err := BuildExpression(el)
			if err != nil {
				return nil, err
			}
			list.Elements = append(list.Elements, v)
		}
		return list, nil
	case *parser.PropertyExpression:
		obj, err := BuildExpression(e.Object)
		if err != nil {
			return nil, err
		}
		return &gtree.PropertyAccess{Object: obj, Name: e.Property, Safe: e.Safe}, nil
	case *parser.IndexExpression:
		obj, err := BuildExpression(e.Object)
		if err != nil {
			return nil, err
		}
		index, err := BuildExpression(e.Index)
		if err != nil {
			return nil, err
		}
		return &gtree.ExtensionAccess{Object: obj, Index: index}, nil
	case *parser.CompareToNullExpression:
		return nil, NewUnsupportedConstruct(e, "null comparison")
	case *parser.CompareIdentityExpression:
		return nil, NewUnsupportedConstruct(e, "identity comparison")
	case *parser.DeclarationExpression:
		return nil, NewUnsupportedConstruct(e, "declaration used as a value")
	}
	return nil, NewUnsupportedConstruct(e, "")
}

// ---------- Statements ----------

func buildStatements(stmts []parser.Statement) ([]gtree.Statement, error) {
	out := make([]gtree.Statement, 0, len(stmts))
	for _, s := range stmts {
		g, err := BuildStatement(s)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func buildBlock(b *parser.BlockStatement) (*gtree.Block, error) {
	stmts, err := buildStatements(b.Statements)
	if err != nil {
		return nil, err
	}
	return &gtree.Block{Statements: stmts}, nil
}

// blockOf translates a body that may be a block or a single statement.
func blockOf(s parser.Statement) (*gtree.Block, error) {
	if s == nil {
		return nil, nil
	}
	if b, ok := s.(*parser.BlockStatement); ok {
		return buildBlock(b)
	}
	g, err := BuildStatement(s)
	if err != nil {
		return nil, err
	}
	return &gtree.Block{Statements: []gtree.Statement{g}}, nil
}

func buildDeclaration(d *parser.DeclarationExpression) (*gtree.VariableDeclaration, error) {
	decl := &gtree.VariableDeclaration{Name: d.Name, Type: d.Type, ReadOnly: d.Final}
	if d.Right != nil {
		init, err := BuildExpression(d.Right)
		if err != nil {
			return nil, err
		}
		decl.Initializer = init
	}
	return decl, nil
}

func buildIf(s *parser.IfStatement) (*gtree.If, error) {
	cond, err := BuildExpression(s.Condition)
	if err != nil {
		return nil, err
	}
	then, err := blockOf(s.Then)
	if err != nil {
		return nil, err
	}
	elseBlock, err := blockOf(s.Else)
	if err != nil {
		return nil, err
	}
	return &gtree.If{Condition: cond, Then: then, Else: elseBlock}, nil
}

func buildTryCatch(s *parser.TryCatchStatement) (*gtree.TryCatch, error) {
	try, err := buildBlock(s.Try)
	if err != nil {
		return nil, err
	}
	out := &gtree.TryCatch{Try: try}
	for _, c := range s.Catches {
		body, err := buildBlock(c.Code)
		if err != nil {
			return nil, err
		}
		out.Catches = append(out.Catches, &gtree.Catch{Name: c.ParamName, Type: c.ParamType, Body: body})
	}
	if s.Finally != nil {
		if out.Finally, err = buildBlock(s.Finally); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func buildSwitch(s *parser.SwitchStatement) (*gtree.Switch, error) {
	subject, err := BuildExpression(s.Expression)
	if err != nil {
		return nil, err
	}
	out := &gtree.Switch{Subject: subject}
	for _, c := range s.Cases {
		value, err := BuildExpression(c.Expression)
		if err != nil {
			return nil, err
		}
		body, err := buildBlock(c.Code)
		if err != nil {
			return nil, err
		}
		out.Cases = append(out.Cases, &gtree.SwitchCase{Value: value, Body: body})
	}
	if s.Default != nil {
		if out.Default, err = buildBlock(s.Default); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ---------- Expressions ----------

// buildCall translates a call and promotes a trailing closure argument to
// the call's configuration block.
func buildCall(c *parser.MethodCallExpression) (gtree.Expression, error) {
	name := c.MethodName()
	switch {
	case name == "":
		return nil, NewUnsupportedConstruct(c, "dynamic method name")
	case c.ImplicitThis && name == reservedTasksCallee:
		return nil, NewUnsupportedConstruct(c, "bare tasks callee")
	case c.Safe:
		return nil, NewUnsupportedConstruct(c, "safe call")
	}

	call := &gtree.MethodCall{Method: name}
	if !c.ImplicitThis && c.Object != nil {
		obj, err := BuildExpression(c.Object)
		if err != nil {
			return nil, err
		}
		call.Object = obj
	}

	args, err := buildArguments(c.Arguments)
	if err != nil {
		return nil, err
	}

	// Only a positional closure in last place is promoted; a named
	// closure argument keeps its name.
	if n := len(args.Args); n > 0 {
		last := args.Args[n-1]
		if closure, ok := last.Value.(*gtree.Closure); ok && !last.IsNamed() {
			call.Closure = closure
			args.Args = args.Args[:n-1]
			if len(args.Args) == 0 {
				args.Args = nil
			}
		}
	}
	call.Arguments = args

	if isQualifiedTaskName(call) {
		return nil, NewUnsupportedConstruct(c, "qualified task name")
	}
	return call, nil
}

// isQualifiedTaskName reports task a.b(...), whose receiver has no place
// in a task declaration.
func isQualifiedTaskName(call *gtree.MethodCall) bool {
	if call.Object != nil || call.Method != taskCallee {
		return false
	}
	args := call.Args()
	if len(args) != 1 {
		return false
	}
	inner, ok := args[0].Value.(*gtree.MethodCall)
	return ok && inner.Object != nil
}

// buildArguments flattens the argument tuple, expanding named argument
// groups in place.
func buildArguments(e parser.Expression) (*gtree.ArgumentsList, error) {
	tuple, ok := e.(*parser.TupleExpression)
	if !ok {
		return nil, NewMalformedArguments(e)
	}

	list := &gtree.ArgumentsList{}
	for _, arg := range tuple.Expressions {
		switch a := arg.(type) {
		case *parser.NamedArgumentListExpression:
			for _, entry := range a.MapEntries {
				named, err := buildNamedArgument(entry)
				if err != nil {
					return nil, err
				}
				list.Args = append(list.Args, named)
			}
		case *parser.MapEntryExpression:
			named, err := buildNamedArgument(a)
			if err != nil {
				return nil, err
			}
			list.Args = append(list.Args, named)
		default:
			v, err := BuildExpression(arg)
			if err != nil {
				return nil, err
			}
			list.Args = append(list.Args, &gtree.Argument{Value: v})
		}
	}
	return list, nil
}

func buildNamedArgument(entry *parser.MapEntryExpression) (*gtree.Argument, error) {
	v, err := BuildExpression(entry.Value)
	if err != nil {
		return nil, err
	}
	return &gtree.Argument{Name: entry.KeyText(), Value: v}, nil
}

// buildConstant maps strings to String and everything else to Const with
// its printed form. Groovy-only numeric suffixes are dropped.
func buildConstant(c *parser.ConstantExpression) gtree.Expression {
	switch v := c.Value.(type) {
	case string:
		return &gtree.String{Value: v}
	case nil:
		return &gtree.Const{Text: "null", Kind: gtree.ConstNull}
	case bool:
		if v {
			return &gtree.Const{Text: "true", Kind: gtree.ConstBool}
		}
		return &gtree.Const{Text: "false", Kind: gtree.ConstBool}
	}

	text := c.Text
	if text == "" {
		text = formatNumber(c.Value)
	}
	if !strings.HasPrefix(text, "0x") && !strings.HasPrefix(text, "0X") {
		text = strings.TrimRight(text, "gGdDiI")
	}
	return &gtree.Const{Text: text, Kind: gtree.ConstNumber}
}

func buildVariable(v *parser.VariableExpression) *gtree.Identifier {
	switch {
	case v.IsThis():
		return &gtree.Identifier{Name: gtree.ThisName}
	case v.IsSuper():
		return &gtree.Identifier{Name: gtree.SuperName}
	}
	return &gtree.Identifier{Name: v.Name}
}

func buildClosure(c *parser.ClosureExpression) (*gtree.Closure, error) {
	body := &gtree.Block{}
	if c.Code != nil {
		var err error
		if body, err = buildBlock(c.Code); err != nil {
			return nil, err
		}
	}
	closure := &gtree.Closure{Body: body}
	for _, p := range c.Parameters {
		closure.Params = append(closure.Params, gtree.Parameter{Name: p.Name, Type: p.Type})
	}
	return closure, nil
}

func buildBinary(b *parser.BinaryExpression) (gtree.Expression, error) {
	left, err := BuildExpression(b.Left)
	if err != nil {
		return nil, err
	}
	right, err := BuildExpression(b.Right)
	if err != nil {
		return nil, err
	}
	return &gtree.BinaryExpression{Left: left, Operator: binaryOperator(b.Operation), Right: right}, nil
}

// binaryOperator classifies an origin operator token.
func binaryOperator(tok token.Token) gtree.BinaryOperator {
	if name, ok := infixNames[tok.Type]; ok {
		return &gtree.UncommonBinaryOperator{Name: name}
	}
	if gtree.IsCommonBinaryToken(tok.Literal) {
		return &gtree.CommonBinaryOperator{Token: tok.Literal}
	}
	return &gtree.UncommonBinaryOperator{Name: tok.Literal}
}

func unaryOperator(tok token.Token) gtree.UnaryOperator {
	if gtree.IsCommonUnaryToken(tok.Literal) {
		return &gtree.CommonUnaryOperator{Token: tok.Literal}
	}
	return &gtree.UncommonUnaryOperator{Name: tok.Literal}
}

func formatNumber(v any) string {
	switch n := v.(type) {
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}
