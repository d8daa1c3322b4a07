package gtree

import (
	"fmt"
	"slices"
)

// Detach returns a deep copy of n that shares no node with the original,
// so the copy can be reinserted under a new parent without aliasing.
// A nil node detaches to nil.
func Detach[T Node](n T) T {
	var zero T
	if any(n) == nil {
		return zero
	}
	return clone(n).(T)
}

func cloneExpr(e Expression) Expression {
	if e == nil {
		return nil
	}
	return clone(e).(Expression)
}

func cloneBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	return clone(b).(*Block)
}

func cloneClosure(c *Closure) *Closure {
	if c == nil {
		return nil
	}
	return clone(c).(*Closure)
}

func cloneStatements(stmts []Statement) []Statement {
	if stmts == nil {
		return nil
	}
	out := make([]Statement, len(stmts))
	for i, s := range stmts {
		out[i] = clone(s).(Statement)
	}
	return out
}

func clone(n Node) Node {
	switch n := n.(type) {
	case *Project:
		if n == nil {
			return n
		}
		return &Project{Statements: cloneStatements(n.Statements)}

	// Statements
	case *ExprStatement:
		if n == nil {
			return n
		}
		return &ExprStatement{Expr: cloneExpr(n.Expr)}
	case *DeclStatement:
		if n == nil {
			return n
		}
		var decl Declaration
		if n.Decl != nil {
			decl = clone(n.Decl).(Declaration)
		}
		return &DeclStatement{Decl: decl}
	case *Block:
		if n == nil {
			return n
		}
		return &Block{Statements: cloneStatements(n.Statements)}
	case *Comment:
		if n == nil {
			return n
		}
		c := *n
		return &c

	// Declarations
	case *VariableDeclaration:
		if n == nil {
			return n
		}
		return &VariableDeclaration{
			Name:        n.Name,
			Type:        n.Type,
			Initializer: cloneExpr(n.Initializer),
			ReadOnly:    n.ReadOnly,
		}

	// Expressions
	case *Identifier:
		if n == nil {
			return n
		}
		c := *n
		return &c
	case *String:
		if n == nil {
			return n
		}
		c := *n
		return &c
	case *Const:
		if n == nil {
			return n
		}
		c := *n
		return &c
	case *BinaryExpression:
		if n == nil {
			return n
		}
		var op BinaryOperator
		if n.Operator != nil {
			op = clone(n.Operator).(BinaryOperator)
		}
		return &BinaryExpression{Left: cloneExpr(n.Left), Operator: op, Right: cloneExpr(n.Right)}
	case *UnaryExpression:
		if n == nil {
			return n
		}
		var op UnaryOperator
		if n.Operator != nil {
			op = clone(n.Operator).(UnaryOperator)
		}
		return &UnaryExpression{Operator: op, Operand: cloneExpr(n.Operand), Prefix: n.Prefix}
	case *MethodCall:
		if n == nil {
			return n
		}
		var args *ArgumentsList
		if n.Arguments != nil {
			args = clone(n.Arguments).(*ArgumentsList)
		}
		return &MethodCall{
			Object:    cloneExpr(n.Object),
			Method:    n.Method,
			Arguments: args,
			Closure:   cloneClosure(n.Closure),
		}
	case *ArgumentsList:
		if n == nil {
			return n
		}
		out := &ArgumentsList{}
		for _, a := range n.Args {
			out.Args = append(out.Args, clone(a).(*Argument))
		}
		return out
	case *Argument:
		if n == nil {
			return n
		}
		return &Argument{Name: n.Name, Value: cloneExpr(n.Value)}
	case *Closure:
		if n == nil {
			return n
		}
		return &Closure{Params: slices.Clone(n.Params), Body: cloneBlock(n.Body)}
	case *List:
		if n == nil {
			return n
		}
		out := &List{}
		for _, e := range n.Elements {
			out.Elements = append(out.Elements, cloneExpr(e))
		}
		return out
	case *PropertyAccess:
		if n == nil {
			return n
		}
		return &PropertyAccess{Object: cloneExpr(n.Object), Name: n.Name, Safe: n.Safe}
	case *ExtensionAccess:
		if n == nil {
			return n
		}
		return &ExtensionAccess{Object: cloneExpr(n.Object), Index: cloneExpr(n.Index)}
	case *If:
		if n == nil {
			return n
		}
		return &If{Condition: cloneExpr(n.Condition), Then: cloneBlock(n.Then), Else: cloneBlock(n.Else)}
	case *While:
		if n == nil {
			return n
		}
		return &While{Condition: cloneExpr(n.Condition), Body: cloneBlock(n.Body)}
	case *TryCatch:
		if n == nil {
			return n
		}
		out := &TryCatch{Try: cloneBlock(n.Try), Finally: cloneBlock(n.Finally)}
		for _, c := range n.Catches {
			out.Catches = append(out.Catches, clone(c).(*Catch))
		}
		return out
	case *Catch:
		if n == nil {
			return n
		}
		return &Catch{Name: n.Name, Type: n.Type, Body: cloneBlock(n.Body)}
	case *Switch:
		if n == nil {
			return n
		}
		out := &Switch{Subject: cloneExpr(n.Subject), Default: cloneBlock(n.Default)}
		for _, c := range n.Cases {
			out.Cases = append(out.Cases, clone(c).(*SwitchCase))
		}
		return out
	case *SwitchCase:
		if n == nil {
			return n
		}
		return &SwitchCase{Value: cloneExpr(n.Value), Body: cloneBlock(n.Body)}
	case *BuildScriptBlock:
		if n == nil {
			return n
		}
		return &BuildScriptBlock{Type: n.Type, Body: cloneBlock(n.Body)}
	case *TaskAccess:
		if n == nil {
			return n
		}
		c := *n
		return &c
	case *TaskConfigure:
		if n == nil {
			return n
		}
		return &TaskConfigure{Name: n.Name, Type: n.Type, Closure: cloneClosure(n.Closure)}
	case *TaskCreating:
		if n == nil {
			return n
		}
		return &TaskCreating{Name: n.Name, Type: n.Type, Body: cloneClosure(n.Body)}

	// Operators
	case *CommonBinaryOperator:
		if n == nil {
			return n
		}
		c := *n
		return &c
	case *UncommonBinaryOperator:
		if n == nil {
			return n
		}
		c := *n
		return &c
	case *CommonUnaryOperator:
		if n == nil {
			return n
		}
		c := *n
		return &c
	case *UncommonUnaryOperator:
		if n == nil {
			return n
		}
		c := *n
		return &c
	}
	panic(fmt.Sprintf("gtree: detach of unknown node %T", n))
}
