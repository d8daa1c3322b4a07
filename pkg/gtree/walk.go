package gtree

import "reflect"

// Children returns the direct child nodes of n in source order. Operators
// and nil optional children are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if !IsNil(c) {
			out = append(out, c)
		}
	}
	switch n := n.(type) {
	case *Project:
		for _, s := range n.Statements {
			add(s)
		}
	case *ExprStatement:
		add(n.Expr)
	case *DeclStatement:
		add(n.Decl)
	case *Block:
		for _, s := range n.Statements {
			add(s)
		}
	case *VariableDeclaration:
		add(n.Initializer)
	case *BinaryExpression:
		add(n.Left)
		add(n.Right)
	case *UnaryExpression:
		add(n.Operand)
	case *MethodCall:
		add(n.Object)
		add(n.Arguments)
		add(n.Closure)
	case *ArgumentsList:
		for _, a := range n.Args {
			add(a)
		}
	case *Argument:
		add(n.Value)
	case *Closure:
		add(n.Body)
	case *List:
		for _, e := range n.Elements {
			add(e)
		}
	case *PropertyAccess:
		add(n.Object)
	case *ExtensionAccess:
		add(n.Object)
		add(n.Index)
	case *If:
		add(n.Condition)
		add(n.Then)
		add(n.Else)
	case *While:
		add(n.Condition)
		add(n.Body)
	case *TryCatch:
		add(n.Try)
		for _, c := range n.Catches {
			add(c)
		}
		add(n.Finally)
	case *Catch:
		add(n.Body)
	case *Switch:
		add(n.Subject)
		for _, c := range n.Cases {
			add(c)
		}
		add(n.Default)
	case *SwitchCase:
		add(n.Value)
		add(n.Body)
	case *BuildScriptBlock:
		add(n.Body)
	case *TaskConfigure:
		add(n.Closure)
	case *TaskCreating:
		add(n.Body)
	}
	return out
}

// Walk traverses the tree rooted at n in pre-order. If fn returns false
// the children of that node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if IsNil(n) || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// IsNil reports whether n is nil or an interface holding a typed nil
// pointer.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Variants returns a zero value of every concrete variant. It exists so
// consumers can test that their switches cover the whole hierarchy.
func Variants() []Node {
	return []Node{
		&Project{},
		// Statements
		&ExprStatement{}, &DeclStatement{}, &Block{}, &Comment{},
		// Declarations
		&VariableDeclaration{},
		// Expressions
		&Identifier{}, &String{}, &Const{}, &BinaryExpression{}, &UnaryExpression{},
		&MethodCall{}, &Closure{}, &List{}, &PropertyAccess{}, &ExtensionAccess{},
		&If{}, &While{}, &TryCatch{}, &Switch{},
		&BuildScriptBlock{}, &TaskAccess{}, &TaskConfigure{}, &TaskCreating{},
		// Auxiliary
		&ArgumentsList{}, &Argument{}, &Catch{}, &SwitchCase{},
		// Operators
		&CommonBinaryOperator{}, &UncommonBinaryOperator{},
		&CommonUnaryOperator{}, &UncommonUnaryOperator{},
	}
}
