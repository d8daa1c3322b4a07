// Package kotlin defines the destination AST for Kotlin build scripts and
// a printer that renders it as source text.
//
// Comments are not part of the tree. They live in an ExtrasMap side table
// keyed by node identity and are emitted by the printer around the nodes
// they belong to.
package kotlin

// Node is the root of the destination hierarchy.
type Node interface {
	knode()
}

// Statement is a node that can appear in a block.
type Statement interface {
	Node
	stmtNode()
}

// Expression produces a value. Every expression can stand alone as a
// statement.
type Expression interface {
	Statement
	exprNode()
}

// ---------- Structure ----------

// Block is a statement sequence. A whole script is a Block printed
// without braces.
type Block struct {
	Statements []Statement
}

func (*Block) knode() {}

// Property is a val or var declaration.
type Property struct {
	Name        string
	Type        string // optional
	Nullable    bool   // appends "?" to Type
	Mutable     bool   // var instead of val
	Initializer Expression
	Delegate    bool // "by Initializer" instead of "= Initializer"
}

func (*Property) knode()    {}
func (*Property) stmtNode() {}

// ---------- Expressions ----------

// Name is a simple name reference.
type Name struct {
	Text string
}

func (*Name) knode()    {}
func (*Name) stmtNode() {}
func (*Name) exprNode() {}

// StringLit is a double-quoted string. Value is escaped when printed
// unless Template is set, in which case it is printed verbatim so that
// $name and ${expr} interpolate.
type StringLit struct {
	Value    string
	Template bool
}

func (*StringLit) knode()    {}
func (*StringLit) stmtNode() {}
func (*StringLit) exprNode() {}

// Literal is a number, boolean or null, printed as is.
type Literal struct {
	Text string
}

func (*Literal) knode()    {}
func (*Literal) stmtNode() {}
func (*Literal) exprNode() {}

// Call is receiver.name<TypeArgs>(Args) Lambda. When Args is nil and a
// lambda follows, the parentheses are omitted.
type Call struct {
	Receiver Expression // optional
	Name     string
	TypeArgs []string
	Args     *ValueArguments
	Lambda   *Lambda // optional trailing lambda
}

func (*Call) knode()    {}
func (*Call) stmtNode() {}
func (*Call) exprNode() {}

// ValueArguments is the parenthesised argument list of a call.
type ValueArguments struct {
	Args []*Argument
}

func (*ValueArguments) knode() {}

// Argument is a call argument, named when Name is set.
type Argument struct {
	Name  string
	Value Expression
}

func (*Argument) knode() {}

// Param is a lambda parameter.
type Param struct {
	Name string
	Type string // optional
}

// Lambda is a function literal.
type Lambda struct {
	Params []Param
	Body   *Block
}

func (*Lambda) knode()    {}
func (*Lambda) stmtNode() {}
func (*Lambda) exprNode() {}

// Dot is a member access, receiver.name or receiver?.name.
type Dot struct {
	Receiver Expression
	Name     string
	Safe     bool
}

func (*Dot) knode()    {}
func (*Dot) stmtNode() {}
func (*Dot) exprNode() {}

// Index is receiver[index].
type Index struct {
	Receiver Expression
	Index    Expression
}

func (*Index) knode()    {}
func (*Index) stmtNode() {}
func (*Index) exprNode() {}

// Operator is a token operator or, when Infix is set, a named infix
// function such as "shl".
type Operator struct {
	Token Token
	Infix string
}

func (*Operator) knode() {}

// String returns the operator as written in source.
func (o *Operator) String() string {
	if o.Infix != "" {
		return o.Infix
	}
	return o.Token.String()
}

// BinaryOp is Left Op Right.
type BinaryOp struct {
	Left  Expression
	Op    *Operator
	Right Expression
}

func (*BinaryOp) knode()    {}
func (*BinaryOp) stmtNode() {}
func (*BinaryOp) exprNode() {}

// UnaryOp is a prefix or postfix operator.
type UnaryOp struct {
	Op      *Operator
	Operand Expression
	Prefix  bool
}

func (*UnaryOp) knode()    {}
func (*UnaryOp) stmtNode() {}
func (*UnaryOp) exprNode() {}

// ClassLiteral is Type::class.
type ClassLiteral struct {
	Type string
}

func (*ClassLiteral) knode()    {}
func (*ClassLiteral) stmtNode() {}
func (*ClassLiteral) exprNode() {}

// ---------- Control Flow ----------

// If is a conditional. An Else holding a single If prints as "else if".
type If struct {
	Condition Expression
	Then      *Block
	Else      *Block // optional
}

func (*If) knode()    {}
func (*If) stmtNode() {}
func (*If) exprNode() {}

// While is a loop.
type While struct {
	Condition Expression
	Body      *Block
}

func (*While) knode()    {}
func (*While) stmtNode() {}

// Try is try/catch/finally.
type Try struct {
	Body    *Block
	Catches []*Catch
	Finally *Block // optional
}

func (*Try) knode()    {}
func (*Try) stmtNode() {}
func (*Try) exprNode() {}

// Catch is one catch clause.
type Catch struct {
	Name string
	Type string
	Body *Block
}

func (*Catch) knode() {}

// When is a pattern match over Subject, or a chain of conditions when
// Subject is nil.
type When struct {
	Subject  Expression // optional
	Branches []*WhenBranch
	Else     *Block // optional
}

func (*When) knode()    {}
func (*When) stmtNode() {}
func (*When) exprNode() {}

// WhenBranch is one "conditions -> body" branch.
type WhenBranch struct {
	Conditions []Expression
	Body       *Block
}

func (*WhenBranch) knode() {}
