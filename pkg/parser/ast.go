package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/g2kts/pkg/token"
)

// Node is implemented by every origin parse tree node.
type Node interface {
	GetSpan() token.Span
}

// Statement represents an origin-dialect statement.
type Statement interface {
	Node
	stmtNode()
}

// Expression represents an origin-dialect expression.
type Expression interface {
	Node
	exprNode()
}

// NodeInfo provides common fields for all AST nodes.
// Embed this in node types that need position tracking.
type NodeInfo struct {
	Span token.Span
	// Text is the source text the node was parsed from, when known.
	Text string
}

// GetSpan returns the node's source span.
func (n *NodeInfo) GetSpan() token.Span {
	return n.Span
}

// SourceText returns the source text of n, or "" when the node was built by hand.
func SourceText(n Node) string {
	if n == nil {
		return ""
	}
	if ti, ok := n.(interface{ sourceText() string }); ok {
		return ti.sourceText()
	}
	return ""
}

func (n *NodeInfo) sourceText() string { return n.Text }

// KindOf returns the runtime kind of an origin node, e.g. "MethodCallExpression".
func KindOf(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*parser.")
}

// ---------- Statement Types ----------

// BlockStatement is a sequence of statements. A script is a BlockStatement.
type BlockStatement struct {
	NodeInfo
	Statements []Statement
}

func (*BlockStatement) stmtNode() {}

// ExpressionStatement wraps an expression evaluated for its effect.
type ExpressionStatement struct {
	NodeInfo
	Expression Expression
}

func (*ExpressionStatement) stmtNode() {}

// CommentStatement carries a source comment in statement order.
type CommentStatement struct {
	NodeInfo
	Comment *token.Comment
}

func (*CommentStatement) stmtNode() {}

// IfStatement represents if/else.
type IfStatement struct {
	NodeInfo
	Condition Expression
	Then      Statement
	Else      Statement // optional
}

func (*IfStatement) stmtNode() {}

// WhileStatement represents a while loop.
type WhileStatement struct {
	NodeInfo
	Condition Expression
	Body      Statement
}

func (*WhileStatement) stmtNode() {}

// TryCatchStatement represents try/catch/finally.
type TryCatchStatement struct {
	NodeInfo
	Try     *BlockStatement
	Catches []*CatchStatement
	Finally *BlockStatement // optional
}

func (*TryCatchStatement) stmtNode() {}

// CatchStatement is one catch clause of a TryCatchStatement.
type CatchStatement struct {
	NodeInfo
	ParamName string
	ParamType string // optional
	Code      *BlockStatement
}

func (*CatchStatement) stmtNode() {}

// SwitchStatement represents switch/case/default.
type SwitchStatement struct {
	NodeInfo
	Expression Expression
	Cases      []*CaseStatement
	Default    *BlockStatement // optional
}

func (*SwitchStatement) stmtNode() {}

// CaseStatement is one case of a SwitchStatement.
type CaseStatement struct {
	NodeInfo
	Expression Expression
	Code       *BlockStatement
}

func (*CaseStatement) stmtNode() {}

// ReturnStatement represents return with an optional value.
type ReturnStatement struct {
	NodeInfo
	Expression Expression // optional
}

func (*ReturnStatement) stmtNode() {}

// ---------- Expression Types ----------

// MethodCallExpression represents obj.method(args), method(args) or a
// parenthesis-free command call.
type MethodCallExpression struct {
	NodeInfo
	Object       Expression // nil when ImplicitThis
	ImplicitThis bool
	Method       Expression // usually *ConstantExpression holding the name
	Arguments    Expression // usually *TupleExpression
	Safe         bool       // obj?.method()
}

func (*MethodCallExpression) exprNode() {}

// MethodName returns the callee name when the method is a constant.
func (m *MethodCallExpression) MethodName() string {
	if c, ok := m.Method.(*ConstantExpression); ok {
		if s, ok := c.Value.(string); ok {
			return s
		}
	}
	return ""
}

// ConstantExpression represents a literal. Value holds a decoded string,
// an int64, a float64, a bool or nil. The embedded Text keeps the literal
// as written, suffixes and quotes included.
type ConstantExpression struct {
	NodeInfo
	Value any
}

func (*ConstantExpression) exprNode() {}

// GStringExpression represents an interpolating string literal. Raw holds
// the characters between the quotes exactly as written.
type GStringExpression struct {
	NodeInfo
	Raw string
}

func (*GStringExpression) exprNode() {}

// VariableExpression references a variable, including this and super.
type VariableExpression struct {
	NodeInfo
	Name string
}

func (*VariableExpression) exprNode() {}

// Reserved variable names.
const (
	ThisName  = "this"
	SuperName = "super"
)

// IsThis reports whether the variable is the self-reference.
func (v *VariableExpression) IsThis() bool { return v.Name == ThisName }

// IsSuper reports whether the variable is the parent-reference.
func (v *VariableExpression) IsSuper() bool { return v.Name == SuperName }

// Parameter is a closure parameter.
type Parameter struct {
	Name string
	Type string // optional
}

// ClosureExpression represents { params -> code }.
type ClosureExpression struct {
	NodeInfo
	Parameters []Parameter
	Code       *BlockStatement
}

func (*ClosureExpression) exprNode() {}

// BinaryExpression represents left op right.
type BinaryExpression struct {
	NodeInfo
	Left      Expression
	Operation token.Token
	Right     Expression
}

func (*BinaryExpression) exprNode() {}

// CompareToNullExpression represents x == null or x != null.
type CompareToNullExpression struct {
	NodeInfo
	Operand Expression
	Equals  bool
}

func (*CompareToNullExpression) exprNode() {}

// CompareIdentityExpression represents a === b or a !== b.
type CompareIdentityExpression struct {
	NodeInfo
	Left   Expression
	Right  Expression
	Equals bool
}

func (*CompareIdentityExpression) exprNode() {}

// DeclarationExpression represents def x = value, final x = value or
// Type x = value.
type DeclarationExpression struct {
	NodeInfo
	Name  string
	Type  string     // optional
	Final bool       // declared with final
	Right Expression // optional initializer
}

func (*DeclarationExpression) exprNode() {}

// TupleExpression is the argument list of a call.
type TupleExpression struct {
	NodeInfo
	Expressions []Expression
}

func (*TupleExpression) exprNode() {}

// MapEntryExpression is one key: value pair.
type MapEntryExpression struct {
	NodeInfo
	Key   Expression
	Value Expression
}

func (*MapEntryExpression) exprNode() {}

// KeyText returns the key as written.
func (m *MapEntryExpression) KeyText() string {
	switch k := m.Key.(type) {
	case *ConstantExpression:
		if s, ok := k.Value.(string); ok {
			return s
		}
		return k.Text
	case *VariableExpression:
		return k.Name
	}
	return SourceText(m.Key)
}

// NamedArgumentListExpression groups the named arguments of a call.
type NamedArgumentListExpression struct {
	NodeInfo
	MapEntries []*MapEntryExpression
}

func (*NamedArgumentListExpression) exprNode() {}

// ListExpression represents [a, b, c].
type ListExpression struct {
	NodeInfo
	Expressions []Expression
}

func (*ListExpression) exprNode() {}

// MapExpression represents [k: v, ...] or [:].
type MapExpression struct {
	NodeInfo
	MapEntries []*MapEntryExpression
}

func (*MapExpression) exprNode() {}

// PropertyExpression represents obj.property or obj?.property.
type PropertyExpression struct {
	NodeInfo
	Object   Expression
	Property string
	Safe     bool
}

func (*PropertyExpression) exprNode() {}

// IndexExpression represents obj[index].
type IndexExpression struct {
	NodeInfo
	Object Expression
	Index  Expression
}

func (*IndexExpression) exprNode() {}

// UnaryExpression represents prefix or postfix unary operators.
type UnaryExpression struct {
	NodeInfo
	Operation token.Token
	Operand   Expression
	Prefix    bool
}

func (*UnaryExpression) exprNode() {}

// TernaryExpression represents cond ? a : b and a ?: b.
type TernaryExpression struct {
	NodeInfo
	Condition Expression
	Then      Expression // nil for elvis
	Else      Expression
}

func (*TernaryExpression) exprNode() {}
