package gtree

import "slices"

// BinaryOperator is a binary operator: a token from the common set or a
// named infix function.
type BinaryOperator interface {
	Node
	binaryOp()
	// Text returns the token or function name.
	Text() string
}

// UnaryOperator is a unary operator.
type UnaryOperator interface {
	Node
	unaryOp()
	Text() string
}

// CommonBinaryTokens is the fixed operator set every destination dialect
// is expected to express as a token.
var CommonBinaryTokens = []string{
	"=", "+=", "-=", "*=", "/=", "%=",
	"||", "&&",
	"==", "!=", "<", ">", "<=", ">=",
	"in", "as", "..",
	"+", "-", "*", "/", "%",
}

// CommonUnaryTokens is the fixed unary operator set.
var CommonUnaryTokens = []string{"!", "-", "+", "++", "--"}

// IsCommonBinaryToken reports whether tok belongs to CommonBinaryTokens.
func IsCommonBinaryToken(tok string) bool {
	return slices.Contains(CommonBinaryTokens, tok)
}

// IsCommonUnaryToken reports whether tok belongs to CommonUnaryTokens.
func IsCommonUnaryToken(tok string) bool {
	return slices.Contains(CommonUnaryTokens, tok)
}

// CommonBinaryOperator is a token from CommonBinaryTokens.
type CommonBinaryOperator struct {
	Token string
}

func (*CommonBinaryOperator) gnode() {}
func (*CommonBinaryOperator) binaryOp() {}

// Text implements BinaryOperator.
func (o *CommonBinaryOperator) Text() string { return o.Token }

// UncommonBinaryOperator is a named infix function such as "and" or "shl".
type UncommonBinaryOperator struct {
	Name string
}

func (*UncommonBinaryOperator) gnode() {}
func (*UncommonBinaryOperator) binaryOp() {}

// Text implements BinaryOperator.
func (o *UncommonBinaryOperator) Text() string { return o.Name }

// CommonUnaryOperator is a token from CommonUnaryTokens.
type CommonUnaryOperator struct {
	Token string
}

func (*CommonUnaryOperator) gnode() {}
func (*CommonUnaryOperator) unaryOp() {}

// Text implements UnaryOperator.
func (o *CommonUnaryOperator) Text() string { return o.Token }

// UncommonUnaryOperator is a named prefix function.
type UncommonUnaryOperator struct {
	Name string
}

func (*UncommonUnaryOperator) gnode() {}
func (*UncommonUnaryOperator) unaryOp() {}

// Text implements UnaryOperator.
func (o *UncommonUnaryOperator) Text() string { return o.Name }
