package kotlin

// Token is a Kotlin operator token.
type Token int

// Operator tokens.
const (
	ILLEGAL Token = iota

	// Assignment
	ASSIGN     // =
	ADD_ASSIGN // +=
	SUB_ASSIGN // -=
	MUL_ASSIGN // *=
	DIV_ASSIGN // /=
	MOD_ASSIGN // %=

	// Logic
	OR  // ||
	AND // &&
	NOT // !

	// Comparison
	EQ    // ==
	NE    // !=
	LT    // <
	GT    // >
	LE    // <=
	GE    // >=
	IN    // in
	AS    // as
	RANGE // ..

	// Arithmetic
	PLUS  // +
	MINUS // -
	MUL   // *
	DIV   // /
	MOD   // %
	INC   // ++
	DEC   // --
)

var tokenText = map[Token]string{
	ILLEGAL:    "ILLEGAL",
	ASSIGN:     "=",
	ADD_ASSIGN: "+=",
	SUB_ASSIGN: "-=",
	MUL_ASSIGN: "*=",
	DIV_ASSIGN: "/=",
	MOD_ASSIGN: "%=",
	OR:         "||",
	AND:        "&&",
	NOT:        "!",
	EQ:         "==",
	NE:         "!=",
	LT:         "<",
	GT:         ">",
	LE:         "<=",
	GE:         ">=",
	IN:         "in",
	AS:         "as",
	RANGE:      "..",
	PLUS:       "+",
	MINUS:      "-",
	MUL:        "*",
	DIV:        "/",
	MOD:        "%",
	INC:        "++",
	DEC:        "--",
}

// String returns the operator as written in source.
func (t Token) String() string {
	if s, ok := tokenText[t]; ok {
		return s
	}
	return "ILLEGAL"
}

// BinaryTokens is the fixed table of binary operators Kotlin writes as a
// token, keyed by operator text.
var BinaryTokens = map[string]Token{
	"=":  ASSIGN,
	"+=": ADD_ASSIGN,
	"-=": SUB_ASSIGN,
	"*=": MUL_ASSIGN,
	"/=": DIV_ASSIGN,
	"%=": MOD_ASSIGN,
	"||": OR,
	"&&": AND,
	"==": EQ,
	"!=": NE,
	"<":  LT,
	">":  GT,
	"<=": LE,
	">=": GE,
	"in": IN,
	"as": AS,
	"..": RANGE,
	"+":  PLUS,
	"-":  MINUS,
	"*":  MUL,
	"/":  DIV,
	"%":  MOD,
}

// UnaryTokens is the fixed table of unary operators.
var UnaryTokens = map[string]Token{
	"!":  NOT,
	"-":  MINUS,
	"+":  PLUS,
	"++": INC,
	"--": DEC,
}

// Precedence levels, loosest first.
const (
	precLowest = iota
	precAssign
	precDisjunction
	precConjunction
	precEquality
	precComparison
	precNamedCheck
	precInfix
	precRange
	precAdditive
	precMultiplicative
	precAs
	precPrefix
	precPostfix
	precPrimary
)

// binaryPrecedence returns the binding strength of a token operator.
func binaryPrecedence(t Token) int {
	switch t {
	case ASSIGN, ADD_ASSIGN, SUB_ASSIGN, MUL_ASSIGN, DIV_ASSIGN, MOD_ASSIGN:
		return precAssign
	case OR:
		return precDisjunction
	case AND:
		return precConjunction
	case EQ, NE:
		return precEquality
	case LT, GT, LE, GE:
		return precComparison
	case IN:
		return precNamedCheck
	case RANGE:
		return precRange
	case PLUS, MINUS:
		return precAdditive
	case MUL, DIV, MOD:
		return precMultiplicative
	case AS:
		return precAs
	}
	return precLowest
}

func isAssignment(t Token) bool {
	return binaryPrecedence(t) == precAssign
}
