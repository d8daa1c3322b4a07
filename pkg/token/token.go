// Package token defines the lexical vocabulary of the origin build-script dialect.
//
// Token types are plain constants so the lexer and parser can switch on them.
// Keywords are looked up through LookupIdent.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT   // identifier
	NUMBER  // 123, 45.67, 1e10, 10L
	STRING  // 'hello' or "hello" without interpolation
	GSTRING // "hello ${name}"

	// Operators
	PLUS        // +
	MINUS       // -
	STAR        // *
	SLASH       // /
	PERCENT     // %
	POWER       // **
	INC         // ++
	DEC         // --
	ASSIGN      // =
	PLUS_ASSIGN // +=
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
	EQ          // ==
	NE          // !=
	IDENTICAL   // ===
	NOT_IDENT   // !==
	LT          // <
	GT          // >
	LE          // <=
	GE          // >=
	SPACESHIP   // <=>
	FIND        // =~
	MATCH       // ==~
	AND         // &&
	OR          // ||
	NOT         // !
	BIT_AND     // &
	BIT_OR      // |
	BIT_XOR     // ^
	LSHIFT      // <<
	RSHIFT      // >>
	URSHIFT     // >>>
	RANGE       // ..
	ELVIS       // ?:
	QUESTION    // ?
	SAFE_DOT    // ?.
	ARROW       // ->
	DOT         // .
	COMMA       // ,
	COLON       // :
	SEMICOLON   // ;
	LPAREN      // (
	RPAREN      // )
	LBRACKET    // [
	RBRACKET    // ]
	LBRACE      // {
	RBRACE      // }

	// Keywords (alphabetical)
	AS
	CASE
	CATCH
	DEF
	DEFAULT
	ELSE
	FALSE
	FINAL
	FINALLY
	IF
	IN
	NULL
	RETURN
	SWITCH
	THIS
	SUPER
	TRUE
	TRY
	WHILE
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:   "IDENT",
	NUMBER:  "NUMBER",
	STRING:  "STRING",
	GSTRING: "GSTRING",

	PLUS:           "+",
	MINUS:          "-",
	STAR:           "*",
	SLASH:          "/",
	PERCENT:        "%",
	POWER:          "**",
	INC:            "++",
	DEC:            "--",
	ASSIGN:         "=",
	PLUS_ASSIGN:    "+=",
	MINUS_ASSIGN:   "-=",
	STAR_ASSIGN:    "*=",
	SLASH_ASSIGN:   "/=",
	PERCENT_ASSIGN: "%=",
	EQ:             "==",
	NE:             "!=",
	IDENTICAL:      "===",
	NOT_IDENT:      "!==",
	LT:             "<",
	GT:             ">",
	LE:             "<=",
	GE:             ">=",
	SPACESHIP:      "<=>",
	FIND:           "=~",
	MATCH:          "==~",
	AND:            "&&",
	OR:             "||",
	NOT:            "!",
	BIT_AND:        "&",
	BIT_OR:         "|",
	BIT_XOR:        "^",
	LSHIFT:         "<<",
	RSHIFT:         ">>",
	URSHIFT:        ">>>",
	RANGE:          "..",
	ELVIS:          "?:",
	QUESTION:       "?",
	SAFE_DOT:       "?.",
	ARROW:          "->",
	DOT:            ".",
	COMMA:          ",",
	COLON:          ":",
	SEMICOLON:      ";",
	LPAREN:         "(",
	RPAREN:         ")",
	LBRACKET:       "[",
	RBRACKET:       "]",
	LBRACE:         "{",
	RBRACE:         "}",

	AS:      "as",
	CASE:    "case",
	CATCH:   "catch",
	DEF:     "def",
	DEFAULT: "default",
	ELSE:    "else",
	FALSE:   "false",
	FINAL:   "final",
	FINALLY: "finally",
	IF:      "if",
	IN:      "in",
	NULL:    "null",
	RETURN:  "return",
	SWITCH:  "switch",
	THIS:    "this",
	SUPER:   "super",
	TRUE:    "true",
	TRY:     "try",
	WHILE:   "while",
}

// keywords maps keyword spellings to their token types.
// The origin dialect is case-sensitive.
var keywords = map[string]TokenType{
	"as":      AS,
	"case":    CASE,
	"catch":   CATCH,
	"def":     DEF,
	"default": DEFAULT,
	"else":    ELSE,
	"false":   FALSE,
	"final":   FINAL,
	"finally": FINALLY,
	"if":      IF,
	"in":      IN,
	"null":    NULL,
	"return":  RETURN,
	"switch":  SWITCH,
	"this":    THIS,
	"super":   SUPER,
	"true":    TRUE,
	"try":     TRY,
	"while":   WHILE,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= AS && t <= WHILE
}

// IsOperator returns true if the token type is an operator or punctuation.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= RBRACE
}

// IsAssignment returns true for = and the compound assignment operators.
func IsAssignment(t TokenType) bool {
	switch t {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN, PERCENT_ASSIGN:
		return true
	}
	return false
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
	End     Position // position just past the token

	// NewlineBefore is set when at least one line break separates this
	// token from the previous one. The origin dialect terminates
	// statements at line breaks.
	NewlineBefore bool
}
