// Package parser parses Gradle build scripts written in the Groovy DSL.
//
// # Usage
//
//	script, err := parser.Parse(src)
//	if err != nil {
//	    // handle error
//	}
//
// # Grammar Overview
//
// The parser implements a recursive descent parser for the subset of
// Groovy that build scripts use:
//
//	script      → statement*
//	statement   → block | if | while | try | switch | return
//	            | declaration | command | expression
//	command     → name argument ("," argument)* [closure] [name argument ...]
//	expression  → assignment
//	assignment  → ternary [assign_op assignment]
//	ternary     → binary ["?" expression ":" expression | "?:" expression]
//	binary      → unary (binary_op unary)*
//	unary       → ("!" | "-" | "+" | "++" | "--") unary | postfix
//	postfix     → primary ("." name [arguments] | arguments | "[" expr "]" | closure)*
//
// Statements end at a line break or ';'. Inside parentheses and brackets
// line breaks are insignificant. Comments are returned in statement order
// as CommentStatements.
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/g2kts/pkg/token"
)

// Parser parses build scripts into an origin AST.
type Parser struct {
	lexer *Lexer
	input string

	token token.Token // current token
	peek  token.Token // lookahead token
	peek2 token.Token // second lookahead token

	// prevEnd is the end of the last consumed token.
	prevEnd token.Position

	// commentIdx is the number of lexer comments already placed.
	commentIdx int

	// nesting counts open parentheses and brackets; line breaks do not
	// terminate anything while it is positive.
	nesting int

	errors []error
}

// NewParser creates a new parser for the given input.
func NewParser(src string) *Parser {
	p := &Parser{
		lexer: NewLexer(src),
		input: src,
	}
	// Read three tokens to initialize current, peek, and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a whole script and returns it as a block.
func Parse(src string) (*BlockStatement, error) {
	p := NewParser(src)
	script := p.parseScript()
	if err := p.firstError(); err != nil {
		return nil, err
	}
	return script, nil
}

// Comments returns every comment seen by the lexer so far.
func (p *Parser) Comments() []*token.Comment {
	return p.lexer.Comments
}

// firstError returns the earliest lexer or parser error by position.
func (p *Parser) firstError() error {
	var first error
	firstOffset := -1
	consider := func(err error, pos token.Position) {
		if first == nil || pos.Offset < firstOffset {
			first = err
			firstOffset = pos.Offset
		}
	}
	for _, err := range p.lexer.Errors {
		if le, ok := err.(*LexError); ok {
			consider(err, le.Pos)
		}
	}
	for _, err := range p.errors {
		if pe, ok := err.(*ParseError); ok {
			consider(err, pe.Pos)
		}
	}
	return first
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.prevEnd = p.token.End
	p.token = p.peek
	p.peek = p.peek2
	p.peek2 = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// checkPeek2 returns true if the peek2 token is of the given type.
func (p *Parser) checkPeek2(t token.TokenType) bool {
	return p.peek2.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), t))
	return false
}

// addError adds a parse error at the current token.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

// failed reports whether parsing has already gone wrong; the parser stops
// at the first error.
func (p *Parser) failed() bool {
	return len(p.errors) > 0
}

// sameLine reports whether the current token continues the current line,
// or line breaks are insignificant at this point.
func (p *Parser) sameLine() bool {
	return p.nesting > 0 || !p.token.NewlineBefore
}

// info builds node info spanning from start to the last consumed token.
func (p *Parser) info(start token.Position) NodeInfo {
	end := p.prevEnd
	text := ""
	if start.Offset <= end.Offset && end.Offset <= len(p.input) {
		text = p.input[start.Offset:end.Offset]
	}
	return NodeInfo{
		Span: token.Span{Start: start, End: end},
		Text: text,
	}
}

// describe renders a token for error messages.
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.NUMBER:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	case token.STRING, token.GSTRING:
		return "string literal"
	}
	return fmt.Sprintf("%q", tok.Literal)
}

// ---------- Backtracking ----------

// parserState is a snapshot used for bounded lookahead, e.g. to decide
// whether a closure declares parameters.
type parserState struct {
	lexer      Lexer
	token      token.Token
	peek       token.Token
	peek2      token.Token
	prevEnd    token.Position
	commentIdx int
	nesting    int
	errors     int
}

func (p *Parser) snapshot() parserState {
	return parserState{
		lexer:      *p.lexer,
		token:      p.token,
		peek:       p.peek,
		peek2:      p.peek2,
		prevEnd:    p.prevEnd,
		commentIdx: p.commentIdx,
		nesting:    p.nesting,
		errors:     len(p.errors),
	}
}

func (p *Parser) restore(s parserState) {
	*p.lexer = s.lexer
	p.token = s.token
	p.peek = s.peek
	p.peek2 = s.peek2
	p.prevEnd = s.prevEnd
	p.commentIdx = s.commentIdx
	p.nesting = s.nesting
	p.errors = p.errors[:s.errors]
}

// ---------- Comments ----------

// appendComments appends, as CommentStatements, every pending comment that
// starts before offset.
func (p *Parser) appendComments(stmts []Statement, offset int) []Statement {
	for p.commentIdx < len(p.lexer.Comments) {
		c := p.lexer.Comments[p.commentIdx]
		if c.Span.Start.Offset >= offset {
			break
		}
		p.commentIdx++
		stmts = append(stmts, &CommentStatement{
			NodeInfo: NodeInfo{Span: c.Span, Text: c.Text},
			Comment:  c,
		})
	}
	return stmts
}
