package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/g2kts/pkg/token"
)

// Statement parsing.
//
// Grammar:
//
//	block       → "{" statement* "}"
//	if          → "if" "(" expr ")" body ["else" body]
//	while       → "while" "(" expr ")" body
//	try         → "try" block ("catch" "(" [type ("|" type)*] name ")" block)* ["finally" block]
//	switch      → "switch" "(" expr ")" "{" ("case" expr ":" statement*)* ["default" ":" statement*] "}"
//	return      → "return" [expr]
//	declaration → ("def" | "final" | type) [type] name ["=" expr]

// parseScript parses the whole input.
func (p *Parser) parseScript() *BlockStatement {
	stmts := p.parseStatements(token.EOF)
	if !p.failed() && !p.check(token.EOF) {
		p.addError(fmt.Sprintf(ErrUnexpectedStatement, describe(p.token)))
	}
	end := p.token.Pos
	return &BlockStatement{
		NodeInfo: NodeInfo{
			Span: token.Span{Start: token.Position{Line: 1, Column: 1}, End: end},
			Text: p.input,
		},
		Statements: stmts,
	}
}

// parseStatements parses statements up to, not including, one of the
// terminators or end of input.
func (p *Parser) parseStatements(terminators ...token.TokenType) []Statement {
	var stmts []Statement
	for !p.failed() {
		stmts = p.appendComments(stmts, p.token.Pos.Offset)
		if p.match(token.SEMICOLON) {
			continue
		}
		if p.check(token.EOF) || p.atAny(terminators) {
			break
		}
		stmt := p.parseStatement()
		if p.failed() {
			break
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.endStatement(terminators)
	}
	return stmts
}

func (p *Parser) atAny(types []token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

// endStatement requires a statement boundary at the current token.
func (p *Parser) endStatement(terminators []token.TokenType) {
	switch {
	case p.check(token.SEMICOLON), p.check(token.EOF), p.check(token.RBRACE):
	case p.atAny(terminators), p.token.NewlineBefore:
	default:
		p.addError(fmt.Sprintf(ErrMissingTerminator, describe(p.token)))
	}
}

// parseStatement parses a single statement.
func (p *Parser) parseStatement() Statement {
	switch p.token.Type {
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.TRY:
		return p.parseTry()
	case token.SWITCH:
		return p.parseSwitch()
	case token.RETURN:
		return p.parseReturn()
	case token.DEF, token.FINAL:
		return p.parseDeclaration()
	case token.IDENT:
		if p.isTypedDeclaration() {
			return p.parseDeclaration()
		}
	case token.RBRACE, token.RPAREN, token.RBRACKET, token.ELSE, token.CATCH, token.FINALLY,
		token.CASE, token.DEFAULT, token.COMMA, token.COLON, token.ARROW:
		p.addError(fmt.Sprintf(ErrUnexpectedStatement, describe(p.token)))
		return nil
	}

	start := p.token.Pos
	expr := p.parseStatementExpression()
	if expr == nil {
		return nil
	}
	return &ExpressionStatement{NodeInfo: p.info(start), Expression: expr}
}

// parseBlock parses { statements }.
func (p *Parser) parseBlock() *BlockStatement {
	start := p.token.Pos
	if !p.expect(token.LBRACE) {
		return nil
	}
	saved := p.nesting
	p.nesting = 0
	stmts := p.parseStatements(token.RBRACE)
	p.nesting = saved
	p.expect(token.RBRACE)
	return &BlockStatement{NodeInfo: p.info(start), Statements: stmts}
}

// parseBody parses the body of if/while: a block or a single statement.
func (p *Parser) parseBody() Statement {
	if p.check(token.LBRACE) {
		return p.parseBlock()
	}
	return p.parseStatement()
}

// parseCondition parses "(" expr ")".
func (p *Parser) parseCondition() Expression {
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.nesting++
	cond := p.parseExpression()
	p.nesting--
	p.expect(token.RPAREN)
	return cond
}

// parseIf parses if/else chains.
func (p *Parser) parseIf() Statement {
	start := p.token.Pos
	p.nextToken() // consume IF

	cond := p.parseCondition()
	if p.failed() {
		return nil
	}
	then := p.parseBody()
	if p.failed() {
		return nil
	}

	stmt := &IfStatement{Condition: cond, Then: then}
	if p.check(token.SEMICOLON) && p.checkPeek(token.ELSE) {
		p.nextToken()
	}
	if p.match(token.ELSE) {
		stmt.Else = p.parseBody()
	}
	stmt.NodeInfo = p.info(start)
	return stmt
}

// parseWhile parses while loops.
func (p *Parser) parseWhile() Statement {
	start := p.token.Pos
	p.nextToken() // consume WHILE

	cond := p.parseCondition()
	if p.failed() {
		return nil
	}
	body := p.parseBody()
	return &WhileStatement{NodeInfo: p.info(start), Condition: cond, Body: body}
}

// parseTry parses try/catch/finally.
func (p *Parser) parseTry() Statement {
	start := p.token.Pos
	p.nextToken() // consume TRY

	stmt := &TryCatchStatement{Try: p.parseBlock()}
	for !p.failed() && p.check(token.CATCH) {
		stmt.Catches = append(stmt.Catches, p.parseCatch())
	}
	if !p.failed() && p.match(token.FINALLY) {
		stmt.Finally = p.parseBlock()
	}
	stmt.NodeInfo = p.info(start)
	return stmt
}

// parseCatch parses one catch clause. Multi-catch types are kept joined
// with " | ".
func (p *Parser) parseCatch() *CatchStatement {
	start := p.token.Pos
	p.nextToken() // consume CATCH

	if !p.expect(token.LPAREN) {
		return nil
	}
	var types []string
	name := ""
	for p.check(token.IDENT) {
		n := p.parseDottedName()
		if p.check(token.IDENT) {
			types = append(types, n)
			name = p.token.Literal
			p.nextToken()
			break
		}
		if p.match(token.BIT_OR) {
			types = append(types, n)
			continue
		}
		name = n
		break
	}
	if name == "" {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "catch parameter"))
		return nil
	}
	if !p.expect(token.RPAREN) {
		return nil
	}

	stmt := &CatchStatement{
		ParamName: name,
		ParamType: strings.Join(types, " | "),
		Code:      p.parseBlock(),
	}
	stmt.NodeInfo = p.info(start)
	return stmt
}

// parseDottedName reads a dotted name such as java.io.IOException.
func (p *Parser) parseDottedName() string {
	var b strings.Builder
	b.WriteString(p.token.Literal)
	p.nextToken()
	for p.check(token.DOT) && p.checkPeek(token.IDENT) {
		b.WriteByte('.')
		p.nextToken()
		b.WriteString(p.token.Literal)
		p.nextToken()
	}
	return b.String()
}

// parseSwitch parses switch statements.
func (p *Parser) parseSwitch() Statement {
	start := p.token.Pos
	p.nextToken() // consume SWITCH

	subject := p.parseCondition()
	if p.failed() || !p.expect(token.LBRACE) {
		return nil
	}
	saved := p.nesting
	p.nesting = 0
	defer func() { p.nesting = saved }()

	stmt := &SwitchStatement{Expression: subject}
	for !p.failed() {
		p.skipCaseNoise()
		switch {
		case p.check(token.CASE):
			caseStart := p.token.Pos
			p.nextToken()
			p.nesting++
			value := p.parseExpression()
			p.nesting--
			if !p.expect(token.COLON) {
				return nil
			}
			codeStart := p.token.Pos
			code := p.parseCaseBody()
			stmt.Cases = append(stmt.Cases, &CaseStatement{
				NodeInfo:   p.info(caseStart),
				Expression: value,
				Code:       &BlockStatement{NodeInfo: p.info(codeStart), Statements: code},
			})
		case p.check(token.DEFAULT):
			p.nextToken()
			if !p.expect(token.COLON) {
				return nil
			}
			codeStart := p.token.Pos
			code := p.parseCaseBody()
			stmt.Default = &BlockStatement{NodeInfo: p.info(codeStart), Statements: code}
		default:
			p.expect(token.RBRACE)
			stmt.NodeInfo = p.info(start)
			return stmt
		}
	}
	return nil
}

func (p *Parser) skipCaseNoise() {
	for p.match(token.SEMICOLON) {
	}
}

// parseCaseBody parses the statements of one case, dropping break.
func (p *Parser) parseCaseBody() []Statement {
	stmts := p.parseStatements(token.CASE, token.DEFAULT, token.RBRACE)
	out := stmts[:0]
	for _, s := range stmts {
		if es, ok := s.(*ExpressionStatement); ok {
			if v, ok := es.Expression.(*VariableExpression); ok && v.Name == "break" {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// parseReturn parses return with an optional value.
func (p *Parser) parseReturn() Statement {
	start := p.token.Pos
	p.nextToken() // consume RETURN

	stmt := &ReturnStatement{}
	if !p.token.NewlineBefore && !p.check(token.SEMICOLON) && !p.check(token.RBRACE) && !p.check(token.EOF) {
		stmt.Expression = p.parseExpression()
	}
	stmt.NodeInfo = p.info(start)
	return stmt
}

// isTypedDeclaration reports whether the statement reads "Type name = ...".
func (p *Parser) isTypedDeclaration() bool {
	return p.checkPeek(token.IDENT) && !p.peek.NewlineBefore && p.checkPeek2(token.ASSIGN)
}

// parseDeclaration parses def/final/typed variable declarations.
func (p *Parser) parseDeclaration() Statement {
	start := p.token.Pos
	decl := &DeclarationExpression{}

	for p.check(token.DEF) || p.check(token.FINAL) {
		if p.check(token.FINAL) {
			decl.Final = true
		}
		p.nextToken()
	}

	if !p.check(token.IDENT) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "variable name"))
		return nil
	}
	if p.checkPeek(token.IDENT) && !p.peek.NewlineBefore {
		decl.Type = p.token.Literal
		p.nextToken()
	}
	decl.Name = p.token.Literal
	p.nextToken()

	if p.match(token.ASSIGN) {
		decl.Right = p.parseExpression()
	}
	decl.NodeInfo = p.info(start)
	return &ExpressionStatement{NodeInfo: p.info(start), Expression: decl}
}
