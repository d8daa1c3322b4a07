package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/g2kts/pkg/token"
)

// Expression parsing.
//
// Binary operators, lowest to highest precedence:
//
//	||
//	&&
//	|
//	^
//	&
//	== != === !== <=> =~ ==~
//	< <= > >= in as
//	<< >> >>> ..
//	+ -
//	* / %
//	**

// Precedence levels for binary operators.
const (
	precLowest = iota
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precPower
)

var binaryPrecedence = map[token.TokenType]int{
	token.OR:        precOr,
	token.AND:       precAnd,
	token.BIT_OR:    precBitOr,
	token.BIT_XOR:   precBitXor,
	token.BIT_AND:   precBitAnd,
	token.EQ:        precEquality,
	token.NE:        precEquality,
	token.IDENTICAL: precEquality,
	token.NOT_IDENT: precEquality,
	token.SPACESHIP: precEquality,
	token.FIND:      precEquality,
	token.MATCH:     precEquality,
	token.LT:        precRelational,
	token.LE:        precRelational,
	token.GT:        precRelational,
	token.GE:        precRelational,
	token.IN:        precRelational,
	token.AS:        precRelational,
	token.LSHIFT:    precShift,
	token.RSHIFT:    precShift,
	token.URSHIFT:   precShift,
	token.RANGE:     precShift,
	token.PLUS:      precAdditive,
	token.MINUS:     precAdditive,
	token.STAR:      precMultiplicative,
	token.SLASH:     precMultiplicative,
	token.PERCENT:   precMultiplicative,
	token.POWER:     precPower,
}

// parseExpression parses a full expression.
func (p *Parser) parseExpression() Expression {
	return p.parseAssignment()
}

// parseStatementExpression parses an expression in statement position,
// where parenthesis-free command calls are allowed:
//
//	apply plugin: 'java'
//	task copyDocs(type: Copy) { ... }
//	id 'org.example' version '1.0'
func (p *Parser) parseStatementExpression() Expression {
	start := p.token.Pos
	expr := p.parseExpression()
	if p.failed() || !p.canStartCommandArgument() {
		return expr
	}

	call := p.commandCall(start, expr)
	if call == nil {
		return expr
	}

	// Command chains: a b c d reads as a(b).c(d).
	for !p.failed() && p.check(token.IDENT) && !p.token.NewlineBefore {
		nameTok := p.token
		p.nextToken()
		method := &ConstantExpression{NodeInfo: p.info(nameTok.Pos), Value: nameTok.Literal}
		if !p.canStartCommandArgument() && !p.check(token.LBRACE) {
			return &PropertyExpression{NodeInfo: p.info(start), Object: call, Property: nameTok.Literal}
		}
		args := p.parseCommandArguments()
		call = &MethodCallExpression{
			NodeInfo:  p.info(start),
			Object:    call,
			Method:    method,
			Arguments: args,
		}
	}
	return call
}

// commandCall turns callee into a call with parenthesis-free arguments.
// Only bare names and property paths can be command callees.
func (p *Parser) commandCall(start token.Position, callee Expression) Expression {
	switch c := callee.(type) {
	case *VariableExpression:
		args := p.parseCommandArguments()
		return &MethodCallExpression{
			NodeInfo:     p.info(start),
			ImplicitThis: true,
			Method:       &ConstantExpression{NodeInfo: c.NodeInfo, Value: c.Name},
			Arguments:    args,
		}
	case *PropertyExpression:
		args := p.parseCommandArguments()
		return &MethodCallExpression{
			NodeInfo:  p.info(start),
			Object:    c.Object,
			Method:    &ConstantExpression{NodeInfo: c.NodeInfo, Value: c.Property},
			Arguments: args,
			Safe:      c.Safe,
		}
	}
	return nil
}

// canStartCommandArgument reports whether the current token can begin the
// first argument of a parenthesis-free call.
func (p *Parser) canStartCommandArgument() bool {
	if p.token.NewlineBefore {
		return false
	}
	switch p.token.Type {
	case token.IDENT, token.STRING, token.GSTRING, token.NUMBER,
		token.TRUE, token.FALSE, token.NULL, token.THIS, token.SUPER, token.NOT:
		return true
	}
	return false
}

// parseCommandArguments parses a comma separated argument list that ends
// at the end of the line, plus an optional trailing closure.
func (p *Parser) parseCommandArguments() *TupleExpression {
	start := p.token.Pos
	var args []Expression
	if p.canStartCommandArgument() {
		args = p.parseArgumentList(func() bool { return !p.match(token.COMMA) })
	}
	if !p.failed() && p.check(token.LBRACE) && !p.token.NewlineBefore {
		args = append(args, p.parseClosure())
	}
	return &TupleExpression{NodeInfo: p.info(start), Expressions: args}
}

// parseArgumentList parses arguments until done reports true after an
// argument. Consecutive named arguments are grouped into one
// NamedArgumentListExpression at the position of the first.
func (p *Parser) parseArgumentList(done func() bool) []Expression {
	var args []Expression
	var named *NamedArgumentListExpression
	for !p.failed() {
		if p.isMapKey() {
			entry := p.parseMapEntry()
			if named == nil {
				named = &NamedArgumentListExpression{NodeInfo: entry.NodeInfo}
				args = append(args, named)
			}
			named.MapEntries = append(named.MapEntries, entry)
			named.NodeInfo = p.info(named.Span.Start)
		} else {
			named = nil
			args = append(args, p.parseExpression())
		}
		if done() {
			break
		}
	}
	return args
}

// parseCallArguments parses "(" arguments ")" and any trailing closures.
func (p *Parser) parseCallArguments() *TupleExpression {
	start := p.token.Pos
	p.nextToken() // consume (
	p.nesting++

	var args []Expression
	if !p.check(token.RPAREN) {
		args = p.parseArgumentList(func() bool {
			if !p.match(token.COMMA) {
				return true
			}
			// trailing comma
			return p.check(token.RPAREN)
		})
	}
	p.nesting--
	p.expect(token.RPAREN)

	for !p.failed() && p.check(token.LBRACE) && !p.token.NewlineBefore {
		args = append(args, p.parseClosure())
	}
	return &TupleExpression{NodeInfo: p.info(start), Expressions: args}
}

// isMapKey reports whether the current token starts a "key:" entry.
func (p *Parser) isMapKey() bool {
	if !p.checkPeek(token.COLON) {
		return false
	}
	switch p.token.Type {
	case token.IDENT, token.STRING, token.NUMBER:
		return true
	}
	return token.IsKeyword(p.token.Type)
}

// parseMapEntry parses key: value.
func (p *Parser) parseMapEntry() *MapEntryExpression {
	start := p.token.Pos
	keyTok := p.token
	p.nextToken()
	key := &ConstantExpression{NodeInfo: p.info(start), Value: keyTok.Literal}
	if keyTok.Type == token.NUMBER {
		key.Value = p.numberValue(keyTok)
	}
	p.expect(token.COLON)
	value := p.parseExpression()
	return &MapEntryExpression{NodeInfo: p.info(start), Key: key, Value: value}
}

// parseAssignment parses target op= value, right associative.
func (p *Parser) parseAssignment() Expression {
	start := p.token.Pos
	left := p.parseTernary()
	if p.failed() || !token.IsAssignment(p.token.Type) || !p.sameLine() {
		return left
	}

	switch left.(type) {
	case *VariableExpression, *PropertyExpression, *IndexExpression:
	default:
		p.addError(fmt.Sprintf(ErrInvalidAssignTarget, KindOf(left)))
		return nil
	}

	op := p.token
	p.nextToken()
	right := p.parseAssignment()
	return &BinaryExpression{NodeInfo: p.info(start), Left: left, Operation: op, Right: right}
}

// parseTernary parses cond ? a : b and a ?: b.
func (p *Parser) parseTernary() Expression {
	start := p.token.Pos
	cond := p.parseBinary(precLowest + 1)
	if p.failed() || !p.sameLine() {
		return cond
	}

	switch {
	case p.match(token.ELVIS):
		elseExpr := p.parseTernary()
		return &TernaryExpression{NodeInfo: p.info(start), Condition: cond, Else: elseExpr}
	case p.match(token.QUESTION):
		p.nesting++
		then := p.parseExpression()
		p.nesting--
		p.expect(token.COLON)
		elseExpr := p.parseTernary()
		return &TernaryExpression{NodeInfo: p.info(start), Condition: cond, Then: then, Else: elseExpr}
	}
	return cond
}

// parseBinary parses binary operators by precedence climbing.
func (p *Parser) parseBinary(minPrec int) Expression {
	start := p.token.Pos
	left := p.parseUnary()

	for !p.failed() && p.sameLine() {
		prec, ok := binaryPrecedence[p.token.Type]
		if !ok || prec < minPrec {
			break
		}
		op := p.token
		p.nextToken()

		next := prec + 1
		if op.Type == token.POWER {
			next = prec
		}
		right := p.parseBinary(next)
		left = p.makeBinary(start, left, op, right)
	}
	return left
}

// makeBinary builds the node for left op right, recognising null and
// identity comparisons.
func (p *Parser) makeBinary(start token.Position, left Expression, op token.Token, right Expression) Expression {
	info := p.info(start)
	switch op.Type {
	case token.EQ, token.NE:
		if isNullLiteral(right) {
			return &CompareToNullExpression{NodeInfo: info, Operand: left, Equals: op.Type == token.EQ}
		}
		if isNullLiteral(left) {
			return &CompareToNullExpression{NodeInfo: info, Operand: right, Equals: op.Type == token.EQ}
		}
	case token.IDENTICAL, token.NOT_IDENT:
		return &CompareIdentityExpression{NodeInfo: info, Left: left, Right: right, Equals: op.Type == token.IDENTICAL}
	}
	return &BinaryExpression{NodeInfo: info, Left: left, Operation: op, Right: right}
}

func isNullLiteral(e Expression) bool {
	c, ok := e.(*ConstantExpression)
	return ok && c.Value == nil
}

// parseUnary parses prefix operators.
func (p *Parser) parseUnary() Expression {
	switch p.token.Type {
	case token.NOT, token.MINUS, token.PLUS, token.INC, token.DEC:
		start := p.token.Pos
		op := p.token
		p.nextToken()
		operand := p.parseUnary()
		return &UnaryExpression{NodeInfo: p.info(start), Operation: op, Operand: operand, Prefix: true}
	}
	return p.parsePostfix()
}

// parsePostfix parses member access, calls, indexing, trailing closures
// and postfix increments.
func (p *Parser) parsePostfix() Expression {
	start := p.token.Pos
	expr := p.parsePrimary()

	for !p.failed() && expr != nil {
		switch {
		case p.check(token.DOT) || p.check(token.SAFE_DOT):
			// A leading dot on the next line continues the chain.
			expr = p.parseMember(start, expr)
		case !p.sameLine():
			return expr
		case p.check(token.LPAREN):
			expr = p.parseCall(start, expr)
		case p.check(token.LBRACKET):
			p.nextToken()
			p.nesting++
			index := p.parseExpression()
			p.nesting--
			p.expect(token.RBRACKET)
			expr = &IndexExpression{NodeInfo: p.info(start), Object: expr, Index: index}
		case p.check(token.LBRACE) && !p.token.NewlineBefore:
			call := p.closureCall(start, expr)
			if call == nil {
				return expr
			}
			expr = call
		case p.check(token.INC) || p.check(token.DEC):
			op := p.token
			p.nextToken()
			expr = &UnaryExpression{NodeInfo: p.info(start), Operation: op, Operand: expr}
		default:
			return expr
		}
	}
	return expr
}

// parseMember parses .name, .name(args) and ?.name.
func (p *Parser) parseMember(start token.Position, object Expression) Expression {
	safe := p.check(token.SAFE_DOT)
	p.nextToken() // consume . or ?.

	nameTok := p.token
	switch {
	case p.check(token.IDENT), token.IsKeyword(p.token.Type), p.check(token.STRING):
		p.nextToken()
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "member name"))
		return nil
	}
	name := nameTok.Literal

	if p.check(token.LPAREN) && !p.token.NewlineBefore {
		method := &ConstantExpression{NodeInfo: p.info(nameTok.Pos), Value: name}
		args := p.parseCallArguments()
		return &MethodCallExpression{
			NodeInfo:  p.info(start),
			Object:    object,
			Method:    method,
			Arguments: args,
			Safe:      safe,
		}
	}
	return &PropertyExpression{NodeInfo: p.info(start), Object: object, Property: name, Safe: safe}
}

// parseCall parses callee(args).
func (p *Parser) parseCall(start token.Position, callee Expression) Expression {
	switch c := callee.(type) {
	case *VariableExpression:
		args := p.parseCallArguments()
		return &MethodCallExpression{
			NodeInfo:     p.info(start),
			ImplicitThis: true,
			Method:       &ConstantExpression{NodeInfo: c.NodeInfo, Value: c.Name},
			Arguments:    args,
		}
	default:
		// Calling a value invokes its call method.
		args := p.parseCallArguments()
		return &MethodCallExpression{
			NodeInfo:  p.info(start),
			Object:    callee,
			Method:    &ConstantExpression{Value: "call"},
			Arguments: args,
		}
	}
}

// closureCall attaches a trailing closure to callee, or returns nil when
// callee cannot take one.
func (p *Parser) closureCall(start token.Position, callee Expression) Expression {
	switch c := callee.(type) {
	case *VariableExpression:
		if c.IsThis() || c.IsSuper() {
			return nil
		}
		args := &TupleExpression{Expressions: []Expression{p.parseClosure()}}
		args.NodeInfo = p.info(c.Span.End)
		return &MethodCallExpression{
			NodeInfo:     p.info(start),
			ImplicitThis: true,
			Method:       &ConstantExpression{NodeInfo: c.NodeInfo, Value: c.Name},
			Arguments:    args,
		}
	case *PropertyExpression:
		args := &TupleExpression{Expressions: []Expression{p.parseClosure()}}
		args.NodeInfo = p.info(c.Span.End)
		return &MethodCallExpression{
			NodeInfo:  p.info(start),
			Object:    c.Object,
			Method:    &ConstantExpression{Value: c.Property},
			Arguments: args,
			Safe:      c.Safe,
		}
	case *MethodCallExpression:
		if t, ok := c.Arguments.(*TupleExpression); ok {
			t.Expressions = append(t.Expressions, p.parseClosure())
			t.NodeInfo = p.info(t.Span.Start)
			c.NodeInfo = p.info(start)
			return c
		}
	}
	return nil
}

// parsePrimary parses literals, names, parenthesized expressions, lists,
// maps and closures.
func (p *Parser) parsePrimary() Expression {
	start := p.token.Pos
	tok := p.token

	switch tok.Type {
	case token.IDENT:
		p.nextToken()
		return &VariableExpression{NodeInfo: p.info(start), Name: tok.Literal}
	case token.THIS, token.SUPER:
		p.nextToken()
		return &VariableExpression{NodeInfo: p.info(start), Name: tok.Literal}
	case token.NUMBER:
		p.nextToken()
		return &ConstantExpression{NodeInfo: p.info(start), Value: p.numberValue(tok)}
	case token.STRING:
		p.nextToken()
		return &ConstantExpression{NodeInfo: p.info(start), Value: tok.Literal}
	case token.GSTRING:
		p.nextToken()
		return &GStringExpression{NodeInfo: p.info(start), Raw: tok.Literal}
	case token.TRUE, token.FALSE:
		p.nextToken()
		return &ConstantExpression{NodeInfo: p.info(start), Value: tok.Type == token.TRUE}
	case token.NULL:
		p.nextToken()
		return &ConstantExpression{NodeInfo: p.info(start), Value: nil}
	case token.LPAREN:
		p.nextToken()
		p.nesting++
		inner := p.parseExpression()
		p.nesting--
		p.expect(token.RPAREN)
		return inner
	case token.LBRACKET:
		return p.parseListOrMap()
	case token.LBRACE:
		return p.parseClosure()
	}

	p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(tok), "expression"))
	return nil
}

// numberValue converts a number literal to int64 or float64.
func (p *Parser) numberValue(tok token.Token) any {
	lit := strings.ReplaceAll(tok.Literal, "_", "")
	isHex := strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X")
	if !isHex {
		lit = strings.TrimRight(lit, "lLiIgGdDfF")
	} else {
		lit = strings.TrimRight(lit, "lLiIgG")
	}
	if i, err := strconv.ParseInt(lit, 0, 64); err == nil {
		return i
	}
	if !isHex {
		if f, err := strconv.ParseFloat(lit, 64); err == nil {
			return f
		}
	}
	p.errors = append(p.errors, &ParseError{Pos: tok.Pos, Message: fmt.Sprintf(ErrInvalidNumber, tok.Literal)})
	return nil
}

// parseListOrMap parses [a, b], [k: v] and [:].
func (p *Parser) parseListOrMap() Expression {
	start := p.token.Pos
	p.nextToken() // consume [
	p.nesting++
	defer func() { p.nesting-- }()

	if p.check(token.COLON) && p.checkPeek(token.RBRACKET) {
		p.nextToken()
		p.nextToken()
		return &MapExpression{NodeInfo: p.info(start)}
	}

	if p.isMapKey() {
		m := &MapExpression{}
		for !p.failed() && !p.check(token.RBRACKET) {
			if !p.isMapKey() {
				p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "map key"))
				return nil
			}
			m.MapEntries = append(m.MapEntries, p.parseMapEntry())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACKET)
		m.NodeInfo = p.info(start)
		return m
	}

	list := &ListExpression{}
	for !p.failed() && !p.check(token.RBRACKET) {
		list.Expressions = append(list.Expressions, p.parseExpression())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)
	list.NodeInfo = p.info(start)
	return list
}

// parseClosure parses { [params ->] statements }.
func (p *Parser) parseClosure() *ClosureExpression {
	start := p.token.Pos
	if !p.expect(token.LBRACE) {
		return nil
	}
	saved := p.nesting
	p.nesting = 0

	params := p.parseClosureParameters()
	codeStart := p.token.Pos
	stmts := p.parseStatements(token.RBRACE)
	code := &BlockStatement{NodeInfo: p.info(codeStart), Statements: stmts}

	p.nesting = saved
	p.expect(token.RBRACE)
	return &ClosureExpression{NodeInfo: p.info(start), Parameters: params, Code: code}
}

// parseClosureParameters parses "a, String b ->" when present and leaves
// the parser untouched otherwise.
func (p *Parser) parseClosureParameters() []Parameter {
	if p.match(token.ARROW) {
		return nil
	}
	if !p.check(token.IDENT) {
		return nil
	}

	state := p.snapshot()
	var params []Parameter
	for p.check(token.IDENT) {
		param := Parameter{Name: p.token.Literal}
		p.nextToken()
		if p.check(token.IDENT) {
			param.Type = param.Name
			param.Name = p.token.Literal
			p.nextToken()
		}
		params = append(params, param)
		if p.match(token.ARROW) {
			return params
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	p.restore(state)
	return nil
}
