package kotlin

import "strings"

// precedence returns how tightly e binds as an operand.
func precedence(e Expression) int {
	switch e := e.(type) {
	case *BinaryOp:
		if e.Op.Infix != "" {
			return precInfix
		}
		return binaryPrecedence(e.Op.Token)
	case *UnaryOp:
		if e.Prefix {
			return precPrefix
		}
		return precPostfix
	}
	return precPrimary
}

// printExpr prints e, parenthesised when it binds looser than outer.
func (p *Printer) printExpr(e Expression, outer int) {
	if e == nil {
		return
	}
	if precedence(e) < outer {
		p.write("(")
		p.printExpr(e, precLowest)
		p.write(")")
		return
	}

	switch e := e.(type) {
	case *Name:
		p.write(e.Text)
	case *Literal:
		p.write(e.Text)
	case *StringLit:
		p.printString(e)
	case *ClassLiteral:
		p.write(e.Type)
		p.write("::class")
	case *Call:
		p.printCall(e)
	case *Lambda:
		p.printLambda(e)
	case *Dot:
		p.printExpr(e.Receiver, precPostfix)
		if e.Safe {
			p.write("?.")
		} else {
			p.write(".")
		}
		p.write(e.Name)
	case *Index:
		p.printExpr(e.Receiver, precPostfix)
		p.write("[")
		p.printExpr(e.Index, precLowest)
		p.write("]")
	case *BinaryOp:
		p.printBinary(e)
	case *UnaryOp:
		p.printUnary(e)
	case *If:
		p.printIf(e)
	case *Try:
		p.printTry(e)
	case *When:
		p.printWhen(e)
	}
}

func (p *Printer) printBinary(e *BinaryOp) {
	prec := precedence(e)
	right := prec + 1
	if e.Op.Infix == "" && isAssignment(e.Op.Token) {
		right = prec
	}

	p.printExpr(e.Left, prec)
	p.space()
	p.write(e.Op.String())
	p.space()
	p.printExpr(e.Right, right)
}

func (p *Printer) printUnary(e *UnaryOp) {
	if !e.Prefix {
		p.printExpr(e.Operand, precPostfix)
		p.write(e.Op.String())
		return
	}
	p.write(e.Op.String())
	// -(-x) must not print as --x.
	if inner, ok := e.Operand.(*UnaryOp); ok && inner.Prefix {
		p.write("(")
		p.printExpr(inner, precLowest)
		p.write(")")
		return
	}
	p.printExpr(e.Operand, precPrefix)
}

func (p *Printer) printCall(c *Call) {
	if c.Receiver != nil {
		p.printExpr(c.Receiver, precPostfix)
		p.write(".")
	}
	p.write(c.Name)
	if len(c.TypeArgs) > 0 {
		p.write("<")
		p.write(strings.Join(c.TypeArgs, ", "))
		p.write(">")
	}
	if c.Args != nil || c.Lambda == nil {
		p.printValueArguments(c.Args)
	}
	if c.Lambda != nil {
		p.write(" ")
		p.printLambda(c.Lambda)
	}
}

func (p *Printer) printValueArguments(args *ValueArguments) {
	p.write("(")
	if args != nil {
		p.formatList(len(args.Args), func(i int) { p.printArgument(args.Args[i]) }, ", ")
	}
	p.write(")")
}

func (p *Printer) printArgument(a *Argument) {
	if a.Name != "" {
		p.write(a.Name)
		p.write(" = ")
	}
	p.printExpr(a.Value, precLowest)
}

func (p *Printer) printLambda(l *Lambda) {
	p.write("{")
	if len(l.Params) > 0 {
		p.space()
		p.formatList(len(l.Params), func(i int) {
			param := l.Params[i]
			p.write(param.Name)
			if param.Type != "" {
				p.write(": ")
				p.write(param.Type)
			}
		}, ", ")
		p.write(" ->")
	}
	p.writeln()
	p.printBody(l.Body)
	p.write("}")
}

func (p *Printer) printString(s *StringLit) {
	switch {
	case s.Template && strings.Contains(s.Value, "\n"):
		p.write(`"""` + s.Value + `"""`)
	case s.Template:
		p.write(`"` + s.Value + `"`)
	default:
		p.write(Quote(s.Value))
	}
}

// Quote returns s as a double-quoted Kotlin string literal. The dollar
// sign is escaped so the literal never interpolates.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '$':
			b.WriteString(`\$`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
