package kotlin

func (p *Printer) printStatements(stmts []Statement) {
	for _, s := range stmts {
		p.printStatement(s)
	}
}

// printStatement prints s on its own line with its comments.
func (p *Printer) printStatement(s Statement) {
	if s == nil {
		return
	}
	p.printComments(p.extras.ExtrasBefore(s))

	switch s := s.(type) {
	case *Property:
		p.printProperty(s)
	case *While:
		p.printWhile(s)
	case Expression:
		p.printExpr(s, precLowest)
	}

	p.printAfterComments(p.extras.ExtrasAfter(s))
	p.writeln()
}

// printBlock prints { statements } with the block's own comments inside.
func (p *Printer) printBlock(b *Block) {
	p.write("{")
	p.writeln()
	p.printBody(b)
	p.write("}")
}

// printBody prints the statements of b one level deeper.
func (p *Printer) printBody(b *Block) {
	if b == nil {
		return
	}
	p.indent()
	p.printStatements(b.Statements)
	p.printComments(p.extras.ExtrasWithin(b))
	p.dedent()
}

func (p *Printer) printProperty(prop *Property) {
	if prop.Mutable {
		p.write("var ")
	} else {
		p.write("val ")
	}
	p.write(prop.Name)
	if prop.Type != "" {
		p.write(": ")
		p.write(prop.Type)
		if prop.Nullable {
			p.write("?")
		}
	}
	if prop.Initializer == nil {
		return
	}
	if prop.Delegate {
		p.write(" by ")
	} else {
		p.write(" = ")
	}
	p.printExpr(prop.Initializer, precLowest)
}

func (p *Printer) printIf(n *If) {
	p.write("if (")
	p.printExpr(n.Condition, precLowest)
	p.write(") ")
	p.printBlock(n.Then)
	if n.Else == nil {
		return
	}
	p.write(" else ")
	if nested := p.elseIf(n.Else); nested != nil {
		p.printIf(nested)
		return
	}
	p.printBlock(n.Else)
}

// elseIf returns the If of an else block that can print as "else if",
// which needs a single If without comments of its own.
func (p *Printer) elseIf(b *Block) *If {
	if len(b.Statements) != 1 || len(p.extras.ExtrasWithin(b)) > 0 {
		return nil
	}
	nested, ok := b.Statements[0].(*If)
	if !ok {
		return nil
	}
	if len(p.extras.ExtrasBefore(nested)) > 0 || len(p.extras.ExtrasAfter(nested)) > 0 {
		return nil
	}
	return nested
}

func (p *Printer) printWhile(n *While) {
	p.write("while (")
	p.printExpr(n.Condition, precLowest)
	p.write(") ")
	p.printBlock(n.Body)
}

func (p *Printer) printTry(n *Try) {
	p.write("try ")
	p.printBlock(n.Body)
	for _, c := range n.Catches {
		p.write(" catch (")
		p.write(c.Name)
		p.write(": ")
		p.write(c.Type)
		p.write(") ")
		p.printBlock(c.Body)
	}
	if n.Finally != nil {
		p.write(" finally ")
		p.printBlock(n.Finally)
	}
}

func (p *Printer) printWhen(n *When) {
	p.write("when ")
	if n.Subject != nil {
		p.write("(")
		p.printExpr(n.Subject, precLowest)
		p.write(") ")
	}
	p.write("{")
	p.writeln()
	p.indent()
	for _, br := range n.Branches {
		p.formatList(len(br.Conditions), func(i int) { p.printExpr(br.Conditions[i], precLowest) }, ", ")
		p.write(" -> ")
		p.printBlock(br.Body)
		p.writeln()
	}
	if n.Else != nil {
		p.write("else -> ")
		p.printBlock(n.Else)
		p.writeln()
	}
	p.dedent()
	p.write("}")
}
