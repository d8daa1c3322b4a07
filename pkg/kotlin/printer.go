package kotlin

import (
	"bytes"
	"strings"
)

const defaultIndent = 4

// Options configures Print.
type Options struct {
	Indent int // spaces per nesting level; 4 when zero
}

// Print renders node as Kotlin source. A *Block is printed as a whole
// script, without braces. Extras may be nil.
func Print(node Node, extras ExtrasMap, opts Options) string {
	p := newPrinter(extras, opts)
	switch n := node.(type) {
	case *Block:
		p.printStatements(n.Statements)
		p.printComments(p.extras.ExtrasWithin(n))
	case Statement:
		p.printStatement(n)
	}
	return p.String()
}

// Printer renders the destination AST with indentation and comments.
type Printer struct {
	extras      ExtrasMap
	output      *bytes.Buffer
	indentSize  int
	depth       int
	atLineStart bool
}

func newPrinter(extras ExtrasMap, opts Options) *Printer {
	if extras == nil {
		extras = noExtras{}
	}
	size := opts.Indent
	if size <= 0 {
		size = defaultIndent
	}
	return &Printer{
		extras:      extras,
		output:      &bytes.Buffer{},
		indentSize:  size,
		atLineStart: true,
	}
}

// String returns the printed source ending in exactly one newline, or ""
// when nothing was printed.
func (p *Printer) String() string {
	out := strings.TrimRight(p.output.String(), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth*p.indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	p.output.WriteByte(' ')
}

// printComments prints each comment on its own line.
func (p *Printer) printComments(comments []Comment) {
	for _, c := range comments {
		p.write(c.Text)
		p.writeln()
	}
}

// printAfterComments prints the comments following a statement. A
// trailing comment stays on the statement's line.
func (p *Printer) printAfterComments(comments []Comment) {
	for i, c := range comments {
		if i == 0 && c.Trailing {
			p.space()
			p.write(c.Text)
			continue
		}
		p.writeln()
		p.write(c.Text)
	}
}

// formatList prints count items separated by sep.
func (p *Printer) formatList(count int, format func(i int), sep string) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
		}
	}
}
