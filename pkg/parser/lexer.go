package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/g2kts/pkg/token"
)

// Lexer tokenizes build script input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	// lastLine is the line the previously emitted token ended on; 0 before
	// the first token.
	lastLine int

	// Comments collected during lexing, in source order.
	Comments []*token.Comment

	// Errors collected during lexing.
	Errors []error
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// peekCharAt returns the character n positions after the current one.
func (l *Lexer) peekCharAt(n int) byte {
	i := l.pos + n
	if i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

// endPos returns the position just past the text consumed so far. When the
// current char is a line break readChar has already moved to the next
// line, so the position is recomputed on the line the text ended on.
func (l *Lexer) endPos() token.Position {
	if l.ch != '\n' {
		return l.currentPos()
	}
	lineStart := strings.LastIndexByte(l.input[:l.pos], '\n') + 1
	return token.Position{Line: l.line - 1, Column: l.pos - lineStart + 1, Offset: l.pos}
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// operatorSymbols lists every punctuation token, longest first.
var operatorSymbols = func() []string {
	var syms []string
	for t := token.PLUS; t <= token.RBRACE; t++ {
		syms = append(syms, t.String())
	}
	sort.SliceStable(syms, func(i, j int) bool {
		return len(syms[i]) > len(syms[j])
	})
	return syms
}()

var operatorTypes = func() map[string]token.TokenType {
	m := make(map[string]token.TokenType)
	for t := token.PLUS; t <= token.RBRACE; t++ {
		m[t.String()] = t
	}
	return m
}()

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	newline := l.skipWhitespaceAndComments()

	tok := l.scan()
	tok.NewlineBefore = newline && l.lastLine > 0
	tok.End = l.endPos()
	l.lastLine = tok.End.Line
	return tok
}

func (l *Lexer) scan() token.Token {
	pos := l.currentPos()

	switch {
	case l.ch == 0:
		if l.pos < len(l.input) {
			l.readChar()
			l.addError(pos, fmt.Sprintf(ErrIllegalCharacter, rune(0)))
			return token.Token{Type: token.ILLEGAL, Literal: "\x00", Pos: pos}
		}
		return token.Token{Type: token.EOF, Pos: pos}
	case isLetter(l.ch) || l.ch == '_' || l.ch == '$':
		lit := l.readIdentifier()
		return token.Token{Type: token.LookupIdent(lit), Literal: lit, Pos: pos}
	case isDigit(l.ch):
		return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
	case l.ch == '\'' || l.ch == '"':
		return l.readString(pos)
	}

	if tok, ok := l.matchOperator(pos); ok {
		return tok
	}

	ch := l.ch
	if ch >= utf8.RuneSelf {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		for range size {
			l.readChar()
		}
		l.addError(pos, fmt.Sprintf(ErrIllegalCharacter, r))
		return token.Token{Type: token.ILLEGAL, Literal: string(r), Pos: pos}
	}
	l.readChar()
	l.addError(pos, fmt.Sprintf(ErrIllegalCharacter, rune(ch)))
	return token.Token{Type: token.ILLEGAL, Literal: string(ch), Pos: pos}
}

// matchOperator consumes the longest punctuation symbol at the current
// position.
func (l *Lexer) matchOperator(pos token.Position) (token.Token, bool) {
	remaining := l.input[l.pos:]
	for _, sym := range operatorSymbols {
		if !strings.HasPrefix(remaining, sym) {
			continue
		}
		for range sym {
			l.readChar()
		}
		return token.Token{Type: operatorTypes[sym], Literal: sym, Pos: pos}, true
	}
	return token.Token{}, false
}

// skipWhitespaceAndComments skips whitespace and collects comments. It
// reports whether a line break was crossed.
func (l *Lexer) skipWhitespaceAndComments() bool {
	newline := false
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' {
			if l.ch == '\n' {
				newline = true
			}
			l.readChar()
		}

		// Line continuation
		if l.ch == '\\' && (l.peekChar() == '\n' || l.peekChar() == '\r') {
			l.readChar()
			for l.ch == '\r' || l.ch == '\n' {
				l.readChar()
			}
			continue
		}

		if l.ch == '/' && l.peekChar() == '/' {
			l.collectLineComment()
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			if l.collectBlockComment() {
				newline = true
			}
			continue
		}

		// Shebang line
		if l.ch == '#' && l.peekChar() == '!' && l.pos == 0 {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}

		break
	}
	return newline
}

// collectLineComment collects a line comment.
func (l *Lexer) collectLineComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind:     token.LineComment,
		Text:     strings.TrimRight(l.input[startOffset:l.pos], "\r"),
		Span:     token.Span{Start: startPos, End: l.endPos()},
		Trailing: l.lastLine == startPos.Line,
	})
}

// collectBlockComment collects a block comment and reports whether it
// spans a line break.
func (l *Lexer) collectBlockComment() bool {
	startPos := l.currentPos()
	startOffset := l.pos

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	closed := false
	for l.ch != 0 {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // skip '*'
			l.readChar() // skip '/'
			closed = true
			break
		}
		l.readChar()
	}
	if !closed {
		l.addError(startPos, ErrUnterminatedComment)
	}

	text := l.input[startOffset:l.pos]
	l.Comments = append(l.Comments, &token.Comment{
		Kind:     token.BlockComment,
		Text:     text,
		Span:     token.Span{Start: startPos, End: l.endPos()},
		Trailing: l.lastLine == startPos.Line,
	})
	return strings.Contains(text, "\n")
}

// readString reads a single, double or triple quoted string literal.
// Double quoted strings containing an unescaped interpolation become
// GSTRING tokens whose literal is the raw body between the quotes.
func (l *Lexer) readString(pos token.Position) token.Token {
	quote := l.ch
	triple := l.peekChar() == quote && l.peekCharAt(2) == quote
	width := 1
	if triple {
		width = 3
	}
	for range width {
		l.readChar()
	}

	start := l.pos
	var value strings.Builder
	interpolated := false
	closed := false

	for l.ch != 0 {
		if l.ch == quote && (!triple || (l.peekChar() == quote && l.peekCharAt(2) == quote)) {
			closed = true
			break
		}
		if l.ch == '\n' && !triple {
			break
		}
		if l.ch == '\\' {
			l.readChar()
			l.readEscape(&value)
			continue
		}
		if quote == '"' && l.ch == '$' && (l.peekChar() == '{' || isLetter(l.peekChar()) || l.peekChar() == '_') {
			interpolated = true
		}
		value.WriteByte(l.ch)
		l.readChar()
	}

	raw := l.input[start:l.pos]
	if closed {
		for range width {
			l.readChar()
		}
	} else {
		l.addError(pos, ErrUnterminatedString)
	}

	if interpolated {
		return token.Token{Type: token.GSTRING, Literal: raw, Pos: pos}
	}
	return token.Token{Type: token.STRING, Literal: value.String(), Pos: pos}
}

// readEscape decodes the escape sequence following a backslash.
func (l *Lexer) readEscape(b *strings.Builder) {
	switch l.ch {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case '0':
		b.WriteByte(0)
	case 'u':
		hex := ""
		if l.pos+5 <= len(l.input) {
			hex = l.input[l.pos+1 : l.pos+5]
		}
		if r, err := strconv.ParseUint(hex, 16, 32); err == nil {
			b.WriteRune(rune(r))
			for range 4 {
				l.readChar()
			}
		} else {
			b.WriteString(`\u`)
		}
	case '\n':
		// escaped line break inside a multi-line string
	case 0:
		return
	default:
		b.WriteByte(l.ch)
	}
	l.readChar()
}

// readIdentifier reads an identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '$' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, scientific, hex)
// including any type suffix.
func (l *Lexer) readNumber() string {
	start := l.pos

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	} else {
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}

		// Read decimal part; "1..2" is a range, not a decimal.
		if l.ch == '.' && isDigit(l.peekChar()) {
			l.readChar()
			for isDigit(l.ch) || l.ch == '_' {
				l.readChar()
			}
		}

		// Read exponent part (e.g., 1e10, 1E-5)
		if l.ch == 'e' || l.ch == 'E' {
			next := l.peekChar()
			if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharAt(2))) {
				l.readChar()
				if l.ch == '+' || l.ch == '-' {
					l.readChar()
				}
				for isDigit(l.ch) {
					l.readChar()
				}
			}
		}
	}

	switch l.ch {
	case 'l', 'L', 'i', 'I', 'g', 'G', 'd', 'D', 'f', 'F':
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) addError(pos token.Position, msg string) {
	l.Errors = append(l.Errors, &LexError{Pos: pos, Message: msg})
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}
