package parser_test

import (
	"testing"

	"github.com/leapstack-labs/g2kts/pkg/parser"
	"github.com/leapstack-labs/g2kts/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lexed struct {
	typ     token.TokenType
	lit     string
	newline bool
}

func lexAll(t *testing.T, src string) ([]lexed, *parser.Lexer) {
	t.Helper()
	l := parser.NewLexer(src)
	var out []lexed
	for i := 0; i < 1000; i++ {
		tok := l.NextToken()
		out = append(out, lexed{tok.Type, tok.Literal, tok.NewlineBefore})
		if tok.Type == token.EOF {
			return out, l
		}
	}
	t.Fatal("lexer did not reach EOF")
	return nil, nil
}

func TestLexerStatements(t *testing.T) {
	got, l := lexAll(t, "apply plugin: 'java'\nversion = \"1.${x}\" // trailing\n")

	assert.Equal(t, []lexed{
		{token.IDENT, "apply", false},
		{token.IDENT, "plugin", false},
		{token.COLON, ":", false},
		{token.STRING, "java", false},
		{token.IDENT, "version", true},
		{token.ASSIGN, "=", false},
		{token.GSTRING, "1.${x}", false},
		{token.EOF, "", true},
	}, got)

	require.Len(t, l.Comments, 1)
	assert.Equal(t, "// trailing", l.Comments[0].Text)
	assert.True(t, l.Comments[0].Trailing)
	assert.Empty(t, l.Errors)
}

func TestLexerOperatorsLongestMatch(t *testing.T) {
	got, _ := lexAll(t, "a ?: b ==~ c <=> d >>> e !== f ?. g ** h")

	var types []token.TokenType
	for _, tok := range got {
		if tok.typ != token.IDENT {
			types = append(types, tok.typ)
		}
	}
	assert.Equal(t, []token.TokenType{
		token.ELVIS, token.MATCH, token.SPACESHIP, token.URSHIFT,
		token.NOT_IDENT, token.SAFE_DOT, token.POWER, token.EOF,
	}, types)
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"integer", "42", []string{"42"}},
		{"long suffix", "10L", []string{"10L"}},
		{"decimal exponent", "1.5e3", []string{"1.5e3"}},
		{"hex", "0xFF", []string{"0xFF"}},
		{"range is not a decimal", "1..2", []string{"1", "..", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := lexAll(t, tt.src)
			var lits []string
			for _, tok := range got[:len(got)-1] {
				lits = append(lits, tok.lit)
			}
			assert.Equal(t, tt.want, lits)
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		typ     token.TokenType
		literal string
	}{
		{"single quoted escape", `'it\'s'`, token.STRING, "it's"},
		{"double quoted escape", `"a\nb"`, token.STRING, "a\nb"},
		{"dollar without name", `"cost $"`, token.STRING, "cost $"},
		{"escaped dollar", `"\${x}"`, token.STRING, "${x}"},
		{"interpolated keeps raw text", `"v${x}\n"`, token.GSTRING, `v${x}\n`},
		{"simple interpolation", `"$name"`, token.GSTRING, "$name"},
		{"triple quoted", "'''one\ntwo'''", token.STRING, "one\ntwo"},
		{"unicode escape", `'\u00e9'`, token.STRING, "é"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := parser.NewLexer(tt.src)
			tok := l.NextToken()
			assert.Equal(t, tt.typ, tok.Type)
			assert.Equal(t, tt.literal, tok.Literal)
			assert.Equal(t, token.EOF, l.NextToken().Type)
			assert.Empty(t, l.Errors)
		})
	}
}

func TestLexerPositions(t *testing.T) {
	l := parser.NewLexer("foo\n  bar")

	foo := l.NextToken()
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, foo.Pos)
	assert.Equal(t, 1, foo.End.Line)
	assert.Equal(t, 3, foo.End.Offset)

	bar := l.NextToken()
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 6}, bar.Pos)
	assert.True(t, bar.NewlineBefore)
}

func TestLexerErrors(t *testing.T) {
	t.Run("unterminated string", func(t *testing.T) {
		l := parser.NewLexer(`"abc`)
		l.NextToken()
		require.Len(t, l.Errors, 1)
		assert.Contains(t, l.Errors[0].Error(), "unterminated string literal")
	})

	t.Run("unterminated block comment", func(t *testing.T) {
		l := parser.NewLexer("/* open")
		assert.Equal(t, token.EOF, l.NextToken().Type)
		require.Len(t, l.Errors, 1)
		assert.Contains(t, l.Errors[0].Error(), "unterminated block comment")
	})

	t.Run("illegal character", func(t *testing.T) {
		l := parser.NewLexer("#")
		assert.Equal(t, token.ILLEGAL, l.NextToken().Type)
		require.Len(t, l.Errors, 1)
	})
}
