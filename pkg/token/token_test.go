package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  TokenType
	}{
		{"def", DEF},
		{"if", IF},
		{"this", THIS},
		{"task", IDENT},
		{"Def", IDENT},
		{"dependsOn", IDENT},
	}

	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupIdent(tt.ident))
		})
	}
}

func TestTokenClassification(t *testing.T) {
	assert.True(t, IsKeyword(WHILE))
	assert.True(t, IsKeyword(AS))
	assert.False(t, IsKeyword(IDENT))

	assert.True(t, IsOperator(PLUS))
	assert.True(t, IsOperator(RBRACE))
	assert.False(t, IsOperator(DEF))

	assert.True(t, IsAssignment(PLUS_ASSIGN))
	assert.False(t, IsAssignment(EQ))
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "==~", MATCH.String())
	assert.Equal(t, "def", DEF.String())
	assert.Equal(t, "TOKEN(9999)", TokenType(9999).String())
}

func TestPosition(t *testing.T) {
	assert.Equal(t, "-", Position{}.String())
	assert.Equal(t, "3:7", Position{Line: 3, Column: 7}.String())

	span := Span{Start: Position{Line: 1, Column: 1, Offset: 0}, End: Position{Line: 1, Column: 5, Offset: 4}}
	assert.True(t, span.IsValid())
	assert.True(t, span.Contains(3))
	assert.False(t, span.Contains(4))
}
