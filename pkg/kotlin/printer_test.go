package kotlin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/g2kts/pkg/gtree"
)

func name(s string) *Name { return &Name{Text: s} }

func str(s string) *StringLit { return &StringLit{Value: s} }

func call(n string, args ...Expression) *Call {
	c := &Call{Name: n}
	if len(args) > 0 {
		c.Args = &ValueArguments{}
		for _, a := range args {
			c.Args.Args = append(c.Args.Args, &Argument{Value: a})
		}
	}
	return c
}

func block(stmts ...Statement) *Block { return &Block{Statements: stmts} }

func bin(op Token, l, r Expression) *BinaryOp { return &BinaryOp{Left: l, Op: &Operator{Token: op}, Right: r} }

func TestPrint_Script(t *testing.T) {
	file := block(
		&Call{Name: "plugins", Lambda: &Lambda{Body: block(call("id", str("java")))}},
		&Property{Name: "copyDocs", Delegate: true, Initializer: &Call{
			Receiver: name("tasks"),
			Name:     "creating",
			Args:     &ValueArguments{Args: []*Argument{{Value: &ClassLiteral{Type: "Copy"}}}},
			Lambda:   &Lambda{Body: block(call("dependsOn", str("docs")))},
		}},
		&Call{
			Receiver: name("tasks"),
			Name:     "named",
			TypeArgs: []string{"Test"},
			Args:     &ValueArguments{Args: []*Argument{{Value: str("test")}}},
			Lambda:   &Lambda{Body: block(call("useJUnitPlatform"))},
		},
	)

	want := `plugins {
    id("java")
}
val copyDocs by tasks.creating(Copy::class) {
    dependsOn("docs")
}
tasks.named<Test>("test") {
    useJUnitPlatform()
}
`
	assert.Equal(t, want, Print(file, nil, Options{}))
}

func TestPrint_Expressions(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{"plain call", call("foo"), "foo()"},
		{"named argument", &Call{Name: "apply", Args: &ValueArguments{Args: []*Argument{{Name: "plugin", Value: str("java")}}}}, `apply(plugin = "java")`},
		{"qualified call", &Call{Receiver: &Dot{Receiver: name("a"), Name: "b"}, Name: "c"}, "a.b.c()"},
		{"safe access", &Dot{Receiver: name("a"), Name: "b", Safe: true}, "a?.b"},
		{"index", &Index{Receiver: name("ext"), Index: str("v")}, `ext["v"]`},
		{"receiver parenthesised", &Dot{Receiver: bin(PLUS, name("a"), name("b")), Name: "c"}, "(a + b).c"},
		{"looser left operand", bin(MUL, bin(PLUS, name("a"), name("b")), name("c")), "(a + b) * c"},
		{"tighter left operand", bin(PLUS, bin(MUL, name("a"), name("b")), name("c")), "a * b + c"},
		{"right operand of same level", bin(MINUS, name("a"), bin(MINUS, name("b"), name("c"))), "a - (b - c)"},
		{"assignment", bin(ASSIGN, name("x"), bin(PLUS, name("a"), &Literal{Text: "1"})), "x = a + 1"},
		{"infix", &BinaryOp{Left: bin(PLUS, name("a"), name("b")), Op: &Operator{Infix: "shl"}, Right: name("c")}, "a + b shl c"},
		{"infix under equality", bin(EQ, &BinaryOp{Left: name("a"), Op: &Operator{Infix: "and"}, Right: name("b")}, name("c")), "a and b == c"},
		{"equality under infix", &BinaryOp{Left: bin(EQ, name("a"), name("b")), Op: &Operator{Infix: "xor"}, Right: name("c")}, "(a == b) xor c"},
		{"not", &UnaryOp{Op: &Operator{Token: NOT}, Operand: bin(AND, name("a"), name("b")), Prefix: true}, "!(a && b)"},
		{"double minus", &UnaryOp{Op: &Operator{Token: MINUS}, Operand: &UnaryOp{Op: &Operator{Token: MINUS}, Operand: name("x"), Prefix: true}, Prefix: true}, "-(-x)"},
		{"postfix", &UnaryOp{Op: &Operator{Token: INC}, Operand: name("i")}, "i++"},
		{"class literal", &ClassLiteral{Type: "Copy"}, "Copy::class"},
		{"string escapes", str("a\"b$c\\d\n"), `"a\"b\$c\\d\n"`},
		{"template", &StringLit{Value: "v$version", Template: true}, `"v$version"`},
		{"multiline template", &StringLit{Value: "a\n$b", Template: true}, "\"\"\"a\n$b\"\"\""},
		{"list", call("listOf", &Literal{Text: "1"}, str("a")), `listOf(1, "a")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want+"\n", Print(tt.expr, nil, Options{}))
		})
	}
}

func TestPrint_Lambda(t *testing.T) {
	each := &Call{
		Receiver: name("files"),
		Name:     "each",
		Lambda: &Lambda{
			Params: []Param{{Name: "f"}, {Name: "i", Type: "Int"}},
			Body:   block(call("println", name("f"))),
		},
	}
	want := `files.each { f, i: Int ->
    println(f)
}
`
	assert.Equal(t, want, Print(each, nil, Options{}))

	empty := &Call{Name: "doLast", Lambda: &Lambda{Body: block()}}
	assert.Equal(t, "doLast {\n}\n", Print(empty, nil, Options{}))

	withArgs := &Call{Name: "foo", Args: &ValueArguments{Args: []*Argument{{Value: &Literal{Text: "1"}}}}, Lambda: &Lambda{Body: block()}}
	assert.Equal(t, "foo(1) {\n}\n", Print(withArgs, nil, Options{}))
}

func TestPrint_Properties(t *testing.T) {
	tests := []struct {
		name string
		prop *Property
		want string
	}{
		{"val", &Property{Name: "x", Initializer: &Literal{Text: "1"}}, "val x = 1"},
		{"typed nullable var", &Property{Name: "v", Type: "String", Nullable: true, Mutable: true, Initializer: &Literal{Text: "null"}}, "var v: String? = null"},
		{"delegate", &Property{Name: "t", Delegate: true, Initializer: &Dot{Receiver: name("tasks"), Name: "creating"}}, "val t by tasks.creating"},
		{"no initializer", &Property{Name: "y", Type: "Int"}, "val y: Int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want+"\n", Print(tt.prop, nil, Options{}))
		})
	}
}

func TestPrint_ControlFlow(t *testing.T) {
	t.Run("else if chain", func(t *testing.T) {
		stmt := &If{
			Condition: name("a"),
			Then:      block(call("b")),
			Else: block(&If{
				Condition: name("c"),
				Then:      block(call("d")),
				Else:      block(call("e")),
			}),
		}
		want := `if (a) {
    b()
} else if (c) {
    d()
} else {
    e()
}
`
		assert.Equal(t, want, Print(stmt, nil, Options{}))
	})

	t.Run("commented nested if keeps its block", func(t *testing.T) {
		nested := &If{Condition: name("c"), Then: block()}
		stmt := &If{Condition: name("a"), Then: block(), Else: block(nested)}
		extras := NewExtras()
		extras.AddBefore(nested, Comment{Text: "// only c"})

		want := `if (a) {
} else {
    // only c
    if (c) {
    }
}
`
		assert.Equal(t, want, Print(stmt, extras, Options{}))
	})

	t.Run("try", func(t *testing.T) {
		stmt := &Try{
			Body:    block(call("a")),
			Catches: []*Catch{{Name: "e", Type: "IOException", Body: block(call("b"))}},
			Finally: block(call("c")),
		}
		want := `try {
    a()
} catch (e: IOException) {
    b()
} finally {
    c()
}
`
		assert.Equal(t, want, Print(stmt, nil, Options{}))
	})

	t.Run("when", func(t *testing.T) {
		stmt := &When{
			Subject:  name("x"),
			Branches: []*WhenBranch{{Conditions: []Expression{&Literal{Text: "1"}}, Body: block(call("a"))}},
			Else:     block(),
		}
		want := `when (x) {
    1 -> {
        a()
    }
    else -> {
    }
}
`
		assert.Equal(t, want, Print(stmt, nil, Options{}))
	})

	t.Run("while", func(t *testing.T) {
		stmt := &While{
			Condition: bin(LT, name("i"), &Literal{Text: "10"}),
			Body:      block(&UnaryOp{Op: &Operator{Token: INC}, Operand: name("i")}),
		}
		want := `while (i < 10) {
    i++
}
`
		assert.Equal(t, want, Print(stmt, nil, Options{}))
	})
}

func TestPrint_Comments(t *testing.T) {
	stmt1 := call("stmt1")
	stmt2 := call("stmt2")
	body := block()
	doLast := &Call{Name: "doLast", Lambda: &Lambda{Body: body}}
	inner := call("inner")
	nested := &Call{Name: "nested", Lambda: &Lambda{Body: block(inner)}}

	extras := NewExtras()
	extras.AddBefore(stmt1, Comment{Text: "// c1"})
	extras.AddAfter(stmt2, Comment{Text: "// trailing", Trailing: true}, Comment{Text: "// next"})
	extras.AddWithin(body, Comment{Text: "// nothing yet"})
	extras.AddBefore(inner, Comment{Text: "/* indented */"})
	assert.Equal(t, 5, extras.Len())

	want := `// c1
stmt1()
stmt2() // trailing
// next
doLast {
    // nothing yet
}
nested {
    /* indented */
    inner()
}
`
	assert.Equal(t, want, Print(block(stmt1, stmt2, doLast, nested), extras, Options{}))
}

func TestPrint_CommentsOnlyFile(t *testing.T) {
	file := block()
	extras := NewExtras()
	extras.AddWithin(file, Comment{Text: "// empty build"})
	assert.Equal(t, "// empty build\n", Print(file, extras, Options{}))
	assert.Equal(t, "", Print(block(), nil, Options{}))
}

func TestPrint_IndentOption(t *testing.T) {
	file := block(&Call{Name: "a", Lambda: &Lambda{Body: block(
		&Call{Name: "b", Lambda: &Lambda{Body: block(call("c"))}},
	)}})
	want := "a {\n  b {\n    c()\n  }\n}\n"
	assert.Equal(t, want, Print(file, nil, Options{Indent: 2}))
}

func TestExtras_Empty(t *testing.T) {
	var nilExtras *Extras
	n := call("x")

	for _, got := range [][]Comment{
		nilExtras.ExtrasBefore(n),
		nilExtras.ExtrasAfter(n),
		nilExtras.ExtrasWithin(n),
		NewExtras().ExtrasBefore(n),
		NewExtras().ExtrasAfter(n),
		NewExtras().ExtrasWithin(n),
	} {
		require.NotNil(t, got)
		assert.Empty(t, got)
	}
	assert.Equal(t, 0, nilExtras.Len())
}

func TestExtras_KeyedByIdentity(t *testing.T) {
	a := call("same")
	b := call("same")
	extras := NewExtras()
	extras.AddAfter(a, Comment{Text: "// a"})

	assert.Len(t, extras.ExtrasAfter(a), 1)
	assert.Empty(t, extras.ExtrasAfter(b))
}

func TestTokens_CoverCommonOperators(t *testing.T) {
	for _, text := range gtree.CommonBinaryTokens {
		tok, ok := BinaryTokens[text]
		if assert.True(t, ok, "missing binary token %q", text) {
			assert.Equal(t, text, tok.String())
		}
	}
	for _, text := range gtree.CommonUnaryTokens {
		tok, ok := UnaryTokens[text]
		if assert.True(t, ok, "missing unary token %q", text) {
			assert.Equal(t, text, tok.String())
		}
	}
	assert.Equal(t, "ILLEGAL", Token(999).String())
}
