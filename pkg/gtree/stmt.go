package gtree

// ---------- Statement Types ----------

// ExprStatement evaluates an expression for its effect.
type ExprStatement struct {
	Expr Expression
}

func (*ExprStatement) gnode() {}
func (*ExprStatement) stmtNode() {}

// DeclStatement introduces a declaration.
type DeclStatement struct {
	Decl Declaration
}

func (*DeclStatement) gnode() {}
func (*DeclStatement) stmtNode() {}

// Block is an ordered statement sequence.
type Block struct {
	Statements []Statement
}

func (*Block) gnode() {}
func (*Block) stmtNode() {}

// Prepend inserts stmts, in order, before the existing statements. This is
// the only in-place mutation the tree supports; callers must pass
// statements no other parent owns.
func (b *Block) Prepend(stmts ...Statement) {
	if len(stmts) == 0 {
		return
	}
	out := make([]Statement, 0, len(stmts)+len(b.Statements))
	out = append(out, stmts...)
	b.Statements = append(out, b.Statements...)
}

// Comment carries source trivia in statement order. Text keeps the
// delimiters.
type Comment struct {
	Text string
	// Trailing is set when the comment shared its line with the code
	// before it.
	Trailing bool
}

func (*Comment) gnode() {}
func (*Comment) stmtNode() {}

// ---------- Declaration Types ----------

// VariableDeclaration declares a local variable.
type VariableDeclaration struct {
	Name        string
	Type        string     // optional
	Initializer Expression // optional
	ReadOnly    bool
}

func (*VariableDeclaration) gnode() {}
func (*VariableDeclaration) declNode() {}
