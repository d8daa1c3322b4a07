package gtree

// ---------- Expression Types ----------

// Identifier references a name.
type Identifier struct {
	Name string
}

func (*Identifier) gnode() {}
func (*Identifier) exprNode() {}

// Reserved identifiers produced for the self and parent references.
const (
	ThisName  = "this"
	SuperName = "super"
)

// String is a string literal. For a plain literal Value is the decoded
// text; when Template is set Value is the raw interpolating body as
// written in the source.
type String struct {
	Value    string
	Template bool
}

func (*String) gnode() {}
func (*String) exprNode() {}

// ConstKind classifies a non-string literal.
type ConstKind int

// ConstKind values.
const (
	ConstNumber ConstKind = iota
	ConstBool
	ConstNull
)

// Const is a non-string literal carrying its printed form.
type Const struct {
	Text string
	Kind ConstKind
}

func (*Const) gnode() {}
func (*Const) exprNode() {}

// BinaryExpression is left op right. Assignments are binary expressions
// whose operator is "=" or a compound assignment.
type BinaryExpression struct {
	Left     Expression
	Operator BinaryOperator
	Right    Expression
}

func (*BinaryExpression) gnode() {}
func (*BinaryExpression) exprNode() {}

// UnaryExpression is a prefix or postfix operator application.
type UnaryExpression struct {
	Operator UnaryOperator
	Operand  Expression
	Prefix   bool
}

func (*UnaryExpression) gnode() {}
func (*UnaryExpression) exprNode() {}

// MethodCall is obj.method(args) or, without Object, an unqualified call.
// A call whose Closure is set is a configuration block; the builder
// promotes a trailing closure argument into Closure exactly once.
type MethodCall struct {
	Object    Expression // optional
	Method    string
	Arguments *ArgumentsList
	Closure   *Closure // optional trailing closure
}

func (*MethodCall) gnode() {}
func (*MethodCall) exprNode() {}

// IsConfigurationBlock reports whether the call carries a trailing closure.
func (m *MethodCall) IsConfigurationBlock() bool {
	return m.Closure != nil
}

// Args returns the call's arguments.
func (m *MethodCall) Args() []*Argument {
	if m.Arguments == nil {
		return nil
	}
	return m.Arguments.Args
}

// ArgumentsList is the ordered argument list of a call. Named and
// positional arguments keep their source order.
type ArgumentsList struct {
	Args []*Argument
}

func (*ArgumentsList) gnode() {}

// Named returns the first argument with the given name, or nil.
func (l *ArgumentsList) Named(name string) *Argument {
	if l == nil {
		return nil
	}
	for _, a := range l.Args {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Argument is one call argument. Name is empty for positional arguments.
type Argument struct {
	Name  string
	Value Expression
}

func (*Argument) gnode() {}

// IsNamed reports whether the argument was passed by name.
func (a *Argument) IsNamed() bool {
	return a.Name != ""
}

// Parameter is a closure parameter.
type Parameter struct {
	Name string
	Type string // optional
}

// Closure is a lambda with an optional parameter list.
type Closure struct {
	Params []Parameter
	Body   *Block
}

func (*Closure) gnode() {}
func (*Closure) exprNode() {}

// List is a list literal.
type List struct {
	Elements []Expression
}

func (*List) gnode() {}
func (*List) exprNode() {}

// PropertyAccess is obj.name or obj?.name.
type PropertyAccess struct {
	Object Expression
	Name   string
	Safe   bool
}

func (*PropertyAccess) gnode() {}
func (*PropertyAccess) exprNode() {}

// ExtensionAccess is an indexed access obj[index].
type ExtensionAccess struct {
	Object Expression
	Index  Expression
}

func (*ExtensionAccess) gnode() {}
func (*ExtensionAccess) exprNode() {}

// ---------- Control Constructs ----------

// If is a conditional. An else-if chain is an Else block holding a single
// If statement.
type If struct {
	Condition Expression
	Then      *Block
	Else      *Block // optional
}

func (*If) gnode() {}
func (*If) exprNode() {}

// While is a loop.
type While struct {
	Condition Expression
	Body      *Block
}

func (*While) gnode() {}
func (*While) exprNode() {}

// TryCatch is try/catch/finally. Catch order is significant.
type TryCatch struct {
	Try     *Block
	Catches []*Catch
	Finally *Block // optional
}

func (*TryCatch) gnode() {}
func (*TryCatch) exprNode() {}

// Catch is one catch clause.
type Catch struct {
	Name string
	Type string // may be empty for an untyped catch
	Body *Block
}

func (*Catch) gnode() {}

// Switch is a multi-way branch.
type Switch struct {
	Subject Expression
	Cases   []*SwitchCase
	Default *Block // optional
}

func (*Switch) gnode() {}
func (*Switch) exprNode() {}

// SwitchCase is one case of a Switch.
type SwitchCase struct {
	Value Expression
	Body  *Block
}

func (*SwitchCase) gnode() {}

// ---------- Build Script Sugar ----------

// BuildScriptBlock is a well-known top-level configuration block such as
// plugins { } or dependencies { }.
type BuildScriptBlock struct {
	Type string
	Body *Block
}

func (*BuildScriptBlock) gnode() {}
func (*BuildScriptBlock) exprNode() {}

// TaskAccess references an existing task by name.
type TaskAccess struct {
	Name string
	Type string // optional element type
}

func (*TaskAccess) gnode() {}
func (*TaskAccess) exprNode() {}

// TaskConfigure configures an existing task by name.
type TaskConfigure struct {
	Name    string
	Type    string // optional element type
	Closure *Closure
}

func (*TaskConfigure) gnode() {}
func (*TaskConfigure) exprNode() {}

// TaskCreating declares a new task.
type TaskCreating struct {
	Name string
	Type string   // optional secondary label, the task class
	Body *Closure // optional
}

func (*TaskCreating) gnode() {}
func (*TaskCreating) exprNode() {}
