package gtree

import (
	"fmt"
	"strings"
)

// Node is the root of the G-tree hierarchy.
type Node interface {
	gnode()
}

// Statement is a node that can appear in a statement sequence.
type Statement interface {
	Node
	stmtNode() // Marker method to distinguish statements
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	exprNode() // Marker method to distinguish expressions
}

// Declaration is a node that introduces a name.
type Declaration interface {
	Node
	declNode() // Marker method to distinguish declarations
}

// Kind returns the variant name of n, e.g. "MethodCall".
func Kind(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*gtree.")
}

// Project is the top-level unit built from one source file.
type Project struct {
	Statements []Statement
}

func (*Project) gnode() {}
