// Package gtree defines the G-tree, the dialect-neutral intermediate tree
// a build script passes through on its way from the Groovy DSL to the
// Kotlin DSL.
//
// The hierarchy is closed: every variant implements Node plus exactly one
// capability group (Statement, Expression, Declaration, BinaryOperator,
// UnaryOperator). Auxiliary nodes that only appear inside a specific
// parent (Project, ArgumentsList, Argument, SwitchCase, Catch) implement
// Node alone.
//
// The tree is single-owner. Nodes are treated as immutable once built,
// with Block.Prepend as the one documented in-place mutation. Relocating a
// sub-tree goes through Detach, which deep-copies it.
//
// The Golden Rule: pkg/gtree imports only stdlib and its YAML encoder.
// Builders, passes and lowerings depend on gtree, not the reverse.
package gtree
