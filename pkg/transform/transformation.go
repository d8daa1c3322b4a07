// Package transform provides the transformation pass framework that
// rewrites a G-tree between building and lowering.
//
// A pass is a predicate-then-rewrite pair. Passes are registered from the
// init functions of pkg/transform/rules and applied by a Driver, which
// walks the tree once and at every node lets the first applicable pass
// replace it.
package transform

import "github.com/leapstack-labs/g2kts/pkg/gtree"

// Transformation is a single rewrite pass.
type Transformation interface {
	// ID returns the unique identifier, e.g. "task-creation".
	ID() string

	// Name returns the human-readable name.
	Name() string

	// Description returns a one-line description.
	Description() string

	// Can reports whether the pass applies to node. Scope is the nearest
	// enclosing block owner, or nil at top level. Can must not mutate
	// the tree.
	Can(node, scope gtree.Node) bool

	// Transform returns the replacement for node. Returning node itself
	// is a no-op and returning nil deletes it.
	Transform(node gtree.Node) gtree.Node
}

// CanFunc is the predicate half of a pass.
type CanFunc func(node, scope gtree.Node) bool

// TransformFunc is the rewrite half of a pass.
type TransformFunc func(node gtree.Node) gtree.Node

// Def is a data-driven pass definition.
type Def struct {
	ID          string // Unique identifier, e.g. "task-creation"
	Name        string // Human-readable name, e.g. "tasks.creating"
	Group       string // Category, e.g. "tasks" or "blocks"
	Description string
	Order       int // Lower runs first when several passes match one node
	Can         CanFunc
	Transform   TransformFunc

	// Documentation shown by "g2kts passes --verbose".
	Before string // origin snippet the pass recognises
	After  string // destination snippet it leads to
}

// Info is pass metadata for tooling.
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Group       string `json:"group"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	Before      string `json:"before,omitempty"`
	After       string `json:"after,omitempty"`
}

// Info returns the metadata of d.
func (d Def) Info() Info {
	return Info{
		ID:          d.ID,
		Name:        d.Name,
		Group:       d.Group,
		Description: d.Description,
		Order:       d.Order,
		Before:      d.Before,
		After:       d.After,
	}
}

// Pass wraps d as a Transformation.
func (d Def) Pass() Transformation {
	return &defPass{def: d}
}

type defPass struct {
	def Def
}

func (p *defPass) ID() string          { return p.def.ID }
func (p *defPass) Name() string        { return p.def.Name }
func (p *defPass) Description() string { return p.def.Description }

func (p *defPass) Can(node, scope gtree.Node) bool {
	if p.def.Can == nil {
		return false
	}
	return p.def.Can(node, scope)
}

func (p *defPass) Transform(node gtree.Node) gtree.Node {
	if p.def.Transform == nil {
		return node
	}
	return p.def.Transform(node)
}
