package transform

import (
	"errors"
	"fmt"
)

// ErrInvalidRewrite is returned when a pass produces a replacement that
// does not fit the place of the node it replaced.
var ErrInvalidRewrite = errors.New("invalid rewrite")

// InvalidRewriteError describes a rejected replacement.
type InvalidRewriteError struct {
	Pass string // ID of the offending pass
	From string // kind of the replaced node
	To   string // kind of the replacement, empty for a deletion
}

func (e *InvalidRewriteError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("pass %s: cannot remove %s; only statement expressions can be removed", e.Pass, e.From)
	}
	return fmt.Sprintf("pass %s: cannot replace %s with %s", e.Pass, e.From, e.To)
}

func (e *InvalidRewriteError) Unwrap() error { return ErrInvalidRewrite }
