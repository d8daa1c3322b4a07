package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/g2kts/pkg/parser"
	"github.com/leapstack-labs/g2kts/pkg/token"
)

// Sentinels for errors.Is.
var (
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	ErrMalformedArguments   = errors.New("malformed arguments")
	ErrInvalidInput         = errors.New("invalid input")
)

// Error is the base interface for all builder errors.
type Error interface {
	error
	Position() token.Position
}

// baseError provides common error functionality.
type baseError struct {
	pos token.Position
	msg string
}

func (e *baseError) Position() token.Position { return e.pos }
func (e *baseError) Error() string {
	if e.pos.IsValid() {
		return fmt.Sprintf("%d:%d: %s", e.pos.Line, e.pos.Column, e.msg)
	}
	return e.msg
}

// UnsupportedConstructError reports an origin node with no translation rule.
type UnsupportedConstructError struct {
	baseError
	Kind string // runtime kind of the origin node
	Text string // source text, when known
}

// NewUnsupportedConstruct creates an error for node n. Reason is optional
// and narrows down which form of the node is unsupported.
func NewUnsupportedConstruct(n parser.Node, reason string) *UnsupportedConstructError {
	kind := parser.KindOf(n)
	text := parser.SourceText(n)

	msg := "unsupported construct " + kind
	if reason != "" {
		msg += " (" + reason + ")"
	}
	if snippet := abbreviate(text); snippet != "" {
		msg += ": " + snippet
	}
	return &UnsupportedConstructError{
		baseError: baseError{pos: spanStart(n), msg: msg},
		Kind:      kind,
		Text:      text,
	}
}

func (e *UnsupportedConstructError) Unwrap() error { return ErrUnsupportedConstruct }

// MalformedArgumentsError reports a call whose arguments are not a tuple.
type MalformedArgumentsError struct {
	baseError
	Kind string // runtime kind of the argument node
}

// NewMalformedArguments creates an error for the arguments node n.
func NewMalformedArguments(n parser.Node) *MalformedArgumentsError {
	kind := parser.KindOf(n)
	return &MalformedArgumentsError{
		baseError: baseError{pos: spanStart(n), msg: "cannot parse arguments of kind " + kind},
		Kind:      kind,
	}
}

func (e *MalformedArgumentsError) Unwrap() error { return ErrMalformedArguments }

// InvalidInputError reports a top-level input that is not a block.
type InvalidInputError struct {
	baseError
	Kind string
}

// NewInvalidInput creates an error for the top-level node n.
func NewInvalidInput(n parser.Node) *InvalidInputError {
	kind := parser.KindOf(n)
	return &InvalidInputError{
		baseError: baseError{pos: spanStart(n), msg: "top-level input must be a block, got " + kind},
		Kind:      kind,
	}
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

func spanStart(n parser.Node) token.Position {
	if n == nil {
		return token.Position{}
	}
	return n.GetSpan().Start
}

// abbreviate returns the first line of text, shortened for messages.
func abbreviate(text string) string {
	const maxLen = 60
	line, _, multi := strings.Cut(strings.TrimSpace(text), "\n")
	line = strings.TrimSpace(line)
	if len(line) > maxLen {
		return line[:maxLen] + "..."
	}
	if multi {
		return line + " ..."
	}
	return line
}
