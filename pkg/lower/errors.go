package lower

import (
	"errors"
	"fmt"
)

// ErrUnknownOperatorToken is returned for an operator with no Kotlin form.
var ErrUnknownOperatorToken = errors.New("unknown operator token")

// UnknownOperatorTokenError reports an operator missing from the Kotlin
// operator tables.
type UnknownOperatorTokenError struct {
	Token string
	Unary bool
}

func (e *UnknownOperatorTokenError) Error() string {
	kind := "binary"
	if e.Unary {
		kind = "unary"
	}
	return fmt.Sprintf("no Kotlin %s operator for %q", kind, e.Token)
}

func (e *UnknownOperatorTokenError) Unwrap() error { return ErrUnknownOperatorToken }
