package engine

import (
	"fmt"
)

type ErrorKind int

const (
	InvalidType ErrorKind = iota
	UnsupportedOperator
	UnsupportedFunc
	InvalidRequestFormat
	Unexpected
)

// Error is a typed evaluation failure. Callers dispatch on Kind, never on
// the rendered message.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	switch e.Kind {
	case InvalidType:
		return fmt.Sprintf("[Invalid Type]: %s", e.Msg)
	case UnsupportedOperator:
		return fmt.Sprintf("[Unsupported Operator]: %s", e.Msg)
	case UnsupportedFunc:
		return fmt.Sprintf("[Unsupported Function]: %s", e.Msg)
	case InvalidRequestFormat:
		return fmt.Sprintf("[Invalid Request Format]: %s", e.Msg)
	}

	// Unexpected deliberately hides whatever went wrong.
	return "[Unexpected Error]: Something went wrong"
}
