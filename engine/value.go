package engine

import (
	"fmt"
)

// Value is the result of evaluating a query: a number, a boolean, or a
// string.
type Value interface {
	fmt.Stringer
}

type Float64Value float64

func (f Float64Value) String() string {
	return fmt.Sprintf("%v", float64(f))
}

type BoolValue bool

func (b BoolValue) String() string {
	if b {
		return "true"
	}
	return "false"
}

type StringValue string

func (s StringValue) String() string {
	return string(s)
}

// Format renders a value for display.
func Format(v Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}
