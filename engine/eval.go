package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/selenedb/selene/expr"
	"github.com/selenedb/selene/sql"
)

// Eval reduces an expression to a value. Only literal operands are
// supported; anything touching a table is Unexpected.
func Eval(e expr.Expr) (Value, error) {
	switch e := e.(type) {
	case *expr.NumberLit:
		f, err := strconv.ParseFloat(e.Text, 64)
		if err != nil {
			return nil, &Error{Kind: InvalidType,
				Msg: fmt.Sprintf("invalid number literal %s", e.Text)}
		}
		return Float64Value(f), nil
	case *expr.StringLit:
		return StringValue(e.Value), nil
	case *expr.BoolLit:
		return nil, &Error{Kind: InvalidType,
			Msg: fmt.Sprintf("boolean literal %s is not supported", e)}
	case *expr.NullLit:
		return nil, &Error{Kind: InvalidType, Msg: "NULL is not supported"}
	case *expr.Paren:
		return Eval(e.Expr)
	case *expr.Binary:
		return evalBinary(e)
	case *expr.Call:
		return evalCall(e)
	case *expr.Cast:
		return evalCast(e)
	}

	return nil, &Error{Kind: Unexpected}
}

// numericOperand reduces an operand of a binary operator; a successful
// reduction to anything but a number is an invalid type failure.
func numericOperand(e expr.Expr) (float64, error) {
	v, err := Eval(e)
	if err != nil {
		return 0, err
	}
	f, ok := v.(Float64Value)
	if !ok {
		return 0, &Error{Kind: InvalidType,
			Msg: fmt.Sprintf("expected a number got %s", v)}
	}
	return float64(f), nil
}

func evalBinary(b *expr.Binary) (Value, error) {
	// Both operands are reduced before the operator is checked; the left
	// failure wins when both fail.
	lf, lerr := numericOperand(b.Left)
	rf, rerr := numericOperand(b.Right)
	if lerr != nil {
		return nil, lerr
	}
	if rerr != nil {
		return nil, rerr
	}

	switch b.Op {
	case expr.AddOp:
		return Float64Value(lf + rf), nil
	case expr.SubtractOp:
		return Float64Value(lf - rf), nil
	case expr.MultiplyOp:
		return Float64Value(lf * rf), nil
	case expr.GreaterThanOp:
		return BoolValue(lf > rf), nil
	}

	return nil, &Error{Kind: UnsupportedOperator,
		Msg: fmt.Sprintf("operator %s is not supported", b.Op)}
}

func evalCall(c *expr.Call) (Value, error) {
	if c.Name != "SQRT" {
		return nil, &Error{Kind: UnsupportedFunc,
			Msg: fmt.Sprintf("function %s is not supported", c.Name)}
	}
	if len(c.Args) == 0 {
		return nil, &Error{Kind: InvalidType, Msg: "SQRT requires an argument"}
	}

	// The argument may be named (name => expr) or unnamed; extra
	// arguments are ignored.
	v, err := Eval(c.Args[0].Expr)
	if err != nil {
		return nil, err
	}
	f, ok := v.(Float64Value)
	if !ok {
		return nil, &Error{Kind: InvalidType,
			Msg: fmt.Sprintf("expected a number got %s", v)}
	}
	return Float64Value(math.Sqrt(float64(f))), nil
}

func evalCast(c *expr.Cast) (Value, error) {
	if c.To != sql.INT && c.To != sql.INTEGER {
		return nil, &Error{Kind: Unexpected}
	}

	v, err := Eval(c.Expr)
	if err != nil {
		return nil, err
	}
	s, ok := v.(StringValue)
	if !ok {
		return nil, &Error{Kind: InvalidType,
			Msg: fmt.Sprintf("expected a string got %s", v)}
	}
	f, perr := strconv.ParseFloat(string(s), 64)
	if perr != nil {
		return nil, &Error{Kind: InvalidType,
			Msg: fmt.Sprintf("cannot cast '%s' to INT", s)}
	}
	return Float64Value(f), nil
}
