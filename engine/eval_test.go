package engine

import (
	"errors"
	"testing"

	"github.com/selenedb/selene/expr"
	"github.com/selenedb/selene/sql"
)

func errorKind(t *testing.T, err error) ErrorKind {
	t.Helper()
	var ee *Error
	if !errors.As(err, &ee) {
		t.Fatalf("error %v is not *Error", err)
	}
	return ee.Kind
}

func TestEvalLeftErrorWins(t *testing.T) {
	// Both operands fail; the left failure must be the one reported.
	b := &expr.Binary{Op: expr.AddOp,
		Left:  &expr.Call{Name: "LOG", Args: []expr.Arg{{Expr: &expr.NumberLit{Text: "2"}}}},
		Right: &expr.StringLit{Value: "abc"},
	}
	_, err := Eval(b)
	if errorKind(t, err) != UnsupportedFunc {
		t.Errorf("Eval(%s) got %v want the left error", b, err)
	}

	b = &expr.Binary{Op: expr.AddOp,
		Left:  &expr.StringLit{Value: "abc"},
		Right: &expr.Call{Name: "LOG", Args: []expr.Arg{{Expr: &expr.NumberLit{Text: "2"}}}},
	}
	_, err = Eval(b)
	if errorKind(t, err) != InvalidType {
		t.Errorf("Eval(%s) got %v want the left error", b, err)
	}
}

func TestEvalOperatorCheckedLast(t *testing.T) {
	// An unsupported operator with a bad operand reports the operand.
	b := &expr.Binary{Op: expr.DivideOp,
		Left:  &expr.StringLit{Value: "abc"},
		Right: &expr.NumberLit{Text: "2"},
	}
	_, err := Eval(b)
	if errorKind(t, err) != InvalidType {
		t.Errorf("Eval(%s) got %v want invalid type", b, err)
	}
}

func TestEvalBadNumberLit(t *testing.T) {
	// The scanner never produces these, but a hand-built tree can.
	_, err := Eval(&expr.NumberLit{Text: "12x"})
	if errorKind(t, err) != InvalidType {
		t.Errorf("Eval(12x) got %v want invalid type", err)
	}
}

func TestEvalSqrtNegative(t *testing.T) {
	v, err := Eval(&expr.Call{Name: "SQRT",
		Args: []expr.Arg{{Expr: &expr.Unary{Op: expr.NegateOp,
			Expr: &expr.NumberLit{Text: "4"}}}}})
	// The negated operand itself is unsupported.
	if err == nil {
		t.Errorf("Eval(SQRT(-4)) got %s want an error", v)
	} else if errorKind(t, err) != Unexpected {
		t.Errorf("Eval(SQRT(-4)) got %v want unexpected", err)
	}
}

func TestEvalCastTargets(t *testing.T) {
	inner := &expr.StringLit{Value: "2"}
	for _, to := range []sql.Identifier{sql.INT, sql.INTEGER} {
		v, err := Eval(&expr.Cast{Expr: inner, To: to})
		if err != nil {
			t.Errorf("Eval(CAST('2' AS %s)) failed with %s", to, err)
		} else if v != Float64Value(2) {
			t.Errorf("Eval(CAST('2' AS %s)) got %s want 2", to, v)
		}
	}

	_, err := Eval(&expr.Cast{Expr: inner, To: sql.BOOL})
	if errorKind(t, err) != Unexpected {
		t.Errorf("Eval(CAST('2' AS BOOL)) got %v want unexpected", err)
	}
}
