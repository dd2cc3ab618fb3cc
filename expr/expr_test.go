package expr_test

import (
	"testing"

	"github.com/selenedb/selene/expr"
	"github.com/selenedb/selene/sql"
)

func TestString(t *testing.T) {
	cases := []struct {
		e expr.Expr
		s string
	}{
		{&expr.NumberLit{Text: "123"}, "123"},
		{&expr.NumberLit{Text: "1.25"}, "1.25"},
		{&expr.StringLit{Value: "abc"}, "'abc'"},
		{&expr.BoolLit{Value: true}, "TRUE"},
		{&expr.BoolLit{Value: false}, "FALSE"},
		{&expr.NullLit{}, "NULL"},
		{&expr.Binary{Op: expr.AddOp, Left: &expr.NumberLit{Text: "1"},
			Right: &expr.NumberLit{Text: "2"}}, "(1 + 2)"},
		{&expr.Binary{Op: expr.GreaterThanOp,
			Left:  &expr.Binary{Op: expr.MultiplyOp, Left: &expr.NumberLit{Text: "2"}, Right: &expr.NumberLit{Text: "3"}},
			Right: &expr.NumberLit{Text: "5"}}, "((2 * 3) > 5)"},
		{&expr.Unary{Op: expr.NegateOp, Expr: &expr.NumberLit{Text: "1"}}, "(- 1)"},
		{&expr.Paren{Expr: &expr.NumberLit{Text: "1"}}, "(1)"},
		{&expr.Call{Name: "SQRT", Args: []expr.Arg{{Expr: &expr.NumberLit{Text: "16"}}}},
			"SQRT(16)"},
		{&expr.Call{Name: "SQRT", Args: []expr.Arg{{Name: sql.ID("x"), Expr: &expr.NumberLit{Text: "16"}}}},
			"SQRT(x => 16)"},
		{expr.Ref{sql.ID("tbl"), sql.ID("col")}, "tbl.col"},
		{&expr.Cast{Expr: &expr.StringLit{Value: "2"}, To: sql.INT}, "CAST('2' AS INT)"},
	}

	for _, c := range cases {
		if c.e.String() != c.s {
			t.Errorf("String() got %s want %s", c.e.String(), c.s)
		}
	}
}

func TestEqual(t *testing.T) {
	b := &expr.Binary{Op: expr.AddOp, Left: &expr.NumberLit{Text: "1"},
		Right: &expr.NumberLit{Text: "2"}}

	equal := []struct{ e1, e2 expr.Expr }{
		{&expr.NumberLit{Text: "1"}, &expr.NumberLit{Text: "1"}},
		{&expr.StringLit{Value: "abc"}, &expr.StringLit{Value: "abc"}},
		{&expr.NullLit{}, &expr.NullLit{}},
		{b, &expr.Binary{Op: expr.AddOp, Left: &expr.NumberLit{Text: "1"},
			Right: &expr.NumberLit{Text: "2"}}},
		{&expr.Paren{Expr: b}, &expr.Paren{Expr: b}},
		{&expr.Call{Name: "SQRT", Args: []expr.Arg{{Expr: b}}},
			&expr.Call{Name: "SQRT", Args: []expr.Arg{{Expr: b}}}},
	}

	for _, c := range equal {
		if !c.e1.Equal(c.e2) {
			t.Errorf("Equal(%s, %s) got false want true", c.e1, c.e2)
		}
	}

	notEqual := []struct{ e1, e2 expr.Expr }{
		{&expr.NumberLit{Text: "1"}, &expr.NumberLit{Text: "1.0"}},
		{&expr.NumberLit{Text: "1"}, &expr.StringLit{Value: "1"}},
		{&expr.BoolLit{Value: true}, &expr.BoolLit{Value: false}},
		{b, &expr.Binary{Op: expr.SubtractOp, Left: &expr.NumberLit{Text: "1"},
			Right: &expr.NumberLit{Text: "2"}}},
		{b, &expr.Paren{Expr: b}},
		{&expr.Call{Name: "SQRT", Args: []expr.Arg{{Expr: b}}},
			&expr.Call{Name: "sqrt", Args: []expr.Arg{{Expr: b}}}},
		{expr.Ref{sql.ID("a")}, expr.Ref{sql.ID("a"), sql.ID("b")}},
	}

	for _, c := range notEqual {
		if c.e1.Equal(c.e2) {
			t.Errorf("Equal(%s, %s) got true want false", c.e1, c.e2)
		}
	}
}
