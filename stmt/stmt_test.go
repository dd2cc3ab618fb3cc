package stmt_test

import (
	"testing"

	"github.com/selenedb/selene/expr"
	"github.com/selenedb/selene/sql"
	"github.com/selenedb/selene/stmt"
)

func TestString(t *testing.T) {
	sel := &stmt.Select{
		Items: []stmt.SelectItem{
			stmt.ExprItem{Expr: &expr.Binary{Op: expr.AddOp,
				Left:  &expr.NumberLit{Text: "1"},
				Right: &expr.NumberLit{Text: "2"}}},
		},
	}

	cases := []struct {
		stmt stmt.Stmt
		s    string
	}{
		{sel, "SELECT (1 + 2)"},
		{&stmt.Select{
			Items: []stmt.SelectItem{stmt.StarItem{}},
			From:  &stmt.TableAlias{Table: sql.ID("t"), Alias: sql.ID("u")},
			Where: &expr.BoolLit{Value: true},
		}, "SELECT * FROM t AS u WHERE TRUE"},
		{&stmt.Select{
			Items: []stmt.SelectItem{
				stmt.TableItem{Table: sql.ID("t")},
				stmt.ExprItem{Expr: &expr.NumberLit{Text: "1"}, Alias: sql.ID("n")},
			},
			From: &stmt.TableAlias{Table: sql.ID("t"), Alias: sql.ID("t")},
		}, "SELECT t.*, 1 AS n FROM t"},
		{&stmt.SetOperation{Op: stmt.UnionOp, All: true, Left: sel, Right: sel},
			"SELECT (1 + 2) UNION ALL SELECT (1 + 2)"},
		{&stmt.SetOperation{Op: stmt.ExceptOp, Left: sel, Right: sel},
			"SELECT (1 + 2) EXCEPT SELECT (1 + 2)"},
		{&stmt.InsertValues{
			Table:   sql.ID("t"),
			Columns: []sql.Identifier{sql.ID("a"), sql.ID("b")},
			Rows: [][]expr.Expr{
				{&expr.NumberLit{Text: "1"}, nil},
				{&expr.NumberLit{Text: "2"}, &expr.StringLit{Value: "x"}},
			},
		}, "INSERT INTO t (a, b) VALUES (1, NULL), (2, 'x')"},
		{&stmt.Update{
			Table:   sql.ID("t"),
			Updates: []stmt.ColumnUpdate{{Column: sql.ID("a"), Expr: &expr.NumberLit{Text: "1"}}},
			Where:   &expr.BoolLit{Value: false},
		}, "UPDATE t SET a = 1 WHERE FALSE"},
		{&stmt.Delete{Table: sql.ID("t")}, "DELETE FROM t"},
		{&stmt.CreateTable{
			Table:   sql.ID("t"),
			Columns: []stmt.ColumnDef{{Name: sql.ID("a"), Type: sql.INT}},
		}, "CREATE TABLE t (a INT)"},
		{&stmt.DropTable{IfExists: true, Tables: []sql.Identifier{sql.ID("t"), sql.ID("u")}},
			"DROP TABLE IF EXISTS t, u"},
	}

	for _, c := range cases {
		if c.stmt.String() != c.s {
			t.Errorf("String() got %s want %s", c.stmt, c.s)
		}
	}
}
