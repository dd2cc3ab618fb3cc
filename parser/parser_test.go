package parser

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/selenedb/selene/parser/token"
)

func TestScanUnscan(t *testing.T) {
	s := `create foobar * 123 (,) 'string' 456.789 => ;`
	tokens := []rune{token.Reserved, token.Identifier, token.Star, token.Number,
		token.LParen, token.Comma, token.RParen, token.String, token.Number,
		token.EqualGreater, token.EndOfStatement, token.EOF}

	p := NewParser(strings.NewReader(s), "scan").(*parser)
	for _, e := range tokens {
		r := p.scan()
		if e != r {
			t.Errorf("scan(%q) got %s want %s", s, token.Format(r), token.Format(e))
		}
		p.unscan()
		if r2 := p.scan(); r2 != r {
			t.Errorf("unscan(%q) got %s want %s", s, token.Format(r2), token.Format(r))
		}
	}
}

func TestParseFail(t *testing.T) {
	failed := []string{
		"create foobar",
		"create table (c int)",
		"create table t (c int, )",
		"create table t (c)",
		"select",
		"select 1 +",
		"select (1 + 2",
		"select 1 2 3",
		"select sqrt(",
		"select sqrt(x =>)",
		"select cast(1 as)",
		"select cast(1)",
		"select 1 union 2",
		"insert into t values",
		"insert into t (a, a) values (1)",
		"update t",
		"delete t",
		"drop table if t",
		"foobar",
		"!",
	}

	for i, f := range failed {
		p := NewParser(strings.NewReader(f), fmt.Sprintf("failed[%d]", i))
		stmt, err := p.Parse()
		if stmt != nil || err == nil {
			t.Errorf("Parse(%q) did not fail", f)
		}
	}
}

func TestParseExpr(t *testing.T) {
	cases := []struct {
		s    string
		e    string
		fail bool
	}{
		{s: "1 + 2", e: "(1 + 2)"},
		{s: "1 + 2 + 3", e: "((1 + 2) + 3)"},
		{s: "1 - 2 - 3", e: "((1 - 2) - 3)"},
		{s: "1 + 2 * 3", e: "(1 + (2 * 3))"},
		{s: "1 * 2 + 3", e: "((1 * 2) + 3)"},
		{s: "2 * 3 > 5", e: "((2 * 3) > 5)"},
		{s: "1 > 2 = false", e: "((1 > 2) == FALSE)"},
		{s: "- 2 * 3", e: "((- 2) * 3)"},
		{s: "-2 + 3", e: "((- 2) + 3)"},
		{s: "(1 + 2) * 3", e: "(((1 + 2)) * 3)"},
		{s: "((1))", e: "((1))"},
		{s: "1.5 * 2", e: "(1.5 * 2)"},
		{s: "'abc' || 'def'", e: "('abc' || 'def')"},
		{s: `"abc"`, e: "'abc'"},
		{s: "true and not false", e: "(TRUE AND (NOT FALSE))"},
		{s: "null", e: "NULL"},
		{s: "sqrt(16)", e: "sqrt(16)"},
		{s: "SQRT(16)", e: "SQRT(16)"},
		{s: "Sqrt(x => 16)", e: "Sqrt(x => 16)"},
		{s: "power(2, 10)", e: "power(2, 10)"},
		{s: "sqrt(1 + 3)", e: "sqrt((1 + 3))"},
		{s: "sqrt()", e: "sqrt()"},
		{s: "cast('2' as int)", e: "CAST('2' AS INT)"},
		{s: "cast('2' as integer) + 3", e: "(CAST('2' AS INTEGER) + 3)"},
		{s: "tbl.col > 1", e: "(tbl.col > 1)"},
		{s: "a.b.c", e: "a.b.c"},
		{s: "1 &", fail: true},
		{s: "sqrt(16", fail: true},
		{s: "cast(1 to int)", fail: true},
	}

	for i, c := range cases {
		p := NewParser(strings.NewReader(c.s), fmt.Sprintf("expr[%d]", i))
		e, err := p.ParseExpr()
		if c.fail {
			if err == nil {
				t.Errorf("ParseExpr(%q) did not fail", c.s)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseExpr(%q) failed with %s", c.s, err)
			continue
		}
		if e.String() != c.e {
			t.Errorf("ParseExpr(%q) got %s want %s", c.s, e, c.e)
		}
	}
}

func TestParseStmt(t *testing.T) {
	cases := []struct {
		s    string
		stmt string
	}{
		{s: "select 1 + 1", stmt: "SELECT (1 + 1)"},
		{s: "SELECT 2 > 1;", stmt: "SELECT (2 > 1)"},
		{s: "select *", stmt: "SELECT *"},
		{s: "select * from t", stmt: "SELECT * FROM t"},
		{s: "select t.* from t as u", stmt: "SELECT t.* FROM t AS u"},
		{s: "select t.* from t u", stmt: "SELECT t.* FROM t AS u"},
		{s: "select c, 1 as n from t where c > 1",
			stmt: "SELECT c, 1 AS n FROM t WHERE (c > 1)"},
		{s: "select c n from t", stmt: "SELECT c AS n FROM t"},
		{s: "select 1 union select 2", stmt: "SELECT 1 UNION SELECT 2"},
		{s: "select 1 union all select 2", stmt: "SELECT 1 UNION ALL SELECT 2"},
		{s: "select 1 intersect select 2", stmt: "SELECT 1 INTERSECT SELECT 2"},
		{s: "select 1 except select 2 union select 3",
			stmt: "SELECT 1 EXCEPT SELECT 2 UNION SELECT 3"},
		{s: "insert into t values (1, 'x')", stmt: "INSERT INTO t VALUES (1, 'x')"},
		{s: "insert into t (a, b) values (1, 2), (3, 4)",
			stmt: "INSERT INTO t (a, b) VALUES (1, 2), (3, 4)"},
		{s: "update t set a = 1, b = 2 where a > 0",
			stmt: "UPDATE t SET a = 1, b = 2 WHERE (a > 0)"},
		{s: "delete from t where a > 0", stmt: "DELETE FROM t WHERE (a > 0)"},
		{s: "create table t (a int, b varchar)", stmt: "CREATE TABLE t (a INT, b VARCHAR)"},
		{s: "drop table if exists t, u", stmt: "DROP TABLE IF EXISTS t, u"},
	}

	for i, c := range cases {
		p := NewParser(strings.NewReader(c.s), fmt.Sprintf("stmts[%d]", i))
		s, err := p.Parse()
		if err != nil {
			t.Errorf("Parse(%q) failed with %s", c.s, err)
			continue
		}
		if s.String() != c.stmt {
			t.Errorf("Parse(%q) got %s want %s", c.s, s, c.stmt)
		}
	}
}

func TestParseStream(t *testing.T) {
	src := "select 1; ; select 2;; select 3"
	want := []string{"SELECT 1", "SELECT 2", "SELECT 3"}

	p := NewParser(strings.NewReader(src), "stream")
	for _, w := range want {
		s, err := p.Parse()
		if err != nil {
			t.Fatalf("Parse(%q) failed with %s", src, err)
		}
		if s.String() != w {
			t.Errorf("Parse(%q) got %s want %s", src, s, w)
		}
	}
	if _, err := p.Parse(); err != io.EOF {
		t.Errorf("Parse(%q) got %v want io.EOF", src, err)
	}
}
