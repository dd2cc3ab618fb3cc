package sql

import (
	"strings"
	"testing"
)

func TestID(t *testing.T) {
	equal := []struct{ s1, s2 string }{
		{"abc", "abc"},
		{"Abc", "abc"},
		{"abC", "abc"},
		{"ABC", "abc"},
		{"select", "select"},
		{"select", "SELECT"},
		{"int", "INT"},
	}

	for _, c := range equal {
		if ID(c.s1) != ID(c.s2) {
			t.Errorf("ID: %q != %q", c.s1, c.s2)
		}
	}

	notEqual := []struct{ s1, s2 string }{
		{"abc", "abcd"},
		{"abcd", "abc"},
		{"abc", "ABCD"},
		{"select", "union"},
	}

	for _, c := range notEqual {
		if ID(c.s1) == ID(c.s2) {
			t.Errorf("ID: %q == %q", c.s1, c.s2)
		}
	}
}

func TestQuotedID(t *testing.T) {
	equal := []struct{ s1, s2 string }{
		{"abc", "abc"},
		{"seLect", "seLect"},
	}

	for _, c := range equal {
		if QuotedID(c.s1) != QuotedID(c.s2) {
			t.Errorf("QuotedID: %q != %q", c.s1, c.s2)
		}
	}

	notEqual := []struct{ s1, s2 string }{
		{"abc", "Abc"},
		{"ABC", "abc"},
	}

	for _, c := range notEqual {
		if QuotedID(c.s1) == QuotedID(c.s2) {
			t.Errorf("QuotedID: %q == %q", c.s1, c.s2)
		}
	}

	// Quoting a reserved word makes it a plain identifier.
	if QuotedID("select") == ID("select") {
		t.Error(`QuotedID("select") == ID("select")`)
	}

	if QuotedID("int") != ID("int") {
		t.Error(`QuotedID("int") != ID("int")`)
	}
}

func TestIsReserved(t *testing.T) {
	reserved := []Identifier{SELECT, FROM, CAST, UNION, TRUE, FALSE, NULL}
	for _, id := range reserved {
		if !id.IsReserved() {
			t.Errorf("IsReserved(%s) got false want true", id)
		}
	}

	notReserved := []Identifier{INT, INTEGER, DOUBLE, RESULT, ID("abc")}
	for _, id := range notReserved {
		if id.IsReserved() {
			t.Errorf("IsReserved(%s) got true want false", id)
		}
	}
}

func TestMaxIdentifier(t *testing.T) {
	long := strings.Repeat("x", MaxIdentifier+20)
	if ID(long) != ID(long[:MaxIdentifier]) {
		t.Error("ID did not truncate a long identifier")
	}
}
