package stmt

import (
	"fmt"
	"strings"

	"github.com/selenedb/selene/expr"
	"github.com/selenedb/selene/sql"
)

type SelectItem interface {
	fmt.Stringer
}

// StarItem is the * projection.
type StarItem struct{}

func (_ StarItem) String() string {
	return "*"
}

// TableItem is the tbl.* projection.
type TableItem struct {
	Table sql.Identifier
}

func (ti TableItem) String() string {
	return fmt.Sprintf("%s.*", ti.Table)
}

// ExprItem is an expression projection with an optional alias.
type ExprItem struct {
	Expr  expr.Expr
	Alias sql.Identifier
}

func (ei ExprItem) String() string {
	if ei.Alias != 0 {
		return fmt.Sprintf("%s AS %s", ei.Expr, ei.Alias)
	}
	return ei.Expr.String()
}

type Select struct {
	Items []SelectItem
	From  *TableAlias
	Where expr.Expr
}

func (s *Select) String() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	for i, item := range s.Items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(item.String())
	}
	if s.From != nil {
		fmt.Fprintf(&sb, " FROM %s", s.From)
	}
	if s.Where != nil {
		fmt.Fprintf(&sb, " WHERE %s", s.Where)
	}
	return sb.String()
}

type SetOp int

const (
	UnionOp SetOp = iota
	IntersectOp
	ExceptOp
)

func (op SetOp) String() string {
	switch op {
	case UnionOp:
		return "UNION"
	case IntersectOp:
		return "INTERSECT"
	case ExceptOp:
		return "EXCEPT"
	default:
		panic(fmt.Sprintf("unexpected set operator %d", op))
	}
}

// SetOperation combines two queries with UNION, INTERSECT, or EXCEPT.
type SetOperation struct {
	Op    SetOp
	All   bool
	Left  Stmt
	Right Stmt
}

func (so *SetOperation) String() string {
	var all string
	if so.All {
		all = " ALL"
	}
	return fmt.Sprintf("%s %s%s %s", so.Left, so.Op, all, so.Right)
}
