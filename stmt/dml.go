package stmt

import (
	"fmt"
	"strings"

	"github.com/selenedb/selene/expr"
	"github.com/selenedb/selene/sql"
)

type InsertValues struct {
	Table   sql.Identifier
	Columns []sql.Identifier
	Rows    [][]expr.Expr
}

func (iv *InsertValues) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s", iv.Table)
	if iv.Columns != nil {
		sb.WriteString(" (")
		for i, col := range iv.Columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(col.String())
		}
		sb.WriteString(")")
	}
	sb.WriteString(" VALUES")
	for i, row := range iv.Rows {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(" (")
		for j, e := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			if e == nil {
				sb.WriteString("NULL")
			} else {
				sb.WriteString(e.String())
			}
		}
		sb.WriteString(")")
	}
	return sb.String()
}

type ColumnUpdate struct {
	Column sql.Identifier
	Expr   expr.Expr
}

type Update struct {
	Table   sql.Identifier
	Updates []ColumnUpdate
	Where   expr.Expr
}

func (u *Update) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "UPDATE %s SET ", u.Table)
	for i, cu := range u.Updates {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s = %s", cu.Column, cu.Expr)
	}
	if u.Where != nil {
		fmt.Fprintf(&sb, " WHERE %s", u.Where)
	}
	return sb.String()
}

type Delete struct {
	Table sql.Identifier
	Where expr.Expr
}

func (d *Delete) String() string {
	s := fmt.Sprintf("DELETE FROM %s", d.Table)
	if d.Where != nil {
		s += fmt.Sprintf(" WHERE %s", d.Where)
	}
	return s
}
