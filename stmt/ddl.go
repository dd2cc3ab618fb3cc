package stmt

import (
	"fmt"
	"strings"

	"github.com/selenedb/selene/sql"
)

type ColumnDef struct {
	Name sql.Identifier
	Type sql.Identifier
}

type CreateTable struct {
	Table   sql.Identifier
	Columns []ColumnDef
}

func (ct *CreateTable) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE %s (", ct.Table)
	for i, col := range ct.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s %s", col.Name, col.Type)
	}
	sb.WriteString(")")
	return sb.String()
}

type DropTable struct {
	IfExists bool
	Tables   []sql.Identifier
}

func (dt *DropTable) String() string {
	var sb strings.Builder
	sb.WriteString("DROP TABLE ")
	if dt.IfExists {
		sb.WriteString("IF EXISTS ")
	}
	for i, tbl := range dt.Tables {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tbl.String())
	}
	return sb.String()
}
