package stmt

import (
	"fmt"

	"github.com/selenedb/selene/sql"
)

type Stmt interface {
	fmt.Stringer
}

type TableAlias struct {
	Table sql.Identifier
	Alias sql.Identifier
}

func (ta TableAlias) String() string {
	if ta.Alias != 0 && ta.Alias != ta.Table {
		return fmt.Sprintf("%s AS %s", ta.Table, ta.Alias)
	}
	return ta.Table.String()
}
