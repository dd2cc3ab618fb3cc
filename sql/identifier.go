package sql

import (
	"strings"
	"sync"
)

type Identifier int

const MaxIdentifier = 128

// Non-reserved known identifiers: type names and other words that may also
// be used as plain identifiers.
const (
	BIGINT Identifier = iota + 1
	BOOL
	BOOLEAN
	CHAR
	DECIMAL
	DOUBLE
	FLOAT
	INT
	INTEGER
	NUMERIC
	REAL
	RESULT
	SMALLINT
	TEXT
	VARCHAR
)

// Reserved keywords.
const (
	ALL = -(iota + 1)
	AND
	AS
	CAST
	CREATE
	DELETE
	DROP
	EXCEPT
	FALSE
	FROM
	INSERT
	INTERSECT
	INTO
	NOT
	NULL
	OR
	SELECT
	SET
	TABLE
	TRUE
	UNION
	UPDATE
	VALUES
	WHERE
)

var knownKeywords = map[string]struct {
	id       Identifier
	reserved bool
}{
	"ALL":       {ALL, true},
	"AND":       {AND, true},
	"AS":        {AS, true},
	"BIGINT":    {BIGINT, false},
	"BOOL":      {BOOL, false},
	"BOOLEAN":   {BOOLEAN, false},
	"CAST":      {CAST, true},
	"CHAR":      {CHAR, false},
	"CREATE":    {CREATE, true},
	"DECIMAL":   {DECIMAL, false},
	"DELETE":    {DELETE, true},
	"DOUBLE":    {DOUBLE, false},
	"DROP":      {DROP, true},
	"EXCEPT":    {EXCEPT, true},
	"FALSE":     {FALSE, true},
	"FLOAT":     {FLOAT, false},
	"FROM":      {FROM, true},
	"INSERT":    {INSERT, true},
	"INT":       {INT, false},
	"INTEGER":   {INTEGER, false},
	"INTERSECT": {INTERSECT, true},
	"INTO":      {INTO, true},
	"NOT":       {NOT, true},
	"NULL":      {NULL, true},
	"NUMERIC":   {NUMERIC, false},
	"OR":        {OR, true},
	"REAL":      {REAL, false},
	"RESULT":    {RESULT, false},
	"SELECT":    {SELECT, true},
	"SET":       {SET, true},
	"SMALLINT":  {SMALLINT, false},
	"TABLE":     {TABLE, true},
	"TEXT":      {TEXT, false},
	"TRUE":      {TRUE, true},
	"UNION":     {UNION, true},
	"UPDATE":    {UPDATE, true},
	"VALUES":    {VALUES, true},
	"VARCHAR":   {VARCHAR, false},
	"WHERE":     {WHERE, true},
}

var (
	mutex          sync.Mutex
	lastIdentifier = Identifier(9999)
	identifiers    = map[string]Identifier{}
	keywords       = map[string]Identifier{}
	names          = map[Identifier]string{}
)

// ID interns an unquoted identifier: keywords match case-insensitively and
// other identifiers are folded to lower case.
func ID(s string) Identifier {
	if len(s) > MaxIdentifier {
		s = s[:MaxIdentifier]
	}

	if id, found := keywords[strings.ToUpper(s)]; found {
		return id
	}

	return QuotedID(strings.ToLower(s))
}

// QuotedID interns a quoted identifier; case is preserved and keywords are
// not special.
func QuotedID(s string) Identifier {
	if len(s) > MaxIdentifier {
		s = s[:MaxIdentifier]
	}

	mutex.Lock()
	defer mutex.Unlock()

	if id, found := identifiers[s]; found {
		return id
	}
	lastIdentifier += 1
	identifiers[s] = lastIdentifier
	names[lastIdentifier] = s
	return lastIdentifier
}

func (id Identifier) String() string {
	mutex.Lock()
	defer mutex.Unlock()

	return names[id]
}

func (id Identifier) IsReserved() bool {
	return id < 0
}

func init() {
	for s, n := range knownKeywords {
		keywords[s] = n.id
		names[n.id] = s
		if !n.reserved {
			identifiers[strings.ToLower(s)] = n.id
		}
	}
}
