package expr

import (
	"fmt"

	"github.com/selenedb/selene/sql"
)

type Expr interface {
	fmt.Stringer
	Equal(e Expr) bool
}

type Op int

const (
	AddOp Op = iota
	AndOp
	BinaryAndOp
	BinaryOrOp
	ConcatOp
	DivideOp
	EqualOp
	GreaterEqualOp
	GreaterThanOp
	LessEqualOp
	LessThanOp
	LShiftOp
	ModuloOp
	MultiplyOp
	NegateOp
	NotEqualOp
	NotOp
	OrOp
	RShiftOp
	SubtractOp
)

var ops = [...]struct {
	name       string
	precedence int
}{
	AddOp:          {"+", 7},
	AndOp:          {"AND", 2},
	BinaryAndOp:    {"&", 6},
	BinaryOrOp:     {"|", 6},
	ConcatOp:       {"||", 10},
	DivideOp:       {"/", 8},
	EqualOp:        {"==", 4},
	GreaterEqualOp: {">=", 5},
	GreaterThanOp:  {">", 5},
	LessEqualOp:    {"<=", 5},
	LessThanOp:     {"<", 5},
	LShiftOp:       {"<<", 6},
	ModuloOp:       {"%", 8},
	MultiplyOp:     {"*", 8},
	NegateOp:       {"-", 9},
	NotEqualOp:     {"!=", 4},
	NotOp:          {"NOT", 3},
	OrOp:           {"OR", 1},
	RShiftOp:       {">>", 6},
	SubtractOp:     {"-", 7},
}

func (op Op) Precedence() int {
	return ops[op].precedence
}

func (op Op) String() string {
	return ops[op].name
}

// NumberLit is a numeric literal. The raw decimal text is kept as scanned;
// it is not converted until the literal is evaluated.
type NumberLit struct {
	Text string
}

func (nl *NumberLit) String() string {
	return nl.Text
}

func (nl *NumberLit) Equal(e Expr) bool {
	nl2, ok := e.(*NumberLit)
	return ok && nl.Text == nl2.Text
}

type StringLit struct {
	Value string
}

func (sl *StringLit) String() string {
	return fmt.Sprintf("'%s'", sl.Value)
}

func (sl *StringLit) Equal(e Expr) bool {
	sl2, ok := e.(*StringLit)
	return ok && sl.Value == sl2.Value
}

type BoolLit struct {
	Value bool
}

func (bl *BoolLit) String() string {
	if bl.Value {
		return "TRUE"
	}
	return "FALSE"
}

func (bl *BoolLit) Equal(e Expr) bool {
	bl2, ok := e.(*BoolLit)
	return ok && bl.Value == bl2.Value
}

type NullLit struct{}

func (_ *NullLit) String() string {
	return "NULL"
}

func (_ *NullLit) Equal(e Expr) bool {
	_, ok := e.(*NullLit)
	return ok
}

type Unary struct {
	Op   Op
	Expr Expr
}

func (u *Unary) String() string {
	return fmt.Sprintf("(%s %s)", ops[u.Op].name, u.Expr)
}

func (u *Unary) Equal(e Expr) bool {
	u2, ok := e.(*Unary)
	return ok && u.Op == u2.Op && u.Expr.Equal(u2.Expr)
}

type Binary struct {
	Op    Op
	Left  Expr
	Right Expr
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, ops[b.Op].name, b.Right)
}

func (b *Binary) Equal(e Expr) bool {
	b2, ok := e.(*Binary)
	return ok && b.Op == b2.Op && b.Left.Equal(b2.Left) && b.Right.Equal(b2.Right)
}

// Paren is explicit grouping. Grouping is already encoded in the tree shape;
// the node is kept so that evaluation sees the same shapes parsing produced.
type Paren struct {
	Expr Expr
}

func (p *Paren) String() string {
	return fmt.Sprintf("(%s)", p.Expr)
}

func (p *Paren) Equal(e Expr) bool {
	p2, ok := e.(*Paren)
	return ok && p.Expr.Equal(p2.Expr)
}

// Arg is one function call argument, either unnamed or named (name => expr).
type Arg struct {
	Name sql.Identifier // 0 if unnamed
	Expr Expr
}

func (a Arg) String() string {
	if a.Name == 0 {
		return a.Expr.String()
	}
	return fmt.Sprintf("%s => %s", a.Name, a.Expr)
}

func (a Arg) Equal(a2 Arg) bool {
	return a.Name == a2.Name && a.Expr.Equal(a2.Expr)
}

// Call is a function call. Name is the raw source spelling: function lookup
// is case-sensitive.
type Call struct {
	Name string
	Args []Arg
}

func (c *Call) String() string {
	s := fmt.Sprintf("%s(", c.Name)
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

func (c *Call) Equal(e Expr) bool {
	c2, ok := e.(*Call)
	if !ok || c.Name != c2.Name || len(c.Args) != len(c2.Args) {
		return false
	}
	for i := range c.Args {
		if !c.Args[i].Equal(c2.Args[i]) {
			return false
		}
	}
	return true
}

type Ref []sql.Identifier

func (r Ref) String() string {
	s := r[0].String()
	for i := 1; i < len(r); i++ {
		s += fmt.Sprintf(".%s", r[i])
	}
	return s
}

func (r Ref) Equal(e Expr) bool {
	r2, ok := e.(Ref)
	if !ok || len(r) != len(r2) {
		return false
	}
	for i := range r {
		if r[i] != r2[i] {
			return false
		}
	}
	return true
}

// Cast is CAST(expr AS type). To is the target type word as written.
type Cast struct {
	Expr Expr
	To   sql.Identifier
}

func (c *Cast) String() string {
	return fmt.Sprintf("CAST(%s AS %s)", c.Expr, c.To)
}

func (c *Cast) Equal(e Expr) bool {
	c2, ok := e.(*Cast)
	return ok && c.To == c2.To && c.Expr.Equal(c2.Expr)
}
