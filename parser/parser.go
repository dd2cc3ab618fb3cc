package parser

import (
	"fmt"
	"io"
	"runtime"

	"github.com/selenedb/selene/expr"
	"github.com/selenedb/selene/parser/scanner"
	"github.com/selenedb/selene/parser/token"
	"github.com/selenedb/selene/sql"
	"github.com/selenedb/selene/stmt"
)

type Parser interface {
	// Parse returns the next statement in the input; it returns io.EOF
	// once the input is exhausted.
	Parse() (stmt.Stmt, error)
	ParseExpr() (expr.Expr, error)
}

type parser struct {
	scanner   scanner.Scanner
	sctx      scanner.ScanCtx
	unscanned bool
}

func NewParser(rr io.RuneReader, fn string) Parser {
	var p parser
	p.scanner.Init(rr, fn)
	return &p
}

func (p *parser) Parse() (s stmt.Stmt, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); ok {
				panic(r)
			}
			err = r.(error)
			s = nil
		}
	}()

	t := p.scan()
	for t == token.EndOfStatement {
		t = p.scan()
	}
	if t == token.EOF {
		return nil, io.EOF
	}
	p.unscan()

	s = p.parseStmt()
	p.expectEndOfStatement()
	return
}

func (p *parser) error(msg string) {
	panic(fmt.Errorf("%s: %s", p.sctx.Position, msg))
}

func (p *parser) scan() rune {
	if p.unscanned {
		p.unscanned = false
		return p.sctx.Token
	}

	p.scanner.Scan(&p.sctx)
	if p.sctx.Token == token.Error {
		p.error(p.sctx.Error.Error())
	}
	return p.sctx.Token
}

func (p *parser) unscan() {
	p.unscanned = true
}

func (p *parser) got() string {
	switch p.sctx.Token {
	case token.EOF:
		return "end of file"
	case token.EndOfStatement:
		return "end of statement"
	case token.Error:
		return fmt.Sprintf("error %s", p.sctx.Error.Error())
	case token.Identifier:
		return fmt.Sprintf("identifier %s", p.sctx.Identifier)
	case token.Reserved:
		return fmt.Sprintf("reserved identifier %s", p.sctx.Identifier)
	case token.String:
		return fmt.Sprintf("string %q", p.sctx.String)
	case token.Number:
		return fmt.Sprintf("number %s", p.sctx.Text)
	}

	return fmt.Sprintf("rune %c", p.sctx.Token)
}

func (p *parser) expectReserved(ids ...sql.Identifier) sql.Identifier {
	t := p.scan()
	if t == token.Reserved {
		for _, kw := range ids {
			if kw == p.sctx.Identifier {
				return kw
			}
		}
	}

	var msg string
	if len(ids) == 1 {
		msg = ids[0].String()
	} else {
		for i, kw := range ids {
			if i == len(ids)-1 {
				msg += ", or "
			} else if i > 0 {
				msg += ", "
			}
			msg += kw.String()
		}
	}

	p.error(fmt.Sprintf("expected keyword %s got %s", msg, p.got()))
	return 0
}

func (p *parser) optionalReserved(ids ...sql.Identifier) bool {
	t := p.scan()
	if t == token.Reserved {
		for _, kw := range ids {
			if kw == p.sctx.Identifier {
				return true
			}
		}
	}

	p.unscan()
	return false
}

func (p *parser) expectIdentifier(msg string) sql.Identifier {
	t := p.scan()
	if t != token.Identifier {
		p.error(fmt.Sprintf("%s got %s", msg, p.got()))
	}
	return p.sctx.Identifier
}

func (p *parser) maybeIdentifier(id sql.Identifier) bool {
	if p.scan() == token.Identifier && p.sctx.Identifier == id {
		return true
	}

	p.unscan()
	return false
}

func (p *parser) expectTokens(tokens ...rune) rune {
	t := p.scan()
	for _, r := range tokens {
		if t == r {
			return r
		}
	}

	var msg string
	if len(tokens) == 1 {
		msg = token.Format(tokens[0])
	} else {
		for i, r := range tokens {
			if i == len(tokens)-1 {
				msg += ", or "
			} else if i > 0 {
				msg += ", "
			}
			msg += token.Format(r)
		}
	}

	p.error(fmt.Sprintf("expected %s got %s", msg, p.got()))
	return 0
}

func (p *parser) maybeToken(mr rune) bool {
	if p.scan() == mr {
		return true
	}
	p.unscan()
	return false
}

func (p *parser) expectEndOfStatement() {
	r := p.scan()
	if r != token.EOF && r != token.EndOfStatement {
		p.error(fmt.Sprintf("expected the end of the statement got %s", p.got()))
	}
}

func (p *parser) parseStmt() stmt.Stmt {
	switch p.expectReserved(sql.CREATE, sql.DELETE, sql.DROP, sql.INSERT, sql.SELECT,
		sql.UPDATE) {
	case sql.CREATE:
		// CREATE TABLE table ( column type [,...] )
		p.expectReserved(sql.TABLE)
		return p.parseCreateTable()
	case sql.DELETE:
		// DELETE FROM table [WHERE <expr>]
		p.expectReserved(sql.FROM)
		return p.parseDelete()
	case sql.DROP:
		// DROP TABLE [IF EXISTS] table [,...]
		p.expectReserved(sql.TABLE)
		return p.parseDropTable()
	case sql.INSERT:
		// INSERT INTO table [( column [,...] )] VALUES ( <expr> [,...] ) [,...]
		p.expectReserved(sql.INTO)
		return p.parseInsert()
	case sql.SELECT:
		return p.parseQuery()
	case sql.UPDATE:
		// UPDATE table SET column = <expr> [,...] [WHERE <expr>]
		return p.parseUpdate()
	}

	return nil
}

/*
<query> = <select> [ UNION | INTERSECT | EXCEPT [ALL] <select> ...]
<select> = SELECT <select-item> [',' ...]
    [FROM table [[ AS ] alias]]
    [WHERE <expr>]
<select-item> = '*'
    | table '.' '*'
    | <expr> [[ AS ] alias]
*/

func (p *parser) parseQuery() stmt.Stmt {
	var s stmt.Stmt = p.parseSelect()
	for p.optionalReserved(sql.UNION, sql.INTERSECT, sql.EXCEPT) {
		var op stmt.SetOp
		switch p.sctx.Identifier {
		case sql.UNION:
			op = stmt.UnionOp
		case sql.INTERSECT:
			op = stmt.IntersectOp
		case sql.EXCEPT:
			op = stmt.ExceptOp
		}

		all := p.optionalReserved(sql.ALL)
		p.expectReserved(sql.SELECT)
		s = &stmt.SetOperation{Op: op, All: all, Left: s, Right: p.parseSelect()}
	}
	return s
}

func (p *parser) parseSelect() *stmt.Select {
	var s stmt.Select
	for {
		s.Items = append(s.Items, p.parseSelectItem())
		if !p.maybeToken(token.Comma) {
			break
		}
	}

	if p.optionalReserved(sql.FROM) {
		var ta stmt.TableAlias
		ta.Table = p.expectIdentifier("expected a table")
		ta.Alias = ta.Table
		if p.optionalReserved(sql.AS) {
			ta.Alias = p.expectIdentifier("expected an alias")
		} else if p.scan() == token.Identifier {
			ta.Alias = p.sctx.Identifier
		} else {
			p.unscan()
		}
		s.From = &ta
	}

	if p.optionalReserved(sql.WHERE) {
		s.Where = p.parseExpr()
	}

	return &s
}

func (p *parser) parseSelectItem() stmt.SelectItem {
	if p.maybeToken(token.Star) {
		return stmt.StarItem{}
	}

	var e expr.Expr
	if p.scan() == token.Identifier {
		id, text := p.sctx.Identifier, p.sctx.Text
		if p.maybeToken(token.Dot) {
			if p.maybeToken(token.Star) {
				return stmt.TableItem{Table: id}
			}
			ref := expr.Ref{id, p.expectIdentifier("expected a column")}
			for p.maybeToken(token.Dot) {
				ref = append(ref, p.expectIdentifier("expected a column"))
			}
			e = p.parseBinaryRest(ref, 0)
		} else {
			e = p.parseBinaryRest(p.parseIdentExpr(id, text), 0)
		}
	} else {
		p.unscan()
		e = p.parseExpr()
	}

	item := stmt.ExprItem{Expr: e}
	if p.optionalReserved(sql.AS) {
		item.Alias = p.expectIdentifier("expected an alias")
	} else if p.scan() == token.Identifier {
		item.Alias = p.sctx.Identifier
	} else {
		p.unscan()
	}
	return item
}

func (p *parser) ParseExpr() (e expr.Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); ok {
				panic(r)
			}
			err = r.(error)
			e = nil
		}
	}()

	e = p.parseExpr()
	return
}

/*
<expr>:
      <literal>
    | - <expr>
    | NOT <expr>
    | ( <expr> )
    | <expr> <op> <expr>
    | <ref> [. <ref> ...]
    | <func> ( [<arg> [,...]] )
    | CAST ( <expr> AS type )
<arg>:
      <expr>
    | name => <expr>
<op>:
      + - * / %
    | = == != <> < <= > >=
    | << >> & |
    | AND | OR
*/

var binaryOps = map[rune]expr.Op{
	token.Ampersand:      expr.BinaryAndOp,
	token.Bar:            expr.BinaryOrOp,
	token.BarBar:         expr.ConcatOp,
	token.Equal:          expr.EqualOp,
	token.EqualEqual:     expr.EqualOp,
	token.BangEqual:      expr.NotEqualOp,
	token.Greater:        expr.GreaterThanOp,
	token.GreaterEqual:   expr.GreaterEqualOp,
	token.GreaterGreater: expr.RShiftOp,
	token.Less:           expr.LessThanOp,
	token.LessEqual:      expr.LessEqualOp,
	token.LessGreater:    expr.NotEqualOp,
	token.LessLess:       expr.LShiftOp,
	token.Minus:          expr.SubtractOp,
	token.Percent:        expr.ModuloOp,
	token.Plus:           expr.AddOp,
	token.Slash:          expr.DivideOp,
	token.Star:           expr.MultiplyOp,
}

func (p *parser) parseExpr() expr.Expr {
	return p.parseBinary(0)
}

func (p *parser) parseBinary(minPrec int) expr.Expr {
	return p.parseBinaryRest(p.parseUnary(), minPrec)
}

// parseBinaryRest climbs binary operators of at least minPrec precedence,
// left associative, starting from the already parsed operand e.
func (p *parser) parseBinaryRest(e expr.Expr, minPrec int) expr.Expr {
	for {
		r := p.scan()
		op, ok := binaryOps[r]
		if !ok {
			if r == token.Reserved && p.sctx.Identifier == sql.AND {
				op = expr.AndOp
			} else if r == token.Reserved && p.sctx.Identifier == sql.OR {
				op = expr.OrOp
			} else {
				p.unscan()
				return e
			}
		}
		if op.Precedence() < minPrec {
			p.unscan()
			return e
		}

		e = &expr.Binary{Op: op, Left: e, Right: p.parseBinary(op.Precedence() + 1)}
	}
}

func (p *parser) parseUnary() expr.Expr {
	r := p.scan()
	if r == token.Reserved {
		switch p.sctx.Identifier {
		case sql.TRUE:
			return &expr.BoolLit{Value: true}
		case sql.FALSE:
			return &expr.BoolLit{Value: false}
		case sql.NULL:
			return &expr.NullLit{}
		case sql.NOT:
			return &expr.Unary{Op: expr.NotOp,
				Expr: p.parseBinary(expr.NotOp.Precedence())}
		case sql.CAST:
			return p.parseCast()
		}
		p.error(fmt.Sprintf("unexpected identifier %s", p.sctx.Identifier))
	} else if r == token.String {
		return &expr.StringLit{Value: p.sctx.String}
	} else if r == token.Number {
		return &expr.NumberLit{Text: p.sctx.Text}
	} else if r == token.Identifier {
		return p.parseIdentExpr(p.sctx.Identifier, p.sctx.Text)
	} else if r == token.Minus {
		return &expr.Unary{Op: expr.NegateOp,
			Expr: p.parseBinary(expr.NegateOp.Precedence())}
	} else if r == token.LParen {
		e := &expr.Paren{Expr: p.parseExpr()}
		if p.scan() != token.RParen {
			p.error(fmt.Sprintf("expected closing parenthesis got %s", p.got()))
		}
		return e
	}

	p.error(fmt.Sprintf("expected an expression got %s", p.got()))
	return nil
}

// parseIdentExpr continues an expression whose leading identifier has
// already been scanned; text is the identifier's raw source spelling.
func (p *parser) parseIdentExpr(id sql.Identifier, text string) expr.Expr {
	if p.maybeToken(token.LParen) {
		// <func> ( [<arg> [,...]] )
		c := &expr.Call{Name: text}
		if !p.maybeToken(token.RParen) {
			for {
				c.Args = append(c.Args, p.parseArg())
				if p.maybeToken(token.RParen) {
					break
				}
				p.expectTokens(token.Comma)
			}
		}
		return c
	}

	// <ref> [. <ref> ...]
	ref := expr.Ref{id}
	for p.maybeToken(token.Dot) {
		ref = append(ref, p.expectIdentifier("expected a reference"))
	}
	return ref
}

func (p *parser) parseArg() expr.Arg {
	if p.scan() == token.Identifier {
		id, text := p.sctx.Identifier, p.sctx.Text
		if p.maybeToken(token.EqualGreater) {
			// name => <expr>
			return expr.Arg{Name: id, Expr: p.parseExpr()}
		}
		return expr.Arg{Expr: p.parseBinaryRest(p.parseIdentExpr(id, text), 0)}
	}

	p.unscan()
	return expr.Arg{Expr: p.parseExpr()}
}

func (p *parser) parseCast() expr.Expr {
	// CAST ( <expr> AS type )
	p.expectTokens(token.LParen)
	e := p.parseExpr()
	p.expectReserved(sql.AS)

	t := p.scan()
	if t != token.Identifier && t != token.Reserved {
		p.error(fmt.Sprintf("expected a type got %s", p.got()))
	}
	to := p.sctx.Identifier

	p.expectTokens(token.RParen)
	return &expr.Cast{Expr: e, To: to}
}

func (p *parser) parseCreateTable() stmt.Stmt {
	var s stmt.CreateTable
	s.Table = p.expectIdentifier("expected a table")
	p.expectTokens(token.LParen)
	for {
		var col stmt.ColumnDef
		col.Name = p.expectIdentifier("expected a column name")
		col.Type = p.expectIdentifier("expected a column type")
		s.Columns = append(s.Columns, col)
		if p.expectTokens(token.Comma, token.RParen) == token.RParen {
			break
		}
	}
	return &s
}

func (p *parser) parseDropTable() stmt.Stmt {
	var s stmt.DropTable
	if p.maybeIdentifier(sql.ID("if")) {
		if !p.maybeIdentifier(sql.ID("exists")) {
			p.error(fmt.Sprintf("expected EXISTS got %s", p.got()))
		}
		s.IfExists = true
	}
	for {
		s.Tables = append(s.Tables, p.expectIdentifier("expected a table"))
		if !p.maybeToken(token.Comma) {
			break
		}
	}
	return &s
}

func (p *parser) parseDelete() stmt.Stmt {
	var s stmt.Delete
	s.Table = p.expectIdentifier("expected a table")
	if p.optionalReserved(sql.WHERE) {
		s.Where = p.parseExpr()
	}
	return &s
}

func (p *parser) parseInsert() stmt.Stmt {
	var s stmt.InsertValues
	s.Table = p.expectIdentifier("expected a table")

	if p.maybeToken(token.LParen) {
		for {
			nam := p.expectIdentifier("expected a column name")
			for _, c := range s.Columns {
				if c == nam {
					p.error(fmt.Sprintf("duplicate column name %s", nam))
				}
			}
			s.Columns = append(s.Columns, nam)
			if p.expectTokens(token.Comma, token.RParen) == token.RParen {
				break
			}
		}
	}

	p.expectReserved(sql.VALUES)

	for {
		var row []expr.Expr

		p.expectTokens(token.LParen)
		for {
			row = append(row, p.parseExpr())
			if p.expectTokens(token.Comma, token.RParen) == token.RParen {
				break
			}
		}

		s.Rows = append(s.Rows, row)

		if !p.maybeToken(token.Comma) {
			break
		}
	}

	return &s
}

func (p *parser) parseUpdate() stmt.Stmt {
	var s stmt.Update
	s.Table = p.expectIdentifier("expected a table")
	p.expectReserved(sql.SET)

	for {
		var cu stmt.ColumnUpdate
		cu.Column = p.expectIdentifier("expected a column")
		p.expectTokens(token.Equal)
		cu.Expr = p.parseExpr()
		s.Updates = append(s.Updates, cu)
		if !p.maybeToken(token.Comma) {
			break
		}
	}

	if p.optionalReserved(sql.WHERE) {
		s.Where = p.parseExpr()
	}

	return &s
}
