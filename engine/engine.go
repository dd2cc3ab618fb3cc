package engine

import (
	"io"
	"strings"

	"github.com/selenedb/selene/flags"
	"github.com/selenedb/selene/parser"
	"github.com/selenedb/selene/stmt"
)

// Engine evaluates queries. It keeps no state beyond its behavior flags, so
// a single engine may be shared by concurrent sessions.
type Engine struct {
	flgs flags.Flags
}

func NewEngine(flgs flags.Flags) *Engine {
	return &Engine{flgs: flgs}
}

// Evaluate parses query and evaluates its first statement. The whole query
// must parse: a parse failure anywhere in it, or empty input, is an invalid
// request failure.
func (e *Engine) Evaluate(query string) (Value, error) {
	p := parser.NewParser(strings.NewReader(query), "query")
	s, err := p.Parse()
	if err == io.EOF {
		return nil, &Error{Kind: InvalidRequestFormat, Msg: "empty query"}
	} else if err != nil {
		return nil, &Error{Kind: InvalidRequestFormat, Msg: err.Error()}
	}

	for {
		_, err := p.Parse()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, &Error{Kind: InvalidRequestFormat, Msg: err.Error()}
		}
	}

	return e.EvaluateStmt(s)
}

// EvaluateStmt evaluates an already parsed statement.
func (e *Engine) EvaluateStmt(s stmt.Stmt) (Value, error) {
	switch s := s.(type) {
	case *stmt.Select:
		if len(s.Items) == 0 {
			return nil, &Error{Kind: InvalidRequestFormat,
				Msg: "expected an expression to evaluate"}
		}
		if len(s.Items) > 1 && e.flgs.GetFlag(flags.StrictProjections) {
			return nil, &Error{Kind: InvalidRequestFormat,
				Msg: "expected a single projection"}
		}
		ei, ok := s.Items[0].(stmt.ExprItem)
		if !ok {
			return nil, &Error{Kind: InvalidRequestFormat,
				Msg: "expected an expression to evaluate"}
		}
		if ei.Alias != 0 {
			return nil, &Error{Kind: InvalidRequestFormat,
				Msg: "aliased projections are not supported"}
		}
		return Eval(ei.Expr)
	case *stmt.SetOperation:
		return nil, &Error{Kind: InvalidRequestFormat, Msg: "only SELECT is supported"}
	}

	return nil, &Error{Kind: InvalidRequestFormat, Msg: "only queries are supported"}
}
