package repl

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/selenedb/selene/engine"
	"github.com/selenedb/selene/parser"
	"github.com/selenedb/selene/server"
)

// ReplSQL reads statements from p and evaluates them with e, writing each
// result as a one row table and each failure as an error line.
func ReplSQL(e *engine.Engine, p parser.Parser, w io.Writer) {
	for {
		s, err := p.Parse()
		if err == io.EOF {
			return
		}
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}

		v, err := e.EvaluateStmt(s)
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}

		tw := tablewriter.NewWriter(w)
		tw.SetAutoFormatHeaders(false)
		tw.SetHeader([]string{"result"})
		tw.Append([]string{engine.Format(v)})
		tw.Render()
		fmt.Fprintf(w, "(%d rows)\n", tw.NumLines())
	}
}

// Handler makes a session handler that runs the REPL over the session's
// reader and writer.
func Handler() server.SessionHandler {
	return func(ses *server.Session) {
		src := fmt.Sprintf("%s@%s", ses.User, ses.Type)
		if ses.Addr != "" {
			src = fmt.Sprintf("%s:%s", src, ses.Addr)
		}
		ReplSQL(ses.Engine, parser.NewParser(ses.RuneReader, src), ses.Writer)
	}
}
