package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/selenedb/selene/engine"
	"github.com/selenedb/selene/parser"
)

const (
	seleneHistory = ".selene_history"
)

type lineReader struct {
	line *liner.State
	r    *strings.Reader
}

func (lr *lineReader) ReadRune() (r rune, size int, err error) {
	for {
		if lr.r == nil {
			s, err := lr.line.Prompt("selene: ")
			if err != nil {
				return 0, 0, err
			}
			lr.line.AppendHistory(s)
			lr.r = strings.NewReader(s + "\n")
		}

		r, sz, err := lr.r.ReadRune()
		if err == io.EOF {
			lr.r = nil
		} else if err != nil {
			return 0, 0, err
		} else {
			return r, sz, nil
		}
	}
}

// Interact runs the console REPL until end of input.
func Interact(e *engine.Engine) {
	line := liner.NewLiner()
	defer line.Close()

	if f, err := os.Open(seleneHistory); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	ReplSQL(e, parser.NewParser(&lineReader{line: line}, "console"), os.Stdout)

	if f, err := os.Create(seleneHistory); err != nil {
		fmt.Fprintf(os.Stderr, "selene: error writing history file, %s: %s", seleneHistory,
			err)
	} else {
		line.WriteHistory(f)
		f.Close()
	}
}
