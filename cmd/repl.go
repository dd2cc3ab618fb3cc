package cmd

import (
	"github.com/spf13/cobra"

	"github.com/selenedb/selene/repl"
)

var (
	replCmd = &cobra.Command{
		Use:   "repl [sql-file...]",
		Short: "run with an interactive console session",
		RunE:  replRun,
	}
)

func init() {
	initServerFlags(replCmd.Flags())

	seleneCmd.AddCommand(replCmd)
}

func replRun(cmd *cobra.Command, args []string) error {
	svr, err := newServer(args)
	if err != nil {
		return err
	}

	if len(args) == 0 && len(sqlArgs) == 0 {
		repl.Interact(svr.Engine)
	}
	return nil
}
