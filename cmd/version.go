package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/selenedb/selene/sql"
)

func init() {
	seleneCmd.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "print the version of Selene",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(sql.Version())
			},
		})
}
