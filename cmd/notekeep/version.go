package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of notekeep",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "notekeep version %s\n", notekeep.Version)
		},
	}
}
