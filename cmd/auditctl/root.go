package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "auditctl",
		Short:         "Offline deal-audit tooling",
		Long:          "auditctl runs the session audit pipeline against local files, without the HTTP server or any backing services.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newPolicyCmd())

	return root
}
