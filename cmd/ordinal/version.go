package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/ordinal"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ordinal",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ordinal version %s\n", strings.TrimSpace(ordinal.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
