package main

import (
	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:   "next EXPR FILE",
	Short: "Print the filename that follows FILE in the sequence",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, _ := cmd.Flags().GetInt("offset")
		name, err := cli.engine.Expected(args[0], args[1], offset)
		if err != nil {
			return err
		}
		return cli.printer.Name(args[1], offset, name)
	},
}

func init() {
	rootCmd.AddCommand(nextCmd)
	nextCmd.Flags().IntP("offset", "n", 1, "Positions to move; negative moves back")
}
