package main

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [EXPR]",
	Short: "List the contiguous run of files starting at --from",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		explicit := argOr(args, 0)
		expr, d, err := walkDir(ctx, cmd, explicit)
		if err != nil {
			return err
		}
		run, err := cli.engine.MarkRun(ctx, expr, d)
		if err != nil {
			return err
		}
		cli.remember(ctx, explicit)
		return cli.printer.Run(expr, run)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("from", "", "Filename to start from")
}
