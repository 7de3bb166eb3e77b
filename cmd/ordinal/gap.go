package main

import (
	"context"

	"github.com/aretw0/ordinal/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var gapCmd = &cobra.Command{
	Use:   "gap [EXPR]",
	Short: "Find where the contiguous run of files breaks",
	Long: `Walks the directory in natural order from --from (default: the first file
of the sequence) and reports the first expected filename that is missing.
EXPR defaults to the expression last used in this directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		explicit := argOr(args, 0)
		expr, d, err := walkDir(ctx, cmd, explicit)
		if err != nil {
			return err
		}
		gap, err := cli.engine.FindGap(ctx, expr, d)
		if err != nil {
			return err
		}
		cli.remember(ctx, explicit)
		return cli.printer.Gap(expr, gap)
	},
}

// walkDir resolves the expression and positions a directory cursor for the
// gap and run commands.
func walkDir(ctx context.Context, cmd *cobra.Command, explicit string) (string, *file.Dir, error) {
	expr, err := cli.expression(ctx, explicit)
	if err != nil {
		return "", nil, err
	}
	d, err := cli.openDir()
	if err != nil {
		return "", nil, err
	}
	from, _ := cmd.Flags().GetString("from")
	if err := cli.engine.Position(ctx, expr, d, from); err != nil {
		return "", nil, err
	}
	return expr, d, nil
}

func argOr(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func init() {
	rootCmd.AddCommand(gapCmd)
	gapCmd.Flags().String("from", "", "Filename to start from")
}
