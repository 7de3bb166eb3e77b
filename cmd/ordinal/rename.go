package main

import (
	"context"
	"errors"

	"github.com/aretw0/ordinal"
	"github.com/aretw0/ordinal/pkg/adapters/file"
	"github.com/aretw0/ordinal/pkg/domain"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Renumber, shift or re-pad a sequence of files",
	Long: `Computes every rename first, prints the plan and applies it unless --dry-run
is set. Without FILE arguments all files of the directory that belong to the
(source) sequence are renamed, in natural order. Existing files are never
overwritten.`,
}

var renameSeqCmd = &cobra.Command{
	Use:     "seq EXPR [FILE...]",
	Aliases: []string{"sequential"},
	Short:   "Number files start, start+step, ... in order",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, _ := cmd.Flags().GetInt("start")
		step, _ := cmd.Flags().GetInt("step")
		return rename(cmd, ordinal.RenameRequest{
			Kind:       domain.RenameSequential,
			Expression: args[0],
			Names:      args[1:],
			Start:      start,
			Step:       step,
		})
	},
}

var renameOffsetCmd = &cobra.Command{
	Use:   "offset EXPR [FILE...]",
	Short: "Shift the ordinal of every file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		by, _ := cmd.Flags().GetInt("by")
		return rename(cmd, ordinal.RenameRequest{
			Kind:       domain.RenameOffset,
			Expression: args[0],
			Names:      args[1:],
			Offset:     by,
		})
	},
}

var renameCrossCmd = &cobra.Command{
	Use:   "cross FROM TO [FILE...]",
	Short: "Move files from one expression to another, keeping ordinals",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return rename(cmd, ordinal.RenameRequest{
			Kind:       domain.RenameCross,
			Expression: args[0],
			To:         args[1],
			Names:      args[2:],
		})
	},
}

// rename plans and applies req inside the directory while holding its lock.
func rename(cmd *cobra.Command, req ordinal.RenameRequest) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if _, err := ordinal.Compile(req.Expression); err != nil {
		return err
	}

	var (
		plan    domain.Plan
		applied int
	)
	err := cli.sessions.WithLock(ctx, cli.key(), func(ctx context.Context) error {
		d, err := cli.openDir(file.WithDryRun(dryRun))
		if err != nil {
			return err
		}
		if len(req.Names) == 0 {
			listed, err := d.List(ctx)
			if err != nil {
				return err
			}
			if req.Names, err = cli.engine.Filter(req.Expression, listed); err != nil {
				return err
			}
		}

		if plan, err = cli.engine.Plan(req); err != nil {
			return err
		}
		if plan, err = ordinal.Schedule(plan); err != nil {
			return err
		}
		applied, err = cli.engine.Apply(ctx, plan, d)
		return err
	})

	var ae *domain.ApplyError
	if err != nil && !errors.As(err, &ae) {
		return err
	}
	if perr := cli.printer.Plan(plan, applied, dryRun); perr != nil {
		return perr
	}
	if err != nil {
		return err
	}
	// After a cross rename the files follow the target expression.
	if req.Kind == domain.RenameCross {
		cli.remember(ctx, req.To)
	} else {
		cli.remember(ctx, req.Expression)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(renameCmd)
	renameCmd.AddCommand(renameSeqCmd, renameOffsetCmd, renameCrossCmd)

	renameCmd.PersistentFlags().Bool("dry-run", false, "Print the plan without renaming anything")
	renameSeqCmd.Flags().Int("start", 1, "First ordinal")
	renameSeqCmd.Flags().Int("step", 1, "Ordinal increment")
	renameOffsetCmd.Flags().Int("by", 1, "Ordinal shift; negative moves files down")
}
