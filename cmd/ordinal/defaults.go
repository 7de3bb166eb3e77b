package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/ordinal/internal/presentation/tui"
	"github.com/aretw0/ordinal/pkg/domain"
	"github.com/spf13/cobra"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Inspect or forget the expression remembered for a directory",
}

var defaultsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the remembered expression of --dir",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := cli.store.Load(cmd.Context(), cli.key())
		if errors.Is(err, domain.ErrDefaultsNotFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "No expression remembered for %s\n", cli.key())
			return nil
		}
		if err != nil {
			return err
		}

		if cli.printer.Mode() == tui.ModeJSON {
			return cli.printer.JSON(struct {
				Dir string `json:"dir"`
				*domain.Defaults
			}{cli.key(), d})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", cli.key(), d.Expression, d.UpdatedAt.Format(time.RFC3339))
		return nil
	},
}

var defaultsForgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Remove the remembered expression of --dir",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := cli.sessions.Forget(cmd.Context(), cli.key())
		if err != nil && !errors.Is(err, domain.ErrDefaultsNotFound) {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Forgot expression for %s\n", cli.key())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
	defaultsCmd.AddCommand(defaultsShowCmd, defaultsForgetCmd)
}
