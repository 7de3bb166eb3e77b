package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ordinal",
	Short: "Ordinal finds and renames numbered filename sequences",
	Long: `Ordinal works with files named by a sequence expression such as "img_%04d.png".
It extracts ordinals, predicts neighbours, finds where a run of files breaks and
renumbers, shifts or re-pads whole sequences.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		cli = a
		return nil
	},
}

// cli holds the dependencies of the running command.
var cli *app

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if cli != nil {
		if cerr := cli.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", cerr)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("dir", ".", "Directory holding the sequence")
	flags.String("config", "", "Config file (default ./.ordinal.yaml)")
	flags.Bool("debug", false, "Enable debug logging")
	flags.StringP("output", "o", "", "Output format: auto, text, markdown or json")
	flags.String("color", "", "Color: auto, always or never")
	flags.String("store", "", "Where remembered expressions live: file, redis or memory")
}
