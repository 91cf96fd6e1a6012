package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vsinha/bomalloc/pkg/interfaces/cli/commands"
	"github.com/vsinha/bomalloc/pkg/interfaces/cli/output"
)

var opts commands.Options

var rootCmd = &cobra.Command{
	Use:   "bomalloc",
	Short: "Stock allocation for sales orders and their BOM components",
	Long: `bomalloc allocates on-hand, quality-control and in-transit stock to sales orders.

The order phase allocates finished goods directly. The component phase explodes
each order's BOM breadth-first and allocates stock level by level. When both
phases are enabled the component phase works on the quantity the order phase
left open.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the configured allocation phases and write the result tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts.Out = cmd.OutOrStdout()
		return commands.NewAllocateCommand(opts).Execute(cmd.Context())
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration, input schemas and BOM without allocating",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts.Out = cmd.OutOrStdout()
		return commands.NewValidateCommand(opts).Execute(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "config.yaml", "Path to the YAML pipeline configuration")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging and detailed reports")

	runCmd.Flags().StringVarP(&opts.Format, "format", "f", output.FormatText, "Report format: text, json, csv")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
