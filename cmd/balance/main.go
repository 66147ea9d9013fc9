package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"gobalance/internal"
	"gobalance/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional
	_ = godotenv.Load()
	internal.DefaultLogger = internal.NewDefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(errors.ExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "balance",
		Short: "Plot item and spell balance curves from game JSON data",
		Long: `balance loads item or spell definitions, fits a linear or quadratic
curve per group and draws the points with their fitted curves.

Environment:
- BALANCE_DATA_DIR (default: assets/json)
- BALANCE_OUTPUT_DIR (default: .)
- PLOT_WIDTH_CM, PLOT_HEIGHT_CM (default: 24x16)
- PLOT_SAMPLES (default: 100)
- PLOT_SHOW (default: false)
- LOG_LEVEL (default: INFO)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newPlotCmd(),
		newPresetCmd(),
		newPresetsCmd(),
	)
	return rootCmd
}

func newPlotCmd() *cobra.Command {
	var configPath string
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "plot --config file.yaml",
		Short: "Run a plot config file",
		Long: `Run the pipeline for a YAML plot config.

Example: balance plot --config plots/spells.yaml --out spells.svg --summary spells.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigFile(configPath)
			if err != nil {
				return err
			}
			return runPlot(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Plot config file (YAML)")
	_ = cmd.MarkFlagRequired("config")
	opts.bind(cmd)
	return cmd
}

func newPresetCmd() *cobra.Command {
	var opts runOptions
	var dump bool

	cmd := &cobra.Command{
		Use:   "preset [name]",
		Short: "Run a built-in plot config",
		Long: `Run one of the built-in plot configs. Use "balance presets" to list them.

Example: balance preset weapons-vs-wands --data-dir ./json --show`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dump {
				return printPreset(cmd.OutOrStdout(), args[0])
			}
			cfg, err := loadPreset(args[0])
			if err != nil {
				return err
			}
			return runPlot(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}

	cmd.Flags().BoolVar(&dump, "print", false, "Print the preset YAML instead of running it")
	opts.bind(cmd)
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in plot configs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listPresets(cmd.OutOrStdout())
		},
	}
}
