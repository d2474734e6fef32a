// Package cmd provides the command-line interface of meshgen.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sarchlab/meshgen/config"
	"github.com/sarchlab/meshgen/logging"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "meshgen",
	Short: "meshgen generates the inputs of a mesh-connected SNN simulation.",
	Long: `meshgen lays out the weight address space and the router mesh, ` +
		`synthesizes per-node spike stimulus and weight matrices, and ` +
		`describes the simulated platform for the simulator.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfg    *config.Config
	logger *slog.Logger
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "YAML configuration file")
	flags.String("out", "", "Output directory (overrides the configuration)")
	flags.String("log-level", "", "Log level: info, debug or trace")
	flags.String("log-file", "", "Write logs to this file instead of stderr")
}

// setup loads the configuration, applies the flags and installs the logger.
func setup(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")

	var err error

	cfg, err = config.Load(path)
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		cfg.Output.Dir = out
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	var w io.Writer = os.Stderr

	if file, _ := cmd.Flags().GetString("log-file"); file != "" {
		f, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("creating log file: %w", err)
		}

		atexit.Register(func() { f.Close() })

		w = f
	}

	logger = logging.NewLogger(cfg.Logging.Level, w)
	slog.SetDefault(logger)

	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It does not return.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
