package cmd

import (
	"os"

	"github.com/sarchlab/meshgen/pipeline"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the stimulus, weight and platform files.",
	Long: "`generate` writes one stimulus file and one weight file per node " +
		"plus the platform manifest into the output directory.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if path, _ := cmd.Flags().GetString("record"); path != "" {
			cfg.Output.RecordPath = path
		}

		if cmd.Flags().Changed("workers") {
			cfg.Output.Workers, _ = cmd.Flags().GetInt("workers")
		}

		report, err := pipeline.Run(cmd.Context(), cfg,
			pipeline.WithLogger(logger))
		if err != nil {
			logger.Error("generation failed", "error", err)
			return err
		}

		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			report.WriteReport(os.Stdout)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String("record", "", "Record the run in a new SQLite database")
	generateCmd.Flags().Int("workers", 1, "Number of nodes generated concurrently")
	generateCmd.Flags().Bool("quiet", false, "Do not print the run report")
}
