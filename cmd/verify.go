package cmd

import (
	"fmt"
	"os"

	"github.com/sarchlab/meshgen/verify"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a generated dataset.",
	Long: "`verify` re-reads the output directory the way the simulator does " +
		"and reports every layout, stimulus and weight problem.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		report := verify.GenerateReport(cfg, cfg.Output.Dir)
		report.WriteReport(os.Stdout)

		if path, _ := cmd.Flags().GetString("report"); path != "" {
			if err := report.SaveReportToFile(path); err != nil {
				return err
			}
		}

		for _, issue := range report.Issues {
			logger.Warn("verification issue",
				"type", string(issue.Type),
				"node", issue.Node,
				"message", issue.Message)
		}

		if !report.OK() {
			return fmt.Errorf("%d issues found in %s",
				len(report.Issues), cfg.Output.Dir)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().String("report", "", "Also save the report to this file")
}
