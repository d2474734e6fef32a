package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sarchlab/meshgen/config"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Dir            string
	Nodes          int
	Issues         []Issue
	LayoutIssues   []Issue
	StimulusIssues []Issue
	WeightIssues   []Issue
}

// GenerateReport checks dir and sorts the issues by type.
func GenerateReport(cfg *config.Config, dir string) *VerificationReport {
	report := &VerificationReport{
		Dir:    dir,
		Nodes:  cfg.NumNodes(),
		Issues: Check(cfg, dir),
	}

	for _, issue := range report.Issues {
		switch issue.Type {
		case IssueLayout:
			report.LayoutIssues = append(report.LayoutIssues, issue)
		case IssueStimulus:
			report.StimulusIssues = append(report.StimulusIssues, issue)
		case IssueWeights:
			report.WeightIssues = append(report.WeightIssues, issue)
		}
	}

	return report
}

// OK tells whether no issue was found.
func (r *VerificationReport) OK() bool {
	return len(r.Issues) == 0
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)
	dash := strings.Repeat("-", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "DATASET VERIFICATION REPORT")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Directory: %s\n", r.Dir)
	fmt.Fprintf(w, "Nodes:     %d\n", r.Nodes)

	sections := []struct {
		title  string
		issues []Issue
	}{
		{"LAYOUT", r.LayoutIssues},
		{"STIMULUS", r.StimulusIssues},
		{"WEIGHTS", r.WeightIssues},
	}

	for _, s := range sections {
		fmt.Fprintf(w, "\n%s ISSUES (%d):\n", s.title, len(s.issues))
		fmt.Fprintln(w, dash)

		for _, issue := range s.issues {
			fmt.Fprintf(w, "  %s\n", issue)
		}
	}

	fmt.Fprintln(w, "\n"+separator)

	if r.OK() {
		fmt.Fprintln(w, "DATASET PASSED ALL CHECKS")
	} else {
		fmt.Fprintf(w, "DATASET FAILED: %d issues\n", len(r.Issues))
	}

	fmt.Fprintln(w, separator)
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)

	return nil
}
