package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medtwin/medtwin/internal/api"
	"github.com/medtwin/medtwin/internal/regions"
	"github.com/medtwin/medtwin/internal/report"
	"github.com/medtwin/medtwin/internal/server/endpoints"
	"github.com/medtwin/medtwin/internal/summary"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <report.json>",
	Short: "Summarize an extracted report without a server",
	Long: `Group an extracted report by body region and compose its summary locally.

The file may hold the report itself or a saved "api analyze" response.
No upstream model is called.

Examples:
  medtwin summarize report.json
  medtwin api analyze scan.pdf -o json > analysis.json && medtwin summarize analysis.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := endpoints.ReadReportFile(args[0])
		if err != nil {
			return err
		}

		var r report.ExtractedReport
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("invalid report in %s: %w", args[0], err)
		}
		return api.Output(summary.Summarize(regions.Default(), r))
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}
