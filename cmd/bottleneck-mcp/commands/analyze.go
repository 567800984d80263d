package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"bottleneck-mcp/internal/analysis"
	"bottleneck-mcp/internal/tasklog"
)

var (
	analyzeFormat string
	analyzeTop    int
)

type analyzeOutput struct {
	Metrics     analysis.AggregateMetrics     `json:"metrics"`
	Bottlenecks []analysis.BottleneckAnalysis `json:"bottlenecks"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Score a task file offline and print the ranked bottlenecks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := tasklog.LoadFile(args[0])
		if err != nil {
			return err
		}

		res, err := analysis.Analyze(tasks, policyLoader.Current())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch analyzeFormat {
		case "csv":
			return tasklog.WriteCSV(out, analysis.Rows(res.Top(analyzeTop)))
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(analyzeOutput{Metrics: res.Metrics, Bottlenecks: res.Top(analyzeTop)})
		default:
			return fmt.Errorf("unknown format %q (want json or csv)", analyzeFormat)
		}
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "json", "output format: json or csv")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 0, "only print the N highest scores (0 = all)")
	rootCmd.AddCommand(analyzeCmd)
}
