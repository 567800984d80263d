package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"bottleneck-mcp/internal/analysis"
	"bottleneck-mcp/internal/simulation"
	"bottleneck-mcp/internal/tasklog"
)

var simulateScenario string

var simulateCmd = &cobra.Command{
	Use:   "simulate <file>",
	Short: "Run preset what-if scenarios against a task file, ranked by ROI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := tasklog.LoadFile(args[0])
		if err != nil {
			return err
		}

		pol := policyLoader.Current()
		res, err := analysis.Analyze(tasks, pol)
		if err != nil {
			return err
		}

		scenarios := simulation.Presets()
		if simulateScenario != "" {
			s, err := simulation.FindPreset(simulateScenario)
			if err != nil {
				return err
			}
			scenarios = []simulation.Scenario{s}
		}

		results, err := simulation.Compare(cmd.Context(), res.Metrics, scenarios, pol.Simulation)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	simulateCmd.Flags().StringVarP(&simulateScenario, "scenario", "s", "", "preset scenario ID (default: compare all presets)")
	rootCmd.AddCommand(simulateCmd)
}
