package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/florent/internal/estimate"
	"github.com/sells-group/florent/internal/model"
)

var (
	analyzeFirmPath    string
	analyzeProjectPath string
	analyzeBudget      int
	analyzeOffline     bool
	analyzeOutput      string
	analyzeEstimate    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a full bid/no-bid analysis for one firm and project",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		firm, err := model.LoadFirm(analyzeFirmPath)
		if err != nil {
			return err
		}
		project, err := model.LoadProject(analyzeProjectPath)
		if err != nil {
			return err
		}

		if analyzeEstimate {
			// +2 for the entry and exit nodes framing the ops pipeline.
			est := estimate.AnalysisCost(cfg, len(project.OpsRequirements)+2, analyzeBudget)
			return writeJSON(analyzeOutput, est)
		}

		p, err := initAnalysis(ctx, analyzeOffline)
		if err != nil {
			return err
		}

		res, err := p.Run(ctx, firm, project, analyzeBudget)
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		zap.L().Info("analysis done",
			zap.String("run_id", res.Output.RunID),
			zap.Bool("should_bid", res.Output.Recommendation.ShouldBid),
			zap.Float64("cost_usd", res.Usage.EstimatedCostUSD),
		)
		return writeJSON(analyzeOutput, res.Output)
	},
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal output")
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "write output")
	}
	return nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFirmPath, "firm", "", "firm profile file (yaml or json)")
	analyzeCmd.Flags().StringVar(&analyzeProjectPath, "project", "", "project definition file (yaml or json)")
	analyzeCmd.Flags().IntVar(&analyzeBudget, "budget", 0, "node evaluation budget (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeOffline, "offline", false, "use the deterministic evaluator, no API calls")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write JSON result to file (default stdout)")
	analyzeCmd.Flags().BoolVar(&analyzeEstimate, "estimate", false, "print a worst-case cost estimate instead of running")
	_ = analyzeCmd.MarkFlagRequired("firm")
	_ = analyzeCmd.MarkFlagRequired("project")
	rootCmd.AddCommand(analyzeCmd)
}
