package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/florent/internal/model"
)

var (
	batchFirmPath    string
	batchBudget      int
	batchOffline     bool
	batchConcurrency int
	batchOutputDir   string
)

var batchCmd = &cobra.Command{
	Use:   "batch <project-file>...",
	Short: "Analyze one firm against many projects concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		firm, err := model.LoadFirm(batchFirmPath)
		if err != nil {
			return err
		}
		p, err := initAnalysis(ctx, batchOffline)
		if err != nil {
			return err
		}

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(batchConcurrency)

		for _, path := range args {
			g.Go(func() error {
				project, err := model.LoadProject(path)
				if err != nil {
					return eris.Wrapf(err, "batch: load %s", path)
				}

				res, err := p.Run(gCtx, firm, project, batchBudget)
				if err != nil {
					return eris.Wrapf(err, "batch: analyze %s", project.ID)
				}

				zap.L().Info("project analyzed",
					zap.String("project_id", project.ID),
					zap.Bool("should_bid", res.Output.Recommendation.ShouldBid),
					zap.Float64("bankability", res.Output.Recommendation.Bankability),
				)
				return writeJSON(batchOutputPath(path, project.ID), res.Output)
			})
		}

		return g.Wait()
	},
}

// batchOutputPath places each result next to its input unless an output
// directory was given.
func batchOutputPath(inputPath, projectID string) string {
	name := fmt.Sprintf("%s_analysis.json", projectID)
	if batchOutputDir != "" {
		return filepath.Join(batchOutputDir, name)
	}
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + "_analysis.json"
}

func init() {
	batchCmd.Flags().StringVar(&batchFirmPath, "firm", "", "firm profile file (yaml or json)")
	batchCmd.Flags().IntVar(&batchBudget, "budget", 0, "node evaluation budget per project (default from config)")
	batchCmd.Flags().BoolVar(&batchOffline, "offline", false, "use the deterministic evaluator, no API calls")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 2, "projects analyzed in parallel")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "", "directory for result files (default alongside inputs)")
	_ = batchCmd.MarkFlagRequired("firm")
	rootCmd.AddCommand(batchCmd)
}
