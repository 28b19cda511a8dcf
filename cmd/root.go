package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/florent/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "florent",
	Short: "Bid/no-bid risk analysis for infrastructure projects",
	Long:  "Builds a firm-contextual dependency graph for a project, explores it under a node budget with Claude-scored risk assessments, propagates risk downstream, and produces a bid recommendation.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
