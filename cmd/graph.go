package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/florent/internal/graph"
	"github.com/sells-group/florent/internal/graphbuild"
	"github.com/sells-group/florent/internal/model"
)

var (
	graphFirmPath    string
	graphProjectPath string
	graphOutput      string
)

// graphView is the inspectable form of a constructed graph.
type graphView struct {
	EntryID string        `json:"entry_id"`
	ExitID  string        `json:"exit_id"`
	Nodes   []*graph.Node `json:"nodes"`
	Edges   []*graph.Edge `json:"edges"`
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build and print the dependency graph without evaluating it",
	Long:  "Constructs the firm-contextual graph from the ops requirements and prints it as JSON. No LLM calls are made; edges keep their default weights and no gaps are bridged.",
	RunE: func(cmd *cobra.Command, args []string) error {
		firm, err := model.LoadFirm(graphFirmPath)
		if err != nil {
			return err
		}
		project, err := model.LoadProject(graphProjectPath)
		if err != nil {
			return err
		}

		b := graphbuild.New(firm, project, nil, nil, graphbuild.DefaultConfig())
		g, err := b.Build(cmd.Context())
		if err != nil {
			return err
		}

		zap.L().Info("graph built",
			zap.Int("nodes", g.NodeCount()),
			zap.Int("edges", g.EdgeCount()),
		)
		return writeJSON(graphOutput, graphView{
			EntryID: g.EntryID(),
			ExitID:  g.ExitID(),
			Nodes:   g.Nodes(),
			Edges:   g.Edges(),
		})
	},
}

func init() {
	graphCmd.Flags().StringVar(&graphFirmPath, "firm", "", "firm profile file (yaml or json)")
	graphCmd.Flags().StringVar(&graphProjectPath, "project", "", "project definition file (yaml or json)")
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "write JSON graph to file (default stdout)")
	_ = graphCmd.MarkFlagRequired("firm")
	_ = graphCmd.MarkFlagRequired("project")
	rootCmd.AddCommand(graphCmd)
}
