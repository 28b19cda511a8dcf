package evaluator

import (
	"fmt"
	"strings"

	"github.com/sells-group/florent/internal/graph"
	"github.com/sells-group/florent/internal/model"
	"github.com/sells-group/florent/internal/orchestrator"
)

const evaluationSystemPrompt = `You are an infrastructure risk analyst assessing whether a contracting firm should bid on a project. For each project task you receive, judge two things from the firm's perspective:

- importance: how critical the task is to overall project success (0.0 to 1.0)
- influence: how much control the firm has over the task's outcome (0.0 to 1.0)

Respond with a single JSON object:
{"importance": <float>, "influence": <float>, "reasoning": "<one or two sentences>"}

No prose outside the JSON.`

const discoverySystemPrompt = `You are an infrastructure risk analyst. Given a dependency gap in a project task graph, propose the hidden intermediate tasks or dependencies a bidding firm would actually face. Respond with a JSON array of at most five objects:

[{"name": "<short task name>", "category": "<transportation|financing|insurance|guarantee|recruitment|materials|equipment|other>", "description": "<one sentence>"}]

No prose outside the JSON.`

func evaluationPrompt(firm *model.Firm, node *graph.Node, distance int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Firm profile:\n%s\n\n", firm.ContextText())
	fmt.Fprintf(&b, "Task: %s\n", node.Name)
	if node.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", node.Category)
	}
	if node.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", node.Description)
	}
	fmt.Fprintf(&b, "Distance from the firm's point of engagement: %d steps.\n", distance)
	b.WriteString("\nAssess importance and influence for this task.")
	return b.String()
}

func discoveryPrompt(firm *model.Firm, gap orchestrator.GapContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Firm profile:\n%s\n\n", firm.ContextText())
	if gap.SourceNode != nil {
		fmt.Fprintf(&b, "Anchor task: %s (%s)\n", gap.SourceNode.Name, gap.SourceNode.Description)
	}
	if gap.TargetNode != nil {
		fmt.Fprintf(&b, "Downstream task: %s (%s)\n", gap.TargetNode.Name, gap.TargetNode.Description)
	}
	if gap.Reason != "" {
		fmt.Fprintf(&b, "Trigger: %s\n", gap.Reason)
	}
	b.WriteString("\nList the missing intermediate dependencies.")
	return b.String()
}
