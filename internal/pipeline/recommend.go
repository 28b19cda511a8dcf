package pipeline

import (
	"fmt"

	"github.com/sells-group/florent/internal/chains"
	"github.com/sells-group/florent/internal/config"
	"github.com/sells-group/florent/internal/graph"
	"github.com/sells-group/florent/internal/matrix"
	"github.com/sells-group/florent/internal/model"
)

// recommend derives the go/no-go verdict. Two signals must both pass: the
// primary chain's share of uncontrollable critical dependencies stays under
// the configured ratio, and bankability clears the floor. Confidence tracks
// bankability but drops to the low band when the two signals disagree.
func recommend(out *model.AnalysisOutput, g *graph.Graph, cfg config.BiddingConfig, chainRiskThreshold float64) model.BidRecommendation {
	var primaryChain []string
	if len(out.CriticalChains) > 0 {
		primaryChain = out.CriticalChains[0].NodeIDs
	}

	chainOK := matrix.ShouldBid(out.Matrix, primaryChain, cfg.CriticalDepMaxRatio)
	bankability := out.Summary.AggregateProjectScore
	bankOK := bankability >= cfg.MinBankability
	shouldBid := chainOK && bankOK

	confidence := bankability
	if chainOK != bankOK {
		confidence = cfg.LowConfidence
	} else if shouldBid && confidence > cfg.HighConfidence {
		confidence = cfg.HighConfidence
	}

	rec := model.BidRecommendation{
		ShouldBid:        shouldBid,
		Confidence:       confidence,
		Bankability:      bankability,
		Reasoning:        reasoning(chainOK, bankOK, bankability, cfg),
		KeyRisks:         keyRisks(out, g, chainRiskThreshold),
		KeyOpportunities: keyOpportunities(out),
		Recommendations:  recommendations(out, bankability, cfg),
	}
	return rec
}

func reasoning(chainOK, bankOK bool, bankability float64, cfg config.BiddingConfig) string {
	switch {
	case chainOK && bankOK:
		return fmt.Sprintf("Bankability %.2f clears the %.2f floor and the primary dependency chain stays within the firm's control.", bankability, cfg.MinBankability)
	case !chainOK && !bankOK:
		return fmt.Sprintf("Bankability %.2f falls below the %.2f floor and the primary dependency chain is dominated by tasks the firm cannot control.", bankability, cfg.MinBankability)
	case !chainOK:
		return "Bankability is acceptable but too much of the primary dependency chain sits outside the firm's control."
	default:
		return fmt.Sprintf("The dependency chain is manageable but bankability %.2f falls below the %.2f floor.", bankability, cfg.MinBankability)
	}
}

// keyRisks names the uncontrollable critical dependencies with the number of
// upstream tasks each one drags down, then flags the primary chain when its
// cumulative risk crosses the threshold.
func keyRisks(out *model.AnalysisOutput, g *graph.Graph, chainRiskThreshold float64) []string {
	var risks []string
	for _, nc := range out.Matrix[model.QuadrantTypeC] {
		line := fmt.Sprintf("%s: critical dependency outside the firm's control (importance %.2f, influence %.2f)",
			nc.NodeName, nc.ImportanceScore, nc.InfluenceScore)
		if upstream := chains.BlastRadius(g, nc.NodeID); len(upstream) > 0 {
			line += fmt.Sprintf(", a slip here strands %d upstream task(s)", len(upstream))
		}
		risks = append(risks, line)
	}
	if len(out.CriticalChains) > 0 && out.CriticalChains[0].CumulativeRisk >= chainRiskThreshold {
		risks = append(risks, fmt.Sprintf("Primary dependency chain carries %.2f cumulative failure risk",
			out.CriticalChains[0].CumulativeRisk))
	}
	return risks
}

// keyOpportunities names the high-influence tasks the firm can lean on.
func keyOpportunities(out *model.AnalysisOutput) []string {
	var opps []string
	for _, nc := range out.Matrix[model.QuadrantTypeB] {
		opps = append(opps, fmt.Sprintf("%s: firm holds strong influence (%.2f) at low stakes, a candidate for efficiency gains",
			nc.NodeName, nc.InfluenceScore))
	}
	return opps
}

// recommendations produces the strategic action list.
func recommendations(out *model.AnalysisOutput, bankability float64, cfg config.BiddingConfig) []string {
	var recs []string

	switch {
	case bankability >= cfg.BankabilityHigh:
		recs = append(recs, "Project shows strong bankability, proceed with confidence")
	case bankability >= cfg.BankabilityMedium:
		recs = append(recs, "Project is moderately bankable, implement risk controls")
	default:
		recs = append(recs, "Project carries significant risk, consider restructuring or declining")
	}

	if n := len(out.Matrix[model.QuadrantTypeA]); n > 0 {
		recs = append(recs, fmt.Sprintf("Prioritize mitigation for %d high-importance, high-influence tasks", n))
	}
	if n := len(out.Matrix[model.QuadrantTypeC]); n > 0 {
		recs = append(recs, fmt.Sprintf("Develop contingency plans for %d critical dependencies outside the firm's control", n))
	}
	if n := len(out.Matrix[model.QuadrantTypeB]); n > 0 {
		recs = append(recs, fmt.Sprintf("Optimize and automate %d low-stakes, high-influence operations", n))
	}

	if n := len(out.CriticalChains); n > 0 {
		recs = append(recs, fmt.Sprintf("Monitor %d critical dependency chain(s) closely, these are single points of failure", n))
	} else {
		recs = append(recs, "No critical chains detected, the project has good risk distribution")
	}
	return recs
}
