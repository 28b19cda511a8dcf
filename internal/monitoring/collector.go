// Package monitoring keeps in-process counters about analysis runs for the
// stats endpoint. Each analysis reports its outcome once; the collector
// aggregates across the process lifetime.
package monitoring

import (
	"sync"
	"time"

	"github.com/sells-group/florent/internal/cost"
	"github.com/sells-group/florent/internal/model"
)

// MetricsSnapshot holds a point-in-time view of analysis activity.
type MetricsSnapshot struct {
	AnalysesStarted         int `json:"analyses_started"`
	AnalysesComplete        int `json:"analyses_complete"`
	AnalysesBudgetExhausted int `json:"analyses_budget_exhausted"`
	AnalysesFailed          int `json:"analyses_failed"`

	NodesEvaluated int `json:"nodes_evaluated"`
	NodesTotal     int `json:"nodes_total"`

	Evaluations      int     `json:"evaluations"`
	Discoveries      int     `json:"discoveries"`
	TotalTokens      int     `json:"total_tokens"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`

	BidRecommended int `json:"bid_recommended"`
	NoBid          int `json:"no_bid"`

	StartedAt   time.Time `json:"started_at"`
	CollectedAt time.Time `json:"collected_at"`
}

// Collector aggregates analysis outcomes. Safe for concurrent use.
type Collector struct {
	mu   sync.Mutex
	snap MetricsSnapshot
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{snap: MetricsSnapshot{StartedAt: time.Now().UTC()}}
}

// RecordStart notes that an analysis began.
func (c *Collector) RecordStart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.AnalysesStarted++
}

// RecordFailure notes an analysis that aborted with a structural error.
func (c *Collector) RecordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.AnalysesFailed++
}

// RecordResult folds a finished analysis into the counters.
func (c *Collector) RecordResult(out *model.AnalysisOutput, usage cost.Usage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch out.TraversalStatus {
	case model.TraversalBudgetExhausted:
		c.snap.AnalysesBudgetExhausted++
	default:
		c.snap.AnalysesComplete++
	}

	c.snap.NodesEvaluated += out.Summary.NodesEvaluated
	c.snap.NodesTotal += out.Summary.TotalNodes
	c.snap.Evaluations += usage.Evaluations
	c.snap.Discoveries += usage.Discoveries
	c.snap.TotalTokens += usage.TotalTokens
	c.snap.EstimatedCostUSD += usage.EstimatedCostUSD

	if out.Recommendation.ShouldBid {
		c.snap.BidRecommended++
	} else {
		c.snap.NoBid++
	}
}

// Collect returns the current counters.
func (c *Collector) Collect() MetricsSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.snap
	snap.CollectedAt = time.Now().UTC()
	return snap
}
