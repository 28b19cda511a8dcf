// Package cost tracks token consumption and dollar cost of the LLM calls an
// analysis makes. The orchestrator charges every evaluation and discovery
// call to a Tracker; the summary metrics and the stats endpoint read it back.
package cost

import "sync"

// ModelRate holds per-model token pricing in USD per million tokens.
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Rates maps Anthropic model names to their pricing.
type Rates struct {
	Anthropic map[string]ModelRate `yaml:"anthropic" mapstructure:"anthropic"`
}

// DefaultRates returns the default pricing table.
func DefaultRates() Rates {
	return Rates{
		Anthropic: map[string]ModelRate{
			"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00},
			"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
		},
	}
}

// Calculator computes USD cost for token usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Claude computes the cost of a single Claude call. Unknown models cost 0.
func (c *Calculator) Claude(model string, inputTokens, outputTokens int) float64 {
	rate, ok := c.rates.Anthropic[model]
	if !ok {
		return 0
	}
	return (float64(inputTokens)/1e6)*rate.Input + (float64(outputTokens)/1e6)*rate.Output
}

// Operation labels what a tracked call was spent on.
type Operation string

const (
	OpEvaluation Operation = "evaluation"
	OpDiscovery  Operation = "discovery"
)

// Usage is a point-in-time snapshot of a Tracker.
type Usage struct {
	Evaluations      int     `json:"evaluations"`
	Discoveries      int     `json:"discoveries"`
	InputTokens      int     `json:"input_tokens"`
	OutputTokens     int     `json:"output_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
}

// Tracker accumulates token usage and cost across an analysis run. Safe for
// concurrent use.
type Tracker struct {
	calc  *Calculator
	model string

	mu           sync.Mutex
	evaluations  int
	discoveries  int
	inputTokens  int
	outputTokens int
	costUSD      float64
}

// NewTracker creates a Tracker that prices calls against the given model.
func NewTracker(calc *Calculator, model string) *Tracker {
	return &Tracker{calc: calc, model: model}
}

// Record charges one call's token usage to the tracker.
func (t *Tracker) Record(op Operation, inputTokens, outputTokens int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch op {
	case OpEvaluation:
		t.evaluations++
	case OpDiscovery:
		t.discoveries++
	}
	t.inputTokens += inputTokens
	t.outputTokens += outputTokens
	t.costUSD += t.calc.Claude(t.model, inputTokens, outputTokens)
}

// Snapshot returns the accumulated usage so far.
func (t *Tracker) Snapshot() Usage {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Usage{
		Evaluations:      t.evaluations,
		Discoveries:      t.discoveries,
		InputTokens:      t.inputTokens,
		OutputTokens:     t.outputTokens,
		TotalTokens:      t.inputTokens + t.outputTokens,
		EstimatedCostUSD: t.costUSD,
	}
}
