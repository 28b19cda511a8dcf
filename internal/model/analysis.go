package model

// TraversalStatus describes how the budgeted exploration ended.
type TraversalStatus string

const (
	TraversalNotStarted      TraversalStatus = "NOT_STARTED"
	TraversalExploring       TraversalStatus = "EXPLORING"
	TraversalComplete        TraversalStatus = "COMPLETE"
	TraversalBudgetExhausted TraversalStatus = "BUDGET_EXHAUSTED"
)

// Quadrant places a node in the 2x2 importance/influence matrix.
type Quadrant string

const (
	// QuadrantTypeA: high importance, high influence. Core strengths.
	QuadrantTypeA Quadrant = "TYPE_A"
	// QuadrantTypeB: low importance, high influence. Easy wins.
	QuadrantTypeB Quadrant = "TYPE_B"
	// QuadrantTypeC: high importance, low influence. Critical dependencies
	// the firm cannot control. This is the danger quadrant.
	QuadrantTypeC Quadrant = "TYPE_C"
	// QuadrantTypeD: low importance, low influence. Background noise.
	QuadrantTypeD Quadrant = "TYPE_D"
)

// NodeAssessment is the evaluator's verdict on a single node, plus the
// derived risk level.
type NodeAssessment struct {
	NodeID          string  `json:"node_id"`
	NodeName        string  `json:"node_name"`
	ImportanceScore float64 `json:"importance_score"`
	InfluenceScore  float64 `json:"influence_score"`
	// RiskLevel is importance × (1 − influence): tasks that matter a lot and
	// that the firm cannot steer are the risky ones.
	RiskLevel        float64 `json:"risk_level"`
	Reasoning        string  `json:"reasoning"`
	IsOnCriticalPath bool    `json:"is_on_critical_path"`
}

// PropagatedRisk pairs a node's locally assessed risk with the value after
// upstream risk has cascaded into it.
type PropagatedRisk struct {
	NodeID         string  `json:"node_id"`
	LocalRisk      float64 `json:"local_risk"`
	PropagatedRisk float64 `json:"propagated_risk"`
}

// NodeClassification is a node's placement in the strategic matrix.
type NodeClassification struct {
	NodeID          string   `json:"node_id"`
	NodeName        string   `json:"node_name"`
	Quadrant        Quadrant `json:"quadrant"`
	ImportanceScore float64  `json:"importance_score"`
	InfluenceScore  float64  `json:"influence_score"`
}

// CriticalChain is one high-risk entry-to-exit path through the graph.
type CriticalChain struct {
	NodeIDs        []string `json:"node_ids"`
	NodeNames      []string `json:"node_names"`
	CumulativeRisk float64  `json:"cumulative_risk"`
	Length         int      `json:"length"`
}

// SummaryMetrics aggregates the analysis into project-level numbers.
type SummaryMetrics struct {
	// AggregateProjectScore is overall viability, 0-1, higher is better.
	AggregateProjectScore float64 `json:"aggregate_project_score"`
	// CriticalFailureLikelihood is the cumulative risk of the worst chain.
	CriticalFailureLikelihood float64 `json:"critical_failure_likelihood"`
	NodesEvaluated            int     `json:"nodes_evaluated"`
	TotalNodes                int     `json:"total_nodes"`
	// DangerZoneFraction is the share of classified nodes in TYPE_C.
	DangerZoneFraction float64 `json:"danger_zone_fraction"`
	TotalTokens        int     `json:"total_tokens"`
	EstimatedCostUSD   float64 `json:"estimated_cost_usd"`
}

// BidRecommendation is the go/no-go verdict derived from the analysis.
type BidRecommendation struct {
	ShouldBid        bool     `json:"should_bid"`
	Confidence       float64  `json:"confidence"`
	Bankability      float64  `json:"bankability"`
	Reasoning        string   `json:"reasoning"`
	KeyRisks         []string `json:"key_risks"`
	KeyOpportunities []string `json:"key_opportunities"`
	Recommendations  []string `json:"recommendations"`
}

// AnalysisOutput bundles everything a single run produces.
type AnalysisOutput struct {
	RunID   string   `json:"run_id"`
	Firm    *Firm    `json:"firm"`
	Project *Project `json:"project"`

	TraversalStatus  TraversalStatus `json:"traversal_status"`
	TraversalMessage string          `json:"traversal_message,omitempty"`

	NodeAssessments map[string]*NodeAssessment        `json:"node_assessments"`
	PropagatedRisks map[string]*PropagatedRisk        `json:"propagated_risks"`
	Matrix          map[Quadrant][]NodeClassification `json:"matrix_classifications"`
	CriticalChains  []CriticalChain                   `json:"critical_chains"`

	Summary        SummaryMetrics    `json:"summary"`
	Recommendation BidRecommendation `json:"recommendation"`
}
