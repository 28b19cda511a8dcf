package evaluator

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/florent/internal/orchestrator"
)

type evaluationPayload struct {
	Importance float64 `json:"importance"`
	Influence  float64 `json:"influence"`
	Reasoning  string  `json:"reasoning"`
}

type nodeSpecPayload struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

var validCategories = map[string]struct{}{
	"transportation": {}, "financing": {}, "insurance": {}, "guarantee": {},
	"recruitment": {}, "materials": {}, "equipment": {}, "other": {},
}

// parseEvaluation decodes the model's JSON verdict. Scores are clamped to
// [0,1] rather than rejected; a model drifting slightly out of range is not
// worth a retry.
func parseEvaluation(text string) (orchestrator.Evaluation, error) {
	var p evaluationPayload
	if err := json.Unmarshal([]byte(cleanJSON(text, "{", "}")), &p); err != nil {
		return orchestrator.Evaluation{}, eris.Wrap(err, "evaluator: parse evaluation response")
	}
	return orchestrator.Evaluation{
		Importance: clamp01(p.Importance),
		Influence:  clamp01(p.Influence),
		Reasoning:  strings.TrimSpace(p.Reasoning),
	}, nil
}

// parseDiscovery decodes the model's JSON node list. Entries with no name
// are dropped; unknown categories fall back to "other".
func parseDiscovery(text string) ([]orchestrator.NodeSpec, error) {
	var payload []nodeSpecPayload
	if err := json.Unmarshal([]byte(cleanJSON(text, "[", "]")), &payload); err != nil {
		return nil, eris.Wrap(err, "evaluator: parse discovery response")
	}

	var out []orchestrator.NodeSpec
	for _, p := range payload {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		category := strings.ToLower(strings.TrimSpace(p.Category))
		if _, ok := validCategories[category]; !ok {
			category = "other"
		}
		out = append(out, orchestrator.NodeSpec{
			Name:        name,
			Category:    category,
			Description: strings.TrimSpace(p.Description),
		})
	}
	return out, nil
}

// cleanJSON strips markdown fences and extracts the outermost JSON value
// delimited by open/close.
func cleanJSON(text, open, close string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, open)
	end := strings.LastIndex(text, close)
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
