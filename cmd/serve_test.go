package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/florent/internal/config"
	"github.com/sells-group/florent/internal/evaluator"
	"github.com/sells-group/florent/internal/model"
	"github.com/sells-group/florent/internal/monitoring"
	"github.com/sells-group/florent/internal/pipeline"
)

func offlinePipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	c, err := config.Load()
	require.NoError(t, err)
	return pipeline.New(c, evaluator.NewStatic(), nil, nil)
}

const validAnalysisBody = `{
	"firm": {
		"id": "acme",
		"name": "Acme Infrastructure",
		"description": "Mid-size EPC contractor."
	},
	"project": {
		"id": "rail-ext",
		"name": "Rail extension",
		"description": "Extend the line.",
		"ops_requirements": [
			{"name": "Track laying", "category": "materials", "description": "Lay track."}
		],
		"entry_criteria": {"entry_node_id": "entry"},
		"success_criteria": {"exit_node_id": "exit"}
	},
	"budget": 10
}`

func TestAnalysisHandler_OK(t *testing.T) {
	collector := monitoring.NewCollector()
	handler := analysisHandler(offlinePipeline(t), collector)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", strings.NewReader(validAnalysisBody))
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out model.AnalysisOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, model.TraversalComplete, out.TraversalStatus)
	assert.Len(t, out.NodeAssessments, 3)

	snap := collector.Collect()
	assert.Equal(t, 1, snap.AnalysesStarted)
	assert.Equal(t, 1, snap.AnalysesComplete)
}

func TestAnalysisHandler_BadBody(t *testing.T) {
	handler := analysisHandler(offlinePipeline(t), monitoring.NewCollector())

	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalysisHandler_MissingProject(t *testing.T) {
	handler := analysisHandler(offlinePipeline(t), monitoring.NewCollector())

	req := httptest.NewRequest(http.MethodPost, "/v1/analyses",
		strings.NewReader(`{"firm": {"id": "acme", "name": "Acme", "description": "d"}}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalysisHandler_InvalidProject(t *testing.T) {
	handler := analysisHandler(offlinePipeline(t), monitoring.NewCollector())

	body := `{
		"firm": {"id": "acme", "name": "Acme", "description": "d"},
		"project": {"id": "p", "name": "P", "description": "d"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
