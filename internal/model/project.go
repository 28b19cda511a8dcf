package model

import (
	"os"

	"github.com/rotisserie/eris"
)

// EntryCriteria pins the node where the firm would engage with the project.
type EntryCriteria struct {
	EntryNodeID string `json:"entry_node_id" yaml:"entry_node_id"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// SuccessCriteria pins the node whose completion means the project delivered.
type SuccessCriteria struct {
	ExitNodeID  string `json:"exit_node_id" yaml:"exit_node_id"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Project is the opportunity under evaluation. Its ops requirements become
// the initial dependency graph; entry and success criteria anchor the
// traversal endpoints.
type Project struct {
	ID                  string          `json:"id" yaml:"id"`
	Name                string          `json:"name" yaml:"name"`
	Description         string          `json:"description" yaml:"description"`
	Country             string          `json:"country" yaml:"country"`
	Sector              string          `json:"sector" yaml:"sector"`
	ServiceRequirements []string        `json:"service_requirements" yaml:"service_requirements"`
	// Timeline is the expected project duration in months.
	Timeline        int              `json:"timeline" yaml:"timeline"`
	OpsRequirements []OperationType  `json:"ops_requirements" yaml:"ops_requirements"`
	EntryCriteria   *EntryCriteria   `json:"entry_criteria,omitempty" yaml:"entry_criteria,omitempty"`
	SuccessCriteria *SuccessCriteria `json:"success_criteria,omitempty" yaml:"success_criteria,omitempty"`
	Embedding       []float64        `json:"embedding,omitempty" yaml:"embedding,omitempty"`
}

// Validate checks the structural fields graph construction depends on.
func (p *Project) Validate() error {
	if p.ID == "" {
		return eris.New("model: project id is required")
	}
	if p.Name == "" {
		return eris.New("model: project name is required")
	}
	if len(p.OpsRequirements) == 0 {
		return eris.New("model: project has no ops_requirements")
	}
	if p.EntryCriteria == nil || p.EntryCriteria.EntryNodeID == "" {
		return eris.New("model: project entry_criteria.entry_node_id is required")
	}
	if p.SuccessCriteria == nil || p.SuccessCriteria.ExitNodeID == "" {
		return eris.New("model: project success_criteria.exit_node_id is required")
	}
	return nil
}

// LoadProject reads a project definition from a JSON or YAML file, chosen by
// extension.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "model: read project file")
	}
	var project Project
	if err := unmarshalByExt(path, data, &project); err != nil {
		return nil, eris.Wrap(err, "model: parse project file")
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}
	return &project, nil
}
