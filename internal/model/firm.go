// Package model defines the domain types shared across the analysis engine:
// the firm and project inputs, and the assessment structures produced by the
// exploration, propagation, and classification stages.
package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// OperationType is a single business or operational requirement, such as
// "Cross-border logistics" in the "transportation" category.
type OperationType struct {
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
}

// Sector tags the industry a firm or project belongs to.
type Sector struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// StrategicFocus is one of the firm's stated strategic goals.
type StrategicFocus struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Firm is the bidding entity whose capabilities and strategic posture drive
// every importance/influence judgment in an analysis.
type Firm struct {
	ID              string           `json:"id" yaml:"id"`
	Name            string           `json:"name" yaml:"name"`
	Description     string           `json:"description" yaml:"description"`
	CountriesActive []string         `json:"countries_active" yaml:"countries_active"`
	Sectors         []Sector         `json:"sectors" yaml:"sectors"`
	Services        []OperationType  `json:"services" yaml:"services"`
	StrategicFocuses []StrategicFocus `json:"strategic_focuses" yaml:"strategic_focuses"`
	// PreferredTimeline is the firm's preferred project duration in months.
	PreferredTimeline int       `json:"preferred_project_timeline" yaml:"preferred_project_timeline"`
	Embedding         []float64 `json:"embedding,omitempty" yaml:"embedding,omitempty"`
}

// ContextText flattens the firm into a single prompt-ready description of its
// capabilities and strategic focuses.
func (f *Firm) ContextText() string {
	var b strings.Builder
	b.WriteString(f.Description)
	if len(f.Services) > 0 {
		names := make([]string, len(f.Services))
		for i, s := range f.Services {
			names[i] = s.Name
		}
		b.WriteString(" Services: ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString(".")
	}
	if len(f.StrategicFocuses) > 0 {
		names := make([]string, len(f.StrategicFocuses))
		for i, s := range f.StrategicFocuses {
			names[i] = s.Name
		}
		b.WriteString(" Strategic focuses: ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString(".")
	}
	return b.String()
}

// Validate checks the structural fields an analysis cannot run without.
func (f *Firm) Validate() error {
	if f.ID == "" {
		return eris.New("model: firm id is required")
	}
	if f.Name == "" {
		return eris.New("model: firm name is required")
	}
	if f.Description == "" {
		return eris.New("model: firm description is required")
	}
	return nil
}

// LoadFirm reads a firm definition from a JSON or YAML file, chosen by
// extension.
func LoadFirm(path string) (*Firm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "model: read firm file")
	}
	var firm Firm
	if err := unmarshalByExt(path, data, &firm); err != nil {
		return nil, eris.Wrap(err, "model: parse firm file")
	}
	if err := firm.Validate(); err != nil {
		return nil, err
	}
	return &firm, nil
}

func unmarshalByExt(path string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}
