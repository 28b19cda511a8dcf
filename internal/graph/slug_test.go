package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"Equipment Financing", "equipment_financing"},
		{"Crédit export", "credit_export"},
		{"  Cross-border  logistics ", "cross_border_logistics"},
		{"ISO 9001 Certification", "iso_9001_certification"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in), "input %q", tt.in)
	}
}
