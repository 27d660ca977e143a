package flowgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const commerceFlow = `{
	"steps": [
		{"code": "IDLE", "description": "waiting for the customer", "allowed_tools": [], "next_steps": ["BROWSING", "HANDOVER"]},
		{"code": "BROWSING", "allowed_tools": ["search_catalog"], "next_steps": ["VIEWING", "HANDOVER"]},
		{"code": "VIEWING", "allowed_tools": ["get_product", "add_to_cart"], "next_steps": ["PURCHASING", "BROWSING", "HANDOVER"]},
		{"code": "PURCHASING", "allowed_tools": ["create_order"], "next_steps": ["BROWSING", "HANDOVER"]},
		{"code": "HANDOVER", "allowed_tools": [], "next_steps": []}
	]
}`

func TestBuildParsesDocument(t *testing.T) {
	g, err := Build([]byte(commerceFlow))

	require.NoError(t, err)
	assert.Equal(t, 5, g.Len())
	assert.Equal(t, "IDLE", g.FirstStep())

	step, ok := g.GetStep("VIEWING")
	require.True(t, ok)
	assert.Equal(t, []string{"get_product", "add_to_cart"}, step.AllowedTools)
}

func TestBuildEmptyDocument(t *testing.T) {
	for _, doc := range [][]byte{nil, []byte(""), []byte(`{}`), []byte(`{"steps":[]}`)} {
		g, err := Build(doc)
		require.NoError(t, err)
		assert.Equal(t, 0, g.Len())
		assert.Equal(t, "", g.FirstStep())
	}
}

func TestBuildRejectsMalformedDocument(t *testing.T) {
	_, err := Build([]byte(`{"steps": [`))
	assert.Error(t, err)
}

func TestBuildRejectsStepWithoutCode(t *testing.T) {
	_, err := Build([]byte(`{"steps":[{"code":""}]}`))
	assert.Error(t, err)
}

func TestBuildRejectsDuplicateStepCode(t *testing.T) {
	_, err := Build([]byte(`{"steps":[{"code":"A"},{"code":"A"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestIsTransitionValid(t *testing.T) {
	g, err := Build([]byte(commerceFlow))
	require.NoError(t, err)

	tests := []struct {
		name    string
		current string
		next    string
		want    bool
	}{
		{name: "configured edge", current: "BROWSING", next: "VIEWING", want: true},
		{name: "edge not configured", current: "BROWSING", next: "PURCHASING", want: false},
		{name: "self transition", current: "BROWSING", next: "BROWSING", want: true},
		{name: "terminal step", current: "HANDOVER", next: "BROWSING", want: false},
		{name: "unknown current step", current: "DREAMING", next: "BROWSING", want: false},
		{name: "unknown next step", current: "BROWSING", next: "DREAMING", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.IsTransitionValid(tt.current, tt.next))
		})
	}
}

func TestAllowedTools(t *testing.T) {
	g, err := Build([]byte(commerceFlow))
	require.NoError(t, err)

	assert.Equal(t, []string{"search_catalog"}, g.AllowedTools("BROWSING"))
	assert.Empty(t, g.AllowedTools("IDLE"))
	assert.Empty(t, g.AllowedTools("DREAMING"))

	// Mutating the returned slice must not leak into the shared graph.
	tools := g.AllowedTools("VIEWING")
	tools[0] = "mutated"
	assert.Equal(t, []string{"get_product", "add_to_cart"}, g.AllowedTools("VIEWING"))
}
