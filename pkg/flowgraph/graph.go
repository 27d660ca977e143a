package flowgraph

import (
	"encoding/json"
	"fmt"
)

// StepDefinition is one node of a bot's configured step graph, as it
// appears in the flow configuration document.
type StepDefinition struct {
	Code         string   `json:"code"`
	Description  string   `json:"description"`
	AllowedTools []string `json:"allowed_tools"`
	NextSteps    []string `json:"next_steps"`
}

type flowDocument struct {
	Steps []StepDefinition `json:"steps"`
}

// Graph is a pure lookup structure over a bot's step graph. It performs
// no I/O and holds no mutable state, so one instance is shared read-only
// across all concurrent sessions of the same bot version.
type Graph struct {
	steps map[string]StepDefinition
	first string
}

// Build parses a flow configuration document. A nil/empty document yields
// an empty graph, not an error: unknown steps simply have no tools and no
// transitions.
func Build(document json.RawMessage) (*Graph, error) {
	g := &Graph{steps: make(map[string]StepDefinition)}
	if len(document) == 0 {
		return g, nil
	}

	var doc flowDocument
	if err := json.Unmarshal(document, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse flow document: %w", err)
	}

	for i, step := range doc.Steps {
		if step.Code == "" {
			return nil, fmt.Errorf("flow step %d has no code", i)
		}
		if _, exists := g.steps[step.Code]; exists {
			return nil, fmt.Errorf("duplicate flow step code %q", step.Code)
		}
		g.steps[step.Code] = step
		if g.first == "" {
			g.first = step.Code
		}
	}
	return g, nil
}

// GetStep returns the step definition, or ok=false for an unknown code.
func (g *Graph) GetStep(code string) (StepDefinition, bool) {
	step, ok := g.steps[code]
	return step, ok
}

// FirstStep returns the code of the document's first step, the entry
// point for new sessions. Empty for an empty graph.
func (g *Graph) FirstStep() string {
	return g.first
}

// IsTransitionValid reports whether nextCode is reachable from
// currentCode. Idempotent re-entry (next == current) is always permitted
// for known steps; an unknown currentCode yields false for every next.
func (g *Graph) IsTransitionValid(currentCode, nextCode string) bool {
	step, ok := g.steps[currentCode]
	if !ok {
		return false
	}
	if nextCode == currentCode {
		return true
	}
	for _, next := range step.NextSteps {
		if next == nextCode {
			return true
		}
	}
	return false
}

// AllowedTools returns the tools usable in the step, in configured order.
// Unknown steps get an empty slice rather than an error so the pipeline
// stays total on missing configuration.
func (g *Graph) AllowedTools(currentCode string) []string {
	step, ok := g.steps[currentCode]
	if !ok {
		return []string{}
	}
	tools := make([]string, len(step.AllowedTools))
	copy(tools, step.AllowedTools)
	return tools
}

// Len returns the number of configured steps.
func (g *Graph) Len() int {
	return len(g.steps)
}
