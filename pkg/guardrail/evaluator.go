package guardrail

import (
	"fmt"
	"sort"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/pkg/logger"

	"github.com/Knetic/govaluate"
)

// Guardrail actions. BLOCK and FALLBACK stop evaluation of lower-priority
// rules, WARN records the violation and lets the turn proceed.
const (
	ActionBlock    = "BLOCK"
	ActionWarn     = "WARN"
	ActionFallback = "FALLBACK"
)

// Result is the outcome of evaluating one guardrail against a turn.
type Result struct {
	Guardrail *entity.Guardrail
	Passed    bool
	Violation string
}

// Report aggregates the results of a full evaluation pass.
type Report struct {
	Results []Result

	// Stopped is the guardrail that halted evaluation, nil when every
	// rule was evaluated.
	Stopped *entity.Guardrail
}

// Blocked reports whether a BLOCK rule halted the pass.
func (r *Report) Blocked() bool {
	return r.Stopped != nil && r.Stopped.Action == ActionBlock
}

// FellBack reports whether a FALLBACK rule halted the pass.
func (r *Report) FellBack() bool {
	return r.Stopped != nil && r.Stopped.Action == ActionFallback
}

type Evaluator struct {
	logger logger.ILogger
}

func NewEvaluator(logger logger.ILogger) *Evaluator {
	return &Evaluator{logger: logger}
}

// Sort orders guardrails deterministically: priority descending, then code
// ascending as the tie-breaker. The input slice is sorted in place.
func Sort(rails []*entity.Guardrail) {
	sort.SliceStable(rails, func(i, j int) bool {
		if rails[i].Priority != rails[j].Priority {
			return rails[i].Priority > rails[j].Priority
		}
		return rails[i].Code < rails[j].Code
	})
}

// Evaluate runs the guardrails against the turn parameters in deterministic
// order. A condition that fails to parse, fails to evaluate, or does not
// yield a boolean counts as a violation.
func (e *Evaluator) Evaluate(rails []*entity.Guardrail, params map[string]interface{}) *Report {
	ordered := make([]*entity.Guardrail, len(rails))
	copy(ordered, rails)
	Sort(ordered)

	report := &Report{Results: make([]Result, 0, len(ordered))}
	for _, rail := range ordered {
		result := e.evaluateOne(rail, params)
		report.Results = append(report.Results, result)

		if result.Passed {
			continue
		}

		switch rail.Action {
		case ActionBlock, ActionFallback:
			report.Stopped = rail
			return report
		default:
			e.logger.Warn("GUARDRAIL", "guardrail warning recorded", map[string]interface{}{
				"code":      rail.Code,
				"violation": result.Violation,
			})
		}
	}
	return report
}

func (e *Evaluator) evaluateOne(rail *entity.Guardrail, params map[string]interface{}) Result {
	expr, err := govaluate.NewEvaluableExpression(rail.Condition)
	if err != nil {
		return Result{
			Guardrail: rail,
			Violation: fmt.Sprintf("condition failed to parse: %v", err),
		}
	}

	out, err := expr.Evaluate(params)
	if err != nil {
		// Unknown variables and type errors land here. Treat the rule
		// as violated rather than silently skipping it.
		return Result{
			Guardrail: rail,
			Violation: fmt.Sprintf("condition failed to evaluate: %v", err),
		}
	}

	passed, ok := out.(bool)
	if !ok {
		return Result{
			Guardrail: rail,
			Violation: fmt.Sprintf("condition yielded %T, expected boolean", out),
		}
	}
	if !passed {
		return Result{
			Guardrail: rail,
			Violation: fmt.Sprintf("condition %q not satisfied", rail.Condition),
		}
	}
	return Result{Guardrail: rail, Passed: true}
}
