package triage

import (
	"strings"

	"github.com/sehatlink/sehat-mcp/internal/types"
)

const defaultAdvice = "Unable to classify these symptoms. Please consult a qualified health professional."

type Result struct {
	Severity        types.Severity `json:"severity"`
	Advice          string         `json:"advice"`
	MatchedKeywords []string       `json:"matched_keywords,omitempty"`
}

// Evaluator matches free-text symptoms against an immutable rule set,
// so it is safe for concurrent use.
type Evaluator struct {
	rules []Rule
}

func NewEvaluator(rules []Rule) *Evaluator {
	return &Evaluator{rules: rules}
}

// Evaluate returns the highest-severity matching rule; ties keep the
// earliest rule in definition order. No match yields UNKNOWN with
// generic advice.
func (e *Evaluator) Evaluate(symptoms string) Result {
	folded := types.Fold(symptoms)

	best := Result{Severity: types.SeverityUnknown, Advice: defaultAdvice}
	matched := false
	for _, rule := range e.rules {
		if !rule.matches(folded) {
			continue
		}
		if !matched || rule.Severity.Rank() > best.Severity.Rank() {
			best = Result{
				Severity:        rule.Severity,
				Advice:          rule.Advice,
				MatchedKeywords: rule.Keywords,
			}
			matched = true
		}
	}
	return best
}

func (r *Rule) matches(foldedSymptoms string) bool {
	for _, kw := range r.Keywords {
		if !strings.Contains(foldedSymptoms, types.Fold(kw)) {
			return false
		}
	}
	return true
}
