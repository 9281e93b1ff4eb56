package eligibility

import (
	"strings"

	"github.com/sehatlink/sehat-mcp/internal/types"
)

type Match struct {
	ProgrammeID       string   `json:"programme_id"`
	Name              string   `json:"name"`
	Benefits          []string `json:"benefits"`
	RequiredDocuments []string `json:"required_documents,omitempty"`
	MissingDocuments  []string `json:"missing_documents,omitempty"`
}

// Evaluator applies programme criteria to citizen profiles. The
// programme set is immutable after construction, so evaluation is safe
// for concurrent use and deterministic for a fixed rule set.
type Evaluator struct {
	programmes []Programme
}

func NewEvaluator(programmes []Programme) *Evaluator {
	return &Evaluator{programmes: programmes}
}

// Evaluate returns every programme whose criteria the profile satisfies,
// in rule-definition order. Required documents never gate a match; the
// ones absent from the profile are reported per entry.
func (e *Evaluator) Evaluate(p Profile) []Match {
	matches := make([]Match, 0)
	for _, prog := range e.programmes {
		if !satisfies(prog.Criteria, p) {
			continue
		}
		matches = append(matches, Match{
			ProgrammeID:       prog.ProgrammeID,
			Name:              prog.Name,
			Benefits:          prog.Benefits,
			RequiredDocuments: prog.RequiredDocuments,
			MissingDocuments:  missingDocuments(prog.RequiredDocuments, p.Documents),
		})
	}
	return matches
}

func satisfies(criteria map[string]interface{}, p Profile) bool {
	for key, want := range criteria {
		if !criterionHolds(key, want, p) {
			return false
		}
	}
	return true
}

// criterionHolds evaluates one criteria entry. Unknown keys and absent
// profile fields fail closed.
func criterionHolds(key string, want interface{}, p Profile) bool {
	switch {
	case key == "conditions":
		wanted := stringSlice(want)
		if len(wanted) == 0 {
			return false
		}
		return intersects(wanted, p.Conditions)

	case strings.HasSuffix(key, "_max"):
		limit, ok := toFloat(want)
		if !ok {
			return false
		}
		val, ok := p.numeric(strings.TrimSuffix(key, "_max"))
		if !ok {
			return false
		}
		return val <= limit

	case strings.HasSuffix(key, "_min"):
		limit, ok := toFloat(want)
		if !ok {
			return false
		}
		val, ok := p.numeric(strings.TrimSuffix(key, "_min"))
		if !ok {
			return false
		}
		return val >= limit

	default:
		wantStr, ok := want.(string)
		if !ok {
			return false
		}
		got, ok := p.text(key)
		if !ok {
			return false
		}
		return types.Fold(got) == types.Fold(wantStr)
	}
}

func intersects(wanted, have []string) bool {
	haveSet := make(map[string]struct{}, len(have))
	for _, h := range have {
		haveSet[types.Fold(h)] = struct{}{}
	}
	for _, w := range wanted {
		if _, ok := haveSet[types.Fold(w)]; ok {
			return true
		}
	}
	return false
}

func missingDocuments(required, have []string) []string {
	if len(required) == 0 {
		return nil
	}
	haveSet := make(map[string]struct{}, len(have))
	for _, h := range have {
		haveSet[types.Fold(h)] = struct{}{}
	}
	var missing []string
	for _, doc := range required {
		if _, ok := haveSet[types.Fold(doc)]; !ok {
			missing = append(missing, doc)
		}
	}
	return missing
}

func stringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
