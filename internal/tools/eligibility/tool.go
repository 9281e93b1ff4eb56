package eligibility

import (
	"context"
	"encoding/json"

	"github.com/sehatlink/sehat-mcp/internal/tools"
)

type Result struct {
	Programmes []Match `json:"programmes"`
	Count      int     `json:"count"`
}

type Tool struct {
	eval *Evaluator
}

func NewTool(eval *Evaluator) *Tool {
	return &Tool{eval: eval}
}

func (t *Tool) Name() string {
	return tools.NameEligibility
}

func (t *Tool) Description() string {
	return "Check a citizen profile against the loaded benefit programmes and return every programme the profile qualifies for. An empty list means no eligible programmes."
}

func (t *Tool) Title() string {
	return "Programme Eligibility"
}

func (t *Tool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *Tool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"age": {
				"type": "integer",
				"description": "Age in years"
			},
			"monthly_income": {
				"type": "number",
				"description": "Household monthly income in PKR"
			},
			"poverty_score": {
				"type": "number",
				"description": "PMT poverty score"
			},
			"income_bracket": {
				"type": "string",
				"description": "Income bracket label, e.g. low"
			},
			"region": {
				"type": "string",
				"description": "Province or city of residence"
			},
			"coverage_status": {
				"type": "string",
				"description": "Existing coverage status, e.g. uncovered"
			},
			"conditions": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Diagnosed conditions"
			},
			"documents": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Documents the citizen holds, e.g. cnic"
			}
		},
		"required": []
	}`)
}

func (t *Tool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var profile Profile
	if err := tools.DecodeArgs(input, &profile); err != nil {
		return nil, err
	}

	matches := t.eval.Evaluate(profile)
	return Result{Programmes: matches, Count: len(matches)}, nil
}
