package triage

import (
	"context"
	"encoding/json"

	"github.com/sehatlink/sehat-mcp/internal/tools"
)

type Tool struct {
	eval *Evaluator
}

func NewTool(eval *Evaluator) *Tool {
	return &Tool{eval: eval}
}

func (t *Tool) Name() string {
	return tools.NameTriage
}

func (t *Tool) Description() string {
	return "Classify a free-text symptom description into a severity tier (LOW, MODERATE, HIGH, EMERGENCY, or UNKNOWN) with advice from the loaded triage rules."
}

func (t *Tool) Title() string {
	return "Symptom Triage"
}

func (t *Tool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *Tool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"symptoms": {
				"type": "string",
				"description": "Free-text symptom description"
			}
		},
		"required": ["symptoms"]
	}`)
}

func (t *Tool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		Symptoms string `json:"symptoms" validate:"required"`
	}
	if err := tools.DecodeArgs(input, &req); err != nil {
		return nil, err
	}

	return t.eval.Evaluate(req.Symptoms), nil
}
