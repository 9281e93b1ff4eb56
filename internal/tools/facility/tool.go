package facility

import (
	"context"
	"encoding/json"

	"github.com/sehatlink/sehat-mcp/internal/tools"
	"github.com/sehatlink/sehat-mcp/internal/types"
)

type Result struct {
	Facilities []Facility `json:"facilities"`
	Count      int        `json:"count"`
}

type Tool struct {
	ranker *Ranker
}

func NewTool(ranker *Ranker) *Tool {
	return &Tool{ranker: ranker}
}

func (t *Tool) Name() string {
	return tools.NameFacility
}

func (t *Tool) Description() string {
	return "Find facilities in a location that can treat the given severity tier, best match first. An empty list means no covering facility was found there."
}

func (t *Tool) Title() string {
	return "Facility Lookup"
}

func (t *Tool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *Tool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"location": {
				"type": "string",
				"description": "City or region to search, e.g. Lahore"
			},
			"severity": {
				"type": "string",
				"enum": ["LOW", "MODERATE", "HIGH", "EMERGENCY", "UNKNOWN"],
				"description": "Severity tier the facility must cover (case-insensitive)"
			}
		},
		"required": ["location", "severity"]
	}`)
}

func (t *Tool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		Location string         `json:"location" validate:"required"`
		Severity types.Severity `json:"severity" validate:"required"`
	}
	if err := tools.DecodeArgs(input, &req); err != nil {
		return nil, err
	}

	ranked := t.ranker.Rank(req.Location, req.Severity)
	return Result{Facilities: ranked, Count: len(ranked)}, nil
}
