package tools

import (
	"context"
	"encoding/json"
)

// The four tool names form the closed set the dispatcher routes on.
// Adding a tool means registering it here and in dispatch.New.
const (
	NameTriage      = "triage_rules_tool"
	NameEligibility = "program_eligibility_tool"
	NameFacility    = "facility_lookup_tool"
	NameReminder    = "reminder_store_tool"
)

type Tool interface {
	Name() string
	Description() string
	Schema() json.RawMessage
	Execute(ctx context.Context, args json.RawMessage) (interface{}, error)
}

type AnnotatedTool interface {
	Tool
	Title() string
	Annotations() map[string]bool
}
