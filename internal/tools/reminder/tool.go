package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sehatlink/sehat-mcp/internal/tools"
)

// Accepted due_datetime layouts. Naive times are taken as UTC.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type ListResult struct {
	Reminders []Reminder `json:"reminders"`
	Count     int        `json:"count"`
}

type Tool struct {
	store *Store
}

func NewTool(store *Store) *Tool {
	return &Tool{store: store}
}

func (t *Tool) Name() string {
	return tools.NameReminder
}

func (t *Tool) Description() string {
	return "Store a follow-up reminder for a patient, or list a patient's stored reminders with action \"get\". Stored reminders survive server restarts."
}

func (t *Tool) Title() string {
	return "Patient Reminders"
}

func (t *Tool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *Tool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"action": {
				"type": "string",
				"enum": ["create", "get"],
				"description": "Operation to perform; defaults to create"
			},
			"patient_id": {
				"type": "string",
				"description": "Patient identifier"
			},
			"message": {
				"type": "string",
				"description": "Reminder text (create only)"
			},
			"due_datetime": {
				"type": "string",
				"description": "When the reminder is due, RFC 3339 or 2006-01-02T15:04:05 (create only)"
			}
		},
		"required": ["patient_id"]
	}`)
}

func (t *Tool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var req struct {
		Action      string `json:"action" validate:"omitempty,oneof=create get"`
		PatientID   string `json:"patient_id" validate:"required"`
		Message     string `json:"message"`
		DueDatetime string `json:"due_datetime"`
	}
	if err := tools.DecodeArgs(input, &req); err != nil {
		return nil, err
	}

	if req.Action == "get" {
		return t.get(ctx, req.PatientID)
	}
	return t.create(ctx, req.PatientID, req.Message, req.DueDatetime)
}

func (t *Tool) create(ctx context.Context, patientID, message, dueDatetime string) (interface{}, error) {
	if strings.TrimSpace(message) == "" {
		return nil, tools.NewInvalidArguments("message is required")
	}

	due, err := parseDue(dueDatetime)
	if err != nil {
		return nil, tools.NewInvalidArguments("due_datetime %q is not a valid date-time", dueDatetime)
	}

	rec := Reminder{
		ID:        uuid.NewString(),
		PatientID: patientID,
		Message:   message,
		DueAt:     due.Truncate(time.Second),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := t.store.Create(ctx, rec); err != nil {
		return nil, tools.NewPersistenceFailure("could not persist reminder", err)
	}

	return rec, nil
}

func (t *Tool) get(ctx context.Context, patientID string) (interface{}, error) {
	reminders, err := t.store.ByPatient(ctx, patientID)
	if err != nil {
		return nil, tools.NewPersistenceFailure("could not read reminders", err)
	}
	return ListResult{Reminders: reminders, Count: len(reminders)}, nil
}

func parseDue(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty due_datetime")
	}
	for _, layout := range dueLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date-time layout")
}
