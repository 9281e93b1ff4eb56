package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sehatlink/sehat-mcp/internal/audit"
	"github.com/sehatlink/sehat-mcp/internal/refdata"
	"github.com/sehatlink/sehat-mcp/internal/tools"
	"github.com/sehatlink/sehat-mcp/internal/tools/eligibility"
	"github.com/sehatlink/sehat-mcp/internal/tools/facility"
	"github.com/sehatlink/sehat-mcp/internal/tools/reminder"
	"github.com/sehatlink/sehat-mcp/internal/tools/triage"
	"github.com/sehatlink/sehat-mcp/internal/types"
)

func testData() *refdata.Store {
	return &refdata.Store{
		TriageRules: []triage.Rule{
			{Keywords: []string{"chest pain"}, Severity: types.SeverityEmergency, Advice: "Call 1122 now."},
			{Keywords: []string{"cough"}, Severity: types.SeverityLow, Advice: "Rest and take fluids."},
		},
		Programmes: []eligibility.Programme{
			{
				ProgrammeID: "sehat_card",
				Name:        "Sehat Sahulat Programme",
				Criteria:    map[string]interface{}{"income_bracket": "low"},
				Benefits:    []string{"inpatient cover"},
			},
		},
		Facilities: []facility.Facility{
			{
				ID:               "khi-01",
				Name:             "Civil Hospital Karachi",
				City:             "Karachi",
				SupportsSeverity: []types.Severity{types.SeverityHigh, types.SeverityEmergency},
				Priority:         5,
			},
		},
	}
}

func newTestDispatcher(t *testing.T, sink *bytes.Buffer) *Dispatcher {
	t.Helper()

	store, err := reminder.OpenStore(filepath.Join(t.TempDir(), "reminders.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	d, err := New(testData(), store, audit.NewWithWriter(sink))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestCallRoutesEveryTool(t *testing.T) {
	var sink bytes.Buffer
	d := newTestDispatcher(t, &sink)

	calls := []struct {
		tool string
		args string
	}{
		{tools.NameTriage, `{"symptoms": "sudden chest pain"}`},
		{tools.NameEligibility, `{"income_bracket": "low"}`},
		{tools.NameFacility, `{"location": "Karachi", "severity": "HIGH"}`},
		{tools.NameReminder, `{"patient_id": "pt-1", "message": "take iron tablet", "due_datetime": "2026-09-01T09:00:00Z"}`},
	}

	for _, call := range calls {
		env := d.Call(context.Background(), call.tool, json.RawMessage(call.args))
		if env.Tool != call.tool {
			t.Errorf("envelope tool = %q, want %q", env.Tool, call.tool)
		}
		if env.Error != nil {
			t.Errorf("%s: unexpected error %q: %s", call.tool, env.Error.Kind, env.Error.Message)
		}
		if env.Result == nil {
			t.Errorf("%s: envelope has no result", call.tool)
		}
	}

	if got := strings.Count(sink.String(), "tool_invocation"); got != len(calls) {
		t.Errorf("audit entries = %d, want %d", got, len(calls))
	}
}

func TestCallUnknownTool(t *testing.T) {
	var sink bytes.Buffer
	d := newTestDispatcher(t, &sink)

	env := d.Call(context.Background(), "no_such_tool", json.RawMessage(`{}`))
	if env.Error == nil {
		t.Fatal("expected an error envelope for an unknown tool")
	}
	if env.Error.Kind != "InvalidArguments" {
		t.Errorf("kind = %q, want InvalidArguments", env.Error.Kind)
	}
	if !strings.Contains(env.Error.Message, "no_such_tool") {
		t.Errorf("message %q does not name the unknown tool", env.Error.Message)
	}
	if got := strings.Count(sink.String(), "tool_invocation"); got != 1 {
		t.Errorf("audit entries = %d, want 1 (rejections are audited too)", got)
	}
}

func TestCallClassifiesToolErrors(t *testing.T) {
	var sink bytes.Buffer
	d := newTestDispatcher(t, &sink)

	cases := []struct {
		name string
		tool string
		args string
		kind string
	}{
		{"malformed json", tools.NameTriage, `{"symptoms": `, "InvalidArguments"},
		{"missing field", tools.NameFacility, `{"location": "Karachi"}`, "InvalidArguments"},
		{"bad severity", tools.NameFacility, `{"location": "Karachi", "severity": "FATAL"}`, "InvalidArguments"},
		{"bad due date", tools.NameReminder, `{"patient_id": "pt-1", "message": "x", "due_datetime": "tomorrow"}`, "InvalidArguments"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := d.Call(context.Background(), tc.tool, json.RawMessage(tc.args))
			if env.Error == nil {
				t.Fatalf("expected error envelope, got result %v", env.Result)
			}
			if string(env.Error.Kind) != tc.kind {
				t.Errorf("kind = %q, want %q", env.Error.Kind, tc.kind)
			}
			if env.Result != nil {
				t.Error("envelope carries both result and error")
			}
		})
	}
}

type panicTool struct{}

func (panicTool) Name() string            { return "panic_tool" }
func (panicTool) Description() string     { return "always panics" }
func (panicTool) Schema() json.RawMessage { return json.RawMessage(`{"type": "object"}`) }

func (panicTool) Execute(ctx context.Context, args json.RawMessage) (interface{}, error) {
	panic("evaluator bug")
}

type failTool struct {
	err error
}

func (f failTool) Name() string            { return "fail_tool" }
func (f failTool) Description() string     { return "always fails" }
func (f failTool) Schema() json.RawMessage { return json.RawMessage(`{"type": "object"}`) }

func (f failTool) Execute(ctx context.Context, args json.RawMessage) (interface{}, error) {
	return nil, f.err
}

func TestCallRecoversPanics(t *testing.T) {
	registry := tools.NewRegistry()
	if err := registry.Register(panicTool{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	var sink bytes.Buffer
	d := NewWithRegistry(registry, audit.NewWithWriter(&sink))

	env := d.Call(context.Background(), "panic_tool", json.RawMessage(`{}`))
	if env.Error == nil {
		t.Fatal("expected an error envelope from a panicking tool")
	}
	if env.Error.Kind != "InternalFailure" {
		t.Errorf("kind = %q, want InternalFailure", env.Error.Kind)
	}
	if got := strings.Count(sink.String(), "tool_invocation"); got != 1 {
		t.Errorf("audit entries = %d, want 1", got)
	}
}

func TestCallClassifiesUnknownErrorsAsInternal(t *testing.T) {
	registry := tools.NewRegistry()
	if err := registry.Register(failTool{err: errors.New("disk on fire")}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	var sink bytes.Buffer
	d := NewWithRegistry(registry, audit.NewWithWriter(&sink))

	env := d.Call(context.Background(), "fail_tool", json.RawMessage(`{}`))
	if env.Error == nil {
		t.Fatal("expected an error envelope")
	}
	if env.Error.Kind != "InternalFailure" {
		t.Errorf("kind = %q, want InternalFailure", env.Error.Kind)
	}
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errors.New("sink gone")
}

func TestAuditFailureDoesNotAlterEnvelope(t *testing.T) {
	store, err := reminder.OpenStore(filepath.Join(t.TempDir(), "reminders.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	d, err := New(testData(), store, audit.NewWithWriter(brokenWriter{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	env := d.Call(context.Background(), tools.NameTriage, json.RawMessage(`{"symptoms": "dry cough"}`))
	if env.Error != nil {
		t.Fatalf("audit failure leaked into envelope: %s", env.Error.Message)
	}
	if env.Result == nil {
		t.Fatal("envelope has no result")
	}
}

func TestToolsListsAllFour(t *testing.T) {
	var sink bytes.Buffer
	d := newTestDispatcher(t, &sink)

	listed := d.Tools()
	want := []string{tools.NameFacility, tools.NameEligibility, tools.NameReminder, tools.NameTriage}
	if len(listed) != len(want) {
		t.Fatalf("Tools() returned %d tools, want %d", len(listed), len(want))
	}
	seen := make(map[string]bool, len(listed))
	for _, tool := range listed {
		seen[tool.Name()] = true
	}
	for _, name := range want {
		if !seen[name] {
			t.Errorf("missing tool %q", name)
		}
	}
}
