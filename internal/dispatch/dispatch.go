package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/sehatlink/sehat-mcp/internal/audit"
	"github.com/sehatlink/sehat-mcp/internal/logger"
	"github.com/sehatlink/sehat-mcp/internal/refdata"
	"github.com/sehatlink/sehat-mcp/internal/tools"
	"github.com/sehatlink/sehat-mcp/internal/tools/eligibility"
	"github.com/sehatlink/sehat-mcp/internal/tools/facility"
	"github.com/sehatlink/sehat-mcp/internal/tools/reminder"
	"github.com/sehatlink/sehat-mcp/internal/tools/triage"
	"github.com/sehatlink/sehat-mcp/pkg/protocol"
)

var log = logger.ForComponent("dispatch")

// Dispatcher routes tool-call envelopes to the registered tools and
// audits every invocation exactly once, after the tool completes.
type Dispatcher struct {
	registry *tools.Registry
	audit    *audit.Logger
}

// New wires the four tools over the loaded reference data and the
// reminder store.
func New(data *refdata.Store, reminders *reminder.Store, auditLog *audit.Logger) (*Dispatcher, error) {
	registry := tools.NewRegistry()
	toolset := []tools.Tool{
		triage.NewTool(triage.NewEvaluator(data.TriageRules)),
		eligibility.NewTool(eligibility.NewEvaluator(data.Programmes)),
		facility.NewTool(facility.NewRanker(data.Facilities)),
		reminder.NewTool(reminders),
	}
	for _, tool := range toolset {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}
	return &Dispatcher{registry: registry, audit: auditLog}, nil
}

// NewWithRegistry builds a dispatcher over a prepared registry; tests
// use it to inject faulty tools.
func NewWithRegistry(registry *tools.Registry, auditLog *audit.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, audit: auditLog}
}

// Tools lists the registered tools for protocol listings.
func (d *Dispatcher) Tools() []tools.Tool {
	return d.registry.List()
}

// Call validates and routes one envelope. The returned envelope always
// names the tool and carries either a result or a classified error; no
// call is dropped and none crashes the serving loop.
func (d *Dispatcher) Call(ctx context.Context, name string, args json.RawMessage) protocol.Envelope {
	started := time.Now()

	tool, ok := d.registry.Get(name)
	if !ok {
		env := protocol.Envelope{Tool: name, Error: &protocol.ErrorInfo{
			Kind:    protocol.KindInvalidArguments,
			Message: fmt.Sprintf("unknown tool %q", name),
		}}
		d.record(ctx, name, args, env, started)
		return env
	}

	result, err := d.execute(ctx, tool, args)

	env := protocol.Envelope{Tool: name}
	if err != nil {
		env.Error = tools.Classify(err)
		log.Warn("tool call failed", "tool", name, "kind", env.Error.Kind, "error", err)
	} else {
		env.Result = result
	}

	d.record(ctx, name, args, env, started)
	return env
}

// execute runs the tool, converting a panic into an internal failure so
// a faulty evaluator cannot take down the process.
func (d *Dispatcher) execute(ctx context.Context, tool tools.Tool, args json.RawMessage) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("tool panicked",
				"tool", tool.Name(),
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = tools.NewInternalFailure(fmt.Sprintf("tool %s failed unexpectedly", tool.Name()), fmt.Errorf("%v", r))
		}
	}()
	return tool.Execute(ctx, args)
}

func (d *Dispatcher) record(ctx context.Context, name string, args json.RawMessage, env protocol.Envelope, started time.Time) {
	d.audit.Record(ctx, audit.Entry{
		Tool:      name,
		Arguments: args,
		Result:    env.Result,
		Error:     env.Error,
		Duration:  time.Since(started),
	})
}
