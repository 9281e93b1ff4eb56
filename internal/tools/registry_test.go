package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sehatlink/sehat-mcp/pkg/protocol"
)

type stubTool struct {
	name string
}

func (s *stubTool) Name() string            { return s.name }
func (s *stubTool) Description() string     { return "stub tool" }
func (s *stubTool) Schema() json.RawMessage { return json.RawMessage(`{"type":"object"}`) }
func (s *stubTool) Execute(ctx context.Context, args json.RawMessage) (interface{}, error) {
	return map[string]string{"tool": s.name}, nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(&stubTool{name: "alpha"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	tool, ok := reg.Get("alpha")
	if !ok {
		t.Fatal("expected tool to be registered")
	}
	if tool.Name() != "alpha" {
		t.Errorf("got name %q, want alpha", tool.Name())
	}

	if _, ok := reg.Get("missing"); ok {
		t.Error("expected lookup miss for unregistered tool")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(&stubTool{name: "alpha"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(&stubTool{name: "alpha"}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestRegistryListIsSorted(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := reg.Register(&stubTool{name: name}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	names := reg.Names()
	want := []string{"alpha", "mid", "zeta"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("names[%d] = %q, want %q", i, names[i], n)
		}
	}

	list := reg.List()
	for i, n := range want {
		if list[i].Name() != n {
			t.Fatalf("list[%d] = %q, want %q", i, list[i].Name(), n)
		}
	}
}

func TestDecodeArgs(t *testing.T) {
	type args struct {
		PatientID string `json:"patient_id" validate:"required"`
		Message   string `json:"message" validate:"required"`
	}

	t.Run("valid", func(t *testing.T) {
		var a args
		raw := json.RawMessage(`{"patient_id":"p1","message":"take medicine"}`)
		if err := DecodeArgs(raw, &a); err != nil {
			t.Fatalf("DecodeArgs: %v", err)
		}
		if a.PatientID != "p1" || a.Message != "take medicine" {
			t.Errorf("unexpected decode: %+v", a)
		}
	})

	t.Run("missing field", func(t *testing.T) {
		var a args
		err := DecodeArgs(json.RawMessage(`{"patient_id":"p1"}`), &a)
		assertInvalidArguments(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		var a args
		err := DecodeArgs(json.RawMessage(`{"patient_id":`), &a)
		assertInvalidArguments(t, err)
	})

	t.Run("empty raw", func(t *testing.T) {
		var a args
		err := DecodeArgs(nil, &a)
		assertInvalidArguments(t, err)
	})

	t.Run("wrong type", func(t *testing.T) {
		var a args
		err := DecodeArgs(json.RawMessage(`{"patient_id":42,"message":"x"}`), &a)
		assertInvalidArguments(t, err)
	})
}

func assertInvalidArguments(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("expected *tools.Error, got %T: %v", err, err)
	}
	if te.Kind != protocol.KindInvalidArguments {
		t.Errorf("got kind %q, want %q", te.Kind, protocol.KindInvalidArguments)
	}
}

func TestClassify(t *testing.T) {
	info := Classify(NewPersistenceFailure("insert failed", errors.New("disk full")))
	if info.Kind != protocol.KindPersistenceFailure {
		t.Errorf("got kind %q, want %q", info.Kind, protocol.KindPersistenceFailure)
	}

	info = Classify(errors.New("boom"))
	if info.Kind != protocol.KindInternalFailure {
		t.Errorf("got kind %q, want %q", info.Kind, protocol.KindInternalFailure)
	}
}
