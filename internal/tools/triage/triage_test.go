package triage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sehatlink/sehat-mcp/internal/tools"
	"github.com/sehatlink/sehat-mcp/internal/types"
	"github.com/sehatlink/sehat-mcp/pkg/protocol"
)

func testRules() []Rule {
	return []Rule{
		{Keywords: []string{"chest pain", "shortness of breath"}, Severity: types.SeverityEmergency, Advice: "Call 1122 or go to the nearest emergency department now."},
		{Keywords: []string{"fever"}, Severity: types.SeverityModerate, Advice: "Hydrate and monitor temperature."},
		{Keywords: []string{"fever", "stiff neck"}, Severity: types.SeverityHigh, Advice: "Visit a clinic today."},
		{Keywords: []string{"cough"}, Severity: types.SeverityLow, Advice: "Rest and take fluids."},
	}
}

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "triage_rules.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}
	return path
}

func TestLoadRules(t *testing.T) {
	path := writeRulesFile(t, `[
		{"keywords": ["chest pain", "shortness of breath"], "severity": "emergency", "advice": "Call 1122 now."},
		{"keywords": ["fever"], "severity": "moderate", "advice": "Hydrate."}
	]`)

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	if rules[0].Severity != types.SeverityEmergency {
		t.Errorf("rule 0 severity = %q, want EMERGENCY", rules[0].Severity)
	}
}

func TestLoadRulesRejectsBadData(t *testing.T) {
	cases := map[string]string{
		"bad severity":     `[{"keywords": ["fever"], "severity": "catastrophic", "advice": "x"}]`,
		"missing keywords": `[{"keywords": [], "severity": "low", "advice": "x"}]`,
		"blank keyword":    `[{"keywords": ["  "], "severity": "low", "advice": "x"}]`,
		"missing advice":   `[{"keywords": ["fever"], "severity": "low", "advice": "  "}]`,
		"malformed json":   `[{"keywords": ["fever"`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeRulesFile(t, content)
			if _, err := LoadRules(path); err == nil {
				t.Error("expected load error")
			}
		})
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEvaluate(t *testing.T) {
	eval := NewEvaluator(testRules())

	cases := []struct {
		name     string
		symptoms string
		want     types.Severity
	}{
		{"all keywords present", "chest pain and shortness of breath", types.SeverityEmergency},
		{"partial keywords do not match", "sudden chest pain while resting", types.SeverityUnknown},
		{"single keyword", "mild cough since yesterday", types.SeverityLow},
		{"highest tier wins", "high fever and stiff neck", types.SeverityHigh},
		{"uppercase input", "FEVER", types.SeverityModerate},
		{"lowercase input", "fever", types.SeverityModerate},
		{"no match", "itchy elbow", types.SeverityUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := eval.Evaluate(tc.symptoms)
			if got.Severity != tc.want {
				t.Errorf("Evaluate(%q).Severity = %q, want %q", tc.symptoms, got.Severity, tc.want)
			}
		})
	}
}

func TestEvaluateCaseInsensitive(t *testing.T) {
	eval := NewEvaluator(testRules())
	upper := eval.Evaluate("FEVER")
	lower := eval.Evaluate("fever")
	if upper.Severity != lower.Severity || upper.Advice != lower.Advice {
		t.Errorf("case-sensitive results: %+v vs %+v", upper, lower)
	}
}

func TestEvaluateDefaultAdvice(t *testing.T) {
	eval := NewEvaluator(testRules())
	got := eval.Evaluate("itchy elbow")
	if got.Severity != types.SeverityUnknown {
		t.Fatalf("severity = %q, want UNKNOWN", got.Severity)
	}
	if got.Advice != defaultAdvice {
		t.Errorf("advice = %q, want default", got.Advice)
	}
	if len(got.MatchedKeywords) != 0 {
		t.Errorf("unexpected matched keywords: %v", got.MatchedKeywords)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eval := NewEvaluator(testRules())
	first := eval.Evaluate("fever and stiff neck")
	for i := 0; i < 5; i++ {
		again := eval.Evaluate("fever and stiff neck")
		if again.Severity != first.Severity || again.Advice != first.Advice {
			t.Fatalf("run %d differed: %+v vs %+v", i, again, first)
		}
	}
}

func TestToolExecute(t *testing.T) {
	tool := NewTool(NewEvaluator(testRules()))

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{"symptoms":"chest pain and shortness of breath"}`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	res, ok := raw.(Result)
	if !ok {
		t.Fatalf("unexpected result type %T", raw)
	}
	if res.Severity != types.SeverityEmergency {
		t.Errorf("severity = %q, want EMERGENCY", res.Severity)
	}
	if len(res.MatchedKeywords) != 2 {
		t.Errorf("matched keywords = %v, want the rule's two keywords", res.MatchedKeywords)
	}
}

func TestToolExecuteRejectsMissingSymptoms(t *testing.T) {
	tool := NewTool(NewEvaluator(testRules()))

	_, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	if err == nil {
		t.Fatal("expected error")
	}
	var te *tools.Error
	if !errors.As(err, &te) || te.Kind != protocol.KindInvalidArguments {
		t.Errorf("got %v, want InvalidArguments", err)
	}
}
