package triage

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sehatlink/sehat-mcp/internal/types"
)

// Rule maps symptom keywords to a severity tier and advice. A rule
// matches when every one of its keywords appears in the case-folded
// symptom text.
type Rule struct {
	Keywords []string       `json:"keywords"`
	Severity types.Severity `json:"severity"`
	Advice   string         `json:"advice"`
}

// LoadRules reads an ordered rule array from path. Any schema violation
// is a load error; callers treat it as fatal at startup.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read triage rules: %w", err)
	}

	var rules []Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse triage rules %s: %w", path, err)
	}

	for i := range rules {
		if err := rules[i].validate(); err != nil {
			return nil, fmt.Errorf("triage rule %d: %w", i, err)
		}
	}
	return rules, nil
}

func (r *Rule) validate() error {
	if len(r.Keywords) == 0 {
		return fmt.Errorf("missing keywords")
	}
	for _, kw := range r.Keywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("empty keyword")
		}
	}
	if r.Severity == "" {
		return fmt.Errorf("missing severity")
	}
	if strings.TrimSpace(r.Advice) == "" {
		return fmt.Errorf("missing advice")
	}
	return nil
}
