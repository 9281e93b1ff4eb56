package eligibility

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Programme is one benefit scheme gated by a criteria predicate over a
// citizen profile. Programmes are evaluated in definition order.
type Programme struct {
	ProgrammeID       string                 `json:"programme_id"`
	Name              string                 `json:"name"`
	Criteria          map[string]interface{} `json:"criteria"`
	Benefits          []string               `json:"benefits"`
	RequiredDocuments []string               `json:"required_documents,omitempty"`
}

// LoadProgrammes reads an ordered programme array from path. Any schema
// violation is a load error; callers treat it as fatal at startup.
func LoadProgrammes(path string) ([]Programme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read eligibility rules: %w", err)
	}

	var programmes []Programme
	if err := json.Unmarshal(data, &programmes); err != nil {
		return nil, fmt.Errorf("parse eligibility rules %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(programmes))
	for i := range programmes {
		if err := programmes[i].validate(); err != nil {
			return nil, fmt.Errorf("eligibility rule %d: %w", i, err)
		}
		id := programmes[i].ProgrammeID
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("eligibility rule %d: duplicate programme_id %q", i, id)
		}
		seen[id] = struct{}{}
	}
	return programmes, nil
}

func (p *Programme) validate() error {
	if strings.TrimSpace(p.ProgrammeID) == "" {
		return fmt.Errorf("missing programme_id")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("missing name")
	}
	if len(p.Criteria) == 0 {
		return fmt.Errorf("programme %q has no criteria", p.ProgrammeID)
	}
	if len(p.Benefits) == 0 {
		return fmt.Errorf("programme %q has no benefits", p.ProgrammeID)
	}
	return nil
}
