package facility

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sehatlink/sehat-mcp/internal/types"
)

// Facility is one treatment site from the extracted reference data.
// SupportsSeverity is its capability tier set; Priority is a static
// score where higher ranks better.
type Facility struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Type             string           `json:"type,omitempty"`
	City             string           `json:"city"`
	Address          string           `json:"address,omitempty"`
	UrduName         string           `json:"urdu_name,omitempty"`
	SupportsSeverity []types.Severity `json:"supports_severity"`
	Priority         int              `json:"priority"`
}

// LoadFacilities reads an ordered facility array from path. Any schema
// violation is a load error; callers treat it as fatal at startup.
func LoadFacilities(path string) ([]Facility, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read facilities: %w", err)
	}

	var facilities []Facility
	if err := json.Unmarshal(data, &facilities); err != nil {
		return nil, fmt.Errorf("parse facilities %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(facilities))
	for i := range facilities {
		if err := facilities[i].validate(); err != nil {
			return nil, fmt.Errorf("facility %d: %w", i, err)
		}
		id := facilities[i].ID
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("facility %d: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}
	}
	return facilities, nil
}

func (f *Facility) validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("missing id")
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("missing name")
	}
	if strings.TrimSpace(f.City) == "" {
		return fmt.Errorf("facility %q has no city", f.ID)
	}
	if len(f.SupportsSeverity) == 0 {
		return fmt.Errorf("facility %q supports no severities", f.ID)
	}
	return nil
}

func (f *Facility) covers(sev types.Severity) bool {
	for _, s := range f.SupportsSeverity {
		if s == sev {
			return true
		}
	}
	return false
}

// minSupportedRank is the facility's capability floor.
func (f *Facility) minSupportedRank() int {
	min := f.SupportsSeverity[0].Rank()
	for _, s := range f.SupportsSeverity[1:] {
		if r := s.Rank(); r < min {
			min = r
		}
	}
	return min
}
