package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity is the urgency tier assigned by triage and declared by
// facilities. Tiers form a total order via Rank; UNKNOWN ranks lowest.
type Severity string

const (
	SeverityUnknown   Severity = "UNKNOWN"
	SeverityLow       Severity = "LOW"
	SeverityModerate  Severity = "MODERATE"
	SeverityHigh      Severity = "HIGH"
	SeverityEmergency Severity = "EMERGENCY"
)

var severityRank = map[Severity]int{
	SeverityUnknown:   0,
	SeverityLow:       1,
	SeverityModerate:  2,
	SeverityHigh:      3,
	SeverityEmergency: 4,
}

// ParseSeverity accepts any casing and surrounding whitespace.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := severityRank[sev]; !ok {
		return "", fmt.Errorf("unknown severity %q", s)
	}
	return sev, nil
}

// Rank returns the tier's position in the total order
// UNKNOWN < LOW < MODERATE < HIGH < EMERGENCY.
func (s Severity) Rank() int {
	return severityRank[s]
}

func (s Severity) String() string {
	return string(s)
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sev, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}
