package types

import "testing"

func TestParseSeverity(t *testing.T) {
	valid := map[string]Severity{
		"emergency": SeverityEmergency,
		"EMERGENCY": SeverityEmergency,
		" High ":    SeverityHigh,
		"moderate":  SeverityModerate,
		"low":       SeverityLow,
		"Unknown":   SeverityUnknown,
	}
	for in, want := range valid {
		got, err := ParseSeverity(in)
		if err != nil {
			t.Fatalf("ParseSeverity(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseSeverity(%q) = %q, want %q", in, got, want)
		}
	}

	for _, in := range []string{"", "critical", "severe", "3"} {
		if _, err := ParseSeverity(in); err == nil {
			t.Errorf("ParseSeverity(%q): expected error", in)
		}
	}
}

func TestSeverityRank(t *testing.T) {
	order := []Severity{SeverityUnknown, SeverityLow, SeverityModerate, SeverityHigh, SeverityEmergency}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("expected %s to rank below %s", order[i-1], order[i])
		}
	}
}

func TestSeverityUnmarshalJSON(t *testing.T) {
	var s Severity
	if err := s.UnmarshalJSON([]byte(`"high"`)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s != SeverityHigh {
		t.Errorf("got %q, want %q", s, SeverityHigh)
	}

	if err := s.UnmarshalJSON([]byte(`"fatal"`)); err == nil {
		t.Error("expected error for unknown tier")
	}
	if err := s.UnmarshalJSON([]byte(`42`)); err == nil {
		t.Error("expected error for non-string tier")
	}
}

func TestFold(t *testing.T) {
	cases := map[string]string{
		"FEVER":   "fever",
		"Karachi": "karachi",
		"straße":  "strasse",
	}
	for in, want := range cases {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}
