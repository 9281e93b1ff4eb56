package eligibility

// Profile is the recognized citizen attribute set. Absent fields stay
// nil or empty, and any criterion referencing them fails closed rather
// than erroring. Unrecognized input fields are ignored on decode.
type Profile struct {
	Age            *int     `json:"age,omitempty"`
	MonthlyIncome  *float64 `json:"monthly_income,omitempty"`
	PovertyScore   *float64 `json:"poverty_score,omitempty"`
	IncomeBracket  string   `json:"income_bracket,omitempty"`
	Region         string   `json:"region,omitempty"`
	CoverageStatus string   `json:"coverage_status,omitempty"`
	Conditions     []string `json:"conditions,omitempty"`
	Documents      []string `json:"documents,omitempty"`
}

// numeric resolves the profile field a *_min/*_max criterion refers to.
func (p *Profile) numeric(field string) (float64, bool) {
	switch field {
	case "age":
		if p.Age != nil {
			return float64(*p.Age), true
		}
	case "income", "monthly_income":
		if p.MonthlyIncome != nil {
			return *p.MonthlyIncome, true
		}
	case "poverty_score":
		if p.PovertyScore != nil {
			return *p.PovertyScore, true
		}
	}
	return 0, false
}

// text resolves a string-valued profile field by criteria key.
func (p *Profile) text(field string) (string, bool) {
	switch field {
	case "income_bracket":
		if p.IncomeBracket != "" {
			return p.IncomeBracket, true
		}
	case "region":
		if p.Region != "" {
			return p.Region, true
		}
	case "coverage_status":
		if p.CoverageStatus != "" {
			return p.CoverageStatus, true
		}
	}
	return "", false
}
