package refdata

import (
	"fmt"
	"path/filepath"

	"github.com/sehatlink/sehat-mcp/internal/logger"
	"github.com/sehatlink/sehat-mcp/internal/tools/eligibility"
	"github.com/sehatlink/sehat-mcp/internal/tools/facility"
	"github.com/sehatlink/sehat-mcp/internal/tools/triage"
)

var log = logger.ForComponent("refdata")

// File names the extraction job writes into the data directory.
const (
	TriageRulesFile      = "triage_rules.json"
	EligibilityRulesFile = "eligibility_rules.json"
	FacilitiesFile       = "facilities.json"
)

// Store holds the reference data loaded once at startup. It is never
// mutated afterwards and needs no locking.
type Store struct {
	TriageRules []triage.Rule
	Programmes  []eligibility.Programme
	Facilities  []facility.Facility
}

// Load reads and validates the three reference files under dataDir.
// Every violation comes back as an error; callers treat it as fatal, so
// a schema problem never becomes a per-call failure later.
func Load(dataDir string) (*Store, error) {
	triageRules, err := triage.LoadRules(filepath.Join(dataDir, TriageRulesFile))
	if err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}

	programmes, err := eligibility.LoadProgrammes(filepath.Join(dataDir, EligibilityRulesFile))
	if err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}

	facilities, err := facility.LoadFacilities(filepath.Join(dataDir, FacilitiesFile))
	if err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}

	log.Info("reference data loaded",
		"data_dir", dataDir,
		"triage_rules", len(triageRules),
		"programmes", len(programmes),
		"facilities", len(facilities),
	)

	return &Store{
		TriageRules: triageRules,
		Programmes:  programmes,
		Facilities:  facilities,
	}, nil
}
