package facility

import (
	"sort"
	"strings"

	"github.com/sehatlink/sehat-mcp/internal/types"
)

// Ranker orders facilities for a (location, severity) query. The
// facility set is immutable after construction, so ranking is safe for
// concurrent use.
type Ranker struct {
	facilities []Facility
}

func NewRanker(facilities []Facility) *Ranker {
	return &Ranker{facilities: facilities}
}

// Rank filters to facilities whose city matches the location and whose
// capability set contains the requested severity, then sorts by
// capability specificity (distance from the requested tier down to the
// facility's floor, ascending), static priority descending, and id
// ascending. An empty result means no covering facility, not an error.
func (r *Ranker) Rank(location string, severity types.Severity) []Facility {
	query := types.Fold(strings.TrimSpace(location))

	candidates := make([]Facility, 0)
	for _, f := range r.facilities {
		if !locationMatches(query, types.Fold(f.City)) {
			continue
		}
		if !f.covers(severity) {
			continue
		}
		candidates = append(candidates, f)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		di := severity.Rank() - candidates[i].minSupportedRank()
		dj := severity.Rank() - candidates[j].minSupportedRank()
		if di != dj {
			return di < dj
		}
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates
}

// locationMatches treats folded equality or containment either way as a
// match, so "karachi" finds facilities listed under "Karachi South".
func locationMatches(query, city string) bool {
	if query == "" || city == "" {
		return false
	}
	return query == city || strings.Contains(city, query) || strings.Contains(query, city)
}
