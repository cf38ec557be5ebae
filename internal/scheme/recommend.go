package scheme

import (
	"sort"

	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
)

const (
	// DefaultMatchThreshold is the lowest match percentage still recommended.
	DefaultMatchThreshold = 50
	// DefaultRecommendationLimit caps the ranked list. Zero means no cap.
	DefaultRecommendationLimit = 5

	incompleteProfileFallback = 3
)

// Policy configures the ranker.
type Policy struct {
	Threshold int
	Limit     int
}

func DefaultPolicy() Policy {
	return Policy{Threshold: DefaultMatchThreshold, Limit: DefaultRecommendationLimit}
}

// Rank scores every scheme for f, keeps those at or above the threshold and
// returns them highest first. Ties keep the order of schemes.
func Rank(f *farmer.Farmer, schemes []Scheme, p Policy) []Recommendation {
	recs := make([]Recommendation, 0, len(schemes))
	for i := range schemes {
		ev := Evaluate(f, &schemes[i])
		if ev.Percentage < p.Threshold {
			continue
		}
		recs = append(recs, Recommendation{
			Scheme:          schemes[i],
			MatchPercentage: ev.Percentage,
			Scored:          true,
			Criteria:        ev.Criteria,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].MatchPercentage > recs[j].MatchPercentage
	})

	if p.Limit > 0 && len(recs) > p.Limit {
		recs = recs[:p.Limit]
	}
	return recs
}

// fallback is the unscored head of the catalog shown to farmers whose
// profile is missing name or location.
func fallback(schemes []Scheme) []Recommendation {
	n := incompleteProfileFallback
	if len(schemes) < n {
		n = len(schemes)
	}
	recs := make([]Recommendation, 0, n)
	for _, s := range schemes[:n] {
		recs = append(recs, Recommendation{Scheme: s})
	}
	return recs
}
