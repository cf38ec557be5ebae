package scheme

import (
	"math"
	"strings"

	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
)

// Criterion names, in evaluation order.
const (
	CriterionState    = "state"
	CriterionCrop     = "crop"
	CriterionLandSize = "land_size"
	CriterionAge      = "age"
	CriterionCategory = "category"
)

// Criterion is the outcome of one eligibility predicate. Unrestricted
// predicates are always satisfied.
type Criterion struct {
	Name       string `json:"name"`
	Restricted bool   `json:"restricted"`
	Satisfied  bool   `json:"satisfied"`
}

// Evaluation is the full breakdown behind a match percentage.
type Evaluation struct {
	Criteria   []Criterion `json:"criteria"`
	Satisfied  int         `json:"satisfied"`
	Evaluated  int         `json:"evaluated"`
	Percentage int         `json:"percentage"`
}

// Score returns the percentage of evaluated predicates the farmer satisfies
// for s, rounded to the nearest integer.
func Score(f *farmer.Farmer, s *Scheme) int {
	return Evaluate(f, s).Percentage
}

// Evaluate runs every eligibility predicate of s against f. State, crop and
// land size always count. Age counts only when the farmer has a positive age on file;
// category counts only when the scheme restricts categories.
func Evaluate(f *farmer.Farmer, s *Scheme) Evaluation {
	criteria := make([]Criterion, 0, 5)

	criteria = append(criteria, Criterion{
		Name:       CriterionState,
		Restricted: len(s.TargetStates) > 0,
		Satisfied:  len(s.TargetStates) == 0 || containsFold(s.TargetStates, f.State),
	})

	criteria = append(criteria, Criterion{
		Name:       CriterionCrop,
		Restricted: len(s.TargetCrops) > 0,
		Satisfied:  len(s.TargetCrops) == 0 || growsAny(f.Crops, s.TargetCrops),
	})

	area := f.TotalLandArea()
	criteria = append(criteria, Criterion{
		Name:       CriterionLandSize,
		Restricted: s.LandSizeMin != nil || s.LandSizeMax != nil,
		Satisfied:  (s.LandSizeMin == nil || area >= *s.LandSizeMin) && (s.LandSizeMax == nil || area <= *s.LandSizeMax),
	})

	if f.Age != nil && *f.Age > 0 {
		age := *f.Age
		criteria = append(criteria, Criterion{
			Name:       CriterionAge,
			Restricted: s.AgeMin != nil || s.AgeMax != nil,
			Satisfied:  (s.AgeMin == nil || age >= *s.AgeMin) && (s.AgeMax == nil || age <= *s.AgeMax),
		})
	}

	if len(s.ApplicableCategories) > 0 {
		criteria = append(criteria, Criterion{
			Name:       CriterionCategory,
			Restricted: true,
			Satisfied:  containsFold(s.ApplicableCategories, f.Category),
		})
	}

	ev := Evaluation{Criteria: criteria, Evaluated: len(criteria)}
	for _, c := range criteria {
		if c.Satisfied {
			ev.Satisfied++
		}
	}
	ev.Percentage = int(math.Round(float64(ev.Satisfied) / float64(ev.Evaluated) * 100))
	return ev
}

func growsAny(crops []farmer.Crop, targets []string) bool {
	for _, c := range crops {
		if containsFold(targets, c.CropName) {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}
