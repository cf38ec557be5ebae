package scheme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
)

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

// referenceFarmer is 30, general category, 1.5 acres, growing rice in maharashtra.
func referenceFarmer() *farmer.Farmer {
	return &farmer.Farmer{
		Name:     "Asha",
		State:    "maharashtra",
		District: "Pune",
		Age:      intPtr(30),
		Category: "general",
		Lands:    []farmer.Land{{Area: 1.5}},
		Crops:    []farmer.Crop{{CropName: "rice", Year: 2026}},
	}
}

func referenceScheme() *Scheme {
	return &Scheme{
		AgeMin:      intPtr(18),
		AgeMax:      intPtr(70),
		LandSizeMax: floatPtr(2.0),
		TargetCrops: []string{"rice", "wheat"},
	}
}

func TestScore_AllPredicatesSatisfied(t *testing.T) {
	ev := Evaluate(referenceFarmer(), referenceScheme())

	assert.Equal(t, 4, ev.Evaluated)
	assert.Equal(t, 4, ev.Satisfied)
	assert.Equal(t, 100, ev.Percentage)
}

func TestScore_StateMismatch(t *testing.T) {
	s := referenceScheme()
	s.TargetStates = []string{"punjab"}

	assert.Equal(t, 75, Score(referenceFarmer(), s))
}

func TestScore_StateOnlyRestriction(t *testing.T) {
	s := &Scheme{TargetStates: []string{"punjab"}}

	assert.Equal(t, 75, Score(referenceFarmer(), s))
}

func TestScore_UnrestrictedIsSatisfied(t *testing.T) {
	f := referenceFarmer()
	open := &Scheme{}

	assert.Equal(t, 100, Score(f, open))

	f.State = "kerala"
	f.Crops = nil
	f.Lands = nil
	f.Category = ""
	assert.Equal(t, 100, Score(f, open), "no restriction can fail")
}

func TestScore_AgeOnlyCountsWhenKnown(t *testing.T) {
	s := &Scheme{AgeMin: intPtr(60), TargetStates: []string{"maharashtra"}}

	withAge := referenceFarmer()
	ev := Evaluate(withAge, s)
	assert.Equal(t, 4, ev.Evaluated)
	assert.Equal(t, 75, ev.Percentage)

	noAge := referenceFarmer()
	noAge.Age = nil
	ev = Evaluate(noAge, s)
	assert.Equal(t, 3, ev.Evaluated)
	assert.Equal(t, 100, ev.Percentage)

	zero := 0
	zeroAge := referenceFarmer()
	zeroAge.Age = &zero
	ev = Evaluate(zeroAge, &Scheme{AgeMin: intPtr(18), TargetStates: []string{"maharashtra"}})
	assert.Equal(t, 3, ev.Evaluated)
	assert.Equal(t, 100, ev.Percentage)
}

func TestScore_Category(t *testing.T) {
	s := &Scheme{ApplicableCategories: []string{"sc", "st"}}

	f := referenceFarmer()
	ev := Evaluate(f, s)
	assert.Equal(t, 5, ev.Evaluated)
	assert.Equal(t, 80, ev.Percentage)

	f.Category = "ST"
	assert.Equal(t, 100, Score(f, s))

	f.Category = ""
	assert.Equal(t, 80, Score(f, s), "missing category fails a restricted scheme")
}

func TestScore_CropMatchIsCaseInsensitive(t *testing.T) {
	f := referenceFarmer()
	f.Crops = []farmer.Crop{{CropName: "Wheat"}}

	assert.Equal(t, 100, Score(f, &Scheme{TargetCrops: []string{"WHEAT"}}))
	assert.Equal(t, 75, Score(f, &Scheme{TargetCrops: []string{"cotton"}}))
}

func TestScore_LandBounds(t *testing.T) {
	f := referenceFarmer()
	f.Lands = []farmer.Land{{Area: 2.5}, {Area: 1.5}}

	tests := []struct {
		name     string
		min, max *float64
		want     int
	}{
		{"unbounded", nil, nil, 100},
		{"inside", floatPtr(3), floatPtr(5), 100},
		{"inclusive bounds", floatPtr(4), floatPtr(4), 100},
		{"above max", nil, floatPtr(2), 75},
		{"below min", floatPtr(5), nil, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(f, &Scheme{LandSizeMin: tt.min, LandSizeMax: tt.max}))
		})
	}
}

func TestScore_NoLandCountsAsZeroArea(t *testing.T) {
	f := referenceFarmer()
	f.Lands = nil

	assert.Equal(t, 75, Score(f, &Scheme{LandSizeMin: floatPtr(0.5)}))
	assert.Equal(t, 100, Score(f, &Scheme{LandSizeMax: floatPtr(2)}))
}

func TestScore_RoundsToNearest(t *testing.T) {
	f := referenceFarmer()
	f.Age = nil
	s := &Scheme{TargetStates: []string{"punjab"}}

	// 2 of 3 evaluated
	assert.Equal(t, 67, Score(f, s))
}

func TestScore_Deterministic(t *testing.T) {
	f := referenceFarmer()
	s := referenceScheme()
	s.TargetStates = []string{"punjab"}

	first := Score(f, s)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(f, s))
	}
}
