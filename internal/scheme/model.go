package scheme

import (
	"time"

	"gorm.io/datatypes"
)

const (
	TypeCentral  = "central"
	TypeState    = "state"
	TypeDistrict = "district"
)

// Scheme is a government programme in the catalog. An empty target list or a
// nil bound means the scheme places no restriction on that dimension.
type Scheme struct {
	ID                  uint                        `gorm:"primaryKey" json:"id"`
	Name                string                      `gorm:"size:255;not null" json:"name"`
	Description         string                      `gorm:"type:text" json:"description"`
	Benefits            string                      `gorm:"type:text" json:"benefits"`
	EligibilityCriteria datatypes.JSONSlice[string] `json:"eligibilityCriteria"`
	RequiredDocuments   datatypes.JSONSlice[string] `json:"requiredDocuments"`
	ApplicationProcess  string                      `gorm:"type:text" json:"applicationProcess"`
	Deadline            *time.Time                  `json:"deadline,omitempty"`
	SchemeType          string                      `gorm:"size:20;not null" json:"schemeType"`
	Department          string                      `gorm:"size:255" json:"department"`
	BenefitAmount       *float64                    `json:"benefitAmount,omitempty"`
	IsActive            bool                        `gorm:"not null;index" json:"isActive"`

	TargetStates         datatypes.JSONSlice[string] `json:"targetStates"`
	TargetCrops          datatypes.JSONSlice[string] `json:"targetCrops"`
	ApplicableCategories datatypes.JSONSlice[string] `json:"applicableCategories"`
	LandSizeMin          *float64                    `json:"landSizeMin,omitempty"`
	LandSizeMax          *float64                    `json:"landSizeMax,omitempty"`
	AgeMin               *int                        `json:"ageMin,omitempty"`
	AgeMax               *int                        `json:"ageMax,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListFilter narrows the active catalog. A scheme passes a filter value when
// its list contains it or the list is unrestricted.
type ListFilter struct {
	State string
	Crop  string
}

// SchemeRequest is the admin payload for creating or replacing a scheme.
type SchemeRequest struct {
	Name                 string     `json:"name" binding:"required"`
	Description          string     `json:"description"`
	Benefits             string     `json:"benefits"`
	EligibilityCriteria  []string   `json:"eligibilityCriteria"`
	RequiredDocuments    []string   `json:"requiredDocuments"`
	ApplicationProcess   string     `json:"applicationProcess"`
	Deadline             *time.Time `json:"deadline"`
	SchemeType           string     `json:"schemeType" binding:"required" example:"central"`
	Department           string     `json:"department"`
	BenefitAmount        *float64   `json:"benefitAmount"`
	IsActive             *bool      `json:"isActive"`
	TargetStates         []string   `json:"targetStates"`
	TargetCrops          []string   `json:"targetCrops"`
	ApplicableCategories []string   `json:"applicableCategories"`
	LandSizeMin          *float64   `json:"landSizeMin"`
	LandSizeMax          *float64   `json:"landSizeMax"`
	AgeMin               *int       `json:"ageMin"`
	AgeMax               *int       `json:"ageMax"`
}

// Insight is optional AI commentary attached to a recommendation.
type Insight struct {
	Reasoning string   `json:"reasoning"`
	NextSteps []string `json:"nextSteps"`
}

// Recommendation is one ranked scheme for a farmer.
type Recommendation struct {
	Scheme            Scheme      `json:"scheme"`
	MatchPercentage   int         `json:"matchPercentage"`
	Scored            bool        `json:"scored"`
	Criteria          []Criterion `json:"criteria,omitempty"`
	IsBookmarked      bool        `json:"isBookmarked"`
	ApplicationStatus string      `json:"applicationStatus,omitempty"`
	Reasoning         string      `json:"reasoning,omitempty"`
	NextSteps         []string    `json:"nextSteps,omitempty"`
}
