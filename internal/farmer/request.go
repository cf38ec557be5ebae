package farmer

import "time"

// UpdateProfileRequest is a partial update: nil fields are left untouched.
type UpdateProfileRequest struct {
	Name              *string  `json:"name"`
	FatherName        *string  `json:"fatherName"`
	Age               *int     `json:"age" binding:"omitempty,gte=0,lte=150"`
	Gender            *string  `json:"gender"`
	Category          *string  `json:"category"`
	MobileNumber      *string  `json:"mobileNumber"`
	AadharNumber      *string  `json:"aadharNumber"`
	Address           *string  `json:"address"`
	Village           *string  `json:"village"`
	District          *string  `json:"district"`
	State             *string  `json:"state"`
	Pincode           *string  `json:"pincode"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	BankAccountNumber *string  `json:"bankAccountNumber"`
	IFSCCode          *string  `json:"ifscCode"`
	Language          *string  `json:"language"`
}

type LandRequest struct {
	SurveyNumber  string  `json:"surveyNumber"`
	Area          float64 `json:"area" binding:"required" example:"2.5"`
	LandType      string  `json:"landType" example:"irrigated"`
	OwnershipType string  `json:"ownershipType" example:"owned"`
	SoilType      string  `json:"soilType" example:"black"`
}

type CropRequest struct {
	LandID          *uint      `json:"landId"`
	CropName        string     `json:"cropName" binding:"required" example:"wheat"`
	Variety         string     `json:"variety"`
	Season          string     `json:"season" example:"rabi"`
	SowingDate      *time.Time `json:"sowingDate"`
	ExpectedHarvest *time.Time `json:"expectedHarvest"`
	Area            *float64   `json:"area"`
	Year            int        `json:"year" example:"2026"`
}

type LivestockRequest struct {
	AnimalType string `json:"animalType" binding:"required" example:"cow"`
	Count      int    `json:"count" binding:"required" example:"2"`
	Breed      string `json:"breed"`
}
