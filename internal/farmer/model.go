package farmer

import (
	"strings"
	"time"
)

type Farmer struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;uniqueIndex" json:"userId"`
	Name              string    `gorm:"size:150" json:"name"`
	FatherName        string    `gorm:"size:150" json:"fatherName,omitempty"`
	Age               *int      `json:"age,omitempty"`
	Gender            string    `gorm:"size:10" json:"gender,omitempty"`
	Category          string    `gorm:"size:10" json:"category,omitempty"` // general, obc, sc, st
	MobileNumber      string    `gorm:"size:15" json:"mobileNumber"`
	AadharNumber      *string   `gorm:"size:12" json:"aadharNumber,omitempty"`
	Address           string    `gorm:"type:text" json:"address,omitempty"`
	Village           string    `gorm:"size:100" json:"village,omitempty"`
	District          string    `gorm:"size:100;index" json:"district,omitempty"`
	State             string    `gorm:"size:100;index" json:"state,omitempty"`
	Pincode           string    `gorm:"size:6" json:"pincode,omitempty"`
	Latitude          *float64  `json:"latitude,omitempty"`
	Longitude         *float64  `json:"longitude,omitempty"`
	BankAccountNumber string    `gorm:"size:30" json:"bankAccountNumber,omitempty"`
	IFSCCode          string    `gorm:"column:ifsc_code;size:11" json:"ifscCode,omitempty"`
	Language          string    `gorm:"size:5;default:'en'" json:"language"`
	IsVerified        bool      `gorm:"default:false" json:"isVerified"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	Lands     []Land      `gorm:"foreignKey:FarmerID" json:"lands"`
	Crops     []Crop      `gorm:"foreignKey:FarmerID" json:"crops"`
	Livestock []Livestock `gorm:"foreignKey:FarmerID" json:"livestock"`
}

// IsComplete reports whether the profile carries enough identity and
// location data to be scored against the scheme catalog.
func (f *Farmer) IsComplete() bool {
	return strings.TrimSpace(f.Name) != "" &&
		strings.TrimSpace(f.District) != "" &&
		strings.TrimSpace(f.State) != ""
}

// TotalLandArea is the sum of all land parcel areas, in acres.
func (f *Farmer) TotalLandArea() float64 {
	var total float64
	for _, l := range f.Lands {
		total += l.Area
	}
	return total
}

const (
	LandIrrigated = "irrigated"
	LandRainFed   = "rain-fed"
	LandDry       = "dry"

	OwnershipOwned        = "owned"
	OwnershipLeased       = "leased"
	OwnershipSharecropper = "sharecropper"
)

type Land struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FarmerID      uint      `gorm:"not null;index" json:"farmerId"`
	SurveyNumber  string    `gorm:"size:50" json:"surveyNumber,omitempty"`
	Area          float64   `gorm:"not null" json:"area"` // acres
	LandType      string    `gorm:"size:20" json:"landType,omitempty"`
	OwnershipType string    `gorm:"size:20" json:"ownershipType,omitempty"`
	SoilType      string    `gorm:"size:50" json:"soilType,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

const (
	SeasonKharif = "kharif"
	SeasonRabi   = "rabi"
	SeasonSummer = "summer"
)

type Crop struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	FarmerID        uint       `gorm:"not null;index" json:"farmerId"`
	LandID          *uint      `gorm:"index" json:"landId,omitempty"`
	CropName        string     `gorm:"size:100;not null" json:"cropName"`
	Variety         string     `gorm:"size:100" json:"variety,omitempty"`
	Season          string     `gorm:"size:10" json:"season,omitempty"`
	SowingDate      *time.Time `json:"sowingDate,omitempty"`
	ExpectedHarvest *time.Time `json:"expectedHarvest,omitempty"`
	Area            *float64   `json:"area,omitempty"`
	Year            int        `gorm:"not null;index" json:"year"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type Livestock struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FarmerID   uint      `gorm:"not null;index" json:"farmerId"`
	AnimalType string    `gorm:"size:20;not null" json:"animalType"`
	Count      int       `gorm:"not null" json:"count"`
	Breed      string    `gorm:"size:100" json:"breed,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Livestock) TableName() string {
	return "livestock"
}

var (
	validCategories  = set("general", "obc", "sc", "st")
	validGenders     = set("male", "female", "other")
	validLanguages   = set("en", "hi", "te", "ta", "bn", "gu", "mr", "pa", "kn", "ml", "or")
	validLandTypes   = set(LandIrrigated, LandRainFed, LandDry)
	validOwnerships  = set(OwnershipOwned, OwnershipLeased, OwnershipSharecropper)
	validSeasons     = set(SeasonKharif, SeasonRabi, SeasonSummer)
	validAnimalTypes = set("cow", "buffalo", "goat", "sheep", "poultry")
)

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
