package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/krishimitra/farmer-portal-backend/internal/auth"
	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
	"github.com/krishimitra/farmer-portal-backend/internal/scheme"
)

//go:embed seed.yaml
var seedYAML []byte

type Catalog struct {
	Schemes []SeedScheme `yaml:"schemes"`
	Demo    *SeedDemo    `yaml:"demo"`
}

type SeedScheme struct {
	Name                 string   `yaml:"name"`
	Description          string   `yaml:"description"`
	Benefits             string   `yaml:"benefits"`
	EligibilityCriteria  []string `yaml:"eligibilityCriteria"`
	RequiredDocuments    []string `yaml:"requiredDocuments"`
	ApplicationProcess   string   `yaml:"applicationProcess"`
	DeadlineDays         int      `yaml:"deadlineDays"`
	SchemeType           string   `yaml:"schemeType"`
	Department           string   `yaml:"department"`
	BenefitAmount        *float64 `yaml:"benefitAmount"`
	TargetStates         []string `yaml:"targetStates"`
	TargetCrops          []string `yaml:"targetCrops"`
	ApplicableCategories []string `yaml:"applicableCategories"`
	LandSizeMin          *float64 `yaml:"landSizeMin"`
	LandSizeMax          *float64 `yaml:"landSizeMax"`
	AgeMin               *int     `yaml:"ageMin"`
	AgeMax               *int     `yaml:"ageMax"`
}

type SeedDemo struct {
	Username string     `yaml:"username"`
	Password string     `yaml:"password"`
	Farmer   SeedFarmer `yaml:"farmer"`
	Lands    []SeedLand `yaml:"lands"`
	Crops    []SeedCrop `yaml:"crops"`
}

type SeedLand struct {
	SurveyNumber  string  `yaml:"surveyNumber"`
	Area          float64 `yaml:"area"`
	SoilType      string  `yaml:"soilType"`
	LandType      string  `yaml:"landType"`
	OwnershipType string  `yaml:"ownershipType"`
}

type SeedFarmer struct {
	Name              string `yaml:"name"`
	FatherName        string `yaml:"fatherName"`
	Age               int    `yaml:"age"`
	Gender            string `yaml:"gender"`
	MobileNumber      string `yaml:"mobileNumber"`
	AadharNumber      string `yaml:"aadharNumber"`
	State             string `yaml:"state"`
	District          string `yaml:"district"`
	Village           string `yaml:"village"`
	Pincode           string `yaml:"pincode"`
	Category          string `yaml:"category"`
	Address           string `yaml:"address"`
	BankAccountNumber string `yaml:"bankAccountNumber"`
	IFSCCode          string `yaml:"ifscCode"`
	Language          string `yaml:"language"`
}

type SeedCrop struct {
	CropName        string  `yaml:"cropName"`
	Variety         string  `yaml:"variety"`
	Area            float64 `yaml:"area"`
	Season          string  `yaml:"season"`
	Sowing          string  `yaml:"sowing"`
	Harvest         string  `yaml:"harvest"`
	HarvestNextYear bool    `yaml:"harvestNextYear"`
}

// SeedResult counts the rows a Seed run inserted.
type SeedResult struct {
	Schemes    int
	DemoFarmer bool
}

// LoadCatalog parses the embedded seed file.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(seedYAML)
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}
	return &c, nil
}

// Seed inserts the catalog schemes and the demo farmer. Schemes are matched by
// name and the demo account by username, so running it twice adds nothing.
func Seed(ctx context.Context, db *gorm.DB, c *Catalog, now time.Time, logger *zap.Logger) (SeedResult, error) {
	var res SeedResult
	logger.Info("🌱 Seeding database...")

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range c.Schemes {
			var count int64
			if err := tx.Model(&scheme.Scheme{}).Where("name = ?", s.Name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			row := s.toScheme(now)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("seed scheme %q: %w", s.Name, err)
			}
			res.Schemes++
		}

		if c.Demo == nil {
			return nil
		}
		created, err := seedDemo(tx, c.Demo, now)
		if err != nil {
			return err
		}
		res.DemoFarmer = created
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	logger.Info("✅ Seeding completed", zap.Int("schemes", res.Schemes), zap.Bool("demo_farmer", res.DemoFarmer))
	return res, nil
}

func seedDemo(tx *gorm.DB, d *SeedDemo, now time.Time) (bool, error) {
	var existing auth.User
	err := tx.Where("username = ?", d.Username).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(d.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	user := auth.User{Username: d.Username, PasswordHash: string(hash), Role: auth.RoleFarmer}
	if err := tx.Create(&user).Error; err != nil {
		return false, fmt.Errorf("seed demo user: %w", err)
	}

	f := d.Farmer.toFarmer(user.ID)
	if err := tx.Omit("Lands", "Crops", "Livestock").Create(&f).Error; err != nil {
		return false, fmt.Errorf("seed demo farmer: %w", err)
	}

	for _, sl := range d.Lands {
		l := farmer.Land{
			FarmerID:      f.ID,
			SurveyNumber:  sl.SurveyNumber,
			Area:          sl.Area,
			SoilType:      sl.SoilType,
			LandType:      sl.LandType,
			OwnershipType: sl.OwnershipType,
		}
		if err := tx.Create(&l).Error; err != nil {
			return false, fmt.Errorf("seed demo land: %w", err)
		}
	}

	year := now.Year()
	for _, sc := range d.Crops {
		crop, err := sc.toCrop(f.ID, year, now.Location())
		if err != nil {
			return false, err
		}
		if err := tx.Create(&crop).Error; err != nil {
			return false, fmt.Errorf("seed demo crop: %w", err)
		}
	}
	return true, nil
}

func (s SeedScheme) toScheme(now time.Time) scheme.Scheme {
	row := scheme.Scheme{
		Name:                 s.Name,
		Description:          s.Description,
		Benefits:             s.Benefits,
		EligibilityCriteria:  datatypes.JSONSlice[string](s.EligibilityCriteria),
		RequiredDocuments:    datatypes.JSONSlice[string](s.RequiredDocuments),
		ApplicationProcess:   s.ApplicationProcess,
		SchemeType:           s.SchemeType,
		Department:           s.Department,
		BenefitAmount:        s.BenefitAmount,
		IsActive:             true,
		TargetStates:         datatypes.JSONSlice[string](s.TargetStates),
		TargetCrops:          datatypes.JSONSlice[string](s.TargetCrops),
		ApplicableCategories: datatypes.JSONSlice[string](s.ApplicableCategories),
		LandSizeMin:          s.LandSizeMin,
		LandSizeMax:          s.LandSizeMax,
		AgeMin:               s.AgeMin,
		AgeMax:               s.AgeMax,
	}
	if s.DeadlineDays > 0 {
		d := now.AddDate(0, 0, s.DeadlineDays)
		row.Deadline = &d
	}
	return row
}

func (s SeedFarmer) toFarmer(userID uint) farmer.Farmer {
	age := s.Age
	f := farmer.Farmer{
		UserID:            userID,
		Name:              s.Name,
		FatherName:        s.FatherName,
		Age:               &age,
		Gender:            s.Gender,
		Category:          s.Category,
		MobileNumber:      s.MobileNumber,
		Address:           s.Address,
		Village:           s.Village,
		District:          s.District,
		State:             s.State,
		Pincode:           s.Pincode,
		BankAccountNumber: s.BankAccountNumber,
		IFSCCode:          s.IFSCCode,
		Language:          s.Language,
	}
	if s.AadharNumber != "" {
		aadhar := s.AadharNumber
		f.AadharNumber = &aadhar
	}
	return f
}

func (s SeedCrop) toCrop(farmerID uint, year int, loc *time.Location) (farmer.Crop, error) {
	sowing, err := monthDay(s.Sowing, year, loc)
	if err != nil {
		return farmer.Crop{}, fmt.Errorf("crop %s sowing: %w", s.CropName, err)
	}
	harvestYear := year
	if s.HarvestNextYear {
		harvestYear++
	}
	harvest, err := monthDay(s.Harvest, harvestYear, loc)
	if err != nil {
		return farmer.Crop{}, fmt.Errorf("crop %s harvest: %w", s.CropName, err)
	}
	area := s.Area
	return farmer.Crop{
		FarmerID:        farmerID,
		CropName:        s.CropName,
		Variety:         s.Variety,
		Area:            &area,
		Season:          s.Season,
		Year:            year,
		SowingDate:      &sowing,
		ExpectedHarvest: &harvest,
	}, nil
}

// monthDay parses "MM-DD" into a date in year.
func monthDay(v string, year int, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("01-02", v, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}
