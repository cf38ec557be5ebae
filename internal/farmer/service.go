package farmer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/krishimitra/farmer-portal-backend/internal/auditlog"
)

// ErrValidation wraps every input rejection so handlers can map it to 400.
var ErrValidation = errors.New("validation failed")

var (
	aadharPattern  = regexp.MustCompile(`^\d{12}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
	ifscPattern    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	mobilePattern  = regexp.MustCompile(`^\+?\d{10,14}$`)
)

type Service interface {
	ProvisionProfile(ctx context.Context, userID uint) error
	FarmerIDForUser(ctx context.Context, userID uint) (uint, error)

	GetProfile(ctx context.Context, farmerID uint) (*Farmer, error)
	UpdateProfile(ctx context.Context, farmerID uint, req UpdateProfileRequest) (*Farmer, error)

	AddLand(ctx context.Context, farmerID uint, req LandRequest) (*Land, error)
	UpdateLand(ctx context.Context, farmerID, landID uint, req LandRequest) (*Land, error)
	AddCrop(ctx context.Context, farmerID uint, req CropRequest) (*Crop, error)
	UpdateCrop(ctx context.Context, farmerID, cropID uint, req CropRequest) (*Crop, error)
	AddLivestock(ctx context.Context, farmerID uint, req LivestockRequest) (*Livestock, error)
	UpdateLivestock(ctx context.Context, farmerID, livestockID uint, req LivestockRequest) (*Livestock, error)
}

type service struct {
	repo   Repository
	audit  auditlog.Service
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, audit auditlog.Service, logger *zap.Logger) Service {
	return &service{repo: repo, audit: audit, logger: logger, now: time.Now}
}

// ProvisionProfile creates the blank profile a newly registered user owns.
func (s *service) ProvisionProfile(ctx context.Context, userID uint) error {
	f := &Farmer{UserID: userID, Language: "en"}
	if err := s.repo.CreateFarmer(ctx, f); err != nil {
		return err
	}
	s.logger.Info("farmer profile provisioned", zap.Uint("user_id", userID), zap.Uint("farmer_id", f.ID))
	return nil
}

func (s *service) FarmerIDForUser(ctx context.Context, userID uint) (uint, error) {
	f, err := s.repo.GetFarmerByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return f.ID, nil
}

func (s *service) GetProfile(ctx context.Context, farmerID uint) (*Farmer, error) {
	return s.repo.GetProfile(ctx, farmerID)
}

// ========== PROFILE ==========

func (s *service) UpdateProfile(ctx context.Context, farmerID uint, req UpdateProfileRequest) (*Farmer, error) {
	updates, err := profileUpdates(req)
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateFarmer(ctx, farmerID, updates); err != nil {
			s.audit.LogAction(ctx, &farmerID, auditlog.ActionProfileUpdated, nil, auditlog.StatusFailure)
			return nil, fmt.Errorf("update farmer %d: %w", farmerID, err)
		}
		fields := make([]string, 0, len(updates))
		for k := range updates {
			fields = append(fields, k)
		}
		s.audit.LogAction(ctx, &farmerID, auditlog.ActionProfileUpdated,
			map[string]interface{}{"fields": fields}, auditlog.StatusSuccess)
	}

	return s.repo.GetProfile(ctx, farmerID)
}

func profileUpdates(req UpdateProfileRequest) (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	str := func(column string, v *string) {
		if v != nil {
			updates[column] = strings.TrimSpace(*v)
		}
	}
	str("name", req.Name)
	str("father_name", req.FatherName)
	str("address", req.Address)
	str("village", req.Village)
	str("district", req.District)
	str("state", req.State)
	str("bank_account_number", req.BankAccountNumber)

	if req.Age != nil {
		if *req.Age < 1 || *req.Age > 150 {
			return nil, fmt.Errorf("%w: age must be between 1 and 150", ErrValidation)
		}
		updates["age"] = *req.Age
	}
	if req.Gender != nil {
		g := strings.ToLower(strings.TrimSpace(*req.Gender))
		if g != "" && !validGenders[g] {
			return nil, fmt.Errorf("%w: invalid gender %q", ErrValidation, *req.Gender)
		}
		updates["gender"] = g
	}
	if req.Category != nil {
		c := strings.ToLower(strings.TrimSpace(*req.Category))
		if c != "" && !validCategories[c] {
			return nil, fmt.Errorf("%w: invalid category %q", ErrValidation, *req.Category)
		}
		updates["category"] = c
	}
	if req.MobileNumber != nil {
		m := strings.TrimSpace(*req.MobileNumber)
		if m != "" && !mobilePattern.MatchString(m) {
			return nil, fmt.Errorf("%w: invalid mobile number", ErrValidation)
		}
		updates["mobile_number"] = m
	}
	if req.AadharNumber != nil {
		a := strings.TrimSpace(*req.AadharNumber)
		switch {
		case a == "":
			updates["aadhar_number"] = nil
		case !aadharPattern.MatchString(a):
			return nil, fmt.Errorf("%w: aadhar number must be 12 digits", ErrValidation)
		default:
			updates["aadhar_number"] = a
		}
	}
	if req.Pincode != nil {
		p := strings.TrimSpace(*req.Pincode)
		if p != "" && !pincodePattern.MatchString(p) {
			return nil, fmt.Errorf("%w: pincode must be 6 digits", ErrValidation)
		}
		updates["pincode"] = p
	}
	if req.IFSCCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.IFSCCode))
		if code != "" && !ifscPattern.MatchString(code) {
			return nil, fmt.Errorf("%w: invalid IFSC code", ErrValidation)
		}
		updates["ifsc_code"] = code
	}
	if req.Language != nil {
		l := strings.ToLower(strings.TrimSpace(*req.Language))
		if !validLanguages[l] {
			return nil, fmt.Errorf("%w: unsupported language %q", ErrValidation, *req.Language)
		}
		updates["language"] = l
	}
	if req.Latitude != nil {
		if *req.Latitude < -90 || *req.Latitude > 90 {
			return nil, fmt.Errorf("%w: latitude out of range", ErrValidation)
		}
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		if *req.Longitude < -180 || *req.Longitude > 180 {
			return nil, fmt.Errorf("%w: longitude out of range", ErrValidation)
		}
		updates["longitude"] = *req.Longitude
	}

	return updates, nil
}

// ========== LAND ==========

func validateLand(req LandRequest) error {
	if req.Area <= 0 {
		return fmt.Errorf("%w: land area must be greater than 0", ErrValidation)
	}
	if req.LandType != "" && !validLandTypes[req.LandType] {
		return fmt.Errorf("%w: invalid land type %q", ErrValidation, req.LandType)
	}
	if req.OwnershipType != "" && !validOwnerships[req.OwnershipType] {
		return fmt.Errorf("%w: invalid ownership type %q", ErrValidation, req.OwnershipType)
	}
	return nil
}

func (s *service) AddLand(ctx context.Context, farmerID uint, req LandRequest) (*Land, error) {
	if err := validateLand(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetFarmer(ctx, farmerID); err != nil {
		return nil, err
	}

	land := &Land{
		FarmerID:      farmerID,
		SurveyNumber:  req.SurveyNumber,
		Area:          req.Area,
		LandType:      req.LandType,
		OwnershipType: req.OwnershipType,
		SoilType:      req.SoilType,
	}
	if err := s.repo.CreateLand(ctx, land); err != nil {
		return nil, fmt.Errorf("create land: %w", err)
	}

	s.audit.LogAction(ctx, &farmerID, auditlog.ActionLandAdded,
		map[string]interface{}{"land_id": land.ID, "area": land.Area}, auditlog.StatusSuccess)
	return land, nil
}

func (s *service) UpdateLand(ctx context.Context, farmerID, landID uint, req LandRequest) (*Land, error) {
	if err := validateLand(req); err != nil {
		return nil, err
	}
	land, err := s.repo.GetLand(ctx, farmerID, landID)
	if err != nil {
		return nil, err
	}

	land.SurveyNumber = req.SurveyNumber
	land.Area = req.Area
	land.LandType = req.LandType
	land.OwnershipType = req.OwnershipType
	land.SoilType = req.SoilType
	if err := s.repo.UpdateLand(ctx, land); err != nil {
		return nil, fmt.Errorf("update land %d: %w", landID, err)
	}

	s.audit.LogAction(ctx, &farmerID, auditlog.ActionLandUpdated,
		map[string]interface{}{"land_id": land.ID}, auditlog.StatusSuccess)
	return land, nil
}

// ========== CROP ==========

func (s *service) validateCrop(ctx context.Context, farmerID uint, req *CropRequest) error {
	req.CropName = strings.TrimSpace(req.CropName)
	if req.CropName == "" {
		return fmt.Errorf("%w: crop name is required", ErrValidation)
	}
	if req.Season != "" && !validSeasons[req.Season] {
		return fmt.Errorf("%w: invalid season %q", ErrValidation, req.Season)
	}
	if req.Year == 0 {
		req.Year = s.now().Year()
	}
	if req.Year < 0 {
		return fmt.Errorf("%w: invalid year %d", ErrValidation, req.Year)
	}
	if req.Area != nil && *req.Area <= 0 {
		return fmt.Errorf("%w: crop area must be greater than 0", ErrValidation)
	}
	if req.LandID != nil {
		if _, err := s.repo.GetLand(ctx, farmerID, *req.LandID); err != nil {
			if errors.Is(err, ErrLandNotFound) {
				return fmt.Errorf("%w: land %d does not belong to this farmer", ErrValidation, *req.LandID)
			}
			return err
		}
	}
	return nil
}

func (s *service) AddCrop(ctx context.Context, farmerID uint, req CropRequest) (*Crop, error) {
	if err := s.validateCrop(ctx, farmerID, &req); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetFarmer(ctx, farmerID); err != nil {
		return nil, err
	}

	crop := &Crop{
		FarmerID:        farmerID,
		LandID:          req.LandID,
		CropName:        req.CropName,
		Variety:         req.Variety,
		Season:          req.Season,
		SowingDate:      req.SowingDate,
		ExpectedHarvest: req.ExpectedHarvest,
		Area:            req.Area,
		Year:            req.Year,
	}
	if err := s.repo.CreateCrop(ctx, crop); err != nil {
		return nil, fmt.Errorf("create crop: %w", err)
	}

	s.audit.LogAction(ctx, &farmerID, auditlog.ActionCropAdded,
		map[string]interface{}{"crop_id": crop.ID, "crop": crop.CropName, "year": crop.Year}, auditlog.StatusSuccess)
	return crop, nil
}

func (s *service) UpdateCrop(ctx context.Context, farmerID, cropID uint, req CropRequest) (*Crop, error) {
	if err := s.validateCrop(ctx, farmerID, &req); err != nil {
		return nil, err
	}
	crop, err := s.repo.GetCrop(ctx, farmerID, cropID)
	if err != nil {
		return nil, err
	}

	crop.LandID = req.LandID
	crop.CropName = req.CropName
	crop.Variety = req.Variety
	crop.Season = req.Season
	crop.SowingDate = req.SowingDate
	crop.ExpectedHarvest = req.ExpectedHarvest
	crop.Area = req.Area
	crop.Year = req.Year
	if err := s.repo.UpdateCrop(ctx, crop); err != nil {
		return nil, fmt.Errorf("update crop %d: %w", cropID, err)
	}

	s.audit.LogAction(ctx, &farmerID, auditlog.ActionCropUpdated,
		map[string]interface{}{"crop_id": crop.ID}, auditlog.StatusSuccess)
	return crop, nil
}

// ========== LIVESTOCK ==========

func validateLivestock(req LivestockRequest) error {
	if !validAnimalTypes[req.AnimalType] {
		return fmt.Errorf("%w: invalid animal type %q", ErrValidation, req.AnimalType)
	}
	if req.Count < 1 {
		return fmt.Errorf("%w: livestock count must be at least 1", ErrValidation)
	}
	return nil
}

func (s *service) AddLivestock(ctx context.Context, farmerID uint, req LivestockRequest) (*Livestock, error) {
	if err := validateLivestock(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetFarmer(ctx, farmerID); err != nil {
		return nil, err
	}

	animal := &Livestock{
		FarmerID:   farmerID,
		AnimalType: req.AnimalType,
		Count:      req.Count,
		Breed:      req.Breed,
	}
	if err := s.repo.CreateLivestock(ctx, animal); err != nil {
		return nil, fmt.Errorf("create livestock: %w", err)
	}

	s.audit.LogAction(ctx, &farmerID, auditlog.ActionLivestockAdded,
		map[string]interface{}{"livestock_id": animal.ID, "animal_type": animal.AnimalType, "count": animal.Count}, auditlog.StatusSuccess)
	return animal, nil
}

func (s *service) UpdateLivestock(ctx context.Context, farmerID, livestockID uint, req LivestockRequest) (*Livestock, error) {
	if err := validateLivestock(req); err != nil {
		return nil, err
	}
	animal, err := s.repo.GetLivestock(ctx, farmerID, livestockID)
	if err != nil {
		return nil, err
	}

	animal.AnimalType = req.AnimalType
	animal.Count = req.Count
	animal.Breed = req.Breed
	if err := s.repo.UpdateLivestock(ctx, animal); err != nil {
		return nil, fmt.Errorf("update livestock %d: %w", livestockID, err)
	}

	s.audit.LogAction(ctx, &farmerID, auditlog.ActionLivestockUpdated,
		map[string]interface{}{"livestock_id": animal.ID}, auditlog.StatusSuccess)
	return animal, nil
}
