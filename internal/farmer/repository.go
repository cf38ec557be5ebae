package farmer

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrFarmerNotFound    = errors.New("farmer not found")
	ErrLandNotFound      = errors.New("land not found")
	ErrCropNotFound      = errors.New("crop not found")
	ErrLivestockNotFound = errors.New("livestock not found")
)

type Repository interface {
	CreateFarmer(ctx context.Context, f *Farmer) error
	GetFarmer(ctx context.Context, id uint) (*Farmer, error)
	GetFarmerByUserID(ctx context.Context, userID uint) (*Farmer, error)
	GetProfile(ctx context.Context, id uint) (*Farmer, error)
	UpdateFarmer(ctx context.Context, id uint, updates map[string]interface{}) error

	CreateLand(ctx context.Context, l *Land) error
	GetLand(ctx context.Context, farmerID, id uint) (*Land, error)
	ListLands(ctx context.Context, farmerID uint) ([]Land, error)
	UpdateLand(ctx context.Context, l *Land) error

	CreateCrop(ctx context.Context, c *Crop) error
	GetCrop(ctx context.Context, farmerID, id uint) (*Crop, error)
	ListCrops(ctx context.Context, farmerID uint) ([]Crop, error)
	UpdateCrop(ctx context.Context, c *Crop) error

	CreateLivestock(ctx context.Context, l *Livestock) error
	GetLivestock(ctx context.Context, farmerID, id uint) (*Livestock, error)
	ListLivestock(ctx context.Context, farmerID uint) ([]Livestock, error)
	UpdateLivestock(ctx context.Context, l *Livestock) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// ========== FARMER ==========

func (r *repository) CreateFarmer(ctx context.Context, f *Farmer) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *repository) GetFarmer(ctx context.Context, id uint) (*Farmer, error) {
	var f Farmer
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, notFound(err, ErrFarmerNotFound)
	}
	return &f, nil
}

func (r *repository) GetFarmerByUserID(ctx context.Context, userID uint) (*Farmer, error) {
	var f Farmer
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&f).Error; err != nil {
		return nil, notFound(err, ErrFarmerNotFound)
	}
	return &f, nil
}

// GetProfile loads the farmer with every land, crop and livestock record.
func (r *repository) GetProfile(ctx context.Context, id uint) (*Farmer, error) {
	var f Farmer
	err := r.db.WithContext(ctx).
		Preload("Lands", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Crops", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Livestock", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&f, id).Error
	if err != nil {
		return nil, notFound(err, ErrFarmerNotFound)
	}
	return &f, nil
}

func (r *repository) UpdateFarmer(ctx context.Context, id uint, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Farmer{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFarmerNotFound
	}
	return nil
}

// ========== LAND ==========

func (r *repository) CreateLand(ctx context.Context, l *Land) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) GetLand(ctx context.Context, farmerID, id uint) (*Land, error) {
	var l Land
	err := r.db.WithContext(ctx).Where("id = ? AND farmer_id = ?", id, farmerID).First(&l).Error
	if err != nil {
		return nil, notFound(err, ErrLandNotFound)
	}
	return &l, nil
}

func (r *repository) ListLands(ctx context.Context, farmerID uint) ([]Land, error) {
	var lands []Land
	err := r.db.WithContext(ctx).Where("farmer_id = ?", farmerID).Order("id ASC").Find(&lands).Error
	return lands, err
}

func (r *repository) UpdateLand(ctx context.Context, l *Land) error {
	return r.db.WithContext(ctx).Save(l).Error
}

// ========== CROP ==========

func (r *repository) CreateCrop(ctx context.Context, c *Crop) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) GetCrop(ctx context.Context, farmerID, id uint) (*Crop, error) {
	var c Crop
	err := r.db.WithContext(ctx).Where("id = ? AND farmer_id = ?", id, farmerID).First(&c).Error
	if err != nil {
		return nil, notFound(err, ErrCropNotFound)
	}
	return &c, nil
}

func (r *repository) ListCrops(ctx context.Context, farmerID uint) ([]Crop, error) {
	var crops []Crop
	err := r.db.WithContext(ctx).Where("farmer_id = ?", farmerID).Order("id ASC").Find(&crops).Error
	return crops, err
}

func (r *repository) UpdateCrop(ctx context.Context, c *Crop) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// ========== LIVESTOCK ==========

func (r *repository) CreateLivestock(ctx context.Context, l *Livestock) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) GetLivestock(ctx context.Context, farmerID, id uint) (*Livestock, error) {
	var l Livestock
	err := r.db.WithContext(ctx).Where("id = ? AND farmer_id = ?", id, farmerID).First(&l).Error
	if err != nil {
		return nil, notFound(err, ErrLivestockNotFound)
	}
	return &l, nil
}

func (r *repository) ListLivestock(ctx context.Context, farmerID uint) ([]Livestock, error) {
	var animals []Livestock
	err := r.db.WithContext(ctx).Where("farmer_id = ?", farmerID).Order("id ASC").Find(&animals).Error
	return animals, err
}

func (r *repository) UpdateLivestock(ctx context.Context, l *Livestock) error {
	return r.db.WithContext(ctx).Save(l).Error
}
