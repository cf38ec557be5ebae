package scheme

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrSchemeNotFound = errors.New("scheme not found")

type Repository interface {
	Create(ctx context.Context, s *Scheme) error
	Update(ctx context.Context, s *Scheme) error
	GetByID(ctx context.Context, id uint) (*Scheme, error)
	ListActive(ctx context.Context) ([]Scheme, error)
	ListAll(ctx context.Context) ([]Scheme, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Scheme) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) Update(ctx context.Context, s *Scheme) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Scheme, error) {
	var s Scheme
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchemeNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListActive returns active schemes in catalog order (ascending id).
func (r *repository) ListActive(ctx context.Context) ([]Scheme, error) {
	var schemes []Scheme
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&schemes).Error
	return schemes, err
}

func (r *repository) ListAll(ctx context.Context) ([]Scheme, error) {
	var schemes []Scheme
	err := r.db.WithContext(ctx).Order("id ASC").Find(&schemes).Error
	return schemes, err
}

func (r *repository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Scheme{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
