package application

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/krishimitra/farmer-portal-backend/internal/notification"
)

var ErrApplicationNotFound = errors.New("application not found")

type Repository interface {
	// CreateWithNotification stores app and n in one transaction.
	CreateWithNotification(ctx context.Context, app *Application, n *notification.Notification) error
	// ReviewWithNotification writes the review fields of app, guarded on its
	// previous status, and stores n in the same transaction.
	ReviewWithNotification(ctx context.Context, app *Application, from string, n *notification.Notification) error
	GetByID(ctx context.Context, id uint) (*Application, error)
	GetForFarmer(ctx context.Context, farmerID, id uint) (*Application, error)
	ListByFarmer(ctx context.Context, farmerID uint) ([]Application, error)

	FindBookmark(ctx context.Context, farmerID, schemeID uint) (*Bookmark, error)
	CreateBookmark(ctx context.Context, b *Bookmark) error
	DeleteBookmarks(ctx context.Context, farmerID, schemeID uint) (int64, error)
	ListBookmarks(ctx context.Context, farmerID uint) ([]Bookmark, error)
	BookmarkedSchemeIDs(ctx context.Context, farmerID uint) ([]uint, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithNotification(ctx context.Context, app *Application, n *notification.Notification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Scheme").Create(app).Error; err != nil {
			return err
		}
		return tx.Create(n).Error
	})
}

func (r *repository) ReviewWithNotification(ctx context.Context, app *Application, from string, n *notification.Notification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Application{}).
			Where("id = ? AND status = ?", app.ID, from).
			Updates(map[string]interface{}{
				"status":           app.Status,
				"reviewed_at":      app.ReviewedAt,
				"review_notes":     app.ReviewNotes,
				"benefit_received": app.BenefitReceived,
				"received_at":      app.ReceivedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		return tx.Create(n).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Application, error) {
	var app Application
	err := r.db.WithContext(ctx).Preload("Scheme").First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *repository) GetForFarmer(ctx context.Context, farmerID, id uint) (*Application, error) {
	var app Application
	err := r.db.WithContext(ctx).Preload("Scheme").
		Where("id = ? AND farmer_id = ?", id, farmerID).
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListByFarmer returns newest submissions first.
func (r *repository) ListByFarmer(ctx context.Context, farmerID uint) ([]Application, error) {
	var apps []Application
	err := r.db.WithContext(ctx).Preload("Scheme").
		Where("farmer_id = ?", farmerID).
		Order("submitted_at DESC").
		Order("id DESC").
		Find(&apps).Error
	return apps, err
}

// ========== BOOKMARKS ==========

func (r *repository) FindBookmark(ctx context.Context, farmerID, schemeID uint) (*Bookmark, error) {
	var b Bookmark
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND scheme_id = ?", farmerID, schemeID).
		Order("id ASC").
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) CreateBookmark(ctx context.Context, b *Bookmark) error {
	return r.db.WithContext(ctx).Omit("Scheme").Create(b).Error
}

func (r *repository) DeleteBookmarks(ctx context.Context, farmerID, schemeID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("farmer_id = ? AND scheme_id = ?", farmerID, schemeID).
		Delete(&Bookmark{})
	return res.RowsAffected, res.Error
}

func (r *repository) ListBookmarks(ctx context.Context, farmerID uint) ([]Bookmark, error) {
	var out []Bookmark
	err := r.db.WithContext(ctx).Preload("Scheme").
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) BookmarkedSchemeIDs(ctx context.Context, farmerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&Bookmark{}).
		Where("farmer_id = ?", farmerID).
		Distinct("scheme_id").
		Pluck("scheme_id", &ids).Error
	return ids, err
}
