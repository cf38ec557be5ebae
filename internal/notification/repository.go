package notification

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByFarmer(ctx context.Context, farmerID uint, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, farmerID, id uint) error
	MarkAllRead(ctx context.Context, farmerID uint) (int64, error)
	UnreadCount(ctx context.Context, farmerID uint) (int64, error)

	UpsertDevice(ctx context.Context, d *DeviceToken) error
	ActiveTokens(ctx context.Context, farmerID uint) ([]string, error)
	DeactivateTokens(ctx context.Context, tokens []string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ListByFarmer returns newest first; limit <= 0 means all.
func (r *repository) ListByFarmer(ctx context.Context, farmerID uint, limit int) ([]Notification, error) {
	var out []Notification
	q := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// MarkRead only touches notifications owned by farmerID.
func (r *repository) MarkRead(ctx context.Context, farmerID, id uint) error {
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND farmer_id = ?", id, farmerID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *repository) MarkAllRead(ctx context.Context, farmerID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Where("farmer_id = ? AND is_read = ?", farmerID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *repository) UnreadCount(ctx context.Context, farmerID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("farmer_id = ? AND is_read = ?", farmerID, false).
		Count(&n).Error
	return n, err
}

// UpsertDevice registers a token, moving it to farmerID if another farmer had it.
func (r *repository) UpsertDevice(ctx context.Context, d *DeviceToken) error {
	d.IsActive = true
	d.LastUsedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"farmer_id", "platform", "is_active", "last_used_at", "updated_at"}),
	}).Create(d).Error
}

func (r *repository) ActiveTokens(ctx context.Context, farmerID uint) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).Model(&DeviceToken{}).
		Where("farmer_id = ? AND is_active = ?", farmerID, true).
		Pluck("token", &tokens).Error
	return tokens, err
}

func (r *repository) DeactivateTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&DeviceToken{}).
		Where("token IN ?", tokens).
		Update("is_active", false).Error
}
