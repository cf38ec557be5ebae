package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/krishimitra/farmer-portal-backend/internal/auditlog"
	"github.com/krishimitra/farmer-portal-backend/internal/notification"
	"github.com/krishimitra/farmer-portal-backend/internal/scheme"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// SchemeLookup resolves the scheme an application or bookmark refers to.
type SchemeLookup interface {
	GetByID(ctx context.Context, id uint) (*scheme.Scheme, error)
}

// Notifier fans out notifications that are already stored.
type Notifier interface {
	Deliver(ctx context.Context, n *notification.Notification)
}

type Service interface {
	AddBookmark(ctx context.Context, farmerID, schemeID uint) (*Bookmark, error)
	RemoveBookmark(ctx context.Context, farmerID, schemeID uint) error
	IsBookmarked(ctx context.Context, farmerID, schemeID uint) (bool, error)
	ListBookmarks(ctx context.Context, farmerID uint) ([]Bookmark, error)

	Submit(ctx context.Context, farmerID uint, req SubmitRequest) (*Application, error)
	List(ctx context.Context, farmerID uint) ([]Application, error)
	Get(ctx context.Context, farmerID, id uint) (*Application, error)
	Review(ctx context.Context, id uint, req ReviewRequest) (*Application, error)

	BookmarkedSchemeIDs(ctx context.Context, farmerID uint) (map[uint]bool, error)
	LatestApplicationStatuses(ctx context.Context, farmerID uint) (map[uint]string, error)
}

type service struct {
	repo     Repository
	schemes  SchemeLookup
	notifier Notifier
	events   Publisher
	audit    auditlog.Service
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(repo Repository, schemes SchemeLookup, notifier Notifier, events Publisher,
	audit auditlog.Service, logger *zap.Logger) Service {
	if events == nil {
		events = noopPublisher{}
	}
	return &service{
		repo:     repo,
		schemes:  schemes,
		notifier: notifier,
		events:   events,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
	}
}

// ========== BOOKMARKS ==========

// AddBookmark returns the existing bookmark when the pair is already saved.
func (s *service) AddBookmark(ctx context.Context, farmerID, schemeID uint) (*Bookmark, error) {
	if _, err := s.schemes.GetByID(ctx, schemeID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindBookmark(ctx, farmerID, schemeID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	b := &Bookmark{FarmerID: farmerID, SchemeID: schemeID}
	if err := s.repo.CreateBookmark(ctx, b); err != nil {
		return nil, fmt.Errorf("create bookmark: %w", err)
	}
	s.audit.LogAction(ctx, &farmerID, auditlog.ActionBookmarkAdded,
		map[string]interface{}{"schemeId": schemeID}, auditlog.StatusSuccess)
	return b, nil
}

// RemoveBookmark is a no-op when nothing is bookmarked.
func (s *service) RemoveBookmark(ctx context.Context, farmerID, schemeID uint) error {
	n, err := s.repo.DeleteBookmarks(ctx, farmerID, schemeID)
	if err != nil {
		return err
	}
	if n > 0 {
		s.audit.LogAction(ctx, &farmerID, auditlog.ActionBookmarkRemoved,
			map[string]interface{}{"schemeId": schemeID}, auditlog.StatusSuccess)
	}
	return nil
}

func (s *service) IsBookmarked(ctx context.Context, farmerID, schemeID uint) (bool, error) {
	_, err := s.repo.FindBookmark(ctx, farmerID, schemeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *service) ListBookmarks(ctx context.Context, farmerID uint) ([]Bookmark, error) {
	return s.repo.ListBookmarks(ctx, farmerID)
}

// ========== APPLICATIONS ==========

func (s *service) Submit(ctx context.Context, farmerID uint, req SubmitRequest) (*Application, error) {
	sch, err := s.schemes.GetByID(ctx, req.SchemeID)
	if err != nil {
		return nil, err
	}

	app := &Application{
		FarmerID:        farmerID,
		SchemeID:        sch.ID,
		Status:          StatusPending,
		ApplicationData: req.ApplicationData,
		SubmittedAt:     s.now(),
	}
	n := &notification.Notification{
		FarmerID:  farmerID,
		Title:     "Application Submitted",
		Message:   fmt.Sprintf("Your application for %s has been submitted successfully.", sch.Name),
		Type:      notification.TypeSuccess,
		ActionURL: "/applications",
	}

	if err := s.repo.CreateWithNotification(ctx, app, n); err != nil {
		s.audit.LogAction(ctx, &farmerID, auditlog.ActionApplicationCreated,
			map[string]interface{}{"schemeId": sch.ID, "error": err.Error()}, auditlog.StatusFailure)
		return nil, fmt.Errorf("submit application: %w", err)
	}
	app.Scheme = sch

	s.audit.LogAction(ctx, &farmerID, auditlog.ActionApplicationCreated,
		map[string]interface{}{"applicationId": app.ID, "schemeId": sch.ID}, auditlog.StatusSuccess)
	s.afterCommit(ctx, app, n, EventApplicationSubmitted)

	return app, nil
}

func (s *service) List(ctx context.Context, farmerID uint) ([]Application, error) {
	return s.repo.ListByFarmer(ctx, farmerID)
}

func (s *service) Get(ctx context.Context, farmerID, id uint) (*Application, error) {
	return s.repo.GetForFarmer(ctx, farmerID, id)
}

func (s *service) Review(ctx context.Context, id uint, req ReviewRequest) (*Application, error) {
	if !IsValidStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, req.Status)
	}
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(app.Status, req.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, app.Status, req.Status)
	}
	if req.BenefitReceived != nil && *req.BenefitReceived < 0 {
		return nil, fmt.Errorf("%w: benefit received cannot be negative", ErrValidation)
	}

	from := app.Status
	now := s.now()
	app.Status = req.Status
	app.ReviewedAt = &now
	app.ReviewNotes = req.Notes
	if req.Status == StatusCompleted {
		app.BenefitReceived = req.BenefitReceived
		app.ReceivedAt = req.ReceivedAt
		if app.ReceivedAt == nil {
			app.ReceivedAt = &now
		}
	}

	n := reviewNotification(app)
	if err := s.repo.ReviewWithNotification(ctx, app, from, n); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return nil, fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
		}
		return nil, fmt.Errorf("review application: %w", err)
	}

	s.audit.LogAction(ctx, &app.FarmerID, auditlog.ActionApplicationReview,
		map[string]interface{}{"applicationId": app.ID, "from": from, "to": app.Status}, auditlog.StatusSuccess)
	s.afterCommit(ctx, app, n, "application."+app.Status)

	return app, nil
}

func reviewNotification(app *Application) *notification.Notification {
	name := "your scheme"
	if app.Scheme != nil {
		name = app.Scheme.Name
	}

	n := &notification.Notification{
		FarmerID:  app.FarmerID,
		Type:      notification.TypeSuccess,
		ActionURL: "/applications",
	}
	switch app.Status {
	case StatusApproved:
		n.Title = "Application Approved"
		n.Message = fmt.Sprintf("Your application for %s has been approved.", name)
	case StatusRejected:
		n.Title = "Application Rejected"
		n.Type = notification.TypeWarning
		n.Message = fmt.Sprintf("Your application for %s was not approved.", name)
		if app.ReviewNotes != "" {
			n.Message += " Reason: " + app.ReviewNotes
		}
	case StatusCompleted:
		n.Title = "Benefit Disbursed"
		n.Message = fmt.Sprintf("The benefit for %s has been disbursed.", name)
	}
	return n
}

// afterCommit runs the best-effort side effects of a committed change.
func (s *service) afterCommit(ctx context.Context, app *Application, n *notification.Notification, eventType string) {
	if s.notifier != nil {
		s.notifier.Deliver(ctx, n)
	}

	err := s.events.Publish(ctx, Event{
		Type:          eventType,
		ApplicationID: app.ID,
		FarmerID:      app.FarmerID,
		SchemeID:      app.SchemeID,
		Status:        app.Status,
		OccurredAt:    s.now(),
	})
	if err != nil {
		s.logger.Warn("application event publish failed",
			zap.Uint("application_id", app.ID), zap.String("type", eventType), zap.Error(err))
	}
}

// ========== ENGAGEMENT ==========

func (s *service) BookmarkedSchemeIDs(ctx context.Context, farmerID uint) (map[uint]bool, error) {
	ids, err := s.repo.BookmarkedSchemeIDs(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// LatestApplicationStatuses maps scheme id to the status of the farmer's most
// recent application for it.
func (s *service) LatestApplicationStatuses(ctx context.Context, farmerID uint) (map[uint]string, error) {
	apps, err := s.repo.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]string)
	for _, a := range apps {
		if _, seen := out[a.SchemeID]; !seen {
			out[a.SchemeID] = a.Status
		}
	}
	return out, nil
}
