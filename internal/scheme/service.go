package scheme

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/krishimitra/farmer-portal-backend/internal/auditlog"
	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
)

var ErrValidation = errors.New("validation failed")

// ProfileSource loads a farmer with lands, crops and livestock.
type ProfileSource interface {
	GetProfile(ctx context.Context, farmerID uint) (*farmer.Farmer, error)
}

// EngagementLookup reports what a farmer has already done with schemes.
type EngagementLookup interface {
	BookmarkedSchemeIDs(ctx context.Context, farmerID uint) (map[uint]bool, error)
	LatestApplicationStatuses(ctx context.Context, farmerID uint) (map[uint]string, error)
}

// InsightProvider produces optional commentary for already ranked schemes.
type InsightProvider interface {
	SchemeInsights(ctx context.Context, f *farmer.Farmer, schemes []Scheme) (map[uint]Insight, error)
}

// SchemeDetail is one scheme as seen by a specific farmer.
type SchemeDetail struct {
	Scheme
	MatchPercentage   int         `json:"matchPercentage"`
	Criteria          []Criterion `json:"criteria"`
	IsBookmarked      bool        `json:"isBookmarked"`
	ApplicationStatus string      `json:"applicationStatus,omitempty"`
}

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]Scheme, error)
	ListAll(ctx context.Context) ([]Scheme, error)
	Get(ctx context.Context, id uint) (*Scheme, error)
	GetForFarmer(ctx context.Context, id, farmerID uint) (*SchemeDetail, error)
	Recommend(ctx context.Context, farmerID uint) ([]Recommendation, error)

	Create(ctx context.Context, req SchemeRequest) (*Scheme, error)
	Update(ctx context.Context, id uint, req SchemeRequest) (*Scheme, error)
}

type service struct {
	repo       Repository
	profiles   ProfileSource
	engagement EngagementLookup
	insights   InsightProvider
	audit      auditlog.Service
	policy     Policy
	logger     *zap.Logger
}

// NewService wires the catalog. insights may be nil.
func NewService(repo Repository, profiles ProfileSource, engagement EngagementLookup, insights InsightProvider,
	audit auditlog.Service, policy Policy, logger *zap.Logger) Service {
	return &service{
		repo:       repo,
		profiles:   profiles,
		engagement: engagement,
		insights:   insights,
		audit:      audit,
		policy:     policy,
		logger:     logger,
	}
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Scheme, error) {
	schemes, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active schemes: %w", err)
	}
	if filter.State == "" && filter.Crop == "" {
		return schemes, nil
	}

	out := make([]Scheme, 0, len(schemes))
	for _, sc := range schemes {
		if filter.State != "" && len(sc.TargetStates) > 0 && !containsFold(sc.TargetStates, filter.State) {
			continue
		}
		if filter.Crop != "" && len(sc.TargetCrops) > 0 && !containsFold(sc.TargetCrops, filter.Crop) {
			continue
		}
		out = append(out, sc)
	}
	return out, nil
}

func (s *service) ListAll(ctx context.Context) ([]Scheme, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) Get(ctx context.Context, id uint) (*Scheme, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetForFarmer(ctx context.Context, id, farmerID uint) (*SchemeDetail, error) {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetProfile(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	ev := Evaluate(profile, sc)
	detail := &SchemeDetail{Scheme: *sc, MatchPercentage: ev.Percentage, Criteria: ev.Criteria}

	bookmarks, statuses := s.lookupEngagement(ctx, farmerID)
	detail.IsBookmarked = bookmarks[sc.ID]
	detail.ApplicationStatus = statuses[sc.ID]
	return detail, nil
}

// Recommend ranks the active catalog for a farmer. Farmers without a name or
// location get the first few active schemes, unscored.
func (s *service) Recommend(ctx context.Context, farmerID uint) ([]Recommendation, error) {
	profile, err := s.profiles.GetProfile(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	schemes, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active schemes: %w", err)
	}

	var recs []Recommendation
	if !profile.IsComplete() {
		recs = fallback(schemes)
	} else {
		recs = Rank(profile, schemes, s.policy)
	}

	bookmarks, statuses := s.lookupEngagement(ctx, farmerID)
	for i := range recs {
		recs[i].IsBookmarked = bookmarks[recs[i].Scheme.ID]
		recs[i].ApplicationStatus = statuses[recs[i].Scheme.ID]
	}

	if profile.IsComplete() {
		s.attachInsights(ctx, profile, recs)
	}
	return recs, nil
}

func (s *service) lookupEngagement(ctx context.Context, farmerID uint) (map[uint]bool, map[uint]string) {
	if s.engagement == nil {
		return nil, nil
	}
	bookmarks, err := s.engagement.BookmarkedSchemeIDs(ctx, farmerID)
	if err != nil {
		s.logger.Warn("bookmark lookup failed", zap.Uint("farmer_id", farmerID), zap.Error(err))
	}
	statuses, err := s.engagement.LatestApplicationStatuses(ctx, farmerID)
	if err != nil {
		s.logger.Warn("application status lookup failed", zap.Uint("farmer_id", farmerID), zap.Error(err))
	}
	return bookmarks, statuses
}

// attachInsights never changes ranking or percentages.
func (s *service) attachInsights(ctx context.Context, profile *farmer.Farmer, recs []Recommendation) {
	if s.insights == nil || len(recs) == 0 {
		return
	}
	schemes := make([]Scheme, len(recs))
	for i := range recs {
		schemes[i] = recs[i].Scheme
	}

	insights, err := s.insights.SchemeInsights(ctx, profile, schemes)
	if err != nil {
		s.logger.Warn("scheme insights unavailable", zap.Uint("farmer_id", profile.ID), zap.Error(err))
		return
	}
	for i := range recs {
		if in, ok := insights[recs[i].Scheme.ID]; ok {
			recs[i].Reasoning = in.Reasoning
			recs[i].NextSteps = in.NextSteps
		}
	}
}

// ========== ADMIN ==========

func (s *service) Create(ctx context.Context, req SchemeRequest) (*Scheme, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	sc := &Scheme{IsActive: true}
	applyRequest(sc, req)

	if err := s.repo.Create(ctx, sc); err != nil {
		return nil, fmt.Errorf("create scheme: %w", err)
	}
	s.audit.LogAction(ctx, nil, auditlog.ActionSchemeCreated,
		map[string]interface{}{"scheme_id": sc.ID, "name": sc.Name}, auditlog.StatusSuccess)
	s.logger.Info("scheme created", zap.Uint("scheme_id", sc.ID), zap.String("name", sc.Name))
	return sc, nil
}

func (s *service) Update(ctx context.Context, id uint, req SchemeRequest) (*Scheme, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyRequest(sc, req)

	if err := s.repo.Update(ctx, sc); err != nil {
		return nil, fmt.Errorf("update scheme %d: %w", id, err)
	}
	s.audit.LogAction(ctx, nil, auditlog.ActionSchemeUpdated,
		map[string]interface{}{"scheme_id": sc.ID}, auditlog.StatusSuccess)
	return sc, nil
}

func validateRequest(req SchemeRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	switch req.SchemeType {
	case TypeCentral, TypeState, TypeDistrict:
	default:
		return fmt.Errorf("%w: invalid scheme type %q", ErrValidation, req.SchemeType)
	}
	if req.LandSizeMin != nil && req.LandSizeMax != nil && *req.LandSizeMin > *req.LandSizeMax {
		return fmt.Errorf("%w: landSizeMin exceeds landSizeMax", ErrValidation)
	}
	if req.AgeMin != nil && req.AgeMax != nil && *req.AgeMin > *req.AgeMax {
		return fmt.Errorf("%w: ageMin exceeds ageMax", ErrValidation)
	}
	if req.BenefitAmount != nil && *req.BenefitAmount < 0 {
		return fmt.Errorf("%w: benefitAmount must not be negative", ErrValidation)
	}
	return nil
}

func applyRequest(sc *Scheme, req SchemeRequest) {
	sc.Name = strings.TrimSpace(req.Name)
	sc.Description = req.Description
	sc.Benefits = req.Benefits
	sc.EligibilityCriteria = req.EligibilityCriteria
	sc.RequiredDocuments = req.RequiredDocuments
	sc.ApplicationProcess = req.ApplicationProcess
	sc.Deadline = req.Deadline
	sc.SchemeType = req.SchemeType
	sc.Department = req.Department
	sc.BenefitAmount = req.BenefitAmount
	if req.IsActive != nil {
		sc.IsActive = *req.IsActive
	}
	sc.TargetStates = normalizeList(req.TargetStates)
	sc.TargetCrops = normalizeList(req.TargetCrops)
	sc.ApplicableCategories = normalizeList(req.ApplicableCategories)
	sc.LandSizeMin = req.LandSizeMin
	sc.LandSizeMax = req.LandSizeMax
	sc.AgeMin = req.AgeMin
	sc.AgeMax = req.AgeMax
}

// normalizeList lowercases and trims; an empty result means unrestricted.
func normalizeList(in []string) []string {
	var out []string
	for _, v := range in {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
