package reviews

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/system/htmlsanitize"
	"github.com/dalemusser/safetyapp/internal/app/system/inputval"
	"github.com/dalemusser/safetyapp/internal/app/system/paging"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Errors returned by Service.
var (
	ErrForbidden = errors.New("reviews: only the reviewer may edit")
	ErrNoCompany = errors.New("reviews: reviewer has no company")
)

// Page bounds for ListByContractor.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Actor is the user writing a review.
type Actor struct {
	UserID    string
	Name      string
	CompanyID string
}

// Input is a review as submitted. A zero Rating asks for it to be derived.
type Input struct {
	ContractorID   string               `json:"contractorId" validate:"omitempty,objectid"`
	WorkPermitID   string               `json:"workPermitId,omitempty" validate:"omitempty,objectid"`
	Rating         float64              `json:"rating"`
	Metrics        models.ReviewMetrics `json:"metrics"`
	Comment        string               `json:"comment"`
	WouldRecommend bool                 `json:"wouldRecommend"`
}

// Service applies review rules over a Repository.
type Service struct {
	repo Repository
	log  *zap.Logger
	now  func() time.Time
}

// NewService returns a Service over repo.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, log: logger, now: func() time.Time { return time.Now().UTC() }}
}

func invalidField(field, msg string) error {
	res := &inputval.Result{Errors: []inputval.FieldError{{Field: field, Message: msg}}}
	return res.Err()
}

// ParseID parses a hex review or contractor id.
func ParseID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, invalidField(field, field+" is not a valid id.")
	}
	return id, nil
}

// Create validates and stores a new review.
func (s *Service) Create(ctx context.Context, a Actor, in Input) (models.Review, error) {
	companyID, err := primitive.ObjectIDFromHex(a.CompanyID)
	if err != nil {
		return models.Review{}, ErrNoCompany
	}
	if err := inputval.Validate(in).Err(); err != nil {
		return models.Review{}, err
	}
	contractorID, err := ParseID("contractorId", in.ContractorID)
	if err != nil {
		return models.Review{}, err
	}
	r := models.Review{
		ContractorID:   contractorID,
		CompanyID:      companyID,
		ReviewerID:     a.UserID,
		ReviewerName:   a.Name,
		Rating:         ResolveRating(in.Rating, in.Metrics, nil),
		Metrics:        in.Metrics,
		Comment:        htmlsanitize.PlainText(in.Comment),
		WouldRecommend: in.WouldRecommend,
	}
	if in.WorkPermitID != "" {
		wp, err := ParseID("workPermitId", in.WorkPermitID)
		if err != nil {
			return models.Review{}, err
		}
		r.WorkPermitID = &wp
	}
	if err := Validate(r); err != nil {
		return models.Review{}, err
	}

	now := s.now()
	r.CreatedAt = now
	r.UpdatedAt = now
	saved, err := s.repo.Insert(ctx, r)
	if err != nil {
		return models.Review{}, fmt.Errorf("reviews: insert: %w", err)
	}
	s.log.Info("review created",
		zap.String("review_id", saved.ID.Hex()),
		zap.String("contractor_id", saved.ContractorID.Hex()),
		zap.Float64("rating", saved.Rating))
	return saved, nil
}

// Update edits the actor's own review. A zero input rating keeps the
// stored rating.
func (s *Service) Update(ctx context.Context, a Actor, id primitive.ObjectID, in Input) (models.Review, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Review{}, err
	}
	if existing.ReviewerID != a.UserID {
		return models.Review{}, ErrForbidden
	}

	r := existing
	r.Rating = ResolveRating(in.Rating, in.Metrics, &existing)
	r.Metrics = in.Metrics
	r.Comment = htmlsanitize.PlainText(in.Comment)
	r.WouldRecommend = in.WouldRecommend
	if err := Validate(r); err != nil {
		return models.Review{}, err
	}

	r.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, r); err != nil {
		return models.Review{}, err
	}
	s.log.Info("review updated", zap.String("review_id", r.ID.Hex()))
	return r, nil
}

// ListByContractor returns a page of a contractor's reviews, newest first.
func (s *Service) ListByContractor(ctx context.Context, contractorID primitive.ObjectID, limit, offset int) ([]models.Review, error) {
	win := paging.Window{Limit: limit, Offset: offset}.Clamp(DefaultLimit, MaxLimit)
	return s.repo.ListByContractor(ctx, contractorID, win.Limit, win.Offset)
}

// Summary aggregates every review of a contractor.
func (s *Service) Summary(ctx context.Context, contractorID primitive.ObjectID) (Summary, error) {
	all, err := s.repo.ListByContractor(ctx, contractorID, 0, 0)
	if err != nil {
		return Summary{}, err
	}
	sum := Summarize(all)
	sum.ContractorID = contractorID.Hex()
	return sum, nil
}
