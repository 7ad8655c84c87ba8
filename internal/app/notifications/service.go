package notifications

import (
	"context"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/system/htmlsanitize"
	"github.com/dalemusser/safetyapp/internal/app/system/inputval"
	"github.com/dalemusser/safetyapp/internal/app/system/paging"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// List paging bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// CreateInput is a new notification addressed to one user.
type CreateInput struct {
	UserID    string            `json:"userId" validate:"required" label:"User"`
	CompanyID string            `json:"companyId,omitempty"`
	Type      string            `json:"type" validate:"required,oneof=work_permit course review system compliance" label:"Type"`
	Title     string            `json:"title" validate:"required,max=200" label:"Title"`
	Message   string            `json:"message" validate:"required,max=2000" label:"Message"`
	Priority  string            `json:"priority" validate:"omitempty,oneof=low medium high urgent" label:"Priority"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Service applies notification rules over a Repository.
type Service struct {
	repo Repository
	log  *zap.Logger
	now  func() time.Time
}

// NewService returns a Service over repo.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, log: logger, now: func() time.Time { return time.Now().UTC() }}
}

// List returns userID's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string, f Filter) ([]models.Notification, error) {
	win := paging.Window{Limit: f.Limit, Offset: f.Offset}.Clamp(DefaultLimit, MaxLimit)
	f.Limit, f.Offset = win.Limit, win.Offset
	out, err := s.repo.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Notification{}
	}
	return out, nil
}

// UnreadCount returns how many of userID's notifications are unread.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// Create stores a new unread notification. Title and message are reduced
// to plain text before they are validated.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.Notification, error) {
	in.Title = htmlsanitize.PlainText(in.Title)
	in.Message = htmlsanitize.PlainText(in.Message)
	if err := inputval.Validate(in).Err(); err != nil {
		return models.Notification{}, err
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	n := models.Notification{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		CompanyID: in.CompanyID,
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		Priority:  in.Priority,
		Metadata:  in.Metadata,
		CreatedAt: s.now(),
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		return models.Notification{}, err
	}
	s.log.Debug("notification created",
		zap.String("notification_id", n.ID),
		zap.String("user_id", n.UserID),
		zap.String("type", n.Type))
	return n, nil
}

// MarkAsRead marks one of userID's notifications read. Marking an already
// read notification is not an error; a foreign or missing id is.
func (s *Service) MarkAsRead(ctx context.Context, userID, id string) error {
	ok, err := s.repo.MarkRead(ctx, userID, id, s.now())
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	exists, err := s.repo.Exists(ctx, userID, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

// MarkAllAsRead marks every unread notification of userID and returns
// how many changed.
func (s *Service) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	return s.repo.MarkAllRead(ctx, userID, s.now())
}

// Delete removes one of userID's notifications.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	ok, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// BulkDelete removes those of ids that belong to userID and returns how
// many were removed. Foreign and unknown ids are skipped.
func (s *Service) BulkDelete(ctx context.Context, userID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.repo.DeleteMany(ctx, userID, ids)
	if err != nil {
		return 0, err
	}
	if n < len(ids) {
		s.log.Debug("bulk delete skipped ids",
			zap.String("user_id", userID),
			zap.Int("requested", len(ids)),
			zap.Int("deleted", n))
	}
	return n, nil
}
