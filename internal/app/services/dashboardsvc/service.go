// Package dashboardsvc wraps the backend dashboard endpoints and owns the
// canned data shown when the backend cannot be reached.
package dashboardsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dalemusser/safetyapp/internal/app/system/apiclient"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"go.uber.org/zap"
)

// Backend endpoints.
const (
	pathStats      = "/api/dashboard/stats"
	pathActivities = "/api/dashboard/activities"
	pathAlerts     = "/api/dashboard/alerts"
)

// AlertsAll requests every alert regardless of type.
const AlertsAll = "all"

// Service calls the backend dashboard API.
type Service struct {
	api *apiclient.Client
	Log *zap.Logger
}

// New returns a Service backed by api.
func New(api *apiclient.Client, logger *zap.Logger) *Service {
	return &Service{api: api, Log: logger}
}

// GetStats fetches the dashboard counters and decodes them as role's type.
// Every role reads the same endpoint; the backend scopes by token.
func (s *Service) GetStats(ctx context.Context, role models.Role) (models.Stats, error) {
	spec, err := Spec(role)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := s.api.GetJSON(ctx, pathStats, nil, &raw); err != nil {
		return nil, err
	}
	stats, err := spec.Decode(apiclient.Unwrap(raw))
	if err != nil {
		return nil, fmt.Errorf("dashboardsvc: decode %s stats: %w", role, err)
	}
	return stats, nil
}

// GetActivities fetches one page of recent activities.
func (s *Service) GetActivities(ctx context.Context, limit, offset int) ([]models.Activity, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var raw json.RawMessage
	if err := s.api.GetJSON(ctx, pathActivities, q, &raw); err != nil {
		return nil, err
	}
	var out []models.Activity
	if err := json.Unmarshal(apiclient.Unwrap(raw), &out); err != nil {
		return nil, fmt.Errorf("dashboardsvc: decode activities: %w", err)
	}
	return out, nil
}

// GetAlerts fetches alerts of alertType (AlertsAll for every type).
func (s *Service) GetAlerts(ctx context.Context, alertType string) ([]models.Alert, error) {
	q := url.Values{}
	q.Set("type", alertType)

	var raw json.RawMessage
	if err := s.api.GetJSON(ctx, pathAlerts, q, &raw); err != nil {
		return nil, err
	}
	var out []models.Alert
	if err := json.Unmarshal(apiclient.Unwrap(raw), &out); err != nil {
		return nil, fmt.Errorf("dashboardsvc: decode alerts: %w", err)
	}
	return out, nil
}

// MarkAlertAsRead tells the backend alert id has been read.
func (s *Service) MarkAlertAsRead(ctx context.Context, id string) error {
	return s.api.PutJSON(ctx, pathAlerts+"/"+url.PathEscape(id)+"/read", nil, nil)
}

// GetSection fetches one supplementary slot as raw JSON.
func (s *Service) GetSection(ctx context.Context, sec Section) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := s.api.GetJSON(ctx, sec.Path, nil, &raw); err != nil {
		return nil, err
	}
	return apiclient.Unwrap(raw), nil
}
