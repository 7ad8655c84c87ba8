package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/system/auditlog"
	"github.com/dalemusser/safetyapp/internal/app/system/inputval"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"go.uber.org/zap"
)

// ErrNoCompany is returned for company-scoped sections when the actor
// has no company.
var ErrNoCompany = errors.New("settings: actor has no company")

// Audit log page bounds.
const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 200
)

// Actor identifies who is reading or changing settings.
type Actor struct {
	UserID    string
	CompanyID string
}

// Service reads and writes settings sections.
type Service struct {
	repo  Repository
	audit *auditlog.Logger
	log   *zap.Logger
	now   func() time.Time
}

// NewService returns a Service. audit may be nil to skip audit logging.
func NewService(repo Repository, audit *auditlog.Logger, logger *zap.Logger) *Service {
	return &Service{repo: repo, audit: audit, log: logger, now: func() time.Time { return time.Now().UTC() }}
}

func load[T any](ctx context.Context, s *Service, section, owner string, def T) (T, error) {
	var out T
	ok, err := s.repo.Load(ctx, section, owner, &out)
	if err != nil {
		return def, fmt.Errorf("settings: load %s: %w", section, err)
	}
	if !ok {
		return def, nil
	}
	return out, nil
}

func save[T any](ctx context.Context, s *Service, a Actor, section, owner string, before, after T) error {
	if err := s.repo.Save(ctx, section, owner, after); err != nil {
		return fmt.Errorf("settings: save %s: %w", section, err)
	}
	changes := Diff(before, after)
	s.audit.SettingsUpdated(ctx, a.CompanyID, a.UserID, section, changes)
	s.log.Info("settings updated",
		zap.String("section", section),
		zap.String("user_id", a.UserID),
		zap.Int("changes", len(changes)))
	return nil
}

func (s *Service) stamp() *time.Time {
	t := s.now()
	return &t
}

// GetCompany returns the actor's company settings or defaults.
func (s *Service) GetCompany(ctx context.Context, a Actor) (models.CompanySettings, error) {
	if a.CompanyID == "" {
		return models.CompanySettings{}, ErrNoCompany
	}
	return load(ctx, s, models.SettingsCompany, a.CompanyID, models.CompanySettings{
		CompanyID: a.CompanyID,
		Timezone:  models.DefaultTimezone,
		Language:  models.DefaultLanguage,
	})
}

// UpdateCompany validates and saves the actor's company settings.
func (s *Service) UpdateCompany(ctx context.Context, a Actor, in models.CompanySettings) (models.CompanySettings, error) {
	before, err := s.GetCompany(ctx, a)
	if err != nil {
		return models.CompanySettings{}, err
	}
	in.CompanyID = a.CompanyID
	if err := inputval.Validate(in).Err(); err != nil {
		return models.CompanySettings{}, err
	}
	in.UpdatedAt = s.stamp()
	if err := save(ctx, s, a, models.SettingsCompany, a.CompanyID, before, in); err != nil {
		return models.CompanySettings{}, err
	}
	return in, nil
}

// GetSecurity returns the actor's company security policy or defaults.
func (s *Service) GetSecurity(ctx context.Context, a Actor) (models.SecuritySettings, error) {
	if a.CompanyID == "" {
		return models.SecuritySettings{}, ErrNoCompany
	}
	return load(ctx, s, models.SettingsSecurity, a.CompanyID, models.DefaultSecuritySettings(a.CompanyID))
}

// UpdateSecurity validates and saves the company security policy.
func (s *Service) UpdateSecurity(ctx context.Context, a Actor, in models.SecuritySettings) (models.SecuritySettings, error) {
	before, err := s.GetSecurity(ctx, a)
	if err != nil {
		return models.SecuritySettings{}, err
	}
	in.CompanyID = a.CompanyID
	if err := inputval.Validate(in).Err(); err != nil {
		return models.SecuritySettings{}, err
	}
	in.UpdatedAt = s.stamp()
	if err := save(ctx, s, a, models.SettingsSecurity, a.CompanyID, before, in); err != nil {
		return models.SecuritySettings{}, err
	}
	return in, nil
}

// GetNotifications returns the actor's notification preferences.
func (s *Service) GetNotifications(ctx context.Context, a Actor) (models.NotificationSettings, error) {
	return load(ctx, s, models.SettingsNotifications, a.UserID, models.DefaultNotificationSettings(a.UserID))
}

// UpdateNotifications validates and saves notification preferences.
func (s *Service) UpdateNotifications(ctx context.Context, a Actor, in models.NotificationSettings) (models.NotificationSettings, error) {
	before, err := s.GetNotifications(ctx, a)
	if err != nil {
		return models.NotificationSettings{}, err
	}
	in.UserID = a.UserID
	if err := inputval.Validate(in).Err(); err != nil {
		return models.NotificationSettings{}, err
	}
	in.UpdatedAt = s.stamp()
	if err := save(ctx, s, a, models.SettingsNotifications, a.UserID, before, in); err != nil {
		return models.NotificationSettings{}, err
	}
	return in, nil
}

// GetTheme returns the actor's theme or defaults.
func (s *Service) GetTheme(ctx context.Context, a Actor) (models.ThemeSettings, error) {
	return load(ctx, s, models.SettingsTheme, a.UserID, models.DefaultThemeSettings(a.UserID))
}

// UpdateTheme validates and saves the actor's theme.
func (s *Service) UpdateTheme(ctx context.Context, a Actor, in models.ThemeSettings) (models.ThemeSettings, error) {
	before, err := s.GetTheme(ctx, a)
	if err != nil {
		return models.ThemeSettings{}, err
	}
	in.UserID = a.UserID
	if err := inputval.Validate(in).Err(); err != nil {
		return models.ThemeSettings{}, err
	}
	in.UpdatedAt = s.stamp()
	if err := save(ctx, s, a, models.SettingsTheme, a.UserID, before, in); err != nil {
		return models.ThemeSettings{}, err
	}
	return in, nil
}

// GetProfile returns the actor's profile.
func (s *Service) GetProfile(ctx context.Context, a Actor) (models.ProfileSettings, error) {
	return load(ctx, s, models.SettingsProfile, a.UserID, models.ProfileSettings{UserID: a.UserID})
}

// UpdateProfile validates and saves the actor's profile.
func (s *Service) UpdateProfile(ctx context.Context, a Actor, in models.ProfileSettings) (models.ProfileSettings, error) {
	before, err := s.GetProfile(ctx, a)
	if err != nil {
		return models.ProfileSettings{}, err
	}
	in.UserID = a.UserID
	if err := inputval.Validate(in).Err(); err != nil {
		return models.ProfileSettings{}, err
	}
	in.UpdatedAt = s.stamp()
	if err := save(ctx, s, a, models.SettingsProfile, a.UserID, before, in); err != nil {
		return models.ProfileSettings{}, err
	}
	return in, nil
}

// AuditLogs returns the company's most recent settings changes.
func (s *Service) AuditLogs(ctx context.Context, companyID string, limit int) ([]models.AuditLog, error) {
	if companyID == "" {
		return nil, ErrNoCompany
	}
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	if limit > MaxAuditLimit {
		limit = MaxAuditLimit
	}
	return s.audit.Recent(ctx, companyID, limit)
}

// Diff returns the JSON fields whose value differs between before and
// after, keyed by JSON name with the new value rendered as text. Owner
// ids and timestamps are ignored.
func Diff(before, after any) map[string]string {
	b := toMap(before)
	a := toMap(after)
	keys := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool)
	for k := range a {
		keys = append(keys, k)
		seen[k] = true
	}
	for k := range b {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	changes := make(map[string]string)
	for _, k := range keys {
		switch k {
		case "companyId", "userId", "updatedAt":
			continue
		}
		if reflect.DeepEqual(a[k], b[k]) {
			continue
		}
		changes[k] = render(a[k])
	}
	return changes
}

func toMap(v any) map[string]any {
	out := map[string]any{}
	raw, err := json.Marshal(v)
	if err != nil {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}

func render(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool, float64:
		return fmt.Sprint(t)
	default:
		raw, _ := json.Marshal(t)
		return string(raw)
	}
}
