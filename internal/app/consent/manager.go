package consent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/safetyapp/internal/app/system/inputval"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"go.uber.org/zap"
)

// Storage keys, per visitor.
const (
	ConsentKey = "cookie-consent"
	ThemeKey   = "themeSettings"
)

// DefaultTTL keeps a stored choice for a year.
const DefaultTTL = 365 * 24 * time.Hour

var (
	ErrNoVisitor           = errors.New("consent: visitor id required")
	ErrPreferencesDeclined = errors.New("consent: preference cookies not accepted")
)

// State is what the banner needs: the current choice and whether to ask.
type State struct {
	Consent   models.CookieConsent `json:"consent"`
	IsVisible bool                 `json:"isVisible"`
}

// ThemePreferences are display preferences kept for anonymous visitors.
type ThemePreferences struct {
	Mode         string `json:"mode" validate:"oneof=light dark system" label:"Mode"`
	PrimaryColor string `json:"primaryColor" validate:"hexcolor" label:"Primary colour"`
	FontSize     string `json:"fontSize" validate:"oneof=small medium large" label:"Font size"`
	Compact      bool   `json:"compact"`
}

// DefaultThemePreferences mirrors the signed-in default theme.
func DefaultThemePreferences() ThemePreferences {
	d := models.DefaultThemeSettings("")
	return ThemePreferences{Mode: d.Mode, PrimaryColor: d.PrimaryColor, FontSize: d.FontSize}
}

// Manager reads and writes consent records. A record saved under an
// older version is treated as absent so the banner shows again.
type Manager struct {
	kv      KV
	version string
	ttl     time.Duration
	log     *zap.Logger
	now     func() time.Time
}

// NewManager returns a Manager. ttl <= 0 uses DefaultTTL.
func NewManager(kv KV, version string, ttl time.Duration, logger *zap.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{kv: kv, version: version, ttl: ttl, log: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Version returns the current consent version.
func (m *Manager) Version() string { return m.version }

func key(visitor, name string) string { return visitor + ":" + name }

// Get returns the visitor's stored consent. IsVisible is true when
// nothing is stored or the stored version is stale.
func (m *Manager) Get(ctx context.Context, visitor string) (State, error) {
	if visitor == "" {
		return State{}, ErrNoVisitor
	}
	pending := State{
		Consent:   models.CookieConsent{Consents: models.CookieConsents{Necessary: true}, Version: m.version},
		IsVisible: true,
	}
	raw, ok, err := m.kv.Get(ctx, key(visitor, ConsentKey))
	if err != nil {
		return State{}, fmt.Errorf("consent: get: %w", err)
	}
	if !ok {
		return pending, nil
	}
	var c models.CookieConsent
	if err := json.Unmarshal(raw, &c); err != nil {
		m.log.Warn("discarding unreadable consent record", zap.String("visitor", visitor), zap.Error(err))
		return pending, nil
	}
	if c.Version != m.version {
		return pending, nil
	}
	return State{Consent: c, IsVisible: false}, nil
}

// Save stores a custom choice. Necessary is always forced on.
func (m *Manager) Save(ctx context.Context, visitor string, c models.CookieConsents) (State, error) {
	if visitor == "" {
		return State{}, ErrNoVisitor
	}
	c.Necessary = true
	rec := models.CookieConsent{Consents: c, Timestamp: m.now(), Version: m.version}
	raw, err := json.Marshal(rec)
	if err != nil {
		return State{}, err
	}
	if err := m.kv.Set(ctx, key(visitor, ConsentKey), raw, m.ttl); err != nil {
		return State{}, fmt.Errorf("consent: save: %w", err)
	}
	m.log.Debug("cookie consent saved",
		zap.String("visitor", visitor),
		zap.Bool("analytics", c.Analytics),
		zap.Bool("marketing", c.Marketing),
		zap.Bool("preferences", c.Preferences))
	return State{Consent: rec, IsVisible: false}, nil
}

// AcceptAll stores consent to every category.
func (m *Manager) AcceptAll(ctx context.Context, visitor string) (State, error) {
	return m.Save(ctx, visitor, models.CookieConsents{Necessary: true, Analytics: true, Marketing: true, Preferences: true})
}

// RejectAll stores consent to necessary cookies only.
func (m *Manager) RejectAll(ctx context.Context, visitor string) (State, error) {
	return m.Save(ctx, visitor, models.CookieConsents{Necessary: true})
}

// Reset forgets the visitor's choice so the banner shows again.
func (m *Manager) Reset(ctx context.Context, visitor string) error {
	if visitor == "" {
		return ErrNoVisitor
	}
	return m.kv.Delete(ctx, key(visitor, ConsentKey))
}

// Theme returns the visitor's saved theme or the default.
func (m *Manager) Theme(ctx context.Context, visitor string) (ThemePreferences, error) {
	if visitor == "" {
		return ThemePreferences{}, ErrNoVisitor
	}
	raw, ok, err := m.kv.Get(ctx, key(visitor, ThemeKey))
	if err != nil {
		return ThemePreferences{}, fmt.Errorf("consent: get theme: %w", err)
	}
	if !ok {
		return DefaultThemePreferences(), nil
	}
	var p ThemePreferences
	if err := json.Unmarshal(raw, &p); err != nil {
		return DefaultThemePreferences(), nil
	}
	return p, nil
}

// SaveTheme validates and stores theme preferences. Visitors who have
// not consented to preference cookies are refused.
func (m *Manager) SaveTheme(ctx context.Context, visitor string, p ThemePreferences) (ThemePreferences, error) {
	st, err := m.Get(ctx, visitor)
	if err != nil {
		return ThemePreferences{}, err
	}
	if st.IsVisible || !st.Consent.Consents.Preferences {
		return ThemePreferences{}, ErrPreferencesDeclined
	}
	if err := inputval.Validate(p).Err(); err != nil {
		return ThemePreferences{}, err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return ThemePreferences{}, err
	}
	if err := m.kv.Set(ctx, key(visitor, ThemeKey), raw, m.ttl); err != nil {
		return ThemePreferences{}, fmt.Errorf("consent: save theme: %w", err)
	}
	return p, nil
}
