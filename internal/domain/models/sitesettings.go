// internal/domain/models/sitesettings.go
package models

import (
	"time"
)

// Settings sections. Each section is saved independently and produces
// its own audit log entry.
const (
	SettingsCompany       = "company"
	SettingsNotifications = "notifications"
	SettingsSecurity      = "security"
	SettingsTheme         = "theme"
	SettingsProfile       = "profile"
)

// CompanySettings is editable company information (one per company).
type CompanySettings struct {
	CompanyID string `bson:"company_id" json:"companyId"`
	Name      string `bson:"name" json:"name" validate:"required,max=200"`
	TaxID     string `bson:"tax_id,omitempty" json:"taxId,omitempty" validate:"max=40"`
	Address   string `bson:"address,omitempty" json:"address,omitempty" validate:"max=300"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty" validate:"max=40"`
	Email     string `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Timezone  string `bson:"timezone" json:"timezone" validate:"required,timezone"`
	Language  string `bson:"language" json:"language" validate:"required,oneof=es en pt"`

	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// NotificationSettings controls how a user is notified.
type NotificationSettings struct {
	UserID          string          `bson:"user_id" json:"userId"`
	Email           bool            `bson:"email" json:"email"`
	Push            bool            `bson:"push" json:"push"`
	SMS             bool            `bson:"sms" json:"sms"`
	Categories      map[string]bool `bson:"categories,omitempty" json:"categories,omitempty"`
	DigestFrequency string          `bson:"digest_frequency" json:"digestFrequency" validate:"oneof=none daily weekly"`

	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// SecuritySettings are company-wide security policies.
type SecuritySettings struct {
	CompanyID             string   `bson:"company_id" json:"companyId"`
	TwoFactorRequired     bool     `bson:"two_factor_required" json:"twoFactorRequired"`
	SessionTimeoutMinutes int      `bson:"session_timeout_minutes" json:"sessionTimeoutMinutes" validate:"gte=5,lte=480"`
	PasswordExpiryDays    int      `bson:"password_expiry_days" json:"passwordExpiryDays" validate:"gte=0,lte=365"`
	IPAllowlist           []string `bson:"ip_allowlist,omitempty" json:"ipAllowlist,omitempty" validate:"dive,cidr|ip"`

	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// ThemeSettings are a user's display preferences.
type ThemeSettings struct {
	UserID       string `bson:"user_id" json:"userId"`
	Mode         string `bson:"mode" json:"mode" validate:"oneof=light dark system"`
	PrimaryColor string `bson:"primary_color" json:"primaryColor" validate:"hexcolor"`
	FontSize     string `bson:"font_size" json:"fontSize" validate:"oneof=small medium large"`
	Compact      bool   `bson:"compact" json:"compact"`

	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// ProfileSettings are the user's own profile fields.
type ProfileSettings struct {
	UserID    string `bson:"user_id" json:"userId"`
	FullName  string `bson:"full_name" json:"fullName" validate:"required,max=120"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty" validate:"max=40"`
	Position  string `bson:"position,omitempty" json:"position,omitempty" validate:"max=120"`
	AvatarURL string `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty" validate:"omitempty,httpurl"`

	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// AuditLog records one settings change.
type AuditLog struct {
	ID        string            `bson:"_id" json:"id"`
	CompanyID string            `bson:"company_id" json:"companyId"`
	UserID    string            `bson:"user_id" json:"userId"`
	Section   string            `bson:"section" json:"section"`
	Action    string            `bson:"action" json:"action"`
	Changes   map[string]string `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time         `bson:"timestamp" json:"timestamp"`
}

// Defaults used when nothing has been saved yet.
const (
	DefaultTimezone       = "America/Santiago"
	DefaultLanguage       = "es"
	DefaultPrimaryColor   = "#1976d2"
	DefaultSessionTimeout = 60
)

// DefaultNotificationSettings returns the settings a new user starts with.
func DefaultNotificationSettings(userID string) NotificationSettings {
	return NotificationSettings{
		UserID:          userID,
		Email:           true,
		Push:            true,
		DigestFrequency: "daily",
		Categories: map[string]bool{
			"work_permit": true,
			"course":      true,
			"review":      true,
			"compliance":  true,
			"system":      true,
		},
	}
}

// DefaultThemeSettings returns the theme a new user starts with.
func DefaultThemeSettings(userID string) ThemeSettings {
	return ThemeSettings{
		UserID:       userID,
		Mode:         "light",
		PrimaryColor: DefaultPrimaryColor,
		FontSize:     "medium",
	}
}

// DefaultSecuritySettings returns the policy a new company starts with.
func DefaultSecuritySettings(companyID string) SecuritySettings {
	return SecuritySettings{
		CompanyID:             companyID,
		SessionTimeoutMinutes: DefaultSessionTimeout,
		PasswordExpiryDays:    90,
	}
}
