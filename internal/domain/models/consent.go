// internal/domain/models/consent.go
package models

import "time"

// CookieConsents are the per-category cookie choices. Necessary is
// always true; it is stored so the record is self-describing.
type CookieConsents struct {
	Necessary   bool `json:"necessary"`
	Analytics   bool `json:"analytics"`
	Marketing   bool `json:"marketing"`
	Preferences bool `json:"preferences"`
}

// CookieConsent is the persisted record under the "cookie-consent" key.
type CookieConsent struct {
	Consents  CookieConsents `json:"consents"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
}
