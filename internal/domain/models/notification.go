// internal/domain/models/notification.go
package models

import "time"

// Notification priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Notification is a per-user message. Read flips once from false to
// true and stamps ReadAt; it never flips back.
type Notification struct {
	ID        string            `bson:"_id" json:"id"`
	UserID    string            `bson:"user_id" json:"userId"`
	CompanyID string            `bson:"company_id,omitempty" json:"companyId,omitempty"`
	Type      string            `bson:"type" json:"type"` // work_permit | course | review | system | compliance
	Title     string            `bson:"title" json:"title"`
	Message   string            `bson:"message" json:"message"`
	Priority  string            `bson:"priority" json:"priority"`
	Read      bool              `bson:"read" json:"read"`
	ReadAt    *time.Time        `bson:"read_at,omitempty" json:"readAt,omitempty"`
	Metadata  map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time         `bson:"created_at" json:"createdAt"`
}
