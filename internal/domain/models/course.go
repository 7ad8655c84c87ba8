package models

import "time"

// Course is a safety training course mirrored from TalentLMS by the
// backend.
type Course struct {
	ID            string    `json:"id"`
	TalentLMSID   string    `json:"talentLmsId,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	DurationHours float64   `json:"durationHours,omitempty"`
	Required      bool      `json:"required"`
	Status        string    `json:"status,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

// CourseProgress is one user's progress through a course.
type CourseProgress struct {
	CourseID    string     `json:"courseId"`
	CourseTitle string     `json:"courseTitle,omitempty"`
	Progress    float64    `json:"progress"` // 0-100
	Status      string     `json:"status"`   // not_started | in_progress | completed
	EnrolledAt  *time.Time `json:"enrolledAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// CourseSyncStatus reports the last TalentLMS synchronization.
type CourseSyncStatus struct {
	Status        string     `json:"status"` // idle | running | failed
	LastSync      *time.Time `json:"lastSync,omitempty"`
	CoursesSynced int        `json:"coursesSynced"`
	Message       string     `json:"message,omitempty"`
}
