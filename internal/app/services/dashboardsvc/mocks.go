package dashboardsvc

import (
	"time"

	"github.com/dalemusser/safetyapp/internal/domain/models"
)

// MockActivities returns the two canned activities shown when the backend
// cannot be reached. Timestamps are relative to now.
func MockActivities(now time.Time) []models.Activity {
	return []models.Activity{
		{
			ID:          "mock-activity-1",
			Type:        "work_permit",
			Description: "Work permit WP-2024-001 submitted for approval",
			Timestamp:   now.Add(-30 * time.Minute),
			User:        models.ActivityUser{Name: "Carlos Muñoz", Role: string(models.RoleContratistaAdmin)},
			Status:      "pending",
			Priority:    models.PriorityHigh,
		},
		{
			ID:          "mock-activity-2",
			Type:        "course",
			Description: "Course \"Trabajo en Altura\" completed",
			Timestamp:   now.Add(-2 * time.Hour),
			User:        models.ActivityUser{Name: "María González", Role: string(models.RoleContratistaSubalternos)},
			Status:      "completed",
		},
	}
}

// MockAlerts returns the three canned alerts shown when the backend cannot
// be reached.
func MockAlerts(now time.Time) []models.Alert {
	return []models.Alert{
		{
			ID:             "mock-alert-1",
			Type:           "warning",
			Title:          "Certifications expiring",
			Message:        "5 contractor certifications expire within 30 days",
			Timestamp:      now.Add(-1 * time.Hour),
			Priority:       models.PriorityHigh,
			ActionRequired: true,
		},
		{
			ID:             "mock-alert-2",
			Type:           "info",
			Title:          "Pending approvals",
			Message:        "3 work permits are waiting for your approval",
			Timestamp:      now.Add(-3 * time.Hour),
			Priority:       models.PriorityMedium,
			ActionRequired: true,
		},
		{
			ID:        "mock-alert-3",
			Type:      "success",
			Title:     "Compliance updated",
			Message:   "Monthly compliance report is available",
			Timestamp: now.Add(-24 * time.Hour),
			IsRead:    true,
			Priority:  models.PriorityLow,
		},
	}
}
