package dashboard

import (
	"encoding/json"

	"github.com/dalemusser/safetyapp/internal/app/services/dashboardsvc"
	"github.com/dalemusser/safetyapp/internal/domain/models"
)

// Refresh actions a placeholder offers.
const (
	ActionRefreshActivities = "refresh_activities"
	ActionRefreshAlerts     = "refresh_alerts"
)

// Placeholder replaces an empty list in a view.
type Placeholder struct {
	Message       string `json:"message"`
	RefreshAction string `json:"refreshAction"`
}

// Panel is one supplementary section. Data is null when the section
// failed to load.
type Panel struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// View is the rendered role dashboard.
type View struct {
	Role                  models.Role       `json:"role"`
	RoleLabel             string            `json:"roleLabel"`
	Cards                 []models.StatCard `json:"cards"`
	Panels                []Panel           `json:"panels"`
	Activities            []models.Activity `json:"activities"`
	ActivitiesPlaceholder *Placeholder      `json:"activitiesPlaceholder,omitempty"`
	Alerts                []models.Alert    `json:"alerts"`
	AlertsPlaceholder     *Placeholder      `json:"alertsPlaceholder,omitempty"`
	UnreadAlerts          int               `json:"unreadAlerts"`
	Warnings              []Warning         `json:"warnings,omitempty"`
	Loading               bool              `json:"loading"`
	Error                 string            `json:"error,omitempty"`
}

// BuildView lays out snap for its role. Missing stats fall back to the
// role's all-zero stats so the card grid is never blank.
func BuildView(snap Snapshot) (View, error) {
	spec, err := dashboardsvc.Spec(snap.Role)
	if err != nil {
		return View{}, err
	}

	stats := snap.Stats
	if stats == nil || stats.Role() != snap.Role {
		stats = spec.Default()
	}

	v := View{
		Role:       snap.Role,
		RoleLabel:  snap.Role.Label(),
		Cards:      stats.Cards(),
		Activities: snap.Activities,
		Alerts:     snap.Alerts,
		Warnings:   snap.Warnings,
		Loading:    snap.Loading,
		Error:      snap.Error,
	}
	for _, sec := range spec.Sections {
		v.Panels = append(v.Panels, Panel{Name: sec.Name, Data: snap.Sections[sec.Name]})
	}
	if len(v.Activities) == 0 {
		v.Activities = []models.Activity{}
		v.ActivitiesPlaceholder = &Placeholder{
			Message:       "No recent activity",
			RefreshAction: ActionRefreshActivities,
		}
	}
	if len(v.Alerts) == 0 {
		v.Alerts = []models.Alert{}
		v.AlertsPlaceholder = &Placeholder{
			Message:       "No alerts",
			RefreshAction: ActionRefreshAlerts,
		}
	}
	for _, a := range v.Alerts {
		if !a.IsRead {
			v.UnreadAlerts++
		}
	}
	return v, nil
}
