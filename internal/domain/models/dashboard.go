// internal/domain/models/dashboard.go
package models

import "time"

// ActivityUser identifies who performed an activity.
type ActivityUser struct {
	Name string `bson:"name" json:"name"`
	Role string `bson:"role" json:"role"`
}

// Activity is an immutable dashboard log entry. Order is whatever the
// backend returns (newest first).
type Activity struct {
	ID          string       `bson:"_id" json:"id"`
	CompanyID   string       `bson:"company_id,omitempty" json:"companyId,omitempty"`
	Type        string       `bson:"type" json:"type"`
	Description string       `bson:"description" json:"description"`
	Timestamp   time.Time    `bson:"timestamp" json:"timestamp"`
	User        ActivityUser `bson:"user" json:"user"`
	Status      string       `bson:"status" json:"status"`
	Priority    string       `bson:"priority,omitempty" json:"priority,omitempty"`
}

// Alert is a dashboard alert. IsRead is the only field that changes
// after creation.
type Alert struct {
	ID             string    `bson:"_id" json:"id"`
	CompanyID      string    `bson:"company_id,omitempty" json:"companyId,omitempty"`
	Type           string    `bson:"type" json:"type"` // info | warning | error | success
	Title          string    `bson:"title" json:"title"`
	Message        string    `bson:"message" json:"message"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
	IsRead         bool      `bson:"is_read" json:"isRead"`
	Priority       string    `bson:"priority" json:"priority"` // low | medium | high | critical
	ActionRequired bool      `bson:"action_required" json:"actionRequired"`
}

// StatCard is one tile of a dashboard card grid.
type StatCard struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// Stats is the role-tagged dashboard counter bag. Each role has its own
// concrete type; Role identifies which one a value is and Cards lays it
// out for the role's card grid.
type Stats interface {
	Role() Role
	Cards() []StatCard
}

// TeamStats is the team breakdown shared by supervisor and contractor
// admin dashboards.
type TeamStats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	OnLeave int `json:"onLeave"`
}

type SuperAdminStats struct {
	TotalCompanies   int     `json:"totalCompanies"`
	ActiveCompanies  int     `json:"activeCompanies"`
	TotalUsers       int     `json:"totalUsers"`
	ActiveUsers      int     `json:"activeUsers"`
	TotalContractors int     `json:"totalContractors"`
	PendingApprovals int     `json:"pendingApprovals"`
	MonthlyRevenue   float64 `json:"monthlyRevenue"`
	SystemUptime     float64 `json:"systemUptime"`
	ComplianceRate   float64 `json:"complianceRate"`
}

func (SuperAdminStats) Role() Role { return RoleSuperAdmin }

func (s SuperAdminStats) Cards() []StatCard {
	return []StatCard{
		{Key: "totalCompanies", Label: "Companies", Value: float64(s.TotalCompanies)},
		{Key: "activeUsers", Label: "Active users", Value: float64(s.ActiveUsers)},
		{Key: "totalContractors", Label: "Contractors", Value: float64(s.TotalContractors)},
		{Key: "monthlyRevenue", Label: "Monthly revenue", Value: s.MonthlyRevenue, Unit: "USD"},
		{Key: "systemUptime", Label: "System uptime", Value: s.SystemUptime, Unit: "%"},
		{Key: "complianceRate", Label: "Compliance", Value: s.ComplianceRate, Unit: "%"},
	}
}

type SafetyStaffStats struct {
	PendingReviews         int     `json:"pendingReviews"`
	ActiveWorkPermits      int     `json:"activeWorkPermits"`
	IncidentsThisMonth     int     `json:"incidentsThisMonth"`
	InspectionsScheduled   int     `json:"inspectionsScheduled"`
	HighRiskContractors    int     `json:"highRiskContractors"`
	ExpiringCertifications int     `json:"expiringCertifications"`
	ComplianceRate         float64 `json:"complianceRate"`
}

func (SafetyStaffStats) Role() Role { return RoleSafetyStaff }

func (s SafetyStaffStats) Cards() []StatCard {
	return []StatCard{
		{Key: "pendingReviews", Label: "Pending reviews", Value: float64(s.PendingReviews)},
		{Key: "activeWorkPermits", Label: "Active permits", Value: float64(s.ActiveWorkPermits)},
		{Key: "incidentsThisMonth", Label: "Incidents this month", Value: float64(s.IncidentsThisMonth)},
		{Key: "inspectionsScheduled", Label: "Inspections scheduled", Value: float64(s.InspectionsScheduled)},
		{Key: "complianceRate", Label: "Compliance", Value: s.ComplianceRate, Unit: "%"},
	}
}

type ClientSupervisorStats struct {
	ActiveContractors int       `json:"activeContractors"`
	PendingApprovals  int       `json:"pendingApprovals"`
	ActiveWorkPermits int       `json:"activeWorkPermits"`
	ComplianceRate    float64   `json:"complianceRate"`
	TeamStats         TeamStats `json:"teamStats"`
}

func (ClientSupervisorStats) Role() Role { return RoleClientSupervisor }

func (s ClientSupervisorStats) Cards() []StatCard {
	return []StatCard{
		{Key: "activeContractors", Label: "Active contractors", Value: float64(s.ActiveContractors)},
		{Key: "pendingApprovals", Label: "Pending approvals", Value: float64(s.PendingApprovals)},
		{Key: "activeWorkPermits", Label: "Active permits", Value: float64(s.ActiveWorkPermits)},
		{Key: "teamStats.active", Label: "Team active", Value: float64(s.TeamStats.Active)},
		{Key: "complianceRate", Label: "Compliance", Value: s.ComplianceRate, Unit: "%"},
	}
}

type ClientApproverStats struct {
	PendingApprovals     int     `json:"pendingApprovals"`
	ApprovedToday        int     `json:"approvedToday"`
	RejectedToday        int     `json:"rejectedToday"`
	UrgentRequests       int     `json:"urgentRequests"`
	AverageApprovalHours float64 `json:"averageApprovalHours"`
}

func (ClientApproverStats) Role() Role { return RoleClientApprover }

func (s ClientApproverStats) Cards() []StatCard {
	return []StatCard{
		{Key: "pendingApprovals", Label: "Pending approvals", Value: float64(s.PendingApprovals)},
		{Key: "approvedToday", Label: "Approved today", Value: float64(s.ApprovedToday)},
		{Key: "rejectedToday", Label: "Rejected today", Value: float64(s.RejectedToday)},
		{Key: "urgentRequests", Label: "Urgent", Value: float64(s.UrgentRequests)},
		{Key: "averageApprovalHours", Label: "Avg. approval time", Value: s.AverageApprovalHours, Unit: "h"},
	}
}

type ClientStaffStats struct {
	AssignedCourses        int     `json:"assignedCourses"`
	CompletedCourses       int     `json:"completedCourses"`
	PendingTasks           int     `json:"pendingTasks"`
	CertificationsExpiring int     `json:"certificationsExpiring"`
	ComplianceRate         float64 `json:"complianceRate"`
}

func (ClientStaffStats) Role() Role { return RoleClientStaff }

func (s ClientStaffStats) Cards() []StatCard {
	return []StatCard{
		{Key: "assignedCourses", Label: "Assigned courses", Value: float64(s.AssignedCourses)},
		{Key: "completedCourses", Label: "Completed courses", Value: float64(s.CompletedCourses)},
		{Key: "pendingTasks", Label: "Pending tasks", Value: float64(s.PendingTasks)},
		{Key: "certificationsExpiring", Label: "Expiring certifications", Value: float64(s.CertificationsExpiring)},
		{Key: "complianceRate", Label: "Compliance", Value: s.ComplianceRate, Unit: "%"},
	}
}

type ValidadoresOpsStats struct {
	ValidationsToday   int `json:"validationsToday"`
	PendingValidations int `json:"pendingValidations"`
	VehiclesOnSite     int `json:"vehiclesOnSite"`
	WorkersOnSite      int `json:"workersOnSite"`
	RejectedEntries    int `json:"rejectedEntries"`
}

func (ValidadoresOpsStats) Role() Role { return RoleValidadoresOps }

func (s ValidadoresOpsStats) Cards() []StatCard {
	return []StatCard{
		{Key: "validationsToday", Label: "Validations today", Value: float64(s.ValidationsToday)},
		{Key: "pendingValidations", Label: "Pending validations", Value: float64(s.PendingValidations)},
		{Key: "vehiclesOnSite", Label: "Vehicles on site", Value: float64(s.VehiclesOnSite)},
		{Key: "workersOnSite", Label: "Workers on site", Value: float64(s.WorkersOnSite)},
		{Key: "rejectedEntries", Label: "Rejected entries", Value: float64(s.RejectedEntries)},
	}
}

type ContratistaAdminStats struct {
	TotalEmployees    int       `json:"totalEmployees"`
	ActiveWorkPermits int       `json:"activeWorkPermits"`
	PendingDocuments  int       `json:"pendingDocuments"`
	AverageRating     float64   `json:"averageRating"`
	ComplianceRate    float64   `json:"complianceRate"`
	TeamStats         TeamStats `json:"teamStats"`
}

func (ContratistaAdminStats) Role() Role { return RoleContratistaAdmin }

func (s ContratistaAdminStats) Cards() []StatCard {
	return []StatCard{
		{Key: "totalEmployees", Label: "Employees", Value: float64(s.TotalEmployees)},
		{Key: "activeWorkPermits", Label: "Active permits", Value: float64(s.ActiveWorkPermits)},
		{Key: "pendingDocuments", Label: "Pending documents", Value: float64(s.PendingDocuments)},
		{Key: "averageRating", Label: "Average rating", Value: s.AverageRating},
		{Key: "complianceRate", Label: "Compliance", Value: s.ComplianceRate, Unit: "%"},
	}
}

type ContratistaSubalternosStats struct {
	AssignedTasks       int     `json:"assignedTasks"`
	CompletedTasks      int     `json:"completedTasks"`
	CoursesInProgress   int     `json:"coursesInProgress"`
	CertificationsValid int     `json:"certificationsValid"`
	ComplianceRate      float64 `json:"complianceRate"`
}

func (ContratistaSubalternosStats) Role() Role { return RoleContratistaSubalternos }

func (s ContratistaSubalternosStats) Cards() []StatCard {
	return []StatCard{
		{Key: "assignedTasks", Label: "Assigned tasks", Value: float64(s.AssignedTasks)},
		{Key: "completedTasks", Label: "Completed tasks", Value: float64(s.CompletedTasks)},
		{Key: "coursesInProgress", Label: "Courses in progress", Value: float64(s.CoursesInProgress)},
		{Key: "certificationsValid", Label: "Valid certifications", Value: float64(s.CertificationsValid)},
		{Key: "complianceRate", Label: "Compliance", Value: s.ComplianceRate, Unit: "%"},
	}
}

type ContratistaHuerfanoStats struct {
	ActiveProjects    int     `json:"activeProjects"`
	CompletedProjects int     `json:"completedProjects"`
	PendingInvoices   int     `json:"pendingInvoices"`
	TotalEarnings     float64 `json:"totalEarnings"`
	AverageRating     float64 `json:"averageRating"`
	ComplianceRate    float64 `json:"complianceRate"`
}

func (ContratistaHuerfanoStats) Role() Role { return RoleContratistaHuerfano }

func (s ContratistaHuerfanoStats) Cards() []StatCard {
	return []StatCard{
		{Key: "activeProjects", Label: "Active projects", Value: float64(s.ActiveProjects)},
		{Key: "completedProjects", Label: "Completed projects", Value: float64(s.CompletedProjects)},
		{Key: "pendingInvoices", Label: "Pending invoices", Value: float64(s.PendingInvoices)},
		{Key: "totalEarnings", Label: "Earnings", Value: s.TotalEarnings, Unit: "USD"},
		{Key: "complianceRate", Label: "Compliance", Value: s.ComplianceRate, Unit: "%"},
	}
}
