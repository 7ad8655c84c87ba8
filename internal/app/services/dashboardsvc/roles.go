package dashboardsvc

import (
	"encoding/json"
	"fmt"

	"github.com/dalemusser/safetyapp/internal/domain/models"
)

// Section is one role-specific supplementary data slot.
type Section struct {
	Name string // slot name exposed to the view
	Path string // backend endpoint
}

// Supplementary endpoints.
var (
	SectionSystemHealth    = Section{Name: "systemHealth", Path: "/api/dashboard/system-health"}
	SectionRevenue         = Section{Name: "revenue", Path: "/api/dashboard/revenue"}
	SectionAPIUsage        = Section{Name: "apiUsage", Path: "/api/dashboard/api-usage"}
	SectionWorkPermitStats = Section{Name: "workPermitStats", Path: "/api/work-permits/stats"}
	SectionRiskAssessments = Section{Name: "riskAssessments", Path: "/api/dashboard/risk-assessments"}
	SectionIncidents       = Section{Name: "incidents", Path: "/api/dashboard/incidents"}
	SectionInspections     = Section{Name: "inspections", Path: "/api/dashboard/inspections"}
	SectionContractors     = Section{Name: "contractors", Path: "/api/dashboard/contractors"}
	SectionMyCourses       = Section{Name: "myCourses", Path: "/api/dashboard/my-courses"}
	SectionMyTasks         = Section{Name: "myTasks", Path: "/api/dashboard/my-tasks"}
	SectionTodayStats      = Section{Name: "todayStats", Path: "/api/dashboard/today-stats"}
	SectionVehicleAccess   = Section{Name: "vehicleAccess", Path: "/api/dashboard/vehicle-access"}
	SectionTeam            = Section{Name: "team", Path: "/api/dashboard/team"}
	SectionProjects        = Section{Name: "projects", Path: "/api/dashboard/projects"}
	SectionInvoices        = Section{Name: "invoices", Path: "/api/dashboard/invoices"}
)

// RoleSpec is everything that differs between role dashboards. It is the
// only place role-specific shapes are listed.
type RoleSpec struct {
	Role     models.Role
	Sections []Section

	decode func(raw []byte) (models.Stats, error)
	mock   func() models.Stats
	empty  func() models.Stats
}

// Decode parses a stats payload into the role's concrete type.
func (s RoleSpec) Decode(raw []byte) (models.Stats, error) { return s.decode(raw) }

// Mock returns the canned stats shown when the backend is unavailable.
func (s RoleSpec) Mock() models.Stats { return s.mock() }

// Default returns the all-zero stats a view substitutes when it has none.
func (s RoleSpec) Default() models.Stats { return s.empty() }

func specFor[T models.Stats](mock T, sections ...Section) RoleSpec {
	var zero T
	return RoleSpec{
		Role:     zero.Role(),
		Sections: sections,
		decode: func(raw []byte) (models.Stats, error) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return v, nil
		},
		mock:  func() models.Stats { return mock },
		empty: func() models.Stats { return zero },
	}
}

var roleSpecs = map[models.Role]RoleSpec{}

func register(specs ...RoleSpec) {
	for _, s := range specs {
		roleSpecs[s.Role] = s
	}
}

func init() {
	register(
		specFor(models.SuperAdminStats{
			TotalCompanies:   48,
			ActiveCompanies:  42,
			TotalUsers:       1250,
			ActiveUsers:      1103,
			TotalContractors: 312,
			PendingApprovals: 17,
			MonthlyRevenue:   45800,
			SystemUptime:     99.9,
			ComplianceRate:   87.5,
		}, SectionSystemHealth, SectionRevenue, SectionAPIUsage, SectionWorkPermitStats),

		specFor(models.SafetyStaffStats{
			PendingReviews:         12,
			ActiveWorkPermits:      34,
			IncidentsThisMonth:     2,
			InspectionsScheduled:   8,
			HighRiskContractors:    3,
			ExpiringCertifications: 15,
			ComplianceRate:         91.2,
		}, SectionRiskAssessments, SectionIncidents, SectionInspections),

		specFor(models.ClientSupervisorStats{
			ActiveContractors: 26,
			PendingApprovals:  9,
			ActiveWorkPermits: 21,
			ComplianceRate:    88.4,
			TeamStats:         models.TeamStats{Total: 40, Active: 36, OnLeave: 4},
		}, SectionContractors, SectionWorkPermitStats),

		specFor(models.ClientApproverStats{
			PendingApprovals:     14,
			ApprovedToday:        6,
			RejectedToday:        1,
			UrgentRequests:       3,
			AverageApprovalHours: 5.5,
		}, SectionWorkPermitStats, SectionRiskAssessments),

		specFor(models.ClientStaffStats{
			AssignedCourses:        6,
			CompletedCourses:       4,
			PendingTasks:           3,
			CertificationsExpiring: 1,
			ComplianceRate:         83.3,
		}, SectionMyCourses, SectionMyTasks),

		specFor(models.ValidadoresOpsStats{
			ValidationsToday:   57,
			PendingValidations: 8,
			VehiclesOnSite:     19,
			WorkersOnSite:      143,
			RejectedEntries:    2,
		}, SectionTodayStats, SectionVehicleAccess),

		specFor(models.ContratistaAdminStats{
			TotalEmployees:    85,
			ActiveWorkPermits: 11,
			PendingDocuments:  7,
			AverageRating:     4.3,
			ComplianceRate:    92.1,
			TeamStats:         models.TeamStats{Total: 85, Active: 78, OnLeave: 7},
		}, SectionTeam, SectionWorkPermitStats),

		specFor(models.ContratistaSubalternosStats{
			AssignedTasks:       5,
			CompletedTasks:      12,
			CoursesInProgress:   2,
			CertificationsValid: 4,
			ComplianceRate:      95,
		}, SectionMyCourses, SectionMyTasks),

		specFor(models.ContratistaHuerfanoStats{
			ActiveProjects:    2,
			CompletedProjects: 9,
			PendingInvoices:   3,
			TotalEarnings:     18250,
			AverageRating:     4.6,
			ComplianceRate:    89,
		}, SectionProjects, SectionInvoices),
	)
}

// Spec returns the RoleSpec for role.
func Spec(role models.Role) (RoleSpec, error) {
	s, ok := roleSpecs[role]
	if !ok {
		return RoleSpec{}, fmt.Errorf("dashboardsvc: no dashboard for role %q", role)
	}
	return s, nil
}

// MockStats returns the canned stats for role, or nil for an unknown role.
func MockStats(role models.Role) models.Stats {
	s, err := Spec(role)
	if err != nil {
		return nil
	}
	return s.Mock()
}
