// internal/domain/models/role.go
package models

import (
	"fmt"
	"strings"
)

// Role is one of the nine fixed user categories. The role decides which
// dashboard a user sees and which supplementary data is loaded for it.
type Role string

const (
	RoleSuperAdmin             Role = "super_admin"
	RoleSafetyStaff            Role = "safety_staff"
	RoleClientSupervisor       Role = "client_supervisor"
	RoleClientApprover         Role = "client_approver"
	RoleClientStaff            Role = "client_staff"
	RoleValidadoresOps         Role = "validadores_ops"
	RoleContratistaAdmin       Role = "contratista_admin"
	RoleContratistaSubalternos Role = "contratista_subalternos"
	RoleContratistaHuerfano    Role = "contratista_huerfano"
)

var allRoles = []Role{
	RoleSuperAdmin,
	RoleSafetyStaff,
	RoleClientSupervisor,
	RoleClientApprover,
	RoleClientStaff,
	RoleValidadoresOps,
	RoleContratistaAdmin,
	RoleContratistaSubalternos,
	RoleContratistaHuerfano,
}

var roleLabels = map[Role]string{
	RoleSuperAdmin:             "Super Admin",
	RoleSafetyStaff:            "Safety Staff",
	RoleClientSupervisor:       "Client Supervisor",
	RoleClientApprover:         "Client Approver",
	RoleClientStaff:            "Client Staff",
	RoleValidadoresOps:         "Validadores Ops",
	RoleContratistaAdmin:       "Contratista Admin",
	RoleContratistaSubalternos: "Contratista Subalternos",
	RoleContratistaHuerfano:    "Contratista Huérfano",
}

// AllRoles returns every role in display order.
func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// ParseRole normalizes s (case and surrounding space) and returns the
// matching role. Unknown values are an error.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleLabels[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the nine known roles.
func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// Label returns the human-readable role name.
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return string(r)
}

// IsContractor reports whether the role belongs to a contractor company
// rather than a client or the platform operator.
func (r Role) IsContractor() bool {
	switch r {
	case RoleContratistaAdmin, RoleContratistaSubalternos, RoleContratistaHuerfano:
		return true
	}
	return false
}

// IsStaff reports whether the role belongs to the platform operator.
func (r Role) IsStaff() bool {
	return r == RoleSuperAdmin || r == RoleSafetyStaff
}

// CompanyAdminRoles may change company-wide settings.
func CompanyAdminRoles() []Role {
	return []Role{RoleSuperAdmin, RoleClientSupervisor, RoleContratistaAdmin}
}
