// Package seed fills a MongoDB database with example documents for manual
// testing: companies, users for every role, contractors, work permits,
// dashboard activities and alerts.
package seed

import (
	"fmt"
	"time"

	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collections lists the seeded collections in insert order.
var Collections = []string{"companies", "users", "contractors", "work_permits", "activities", "alerts"}

// Data is one full set of fixture documents.
type Data struct {
	Companies   []models.Company
	Users       []models.User
	Contractors []models.Contractor
	WorkPermits []models.WorkPermit
	Activities  []models.Activity
	Alerts      []models.Alert
}

// Fixtures builds the example documents. passwordHash is stored on every
// user; now anchors every timestamp.
func Fixtures(now time.Time, passwordHash string) Data {
	now = now.UTC().Truncate(time.Millisecond)

	platform := company("Safety App", models.CompanyTypePlatform, "76.000.000-0", now)
	client := company("Minera Andina S.A.", models.CompanyTypeClient, "96.512.340-1", now)
	montajes := company("Montajes del Norte Ltda.", models.CompanyTypeContractor, "77.845.120-5", now)
	electricos := company("Servicios Eléctricos Sur SpA", models.CompanyTypeContractor, "76.330.981-K", now)

	users := []models.User{
		user("Ana Rojas", "admin@safetyapp.test", models.RoleSuperAdmin, &platform.ID, passwordHash, now),
		user("Bruno Díaz", "staff@safetyapp.test", models.RoleSafetyStaff, &platform.ID, passwordHash, now),
		user("Carla Muñoz", "supervisor@minera.test", models.RoleClientSupervisor, &client.ID, passwordHash, now),
		user("Diego Soto", "approver@minera.test", models.RoleClientApprover, &client.ID, passwordHash, now),
		user("Elena Vera", "staff@minera.test", models.RoleClientStaff, &client.ID, passwordHash, now),
		user("Felipe Araya", "validador@minera.test", models.RoleValidadoresOps, &client.ID, passwordHash, now),
		user("Gloria Pinto", "admin@montajes.test", models.RoleContratistaAdmin, &montajes.ID, passwordHash, now),
		user("Hugo Reyes", "worker@montajes.test", models.RoleContratistaSubalternos, &montajes.ID, passwordHash, now),
		user("Irene Lagos", "independiente@correo.test", models.RoleContratistaHuerfano, nil, passwordHash, now),
	}

	contractors := []models.Contractor{
		contractor(montajes.ID, client.ID, montajes.Name, "contacto@montajes.test", []string{"montaje", "soldadura"}, 92.5, 4.4, now),
		contractor(electricos.ID, client.ID, electricos.Name, "contacto@electricos.test", []string{"electricidad"}, 78, 4.0, now),
	}

	requester := users[6].ID
	approver := users[3].ID
	decided := now.Add(-20 * time.Hour)
	permits := []models.WorkPermit{
		{
			ID: primitive.NewObjectID(), Number: "WP-0001",
			CompanyID: client.ID, ContractorID: contractors[0].ID, RequestedByID: requester,
			Title: "Soldadura en altura, chancador primario", Location: "Planta Chancado",
			WorkType: "hot_work", RiskLevel: "high", Status: models.PermitApproved,
			StartDate: now.Add(24 * time.Hour), EndDate: now.Add(72 * time.Hour),
			Approvals: []models.PermitApproval{
				{ApproverID: approver, Role: models.RoleClientApprover, Status: "approved", DecidedAt: &decided},
			},
			RequiredCourses: []string{"trabajo-en-altura", "soldadura-segura"},
			CreatedAt:       now.Add(-48 * time.Hour), UpdatedAt: decided,
		},
		{
			ID: primitive.NewObjectID(), Number: "WP-0002",
			CompanyID: client.ID, ContractorID: contractors[1].ID, RequestedByID: requester,
			Title: "Cambio de tablero eléctrico", Location: "Subestación 2",
			WorkType: "electrical", RiskLevel: "critical", Status: models.PermitPending,
			StartDate: now.Add(48 * time.Hour), EndDate: now.Add(56 * time.Hour),
			Approvals: []models.PermitApproval{
				{ApproverID: approver, Role: models.RoleClientApprover, Status: "pending"},
			},
			CreatedAt: now.Add(-6 * time.Hour), UpdatedAt: now.Add(-6 * time.Hour),
		},
		{
			ID: primitive.NewObjectID(), Number: "WP-0003",
			CompanyID: client.ID, ContractorID: contractors[0].ID, RequestedByID: requester,
			Title: "Mantención de correa transportadora", Location: "Correa CV-12",
			WorkType: "maintenance", RiskLevel: "medium", Status: models.PermitDraft,
			StartDate: now.Add(96 * time.Hour), EndDate: now.Add(100 * time.Hour),
			CreatedAt: now.Add(-1 * time.Hour), UpdatedAt: now.Add(-1 * time.Hour),
		},
		{
			ID: primitive.NewObjectID(), Number: "WP-0004",
			CompanyID: client.ID, ContractorID: contractors[0].ID, RequestedByID: requester,
			Title: "Izaje de estructura", Location: "Patio de acopio",
			WorkType: "lifting", RiskLevel: "high", Status: models.PermitCompleted,
			StartDate: now.Add(-10 * 24 * time.Hour), EndDate: now.Add(-9 * 24 * time.Hour),
			CreatedAt: now.Add(-12 * 24 * time.Hour), UpdatedAt: now.Add(-9 * 24 * time.Hour),
		},
	}

	clientID := client.ID.Hex()
	activities := []models.Activity{
		activity(clientID, "work_permit", "Permiso WP-0001 aprobado", "Diego Soto", models.RoleClientApprover, "completed", now.Add(-20*time.Hour)),
		activity(clientID, "work_permit", "Permiso WP-0002 enviado a aprobación", "Gloria Pinto", models.RoleContratistaAdmin, "pending", now.Add(-6*time.Hour)),
		activity(clientID, "course", "Hugo Reyes completó Trabajo en Altura", "Hugo Reyes", models.RoleContratistaSubalternos, "completed", now.Add(-3*time.Hour)),
		activity(clientID, "review", "Nueva evaluación para Montajes del Norte", "Carla Muñoz", models.RoleClientSupervisor, "completed", now.Add(-1*time.Hour)),
	}

	alerts := []models.Alert{
		{ID: uuid.NewString(), CompanyID: clientID, Type: "warning", Title: "Certificación por vencer",
			Message: "La certificación de Hugo Reyes vence en 7 días", Timestamp: now.Add(-2 * time.Hour),
			Priority: "high", ActionRequired: true},
		{ID: uuid.NewString(), CompanyID: clientID, Type: "error", Title: "Permiso crítico pendiente",
			Message: "WP-0002 requiere aprobación antes de 48 horas", Timestamp: now.Add(-5 * time.Hour),
			Priority: "critical", ActionRequired: true},
		{ID: uuid.NewString(), CompanyID: clientID, Type: "info", Title: "Sincronización completada",
			Message: "Cursos sincronizados con TalentLMS", Timestamp: now.Add(-26 * time.Hour),
			IsRead: true, Priority: "low"},
	}

	return Data{
		Companies:   []models.Company{platform, client, montajes, electricos},
		Users:       users,
		Contractors: contractors,
		WorkPermits: permits,
		Activities:  activities,
		Alerts:      alerts,
	}
}

func company(name, kind, taxID string, now time.Time) models.Company {
	return models.Company{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		TaxID:     taxID,
		Type:      kind,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func user(name, email string, role models.Role, companyID *primitive.ObjectID, hash string, now time.Time) models.User {
	return models.User{
		ID:           primitive.NewObjectID(),
		FullName:     name,
		FullNameCI:   text.Fold(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       "active",
		CompanyID:    companyID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func contractor(companyID, clientID primitive.ObjectID, name, email string, specialties []string, compliance, rating float64, now time.Time) models.Contractor {
	return models.Contractor{
		ID:              primitive.NewObjectID(),
		CompanyID:       companyID,
		ClientCompanyID: clientID,
		Name:            name,
		NameCI:          text.Fold(name),
		ContactEmail:    email,
		Specialties:     specialties,
		ComplianceScore: compliance,
		Rating:          rating,
		Status:          "active",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func activity(companyID, kind, desc, who string, role models.Role, status string, at time.Time) models.Activity {
	return models.Activity{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		Type:        kind,
		Description: desc,
		Timestamp:   at,
		User:        models.ActivityUser{Name: who, Role: string(role)},
		Status:      status,
	}
}

// Validate checks the references between fixture documents and that every
// work permit's status is reachable from a draft.
func Validate(d Data) error {
	companies := map[primitive.ObjectID]models.Company{}
	for _, c := range d.Companies {
		companies[c.ID] = c
	}
	roles := map[models.Role]bool{}
	for _, u := range d.Users {
		if !u.Role.Valid() {
			return fmt.Errorf("user %s: invalid role %q", u.Email, u.Role)
		}
		roles[u.Role] = true
		if u.CompanyID != nil {
			if _, ok := companies[*u.CompanyID]; !ok {
				return fmt.Errorf("user %s: unknown company", u.Email)
			}
		}
	}
	for _, r := range models.AllRoles() {
		if !roles[r] {
			return fmt.Errorf("no user with role %s", r)
		}
	}
	contractors := map[primitive.ObjectID]bool{}
	for _, c := range d.Contractors {
		if companies[c.CompanyID].Type != models.CompanyTypeContractor {
			return fmt.Errorf("contractor %s: company is not a contractor company", c.Name)
		}
		if companies[c.ClientCompanyID].Type != models.CompanyTypeClient {
			return fmt.Errorf("contractor %s: client company is not a client", c.Name)
		}
		contractors[c.ID] = true
	}
	for _, p := range d.WorkPermits {
		if !contractors[p.ContractorID] {
			return fmt.Errorf("permit %s: unknown contractor", p.Number)
		}
		if !Reachable(models.PermitDraft, p.Status) {
			return fmt.Errorf("permit %s: status %q is not reachable from %q", p.Number, p.Status, models.PermitDraft)
		}
	}
	return nil
}

// Reachable reports whether to can be reached from from through allowed
// work-permit transitions (including from == to).
func Reachable(from, to models.WorkPermitStatus) bool {
	seen := map[models.WorkPermitStatus]bool{from: true}
	queue := []models.WorkPermitStatus{from}
	all := []models.WorkPermitStatus{
		models.PermitDraft, models.PermitPending, models.PermitApproved,
		models.PermitRejected, models.PermitCompleted, models.PermitCancelled,
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return true
		}
		for _, next := range all {
			if !seen[next] && cur.CanTransitionTo(next) {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}
