// internal/domain/models/workpermit.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkPermitStatus is the lifecycle state of a work permit.
type WorkPermitStatus string

const (
	PermitDraft     WorkPermitStatus = "borrador"
	PermitPending   WorkPermitStatus = "pendiente"
	PermitApproved  WorkPermitStatus = "aprobado"
	PermitRejected  WorkPermitStatus = "rechazado"
	PermitCompleted WorkPermitStatus = "completado"
	PermitCancelled WorkPermitStatus = "cancelado"
)

var permitTransitions = map[WorkPermitStatus][]WorkPermitStatus{
	PermitDraft:    {PermitPending, PermitCancelled},
	PermitPending:  {PermitApproved, PermitRejected, PermitCancelled},
	PermitApproved: {PermitCompleted, PermitCancelled},
	PermitRejected: {PermitCompleted, PermitCancelled},
}

// CanTransitionTo reports whether a permit in status s may move to next.
// Completed and cancelled permits are terminal.
func (s WorkPermitStatus) CanTransitionTo(next WorkPermitStatus) bool {
	for _, n := range permitTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// PermitApproval is one approver's decision on a permit.
type PermitApproval struct {
	ApproverID primitive.ObjectID `bson:"approver_id" json:"approverId"`
	Role       Role               `bson:"role" json:"role"`
	Status     string             `bson:"status" json:"status"` // pending | approved | rejected
	Comment    string             `bson:"comment,omitempty" json:"comment,omitempty"`
	DecidedAt  *time.Time         `bson:"decided_at,omitempty" json:"decidedAt,omitempty"`
}

// WorkPermit authorizes contractor work at a client site.
type WorkPermit struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Number          string             `bson:"number" json:"number"`
	CompanyID       primitive.ObjectID `bson:"company_id" json:"companyId"`
	ContractorID    primitive.ObjectID `bson:"contractor_id" json:"contractorId"`
	RequestedByID   primitive.ObjectID `bson:"requested_by_id" json:"requestedById"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Location        string             `bson:"location,omitempty" json:"location,omitempty"`
	WorkType        string             `bson:"work_type" json:"workType"`
	RiskLevel       string             `bson:"risk_level" json:"riskLevel"` // low | medium | high | critical
	Status          WorkPermitStatus   `bson:"status" json:"status"`
	StartDate       time.Time          `bson:"start_date" json:"startDate"`
	EndDate         time.Time          `bson:"end_date" json:"endDate"`
	Approvals       []PermitApproval   `bson:"approvals,omitempty" json:"approvals,omitempty"`
	RequiredCourses []string           `bson:"required_courses,omitempty" json:"requiredCourses,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
