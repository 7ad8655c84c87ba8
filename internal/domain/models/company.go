// internal/domain/models/company.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Company types.
const (
	CompanyTypeClient     = "client"
	CompanyTypeContractor = "contractor"
	CompanyTypePlatform   = "platform"
)

// Company is a tenant. Clients own work sites and approve permits;
// contractors send staff to work on them.
type Company struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	NameCI  string             `bson:"name_ci" json:"-"`
	TaxID   string             `bson:"tax_id,omitempty" json:"taxId,omitempty"`
	Type    string             `bson:"type" json:"type"`
	Address string             `bson:"address,omitempty" json:"address,omitempty"`
	Phone   string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email   string             `bson:"email,omitempty" json:"email,omitempty"`
	Status  string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Contractor is a contractor company's standing with one client.
type Contractor struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID       primitive.ObjectID `bson:"company_id" json:"companyId"`
	ClientCompanyID primitive.ObjectID `bson:"client_company_id" json:"clientCompanyId"`
	Name            string             `bson:"name" json:"name"`
	NameCI          string             `bson:"name_ci" json:"-"`
	ContactEmail    string             `bson:"contact_email,omitempty" json:"contactEmail,omitempty"`
	Specialties     []string           `bson:"specialties,omitempty" json:"specialties,omitempty"`
	ComplianceScore float64            `bson:"compliance_score" json:"complianceScore"`
	Rating          float64            `bson:"rating" json:"rating"`
	Status          string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
