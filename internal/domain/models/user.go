// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is anyone who signs in: platform staff, client staff and
// contractor staff. CompanyID is nil only for super admins.
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName     string              `bson:"full_name" json:"fullName"`
	FullNameCI   string              `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string              `bson:"email" json:"email"`
	PasswordHash string              `bson:"password_hash,omitempty" json:"-"`
	Role         Role                `bson:"role" json:"role"`
	Status       string              `bson:"status,omitempty" json:"status,omitempty"` // active | disabled
	CompanyID    *primitive.ObjectID `bson:"company_id,omitempty" json:"companyId,omitempty"`
	Phone        string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Position     string              `bson:"position,omitempty" json:"position,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
