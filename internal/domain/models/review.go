// internal/domain/models/review.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewMetrics are the five fixed sub-scores of a contractor review,
// each in the range 0..5.
type ReviewMetrics struct {
	Punctuality          float64 `bson:"punctuality" json:"punctuality" validate:"gte=0,lte=5"`
	Quality              float64 `bson:"quality" json:"quality" validate:"gte=0,lte=5"`
	Safety               float64 `bson:"safety" json:"safety" validate:"gte=0,lte=5"`
	Communication        float64 `bson:"communication" json:"communication" validate:"gte=0,lte=5"`
	ProfessionalBehavior float64 `bson:"professional_behavior" json:"professionalBehavior" validate:"gte=0,lte=5"`
}

// Review is one company's evaluation of a contractor.
type Review struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ContractorID   primitive.ObjectID  `bson:"contractor_id" json:"contractorId"`
	CompanyID      primitive.ObjectID  `bson:"company_id" json:"companyId"`
	ReviewerID     string              `bson:"reviewer_id" json:"reviewerId"`
	ReviewerName   string              `bson:"reviewer_name,omitempty" json:"reviewerName,omitempty"`
	WorkPermitID   *primitive.ObjectID `bson:"work_permit_id,omitempty" json:"workPermitId,omitempty"`
	Rating         float64             `bson:"rating" json:"rating"`
	Metrics        ReviewMetrics       `bson:"metrics" json:"metrics"`
	Comment        string              `bson:"comment" json:"comment"`
	WouldRecommend bool                `bson:"would_recommend" json:"wouldRecommend"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
