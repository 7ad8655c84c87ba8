package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateCompany creates an active test company of the given type.
func (f *Fixtures) CreateCompany(ctx context.Context, name, companyType string) models.Company {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Company{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		TaxID:     "76.000.000-0",
		Type:      companyType,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("companies").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test company: %v", err)
	}
	return c
}

// CreateUser creates an active test user. companyID may be nil for
// platform roles.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string, role models.Role, companyID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       role,
		Status:     "active",
		CompanyID:  companyID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateContractor creates an active contractor working for client.
func (f *Fixtures) CreateContractor(ctx context.Context, name string, companyID, clientID primitive.ObjectID) models.Contractor {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Contractor{
		ID:              primitive.NewObjectID(),
		CompanyID:       companyID,
		ClientCompanyID: clientID,
		Name:            name,
		NameCI:          text.Fold(name),
		Status:          "active",
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("contractors").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test contractor: %v", err)
	}
	return c
}
