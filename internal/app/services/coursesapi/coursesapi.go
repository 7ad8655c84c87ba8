// Package coursesapi wraps the backend course and TalentLMS endpoints.
// Errors from the backend are returned unchanged.
package coursesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dalemusser/safetyapp/internal/app/system/apiclient"
	"github.com/dalemusser/safetyapp/internal/domain/models"
)

const basePath = "/api/courses"

// Filter narrows List. Zero fields are not sent.
type Filter struct {
	Category string
	Search   string
	Status   string
	Limit    int
	Offset   int
}

func (f Filter) query() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	return q
}

// Client calls the course endpoints.
type Client struct {
	api *apiclient.Client
}

// New returns a Client backed by api.
func New(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// List returns courses matching f.
func (c *Client) List(ctx context.Context, f Filter) ([]models.Course, error) {
	var out []models.Course
	if err := c.get(ctx, basePath, f.query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one course.
func (c *Client) Get(ctx context.Context, id string) (*models.Course, error) {
	var out models.Course
	if err := c.get(ctx, basePath+"/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyCourses returns the caller's enrollments.
func (c *Client) MyCourses(ctx context.Context) ([]models.CourseProgress, error) {
	var out []models.CourseProgress
	if err := c.get(ctx, basePath+"/my-courses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Enroll enrolls the caller in course id.
func (c *Client) Enroll(ctx context.Context, id string) (*models.CourseProgress, error) {
	var raw json.RawMessage
	if err := c.api.PostJSON(ctx, basePath+"/"+url.PathEscape(id)+"/enroll", nil, &raw); err != nil {
		return nil, err
	}
	var out models.CourseProgress
	if err := decode(raw, &out); err != nil {
		return nil, err
	}
	if out.CourseID == "" {
		out.CourseID = id
	}
	return &out, nil
}

// SyncTalentLMS asks the backend to pull courses from TalentLMS.
func (c *Client) SyncTalentLMS(ctx context.Context) (*models.CourseSyncStatus, error) {
	var raw json.RawMessage
	if err := c.api.PostJSON(ctx, basePath+"/talentlms/sync", nil, &raw); err != nil {
		return nil, err
	}
	var out models.CourseSyncStatus
	if err := decode(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SyncStatus reports the last TalentLMS sync.
func (c *Client) SyncStatus(ctx context.Context) (*models.CourseSyncStatus, error) {
	var out models.CourseSyncStatus
	if err := c.get(ctx, basePath+"/talentlms/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserProgress returns userID's progress across courses.
func (c *Client) UserProgress(ctx context.Context, userID string) ([]models.CourseProgress, error) {
	var out []models.CourseProgress
	if err := c.get(ctx, basePath+"/progress/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	var raw json.RawMessage
	if err := c.api.GetJSON(ctx, path, q, &raw); err != nil {
		return err
	}
	return decode(raw, out)
}

func decode(raw json.RawMessage, out any) error {
	raw = apiclient.Unwrap(raw)
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("coursesapi: decode response: %w", err)
	}
	return nil
}
