// Package authapi wraps the backend's unauthenticated password recovery
// endpoints. Input is validated before any request is made.
package authapi

import (
	"context"
	"strings"

	"github.com/dalemusser/safetyapp/internal/app/system/apiclient"
	"github.com/dalemusser/safetyapp/internal/app/system/inputval"
)

const (
	pathForgotPassword = "/auth/forgot-password"
	pathResetPassword  = "/auth/reset-password"
)

// MinPasswordLength is the shortest password ResetPassword accepts.
const MinPasswordLength = 8

type forgotInput struct {
	Email string `json:"email" validate:"required,email" label:"Email"`
}

type resetInput struct {
	Token    string `json:"token" validate:"required" label:"Reset token"`
	Password string `json:"password" validate:"required,min=8" label:"Password"`
}

// Response is the backend's acknowledgement.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Client calls the password recovery endpoints.
type Client struct {
	api *apiclient.Client
}

// New returns a Client backed by api.
func New(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// ForgotPassword asks the backend to email a reset link to email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*Response, error) {
	in := forgotInput{Email: strings.TrimSpace(email)}
	if err := inputval.Validate(in).Err(); err != nil {
		return nil, err
	}
	var out Response
	if err := c.api.PostPublic(ctx, pathForgotPassword, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) (*Response, error) {
	in := resetInput{Token: strings.TrimSpace(token), Password: password}
	if err := inputval.Validate(in).Err(); err != nil {
		return nil, err
	}
	var out Response
	if err := c.api.PostPublic(ctx, pathResetPassword, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
