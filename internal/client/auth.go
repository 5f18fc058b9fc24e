package client

import (
	"context"
	"errors"
	"log"
	"strings"
)

// AuthController handles registration and login. Validation failures are
// reported to the form view and never reach the network; server and transport
// failures are mapped to user-facing messages per field, with detail going
// only to the log.
type AuthController struct {
	api  *API
	view FormView
}

func NewAuthController(api *API, view FormView) *AuthController {
	return &AuthController{api: api, view: view}
}

// Register validates the form and creates the account. Checks short-circuit
// on the first failure. Returns true when the caller should move on to login.
func (c *AuthController) Register(ctx context.Context, username, password, confirm string) bool {
	username = strings.TrimSpace(username)
	c.view.ClearErrors()

	if username == "" {
		c.view.ShowFieldError(FieldUsername, "Username is required")
		return false
	}
	if password == "" {
		c.view.ShowFieldError(FieldPassword, "Password is required")
		return false
	}
	if len(password) < 6 {
		c.view.ShowFieldError(FieldPassword, "Password must be at least 6 characters")
		return false
	}
	if password != confirm {
		c.view.ShowFieldError(FieldConfirm, "Passwords do not match")
		return false
	}

	err := c.api.Register(ctx, username, password)
	if err == nil {
		c.view.Notify("Registration successful! Please login.")
		return true
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if strings.Contains(statusErr.Body, "exists") {
			c.view.ShowFieldError(FieldUsername, "Username already exists")
		} else {
			c.view.ShowFieldError(FieldUsername, statusErr.Body)
		}
		return false
	}

	c.view.ShowFieldError(FieldUsername, "Registration failed. Please try again.")
	return false
}

// Login validates non-emptiness only; the length requirement applies to
// registration alone. Every failure past validation shows the same generic
// message so the form never reveals which part was wrong.
func (c *AuthController) Login(ctx context.Context, username, password string) bool {
	username = strings.TrimSpace(username)
	c.view.ClearErrors()

	if username == "" {
		c.view.ShowFieldError(FieldUsername, "Username is required")
		return false
	}
	if password == "" {
		c.view.ShowFieldError(FieldPassword, "Password is required")
		return false
	}

	if err := c.api.Login(ctx, username, password); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			c.view.ShowFieldError(FieldUsername, "Invalid username or password")
		} else {
			c.view.ShowFieldError(FieldUsername, "Login failed. Please try again.")
		}
		log.Printf("login error: %v", err)
		return false
	}
	return true
}
