package domain

import "errors"

var (
	// ErrUserExists is returned when registering a username that is taken.
	// Its text intentionally contains "exists"; clients key off that substring.
	ErrUserExists = errors.New("username already exists")
	// ErrInvalidCredentials covers both unknown users and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when looking up a user that does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoActiveQuestion is returned when verifying with no question issued.
	ErrNoActiveQuestion = errors.New("no active question for user")
	// ErrNotAuthenticated is returned when a session carries no user.
	ErrNotAuthenticated = errors.New("not authenticated")
)
