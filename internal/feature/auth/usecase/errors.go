// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when signing up with an email that is
	// already registered (compared case-folded).
	ErrEmailTaken = errors.New("email already registered")

	// ErrUsernameTaken is returned when signing up with a username that is
	// already registered (compared case-folded).
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned on login failure. It deliberately
	// does not distinguish unknown email from wrong password.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrAccountDeactivated is returned when the password matched but the
	// account has is_active = false.
	ErrAccountDeactivated = errors.New("account is deactivated")

	// ErrValidation wraps signup input violations (weak password, bad
	// username charset).
	ErrValidation = errors.New("validation error")
)
