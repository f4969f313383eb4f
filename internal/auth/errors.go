package auth

import "errors"

var (
	ErrEmailTaken         = errors.New("Email is already registered")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrAccountInactive    = errors.New("Your account is not active")
	ErrUserNotFound       = errors.New("User not found")
	ErrNotInvestor        = errors.New("User not found or not an investor")
	ErrNothingToUpdate    = errors.New("No fields to update")
)
