package investing

import "errors"

// Commit failure kinds. All are terminal for the attempt except
// ErrLockTimeout, which the caller may retry with backoff.
var (
	ErrInvalidAmount       = errors.New("Amount must be a positive number")
	ErrUserNotFound        = errors.New("Investor not found")
	ErrInsufficientFunds   = errors.New("Insufficient balance")
	ErrProjectNotFound     = errors.New("Project not found")
	ErrProjectNotActive    = errors.New("Project is not active")
	ErrProjectExpired      = errors.New("Project has expired")
	ErrSelfInvestment      = errors.New("Cannot invest in your own project")
	ErrDuplicateInvestment = errors.New("You have already invested in this project")
	ErrLockTimeout         = errors.New("Timed out waiting for a concurrent investment")
)
