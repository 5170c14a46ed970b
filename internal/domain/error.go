package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrLockHeld           = errors.New("resource is locked by another operation")

	// Payment flow errors. The messages for the first three are part of the
	// client-facing contract and must not change.
	ErrNotAuthenticated  = errors.New("User not authenticated")
	ErrInvalidSignature  = errors.New("Invalid payment signature")
	ErrMembershipUpgrade = errors.New("Failed to verify membership update")
)
