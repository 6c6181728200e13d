package auth

import "errors"

var (
	// ErrEmailTaken covers both the pre-insert check and a unique-constraint
	// violation discovered by the store, so a registration racing past the
	// check is indistinguishable from one caught by it.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound is a store-level outcome; the orchestrator never lets
	// it reach the boundary during authentication.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned for unknown email and wrong password
	// alike, so responses cannot leak which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers malformed, tampered, and expired tokens.
	ErrInvalidToken = errors.New("invalid token")
)
