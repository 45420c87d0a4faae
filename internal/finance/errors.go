package finance

import "errors"

var (
	// ErrUnauthenticated means the caller presented no valid identity.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrUserNotFound means the identity maps to no stored user.
	ErrUserNotFound = errors.New("authenticated user not found")
	// ErrGoalNotFound means the user has no goal.
	ErrGoalNotFound = errors.New("goal not found")
	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStoreFailure wraps persistence errors; the cause stays in the chain for logging.
	ErrStoreFailure = errors.New("store failure")
)
