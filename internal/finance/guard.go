package finance

import (
	"context"
	"errors"
	"fmt"

	"finance-tracker/internal/models"
	"finance-tracker/internal/storage"
)

// Identity is what the authentication layer knows about a caller.
type Identity struct {
	Username      string
	Authenticated bool
}

// Anonymous is the identity of a caller without credentials.
var Anonymous = Identity{}

func (id Identity) verify() error {
	if !id.Authenticated || id.Username == "" {
		return ErrUnauthenticated
	}
	return nil
}

// UserLookup finds stored users by username.
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Guard resolves caller identities into stored users.
type Guard struct {
	users UserLookup
}

// NewGuard creates a Guard backed by users.
func NewGuard(users UserLookup) *Guard {
	return &Guard{users: users}
}

// ResolveCaller returns the stored user behind id.
func (g *Guard) ResolveCaller(ctx context.Context, id Identity) (*models.User, error) {
	if err := id.verify(); err != nil {
		return nil, err
	}

	user, err := g.users.GetUserByUsername(ctx, id.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: resolve %q: %w", ErrStoreFailure, id.Username, err)
	}
	return user, nil
}
