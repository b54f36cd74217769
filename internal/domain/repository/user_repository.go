package repository

import (
	"context"
	"errors"

	"github.com/reelstack/reelstack-api/internal/domain/entity"
)

var (
	// ErrDuplicateLogin is returned by Create when the username is
	// already registered (enforced by a unique index, not a
	// check-then-insert).
	ErrDuplicateLogin = errors.New("username already registered")
	// ErrNotFound is returned by lookups that match no row.
	ErrNotFound = errors.New("not found")
)

// UserRepository is the credential store. Password hashing and
// uniqueness enforcement live behind this boundary.
type UserRepository interface {
	// FindByLoginName looks a user up by username, case-insensitively.
	FindByLoginName(ctx context.Context, username string) (*entity.User, error)
	// Create persists a new user with the password irreversibly
	// hashed. Returns ErrDuplicateLogin when the username is taken.
	Create(ctx context.Context, u *entity.User, password string) error
	// VerifyPassword compares the plaintext against the stored
	// verifier. A mismatch is a false return, never an error.
	VerifyPassword(u *entity.User, password string) bool
	// GetRoles returns the user's role names in assignment order.
	GetRoles(ctx context.Context, u *entity.User) ([]string, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
}

// RoleRepository is the role registry. Both operations are
// idempotent so concurrent first-time registrations cannot race
// into duplicate-role errors.
type RoleRepository interface {
	// EnsureExist creates any missing roles; creating a role that
	// already exists is a no-op.
	EnsureExist(ctx context.Context, names ...string) error
	// Assign grants the named role to the user. Assigning a role the
	// user already holds is a no-op.
	Assign(ctx context.Context, u *entity.User, roleName string) error
}
