package ports

import (
	"context"

	"github.com/ngcore/auth-api/internal/core/domain"
)

// CredentialStore is the narrow persistence capability the account flows
// depend on. Any engine that can create users, verify passwords, and manage
// role memberships satisfies it; hashing and password policy live behind it.
type CredentialStore interface {
	// CreateUser persists a new identity record with its initial role in a
	// single atomic write: either the user and the role commit together or
	// nothing is persisted. The plaintext password is hashed before storage.
	// Duplicate username/email and password policy violations are reported
	// as domain.ValidationErrors; an unseeded role name as
	// domain.ErrUnknownRole.
	CreateUser(ctx context.Context, user *domain.User, password, role string) (*domain.User, error)

	// FindByUsername returns domain.ErrUserNotFound when no record matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// VerifyPassword reports whether the plaintext password matches the
	// stored hash. A mismatch is (false, nil), not an error.
	VerifyPassword(ctx context.Context, user *domain.User, password string) (bool, error)

	// GetRoles returns the user's roles in assignment order.
	GetRoles(ctx context.Context, userID string) ([]string, error)

	// AddToRole grants an additional seeded role to an existing user.
	// Unknown role names are rejected with domain.ErrUnknownRole.
	AddToRole(ctx context.Context, userID, role string) error
}
