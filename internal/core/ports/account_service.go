package ports

import (
	"context"
	"time"
)

// RegisterInput carries the registration form data.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// RegisterResult is returned on a successful registration.
type RegisterResult struct {
	Username string
	Email    string
	Role     string
}

// LoginResult is the token bundle returned on a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Username  string
	Role      string
}

// AccountService implements the registration and login flows.
//
// Register fails with domain.ValidationErrors when the store rejects the
// input; any other error is a system failure.
//
// Login fails with domain.ErrInvalidCredentials for every credential
// mismatch (unknown user, wrong password, no role) so callers cannot tell
// the cases apart, with domain.ErrTooManyAttempts when throttled, and with
// any other error on system failure.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}
