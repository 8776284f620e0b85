package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ngcore/auth-api/internal/core/domain"
	"github.com/ngcore/auth-api/internal/core/ports"
	"github.com/ngcore/auth-api/internal/core/token"
)

// LoginLimiter abstracts the attempt throttle (Redis). A nil limiter
// disables throttling.
type LoginLimiter interface {
	Exceeded(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AccountService implements registration and login on top of the
// credential store and the token issuer.
type AccountService struct {
	store   ports.CredentialStore
	issuer  *token.Issuer
	limiter LoginLimiter
	audit   ports.AuditRecorder
	log     zerolog.Logger
}

// NewAccountService wires the account flows. limiter and audit may be nil.
func NewAccountService(store ports.CredentialStore, issuer *token.Issuer, limiter LoginLimiter, audit ports.AuditRecorder, log zerolog.Logger) *AccountService {
	return &AccountService{store: store, issuer: issuer, limiter: limiter, audit: audit, log: log}
}

// Register creates the identity record together with its single role:
// "Admin" when the submitted username is exactly "admin", "Customer"
// otherwise. User and role persist in one store write, so a failed
// registration leaves nothing behind. Store rejections come back as
// domain.ValidationErrors.
func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
	user := &domain.User{
		Username:      input.Username,
		Email:         input.Email,
		SecurityStamp: uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
	}

	role := domain.RoleCustomer
	if input.Username == "admin" {
		role = domain.RoleAdmin
	}

	created, err := s.store.CreateUser(ctx, user, input.Password, role)
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			s.record(domain.AuditRegisterFailed, input.Username, "", verrs.Error())
			return nil, verrs
		}
		s.log.Error().Err(err).Str("username", input.Username).Msg("user creation failed")
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.record(domain.AuditRegisterSucceeded, created.Username, "", role)
	s.log.Info().Str("username", created.Username).Str("role", role).Msg("user registered")

	return &ports.RegisterResult{
		Username: created.Username,
		Email:    created.Email,
		Role:     role,
	}, nil
}

// Login verifies credentials and issues a bearer token. Unknown user,
// wrong password, and an empty role set all collapse into
// domain.ErrInvalidCredentials so the outcome never reveals which check
// failed. The password is only verified when the user exists.
func (s *AccountService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if s.limiter != nil {
		exceeded, err := s.limiter.Exceeded(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("throttle check failed, continuing")
		} else if exceeded {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.denied(ctx, username, "unknown user")
		}
		s.log.Error().Err(err).Str("username", username).Msg("user lookup failed")
		return nil, fmt.Errorf("find user: %w", err)
	}

	roles, err := s.store.GetRoles(ctx, user.ID)
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("role lookup failed")
		return nil, fmt.Errorf("get roles: %w", err)
	}

	ok, err := s.store.VerifyPassword(ctx, user, password)
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("password verification failed")
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, s.denied(ctx, username, "wrong password")
	}

	if len(roles) == 0 {
		return nil, s.denied(ctx, username, "no role assigned")
	}

	issued, err := s.issuer.Issue(user.Username, user.ID, roles[0])
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("token signing failed")
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("throttle reset failed")
		}
	}

	s.record(domain.AuditLoginSucceeded, user.Username, issued.ID, "")
	s.log.Info().Str("username", user.Username).Str("role", roles[0]).Msg("login succeeded")

	return &ports.LoginResult{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		Username:  user.Username,
		Role:      roles[0],
	}, nil
}

// denied handles every credential-mismatch branch identically: note the
// failed attempt, audit the internal cause, and return the uniform error.
func (s *AccountService) denied(ctx context.Context, username, cause string) error {
	if s.limiter != nil {
		if err := s.limiter.RecordFailure(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("throttle update failed")
		}
	}
	s.record(domain.AuditLoginFailed, username, "", cause)
	s.log.Debug().Str("username", username).Str("cause", cause).Msg("login denied")
	return domain.ErrInvalidCredentials
}

func (s *AccountService) record(action domain.AuditAction, username, tokenID, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		Username:  username,
		Action:    action,
		TokenID:   tokenID,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}
