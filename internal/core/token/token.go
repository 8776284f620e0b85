// Package token issues and verifies the signed bearer tokens the service
// hands out at login. Issuing and verifying are pure: no I/O, safe for
// concurrent use, configured once at startup.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrTokenInvalid = errors.New("token invalid")

// Config is the immutable signing configuration, loaded once at process
// start and passed explicitly to the issuer and verifier.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Claims is the fixed claim set carried by every issued token: subject is
// the username, UserID the stable store identifier, Role the single role
// claim (omitted when the user holds none).
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Role   string `json:"role,omitempty"`
}

// Issuer builds and signs bearer tokens.
type Issuer struct {
	cfg Config
}

// NewIssuer validates the signing configuration. An empty secret is a
// misconfiguration the caller should treat as fatal at startup.
func NewIssuer(cfg Config) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: signing secret must not be empty")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	return &Issuer{cfg: cfg}, nil
}

// IssuedToken is the result of a single Issue call.
type IssuedToken struct {
	// Token is the compact signed token string.
	Token string
	// ID is the jti generated for this token, usable for audit correlation.
	ID string
	// ExpiresAt is the absolute UTC expiry embedded in the token.
	ExpiresAt time.Time
}

// Issue signs a token for the given subject. A fresh jti is generated per
// call. role may be empty, in which case the role claim is omitted.
func (i *Issuer) Issue(username, userID, role string) (*IssuedToken, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(i.cfg.TTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        uuid.NewString(),
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
		Role:   role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &IssuedToken{Token: signed, ID: claims.ID, ExpiresAt: expiresAt}, nil
}

// Verifier checks token signature, validity window, issuer and audience.
type Verifier struct {
	cfg Config
}

func NewVerifier(cfg Config) *Verifier {
	return &Verifier{cfg: cfg}
}

// Verify parses and validates a compact token string. Any structural
// failure (bad signature, expired, wrong issuer/audience, malformed input)
// yields ErrTokenInvalid. Verification mutates no state; the same token
// verifies to the same result every call within its validity window.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(v.cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.cfg.Issuer),
		jwt.WithAudience(v.cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
