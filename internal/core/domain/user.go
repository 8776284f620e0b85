package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin     = "Admin"
	RoleCustomer  = "Customer"
	RoleModerator = "Moderator"
)

var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTooManyAttempts = errors.New("too many login attempts")
var ErrUnknownRole = errors.New("unknown role")

// User models an identity record owned by the credential store. The raw
// password never appears here; the store hashes it before persistence.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	SecurityStamp string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// ValidationErrors is the ordered list of problems the credential store
// reports for a rejected registration (duplicate username/email, password
// policy violations). Order is the store's report order.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return strings.Join(v, "; ")
}
