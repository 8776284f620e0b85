package domain

import "time"

// AuditAction identifies the account operation an audit event records.
type AuditAction string

const (
	AuditRegisterSucceeded AuditAction = "register_succeeded"
	AuditRegisterFailed    AuditAction = "register_failed"
	AuditLoginSucceeded    AuditAction = "login_succeeded"
	AuditLoginFailed       AuditAction = "login_failed"
)

// AuditEvent records the outcome of a registration or login attempt.
// TokenID carries the jti of an issued token so a bearer token can later be
// correlated back to the login that produced it.
type AuditEvent struct {
	Username  string
	Action    AuditAction
	TokenID   string
	Detail    string
	Timestamp time.Time
}
