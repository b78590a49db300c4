package domain

import "time"

// AuthEventKind names what happened to an account.
type AuthEventKind string

const (
	EventUserRegistered AuthEventKind = "user_registered"
	EventLoginSucceeded AuthEventKind = "login_succeeded"
	EventLoginFailed    AuthEventKind = "login_failed"
)

// AuthEvent is an audit trail entry for registration and login activity.
// A failed login never records whether the username exists.
type AuthEvent struct {
	ID         string
	Kind       AuthEventKind
	Username   string
	UserID     string // empty for failed logins
	RequestID  string
	OccurredAt time.Time
}
