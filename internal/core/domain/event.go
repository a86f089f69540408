package domain

import "time"

// LoginOutcome is the result recorded for a login attempt.
type LoginOutcome string

const (
	LoginSucceeded LoginOutcome = "succeeded"
	LoginFailed    LoginOutcome = "failed"
	LoginThrottled LoginOutcome = "throttled"
	LoginErrored   LoginOutcome = "error"
)

// LoginEvent is an audit record of a single login attempt.
type LoginEvent struct {
	Email      string
	Role       Role
	Outcome    LoginOutcome
	RemoteIP   string
	OccurredAt time.Time
}
