package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
	"github.com/iset-tozeur/library-backend/internal/core/ports"
	"github.com/iset-tozeur/library-backend/internal/pkg/metrics"
)

// LoginThrottle abstracts the failed-login counter (Redis).
type LoginThrottle interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuditSink receives one event per login attempt. Record must not block.
type AuditSink interface {
	Record(event domain.LoginEvent)
}

// AuthDependencies groups the collaborators of AuthService. Throttle and
// Audit are optional.
type AuthDependencies struct {
	Credentials ports.CredentialRepository
	Tokens      *TokenService
	Passwords   *PasswordVerifier
	Throttle    LoginThrottle
	Audit       AuditSink
	Logger      zerolog.Logger
}

// AuthService implements the login flow.
type AuthService struct {
	creds     ports.CredentialRepository
	tokens    *TokenService
	passwords *PasswordVerifier
	throttle  LoginThrottle
	audit     AuditSink
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(deps AuthDependencies) *AuthService {
	s := &AuthService{
		creds:     deps.Credentials,
		tokens:    deps.Tokens,
		passwords: deps.Passwords,
		throttle:  deps.Throttle,
		audit:     deps.Audit,
		log:       deps.Logger,
		now:       time.Now,
	}
	if s.passwords == nil {
		s.passwords = NewPasswordVerifier(DefaultBcryptCost)
	}
	if s.throttle == nil {
		s.throttle = noThrottle{}
	}
	if s.audit == nil {
		s.audit = noAudit{}
	}
	return s
}

// Login verifies the submitted credentials and issues a token. Unknown email,
// wrong password and role mismatch all return domain.ErrInvalidCredentials.
// Store failures are returned wrapped so they surface as server errors.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, s.reject(ctx, in, email, "empty_credentials")
	}

	blocked, err := s.throttle.Blocked(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("login throttle check failed, continuing")
	} else if blocked {
		s.log.Warn().Str("email", email).Str("remote_ip", in.RemoteIP).Msg("login throttled")
		s.record(in, email, domain.LoginThrottled)
		return nil, domain.ErrTooManyAttempts
	}

	cred, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			s.passwords.Burn(in.Password)
			return nil, s.reject(ctx, in, email, "unknown_email")
		}
		s.log.Error().Err(err).Str("email", email).Msg("credential lookup failed")
		s.record(in, email, domain.LoginErrored)
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.passwords.Verify(in.Password, cred.PasswordHash) {
		return nil, s.reject(ctx, in, email, "password_mismatch")
	}
	if cred.Role != in.Role {
		return nil, s.reject(ctx, in, email, "role_mismatch")
	}

	token, expiresAt, err := s.tokens.Issue(cred.ID, cred.Role)
	if err != nil {
		s.log.Error().Err(err).Str("identity_id", cred.ID).Msg("token issuance failed")
		s.record(in, email, domain.LoginErrored)
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to reset login throttle")
	}
	s.record(in, email, domain.LoginSucceeded)

	s.log.Info().
		Str("identity_id", cred.ID).
		Str("role", cred.Role.String()).
		Msg("login succeeded")

	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, Credential: cred}, nil
}

// reject records a failed attempt and returns the uniform failure. The reason
// is only logged.
func (s *AuthService) reject(ctx context.Context, in ports.LoginInput, email, reason string) error {
	if email != "" {
		if err := s.throttle.RecordFailure(ctx, email); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("failed to record login failure")
		}
	}
	s.log.Info().
		Str("email", email).
		Str("reason", reason).
		Str("remote_ip", in.RemoteIP).
		Msg("login rejected")
	s.record(in, email, domain.LoginFailed)
	return domain.ErrInvalidCredentials
}

func (s *AuthService) record(in ports.LoginInput, email string, outcome domain.LoginOutcome) {
	metrics.LoginAttemptsTotal.WithLabelValues(string(outcome)).Inc()
	s.audit.Record(domain.LoginEvent{
		Email:      email,
		Role:       in.Role,
		Outcome:    outcome,
		RemoteIP:   in.RemoteIP,
		OccurredAt: s.now().UTC(),
	})
}

type noThrottle struct{}

func (noThrottle) Blocked(context.Context, string) (bool, error) { return false, nil }
func (noThrottle) RecordFailure(context.Context, string) error   { return nil }
func (noThrottle) Reset(context.Context, string) error           { return nil }

type noAudit struct{}

func (noAudit) Record(domain.LoginEvent) {}
