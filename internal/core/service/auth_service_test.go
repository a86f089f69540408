package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
	"github.com/iset-tozeur/library-backend/internal/core/ports"
)

type stubCredentialRepo struct {
	byEmail map[string]*domain.Credential
	findErr error
	lookups int
	deleted []string
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{byEmail: make(map[string]*domain.Credential)}
}

func cloneCredential(c *domain.Credential) *domain.Credential {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func (r *stubCredentialRepo) FindByEmail(_ context.Context, email string) (*domain.Credential, error) {
	r.lookups++
	if r.findErr != nil {
		return nil, r.findErr
	}
	c, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	return cloneCredential(c), nil
}

func (r *stubCredentialRepo) Create(_ context.Context, cred *domain.Credential) (*domain.Credential, error) {
	if _, exists := r.byEmail[cred.Email]; exists {
		return nil, domain.ErrCredentialExists
	}
	created := cloneCredential(cred)
	if created.ID == "" {
		created.ID = "id-" + cred.Email
	}
	r.byEmail[created.Email] = cloneCredential(created)
	return created, nil
}

func (r *stubCredentialRepo) Delete(_ context.Context, id string) error {
	for email, c := range r.byEmail {
		if c.ID == id {
			delete(r.byEmail, email)
			r.deleted = append(r.deleted, id)
			return nil
		}
	}
	return domain.ErrCredentialNotFound
}

type stubThrottle struct {
	blocked  bool
	failures map[string]int
	resets   []string
}

func newStubThrottle() *stubThrottle {
	return &stubThrottle{failures: make(map[string]int)}
}

func (t *stubThrottle) Blocked(context.Context, string) (bool, error) { return t.blocked, nil }

func (t *stubThrottle) RecordFailure(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	t.resets = append(t.resets, email)
	return nil
}

type recordingAudit struct {
	events []domain.LoginEvent
}

func (a *recordingAudit) Record(e domain.LoginEvent) { a.events = append(a.events, e) }

type authFixture struct {
	repo     *stubCredentialRepo
	throttle *stubThrottle
	audit    *recordingAudit
	tokens   *TokenService
	svc      *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		repo:     newStubCredentialRepo(),
		throttle: newStubThrottle(),
		audit:    &recordingAudit{},
		tokens:   NewTokenService([]byte("secret"), time.Hour),
	}
	passwords := NewPasswordVerifier(bcrypt.MinCost)
	f.svc = NewAuthService(AuthDependencies{
		Credentials: f.repo,
		Tokens:      f.tokens,
		Passwords:   passwords,
		Throttle:    f.throttle,
		Audit:       f.audit,
		Logger:      zerolog.Nop(),
	})

	seed := []SeedAccount{
		{Email: "admin@iset.tn", Password: "admin123", Role: domain.RoleAdmin},
		{Email: "etudiant@iset.tn", Password: "etudiant123", Role: domain.RoleStudent},
	}
	if err := SeedCredentials(context.Background(), f.repo, passwords, seed, zerolog.Nop()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	f.repo.lookups = 0
	return f
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email:    "admin@iset.tn",
		Password: "admin123",
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if result.Credential == nil || result.Credential.Email != "admin@iset.tn" {
		t.Fatalf("unexpected credential: %+v", result.Credential)
	}

	claims, err := f.tokens.Validate(result.Token)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.IdentityID != result.Credential.ID || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.ExpiresAt.Equal(result.ExpiresAt) {
		t.Fatalf("expires_at mismatch: %v vs %v", claims.ExpiresAt, result.ExpiresAt)
	}
	if f.repo.lookups != 1 {
		t.Fatalf("expected exactly one lookup, got %d", f.repo.lookups)
	}
	if len(f.throttle.resets) != 1 {
		t.Fatalf("expected throttle reset on success")
	}
	if len(f.audit.events) != 1 || f.audit.events[0].Outcome != domain.LoginSucceeded {
		t.Fatalf("unexpected audit events: %+v", f.audit.events)
	}
}

func TestAuthService_Login_NormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email:    "  Admin@ISET.tn ",
		Password: "admin123",
		Role:     domain.RoleAdmin,
	}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

func TestAuthService_Login_FailuresAreUniform(t *testing.T) {
	cases := []struct {
		name  string
		input ports.LoginInput
	}{
		{"wrong password", ports.LoginInput{Email: "admin@iset.tn", Password: "wrongpassword", Role: domain.RoleAdmin}},
		{"unknown email", ports.LoginInput{Email: "ghost@iset.tn", Password: "admin123", Role: domain.RoleAdmin}},
		{"role mismatch", ports.LoginInput{Email: "etudiant@iset.tn", Password: "etudiant123", Role: domain.RoleAdmin}},
		{"empty password", ports.LoginInput{Email: "admin@iset.tn", Password: "", Role: domain.RoleAdmin}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAuthFixture(t)

			result, err := f.svc.Login(context.Background(), tc.input)
			if err != domain.ErrInvalidCredentials {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
			if result != nil {
				t.Fatalf("expected nil result, got %+v", result)
			}
			if len(f.audit.events) != 1 || f.audit.events[0].Outcome != domain.LoginFailed {
				t.Fatalf("unexpected audit events: %+v", f.audit.events)
			}
		})
	}
}

func TestAuthService_Login_RecordsFailure(t *testing.T) {
	f := newAuthFixture(t)

	_, _ = f.svc.Login(context.Background(), ports.LoginInput{Email: "admin@iset.tn", Password: "bad", Role: domain.RoleAdmin})
	_, _ = f.svc.Login(context.Background(), ports.LoginInput{Email: "admin@iset.tn", Password: "bad", Role: domain.RoleAdmin})

	if f.throttle.failures["admin@iset.tn"] != 2 {
		t.Fatalf("expected 2 recorded failures, got %d", f.throttle.failures["admin@iset.tn"])
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	f := newAuthFixture(t)
	f.throttle.blocked = true

	_, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "admin@iset.tn", Password: "admin123", Role: domain.RoleAdmin})
	if err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if f.repo.lookups != 0 {
		t.Fatalf("throttled login must not reach the store, got %d lookups", f.repo.lookups)
	}
}

func TestAuthService_Login_StoreErrorIsNotAuthFailure(t *testing.T) {
	f := newAuthFixture(t)
	storeErr := errors.New("connection refused")
	f.repo.findErr = storeErr

	_, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "admin@iset.tn", Password: "admin123", Role: domain.RoleAdmin})
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("store error must not be reported as invalid credentials")
	}
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if len(f.throttle.failures) != 0 {
		t.Fatalf("store error must not count as a failed attempt")
	}
}

func TestSeedCredentials_SkipsExisting(t *testing.T) {
	repo := newStubCredentialRepo()
	passwords := NewPasswordVerifier(bcrypt.MinCost)
	accounts := []SeedAccount{{Email: "admin@iset.tn", Password: "admin123", Role: domain.RoleAdmin}}

	if err := SeedCredentials(context.Background(), repo, passwords, accounts, zerolog.Nop()); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	original := repo.byEmail["admin@iset.tn"].PasswordHash

	accounts[0].Password = "changed"
	if err := SeedCredentials(context.Background(), repo, passwords, accounts, zerolog.Nop()); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if repo.byEmail["admin@iset.tn"].PasswordHash != original {
		t.Fatalf("existing credential must not be modified")
	}
}
