package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

const DefaultTokenTTL = time.Hour

type tokenClaims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 bearer tokens. It holds no mutable
// state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &TokenService{secret: key, ttl: ttl, now: time.Now}
}

func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for identityID and role and returns it with its expiry.
func (s *TokenService) Issue(identityID string, role domain.Role) (string, time.Time, error) {
	if identityID == "" || !role.Valid() {
		return "", time.Time{}, fmt.Errorf("issue token: invalid identity %q with role %q", identityID, role)
	}

	now := s.now()
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Validate checks the token's signature and expiry and returns its claims.
// Every failure is a *domain.AuthError.
func (s *TokenService) Validate(token string) (*domain.ClaimSet, error) {
	if token == "" {
		return nil, domain.NewAuthError(domain.TokenMissing, nil)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return nil, domain.NewAuthError(domain.TokenMalformed, errors.New("token must have three segments"))
	}
	if err := s.verifySignature(parts); err != nil {
		return nil, domain.NewAuthError(domain.SignatureInvalid, err)
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.NewAuthError(domain.TokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, domain.NewAuthError(domain.SignatureInvalid, err)
	default:
		return nil, domain.NewAuthError(domain.TokenMalformed, err)
	}

	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, domain.NewAuthError(domain.TokenMalformed, errors.New("token claims missing subject or role"))
	}

	set := &domain.ClaimSet{
		IdentityID: claims.Subject,
		Role:       claims.Role,
		TokenID:    claims.ID,
		ExpiresAt:  claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		set.IssuedAt = claims.IssuedAt.Time
	}
	return set, nil
}

func (s *TokenService) keyFunc(*jwt.Token) (interface{}, error) {
	return s.secret, nil
}

// verifySignature checks the HMAC over header.payload before anything in the
// token is decoded, so an edit to any segment reports as a signature failure.
func (s *TokenService) verifySignature(parts []string) error {
	sig, err := base64.RawURLEncoding.Strict().DecodeString(parts[2])
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}
	return jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, s.secret)
}
