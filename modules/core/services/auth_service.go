package services

import (
	"context"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/mozartiade/archive/modules/core/domain/aggregates/admin"
	"github.com/mozartiade/archive/pkg/configuration"
	"github.com/mozartiade/archive/pkg/serrors"
)

// AuthService issues and verifies admin bearer tokens. Tokens are signed
// HS256 with the admin ID as subject; every verification re-loads the admin
// so a deleted account or changed role takes effect immediately.
type AuthService struct {
	admins admin.Repository
	opts   configuration.AdminTokenOptions
}

func NewAuthService(admins admin.Repository, opts configuration.AdminTokenOptions) *AuthService {
	return &AuthService{admins: admins, opts: opts}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*admin.Admin, string, error) {
	a, err := s.admins.GetByEmail(ctx, email)
	if errors.Is(err, admin.ErrNotFound) {
		return nil, "", serrors.Authentication("invalid email or password")
	}
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return nil, "", serrors.Authentication("invalid email or password")
	}

	token, err := s.sign(a)
	if err != nil {
		return nil, "", errors.Wrap(err, "signing admin token")
	}
	return a, token, nil
}

func (s *AuthService) sign(a *admin.Admin) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(a.ID), 10),
		Issuer:    s.opts.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.Duration)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.Secret))
}

// VerifyAdminCredential satisfies middleware.AdminVerifier.
func (s *AuthService) VerifyAdminCredential(ctx context.Context, token string) (*admin.Admin, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.opts.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.Wrap(err, "parsing admin token")
	}
	if s.opts.Issuer != "" && claims.Issuer != s.opts.Issuer {
		return nil, errors.New("unknown token issuer")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "parsing token subject")
	}
	a, err := s.admins.GetByID(ctx, uint(id))
	if err != nil {
		return nil, errors.Wrap(err, "loading admin")
	}
	return a, nil
}
