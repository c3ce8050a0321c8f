package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/davronov/qrdesk/internal/auth"
	"github.com/davronov/qrdesk/internal/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// AuthService authenticates the single admin account provisioned
// through configuration. There is no user table; the dashboard has one
// operator.
type AuthService struct {
	username     string
	passwordHash string
	jwt          *auth.JWTManager
	denylist     *auth.Denylist
	log          logrus.FieldLogger
}

func NewAuthService(cfg config.AuthConfig, denylist *auth.Denylist, log logrus.FieldLogger) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret is not configured")
	}
	if cfg.AdminPassword == "" {
		return nil, errors.New("admin password is not configured")
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	return &AuthService{
		username:     cfg.AdminUsername,
		passwordHash: hash,
		jwt:          auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration),
		denylist:     denylist,
		log:          log,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passwordOK := auth.CheckPassword(s.passwordHash, password) == nil
	if !usernameOK || !passwordOK {
		s.log.WithField("username", username).Warn("failed login attempt")
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwt.GenerateToken(s.username)
	if err != nil {
		return "", time.Time{}, err
	}

	s.log.WithField("username", username).Info("admin logged in")
	return token, expiresAt, nil
}

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		// Expired or malformed tokens need no revocation.
		return nil
	}

	if s.denylist == nil {
		return nil
	}
	return s.denylist.Revoke(ctx, token, claims.ExpiresAt.Time)
}

// Validate checks the signature, expiry and the revocation list.
func (s *AuthService) Validate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, token)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}
