package auth

import (
	"errors"
	"fmt"
	"time"

	apperrors "expvote/pkg/errors"
	"expvote/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is stamped into every token and required on validation
const Issuer = "expvote"

// TokenService issues and validates HS256 bearer tokens whose subject is the caller identity
type TokenService struct {
	secret []byte
	now    func() time.Time
	logger *logger.Logger
}

// NewTokenService creates a token service. The secret must not be empty.
func NewTokenService(secret string, log *logger.Logger) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &TokenService{
		secret: []byte(secret),
		now:    time.Now,
		logger: log.Named("auth"),
	}, nil
}

// Issue signs a token for subject valid for ttl
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be positive")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, issuer and expiry and returns the subject
func (s *TokenService) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.logger.WithError(err).Debug("Token validation failed")
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.NewAuthenticationError("Token has expired")
		}
		return "", apperrors.NewAuthenticationError("Invalid token")
	}

	if claims.Subject == "" {
		return "", apperrors.NewAuthenticationError("Invalid token: no subject")
	}
	return claims.Subject, nil
}
