package service

import (
	"alcyxob/routine-tracker/internal/domain"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const tokenIssuer = "routine-tracker"

// TokenService signs and verifies session tokens.
type TokenService interface {
	Issue(claims domain.Claims) (string, error)
	Verify(token string) (*domain.Claims, error)
	Expiration() time.Duration
}

type tokenService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// NewTokenService creates an HS256 token service.
func NewTokenService(secret string, expiration time.Duration) TokenService {
	if secret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if expiration <= 0 {
		expiration = 7 * 24 * time.Hour
	}
	return &tokenService{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

func (s *tokenService) Expiration() time.Duration {
	return s.expiration
}

// Issue creates a signed token embedding id, email and role.
func (s *tokenService) Issue(claims domain.Claims) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwtClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry. Every failure is ErrInvalidToken.
func (s *tokenService) Verify(tokenString string) (*domain.Claims, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &domain.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
