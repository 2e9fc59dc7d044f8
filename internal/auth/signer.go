package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ribbitreels/learning-service/internal/models"
)

// TokenExpiry is how long an issued token remains valid.
const TokenExpiry = 7 * 24 * time.Hour

// minKeyBytes enforces a 256-bit minimum for the HMAC signing key.
const minKeyBytes = 32

// Claims are the identity claims carried by issued tokens. The boundary
// layer's auth middleware parses these back out for role gating.
type Claims struct {
	jwt.RegisteredClaims
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

// TokenSigner issues signed identity tokens.
type TokenSigner interface {
	Sign(user *models.User) (string, error)
}

// TokenParser validates a token string and returns its claims.
type TokenParser interface {
	Parse(tokenString string) (*Claims, error)
}

type JWTSigner struct {
	key      []byte
	issuer   string
	audience string
	now      func() time.Time
}

// NewJWTSigner creates an HS256 signer. The key must be at least 256 bits;
// a short key is a configuration error surfaced at startup, never a silent
// weak signature.
func NewJWTSigner(key, issuer, audience string) (*JWTSigner, error) {
	if len(key) < minKeyBytes {
		return nil, fmt.Errorf("jwt signing key must be at least 256 bits (%d bytes)", minKeyBytes)
	}
	return &JWTSigner{
		key:      []byte(key),
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}, nil
}

func (s *JWTSigner) Sign(user *models.User) (string, error) {
	now := s.now().UTC()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
		},
		Name:  user.DisplayName,
		Email: user.Email,
		Role:  user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTSigner) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.audience))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}
