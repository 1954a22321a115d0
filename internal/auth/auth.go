package auth

import (
	"errors"
	"fmt"
	"time"

	userDatamodel "github.com/dchesque/app-loja/internal/core/datamodel/user"
	coreuser "github.com/dchesque/app-loja/internal/core/user"
	"github.com/golang-jwt/jwt/v5"
)

// User is the stored account record.
type User = userDatamodel.User

// DefaultTokenTTL is used when no expiry is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenGenerator issues and validates bearer tokens.
type TokenGenerator interface {
	GenerateToken(userID string, role coreuser.Role) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims represents JWT token claims
type Claims struct {
	UserID string        `json:"id"`
	Role   coreuser.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the request identity the claims describe.
func (c *Claims) Identity() coreuser.Identity {
	return coreuser.Identity{ID: c.UserID, Role: c.Role}
}

type JWTTokenGenerator struct {
	Secret []byte
	TTL    time.Duration
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// NewJWTTokenGenerator creates an HS256 token generator. A non-positive ttl
// falls back to DefaultTokenTTL.
func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTTokenGenerator{
		Secret: []byte(secret),
		TTL:    ttl,
	}
}

// GenerateToken signs {id, role} with the configured lifetime.
func (j *JWTTokenGenerator) GenerateToken(userID string, role coreuser.Role) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims. Expiry is reported
// as ErrTokenExpired, every other failure as ErrInvalidToken.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	role, ok := coreuser.ParseRole(string(claims.Role))
	if !ok {
		return nil, ErrInvalidToken
	}
	claims.Role = role

	return claims, nil
}
