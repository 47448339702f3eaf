package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"fleet-service/internal/model"
)

type Claims struct {
	UserID     uuid.UUID      `json:"sub"`
	Username   string         `json:"username"`
	Email      string         `json:"email"`
	Role       model.UserRole `json:"role"`
	DriverID   *uuid.UUID     `json:"driver_id,omitempty"`
	DriverName string         `json:"driver_name,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and verifies access tokens. It is the only component that
// touches the signing secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

func (m *Manager) Issue(p model.Principal) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:     p.UserID,
		Username:   p.Username,
		Email:      p.Email,
		Role:       p.Role,
		DriverID:   p.DriverID,
		DriverName: p.DriverName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

func (c *Claims) Principal() model.Principal {
	return model.Principal{
		UserID:     c.UserID,
		Username:   c.Username,
		Email:      c.Email,
		Role:       c.Role,
		DriverID:   c.DriverID,
		DriverName: c.DriverName,
	}
}
