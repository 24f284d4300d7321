// Package auth issues and verifies bearer tokens and hashes passwords.
// Tokens carry the user id only; there is no refresh or revocation.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/emilythestrangee/bugai/backend/internal/config"
	apperrors "github.com/emilythestrangee/bugai/backend/internal/errors"
)

// Claims is the payload of an issued token
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret    []byte
	ttl       time.Duration
	cost      int
	ephemeral bool
	now       func() time.Time
}

// NewManager builds a token manager. When no secret is configured a random
// one is generated, so tokens do not survive a restart.
func NewManager(cfg config.AuthConfig) (*Manager, error) {
	m := &Manager{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		cost:   cfg.BcryptCost,
		now:    time.Now,
	}
	if m.ttl <= 0 {
		m.ttl = 7 * 24 * time.Hour
	}
	if m.cost == 0 {
		m.cost = bcrypt.DefaultCost
	}
	if m.cost < bcrypt.MinCost || m.cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range", m.cost)
	}
	if len(m.secret) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generating jwt secret: %w", err)
		}
		m.secret = []byte(hex.EncodeToString(buf))
		m.ephemeral = true
	}
	return m, nil
}

// Ephemeral reports whether the signing secret was generated at startup
func (m *Manager) Ephemeral() bool {
	return m.ephemeral
}

func (m *Manager) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword returns an Unauthorized error on mismatch
func (m *Manager) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return apperrors.Unauthorized("invalid credentials")
	}
	return nil
}

// Issue signs an HS256 token for the user
func (m *Manager) Issue(userID, username, email string) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns its claims. Any failure is Unauthorized.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	if claims.UserID == "" {
		return nil, apperrors.Unauthorized("token has no user")
	}
	return claims, nil
}
