// Package token issues and verifies the HS256 session tokens handed out at
// login.
package token

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"vira/internal/domain/entity"
)

var ErrRevoked = errors.New("token: revoked")

type claims struct {
	Device string `json:"device"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secret []byte
	expiry time.Duration

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewJWTManager(secret string, expiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:  []byte(secret),
		expiry:  expiry,
		revoked: make(map[string]time.Time),
	}
}

func (m *JWTManager) Issue(device, email string) (string, *entity.Session, error) {
	now := time.Now()
	session := &entity.Session{
		TokenID:   uuid.NewString(),
		Device:    device,
		Email:     email,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.expiry),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Device: device,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.TokenID,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, session, nil
}

func (m *JWTManager) Verify(tokenString string) (*entity.Session, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("token: unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if c.ID == "" || c.Device == "" || c.ExpiresAt == nil {
		return nil, errors.New("token: missing claims")
	}
	if m.IsRevoked(c.ID) {
		return nil, ErrRevoked
	}

	session := &entity.Session{
		TokenID:   c.ID,
		Device:    c.Device,
		Email:     c.Subject,
		ExpiresAt: c.ExpiresAt.Time,
	}
	if c.IssuedAt != nil {
		session.IssuedAt = c.IssuedAt.Time
	}
	return session, nil
}

// Revoke remembers the token id until the token would have expired anyway.
func (m *JWTManager) Revoke(session *entity.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[session.TokenID] = session.ExpiresAt
}

func (m *JWTManager) IsRevoked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok
}

// Prune drops revoked ids whose tokens have expired. It returns how many
// were dropped.
func (m *JWTManager) Prune(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, exp := range m.revoked {
		if !now.Before(exp) {
			delete(m.revoked, id)
			n++
		}
	}
	return n
}
