// Package session issues tokens that carry an admin profile for the length of
// a dashboard session. There is no credential check behind them.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"unmute-go/internal/types"
)

const issuer = "unmute-service"

var (
	ErrInvalidToken = errors.New("invalid or expired session")
	ErrRevoked      = errors.New("session ended")
)

type claims struct {
	Name       string     `json:"name"`
	Role       types.Role `json:"role"`
	Department string     `json:"department"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> expiry
}

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

// Issue validates the profile and returns a signed session token.
func (m *Manager) Issue(p types.AdminProfile) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	now := m.now()
	c := claims{
		Name:       p.Name,
		Role:       p.Role,
		Department: p.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

func (m *Manager) parse(token string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &c, nil
}

// Parse returns the profile carried by a live token.
func (m *Manager) Parse(token string) (types.AdminProfile, error) {
	c, err := m.parse(token)
	if err != nil {
		return types.AdminProfile{}, err
	}
	m.mu.Lock()
	_, gone := m.revoked[c.ID]
	m.mu.Unlock()
	if gone {
		return types.AdminProfile{}, ErrRevoked
	}
	return types.AdminProfile{Name: c.Name, Role: c.Role, Department: c.Department}, nil
}

// Revoke ends a session. Expired revocations are pruned on the way.
func (m *Manager) Revoke(token string) error {
	c, err := m.parse(token)
	if err != nil {
		return err
	}
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, exp := range m.revoked {
		if now.After(exp) {
			delete(m.revoked, id)
		}
	}
	m.revoked[c.ID] = c.ExpiresAt.Time
	return nil
}
