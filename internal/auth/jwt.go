package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"shopdesk/internal/entity"
)

// ErrInvalidToken is returned for every verification failure. Callers must not
// be able to distinguish a bad signature from an expired token or a wrong
// role, so all causes collapse into this one sentinel.
var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims are the JWT claims carried by an admin session token.
//
// The token intentionally carries identity and tenant only. Mutable
// authorization state (superadmin bit, active flag) lives in the admin row and
// is re-read per request by the session middleware.
type SessionClaims struct {
	UserID   uint   `json:"uid,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
	CenterID string `json:"center_id,omitempty"`
	jwt.RegisteredClaims
}

// Manager encapsulates session token generation and verification.
type Manager struct {
	secret         []byte
	issuer         string
	expiry         time.Duration
	rememberExpiry time.Duration
}

// NewManager creates a new session token manager. The secret is a fatal
// configuration concern: an empty value is a constructor error, never a
// per-request one.
func NewManager(secret, issuer string, expiry, rememberExpiry time.Duration) (*Manager, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, errors.New("session secret must not be empty")
	}
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}
	if rememberExpiry <= expiry {
		rememberExpiry = 30 * 24 * time.Hour
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = "shopdesk"
	}
	return &Manager{
		secret:         []byte(trimmed),
		issuer:         issuer,
		expiry:         expiry,
		rememberExpiry: rememberExpiry,
	}, nil
}

// GenerateToken issues a signed session token for the provided admin account.
// With remember set, the extended expiry is used.
func (m *Manager) GenerateToken(user *entity.DbAdminUser, remember bool) (string, time.Time, error) {
	if m == nil {
		return "", time.Time{}, errors.New("token manager is nil")
	}
	if user == nil || user.ID == 0 {
		return "", time.Time{}, errors.New("invalid user for token generation")
	}
	claims := SessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     entity.RoleAdmin,
		CenterID: user.CenterID,
	}
	return m.sign(claims, remember)
}

// GenerateAccessCodeToken issues the legacy shared-code session: role only, no
// user id and no center. Tenant-scoped handlers treat the missing center as
// unauthorized.
func (m *Manager) GenerateAccessCodeToken() (string, time.Time, error) {
	if m == nil {
		return "", time.Time{}, errors.New("token manager is nil")
	}
	return m.sign(SessionClaims{Role: entity.RoleAdmin}, false)
}

func (m *Manager) sign(claims SessionClaims, remember bool) (string, time.Time, error) {
	now := time.Now().UTC()
	expiry := m.expiry
	if remember {
		expiry = m.rememberExpiry
	}
	expiresAt := now.Add(expiry)

	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", claims.UserID),
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// VerifyToken validates signature, expiry, and role. Any failure yields
// ErrInvalidToken; the token is never partially trusted.
func (m *Manager) VerifyToken(tokenString string) (*SessionClaims, error) {
	if m == nil {
		return nil, errors.New("token manager is nil")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != entity.RoleAdmin {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
