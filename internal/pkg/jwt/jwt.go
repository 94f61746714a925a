package jwt

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"log/slog"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	RoleEmployee = "employee"
	RoleAdmin    = "admin"

	sseTokenLifetime = 5 * time.Minute
)

// RevocationStore persists revoked token hashes until their natural expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

type Service interface {
	GenerateEmployeeToken(employeeID string, sessionID string) (token string, expiresAt int64, err error)
	GenerateAdminToken(adminID string, username string) (token string, expiresAt int64, err error)
	GenerateSSEToken(employeeID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (employeeID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(ctx context.Context, token string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, token string) bool
	PurgeRevoked(ctx context.Context, now time.Time) (int64, error)
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	store                     RevocationStore
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService signs HS256 tokens. A nil store keeps revocations in memory only.
func NewJWTService(secretKey string, accessTokenExpirationTime string, store RevocationStore) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		store:                     store,
		revokedTokens:             make(map[string]int64),
	}
}

func (j *JWTService) accessExpiry() (int64, error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return 0, err
	}
	return time.Now().Add(expDuration).Unix(), nil
}

func (j *JWTService) GenerateEmployeeToken(employeeID string, sessionID string) (token string, expiresAt int64, err error) {
	expiresAt, err = j.accessExpiry()
	if err != nil {
		return "", 0, err
	}

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sub":                   employeeID,
		"employee_id":           employeeID,
		"attendance_session_id": sessionID,
		"role":                  RoleEmployee,
		"is_admin":              false,
		"type":                  TokenTypeAccess,
		"exp":                   expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateAdminToken(adminID string, username string) (token string, expiresAt int64, err error) {
	expiresAt, err = j.accessExpiry()
	if err != nil {
		return "", 0, err
	}

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sub":      adminID,
		"admin_id": adminID,
		"username": username,
		"role":     RoleAdmin,
		"is_admin": true,
		"type":     TokenTypeAccess,
		"exp":      expiresAt,
	})
	return tokenString, expiresAt, err
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func (j *JWTService) RevokeToken(ctx context.Context, token string, expiresAt time.Time) error {
	hash := hashToken(token)

	j.mu.Lock()
	j.revokedTokens[hash] = expiresAt.Unix()
	j.mu.Unlock()

	if j.store == nil {
		return nil
	}
	return j.store.Revoke(ctx, hash, expiresAt)
}

// IsTokenRevoked fails closed when the store cannot be reached.
func (j *JWTService) IsTokenRevoked(ctx context.Context, token string) bool {
	hash := hashToken(token)

	j.mu.RLock()
	_, revoked := j.revokedTokens[hash]
	j.mu.RUnlock()
	if revoked || j.store == nil {
		return revoked
	}

	revoked, err := j.store.IsRevoked(ctx, hash)
	if err != nil {
		slog.Error("failed to check token revocation", "error", err)
		return true
	}
	if revoked {
		j.mu.Lock()
		j.revokedTokens[hash] = time.Now().Add(time.Hour).Unix()
		j.mu.Unlock()
	}
	return revoked
}

// PurgeRevoked drops revocations whose tokens have expired anyway.
func (j *JWTService) PurgeRevoked(ctx context.Context, now time.Time) (int64, error) {
	j.mu.Lock()
	var purged int64
	for hash, exp := range j.revokedTokens {
		if exp <= now.Unix() {
			delete(j.revokedTokens, hash)
			purged++
		}
	}
	j.mu.Unlock()

	if j.store == nil {
		return purged, nil
	}
	return j.store.PurgeExpired(ctx, now)
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(employeeID string) (token string, expiresIn int, err error) {
	expiresIn = int(sseTokenLifetime.Seconds())
	expiresAt := time.Now().Add(sseTokenLifetime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"type":        TokenTypeSSE,
		"exp":         expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns the employee ID
func (j *JWTService) ValidateSSEToken(tokenString string) (employeeID string, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeSSE {
		return "", jwt.ErrInvalidJWT()
	}

	idVal, ok := token.Get("employee_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	employeeID, ok = idVal.(string)
	if !ok || employeeID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return employeeID, nil
}
