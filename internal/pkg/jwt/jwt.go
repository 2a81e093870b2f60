package jwt

import (
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateAccessToken(username string, displayName string, isAdmin bool) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(tokenID string, expiresAt int64)
	IsTokenRevoked(tokenID string) bool
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(username string, displayName string, isAdmin bool) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"username":     username,
		"display_name": displayName,
		"is_admin":     isAdmin,
		"type":         "access",
		"jti":          uuid.NewString(),
		"exp":          expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// RevokeToken blacklists a token ID until its expiry passes.
func (j *JWTService) RevokeToken(tokenID string, expiresAt int64) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.revokedTokens[tokenID] = expiresAt

	// Drop entries whose expiry has passed while we hold the lock.
	now := time.Now().Unix()
	for id, exp := range j.revokedTokens {
		if exp < now {
			delete(j.revokedTokens, id)
		}
	}
}

func (j *JWTService) IsTokenRevoked(tokenID string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()

	exp, ok := j.revokedTokens[tokenID]
	if !ok {
		return false
	}
	return exp >= time.Now().Unix()
}
