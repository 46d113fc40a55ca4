// Package httpkit provides HTTP utilities including session identity.
package httpkit

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionTokenType = "session"

// sessionClaims binds a token to exactly one search session.
type sessionClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// SessionTokens issues and verifies HMAC-signed search session tokens.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionTokens creates a token issuer. ttl bounds the token lifetime;
// idle sessions are evicted independently of it.
func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	return &SessionTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token whose subject is sessionID.
func (s *SessionTokens) Issue(sessionID string) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Type: sessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse verifies rawToken and returns the session ID it carries.
func (s *SessionTokens) Parse(rawToken string) (string, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return "", errors.New(errInvalidToken)
	}
	if claims.Type != sessionTokenType {
		return "", errors.New(errInvalidToken)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errors.New(errInvalidToken)
	}
	return claims.Subject, nil
}

// GetSessionID returns the session ID set by SessionRequired.
func GetSessionID(c *gin.Context) (string, bool) {
	value, ok := c.Get(ContextSessionIDKey)
	if !ok {
		return "", false
	}
	id, ok := value.(string)
	return id, ok && id != ""
}

// MustGetSessionID returns the session ID or aborts with 401.
func MustGetSessionID(c *gin.Context) (string, bool) {
	id, ok := GetSessionID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMissingToken})
		return "", false
	}
	return id, true
}
