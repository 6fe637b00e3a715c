package userhub

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenTTL is the fixed lifetime of an issued session token.
const SessionTokenTTL = time.Hour

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// GenerateVerificationToken returns a cryptographically secure random
// token for email verification links.
func GenerateVerificationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// SignSessionToken issues an HS256-signed session token bound to the
// user id with the given lifetime.
func SignSessionToken(userID, secretKey string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = SessionTokenTTL
	}
	now := time.Now()
	claims := &SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti makes every issued token distinct, so two logins in
			// the same second never mint the same token.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifySessionToken validates a session token and returns the user id
// it was issued for.
func VerifySessionToken(tokenString, secretKey string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.UserID == "" {
		return "", fmt.Errorf("invalid token")
	}
	return claims.UserID, nil
}
