// Package auth implements the credential primitives of the server: signed
// bearer tokens (HS256 JWTs carrying the public profile) and one-way password
// hashing. Token freshness is not decided here — the stored token/expiry pair
// on the user record is authoritative, so logout can invalidate a token whose
// signature is still valid.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ledovskis/taskkeeper/internal/common"
)

// Claims are the statements embedded in an issued token: the standard
// registered claims plus the owner's public profile.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// GenerateToken issues a signed token for the given public profile, valid for
// validityDuration from now. Each token carries a unique jti so two tokens
// minted in the same second for the same user still differ; that keeps the
// stored token a reliable discriminator between sessions.
func GenerateToken(userID, name, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		Name:   name,
		Email:  email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates the signature of tokenString and returns the embedded
// claims. Tampered, malformed and self-expired tokens all map to
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
