// Package auth implements the access token codec: a signed HS256 JWT
// carrying the user id. Possession of a validly signed, unexpired token is
// the sole proof of identity; there is no server-side session state.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims extends the registered JWT claims with the user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateToken issues an HS256 token for userID, valid for validityDuration.
// Every token carries an expiry; GetUserIDFromToken rejects tokens without one.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies tokenString against secretKey and returns the
// embedded user id.
//
// Any unverifiable input (bad signature, malformed encoding, wrong signing
// method, missing expiry, empty user id) maps to common.ErrInvalidToken;
// an expired token maps to common.ErrTokenExpired. Garbage input never
// panics.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
