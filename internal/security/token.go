package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaim is the identity payload carried inside the token.
type UserClaim struct {
	ID string `json:"id"`
}

// Claims is the JWT claim set: {"user":{"id":...}} plus the registered
// expiry and issued-at fields.
type Claims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// IssueToken creates a signed HS256 bearer token for the given user id.
func IssueToken(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		User: UserClaim{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the token's signature and expiry and returns its
// claims. Any failure, including an expired token, yields an error.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.User.ID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
