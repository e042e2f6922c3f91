// Package jwt implements generation and parsing of JWT tokens carrying
// the custom claims used across the service: username, role and the
// user UID.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims extends the registered JWT claims with the identity
// fields the middleware puts into the request context.
type CustomClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	UserUID  string `json:"user_uid"`
	jwt.RegisteredClaims
}

// Maker creates and verifies JWT tokens.
type Maker interface {
	GenerateToken(username, role, userUID string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implements Maker with an HS256 secret key and a token TTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker creates a MakerImpl from a secret key and a TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
