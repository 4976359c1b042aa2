package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed = errors.New("malformed token")
	ErrNoExpiry  = errors.New("token has no expiry")
)

// Claims is what the remote API signs into its access tokens. The subject id
// is carried either as "id" or as the registered "sub" claim.
type Claims struct {
	ID   any    `json:"id,omitempty"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the subject id as a string whatever JSON type it arrived as.
func (c *Claims) UserID() string {
	switch v := c.ID.(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatInt(int64(v), 10)
	}
	return c.Subject
}

// Expired reports whether exp lies strictly before now.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return c.ExpiresAt.Time.Before(now)
}

// Decode reads the claims of a JWT without verifying its signature. Callers
// use the result for navigation decisions only; the API re-validates the token.
func Decode(token string) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if claims.ExpiresAt == nil {
		return nil, ErrNoExpiry
	}
	return &claims, nil
}

// Sign issues an HS256 token. The storefront never signs tokens in production;
// tests and local fixtures use it to stand in for the API.
func Sign(claims Claims, secret []byte) (string, error) {
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tkn.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}
