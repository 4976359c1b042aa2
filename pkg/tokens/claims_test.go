package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_ReadsClaimsWithoutSecret(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).UTC()
	token, err := Sign(Claims{
		ID:   float64(42),
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}, []byte("some-secret"))
	require.NoError(t, err)

	claims, err := Decode(token)
	require.NoError(t, err)

	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "42", claims.UserID())
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(exp.Add(time.Minute)))
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "two segments", token: "abc.def"},
		{name: "bad base64 payload", token: "eyJhbGciOiJIUzI1NiJ9.%%%.sig"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(tt.token)
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecode_NoExpiry(t *testing.T) {
	t.Parallel()

	token, err := Sign(Claims{Role: "user", RegisteredClaims: jwt.RegisteredClaims{Subject: "7"}}, []byte("k"))
	require.NoError(t, err)

	_, err = Decode(token)
	require.ErrorIs(t, err, ErrNoExpiry)
}

func TestClaims_UserIDFallsBackToSubject(t *testing.T) {
	t.Parallel()

	c := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
	assert.Equal(t, "abc", c.UserID())

	c.ID = "xyz"
	assert.Equal(t, "xyz", c.UserID())
}
