package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.Claims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestInspect(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	tests := []struct {
		name   string
		token  string
		wantOK bool
	}{
		{
			name:   "jwt со сроком действия",
			token:  sign(t, jwt.RegisteredClaims{Subject: "admin-1", ExpiresAt: jwt.NewNumericDate(exp)}),
			wantOK: true,
		},
		{
			name:   "истёкший jwt всё равно читается",
			token:  sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}),
			wantOK: true,
		},
		{
			name:   "jwt без exp",
			token:  sign(t, jwt.RegisteredClaims{Subject: "admin-1"}),
			wantOK: false,
		},
		{
			name:   "непрозрачный токен",
			token:  "opaque-session-token",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Inspect(tt.token)
			assert.Equal(t, tt.wantOK, ok)
		})
	}

	claims, ok := Inspect(tests[0].token)
	require.True(t, ok)
	assert.Equal(t, "admin-1", claims.Subject)
	assert.True(t, exp.Equal(claims.ExpiresAt))
}
