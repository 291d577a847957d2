package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	SetBcryptCost(bcrypt.MinCost)
	defer SetBcryptCost(DefaultBcryptCost)

	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("", ""))
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Token abc123", "abc123", true},
		{"Bearer abc123", "abc123", true},
		{"token abc123", "abc123", true},
		{"abc123", "", false},
		{"Basic abc123", "", false},
		{"Token ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, err := ExtractToken(tt.header)
		if !tt.ok {
			assert.ErrorIs(t, err, ErrInvalidFormat, tt.header)
			continue
		}
		require.NoError(t, err, tt.header)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewTokenKey(t *testing.T) {
	a, b := NewTokenKey(), NewTokenKey()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}

func TestStateRoundTrip(t *testing.T) {
	svc := NewStateService(StateConfig{SecretKey: "k", TTL: time.Minute, Issuer: "collegeerp"})

	state, nonce, err := svc.Issue("/attendance")
	require.NoError(t, err)

	claims, err := svc.Verify(state)
	require.NoError(t, err)
	assert.Equal(t, nonce, claims.Nonce)
	assert.Equal(t, "/attendance", claims.Next)

	other := NewStateService(StateConfig{SecretKey: "other", Issuer: "collegeerp"})
	_, err = other.Verify(state)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestStateExpires(t *testing.T) {
	svc := NewStateService(StateConfig{SecretKey: "k", TTL: time.Nanosecond, Issuer: "collegeerp"})

	state, _, err := svc.Issue("/")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	_, err = svc.Verify(state)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
