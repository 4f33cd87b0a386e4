package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)

	assert.Len(t, a, TokenBytes*2)
	assert.NotEqual(t, a, b)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"bearer prefix", "Bearer abc123", "abc123", false},
		{"lowercase prefix", "bearer abc123", "abc123", false},
		{"raw token", "abc123", "abc123", false},
		{"quoted", "\"Bearer abc123\"", "abc123", false},
		{"empty", "", "", true},
		{"prefix only", "Bearer ", "", true},
		{"embedded space", "Bearer abc 123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPasswordWithCost("candidate123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "candidate123"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
