package auth_test

import (
	"strings"
	"testing"

	auth "github.com/goliatone/go-auth-service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
		wantKind auth.Kind
	}{
		{
			name:     "Valid password",
			password: "securePassword123!",
		},
		{
			name:     "Empty password",
			password: "",
			wantKind: auth.KindInvalidInput,
		},
		{
			name:     "Password over 72 bytes",
			password: strings.Repeat("a", 73),
			wantKind: auth.KindInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := hasher.Hash(tt.password)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, auth.KindOf(err))
				assert.Empty(t, digest)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.password, digest)
			assert.True(t, hasher.Verify(tt.password, digest))
		})
	}
}

func TestBcryptHasher_SaltedDigests(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("same-password", first))
	assert.True(t, hasher.Verify("same-password", second))
}

func TestBcryptHasher_Verify(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	password := "testPassword123!"
	digest, err := hasher.Hash(password)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		digest   string
		want     bool
	}{
		{name: "Matching password", password: password, digest: digest, want: true},
		{name: "Wrong password", password: "wrongPassword", digest: digest, want: false},
		{name: "Empty password", password: "", digest: digest, want: false},
		{name: "Empty digest", password: password, digest: "", want: false},
		{name: "Malformed digest", password: password, digest: "not-a-bcrypt-digest", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasher.Verify(tt.password, tt.digest))
		})
	}
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	assert.Equal(t, bcrypt.MinCost, auth.NewBcryptHasher(1).Cost())
	assert.Equal(t, bcrypt.MaxCost, auth.NewBcryptHasher(99).Cost())
	assert.Equal(t, 10, auth.NewBcryptHasher(10).Cost())
	assert.NotZero(t, auth.NewBcryptHasher(0).Cost())
}
