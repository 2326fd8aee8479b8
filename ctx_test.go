package auth_test

import (
	"context"
	"testing"

	auth "github.com/goliatone/go-auth-service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimsContext(t *testing.T) {
	_, ok := auth.ClaimsFromContext(context.Background())
	assert.False(t, ok)

	claims := auth.NewClaims("account-1")
	ctx := auth.WithClaimsContext(context.Background(), &claims)

	got, ok := auth.ClaimsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "account-1", got.AccountID())

	_, ok = auth.ClaimsFromContext(auth.WithClaimsContext(context.Background(), nil))
	assert.False(t, ok)
}
