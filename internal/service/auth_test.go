package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/apperr"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func newAuthService(t *testing.T) (*service.AuthService, *fixture) {
	f := setup(t)
	return service.NewAuthService(f.db, "test-secret", time.Hour, service.NewMemoryDenylist(), logger.NewNop()), f
}

func TestLoginIssuesValidToken(t *testing.T) {
	auth, f := newAuthService(t)
	ctx := context.Background()

	resp, err := auth.Login(ctx, &types.LoginRequest{Email: "Reader@Example.com", Password: testhelpers.TestPassword})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AuthToken)

	claims, err := auth.ValidateToken(ctx, resp.AuthToken)
	require.NoError(t, err)
	assert.Equal(t, f.reader.ID, claims.UserID)
	assert.Equal(t, "reader", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	for _, req := range []*types.LoginRequest{
		{Email: "reader@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: testhelpers.TestPassword},
	} {
		_, err := auth.Login(ctx, req)
		require.Error(t, err)
		assert.True(t, apperr.HasStatus(err, http.StatusBadRequest))
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	}

	_, err := auth.Login(ctx, &types.LoginRequest{Email: "not-an-email"})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.True(t, appErr.Has("email"))
	assert.True(t, appErr.Has("password"))
}

func TestLogoutRevokesToken(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	resp, err := auth.Login(ctx, &types.LoginRequest{Email: "author@example.com", Password: testhelpers.TestPassword})
	require.NoError(t, err)
	claims, err := auth.ValidateToken(ctx, resp.AuthToken)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, claims))

	_, err = auth.ValidateToken(ctx, resp.AuthToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	// A fresh login is unaffected.
	again, err := auth.Login(ctx, &types.LoginRequest{Email: "author@example.com", Password: testhelpers.TestPassword})
	require.NoError(t, err)
	_, err = auth.ValidateToken(ctx, again.AuthToken)
	assert.NoError(t, err)
}

func TestValidateTokenRejectsForeignAndExpiredTokens(t *testing.T) {
	auth, f := newAuthService(t)
	ctx := context.Background()

	other := service.NewAuthService(f.db, "other-secret", time.Hour, service.NewMemoryDenylist(), logger.NewNop())
	foreign, err := other.GenerateToken(f.reader)
	require.NoError(t, err)
	_, err = auth.ValidateToken(ctx, foreign)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "expired",
			Issuer:    "foodgram",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		UserID: f.reader.ID,
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = auth.ValidateToken(ctx, signed)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = auth.ValidateToken(ctx, "garbage")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestMemoryDenylistForgetsExpiredEntries(t *testing.T) {
	d := service.NewMemoryDenylist()
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "live", time.Now().Add(time.Hour)))
	require.NoError(t, d.Revoke(ctx, "stale", time.Now().Add(-time.Second)))

	revoked, err := d.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = d.IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)
}
