package services_test

import (
	"context"
	"testing"
	"time"

	"sosmed/internal/apperror"
	"sosmed/internal/repositories"
	"sosmed/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenEngine_IssueAndValidate(t *testing.T) {
	engine := services.NewTokenEngine(testConfig(), repositories.NewMemoryRevocationStore())

	pair, err := engine.Issue("user-1", "alice")
	require.NoError(t, err)

	claims, err := engine.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, services.TokenTypeAccess, claims.Type)
	assert.NotEmpty(t, claims.Id)

	refresh, err := engine.VerifyRefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, services.TokenTypeRefresh, refresh.Type)
	assert.NotEqual(t, claims.Id, refresh.Id)
}

func TestTokenEngine_RejectsBadRefreshTokens(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	engine := services.NewTokenEngine(cfg, repositories.NewMemoryRevocationStore())
	pair, err := engine.Issue("user-1", "alice")
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, services.Claims{
		UserID: "user-1",
		Type:   services.TokenTypeRefresh,
		StandardClaims: jwt.StandardClaims{
			Id:        "expired-jti",
			ExpiresAt: time.Now().Add(-time.Minute).Unix(),
		},
	}).SignedString([]byte(cfg.RefreshTokenSecret))
	require.NoError(t, err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, services.Claims{
		UserID: "user-1",
		Type:   services.TokenTypeRefresh,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}).SignedString([]byte("someone_elses_secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"malformed", "not-a-jwt"},
		{"expired", expired},
		{"bad signature", forged},
		{"access token used as refresh token", pair.AccessToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.VerifyRefreshToken(ctx, tt.token)
			assert.Equal(t, apperror.KindAuthorizationFailed, apperror.KindOf(err))
		})
	}
}

func TestTokenEngine_RevokedTokenIsRejected(t *testing.T) {
	ctx := context.Background()
	engine := services.NewTokenEngine(testConfig(), repositories.NewMemoryRevocationStore())
	pair, err := engine.Issue("user-1", "alice")
	require.NoError(t, err)

	claims, err := engine.VerifyRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NoError(t, engine.Revoke(ctx, claims))

	_, err = engine.VerifyRefreshToken(ctx, pair.RefreshToken)
	assert.Equal(t, apperror.KindAuthorizationFailed, apperror.KindOf(err))
}

func TestTokenEngine_CookiePolicy(t *testing.T) {
	engine := services.NewTokenEngine(testConfig(), repositories.NewMemoryRevocationStore())

	policy := engine.CookiePolicy()

	assert.Equal(t, "refreshToken", policy.Name)
	assert.True(t, policy.HTTPOnly)
	assert.Equal(t, "Lax", policy.SameSite)
}
