package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dentalhr/backend/internal/infrastructure/auth"
	"github.com/dentalhr/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService(accessTTL time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  accessTTL,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	})
}

func newJWTRouter(jwtService *auth.JWTService, blacklist auth.TokenBlacklist) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuth(JWTMiddlewareConfig{JWTService: jwtService, Blacklist: blacklist}))
	router.GET("/me", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	return router
}

func callWithToken(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	jwtService := newTestJWTService(15 * time.Minute)
	userID := uuid.New()
	pair, err := jwtService.GenerateTokenPair(userID, "anna@studio.it")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		w := callWithToken(newJWTRouter(jwtService, nil), pair.AccessToken)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := callWithToken(newJWTRouter(jwtService, nil), "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"UNAUTHORIZED"`)
	})

	t.Run("refresh token is rejected", func(t *testing.T) {
		w := callWithToken(newJWTRouter(jwtService, nil), pair.RefreshToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expiring := newTestJWTService(-time.Minute)
		old, err := expiring.GenerateTokenPair(userID, "anna@studio.it")
		require.NoError(t, err)

		w := callWithToken(newJWTRouter(jwtService, nil), old.AccessToken)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})

	t.Run("revoked jti", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		require.NoError(t, blacklist.Revoke(context.Background(), claims.ID, time.Minute))

		w := callWithToken(newJWTRouter(jwtService, blacklist), pair.AccessToken)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
	})

	t.Run("revoked user", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, blacklist.RevokeUser(context.Background(), userID.String(), time.Hour))

		w := callWithToken(newJWTRouter(jwtService, blacklist), pair.AccessToken)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
