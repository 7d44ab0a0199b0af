package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/schoolhub/internal/app/middleware"
	"github.com/schoolhub/schoolhub/internal/app/models"
)

func testJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey:       "test-access-secret",
		TokenExpiration: 15 * time.Minute,
		Issuer:          "test-issuer",
		Audience:        "test-audience",
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	service := NewJWTService()
	config := testJWTConfig()

	t.Run("RoundTrip", func(t *testing.T) {
		token, err := service.GenerateToken(config, "user123", "test@example.com", models.RoleTeacher)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := service.ValidateToken(config, token)
		require.NoError(t, err)
		assert.Equal(t, "user123", claims.UserID)
		assert.Equal(t, "user123", claims.Subject)
		assert.Equal(t, "test@example.com", claims.Email)
		assert.Equal(t, models.RoleTeacher, claims.Role)
		assert.Equal(t, config.Issuer, claims.Issuer)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := service.GenerateToken(config, "user123", "test@example.com", models.RoleStudent)
		require.NoError(t, err)

		badConfig := config
		badConfig.SecretKey = "some-other-secret"
		claims, err := service.ValidateToken(badConfig, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("TamperedPayload", func(t *testing.T) {
		token, err := service.GenerateToken(config, "user123", "test@example.com", models.RoleStudent)
		require.NoError(t, err)

		tampered := []byte(token)
		tampered[len(tampered)/2] ^= 0x01
		claims, err := service.ValidateToken(config, string(tampered))
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Expired", func(t *testing.T) {
		expiredConfig := config
		expiredConfig.TokenExpiration = -time.Minute
		token, err := service.GenerateToken(expiredConfig, "user123", "test@example.com", models.RoleStudent)
		require.NoError(t, err)

		claims, err := service.ValidateToken(config, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func newAuthTestRouter(config JWTConfig, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/protected", RequireAuth(config))
	group.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID": middleware.GetUserIDFromContext(c),
			"role":   middleware.GetUserRoleFromContext(c),
		})
	})
	roleGroup := group.Group("/role", RequireRole(role))
	roleGroup.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	config := testJWTConfig()
	router := newAuthTestRouter(config, models.RoleAdmin)

	t.Run("MissingHeaderIs401", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected/me", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Authentication required"}`, w.Body.String())
	})

	t.Run("MalformedHeaderIs401", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected/me", nil)
		req.Header.Set("Authorization", "Token abc")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("InvalidTokenIs403", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"Invalid or expired token"}`, w.Body.String())
	})

	t.Run("ValidTokenPopulatesContext", func(t *testing.T) {
		token, err := NewJWTService().GenerateToken(config, "user123", "admin@example.com", models.RoleAdmin)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"userID":"user123","role":"ADMIN"}`, w.Body.String())
	})
}

func TestRequireRole(t *testing.T) {
	config := testJWTConfig()
	router := newAuthTestRouter(config, models.RoleAdmin)

	t.Run("MatchingRolePasses", func(t *testing.T) {
		token, err := NewJWTService().GenerateToken(config, "admin1", "admin@example.com", models.RoleAdmin)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected/role", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("OtherRoleIs403", func(t *testing.T) {
		token, err := NewJWTService().GenerateToken(config, "student1", "student@example.com", models.RoleStudent)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected/role", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"Insufficient role"}`, w.Body.String())
	})
}

func TestPasswordHashing(t *testing.T) {
	service := NewJWTService()

	hash, err := service.HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, service.CheckPassword(hash, "password123"))
	assert.False(t, service.CheckPassword(hash, "password124"))
}
