package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/entities"
)

func setupGuardedRouter(t *testing.T) (*gin.Engine, *TokenIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	middleware := NewMiddleware(tokens)

	router := gin.New()
	router.GET("/protected", middleware.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetUserID(c),
			"email":   GetUserEmail(c),
		})
	})

	return router, tokens
}

func TestRequireAuth_ValidToken(t *testing.T) {
	router, tokens := setupGuardedRouter(t)

	token, err := tokens.Issue(&entities.User{ID: 7, Email: "ana@gmail.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
	assert.Contains(t, w.Body.String(), "ana@gmail.com")
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	router, _ := setupGuardedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	router, tokens := setupGuardedRouter(t)

	token, err := tokens.Issue(&entities.User{ID: 7, Email: "ana@gmail.com"})
	require.NoError(t, err)

	for _, header := range []string{
		"Token " + token, // wrong scheme
		token,            // missing scheme
		"Bearer",         // missing token
	} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header: %q", header)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	router, _ := setupGuardedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage.token.here")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tokens, err := NewTokenIssuer("test-secret", time.Millisecond)
	require.NoError(t, err)
	middleware := NewMiddleware(tokens)

	router := gin.New()
	router.GET("/protected", middleware.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token, err := tokens.Issue(&entities.User{ID: 7, Email: "ana@gmail.com"})
	require.NoError(t, err)

	tokens.Now = func() time.Time { return time.Now().Add(time.Hour) }

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserID_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, uint(0), GetUserID(c))
	assert.Equal(t, "", GetUserEmail(c))
}
