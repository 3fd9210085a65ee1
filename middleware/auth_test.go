package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/MJG-MindSpire/demodonation/config"
	utils "github.com/MJG-MindSpire/demodonation/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  []byte("0123456789abcdef0123456789abcdef"),
		JWTExpires: time.Hour,
	}
}

func authedRequest(t *testing.T, cfg *config.Config, subject, role string) *http.Request {
	t.Helper()
	token, err := utils.GenerateJWT(cfg.JWTSecret, subject, role, cfg.JWTExpires)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	r := gin.New()
	r.GET("/", AuthMiddleware(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	r := gin.New()
	r.GET("/", AuthMiddleware(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareSetsContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	var gotID, gotRole string
	r := gin.New()
	r.GET("/", AuthMiddleware(cfg), func(c *gin.Context) {
		gotID = c.GetString(CtxUserID)
		gotRole = c.GetString(CtxRole)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, cfg, "user-42", "donor"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-42", gotID)
	assert.Equal(t, "donor", gotRole)
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()

	r := gin.New()
	r.GET("/", AuthMiddleware(cfg), RequireRoles("admin", "receiver"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, cfg, "user-1", "receiver"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(t, cfg, "user-2", "donor"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
