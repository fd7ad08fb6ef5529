package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichub/clinic-services/pkg/auth"
)

func newProtectedRouter(t *testing.T, tokens auth.JWTService, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	a := NewAuthenticator(tokens)
	chain := append([]gin.HandlerFunc{a.Authenticate()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "username": Claims(c).Username})
	})
	engine.GET("/protected", chain...)
	return engine
}

func request(engine *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	tokens := auth.NewJWTService("test-secret", time.Hour)
	engine := newProtectedRouter(t, tokens)

	rec := request(engine, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	tokens := auth.NewJWTService("test-secret", time.Hour)
	engine := newProtectedRouter(t, tokens)

	rec := request(engine, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	tokens := auth.NewJWTService("test-secret", time.Hour)
	engine := newProtectedRouter(t, tokens)

	token, err := tokens.Generate(&auth.Claims{UserID: 1, Username: "admin", Role: "admin"})
	require.NoError(t, err)

	rec := request(engine, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin")

	// second pass is served from the claims cache
	rec = request(engine, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewJWTService("test-secret", time.Hour)
	engine := newProtectedRouter(t, tokens, RequireRole("admin"))

	userToken, err := tokens.Generate(&auth.Claims{UserID: 2, Username: "bob", Role: "user"})
	require.NoError(t, err)
	rec := request(engine, userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, err := tokens.Generate(&auth.Claims{UserID: 1, Username: "admin", Role: "admin"})
	require.NoError(t, err)
	rec = request(engine, adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}
