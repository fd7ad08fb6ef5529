package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/clinichub/clinic-services/pkg/auth"
)

// ClaimsKey is the context key the authenticated claims are stored under.
const ClaimsKey = "claims"

// Authenticator validates bearer tokens and caches accepted claims so hot
// endpoints do not re-verify the same token on every call.
type Authenticator struct {
	tokens auth.JWTService
	cache  *cache.Cache
}

func NewAuthenticator(tokens auth.JWTService) *Authenticator {
	return &Authenticator{
		tokens: tokens,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
	}
}

// Authenticate aborts with 401 unless the request carries a valid bearer
// token. Validated claims are stored on the context.
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abort(c, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		if cached, ok := a.cache.Get(raw); ok {
			c.Set(ClaimsKey, cached.(*auth.Claims))
			c.Next()
			return
		}

		claims, err := a.tokens.Validate(raw)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		a.cache.Set(raw, claims, cache.DefaultExpiration)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated user has one of the
// given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "insufficient permissions")
	}
}

// Claims returns the authenticated claims, or nil outside an authenticated
// request.
func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}
