package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/sourbakery/internal/domain/model"
	pkgAuth "github.com/polkiloo/sourbakery/internal/pkg/auth"
)

const (
	// PrincipalContextKey is a gin context key for the authenticated admin.
	PrincipalContextKey = "principal"
	authCookieName      = "sourbakery_admin"
)

// PrincipalParser resolves a bearer token to its caller.
type PrincipalParser interface {
	ParsePrincipal(token string) (model.Principal, error)
}

// AdminRequired lets only allowlisted admins through: 401 without a valid
// token, 403 for a valid token whose email is not an admin.
func AdminRequired(parser PrincipalParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		principal, err := parser.ParsePrincipal(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if !principal.IsAdmin {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set(PrincipalContextKey, principal)
		c.Next()
	}
}

// CurrentPrincipal returns the admin resolved by AdminRequired.
func CurrentPrincipal(c *gin.Context) (model.Principal, bool) {
	val, ok := c.Get(PrincipalContextKey)
	if !ok {
		return model.Principal{}, false
	}
	principal, ok := val.(model.Principal)
	return principal, ok
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(authCookieName, token, 0, "/api/admin", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
