package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"smart-farm-monitor/pkg/utils"
)

// Context keys populated by AuthMiddleware.
const (
	UserIDKey = "userID"
	RoleKey   = "role"
)

// TokenCookieName is the HttpOnly cookie the login endpoint sets.
const TokenCookieName = "token"

// AuthMiddleware accepts the session token from the auth cookie or from
// a Bearer header; the cookie wins when both are present. Browser clients
// rely on the cookie, device and script clients send the header.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(token, secret)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)

		c.Next()
	}
}

// ExtractToken resolves the session token from the auth cookie or the
// Authorization header, cookie first.
func ExtractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// GetUserID returns the authenticated user's id from the Gin context.
func GetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
