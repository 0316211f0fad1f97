package middleware

import (
	"net/http"

	"stayhost/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	// TokenCookie holds the signed identity claim
	TokenCookie = "token"

	AuthUserKey  = "authUser"
	AuthEmailKey = "authEmail"
)

// JWTAuthMiddleware rejects requests without a valid token cookie
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(TokenCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := jwtUtil.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(AuthUserKey, claims.ID)
		c.Set(AuthEmailKey, claims.Email)

		c.Next()
	}
}
