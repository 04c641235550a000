package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kyrix/api/internal/config"
	"kyrix/api/internal/security"
)

const claimsContextKey = "session_claims"

// RequireAuth verifies the session cookie and injects the claims into the
// request context. Missing, tampered and expired tokens are answered
// identically.
func RequireAuth(cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := security.SessionTokenFromRequest(c.Request)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := security.ParseSessionToken(token, cfg.Security.SessionSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the verified claims set by RequireAuth.
func ClaimsFromContext(c *gin.Context) (*security.SessionClaims, bool) {
	val, exists := c.Get(claimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := val.(*security.SessionClaims)
	return claims, ok
}
