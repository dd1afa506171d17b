package jwtmw

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextClaims is the gin context key under which Identify stores *Claims.
const ContextClaims = "claims"

// Verifier validates a raw token string.
type Verifier interface {
	Verify(tokenStr string) (*Claims, error)
}

// Identify returns a Gin middleware that attaches the caller's claims to the context
// when a valid bearer token is presented. It never rejects a request: no route in this
// service requires authentication.
func Identify(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.Next()
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		claims, err := v.Verify(tokenStr)
		if err != nil {
			slog.Debug("ignoring invalid bearer token", "error", err, "remote_addr", c.ClientIP())
			c.Next()
			return
		}
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Identify, if any.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
