package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/community-engagement/domain"
)

// Headers set by the gateway after it has verified the caller's token.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUsername  = "X-Username"
	HeaderUserLevel = "X-User-Level"

	ctxKeyPrincipal = "principal"
)

// Principal resolves the caller from the gateway headers. Requests without a
// valid user id carry a zero principal.
func Principal() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p domain.Principal
		if id, err := strconv.ParseInt(c.GetHeader(HeaderUserID), 10, 64); err == nil && id > 0 {
			p.ID = id
			p.Username = c.GetHeader(HeaderUsername)
			p.Level, _ = strconv.Atoi(c.GetHeader(HeaderUserLevel))
		}
		c.Set(ctxKeyPrincipal, p)
		c.Next()
	}
}

// RequireAuth rejects requests whose principal is zero.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetPrincipal(c).IsZero() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": domain.ErrUnauthenticated.Error()})
			return
		}
		c.Next()
	}
}

func GetPrincipal(c *gin.Context) domain.Principal {
	if v, ok := c.Get(ctxKeyPrincipal); ok {
		if p, ok := v.(domain.Principal); ok {
			return p
		}
	}
	return domain.Principal{}
}
