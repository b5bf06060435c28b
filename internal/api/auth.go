package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthContext is the authenticated caller, extracted once by the middleware
// and threaded explicitly instead of read from ambient storage.
type AuthContext struct {
	Token     string
	UsuarioID uint
}

const authKey = "authContext"

// AuthMiddleware requires a bearer token on every request and resolves the
// acting user from the X-Usuario header.
func AuthMiddleware(apiToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token requerido"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if apiToken != "" && token != apiToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token inválido"})
			return
		}

		usuarioID, _ := strconv.ParseUint(c.GetHeader("X-Usuario"), 10, 64)
		c.Set(authKey, AuthContext{Token: token, UsuarioID: uint(usuarioID)})
		c.Next()
	}
}

// Auth returns the caller's auth context.
func Auth(c *gin.Context) AuthContext {
	if v, ok := c.Get(authKey); ok {
		if auth, ok := v.(AuthContext); ok {
			return auth
		}
	}
	return AuthContext{}
}
