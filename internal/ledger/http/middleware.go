package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joneireis/cidacake-program/internal/ledger/domain"
	"github.com/joneireis/cidacake-program/internal/pkg/token"
)

const (
	authHeaderName = "Authorization"
	bearerPrefix   = "Bearer "

	IdentityContextKey = "caller_identity"
)

// NewAuthMiddleware resolves the verified caller identity from a bearer
// token. Downstream handlers treat the identity as proven.
func NewAuthMiddleware(secret []byte, parser token.Parser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeaderName)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "message": "missing authorization header"})
			return
		}

		if !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "message": "invalid authorization header format"})
			return
		}

		claims, err := parser.ParseToken(secret, strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "message": "invalid token"})
			return
		}

		identity, err := domain.ParseIdentity(claims.Identity)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "message": "token carries no valid identity"})
			return
		}

		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}

func CallerIdentity(c *gin.Context) (domain.Identity, bool) {
	val, exists := c.Get(IdentityContextKey)
	if !exists {
		return domain.Identity{}, false
	}

	identity, ok := val.(domain.Identity)
	return identity, ok
}
