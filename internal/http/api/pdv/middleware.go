package pdv

import (
	"errors"
	"net/http"
	"strings"

	"github.com/elite-acai/pdv-auth/internal/config"
	"github.com/elite-acai/pdv-auth/internal/http/api/pdv/handlers"
	"github.com/elite-acai/pdv-auth/internal/permissions"
	"github.com/elite-acai/pdv-auth/internal/security"
	"github.com/elite-acai/pdv-auth/internal/store2"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// operatorAuthMiddleware loads the operator named by a bearer token.
// Requests without an Authorization header continue with no explicit operator.
func operatorAuthMiddleware(operators OperatorReader, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseOperatorToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		op, errFind := operators.FindByID(c.Request.Context(), claims.OperatorID)
		if errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "operator not found"})
			return
		}
		// ADMIN is the break-glass login and signs in even when deactivated.
		if !op.IsActive && !op.IsPrivilegedIdentity() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "operator disabled"})
			return
		}

		c.Set(handlers.ContextOperatorKey, op)
		c.Next()
	}
}

// store2SessionMiddleware attaches the Store2 user named by header as the ambient identity.
// A session that cannot be loaded leaves the request without one.
func store2SessionMiddleware(loader SessionLoader, header string) gin.HandlerFunc {
	if header == "" {
		header = "X-Store2-Session"
	}
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.GetHeader(header))
		if sessionID == "" {
			c.Next()
			return
		}

		user, errLoad := loader.Load(c.Request.Context(), sessionID)
		if errLoad != nil {
			if errors.Is(errLoad, store2.ErrSessionNotFound) {
				log.WithField("session", sessionID).Debug("store2 session not found")
			} else {
				log.WithError(errLoad).Warn("store2 session load failed")
			}
			c.Next()
			return
		}

		c.Set(handlers.ContextStore2UserKey, user)
		c.Next()
	}
}

// requirePermission lets privileged actors through and otherwise requires key.
// Requests with neither an operator nor a Store2 user are rejected unless
// allowAnonymous is set.
func requirePermission(key permissions.Key, allowAnonymous bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		resolver := handlers.ResolverFor(c)
		explicit := handlers.ExplicitIdentity(c)
		if resolver.Active(explicit) == nil && !allowAnonymous {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !resolver.Allowed(explicit, key) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}
