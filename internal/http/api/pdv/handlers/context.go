package handlers

import (
	"github.com/elite-acai/pdv-auth/internal/access"
	"github.com/elite-acai/pdv-auth/internal/models"
	"github.com/elite-acai/pdv-auth/internal/store2"
	"github.com/gin-gonic/gin"
)

// Gin context keys set by the PDV middlewares.
const (
	ContextOperatorKey   = "pdvOperator"
	ContextStore2UserKey = "store2User"
)

// OperatorFromContext returns the operator authenticated by bearer token, if any.
func OperatorFromContext(c *gin.Context) *models.Operator {
	value, ok := c.Get(ContextOperatorKey)
	if !ok {
		return nil
	}
	op, _ := value.(*models.Operator)
	return op
}

// Store2UserFromContext returns the Store2 session user attached to the request, if any.
func Store2UserFromContext(c *gin.Context) *store2.SessionUser {
	value, ok := c.Get(ContextStore2UserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*store2.SessionUser)
	return user
}

// ExplicitIdentity returns the request operator as an identity, or a nil interface.
func ExplicitIdentity(c *gin.Context) access.Identity {
	if op := OperatorFromContext(c); op != nil {
		return op
	}
	return nil
}

// ResolverFor builds a resolver whose fallback is the request's Store2 session user.
func ResolverFor(c *gin.Context) *access.Resolver {
	return access.NewResolver(access.FallbackFunc(func() access.Identity {
		if user := Store2UserFromContext(c); user != nil {
			return user
		}
		return nil
	}))
}
