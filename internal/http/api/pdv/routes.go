package pdv

import (
	"context"

	"github.com/elite-acai/pdv-auth/internal/auth"
	"github.com/elite-acai/pdv-auth/internal/config"
	"github.com/elite-acai/pdv-auth/internal/http/api/pdv/handlers"
	"github.com/elite-acai/pdv-auth/internal/models"
	"github.com/elite-acai/pdv-auth/internal/permissions"
	"github.com/elite-acai/pdv-auth/internal/store"
	"github.com/elite-acai/pdv-auth/internal/store2"
	"github.com/gin-gonic/gin"
)

// OperatorReader loads operators for token authentication and listings.
type OperatorReader interface {
	FindByID(ctx context.Context, id uint64) (*models.Operator, error)
	List(ctx context.Context, filter store.OperatorFilter) ([]models.Operator, error)
}

// SessionLoader resolves a Store2 session id into its signed-in user.
type SessionLoader interface {
	Load(ctx context.Context, sessionID string) (*store2.SessionUser, error)
}

// Options carries the collaborators used by the PDV routes.
type Options struct {
	Authenticator *auth.Authenticator
	Operators     OperatorReader
	JWT           config.JWTConfig
	Store2        SessionLoader // optional
	Store2Header  string

	// AnonymousConsole lets requests without any identity through permission
	// gates, matching an unattended console with nobody signed in.
	AnonymousConsole bool
}

// RegisterPDVRoutes registers operator login and permission routes.
func RegisterPDVRoutes(r *gin.Engine, opts Options) {
	if r == nil || opts.Authenticator == nil || opts.Operators == nil {
		return
	}

	pdv := r.Group("/v0/pdv")

	authHandler := handlers.NewAuthHandler(opts.Authenticator, opts.JWT)
	pdv.POST("/login", authHandler.Login)

	permissionHandler := handlers.NewPermissionHandler()
	pdv.GET("/permissions", permissionHandler.List)

	scoped := pdv.Group("")
	scoped.Use(operatorAuthMiddleware(opts.Operators, opts.JWT))
	if opts.Store2 != nil {
		scoped.Use(store2SessionMiddleware(opts.Store2, opts.Store2Header))
	}
	scoped.GET("/me", authHandler.Me)
	scoped.GET("/permissions/check", permissionHandler.Check)

	operatorHandler := handlers.NewOperatorHandler(opts.Operators)
	scoped.GET("/operators", requirePermission(permissions.CanViewOperators, opts.AnonymousConsole), operatorHandler.List)
}
