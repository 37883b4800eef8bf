package handlers

import (
	"errors"
	"net/http"

	"github.com/elite-acai/pdv-auth/internal/access"
	"github.com/elite-acai/pdv-auth/internal/auth"
	"github.com/elite-acai/pdv-auth/internal/config"
	"github.com/elite-acai/pdv-auth/internal/models"
	"github.com/elite-acai/pdv-auth/internal/security"
	"github.com/elite-acai/pdv-auth/internal/store2"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// AuthHandler handles operator authentication endpoints.
type AuthHandler struct {
	authenticator *auth.Authenticator
	jwtCfg        config.JWTConfig
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authenticator *auth.Authenticator, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{authenticator: authenticator, jwtCfg: jwtCfg}
}

// loginRequest defines the request body for operator login.
type loginRequest struct {
	Code     string `json:"code"`
	Password string `json:"password"`
}

// Login authenticates an operator and issues a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	op, err := h.authenticator.Authenticate(c.Request.Context(), body.Code, body.Password)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	token, errToken := security.GenerateOperatorToken(h.jwtCfg.Secret, op.ID, op.Code, h.jwtCfg.Expiry)
	if errToken != nil {
		log.WithError(errToken).Error("sign operator token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign token failed"})
		return
	}

	resolver := access.NewResolver(nil)
	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"expires_in":    int64(h.jwtCfg.Expiry.Seconds()),
		"operator":      operatorView(op),
		"permissions":   resolver.AllPermissions(op),
		"is_privileged": resolver.IsPrivileged(op),
	})
}

// Me describes the identity the request's permission queries resolve to.
func (h *AuthHandler) Me(c *gin.Context) {
	resolver := ResolverFor(c)
	explicit := ExplicitIdentity(c)

	out := gin.H{
		"permissions":   resolver.AllPermissions(explicit),
		"is_privileged": resolver.IsPrivileged(explicit),
	}
	switch active := resolver.Active(explicit).(type) {
	case *models.Operator:
		out["source"] = "pdv"
		out["operator"] = operatorView(active)
	case *store2.SessionUser:
		out["source"] = "store2"
		out["user"] = gin.H{"id": active.ID, "name": active.Name, "username": active.Username}
	default:
		out["source"] = "none"
	}
	c.JSON(http.StatusOK, out)
}

// writeAuthError maps authentication errors to HTTP responses. Unknown operators
// and wrong passwords share one message.
func writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "code and password are required"})
	case auth.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, auth.ErrBootstrapFailed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "privileged operator unavailable", "detail": err.Error()})
	case errors.Is(err, auth.ErrStoreFailure):
		c.JSON(http.StatusBadGateway, gin.H{"error": "operator store unavailable", "detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
	}
}

// operatorView renders an operator without its credential.
func operatorView(op *models.Operator) gin.H {
	return gin.H{
		"id":         op.ID,
		"name":       op.Name,
		"code":       op.Code,
		"is_active":  op.IsActive,
		"last_login": op.LastLogin,
	}
}
