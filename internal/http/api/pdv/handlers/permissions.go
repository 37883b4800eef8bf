package handlers

import (
	"net/http"

	"github.com/elite-acai/pdv-auth/internal/permissions"
	"github.com/gin-gonic/gin"
)

// PermissionHandler exposes the permission vocabulary and capability checks.
type PermissionHandler struct{}

// NewPermissionHandler constructs a PermissionHandler.
func NewPermissionHandler() *PermissionHandler {
	return &PermissionHandler{}
}

// List returns all permission definitions.
func (h *PermissionHandler) List(c *gin.Context) {
	defs := permissions.Definitions()
	out := make([]gin.H, 0, len(defs))
	for _, def := range defs {
		out = append(out, gin.H{
			"key":    def.Key,
			"label":  def.Label,
			"domain": def.Domain,
		})
	}
	c.JSON(http.StatusOK, gin.H{"permissions": out})
}

// Check reports both capability signals for one key and their combination.
func (h *PermissionHandler) Check(c *gin.Context) {
	key, errParse := permissions.ParseKey(c.Query("key"))
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown permission key"})
		return
	}
	resolver := ResolverFor(c)
	explicit := ExplicitIdentity(c)
	granted := resolver.HasPermission(explicit, key)
	privileged := resolver.IsPrivileged(explicit)
	c.JSON(http.StatusOK, gin.H{
		"key":        key,
		"granted":    granted,
		"privileged": privileged,
		"allowed":    granted || privileged,
	})
}
