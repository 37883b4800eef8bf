package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/elite-acai/pdv-auth/internal/models"
	"github.com/elite-acai/pdv-auth/internal/store"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// OperatorLister lists operators for the management screen.
type OperatorLister interface {
	List(ctx context.Context, filter store.OperatorFilter) ([]models.Operator, error)
}

// OperatorHandler serves read-only operator listings.
type OperatorHandler struct {
	operators OperatorLister
}

// NewOperatorHandler constructs an OperatorHandler.
func NewOperatorHandler(operators OperatorLister) *OperatorHandler {
	return &OperatorHandler{operators: operators}
}

// List returns operators with optional keyword and active filters.
func (h *OperatorHandler) List(c *gin.Context) {
	filter := store.OperatorFilter{Keyword: strings.TrimSpace(c.Query("keyword"))}
	if raw := strings.TrimSpace(c.Query("active")); raw != "" {
		active, errParse := strconv.ParseBool(raw)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid active filter"})
			return
		}
		filter.ActiveOnly = active
	}

	rows, err := h.operators.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list operators failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list operators failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		view := operatorView(&rows[i])
		view["permissions"] = rows[i].Grants()
		out = append(out, view)
	}
	c.JSON(http.StatusOK, gin.H{"operators": out})
}
