package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetMaster handles GET /api/master.
func (h *Handler) GetMaster(c *gin.Context) {
	c.JSON(http.StatusOK, h.master)
}

// GetStandards handles GET /api/standards.
func (h *Handler) GetStandards(c *gin.Context) {
	c.JSON(http.StatusOK, h.standards)
}
