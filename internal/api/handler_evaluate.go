package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qc-tracking-backend/internal/parse"
	"qc-tracking-backend/internal/quality"
)

type evaluateRequest struct {
	Suhu  flexValue `json:"suhu"`
	Berat flexValue `json:"berat"`
}

// Evaluate handles POST /api/evaluate: the verdict the server would derive
// for the given measurements, without storing anything.
func (h *Handler) Evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request: " + err.Error()})
		return
	}

	suhu, err := parse.Suhu(string(req.Suhu))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "suhu: must be a number"})
		return
	}
	berat, err := parse.Berat(string(req.Berat))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "berat: must be a number"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suhu":     suhu,
		"berat":    berat,
		"kualitas": quality.Evaluate(suhu, berat, h.standards),
	})
}
