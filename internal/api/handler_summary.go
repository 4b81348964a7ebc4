package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"qc-tracking-backend/internal/model"
	"qc-tracking-backend/internal/quality"
)

// SummaryResponse is the body of GET /api/summary.
type SummaryResponse struct {
	quality.Summary
	Breakdown []quality.RatioSlice  `json:"breakdown"`
	ByLine    []quality.LineSummary `json:"byLine"`
}

// filtered loads every record and applies the filter from the query string.
func (h *Handler) filtered(c *gin.Context) ([]model.Measurement, bool) {
	records, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list measurements", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve data"})
		return nil, false
	}
	return quality.Filter(records, quality.FilterFromQuery(c.Request.URL.Query())), true
}

// GetSummary handles GET /api/summary?line=&shift=&status=&startDate=&endDate=.
func (h *Handler) GetSummary(c *gin.Context) {
	records, ok := h.filtered(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, SummaryResponse{
		Summary:   quality.Aggregate(records),
		Breakdown: quality.Breakdown(records),
		ByLine:    quality.AggregateByLine(records),
	})
}
