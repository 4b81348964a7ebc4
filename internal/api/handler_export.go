package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"qc-tracking-backend/internal/quality"
	"qc-tracking-backend/internal/report"
)

// ExportData handles GET /api/data/export. It accepts the summary filters plus
// sort and dir, and answers with an XLSX workbook.
func (h *Handler) ExportData(c *gin.Context) {
	records, ok := h.filtered(c)
	if !ok {
		return
	}
	if key, known := quality.ParseSortKey(c.Query("sort")); known {
		dir := quality.Ascending
		if c.Query("dir") == string(quality.Descending) {
			dir = quality.Descending
		}
		records = quality.Sort(records, quality.SortSpec{Key: key, Direction: dir})
	}

	data, err := report.Workbook(records)
	if err != nil {
		h.log.Error("failed to build export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to build export"})
		return
	}

	filename := fmt.Sprintf("qc-data-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, report.ContentType, data)
}
