package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"qc-tracking-backend/internal/model"
	"qc-tracking-backend/internal/parse"
	"qc-tracking-backend/internal/quality"
)

// ListData handles GET /api/data. Records are returned in storage order,
// unfiltered; clients filter, sort and page locally.
func (h *Handler) ListData(c *gin.Context) {
	records, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list measurements", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve data"})
		return
	}
	c.JSON(http.StatusOK, records)
}

type createMeasurementRequest struct {
	Date     string    `json:"date"`
	Group    string    `json:"group"`
	Shift    flexValue `json:"shift"`
	Line     string    `json:"line"`
	Suhu     flexValue `json:"suhu"`
	Berat    flexValue `json:"berat"`
	Kualitas string    `json:"kualitas"`
}

// measurement validates the request and turns it into a record. A missing
// verdict is derived from the standards.
func (r createMeasurementRequest) measurement(master model.MasterData, std model.Standards) (model.Measurement, error) {
	required := []struct {
		field string
		value string
	}{
		{"group", r.Group},
		{"shift", string(r.Shift)},
		{"line", r.Line},
		{"suhu", string(r.Suhu)},
		{"berat", string(r.Berat)},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return model.Measurement{}, &quality.ValidationError{Field: f.field, Reason: "is required"}
		}
	}

	shift, err := parse.Shift(string(r.Shift))
	if err != nil {
		return model.Measurement{}, &quality.ValidationError{Field: "shift", Reason: "must be a whole number"}
	}
	suhu, err := parse.Suhu(string(r.Suhu))
	if err != nil {
		return model.Measurement{}, &quality.ValidationError{Field: "suhu", Reason: "must be a number"}
	}
	berat, err := parse.Berat(string(r.Berat))
	if err != nil {
		return model.Measurement{}, &quality.ValidationError{Field: "berat", Reason: "must be a number"}
	}

	m := model.Measurement{
		Date:     strings.TrimSpace(r.Date),
		Group:    strings.TrimSpace(r.Group),
		Shift:    shift,
		Line:     strings.TrimSpace(r.Line),
		Suhu:     suhu,
		Berat:    berat,
		Kualitas: model.Verdict(strings.TrimSpace(r.Kualitas)),
	}
	if m.Kualitas == "" {
		m.Kualitas = quality.Evaluate(suhu, berat, std)
	}
	if err := quality.Validate(m, master); err != nil {
		return model.Measurement{}, err
	}
	return m, nil
}

// CreateData handles POST /api/data.
func (h *Handler) CreateData(c *gin.Context) {
	var req createMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request: " + err.Error()})
		return
	}

	m, err := req.measurement(h.master, h.standards)
	if err != nil {
		var verr *quality.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"message": verr.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	saved, err := h.store.Append(c.Request.Context(), m)
	if err != nil {
		h.log.Error("failed to append measurement", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save data"})
		return
	}
	h.invalidate()

	h.log.Info("measurement saved",
		zap.Int64("id", saved.ID),
		zap.String("line", saved.Line),
		zap.Int("shift", saved.Shift),
		zap.String("kualitas", string(saved.Kualitas)))

	if saved.IsReject() && h.alerts != nil {
		h.alerts.Dispatch(saved)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Data saved", "data": saved})
}
