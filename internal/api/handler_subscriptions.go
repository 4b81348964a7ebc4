package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"qc-tracking-backend/internal/model"
	"qc-tracking-backend/internal/store"
)

type putSubscriptionRequest struct {
	Endpoint string   `json:"endpoint" binding:"required"`
	P256DH   string   `json:"p256dh" binding:"required"`
	Auth     string   `json:"auth" binding:"required"`
	Lines    []string `json:"lines"`
}

func (h *Handler) subscriptionsEnabled(c *gin.Context) bool {
	if h.subs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "push alerts are not enabled"})
		return false
	}
	return true
}

// PutSubscription handles the creation or replacement of a subscription and
// the lines it follows.
func (h *Handler) PutSubscription(c *gin.Context) {
	if !h.subscriptionsEnabled(c) {
		return
	}
	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	for _, l := range req.Lines {
		if !h.master.HasLine(l) {
			c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("lines: unknown line %q", l)})
			return
		}
	}

	sub := model.PushSubscription{
		Endpoint: req.Endpoint,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
	}
	if err := h.subs.SaveSubscription(c.Request.Context(), sub, req.Lines); err != nil {
		h.log.Error("failed to save subscription", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription handles the deletion of a subscription.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	if !h.subscriptionsEnabled(c) {
		return
	}
	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.subs.DeleteSubscription(c.Request.Context(), req.Endpoint); err != nil {
		h.log.Error("failed to delete subscription", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSubscription handles the retrieval of the lines a subscription follows.
func (h *Handler) GetSubscription(c *gin.Context) {
	if !h.subscriptionsEnabled(c) {
		return
	}
	endpoint := c.Query("endpoint")
	if endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "endpoint is required"})
		return
	}

	sub, err := h.subs.GetSubscription(c.Request.Context(), endpoint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "subscription not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	lines := make([]string, len(sub.Lines))
	for i, l := range sub.Lines {
		lines[i] = l.Line
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}
