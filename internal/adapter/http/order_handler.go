package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/Jmaes1212/artiq-front-end/internal/logging"
	"github.com/Jmaes1212/artiq-front-end/internal/usecase"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	store usecase.OrderStore
}

func NewOrderHandler(store usecase.OrderStore) *OrderHandler {
	return &OrderHandler{store: store}
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	entry, err := h.store.Get(ctx, c.Param("id"))
	if err != nil {
		logging.From(c).Error("order lookup failed", "order_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order lookup failed"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Webhook ingests provider status callbacks. Delivery is at-least-once;
// the ledger's merge rule makes replays harmless.
func (h *OrderHandler) Webhook(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read webhook body"})
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entry, err := h.store.ApplyWebhook(ctx, payload)
	if err != nil {
		logging.From(c).Error("webhook apply failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record webhook"})
		return
	}

	var orderID any
	if entry != nil {
		orderID = entry.ID
	}
	c.JSON(http.StatusAccepted, gin.H{"received": true, "orderId": orderID})
}
