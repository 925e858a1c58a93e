package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Jmaes1212/artiq-front-end/internal/adapter/http/middleware"
	domain "github.com/Jmaes1212/artiq-front-end/internal/entity"
	"github.com/Jmaes1212/artiq-front-end/internal/logging"
	"github.com/Jmaes1212/artiq-front-end/internal/usecase"
	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkout *usecase.Checkout
}

func NewCheckoutHandler(checkout *usecase.Checkout) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Checkout runs the full settlement flow for one order.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req domain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.CountCheckout("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	result, err := h.checkout.Execute(ctx, &req)
	if err != nil {
		logging.From(c).Error("checkout failed", "payment_id", req.PaymentIntentID, "error", err)
		status, body, outcome := checkoutErrorResponse(err)
		middleware.CountCheckout(outcome)
		c.JSON(status, body)
		return
	}

	middleware.CountCheckout("accepted")
	c.JSON(http.StatusCreated, gin.H{
		"orderId":         result.OrderID,
		"status":          result.Status,
		"prodigiResponse": result.ProviderResponse,
	})
}

func checkoutErrorResponse(err error) (int, gin.H, string) {
	var vErr *usecase.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, gin.H{
			"error":   "Invalid checkout request",
			"details": gin.H{"violations": vErr.Violations},
		}, "invalid"
	}

	if errors.Is(err, usecase.ErrPaymentProviderUnavailable) {
		return http.StatusServiceUnavailable, gin.H{"error": stripeNotConfigured}, "error"
	}
	if errors.Is(err, usecase.ErrPaymentNotFound) {
		return http.StatusPaymentRequired, gin.H{"error": "Payment not found"}, "payment_incomplete"
	}

	var iErr *usecase.PaymentIncompleteError
	if errors.As(err, &iErr) {
		return http.StatusPaymentRequired, gin.H{
			"error":   "Payment not completed",
			"details": gin.H{"status": iErr.Status},
		}, "payment_incomplete"
	}

	var fErr *usecase.FulfilmentError
	if errors.As(err, &fErr) {
		status := fErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		msg := fErr.Message
		if fErr.Hint != "" {
			msg = fErr.Hint
		}
		return status, gin.H{"error": msg, "details": fErr.Details}, "fulfilment_rejected"
	}

	var pErr *usecase.PaymentProviderError
	if errors.As(err, &pErr) {
		status := pErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return status, gin.H{"error": pErr.Message, "details": pErr.Details}, "error"
	}

	return http.StatusInternalServerError, gin.H{"error": "Order submission failed"}, "error"
}
