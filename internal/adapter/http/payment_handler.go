package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Jmaes1212/artiq-front-end/internal/logging"
	"github.com/Jmaes1212/artiq-front-end/internal/usecase"
	"github.com/gin-gonic/gin"
)

const stripeNotConfigured = "Stripe is not configured on the server."

type PaymentHandler struct {
	intents        *usecase.Intents
	publishableKey string
	configured     bool
}

func NewPaymentHandler(intents *usecase.Intents, publishableKey string, configured bool) *PaymentHandler {
	return &PaymentHandler{intents: intents, publishableKey: publishableKey, configured: configured}
}

// StripeConfig hands the browser the publishable key it needs to mount
// the card element.
func (h *PaymentHandler) StripeConfig(c *gin.Context) {
	if !h.configured {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": stripeNotConfigured})
		return
	}
	var key any
	if h.publishableKey != "" {
		key = h.publishableKey
	}
	c.JSON(http.StatusOK, gin.H{"publishableKey": key})
}

type createIntentReq struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

// CreateIntent places an authorization hold for the quoted cart total.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	if !h.configured {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": stripeNotConfigured})
		return
	}

	var req createIntentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if req.Currency == "" {
		req.Currency = "gbp"
	}

	metadata := map[string]string{"origin": "artiq-storefront"}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	auth, err := h.intents.Create(ctx, req.Amount, req.Currency, metadata)
	if err != nil {
		logging.From(c).Error("create intent failed", "error", err)
		status, body := paymentErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"clientSecret":    auth.ClientSecret,
		"paymentIntentId": auth.ID,
		"amount":          auth.Amount,
		"currency":        auth.Currency,
	})
}

func paymentErrorResponse(err error) (int, gin.H) {
	switch {
	case errors.Is(err, usecase.ErrPaymentProviderUnavailable):
		return http.StatusServiceUnavailable, gin.H{"error": stripeNotConfigured}
	case errors.Is(err, usecase.ErrInvalidAmount):
		return http.StatusBadRequest, gin.H{"error": "Invalid payment amount"}
	}
	var pErr *usecase.PaymentProviderError
	if errors.As(err, &pErr) {
		status := pErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return status, gin.H{"error": pErr.Message, "details": pErr.Details}
	}
	return http.StatusInternalServerError, gin.H{"error": "Unable to create payment intent"}
}
