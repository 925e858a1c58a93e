package http

import (
	"net/http"

	domain "github.com/Jmaes1212/artiq-front-end/internal/entity"
	"github.com/Jmaes1212/artiq-front-end/internal/pricing"
	"github.com/gin-gonic/gin"
)

// PricingHandler serves the cart math so thin clients never hold
// pricing rules of their own.
type PricingHandler struct{}

func NewPricingHandler() *PricingHandler {
	return &PricingHandler{}
}

func (h *PricingHandler) ShippingOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"options":  pricing.Options(),
		"currency": pricing.Currency,
	})
}

type quoteReq struct {
	Items            []domain.LineItem `json:"items"`
	ShippingOptionID string            `json:"shippingOptionId"`
	CountryCode      string            `json:"countryCode"`
}

// Quote returns the subtotal/shipping/total breakdown in minor units for
// the given cart and destination.
func (h *PricingHandler) Quote(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	opt := pricing.OptionByID(req.ShippingOptionID)
	if opt == nil {
		opt = pricing.OptionForCountry(req.CountryCode)
	}

	c.JSON(http.StatusOK, gin.H{
		"subtotal":       pricing.Subtotal(req.Items),
		"shipping":       pricing.ShippingCost(req.Items, opt),
		"total":          pricing.Total(req.Items, opt),
		"currency":       pricing.Currency,
		"shippingOption": opt.ID,
		"methodCode":     opt.MethodCode,
	})
}
