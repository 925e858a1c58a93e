package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Jmaes1212/artiq-front-end/internal/adapter/http/middleware"
	"github.com/Jmaes1212/artiq-front-end/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Payments      *PaymentHandler
	Checkout      *CheckoutHandler
	Orders        *OrderHandler
	Pricing       *PricingHandler
	WebhookSecret string
	StaticDir     string
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
				"time":   time.Now().UTC().Format(time.RFC3339),
			})
		})
		api.GET("/stripe/config", d.Payments.StripeConfig)
		api.POST("/payments/create-intent", d.Payments.CreateIntent)
		api.POST("/checkout", d.Checkout.Checkout)
		api.POST("/webhooks/prodigi", middleware.WebhookVerify(d.WebhookSecret), d.Orders.Webhook)
		api.GET("/orders/:id", d.Orders.GetOrderByID)
		api.GET("/shipping/options", d.Pricing.ShippingOptions)
		api.POST("/cart/quote", d.Pricing.Quote)
	}

	// storefront assets for everything else
	r.NoRoute(staticHandler(d.StaticDir))

	return r
}

// staticHandler serves the storefront from the repository root, with the
// original page aliases. Anything under /api that reached NoRoute is an
// unknown endpoint, not a file.
func staticHandler(root string) gin.HandlerFunc {
	pages := map[string]string{
		"/":         "index.html",
		"/category": "category.html",
		"/product":  "product.html",
	}
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if page, ok := pages[path]; ok {
			c.File(filepath.Join(root, page))
			return
		}
		full := filepath.Join(root, filepath.Clean("/"+path))
		if info, err := os.Stat(full); err != nil || info.IsDir() {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(full)
	}
}
