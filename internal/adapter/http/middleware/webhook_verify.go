package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the fulfilment provider's HMAC of the raw
// request body.
const SignatureHeader = "x-prodigi-signature"

// WebhookVerify checks the provider signature over the raw body when a
// shared secret is configured. With no secret, or no signature header on
// the request, the delivery passes through unverified (the provider's
// sandbox does not sign). The body is restored for the handler.
func WebhookVerify(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sig := c.GetHeader(SignatureHeader)
		if secret == "" || sig == "" {
			c.Next()
			return
		}

		rawBody, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Could not verify webhook"})
			return
		}
		c.Request.Body.Close()

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(rawBody)
		expected := hex.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(expected), []byte(sig)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(rawBody))
		c.Next()
	}
}
