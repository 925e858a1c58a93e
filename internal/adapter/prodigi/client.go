// Package prodigi talks to the Prodigi print-on-demand API: it builds the
// order payload from a checkout request and submits it, surfacing the
// provider's error body verbatim when the order is rejected.
package prodigi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	domain "github.com/Jmaes1212/artiq-front-end/internal/entity"
	"github.com/Jmaes1212/artiq-front-end/internal/usecase"
)

const DefaultAPIBase = "https://api.sandbox.prodigi.com/v4.0"

// noCardDetails matches the provider's complaint when the merchant account
// has no payment method on file. The storefront turns it into an
// actionable message instead of a bare 4xx.
var noCardDetails = regexp.MustCompile(`(?i)no card details`)

const noCardHint = "Prodigi rejected the order because no card is on file for your Prodigi account. " +
	"Add a payment method in Prodigi or switch the account to invoice billing, then try again."

type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIBase
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SubmitOrder builds the provider payload and POSTs it. Any non-2xx
// response becomes a *usecase.FulfilmentError carrying the provider's
// status code and error body.
func (c *Client) SubmitOrder(ctx context.Context, req *domain.CheckoutRequest) (map[string]any, error) {
	if c.apiKey == "" {
		return nil, &usecase.FulfilmentError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Prodigi API key is not configured",
			Details: map[string]any{
				"hint": "Set prodigi.api_key (ARTIQ_PRODIGI__API_KEY) before submitting an order.",
			},
		}
	}

	payload := BuildOrder(req, time.Now())
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/Orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.apiKey)

	res, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, &usecase.FulfilmentError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Prodigi request failed: " + err.Error(),
		}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &usecase.FulfilmentError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Prodigi response read failed: " + err.Error(),
		}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, c.submissionError(res.StatusCode, raw)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode Prodigi response: %w", err)
	}
	return out, nil
}

func (c *Client) submissionError(status int, raw []byte) *usecase.FulfilmentError {
	ferr := &usecase.FulfilmentError{
		StatusCode: status,
		Message:    fmt.Sprintf("Prodigi API error %d: %s", status, string(raw)),
	}

	var details map[string]any
	if err := json.Unmarshal(raw, &details); err == nil {
		ferr.Details = details
	} else {
		ferr.Details = string(raw)
	}

	if status == http.StatusUnauthorized {
		hint := "Verify that your Prodigi API key is correct and has access to the selected environment (sandbox or production)."
		if m, ok := ferr.Details.(map[string]any); ok {
			m["hint"] = hint
		} else {
			ferr.Details = map[string]any{"body": ferr.Details, "hint": hint}
		}
	}

	if noCardDetails.Match(raw) {
		ferr.Hint = noCardHint
	}
	return ferr
}

var _ usecase.FulfilmentClient = (*Client)(nil)
