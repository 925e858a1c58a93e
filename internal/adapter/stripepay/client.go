// Package stripepay adapts Stripe PaymentIntents to the storefront's
// payment authorization port. Intents are created with manual capture so
// funds stay on hold until the print provider accepts the order.
package stripepay

import (
	"context"
	"errors"
	"net/http"

	domain "github.com/Jmaes1212/artiq-front-end/internal/entity"
	"github.com/Jmaes1212/artiq-front-end/internal/usecase"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

type Client struct {
	api *client.API
}

// New returns a client bound to the given secret key. An empty key yields
// a client whose every operation fails with ErrPaymentProviderUnavailable;
// the server still boots so the rest of the API stays reachable.
func New(secretKey string) *Client {
	c := &Client{}
	if secretKey != "" {
		c.api = &client.API{}
		c.api.Init(secretKey, nil)
	}
	return c
}

// NewWithBackends is for tests that point the SDK at a stub server.
func NewWithBackends(secretKey string, backends *stripe.Backends) *Client {
	c := &Client{api: &client.API{}}
	c.api.Init(secretKey, backends)
	return c
}

func (c *Client) configured() error {
	if c.api == nil {
		return usecase.ErrPaymentProviderUnavailable
	}
	return nil
}

func (c *Client) Create(ctx context.Context, amount int64, currency string, metadata map[string]string) (*domain.PaymentAuthorization, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, usecase.ErrInvalidAmount
	}
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amount),
		Currency:      stripe.String(currency),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, wrapErr(err)
	}
	return toAuthorization(pi), nil
}

func (c *Client) Retrieve(ctx context.Context, id string) (*domain.PaymentAuthorization, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := c.api.PaymentIntents.Get(id, params)
	if err != nil {
		var sErr *stripe.Error
		if errors.As(err, &sErr) && sErr.HTTPStatusCode == http.StatusNotFound {
			return nil, usecase.ErrPaymentNotFound
		}
		return nil, wrapErr(err)
	}
	return toAuthorization(pi), nil
}

func (c *Client) Capture(ctx context.Context, id string) (*domain.PaymentAuthorization, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx
	pi, err := c.api.PaymentIntents.Capture(id, params)
	if err != nil {
		return nil, wrapErr(err)
	}
	return toAuthorization(pi), nil
}

func (c *Client) Cancel(ctx context.Context, id string) error {
	if err := c.configured(); err != nil {
		return err
	}
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	_, err := c.api.PaymentIntents.Cancel(id, params)
	return wrapErr(err)
}

func (c *Client) Refund(ctx context.Context, id string) error {
	if err := c.configured(); err != nil {
		return err
	}
	params := &stripe.RefundParams{PaymentIntent: stripe.String(id)}
	params.Context = ctx
	_, err := c.api.Refunds.New(params)
	return wrapErr(err)
}

// wrapErr translates SDK errors into the usecase taxonomy so handlers
// never import stripe types. The provider's HTTP status passes through.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		return &usecase.PaymentProviderError{
			StatusCode: sErr.HTTPStatusCode,
			Message:    sErr.Msg,
			Details:    map[string]any{"code": string(sErr.Code), "type": string(sErr.Type)},
		}
	}
	return err
}

func toAuthorization(pi *stripe.PaymentIntent) *domain.PaymentAuthorization {
	return &domain.PaymentAuthorization{
		ID:           pi.ID,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       domain.PaymentStatus(pi.Status),
		ClientSecret: pi.ClientSecret,
	}
}

var _ usecase.PaymentClient = (*Client)(nil)
