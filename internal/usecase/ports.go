package usecase

import (
	"context"

	domain "github.com/Jmaes1212/artiq-front-end/internal/entity"
)

// PaymentClient brokers authorization holds with the payment provider.
// The orchestrator owns the hold's lifecycle: it is the only caller of
// Capture, Cancel and Refund.
type PaymentClient interface {
	Create(ctx context.Context, amount int64, currency string, metadata map[string]string) (*domain.PaymentAuthorization, error)
	Retrieve(ctx context.Context, id string) (*domain.PaymentAuthorization, error)
	Capture(ctx context.Context, id string) (*domain.PaymentAuthorization, error)
	Cancel(ctx context.Context, id string) error
	Refund(ctx context.Context, id string) error
}

// FulfilmentClient maps a checkout request onto the print provider's order
// schema and submits it. The returned map is the provider's response body.
type FulfilmentClient interface {
	SubmitOrder(ctx context.Context, req *domain.CheckoutRequest) (map[string]any, error)
}

// OrderStore is the ledger of submitted orders. Record is called once per
// accepted checkout; ApplyWebhook creates-if-absent and appends history.
// Lookups return (nil, nil) when the id is unknown.
type OrderStore interface {
	Record(ctx context.Context, providerResponse map[string]any) (*domain.OrderEntry, error)
	ApplyWebhook(ctx context.Context, payload map[string]any) (*domain.OrderEntry, error)
	Get(ctx context.Context, id string) (*domain.OrderEntry, error)
}
