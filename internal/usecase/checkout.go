package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domain "github.com/Jmaes1212/artiq-front-end/internal/entity"
)

// CheckoutResult is the outcome of a completed checkout: the ledger id,
// the status reported by the fulfilment provider, and its full response.
type CheckoutResult struct {
	OrderID          string
	Status           string
	ProviderResponse map[string]any
}

// Checkout coordinates payment settlement and order fulfilment.
//
// Ordering invariant: fulfilment submission always happens before any
// capture, so a buyer is never charged for an order the print provider
// did not accept. On a fulfilment failure the hold is reconciled exactly
// once (cancel if still held, refund if already captured) and the
// fulfilment error, not the reconciliation outcome, is what propagates.
type Checkout struct {
	payments   PaymentClient
	fulfilment FulfilmentClient
	store      OrderStore
	log        *slog.Logger
}

func NewCheckout(payments PaymentClient, fulfilment FulfilmentClient, store OrderStore, log *slog.Logger) *Checkout {
	return &Checkout{payments: payments, fulfilment: fulfilment, store: store, log: log}
}

func (uc *Checkout) Execute(ctx context.Context, req *domain.CheckoutRequest) (CheckoutResult, error) {
	if vs := req.Validate(); len(vs) > 0 {
		return CheckoutResult{}, &ValidationError{Violations: vs}
	}

	auth, err := uc.payments.Retrieve(ctx, req.PaymentIntentID)
	if err != nil {
		return CheckoutResult{}, err
	}
	if !auth.Status.Settleable() {
		return CheckoutResult{}, &PaymentIncompleteError{Status: auth.Status}
	}

	resp, err := uc.fulfilment.SubmitOrder(ctx, req)
	if err != nil {
		uc.reconcile(ctx, auth)
		return CheckoutResult{}, err
	}

	if auth.Status == domain.PaymentRequiresCapture {
		if _, err := uc.payments.Capture(ctx, auth.ID); err != nil {
			// The hold is still in place; release it and surface the
			// capture failure. The fulfilment order already exists at
			// this point, which is the same gap the cancel path always
			// had: reconciliation is settlement-only.
			uc.reconcile(ctx, auth)
			return CheckoutResult{}, err
		}
		auth.Status = domain.PaymentSucceeded
	}

	entry, err := uc.store.Record(ctx, resp)
	if err != nil {
		return CheckoutResult{}, err
	}
	return CheckoutResult{OrderID: entry.ID, Status: entry.Status, ProviderResponse: resp}, nil
}

// reconcile releases or returns the buyer's money after a failed checkout.
// Best effort: failures are logged, never propagated, so the original
// error is what the caller sees.
func (uc *Checkout) reconcile(ctx context.Context, auth *domain.PaymentAuthorization) {
	switch auth.Status {
	case domain.PaymentRequiresCapture:
		if err := uc.payments.Cancel(ctx, auth.ID); err != nil {
			uc.log.Error("payment cancel failed", "payment_id", auth.ID, "error", err)
		}
	case domain.PaymentSucceeded:
		if err := uc.payments.Refund(ctx, auth.ID); err != nil {
			uc.log.Error("payment refund failed", "payment_id", auth.ID, "error", err)
		}
	}
}

// LocalOrderID is the ledger key used when the provider response carries
// no id of its own.
func LocalOrderID(now time.Time) string {
	return fmt.Sprintf("local-%d", now.UnixMilli())
}
