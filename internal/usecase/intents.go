package usecase

import (
	"context"
	"strconv"

	domain "github.com/Jmaes1212/artiq-front-end/internal/entity"
	"golang.org/x/sync/singleflight"
)

// Intents provisions authorization holds for the storefront. Checkout UIs
// fire amount updates in quick bursts (quantity steppers, shipping option
// toggles), so concurrent requests for the same amount collapse into a
// single provider call. Cost optimization only; every distinct amount
// still gets its own hold.
type Intents struct {
	payments PaymentClient
	group    singleflight.Group
}

func NewIntents(payments PaymentClient) *Intents {
	return &Intents{payments: payments}
}

func (p *Intents) Create(ctx context.Context, amount int64, currency string, metadata map[string]string) (*domain.PaymentAuthorization, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	key := currency + ":" + strconv.FormatInt(amount, 10)
	v, err, _ := p.group.Do(key, func() (any, error) {
		return p.payments.Create(ctx, amount, currency, metadata)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.PaymentAuthorization), nil
}
