package domain

// PaymentStatus mirrors the provider's intent status verbatim. Only the
// values the orchestrator branches on are named; anything else passes
// through as-is.
type PaymentStatus string

const (
	PaymentRequiresCapture PaymentStatus = "requires_capture"
	PaymentSucceeded       PaymentStatus = "succeeded"
	PaymentCanceled        PaymentStatus = "canceled"
	PaymentFailed          PaymentStatus = "failed"
)

// Settleable reports whether an authorization may proceed to fulfilment:
// either the hold is in place or the charge already went through.
func (s PaymentStatus) Settleable() bool {
	return s == PaymentRequiresCapture || s == PaymentSucceeded
}

// PaymentAuthorization is a reserved (or already captured) payment amount.
// Amount is in minor currency units. ClientSecret is only populated on
// create, for the browser to confirm the payment.
type PaymentAuthorization struct {
	ID           string
	Amount       int64
	Currency     string
	Status       PaymentStatus
	ClientSecret string
}
