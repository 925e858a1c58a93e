package usecase

import (
	"errors"
	"fmt"

	domain "github.com/Jmaes1212/artiq-front-end/internal/entity"
)

var (
	// ErrPaymentProviderUnavailable means the payment provider credentials
	// are absent. Checked eagerly on every client operation.
	ErrPaymentProviderUnavailable = errors.New("payment provider is not configured")

	// ErrInvalidAmount rejects non-positive authorization amounts.
	ErrInvalidAmount = errors.New("invalid payment amount")

	// ErrPaymentNotFound means the referenced authorization does not exist
	// at the provider.
	ErrPaymentNotFound = errors.New("payment authorization not found")
)

// ValidationError carries every field violation found on a checkout request.
type ValidationError struct {
	Violations []domain.Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return e.Violations[0].Message
	}
	return fmt.Sprintf("checkout request failed %d field checks", len(e.Violations))
}

// PaymentIncompleteError reports an authorization that is in neither
// requires_capture nor succeeded, carrying the status actually observed.
type PaymentIncompleteError struct {
	Status domain.PaymentStatus
}

func (e *PaymentIncompleteError) Error() string {
	return "payment not completed: status " + string(e.Status)
}

// PaymentProviderError is a payment provider rejection that is none of
// the named conditions above: the provider's HTTP status and message pass
// through to the caller.
type PaymentProviderError struct {
	StatusCode int
	Message    string
	Details    any
}

func (e *PaymentProviderError) Error() string { return e.Message }

// FulfilmentError is a rejected order submission. StatusCode is the
// provider's HTTP status (or 500 for transport/configuration failures).
// Details holds the parsed error body when it was JSON, the raw text
// otherwise. Hint, when set, is a friendlier account-level explanation
// layered over the generic message.
type FulfilmentError struct {
	StatusCode int
	Message    string
	Details    any
	Hint       string
}

func (e *FulfilmentError) Error() string { return e.Message }
