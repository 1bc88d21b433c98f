package billing

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential = errors.New("payment processor credential is required")
	ErrInvalidConfig     = errors.New("invalid billing configuration")

	ErrCouponNotFound   = errors.New("coupon not found")
	ErrInvalidVATNumber = errors.New("invalid VAT number")

	ErrCustomerNotFound     = errors.New("customer not found")
	ErrCustomerLookupFailed = errors.New("customer lookup failed")

	ErrPaymentRetryFailed             = errors.New("payment retry failed")
	ErrUnrecognizedSubscriptionStatus = errors.New("unrecognized subscription status")
)

// PaymentError is returned by a Processor when the payment method itself is rejected,
// for example a declined card or a payment that needs customer authentication.
type PaymentError struct {
	Code        string
	DeclineCode string
	Message     string
	Err         error
}

func (e *PaymentError) Error() string {
	if e.DeclineCode != "" {
		return fmt.Sprintf("payment failed (%s/%s): %s", e.Code, e.DeclineCode, e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("payment failed (%s): %s", e.Code, e.Message)
	}
	return "payment failed: " + e.Message
}

func (e *PaymentError) Unwrap() error { return e.Err }

// IsPaymentError reports whether err carries a PaymentError.
func IsPaymentError(err error) bool {
	var pe *PaymentError
	return errors.As(err, &pe)
}
