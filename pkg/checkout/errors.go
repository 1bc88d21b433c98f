package checkout

import "errors"

var (
	ErrCustomerRequired  = errors.New("customer is required")
	ErrRequestInProgress = errors.New("a request for this customer is already in progress")
	ErrInvalidBody       = errors.New("invalid request body")
)
