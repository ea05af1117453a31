package seaport

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrMixedCurrencies is returned when an order mixes currency tokens.
	ErrMixedCurrencies = errors.New("all currency tokens in the order must be the same token")

	// ErrInvalidUnitsToFill is returned when units to fill is zero or negative.
	ErrInvalidUnitsToFill = errors.New("units to fill must be greater than 0")

	// ErrMissingCriteria is returned when the supplied criteria arrays do not
	// line up with the criteria-based items in the order.
	ErrMissingCriteria = errors.New("you must supply the appropriate criterias for criteria based items")

	// ErrOrderFilled is returned when attempting to fulfill an already filled order.
	ErrOrderFilled = errors.New("the order you are trying to fulfill is already filled")

	// ErrOrderCancelled is returned when attempting to fulfill a cancelled order.
	ErrOrderCancelled = errors.New("the order you are trying to fulfill is cancelled")

	// ErrInvalidBasicFulfill is returned when order parameters do not map onto
	// any basic fulfillment route.
	ErrInvalidBasicFulfill = errors.New("order parameters did not result in a valid basic fulfillment")

	// ErrMissingBalanceAndApproval is returned when a required (token, identifier)
	// pair is absent from a balance snapshot.
	ErrMissingBalanceAndApproval = errors.New("balances and approvals didn't contain all tokens and identifiers")

	// ErrUnknownConduitKey is returned when a conduit key has no configured conduit.
	ErrUnknownConduitKey = errors.New("no conduit configured for the given conduit key")
)

// InsufficientBalanceError is a hard failure: the participant cannot possibly
// cover the order, so no action list is produced.
type InsufficientBalanceError struct {
	Owner      common.Address
	Shortfalls InsufficientBalances
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("account %s does not have the amounts needed to create or fulfill (%d shortfalls)",
		e.Owner.Hex(), len(e.Shortfalls))
}

// InsufficientApprovalError is raised only when the caller asked for approvals
// to be treated as fatal rather than remediable.
type InsufficientApprovalError struct {
	Owner      common.Address
	Shortfalls InsufficientApprovals
}

func (e *InsufficientApprovalError) Error() string {
	return fmt.Sprintf("account %s does not have the sufficient approvals (%d shortfalls)",
		e.Owner.Hex(), len(e.Shortfalls))
}

// SignatureError wraps the provider payload from a failed signing request after
// every signing method has been exhausted.
type SignatureError struct {
	Payload string
	Err     error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("there was a problem generating the signature for the order: %s", e.Payload)
}

func (e *SignatureError) Unwrap() error {
	return e.Err
}
