package seaport

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// InsufficientBalanceAndApprovalAmounts is the outcome of reconciling a
// snapshot against required amounts: balance shortfalls are hard failures,
// approval shortfalls are remediable via approval actions.
type InsufficientBalanceAndApprovalAmounts struct {
	InsufficientBalances  InsufficientBalances
	InsufficientApprovals InsufficientApprovals
}

func findBalanceAndApproval(balancesAndApprovals BalancesAndApprovals, token common.Address, identifier *big.Int) (*BalanceAndApproval, error) {
	for i := range balancesAndApprovals {
		entry := &balancesAndApprovals[i]
		if entry.Token == token && entry.IdentifierOrCriteria.Cmp(identifier) == 0 {
			return entry, nil
		}
	}
	return nil, ErrMissingBalanceAndApproval
}

// GetInsufficientBalanceAndApprovalAmounts compares a balance snapshot against
// the required per-(token, identifier) amounts and emits one shortfall record
// per insufficient entry, in requirement order. The operator recorded on
// approval shortfalls is the one the snapshot was taken against.
func GetInsufficientBalanceAndApprovalAmounts(balancesAndApprovals BalancesAndApprovals, required *AmountSums, operator common.Address) (*InsufficientBalanceAndApprovalAmounts, error) {
	out := &InsufficientBalanceAndApprovalAmounts{}

	for _, need := range required.Entries() {
		entry, err := findBalanceAndApproval(balancesAndApprovals, need.Token, need.IdentifierOrCriteria)
		if err != nil {
			return nil, err
		}

		if entry.Balance.Cmp(need.Amount) < 0 {
			out.InsufficientBalances = append(out.InsufficientBalances, InsufficientBalance{
				Token:                need.Token,
				IdentifierOrCriteria: copyBig(need.IdentifierOrCriteria),
				RequiredAmount:       copyBig(need.Amount),
				AmountHave:           copyBig(entry.Balance),
				ItemType:             entry.ItemType,
			})
		}

		if entry.ApprovedAmount.Cmp(need.Amount) < 0 {
			out.InsufficientApprovals = append(out.InsufficientApprovals, InsufficientApproval{
				Token:                  need.Token,
				IdentifierOrCriteria:   copyBig(need.IdentifierOrCriteria),
				ApprovedAmount:         copyBig(entry.ApprovedAmount),
				RequiredApprovedAmount: copyBig(need.Amount),
				Operator:               operator,
				ItemType:               entry.ItemType,
			})
		}
	}

	return out, nil
}

// offerValidationParams bundles the inputs for validating an offerer's side of
// an order against their balance snapshot.
type offerValidationParams struct {
	Offer                        []OfferItem
	Criterias                    []InputCriteria
	BalancesAndApprovals         BalancesAndApprovals
	TimeBasedItemParams          *TimeBasedItemParams
	Operator                     common.Address
	Offerer                      common.Address
	ThrowOnInsufficientBalances  bool
	ThrowOnInsufficientApprovals bool
}

// validateOfferBalancesAndApprovals checks that the offerer can cover every
// offered item. A balance shortfall aborts (the order can never succeed as
// priced); approval shortfalls are returned for the caller to remediate.
func validateOfferBalancesAndApprovals(params offerValidationParams) (InsufficientApprovals, error) {
	var timeParams *TimeBasedItemParams
	if params.TimeBasedItemParams != nil {
		timeParams = params.TimeBasedItemParams.forConsideration(false)
	}

	required := SummedTokenAndIdentifierAmounts(params.Offer, params.Criterias, timeParams)

	insufficient, err := GetInsufficientBalanceAndApprovalAmounts(params.BalancesAndApprovals, required, params.Operator)
	if err != nil {
		return nil, err
	}

	if params.ThrowOnInsufficientBalances && len(insufficient.InsufficientBalances) > 0 {
		return nil, &InsufficientBalanceError{Owner: params.Offerer, Shortfalls: insufficient.InsufficientBalances}
	}
	if params.ThrowOnInsufficientApprovals && len(insufficient.InsufficientApprovals) > 0 {
		return nil, &InsufficientApprovalError{Owner: params.Offerer, Shortfalls: insufficient.InsufficientApprovals}
	}

	return insufficient.InsufficientApprovals, nil
}

type fulfillValidationParams struct {
	Offer                           []OfferItem
	Consideration                   []ConsiderationItem
	OfferCriteria                   []InputCriteria
	ConsiderationCriteria           []InputCriteria
	OffererBalancesAndApprovals     BalancesAndApprovals
	FulfillerBalancesAndApprovals   BalancesAndApprovals
	TimeBasedItemParams             *TimeBasedItemParams
	Offerer                         common.Address
	Fulfiller                       common.Address
	OffererOperator                 common.Address
	FulfillerOperator               common.Address
}

// validateBasicFulfillBalancesAndApprovals checks both sides of a basic
// fulfillment. Consideration items sharing the offer's item type are excluded
// from the fulfiller's requirements: they are satisfied by the items flowing
// in from the offerer, not from the fulfiller's own holdings.
func validateBasicFulfillBalancesAndApprovals(params fulfillValidationParams) (InsufficientApprovals, error) {
	if _, err := validateOfferBalancesAndApprovals(offerValidationParams{
		Offer:                        params.Offer,
		BalancesAndApprovals:         params.OffererBalancesAndApprovals,
		TimeBasedItemParams:          params.TimeBasedItemParams,
		Operator:                     params.OffererOperator,
		Offerer:                      params.Offerer,
		ThrowOnInsufficientBalances:  true,
		ThrowOnInsufficientApprovals: true,
	}); err != nil {
		return nil, err
	}

	var withoutOfferItemType []OfferItem
	for _, item := range params.Consideration {
		if item.ItemType != params.Offer[0].ItemType {
			withoutOfferItemType = append(withoutOfferItemType, item.OfferItem)
		}
	}

	var timeParams *TimeBasedItemParams
	if params.TimeBasedItemParams != nil {
		timeParams = params.TimeBasedItemParams.forConsideration(true)
	}
	required := SummedTokenAndIdentifierAmounts(withoutOfferItemType, nil, timeParams)

	insufficient, err := GetInsufficientBalanceAndApprovalAmounts(params.FulfillerBalancesAndApprovals, required, params.FulfillerOperator)
	if err != nil {
		return nil, err
	}
	if len(insufficient.InsufficientBalances) > 0 {
		return nil, &InsufficientBalanceError{Owner: params.Fulfiller, Shortfalls: insufficient.InsufficientBalances}
	}

	return insufficient.InsufficientApprovals, nil
}

// validateStandardFulfillBalancesAndApprovals checks both sides of a standard
// fulfillment. The fulfiller's snapshot is credited with the offered items
// first, since in the general path items received can immediately be
// redirected to satisfy consideration obligations in the same transaction.
func validateStandardFulfillBalancesAndApprovals(params fulfillValidationParams) (InsufficientApprovals, error) {
	if _, err := validateOfferBalancesAndApprovals(offerValidationParams{
		Offer:                        params.Offer,
		BalancesAndApprovals:         params.OffererBalancesAndApprovals,
		TimeBasedItemParams:          params.TimeBasedItemParams,
		Operator:                     params.OffererOperator,
		Offerer:                      params.Offerer,
		ThrowOnInsufficientBalances:  true,
		ThrowOnInsufficientApprovals: true,
	}); err != nil {
		return nil, err
	}

	var offerTimeParams *TimeBasedItemParams
	if params.TimeBasedItemParams != nil {
		offerTimeParams = params.TimeBasedItemParams.forConsideration(false)
	}
	summedOffer := SummedTokenAndIdentifierAmounts(params.Offer, params.OfferCriteria, offerTimeParams)

	afterReceivingOffer := make(BalancesAndApprovals, len(params.FulfillerBalancesAndApprovals))
	for i, entry := range params.FulfillerBalancesAndApprovals {
		afterReceivingOffer[i] = entry
		afterReceivingOffer[i].Balance = copyBig(entry.Balance)
		afterReceivingOffer[i].IdentifierOrCriteria = copyBig(entry.IdentifierOrCriteria)
		afterReceivingOffer[i].ApprovedAmount = copyBig(entry.ApprovedAmount)
	}
	for _, received := range summedOffer.Entries() {
		entry, err := findBalanceAndApproval(afterReceivingOffer, received.Token, received.IdentifierOrCriteria)
		if err != nil {
			return nil, err
		}
		entry.Balance.Add(entry.Balance, received.Amount)
	}

	var considerationTimeParams *TimeBasedItemParams
	if params.TimeBasedItemParams != nil {
		considerationTimeParams = params.TimeBasedItemParams.forConsideration(true)
	}
	required := SummedTokenAndIdentifierAmounts(considerationAsItems(params.Consideration), params.ConsiderationCriteria, considerationTimeParams)

	insufficient, err := GetInsufficientBalanceAndApprovalAmounts(afterReceivingOffer, required, params.FulfillerOperator)
	if err != nil {
		return nil, err
	}
	if len(insufficient.InsufficientBalances) > 0 {
		return nil, &InsufficientBalanceError{Owner: params.Fulfiller, Shortfalls: insufficient.InsufficientBalances}
	}

	return insufficient.InsufficientApprovals, nil
}
