package seaport

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// orderTypeFromOptions maps creation options to the on-chain order type.
func orderTypeFromOptions(allowPartialFills, restrictedByZone bool) OrderType {
	switch {
	case allowPartialFills && restrictedByZone:
		return OrderTypePartialRestricted
	case allowPartialFills:
		return OrderTypePartialOpen
	case restrictedByZone:
		return OrderTypeFullRestricted
	default:
		return OrderTypeFullOpen
	}
}

// mapInputItemToOfferItem converts a condensed input item into a canonical
// offer item based on its kind discriminant. Criteria kinds derive the stored
// Merkle root from the supplied identifier set; NFT amounts default to 1.
func mapInputItemToOfferItem(item CreateInputItem) OfferItem {
	switch item.Kind {
	case InputItemNFT:
		amount := bigOrDefault(item.Amount, 1)
		endAmount := copyBig(amount)
		if item.EndAmount != nil {
			endAmount = copyBig(item.EndAmount)
		}
		return OfferItem{
			ItemType:             item.ItemType,
			Token:                item.Token,
			IdentifierOrCriteria: copyBig(item.Identifier),
			StartAmount:          amount,
			EndAmount:            endAmount,
		}
	case InputItemNFTWithCriteria:
		tree := NewMerkleTree(item.Identifiers)
		amount := bigOrDefault(item.Amount, 1)
		endAmount := amount
		if item.EndAmount != nil {
			endAmount = copyBig(item.EndAmount)
		}
		endAmount = copyBig(endAmount)
		itemType := ItemTypeERC721WithCriteria
		if item.ItemType == ItemTypeERC1155 || item.ItemType == ItemTypeERC1155WithCriteria {
			itemType = ItemTypeERC1155WithCriteria
		}
		return OfferItem{
			ItemType:             itemType,
			Token:                item.Token,
			IdentifierOrCriteria: tree.RootAsBigInt(),
			StartAmount:          amount,
			EndAmount:            endAmount,
		}
	default:
		itemType := ItemTypeERC20
		if isZeroAddress(item.Token) {
			itemType = ItemTypeNative
		}
		amount := bigOrDefault(item.Amount, 0)
		endAmount := copyBig(amount)
		if item.EndAmount != nil {
			endAmount = copyBig(item.EndAmount)
		}
		return OfferItem{
			ItemType:             itemType,
			Token:                item.Token,
			IdentifierOrCriteria: new(big.Int),
			StartAmount:          amount,
			EndAmount:            endAmount,
		}
	}
}

// mapConsiderationInputItem converts a condensed consideration input into a
// canonical consideration item, defaulting a zero recipient to defaultRecipient.
func mapConsiderationInputItem(item ConsiderationInputItem, defaultRecipient common.Address) ConsiderationItem {
	recipient := item.Recipient
	if isZeroAddress(recipient) {
		recipient = defaultRecipient
	}
	return ConsiderationItem{
		OfferItem: mapInputItemToOfferItem(item.CreateInputItem),
		Recipient: recipient,
	}
}

// areAllCurrenciesSame reports whether every currency item across offer and
// consideration shares the same token and item type.
func areAllCurrenciesSame(offer []OfferItem, consideration []ConsiderationItem) bool {
	var currencies []OfferItem
	for _, item := range allOrderItems(OrderParameters{Offer: offer, Consideration: consideration}) {
		if IsCurrencyItem(item.ItemType) {
			currencies = append(currencies, item)
		}
	}
	if len(currencies) == 0 {
		return true
	}
	first := currencies[0]
	for _, item := range currencies[1:] {
		if item.ItemType != first.ItemType || item.Token != first.Token {
			return false
		}
	}
	return true
}

// totalItemsAmount sums the start and end amounts across the given items.
func totalItemsAmount(items []ConsiderationItem) (startTotal, endTotal *big.Int) {
	startTotal = new(big.Int)
	endTotal = new(big.Int)
	for _, item := range items {
		startTotal.Add(startTotal, item.StartAmount)
		endTotal.Add(endTotal, item.EndAmount)
	}
	return startTotal, endTotal
}

// multiplyBasisPoints scales an amount by basisPoints/10000, truncating.
func multiplyBasisPoints(amount *big.Int, basisPoints int64) *big.Int {
	scaled := new(big.Int).Mul(amount, big.NewInt(basisPoints))
	return scaled.Div(scaled, big.NewInt(OneHundredPercentBasisPoints))
}

// deductFees subtracts the combined fee fraction from every currency
// consideration item. Start and end amounts are scaled identically so any
// time-decay shape is preserved. Non-currency items pass through unchanged.
func deductFees(consideration []ConsiderationItem, fees []Fee) []ConsiderationItem {
	var totalBasisPoints int64
	for _, fee := range fees {
		totalBasisPoints += int64(fee.BasisPoints)
	}

	out := make([]ConsiderationItem, 0, len(consideration))
	for _, item := range consideration {
		deducted := copyConsiderationItem(item)
		if IsCurrencyItem(item.ItemType) {
			deducted.StartAmount.Sub(deducted.StartAmount, multiplyBasisPoints(item.StartAmount, totalBasisPoints))
			deducted.EndAmount.Sub(deducted.EndAmount, multiplyBasisPoints(item.EndAmount, totalBasisPoints))
		}
		out = append(out, deducted)
	}
	return out
}

// feeToConsiderationItem builds the consideration item routing a fee
// recipient's basis-points cut of the order's currency value.
func feeToConsiderationItem(fee Fee, token common.Address, baseAmount, baseEndAmount *big.Int) ConsiderationItem {
	itemType := ItemTypeERC20
	if isZeroAddress(token) {
		itemType = ItemTypeNative
	}
	return ConsiderationItem{
		OfferItem: OfferItem{
			ItemType:             itemType,
			Token:                token,
			IdentifierOrCriteria: new(big.Int),
			StartAmount:          multiplyBasisPoints(baseAmount, int64(fee.BasisPoints)),
			EndAmount:            multiplyBasisPoints(baseEndAmount, int64(fee.BasisPoints)),
		},
		Recipient: fee.Recipient,
	}
}

func mapOrderAmounts(order Order, basisPoints int64) Order {
	offer := make([]OfferItem, len(order.Parameters.Offer))
	for i, item := range order.Parameters.Offer {
		offer[i] = copyOfferItem(item)
		offer[i].StartAmount = multiplyBasisPoints(item.StartAmount, basisPoints)
		offer[i].EndAmount = multiplyBasisPoints(item.EndAmount, basisPoints)
	}
	consideration := make([]ConsiderationItem, len(order.Parameters.Consideration))
	for i, item := range order.Parameters.Consideration {
		consideration[i] = copyConsiderationItem(item)
		consideration[i].StartAmount = multiplyBasisPoints(item.StartAmount, basisPoints)
		consideration[i].EndAmount = multiplyBasisPoints(item.EndAmount, basisPoints)
	}

	params := order.Parameters
	params.Offer = offer
	params.Consideration = consideration
	return Order{Parameters: params, Signature: order.Signature}
}

// MapOrderAmountsFromFilledStatus rescales every item amount by the fraction
// of the order still unfilled, expressed in basis points with truncating
// multiplication. A fresh order passes through unchanged.
func MapOrderAmountsFromFilledStatus(order Order, totalFilled, totalSize *big.Int) Order {
	if totalFilled.Sign() == 0 || totalSize.Sign() == 0 {
		return order
	}

	filledBasisPoints := new(big.Int).Mul(totalFilled, big.NewInt(OneHundredPercentBasisPoints))
	filledBasisPoints.Div(filledBasisPoints, totalSize)
	remaining := OneHundredPercentBasisPoints - filledBasisPoints.Int64()

	return mapOrderAmounts(order, remaining)
}

// MapOrderAmountsFromUnitsToFill rescales every item amount by the requested
// units as a fraction of the order's maximum size, clamped so the request
// cannot exceed what remains unfilled.
func MapOrderAmountsFromUnitsToFill(order Order, unitsToFill, totalFilled, totalSize *big.Int) (Order, error) {
	if unitsToFill == nil || unitsToFill.Sign() <= 0 {
		return Order{}, ErrInvalidUnitsToFill
	}

	maxUnits := MaximumSizeForOrder(&order)

	unitsBasisPoints := new(big.Int).Mul(unitsToFill, big.NewInt(OneHundredPercentBasisPoints))
	unitsBasisPoints.Div(unitsBasisPoints, maxUnits)

	remainingBasisPoints := int64(OneHundredPercentBasisPoints)
	if totalSize != nil && totalSize.Sign() > 0 && totalFilled != nil && totalFilled.Sign() > 0 {
		filled := new(big.Int).Mul(totalFilled, big.NewInt(OneHundredPercentBasisPoints))
		filled.Div(filled, totalSize)
		remainingBasisPoints = OneHundredPercentBasisPoints - filled.Int64()
	}

	basisPoints := unitsBasisPoints.Int64()
	if basisPoints > remainingBasisPoints {
		basisPoints = remainingBasisPoints
	}

	return mapOrderAmounts(order, basisPoints), nil
}

// GetAdvancedOrderNumeratorDenominator converts a units-to-fill request into
// the smallest equivalent fraction of the order's maximum size. A nil request
// means fill the whole order (1/1).
func GetAdvancedOrderNumeratorDenominator(order *Order, unitsToFill *big.Int) (numerator, denominator *big.Int, err error) {
	if unitsToFill == nil {
		return big.NewInt(1), big.NewInt(1), nil
	}
	if unitsToFill.Sign() <= 0 {
		return nil, nil, ErrInvalidUnitsToFill
	}

	maxUnits := MaximumSizeForOrder(order)
	divisor := gcd(unitsToFill, maxUnits)

	numerator = new(big.Int).Div(unitsToFill, divisor)
	denominator = new(big.Int).Div(maxUnits, divisor)
	return numerator, denominator, nil
}

// ValidateAndSanitizeFromOrderStatus rejects terminal orders and strips the
// signature of already-validated orders to "0x" so the contract skips
// signature verification.
func ValidateAndSanitizeFromOrderStatus(order Order, status OrderStatus) (Order, error) {
	if status.IsCancelled {
		return Order{}, ErrOrderCancelled
	}
	if status.TotalSize.Sign() > 0 && status.TotalFilled.Cmp(status.TotalSize) == 0 {
		return Order{}, ErrOrderFilled
	}
	if status.IsValidated {
		order.Signature = "0x"
	}
	return order, nil
}
