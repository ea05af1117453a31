package seaport

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// IsCurrencyItem reports whether the item type is native currency or ERC20.
func IsCurrencyItem(itemType ItemType) bool {
	return itemType == ItemTypeNative || itemType == ItemTypeERC20
}

// IsNativeCurrencyItem reports whether the item type is native currency.
func IsNativeCurrencyItem(itemType ItemType) bool {
	return itemType == ItemTypeNative
}

// IsERC20Item reports whether the item type is ERC20.
func IsERC20Item(itemType ItemType) bool {
	return itemType == ItemTypeERC20
}

// IsERC721Item reports whether the item type is ERC721, criteria-based or not.
func IsERC721Item(itemType ItemType) bool {
	return itemType == ItemTypeERC721 || itemType == ItemTypeERC721WithCriteria
}

// IsERC1155Item reports whether the item type is ERC1155, criteria-based or not.
func IsERC1155Item(itemType ItemType) bool {
	return itemType == ItemTypeERC1155 || itemType == ItemTypeERC1155WithCriteria
}

// IsCriteriaItem reports whether the item type is criteria-based.
func IsCriteriaItem(itemType ItemType) bool {
	return itemType == ItemTypeERC721WithCriteria || itemType == ItemTypeERC1155WithCriteria
}

// TimeBasedItemParams supplies the timing context for computing present-value
// amounts of ascending or descending items.
type TimeBasedItemParams struct {
	IsConsiderationItem            bool
	CurrentBlockTimestamp          uint64
	AscendingAmountTimestampBuffer uint64
	StartTime                      *big.Int
	EndTime                        *big.Int
}

func (p TimeBasedItemParams) forConsideration(isConsideration bool) *TimeBasedItemParams {
	out := p
	out.IsConsiderationItem = isConsideration
	return &out
}

// PresentItemAmount computes the value of an item at the evaluation timestamp.
//
// With no timing context it returns max(start, end), the worst case used for
// static balance checks. Otherwise it linearly interpolates between start and
// end amounts over [StartTime, EndTime]. Ascending items are evaluated a
// buffer ahead of the current block timestamp so confirmation delay cannot
// under-price the fulfiller. Consideration amounts round up and offer amounts
// round down, so under integer truncation the fulfiller never receives less
// than intended and never owes more than computed.
func PresentItemAmount(startAmount, endAmount *big.Int, params *TimeBasedItemParams) *big.Int {
	if params == nil {
		return maxBig(startAmount, endAmount)
	}

	duration := new(big.Int).Sub(params.EndTime, params.StartTime)
	if duration.Sign() <= 0 {
		return copyBig(endAmount)
	}

	timestamp := new(big.Int).SetUint64(params.CurrentBlockTimestamp)
	if endAmount.Cmp(startAmount) > 0 {
		timestamp.Add(timestamp, new(big.Int).SetUint64(params.AscendingAmountTimestampBuffer))
	}

	if timestamp.Cmp(params.StartTime) < 0 {
		return copyBig(startAmount)
	}
	if timestamp.Cmp(params.EndTime) > 0 {
		timestamp.Set(params.EndTime)
	}

	elapsed := new(big.Int).Sub(timestamp, params.StartTime)
	remaining := new(big.Int).Sub(duration, elapsed)

	total := new(big.Int).Mul(startAmount, remaining)
	total.Add(total, new(big.Int).Mul(endAmount, elapsed))
	if params.IsConsiderationItem {
		total.Add(total, new(big.Int).Sub(duration, big.NewInt(1)))
	}

	return total.Div(total, duration)
}

// TokenIdentifierAmount is one entry of an aggregation over (token, identifier).
type TokenIdentifierAmount struct {
	Token                common.Address
	IdentifierOrCriteria *big.Int
	Amount               *big.Int
}

// AmountSums aggregates present amounts per (token, identifier) pair while
// preserving first-appearance order, keeping downstream shortfall and approval
// output deterministic.
type AmountSums struct {
	entries []TokenIdentifierAmount
	index   map[string]int
}

func sumKey(token common.Address, identifier *big.Int) string {
	return token.Hex() + "-" + identifier.String()
}

func (s *AmountSums) add(token common.Address, identifier, amount *big.Int) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	key := sumKey(token, identifier)
	if i, ok := s.index[key]; ok {
		s.entries[i].Amount.Add(s.entries[i].Amount, amount)
		return
	}
	s.index[key] = len(s.entries)
	s.entries = append(s.entries, TokenIdentifierAmount{
		Token:                token,
		IdentifierOrCriteria: copyBig(identifier),
		Amount:               copyBig(amount),
	})
}

// Amount returns the summed amount for a (token, identifier) pair, or zero.
func (s *AmountSums) Amount(token common.Address, identifier *big.Int) *big.Int {
	if s.index == nil {
		return new(big.Int)
	}
	if i, ok := s.index[sumKey(token, identifier)]; ok {
		return copyBig(s.entries[i].Amount)
	}
	return new(big.Int)
}

// Entries returns the aggregated totals in first-appearance order.
func (s *AmountSums) Entries() []TokenIdentifierAmount {
	return s.entries
}

// SummedTokenAndIdentifierAmounts groups items by (token, resolved identifier)
// and sums their present amounts. Criteria items resolve to the concrete
// identifier supplied by the matching InputCriteria; with none supplied the
// stored root keys the sum instead. Missing criteria are only fatal at
// resolver-generation time.
func SummedTokenAndIdentifierAmounts(items []OfferItem, criterias []InputCriteria, params *TimeBasedItemParams) *AmountSums {
	indexToCriteria := itemIndexToCriteriaMap(items, criterias)

	sums := &AmountSums{}
	for i, item := range items {
		identifier := item.IdentifierOrCriteria
		if criteria, ok := indexToCriteria[i]; ok {
			identifier = criteria.Identifier
		}
		sums.add(item.Token, identifier, PresentItemAmount(item.StartAmount, item.EndAmount, params))
	}
	return sums
}

// itemIndexToCriteriaMap zips the caller-supplied criteria list with the
// criteria-based items, in item order. Criteria items beyond the supplied list
// are left unresolved; balance snapshots still give them a meaningful
// (collection-wide or optimistic) balance.
func itemIndexToCriteriaMap(items []OfferItem, criterias []InputCriteria) map[int]InputCriteria {
	criteriaMap := make(map[int]InputCriteria)
	next := 0
	for i, item := range items {
		if !IsCriteriaItem(item.ItemType) {
			continue
		}
		if next >= len(criterias) {
			break
		}
		criteriaMap[i] = criterias[next]
		next++
	}
	return criteriaMap
}

// MaximumSizeForOrder returns the maximum number of units the order can be
// divided into: the GCD across every item's start and end amounts. Scaling by
// any fraction over this denominator keeps all amounts integral, regardless of
// when the order is ultimately fulfilled.
func MaximumSizeForOrder(order *Order) *big.Int {
	amounts := make([]*big.Int, 0, 2*(len(order.Parameters.Offer)+len(order.Parameters.Consideration)))
	for _, item := range allOrderItems(order.Parameters) {
		amounts = append(amounts, item.StartAmount, item.EndAmount)
	}
	return findGCD(amounts)
}

func gcd(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, a, b)
}

func findGCD(elements []*big.Int) *big.Int {
	if len(elements) == 0 {
		return new(big.Int)
	}
	result := copyBig(elements[0])
	one := big.NewInt(1)
	for _, el := range elements[1:] {
		result = gcd(el, result)
		if result.Cmp(one) == 0 {
			return result
		}
	}
	return result
}
