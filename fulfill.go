package seaport

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/kaifufi/seaport-sdk-go/chain"
)

type basicRouteKey struct {
	offer         ItemType
	consideration ItemType
}

// Route lookup keyed by (offer item type, primary consideration item type).
// Routes are named from the fulfiller's perspective.
var basicOrderRoutes = map[basicRouteKey]BasicOrderRouteType{
	{ItemTypeERC721, ItemTypeNative}:   RouteEthToERC721,
	{ItemTypeERC1155, ItemTypeNative}:  RouteEthToERC1155,
	{ItemTypeERC721, ItemTypeERC20}:    RouteERC20ToERC721,
	{ItemTypeERC1155, ItemTypeERC20}:   RouteERC20ToERC1155,
	{ItemTypeERC20, ItemTypeERC721}:    RouteERC721ToERC20,
	{ItemTypeERC20, ItemTypeERC1155}:   RouteERC1155ToERC20,
}

// ShouldUseBasicFulfill reports whether an order qualifies for the
// gas-optimized basic fulfillment entry point. Every condition must hold:
// no prior fill, a single non-native offer item, exactly one concrete NFT
// across all items, uniform currency, no time-decay pricing, the primary
// consideration routed back to the offerer, same-currency pass-through
// considerations covered by the offer amount, and protocol-shape constraints
// on native tokens, currency identifiers and ERC721 amounts.
func ShouldUseBasicFulfill(params OrderParameters, totalFilled *big.Int) bool {
	if totalFilled != nil && totalFilled.Sign() != 0 {
		return false
	}
	if len(params.Offer) != 1 || len(params.Consideration) == 0 {
		return false
	}

	offerItem := params.Offer[0]
	if IsNativeCurrencyItem(offerItem.ItemType) {
		return false
	}

	all := allOrderItems(params)

	nfts := 0
	for _, item := range all {
		if IsERC721Item(item.ItemType) || IsERC1155Item(item.ItemType) {
			if IsCriteriaItem(item.ItemType) {
				return false
			}
			nfts++
		}
	}
	if nfts != 1 {
		return false
	}

	if !areAllCurrenciesSame(params.Offer, params.Consideration) {
		return false
	}

	for _, item := range all {
		if item.StartAmount.Cmp(item.EndAmount) != 0 {
			return false
		}
	}

	if params.Consideration[0].Recipient != params.Offerer {
		return false
	}

	if len(params.Consideration) > 1 {
		rest := params.Consideration[1:]
		allShareOfferType := true
		for _, item := range rest {
			if item.ItemType != offerItem.ItemType {
				allShareOfferType = false
				break
			}
		}
		if allShareOfferType {
			sum := new(big.Int)
			for _, item := range rest {
				sum.Add(sum, item.EndAmount)
			}
			if sum.Cmp(offerItem.EndAmount) > 0 {
				return false
			}
		}
	}

	one := big.NewInt(1)
	for _, item := range all {
		if IsNativeCurrencyItem(item.ItemType) && !isZeroAddress(item.Token) {
			return false
		}
		if IsCurrencyItem(item.ItemType) && item.IdentifierOrCriteria.Sign() != 0 {
			return false
		}
		if item.ItemType == ItemTypeERC721 && item.EndAmount.Cmp(one) != 0 {
			return false
		}
	}

	return true
}

// totalNativeConsiderationAmount sums the present amounts of native-currency
// consideration items, the value the fulfiller attaches to the transaction.
func totalNativeConsiderationAmount(consideration []ConsiderationItem, timeParams *TimeBasedItemParams) *big.Int {
	total := new(big.Int)
	considerationTimeParams := timeParams
	if timeParams != nil {
		considerationTimeParams = timeParams.forConsideration(true)
	}
	for _, item := range consideration {
		if IsNativeCurrencyItem(item.ItemType) {
			total.Add(total, PresentItemAmount(item.StartAmount, item.EndAmount, considerationTimeParams))
		}
	}
	return total
}

type fulfillBasicOrderParams struct {
	Order                         Order
	SeaportAddress                common.Address
	OffererBalancesAndApprovals   BalancesAndApprovals
	FulfillerBalancesAndApprovals BalancesAndApprovals
	TimeBasedItemParams           *TimeBasedItemParams
	Fulfiller                     common.Address
	OffererOperator               common.Address
	FulfillerOperator             common.Address
	ConduitKey                    common.Hash
	Tips                          []ConsiderationItem
}

// fulfillBasicOrder builds the action list for a basic fulfillment: approval
// actions for any fulfiller shortfalls followed by one fulfillBasicOrder
// exchange action carrying the native currency owed.
func fulfillBasicOrder(p fulfillBasicOrderParams) ([]Action, error) {
	params := p.Order.Parameters
	offerItem := params.Offer[0]

	considerationIncludingTips := make([]ConsiderationItem, 0, len(params.Consideration)+len(p.Tips))
	considerationIncludingTips = append(considerationIncludingTips, params.Consideration...)
	considerationIncludingTips = append(considerationIncludingTips, p.Tips...)

	route, ok := basicOrderRoutes[basicRouteKey{offerItem.ItemType, considerationIncludingTips[0].ItemType}]
	if !ok {
		return nil, ErrInvalidBasicFulfill
	}

	insufficientApprovals, err := validateBasicFulfillBalancesAndApprovals(fulfillValidationParams{
		Offer:                         params.Offer,
		Consideration:                 considerationIncludingTips,
		OffererBalancesAndApprovals:   p.OffererBalancesAndApprovals,
		FulfillerBalancesAndApprovals: p.FulfillerBalancesAndApprovals,
		TimeBasedItemParams:           p.TimeBasedItemParams,
		Offerer:                       params.Offerer,
		Fulfiller:                     p.Fulfiller,
		OffererOperator:               p.OffererOperator,
		FulfillerOperator:             p.FulfillerOperator,
	})
	if err != nil {
		return nil, err
	}

	approvalActions, err := getApprovalActions(insufficientApprovals)
	if err != nil {
		return nil, err
	}

	additionalRecipients := make([]chain.AdditionalRecipient, 0, len(considerationIncludingTips)-1)
	for _, item := range considerationIncludingTips[1:] {
		additionalRecipients = append(additionalRecipients, chain.AdditionalRecipient{
			Amount:    copyBig(item.StartAmount),
			Recipient: item.Recipient,
		})
	}

	basicOrderType := int64(params.OrderType) + 4*int64(route)

	basicParams := chain.BasicOrderParameters{
		ConsiderationToken:                considerationIncludingTips[0].Token,
		ConsiderationIdentifier:           copyBig(considerationIncludingTips[0].IdentifierOrCriteria),
		ConsiderationAmount:               copyBig(considerationIncludingTips[0].EndAmount),
		Offerer:                           params.Offerer,
		Zone:                              params.Zone,
		OfferToken:                        offerItem.Token,
		OfferIdentifier:                   copyBig(offerItem.IdentifierOrCriteria),
		OfferAmount:                       copyBig(offerItem.EndAmount),
		BasicOrderType:                    uint8(basicOrderType),
		StartTime:                         copyBig(params.StartTime),
		EndTime:                           copyBig(params.EndTime),
		ZoneHash:                          params.ZoneHash,
		Salt:                              copyBig(params.Salt),
		OffererConduitKey:                 params.ConduitKey,
		FulfillerConduitKey:               p.ConduitKey,
		TotalOriginalAdditionalRecipients: big.NewInt(int64(len(params.Consideration) - 1)),
		AdditionalRecipients:              additionalRecipients,
		Signature:                         common.FromHex(p.Order.Signature),
	}

	data, err := chain.GetSeaportABI().Pack("fulfillBasicOrder", basicParams)
	if err != nil {
		return nil, errors.Wrap(err, "packing fulfillBasicOrder calldata")
	}

	actions := make([]Action, 0, len(approvalActions)+1)
	for _, approval := range approvalActions {
		actions = append(actions, approval)
	}
	actions = append(actions, ExchangeAction{Transaction: TransactionRequest{
		To:    p.SeaportAddress,
		Value: totalNativeConsiderationAmount(considerationIncludingTips, p.TimeBasedItemParams),
		Data:  data,
	}})
	return actions, nil
}

type fulfillStandardOrderParams struct {
	Order                         Order
	UnitsToFill                   *big.Int
	TotalFilled                   *big.Int
	TotalSize                     *big.Int
	OfferCriteria                 []InputCriteria
	ConsiderationCriteria         []InputCriteria
	Tips                          []ConsiderationItem
	ExtraData                     []byte
	SeaportAddress                common.Address
	OffererBalancesAndApprovals   BalancesAndApprovals
	FulfillerBalancesAndApprovals BalancesAndApprovals
	TimeBasedItemParams           *TimeBasedItemParams
	Fulfiller                     common.Address
	OffererOperator               common.Address
	FulfillerOperator             common.Address
	ConduitKey                    common.Hash
	Recipient                     common.Address
}

// fulfillStandardOrder builds the action list for the general fulfillment
// path: the order is rescaled for partial fills, tips are appended, criteria
// resolvers are generated and the advanced entry point is invoked. Orders
// needing no advanced features use the plain fulfillOrder entry point.
func fulfillStandardOrder(p fulfillStandardOrderParams) ([]Action, error) {
	order := p.Order
	numerator := big.NewInt(1)
	denominator := big.NewInt(1)

	if p.UnitsToFill != nil {
		var err error
		numerator, denominator, err = GetAdvancedOrderNumeratorDenominator(&order, p.UnitsToFill)
		if err != nil {
			return nil, err
		}
		order, err = MapOrderAmountsFromUnitsToFill(order, p.UnitsToFill, p.TotalFilled, p.TotalSize)
		if err != nil {
			return nil, err
		}
	} else {
		order = MapOrderAmountsFromFilledStatus(order, p.TotalFilled, p.TotalSize)
	}

	totalOriginalConsiderationItems := len(order.Parameters.Consideration)
	orderWithTips := order
	orderWithTips.Parameters.Consideration = append(
		append([]ConsiderationItem{}, order.Parameters.Consideration...), p.Tips...)
	orderWithTips.Parameters.TotalOriginalConsiderationItems = totalOriginalConsiderationItems

	insufficientApprovals, err := validateStandardFulfillBalancesAndApprovals(fulfillValidationParams{
		Offer:                         orderWithTips.Parameters.Offer,
		Consideration:                 orderWithTips.Parameters.Consideration,
		OfferCriteria:                 p.OfferCriteria,
		ConsiderationCriteria:         p.ConsiderationCriteria,
		OffererBalancesAndApprovals:   p.OffererBalancesAndApprovals,
		FulfillerBalancesAndApprovals: p.FulfillerBalancesAndApprovals,
		TimeBasedItemParams:           p.TimeBasedItemParams,
		Offerer:                       orderWithTips.Parameters.Offerer,
		Fulfiller:                     p.Fulfiller,
		OffererOperator:               p.OffererOperator,
		FulfillerOperator:             p.FulfillerOperator,
	})
	if err != nil {
		return nil, err
	}

	approvalActions, err := getApprovalActions(insufficientApprovals)
	if err != nil {
		return nil, err
	}

	criteriaResolvers, err := GenerateCriteriaResolvers(
		[]*Order{&orderWithTips},
		[][]InputCriteria{p.OfferCriteria},
		[][]InputCriteria{p.ConsiderationCriteria},
	)
	if err != nil {
		return nil, err
	}

	useAdvanced := numerator.Cmp(denominator) != 0 || len(criteriaResolvers) > 0 ||
		len(p.ExtraData) > 0 || !isZeroAddress(p.Recipient)

	var data []byte
	if useAdvanced {
		data, err = chain.GetSeaportABI().Pack("fulfillAdvancedOrder",
			toChainAdvancedOrder(orderWithTips, numerator, denominator, p.ExtraData),
			toChainCriteriaResolvers(criteriaResolvers),
			p.ConduitKey,
			p.Recipient,
		)
	} else {
		data, err = chain.GetSeaportABI().Pack("fulfillOrder",
			toChainOrder(orderWithTips),
			p.ConduitKey,
		)
	}
	if err != nil {
		return nil, errors.Wrap(err, "packing fulfillment calldata")
	}

	actions := make([]Action, 0, len(approvalActions)+1)
	for _, approval := range approvalActions {
		actions = append(actions, approval)
	}
	actions = append(actions, ExchangeAction{Transaction: TransactionRequest{
		To:    p.SeaportAddress,
		Value: totalNativeConsiderationAmount(orderWithTips.Parameters.Consideration, p.TimeBasedItemParams),
		Data:  data,
	}})
	return actions, nil
}

// preparedOrder is one order of a batch fulfillment after sanitization,
// rescaling and tip insertion.
type preparedOrder struct {
	Order                 Order
	Numerator             *big.Int
	Denominator           *big.Int
	OfferCriteria         []InputCriteria
	ConsiderationCriteria []InputCriteria
	ExtraData             []byte
	OffererOperator       common.Address
}

type fulfillAvailableOrdersParams struct {
	Orders                        []preparedOrder
	SeaportAddress                common.Address
	FulfillerBalancesAndApprovals BalancesAndApprovals
	OffererSnapshots              []BalancesAndApprovals
	TimeBasedItemParamsPerOrder   []*TimeBasedItemParams
	Fulfiller                     common.Address
	FulfillerOperator             common.Address
	ConduitKey                    common.Hash
	Recipient                     common.Address
}

// fulfillAvailableOrders builds the action list for a batch fulfillment,
// aggregating matching fungible transfers into shared fulfillment components.
func fulfillAvailableOrders(p fulfillAvailableOrdersParams) ([]Action, error) {
	var allApprovals InsufficientApprovals
	totalNativeAmount := new(big.Int)

	for i, prepared := range p.Orders {
		insufficientApprovals, err := validateStandardFulfillBalancesAndApprovals(fulfillValidationParams{
			Offer:                         prepared.Order.Parameters.Offer,
			Consideration:                 prepared.Order.Parameters.Consideration,
			OfferCriteria:                 prepared.OfferCriteria,
			ConsiderationCriteria:         prepared.ConsiderationCriteria,
			OffererBalancesAndApprovals:   p.OffererSnapshots[i],
			FulfillerBalancesAndApprovals: p.FulfillerBalancesAndApprovals,
			TimeBasedItemParams:           p.TimeBasedItemParamsPerOrder[i],
			Offerer:                       prepared.Order.Parameters.Offerer,
			Fulfiller:                     p.Fulfiller,
			OffererOperator:               prepared.OffererOperator,
			FulfillerOperator:             p.FulfillerOperator,
		})
		if err != nil {
			return nil, err
		}
		allApprovals = append(allApprovals, insufficientApprovals...)

		totalNativeAmount.Add(totalNativeAmount,
			totalNativeConsiderationAmount(prepared.Order.Parameters.Consideration, p.TimeBasedItemParamsPerOrder[i]))
	}

	approvalActions, err := getApprovalActions(allApprovals)
	if err != nil {
		return nil, err
	}

	orders := make([]*Order, len(p.Orders))
	offerCriterias := make([][]InputCriteria, len(p.Orders))
	considerationCriterias := make([][]InputCriteria, len(p.Orders))
	for i := range p.Orders {
		orders[i] = &p.Orders[i].Order
		offerCriterias[i] = p.Orders[i].OfferCriteria
		considerationCriterias[i] = p.Orders[i].ConsiderationCriteria
	}

	criteriaResolvers, err := GenerateCriteriaResolvers(orders, offerCriterias, considerationCriterias)
	if err != nil {
		return nil, err
	}

	offerFulfillments, considerationFulfillments := generateOrderFulfillments(p.Orders)

	chainOrders := make([]chain.AdvancedOrder, len(p.Orders))
	for i, prepared := range p.Orders {
		chainOrders[i] = toChainAdvancedOrder(prepared.Order, prepared.Numerator, prepared.Denominator, prepared.ExtraData)
	}

	data, err := chain.GetSeaportABI().Pack("fulfillAvailableAdvancedOrders",
		chainOrders,
		toChainCriteriaResolvers(criteriaResolvers),
		toChainFulfillmentComponents(offerFulfillments),
		toChainFulfillmentComponents(considerationFulfillments),
		p.ConduitKey,
		p.Recipient,
		big.NewInt(int64(len(p.Orders))),
	)
	if err != nil {
		return nil, errors.Wrap(err, "packing fulfillAvailableAdvancedOrders calldata")
	}

	actions := make([]Action, 0, len(approvalActions)+1)
	for _, approval := range approvalActions {
		actions = append(actions, approval)
	}
	actions = append(actions, ExchangeAction{Transaction: TransactionRequest{
		To:    p.SeaportAddress,
		Value: totalNativeAmount,
		Data:  data,
	}})
	return actions, nil
}

// generateOrderFulfillments groups a batch's items into fulfillment
// components. Offer items aggregate by (offerer, operator, token, identifier)
// and consideration items by (recipient, token, identifier); NFT items never
// aggregate even when keys collide, since each represents a discrete transfer.
func generateOrderFulfillments(orders []preparedOrder) (offer, consideration [][]FulfillmentComponent) {
	offerIndex := make(map[string]int)
	considerationIndex := make(map[string]int)

	for orderIndex, prepared := range orders {
		params := prepared.Order.Parameters
		for itemIndex, item := range params.Offer {
			key := aggregationKey(item, orderIndex, itemIndex,
				params.Offerer.Hex(), prepared.OffererOperator.Hex())
			component := FulfillmentComponent{OrderIndex: orderIndex, ItemIndex: itemIndex}
			if i, ok := offerIndex[key]; ok {
				offer[i] = append(offer[i], component)
			} else {
				offerIndex[key] = len(offer)
				offer = append(offer, []FulfillmentComponent{component})
			}
		}
		for itemIndex, item := range params.Consideration {
			key := aggregationKey(item.OfferItem, orderIndex, itemIndex, item.Recipient.Hex())
			component := FulfillmentComponent{OrderIndex: orderIndex, ItemIndex: itemIndex}
			if i, ok := considerationIndex[key]; ok {
				consideration[i] = append(consideration[i], component)
			} else {
				considerationIndex[key] = len(consideration)
				consideration = append(consideration, []FulfillmentComponent{component})
			}
		}
	}
	return offer, consideration
}

func aggregationKey(item OfferItem, orderIndex, itemIndex int, parts ...string) string {
	key := ""
	for _, part := range parts {
		key += part + "-"
	}
	key += item.Token.Hex() + "-" + item.IdentifierOrCriteria.String()
	if IsERC721Item(item.ItemType) || IsERC1155Item(item.ItemType) {
		key += fmt.Sprintf("-%d-%d", orderIndex, itemIndex)
	}
	return key
}
