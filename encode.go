package seaport

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/seaport-sdk-go/chain"
)

// Converters between the SDK's domain types and the ABI wire structs in the
// chain package. Wire structs carry big.Int fields everywhere the contract
// uses unsigned integers so abi packing works without width juggling.

func toChainOfferItem(item OfferItem) chain.OfferItem {
	return chain.OfferItem{
		ItemType:             uint8(item.ItemType),
		Token:                item.Token,
		IdentifierOrCriteria: copyBig(item.IdentifierOrCriteria),
		StartAmount:          copyBig(item.StartAmount),
		EndAmount:            copyBig(item.EndAmount),
	}
}

func toChainOfferItems(items []OfferItem) []chain.OfferItem {
	out := make([]chain.OfferItem, len(items))
	for i, item := range items {
		out[i] = toChainOfferItem(item)
	}
	return out
}

func toChainConsiderationItem(item ConsiderationItem) chain.ConsiderationItem {
	return chain.ConsiderationItem{
		ItemType:             uint8(item.ItemType),
		Token:                item.Token,
		IdentifierOrCriteria: copyBig(item.IdentifierOrCriteria),
		StartAmount:          copyBig(item.StartAmount),
		EndAmount:            copyBig(item.EndAmount),
		Recipient:            item.Recipient,
	}
}

func toChainConsiderationItems(items []ConsiderationItem) []chain.ConsiderationItem {
	out := make([]chain.ConsiderationItem, len(items))
	for i, item := range items {
		out[i] = toChainConsiderationItem(item)
	}
	return out
}

func toChainOrderParameters(params OrderParameters) chain.OrderParameters {
	return chain.OrderParameters{
		Offerer:                         params.Offerer,
		Zone:                            params.Zone,
		Offer:                           toChainOfferItems(params.Offer),
		Consideration:                   toChainConsiderationItems(params.Consideration),
		OrderType:                       uint8(params.OrderType),
		StartTime:                       copyBig(params.StartTime),
		EndTime:                         copyBig(params.EndTime),
		ZoneHash:                        params.ZoneHash,
		Salt:                            copyBig(params.Salt),
		ConduitKey:                      params.ConduitKey,
		TotalOriginalConsiderationItems: big.NewInt(int64(params.TotalOriginalConsiderationItems)),
	}
}

func toChainOrderComponents(components OrderComponents) chain.OrderComponents {
	return chain.OrderComponents{
		Offerer:       components.Offerer,
		Zone:          components.Zone,
		Offer:         toChainOfferItems(components.Offer),
		Consideration: toChainConsiderationItems(components.Consideration),
		OrderType:     uint8(components.OrderType),
		StartTime:     copyBig(components.StartTime),
		EndTime:       copyBig(components.EndTime),
		ZoneHash:      components.ZoneHash,
		Salt:          copyBig(components.Salt),
		ConduitKey:    components.ConduitKey,
		Counter:       copyBig(components.Counter),
	}
}

func toChainOrder(order Order) chain.Order {
	return chain.Order{
		Parameters: toChainOrderParameters(order.Parameters),
		Signature:  common.FromHex(order.Signature),
	}
}

func toChainAdvancedOrder(order Order, numerator, denominator *big.Int, extraData []byte) chain.AdvancedOrder {
	if extraData == nil {
		extraData = []byte{}
	}
	return chain.AdvancedOrder{
		Parameters:  toChainOrderParameters(order.Parameters),
		Numerator:   copyBig(numerator),
		Denominator: copyBig(denominator),
		Signature:   common.FromHex(order.Signature),
		ExtraData:   extraData,
	}
}

func toChainCriteriaResolvers(resolvers []CriteriaResolver) []chain.CriteriaResolver {
	out := make([]chain.CriteriaResolver, len(resolvers))
	for i, resolver := range resolvers {
		proof := make([]common.Hash, len(resolver.CriteriaProof))
		copy(proof, resolver.CriteriaProof)
		out[i] = chain.CriteriaResolver{
			OrderIndex:    big.NewInt(int64(resolver.OrderIndex)),
			Side:          uint8(resolver.Side),
			Index:         big.NewInt(int64(resolver.Index)),
			Identifier:    copyBig(resolver.Identifier),
			CriteriaProof: proof,
		}
	}
	return out
}

func toChainFulfillmentComponents(groups [][]FulfillmentComponent) [][]chain.FulfillmentComponent {
	out := make([][]chain.FulfillmentComponent, len(groups))
	for i, group := range groups {
		out[i] = make([]chain.FulfillmentComponent, len(group))
		for j, component := range group {
			out[i][j] = chain.FulfillmentComponent{
				OrderIndex: big.NewInt(int64(component.OrderIndex)),
				ItemIndex:  big.NewInt(int64(component.ItemIndex)),
			}
		}
	}
	return out
}
