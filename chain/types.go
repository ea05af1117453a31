package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Wire structs mirroring the marketplace contract's ABI tuples. Field names
// follow the tuple component names so abi packing resolves them directly.

// OfferItem is the ABI tuple for an offered item.
type OfferItem struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
}

// ConsiderationItem is the ABI tuple for a consideration item.
type ConsiderationItem struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
	Recipient            common.Address
}

// OrderParameters is the ABI tuple for order parameters.
type OrderParameters struct {
	Offerer                         common.Address
	Zone                            common.Address
	Offer                           []OfferItem
	Consideration                   []ConsiderationItem
	OrderType                       uint8
	StartTime                       *big.Int
	EndTime                         *big.Int
	ZoneHash                        common.Hash
	Salt                            *big.Int
	ConduitKey                      common.Hash
	TotalOriginalConsiderationItems *big.Int
}

// OrderComponents is the signed-over struct: order parameters without the
// original-consideration count, plus the offerer's counter.
type OrderComponents struct {
	Offerer       common.Address
	Zone          common.Address
	Offer         []OfferItem
	Consideration []ConsiderationItem
	OrderType     uint8
	StartTime     *big.Int
	EndTime       *big.Int
	ZoneHash      common.Hash
	Salt          *big.Int
	ConduitKey    common.Hash
	Counter       *big.Int
}

// Order is the ABI tuple pairing parameters with a signature.
type Order struct {
	Parameters OrderParameters
	Signature  []byte
}

// AdvancedOrder extends Order with a fill fraction and zone extra data.
type AdvancedOrder struct {
	Parameters  OrderParameters
	Numerator   *big.Int
	Denominator *big.Int
	Signature   []byte
	ExtraData   []byte
}

// CriteriaResolver is the ABI tuple resolving one criteria-based item.
type CriteriaResolver struct {
	OrderIndex    *big.Int
	Side          uint8
	Index         *big.Int
	Identifier    *big.Int
	CriteriaProof []common.Hash
}

// FulfillmentComponent references one item of one order within a batch.
type FulfillmentComponent struct {
	OrderIndex *big.Int
	ItemIndex  *big.Int
}

// AdditionalRecipient is an (amount, recipient) pair of a basic order.
type AdditionalRecipient struct {
	Amount    *big.Int
	Recipient common.Address
}

// BasicOrderParameters is the flattened calldata struct for the gas-optimized
// basic fulfillment entry point.
type BasicOrderParameters struct {
	ConsiderationToken                common.Address
	ConsiderationIdentifier           *big.Int
	ConsiderationAmount               *big.Int
	Offerer                           common.Address
	Zone                              common.Address
	OfferToken                        common.Address
	OfferIdentifier                   *big.Int
	OfferAmount                       *big.Int
	BasicOrderType                    uint8
	StartTime                         *big.Int
	EndTime                           *big.Int
	ZoneHash                          common.Hash
	Salt                              *big.Int
	OffererConduitKey                 common.Hash
	FulfillerConduitKey               common.Hash
	TotalOriginalAdditionalRecipients *big.Int
	AdditionalRecipients              []AdditionalRecipient
	Signature                         []byte
}

// ERC20 ABI JSON for balance, allowance and approve
const erc20ABIJSON = `[
	{
		"constant": true,
		"inputs": [{"name": "account", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	}
]`

// ERC721 ABI JSON for ownership and blanket approvals
const erc721ABIJSON = `[
	{
		"constant": true,
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"name": "ownerOf",
		"outputs": [{"name": "", "type": "address"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "operator", "type": "address"}
		],
		"name": "isApprovedForAll",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "operator", "type": "address"},
			{"name": "approved", "type": "bool"}
		],
		"name": "setApprovalForAll",
		"outputs": [],
		"type": "function"
	}
]`

// ERC1155 ABI JSON for balances and blanket approvals
const erc1155ABIJSON = `[
	{
		"constant": true,
		"inputs": [
			{"name": "account", "type": "address"},
			{"name": "id", "type": "uint256"}
		],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "account", "type": "address"},
			{"name": "operator", "type": "address"}
		],
		"name": "isApprovedForAll",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "operator", "type": "address"},
			{"name": "approved", "type": "bool"}
		],
		"name": "setApprovalForAll",
		"outputs": [],
		"type": "function"
	}
]`

const offerItemComponents = `[
	{"name": "itemType", "type": "uint8"},
	{"name": "token", "type": "address"},
	{"name": "identifierOrCriteria", "type": "uint256"},
	{"name": "startAmount", "type": "uint256"},
	{"name": "endAmount", "type": "uint256"}
]`

const considerationItemComponents = `[
	{"name": "itemType", "type": "uint8"},
	{"name": "token", "type": "address"},
	{"name": "identifierOrCriteria", "type": "uint256"},
	{"name": "startAmount", "type": "uint256"},
	{"name": "endAmount", "type": "uint256"},
	{"name": "recipient", "type": "address"}
]`

const orderParametersComponents = `[
	{"name": "offerer", "type": "address"},
	{"name": "zone", "type": "address"},
	{"name": "offer", "type": "tuple[]", "components": ` + offerItemComponents + `},
	{"name": "consideration", "type": "tuple[]", "components": ` + considerationItemComponents + `},
	{"name": "orderType", "type": "uint8"},
	{"name": "startTime", "type": "uint256"},
	{"name": "endTime", "type": "uint256"},
	{"name": "zoneHash", "type": "bytes32"},
	{"name": "salt", "type": "uint256"},
	{"name": "conduitKey", "type": "bytes32"},
	{"name": "totalOriginalConsiderationItems", "type": "uint256"}
]`

const orderComponentsComponents = `[
	{"name": "offerer", "type": "address"},
	{"name": "zone", "type": "address"},
	{"name": "offer", "type": "tuple[]", "components": ` + offerItemComponents + `},
	{"name": "consideration", "type": "tuple[]", "components": ` + considerationItemComponents + `},
	{"name": "orderType", "type": "uint8"},
	{"name": "startTime", "type": "uint256"},
	{"name": "endTime", "type": "uint256"},
	{"name": "zoneHash", "type": "bytes32"},
	{"name": "salt", "type": "uint256"},
	{"name": "conduitKey", "type": "bytes32"},
	{"name": "counter", "type": "uint256"}
]`

const orderComponents = `[
	{"name": "parameters", "type": "tuple", "components": ` + orderParametersComponents + `},
	{"name": "signature", "type": "bytes"}
]`

const advancedOrderComponents = `[
	{"name": "parameters", "type": "tuple", "components": ` + orderParametersComponents + `},
	{"name": "numerator", "type": "uint120"},
	{"name": "denominator", "type": "uint120"},
	{"name": "signature", "type": "bytes"},
	{"name": "extraData", "type": "bytes"}
]`

const criteriaResolverComponents = `[
	{"name": "orderIndex", "type": "uint256"},
	{"name": "side", "type": "uint8"},
	{"name": "index", "type": "uint256"},
	{"name": "identifier", "type": "uint256"},
	{"name": "criteriaProof", "type": "bytes32[]"}
]`

const fulfillmentComponentComponents = `[
	{"name": "orderIndex", "type": "uint256"},
	{"name": "itemIndex", "type": "uint256"}
]`

const basicOrderParametersComponents = `[
	{"name": "considerationToken", "type": "address"},
	{"name": "considerationIdentifier", "type": "uint256"},
	{"name": "considerationAmount", "type": "uint256"},
	{"name": "offerer", "type": "address"},
	{"name": "zone", "type": "address"},
	{"name": "offerToken", "type": "address"},
	{"name": "offerIdentifier", "type": "uint256"},
	{"name": "offerAmount", "type": "uint256"},
	{"name": "basicOrderType", "type": "uint8"},
	{"name": "startTime", "type": "uint256"},
	{"name": "endTime", "type": "uint256"},
	{"name": "zoneHash", "type": "bytes32"},
	{"name": "salt", "type": "uint256"},
	{"name": "offererConduitKey", "type": "bytes32"},
	{"name": "fulfillerConduitKey", "type": "bytes32"},
	{"name": "totalOriginalAdditionalRecipients", "type": "uint256"},
	{"name": "additionalRecipients", "type": "tuple[]", "components": ` +
	`[{"name": "amount", "type": "uint256"}, {"name": "recipient", "type": "address"}]},
	{"name": "signature", "type": "bytes"}
]`

// Marketplace contract ABI subset: the read calls and fulfillment, validation
// and cancellation entry points the SDK invokes.
const seaportABIJSON = `[
	{
		"inputs": [{"name": "offerer", "type": "address"}],
		"name": "getCounter",
		"outputs": [{"name": "counter", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "orderHash", "type": "bytes32"}],
		"name": "getOrderStatus",
		"outputs": [
			{"name": "isValidated", "type": "bool"},
			{"name": "isCancelled", "type": "bool"},
			{"name": "totalFilled", "type": "uint256"},
			{"name": "totalSize", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "incrementCounter",
		"outputs": [{"name": "newCounter", "type": "uint256"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [{"name": "orders", "type": "tuple[]", "components": ` + orderComponents + `}],
		"name": "validate",
		"outputs": [{"name": "validated", "type": "bool"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [{"name": "orders", "type": "tuple[]", "components": ` + orderComponentsComponents + `}],
		"name": "cancel",
		"outputs": [{"name": "cancelled", "type": "bool"}],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [{"name": "parameters", "type": "tuple", "components": ` + basicOrderParametersComponents + `}],
		"name": "fulfillBasicOrder",
		"outputs": [{"name": "fulfilled", "type": "bool"}],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "order", "type": "tuple", "components": ` + orderComponents + `},
			{"name": "fulfillerConduitKey", "type": "bytes32"}
		],
		"name": "fulfillOrder",
		"outputs": [{"name": "fulfilled", "type": "bool"}],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "advancedOrder", "type": "tuple", "components": ` + advancedOrderComponents + `},
			{"name": "criteriaResolvers", "type": "tuple[]", "components": ` + criteriaResolverComponents + `},
			{"name": "fulfillerConduitKey", "type": "bytes32"},
			{"name": "recipient", "type": "address"}
		],
		"name": "fulfillAdvancedOrder",
		"outputs": [{"name": "fulfilled", "type": "bool"}],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "advancedOrders", "type": "tuple[]", "components": ` + advancedOrderComponents + `},
			{"name": "criteriaResolvers", "type": "tuple[]", "components": ` + criteriaResolverComponents + `},
			{"name": "offerFulfillments", "type": "tuple[][]", "components": ` + fulfillmentComponentComponents + `},
			{"name": "considerationFulfillments", "type": "tuple[][]", "components": ` + fulfillmentComponentComponents + `},
			{"name": "fulfillerConduitKey", "type": "bytes32"},
			{"name": "recipient", "type": "address"},
			{"name": "maximumFulfilled", "type": "uint256"}
		],
		"name": "fulfillAvailableAdvancedOrders",
		"outputs": [
			{"name": "availableOrders", "type": "bool[]"},
			{"name": "executions", "type": "tuple[]", "components": ` +
	`[{"name": "item", "type": "tuple", "components": [{"name": "itemType", "type": "uint8"}, {"name": "token", "type": "address"}, {"name": "identifier", "type": "uint256"}, {"name": "amount", "type": "uint256"}, {"name": "recipient", "type": "address"}]}, {"name": "offerer", "type": "address"}, {"name": "conduitKey", "type": "bytes32"}]}
		],
		"stateMutability": "payable",
		"type": "function"
	}
]`

// GetERC20ABI returns the parsed ERC20 ABI
func GetERC20ABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic("failed to parse ERC20 ABI: " + err.Error())
	}
	return parsed
}

// GetERC721ABI returns the parsed ERC721 ABI
func GetERC721ABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc721ABIJSON))
	if err != nil {
		panic("failed to parse ERC721 ABI: " + err.Error())
	}
	return parsed
}

// GetERC1155ABI returns the parsed ERC1155 ABI
func GetERC1155ABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc1155ABIJSON))
	if err != nil {
		panic("failed to parse ERC1155 ABI: " + err.Error())
	}
	return parsed
}

// GetSeaportABI returns the parsed marketplace contract ABI subset
func GetSeaportABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(seaportABIJSON))
	if err != nil {
		panic("failed to parse Seaport ABI: " + err.Error())
	}
	return parsed
}
