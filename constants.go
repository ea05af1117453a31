package seaport

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Name and version of the contract the EIP-712 domain is keyed by.
const (
	ContractName    = "Seaport"
	ContractVersion = "1.1"
)

// CrossChainSeaportAddress is the canonical deployment address shared across chains.
const CrossChainSeaportAddress = "0x00000000006c3852cbef3e08e8df289169ede581"

// OneHundredPercentBasisPoints is the denominator used for fractional math (10000 = 100%).
const OneHundredPercentBasisPoints = 10000

// DefaultAscendingAmountBuffer is how far ahead of the current block timestamp
// ascending amounts are evaluated, tolerating confirmation delay. 30 minutes.
const DefaultAscendingAmountBuffer = 1800

// MaxUint256 is the largest value representable in a uint256. Also used as the
// "infinite" approval sentinel.
var MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// NoConduitKey routes approvals and transfers through the exchange contract itself.
var NoConduitKey = common.Hash{}

// ItemType classifies an exchange item.
type ItemType uint8

const (
	ItemTypeNative ItemType = iota
	ItemTypeERC20
	ItemTypeERC721
	ItemTypeERC1155
	ItemTypeERC721WithCriteria
	ItemTypeERC1155WithCriteria
)

// OrderType encodes fill semantics (full vs partial) and execution restriction.
type OrderType uint8

const (
	// OrderTypeFullOpen disallows partial fills, anyone can execute.
	OrderTypeFullOpen OrderType = iota
	// OrderTypePartialOpen supports partial fills, anyone can execute.
	OrderTypePartialOpen
	// OrderTypeFullRestricted disallows partial fills, only offerer or zone can execute.
	OrderTypeFullRestricted
	// OrderTypePartialRestricted supports partial fills, only offerer or zone can execute.
	OrderTypePartialRestricted
)

// Side distinguishes offer items from consideration items in criteria resolvers.
type Side uint8

const (
	SideOffer Side = iota
	SideConsideration
)

// BasicOrderRouteType identifies the transfer route of a basic fulfillment.
// The on-chain basicOrderType is orderType + 4*route.
type BasicOrderRouteType uint8

const (
	RouteEthToERC721 BasicOrderRouteType = iota
	RouteEthToERC1155
	RouteERC20ToERC721
	RouteERC20ToERC1155
	RouteERC721ToERC20
	RouteERC1155ToERC20
)
