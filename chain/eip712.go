package chain

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Pre-computed EIP-712 type hashes. Referenced struct types are appended to
// the composite type string in alphabetical order, as EIP-712 requires.
var (
	// EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)
	EIP712DomainTypeHash = crypto.Keccak256Hash([]byte(
		"EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)",
	))

	offerItemTypeString = "OfferItem(uint8 itemType,address token,uint256 identifierOrCriteria,uint256 startAmount,uint256 endAmount)"

	considerationItemTypeString = "ConsiderationItem(uint8 itemType,address token,uint256 identifierOrCriteria,uint256 startAmount,uint256 endAmount,address recipient)"

	orderComponentsTypeString = "OrderComponents(address offerer,address zone,OfferItem[] offer,ConsiderationItem[] consideration,uint8 orderType,uint256 startTime,uint256 endTime,bytes32 zoneHash,uint256 salt,bytes32 conduitKey,uint256 counter)"

	OfferItemTypeHash         = crypto.Keccak256Hash([]byte(offerItemTypeString))
	ConsiderationItemTypeHash = crypto.Keccak256Hash([]byte(considerationItemTypeString))
	OrderComponentsTypeHash   = crypto.Keccak256Hash([]byte(
		orderComponentsTypeString + considerationItemTypeString + offerItemTypeString,
	))
)

// EIP712Domain represents the EIP712 domain separator data
type EIP712Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// NewEIP712Domain creates an EIP712Domain for a marketplace deployment
func NewEIP712Domain(name, version string, chainID *big.Int, verifyingContract common.Address) *EIP712Domain {
	return &EIP712Domain{
		Name:              name,
		Version:           version,
		ChainID:           chainID,
		VerifyingContract: verifyingContract,
	}
}

// Separator computes the EIP712 domain separator hash
func (d *EIP712Domain) Separator() common.Hash {
	nameHash := crypto.Keccak256Hash([]byte(d.Name))
	versionHash := crypto.Keccak256Hash([]byte(d.Version))

	bytes32Type, _ := abi.NewType("bytes32", "", nil)
	uint256Type, _ := abi.NewType("uint256", "", nil)
	addressType, _ := abi.NewType("address", "", nil)

	arguments := abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: bytes32Type}, // nameHash
		{Type: bytes32Type}, // versionHash
		{Type: uint256Type}, // chainId
		{Type: addressType}, // verifyingContract
	}

	encoded, err := arguments.Pack(
		EIP712DomainTypeHash,
		nameHash,
		versionHash,
		d.ChainID,
		d.VerifyingContract,
	)
	if err != nil {
		panic("failed to encode domain separator: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

func hashOfferItem(item OfferItem) common.Hash {
	bytes32Type, _ := abi.NewType("bytes32", "", nil)
	uint8Type, _ := abi.NewType("uint8", "", nil)
	addressType, _ := abi.NewType("address", "", nil)
	uint256Type, _ := abi.NewType("uint256", "", nil)

	arguments := abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: uint8Type},   // itemType
		{Type: addressType}, // token
		{Type: uint256Type}, // identifierOrCriteria
		{Type: uint256Type}, // startAmount
		{Type: uint256Type}, // endAmount
	}

	encoded, err := arguments.Pack(
		OfferItemTypeHash,
		item.ItemType,
		item.Token,
		item.IdentifierOrCriteria,
		item.StartAmount,
		item.EndAmount,
	)
	if err != nil {
		panic("failed to encode offer item: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

func hashConsiderationItem(item ConsiderationItem) common.Hash {
	bytes32Type, _ := abi.NewType("bytes32", "", nil)
	uint8Type, _ := abi.NewType("uint8", "", nil)
	addressType, _ := abi.NewType("address", "", nil)
	uint256Type, _ := abi.NewType("uint256", "", nil)

	arguments := abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: uint8Type},   // itemType
		{Type: addressType}, // token
		{Type: uint256Type}, // identifierOrCriteria
		{Type: uint256Type}, // startAmount
		{Type: uint256Type}, // endAmount
		{Type: addressType}, // recipient
	}

	encoded, err := arguments.Pack(
		ConsiderationItemTypeHash,
		item.ItemType,
		item.Token,
		item.IdentifierOrCriteria,
		item.StartAmount,
		item.EndAmount,
		item.Recipient,
	)
	if err != nil {
		panic("failed to encode consideration item: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// OrderComponentsHash computes the EIP712 struct hash of the signed-over order
// components. This is also the contract's order hash, so order status can be
// looked up without an extra RPC round trip.
func OrderComponentsHash(components OrderComponents) common.Hash {
	var offerHashes []byte
	for _, item := range components.Offer {
		offerHashes = append(offerHashes, hashOfferItem(item).Bytes()...)
	}
	offerHash := crypto.Keccak256Hash(offerHashes)

	var considerationHashes []byte
	for _, item := range components.Consideration {
		considerationHashes = append(considerationHashes, hashConsiderationItem(item).Bytes()...)
	}
	considerationHash := crypto.Keccak256Hash(considerationHashes)

	bytes32Type, _ := abi.NewType("bytes32", "", nil)
	addressType, _ := abi.NewType("address", "", nil)
	uint8Type, _ := abi.NewType("uint8", "", nil)
	uint256Type, _ := abi.NewType("uint256", "", nil)

	arguments := abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: addressType}, // offerer
		{Type: addressType}, // zone
		{Type: bytes32Type}, // offerHash
		{Type: bytes32Type}, // considerationHash
		{Type: uint8Type},   // orderType
		{Type: uint256Type}, // startTime
		{Type: uint256Type}, // endTime
		{Type: bytes32Type}, // zoneHash
		{Type: uint256Type}, // salt
		{Type: bytes32Type}, // conduitKey
		{Type: uint256Type}, // counter
	}

	encoded, err := arguments.Pack(
		OrderComponentsTypeHash,
		components.Offerer,
		components.Zone,
		offerHash,
		considerationHash,
		components.OrderType,
		components.StartTime,
		components.EndTime,
		components.ZoneHash,
		components.Salt,
		components.ConduitKey,
		components.Counter,
	)
	if err != nil {
		panic("failed to encode order components: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// SignDigest computes the final EIP712 digest to be signed:
// keccak256("\x19\x01" ++ domainSeparator ++ structHash)
func SignDigest(domain *EIP712Domain, components OrderComponents) common.Hash {
	domainSeparator := domain.Separator()
	structHash := OrderComponentsHash(components)

	data := make([]byte, 0, 2+32+32)
	data = append(data, 0x19, 0x01)
	data = append(data, domainSeparator.Bytes()...)
	data = append(data, structHash.Bytes()...)

	return crypto.Keccak256Hash(data)
}

// TypedDataJSON renders the order components as an eth_signTypedData payload.
func TypedDataJSON(domain *EIP712Domain, components OrderComponents) (string, error) {
	offer := make([]interface{}, len(components.Offer))
	for i, item := range components.Offer {
		offer[i] = map[string]interface{}{
			"itemType":             fmt.Sprintf("%d", item.ItemType),
			"token":                item.Token.Hex(),
			"identifierOrCriteria": item.IdentifierOrCriteria.String(),
			"startAmount":          item.StartAmount.String(),
			"endAmount":            item.EndAmount.String(),
		}
	}

	consideration := make([]interface{}, len(components.Consideration))
	for i, item := range components.Consideration {
		consideration[i] = map[string]interface{}{
			"itemType":             fmt.Sprintf("%d", item.ItemType),
			"token":                item.Token.Hex(),
			"identifierOrCriteria": item.IdentifierOrCriteria.String(),
			"startAmount":          item.StartAmount.String(),
			"endAmount":            item.EndAmount.String(),
			"recipient":            item.Recipient.Hex(),
		}
	}

	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"OrderComponents": []apitypes.Type{
				{Name: "offerer", Type: "address"},
				{Name: "zone", Type: "address"},
				{Name: "offer", Type: "OfferItem[]"},
				{Name: "consideration", Type: "ConsiderationItem[]"},
				{Name: "orderType", Type: "uint8"},
				{Name: "startTime", Type: "uint256"},
				{Name: "endTime", Type: "uint256"},
				{Name: "zoneHash", Type: "bytes32"},
				{Name: "salt", Type: "uint256"},
				{Name: "conduitKey", Type: "bytes32"},
				{Name: "counter", Type: "uint256"},
			},
			"OfferItem": []apitypes.Type{
				{Name: "itemType", Type: "uint8"},
				{Name: "token", Type: "address"},
				{Name: "identifierOrCriteria", Type: "uint256"},
				{Name: "startAmount", Type: "uint256"},
				{Name: "endAmount", Type: "uint256"},
			},
			"ConsiderationItem": []apitypes.Type{
				{Name: "itemType", Type: "uint8"},
				{Name: "token", Type: "address"},
				{Name: "identifierOrCriteria", Type: "uint256"},
				{Name: "startAmount", Type: "uint256"},
				{Name: "endAmount", Type: "uint256"},
				{Name: "recipient", Type: "address"},
			},
		},
		PrimaryType: "OrderComponents",
		Domain: apitypes.TypedDataDomain{
			Name:              domain.Name,
			Version:           domain.Version,
			ChainId:           (*math.HexOrDecimal256)(domain.ChainID),
			VerifyingContract: domain.VerifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"offerer":       components.Offerer.Hex(),
			"zone":          components.Zone.Hex(),
			"offer":         offer,
			"consideration": consideration,
			"orderType":     fmt.Sprintf("%d", components.OrderType),
			"startTime":     components.StartTime.String(),
			"endTime":       components.EndTime.String(),
			"zoneHash":      hexutil.Encode(components.ZoneHash[:]),
			"salt":          components.Salt.String(),
			"conduitKey":    hexutil.Encode(components.ConduitKey[:]),
			"counter":       components.Counter.String(),
		},
	}

	payload, err := json.Marshal(typedData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal typed data: %w", err)
	}
	return string(payload), nil
}
