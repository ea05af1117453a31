package seaport

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ClientConfig holds configuration for creating a Client
type ClientConfig struct {
	// RPCURL is the JSON-RPC endpoint of the target chain.
	RPCURL string

	// PrivateKey is the hex-encoded signing key. Optional; without it the
	// client can plan actions but not sign orders or submit transactions.
	PrivateKey string

	// ContractAddress overrides the marketplace contract address. The zero
	// address selects the canonical cross-chain deployment.
	ContractAddress common.Address

	// Conduits maps conduit keys to the conduit contract authorized to move
	// tokens for that key. The zero key always resolves to the marketplace
	// contract itself and needs no entry.
	Conduits map[common.Hash]common.Address

	// DefaultConduitKey is used when an operation does not specify a key.
	DefaultConduitKey common.Hash

	// AscendingAmountFulfillmentBuffer is how many seconds ahead of the
	// latest block timestamp ascending amounts are priced. Zero selects
	// DefaultAscendingAmountBuffer.
	AscendingAmountFulfillmentBuffer uint64

	// SkipCreateOrderChecks disables the offerer-side balance and approval
	// validation during CreateOrder.
	SkipCreateOrderChecks bool
}

func (c ClientConfig) contractAddress() common.Address {
	if isZeroAddress(c.ContractAddress) {
		return common.HexToAddress(CrossChainSeaportAddress)
	}
	return c.ContractAddress
}

func (c ClientConfig) ascendingAmountBuffer() uint64 {
	if c.AscendingAmountFulfillmentBuffer == 0 {
		return DefaultAscendingAmountBuffer
	}
	return c.AscendingAmountFulfillmentBuffer
}

// LoadConfig reads a ClientConfig from a config file (any format viper
// understands). Conduit map keys and values are hex strings.
func LoadConfig(path string) (*ClientConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	config := &ClientConfig{
		RPCURL:                           v.GetString("rpc_url"),
		PrivateKey:                       v.GetString("private_key"),
		ContractAddress:                  common.HexToAddress(v.GetString("contract_address")),
		DefaultConduitKey:                common.HexToHash(v.GetString("default_conduit_key")),
		AscendingAmountFulfillmentBuffer: v.GetUint64("ascending_amount_fulfillment_buffer"),
		SkipCreateOrderChecks:            v.GetBool("skip_create_order_checks"),
	}

	conduits := v.GetStringMapString("conduits")
	if len(conduits) > 0 {
		config.Conduits = make(map[common.Hash]common.Address, len(conduits))
		for key, conduit := range conduits {
			config.Conduits[common.HexToHash(key)] = common.HexToAddress(conduit)
		}
	}

	return config, nil
}
