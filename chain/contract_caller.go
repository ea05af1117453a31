package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ContractCaller handles blockchain contract interactions: token and
// marketplace reads plus transaction assembly and submission. The private key
// is optional; read-only callers pass an empty string and submission fails.
type ContractCaller struct {
	client      *ethclient.Client
	seaportAddr common.Address
	privateKey  *ecdsa.PrivateKey
}

// NewContractCaller creates a new ContractCaller instance
func NewContractCaller(rpcURL string, seaportAddr common.Address, privateKeyHex string) (*ContractCaller, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	var privateKey *ecdsa.PrivateKey
	if privateKeyHex != "" {
		privateKey, err = crypto.HexToECDSA(privateKeyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
	}

	return &ContractCaller{
		client:      client,
		seaportAddr: seaportAddr,
		privateKey:  privateKey,
	}, nil
}

// SeaportAddress returns the marketplace contract address
func (cc *ContractCaller) SeaportAddress() common.Address {
	return cc.seaportAddr
}

// SignerAddress returns the address of the signer, or the zero address when
// no private key was configured.
func (cc *ContractCaller) SignerAddress() common.Address {
	if cc.privateKey == nil {
		return common.Address{}
	}
	publicKey, _ := cc.privateKey.Public().(*ecdsa.PublicKey)
	return crypto.PubkeyToAddress(*publicKey)
}

// ChainID returns the connected chain's id
func (cc *ContractCaller) ChainID(ctx context.Context) (*big.Int, error) {
	chainID, err := cc.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID, nil
}

// BlockTimestamp returns the latest block's timestamp
func (cc *ContractCaller) BlockTimestamp(ctx context.Context) (uint64, error) {
	header, err := cc.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest header: %w", err)
	}
	return header.Time, nil
}

// call packs a method call, executes it and unpacks the result into out.
func (cc *ContractCaller) call(ctx context.Context, contract common.Address, contractABI abi.ABI, method string, out interface{}, args ...interface{}) error {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", method, err)
	}

	result, err := cc.client.CallContract(ctx, ethereum.CallMsg{
		To:   &contract,
		Data: data,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}

	if err := contractABI.UnpackIntoInterface(out, method, result); err != nil {
		return fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	return nil
}

// NativeBalance returns the owner's native currency balance
func (cc *ContractCaller) NativeBalance(ctx context.Context, owner common.Address) (*big.Int, error) {
	balance, err := cc.client.BalanceAt(ctx, owner, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// ERC20Balance returns the ERC20 balance for an account
func (cc *ContractCaller) ERC20Balance(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	var balance *big.Int
	if err := cc.call(ctx, token, GetERC20ABI(), "balanceOf", &balance, owner); err != nil {
		return nil, err
	}
	return balance, nil
}

// ERC20Allowance returns the ERC20 allowance for owner to spender
func (cc *ContractCaller) ERC20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	var allowance *big.Int
	if err := cc.call(ctx, token, GetERC20ABI(), "allowance", &allowance, owner, spender); err != nil {
		return nil, err
	}
	return allowance, nil
}

// ERC721Owner returns the current owner of a token identifier
func (cc *ContractCaller) ERC721Owner(ctx context.Context, token common.Address, identifier *big.Int) (common.Address, error) {
	var owner common.Address
	if err := cc.call(ctx, token, GetERC721ABI(), "ownerOf", &owner, identifier); err != nil {
		return common.Address{}, err
	}
	return owner, nil
}

// ERC721Balance returns how many tokens of a collection an account holds
func (cc *ContractCaller) ERC721Balance(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	var balance *big.Int
	if err := cc.call(ctx, token, GetERC721ABI(), "balanceOf", &balance, owner); err != nil {
		return nil, err
	}
	return balance, nil
}

// ERC1155Balance returns an account's balance of one token identifier
func (cc *ContractCaller) ERC1155Balance(ctx context.Context, token, owner common.Address, identifier *big.Int) (*big.Int, error) {
	var balance *big.Int
	if err := cc.call(ctx, token, GetERC1155ABI(), "balanceOf", &balance, owner, identifier); err != nil {
		return nil, err
	}
	return balance, nil
}

// IsApprovedForAll checks whether an operator holds blanket approval over an
// owner's tokens. The call shape is identical for ERC721 and ERC1155.
func (cc *ContractCaller) IsApprovedForAll(ctx context.Context, token, owner, operator common.Address) (bool, error) {
	var approved bool
	if err := cc.call(ctx, token, GetERC721ABI(), "isApprovedForAll", &approved, owner, operator); err != nil {
		return false, err
	}
	return approved, nil
}

// GetCounter returns the offerer's current counter on the marketplace contract
func (cc *ContractCaller) GetCounter(ctx context.Context, offerer common.Address) (*big.Int, error) {
	var counter *big.Int
	if err := cc.call(ctx, cc.seaportAddr, GetSeaportABI(), "getCounter", &counter, offerer); err != nil {
		return nil, err
	}
	return counter, nil
}

// GetOrderStatus returns the contract's view of an order by its hash
func (cc *ContractCaller) GetOrderStatus(ctx context.Context, orderHash common.Hash) (isValidated, isCancelled bool, totalFilled, totalSize *big.Int, err error) {
	var status struct {
		IsValidated bool
		IsCancelled bool
		TotalFilled *big.Int
		TotalSize   *big.Int
	}
	if err := cc.call(ctx, cc.seaportAddr, GetSeaportABI(), "getOrderStatus", &status, orderHash); err != nil {
		return false, false, nil, nil, err
	}
	return status.IsValidated, status.IsCancelled, status.TotalFilled, status.TotalSize, nil
}

// CheckGasBalance checks if the signer has enough gas tokens
func (cc *ContractCaller) CheckGasBalance(ctx context.Context, estimatedGas uint64) error {
	signerAddr := cc.SignerAddress()
	balance, err := cc.client.BalanceAt(ctx, signerAddr, nil)
	if err != nil {
		return fmt.Errorf("failed to get balance: %w", err)
	}

	gasPrice, err := cc.client.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("failed to get gas price: %w", err)
	}

	// Add 20% safety margin
	estimatedGasWithMargin := new(big.Int).Mul(new(big.Int).SetUint64(estimatedGas), big.NewInt(120))
	estimatedGasWithMargin.Div(estimatedGasWithMargin, big.NewInt(100))

	requiredEth := new(big.Int).Mul(estimatedGasWithMargin, gasPrice)

	if balance.Cmp(requiredEth) < 0 {
		return fmt.Errorf("insufficient gas balance: signer %s has %s wei, but needs approximately %s wei for gas",
			signerAddr.Hex(),
			balance.String(),
			requiredEth.String(),
		)
	}

	return nil
}

// SubmitTransaction signs and broadcasts a transaction built from an action's
// call parameters. A private key must have been configured.
func (cc *ContractCaller) SubmitTransaction(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	if cc.privateKey == nil {
		return common.Hash{}, fmt.Errorf("no private key configured for transaction submission")
	}
	if value == nil {
		value = big.NewInt(0)
	}

	signerAddr := cc.SignerAddress()

	gasLimit, err := cc.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  signerAddr,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to estimate gas: %w", err)
	}

	if err := cc.CheckGasBalance(ctx, gasLimit); err != nil {
		return common.Hash{}, err
	}

	chainID, err := cc.client.ChainID(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get chain ID: %w", err)
	}

	nonce, err := cc.client.PendingNonceAt(ctx, signerAddr)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := cc.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get gas price: %w", err)
	}

	tx := types.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(chainID), cc.privateKey)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := cc.client.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	return signedTx.Hash(), nil
}

// WaitForReceipt waits for a transaction receipt and checks its status
func (cc *ContractCaller) WaitForReceipt(ctx context.Context, txHash common.Hash) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()

	for {
		receipt, err := cc.client.TransactionReceipt(timeoutCtx, txHash)
		if err == nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return fmt.Errorf("transaction failed: tx hash %s", txHash.Hex())
			}
			return nil
		}

		select {
		case <-timeoutCtx.Done():
			return fmt.Errorf("timeout waiting for transaction receipt: %s", txHash.Hex())
		default:
			time.Sleep(2 * time.Second)
		}
	}
}

// Close closes the Ethereum client connection
func (cc *ContractCaller) Close() {
	if cc.client != nil {
		cc.client.Close()
	}
}
