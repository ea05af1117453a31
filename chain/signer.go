package chain

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
)

// Signer produces EIP712 order signatures.
type Signer interface {
	Address() common.Address
	SignOrder(ctx context.Context, domain *EIP712Domain, components OrderComponents) (string, error)
}

// TypedDataError carries the payload of a typed-data signing request that
// failed after every signing method was exhausted.
type TypedDataError struct {
	Payload string
	Err     error
}

func (e *TypedDataError) Error() string {
	return fmt.Sprintf("typed data signing failed: %v", e.Err)
}

func (e *TypedDataError) Unwrap() error {
	return e.Err
}

// PrivateKeySigner signs locally with an ECDSA key.
type PrivateKeySigner struct {
	key *ecdsa.PrivateKey
}

// NewPrivateKeySigner creates a signer from a hex-encoded private key.
func NewPrivateKeySigner(privateKeyHex string) (*PrivateKeySigner, error) {
	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &PrivateKeySigner{key: key}, nil
}

// Address returns the signer's address
func (s *PrivateKeySigner) Address() common.Address {
	publicKey, _ := s.key.Public().(*ecdsa.PublicKey)
	return crypto.PubkeyToAddress(*publicKey)
}

// SignOrder signs the EIP712 digest of the order components.
func (s *PrivateKeySigner) SignOrder(_ context.Context, domain *EIP712Domain, components OrderComponents) (string, error) {
	digest := SignDigest(domain, components)

	signature, err := crypto.Sign(digest.Bytes(), s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign order: %w", err)
	}

	// Recovery ID to Ethereum convention
	signature[64] += 27

	return hexutil.Encode(signature), nil
}

// RPCSigner delegates signing to the connected provider. The v4 typed-data
// method is tried first, then the legacy method, before giving up with the
// provider payload attached.
type RPCSigner struct {
	client  *rpc.Client
	account common.Address
}

// NewRPCSigner creates a signer backed by a provider-managed account.
func NewRPCSigner(client *rpc.Client, account common.Address) *RPCSigner {
	return &RPCSigner{client: client, account: account}
}

// Address returns the provider account the signer signs with
func (s *RPCSigner) Address() common.Address {
	return s.account
}

// SignOrder requests a typed-data signature from the provider.
func (s *RPCSigner) SignOrder(ctx context.Context, domain *EIP712Domain, components OrderComponents) (string, error) {
	payload, err := TypedDataJSON(domain, components)
	if err != nil {
		return "", err
	}

	var signature string
	err = s.client.CallContext(ctx, &signature, "eth_signTypedData_v4", s.account, json.RawMessage(payload))
	if err != nil {
		fallbackErr := s.client.CallContext(ctx, &signature, "eth_signTypedData", s.account, json.RawMessage(payload))
		if fallbackErr != nil {
			return "", &TypedDataError{Payload: payload, Err: fallbackErr}
		}
	}

	return signature, nil
}
