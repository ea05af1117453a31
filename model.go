package seaport

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// OfferItem is an item the offerer is willing to give up. For criteria-based
// item types, IdentifierOrCriteria holds a Merkle root over the allowed
// identifier set (or zero, meaning any identifier is valid).
type OfferItem struct {
	ItemType             ItemType
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
}

// ConsiderationItem is an item the offerer demands in return, routed to a
// designated recipient.
type ConsiderationItem struct {
	OfferItem
	Recipient common.Address
}

// OrderParameters is the offerer-authored portion of an order.
// TotalOriginalConsiderationItems records the consideration length at creation
// time; the contract uses it to tell offerer-authored consideration apart from
// fulfiller-added tips.
type OrderParameters struct {
	Offerer                         common.Address
	Zone                            common.Address
	OrderType                       OrderType
	StartTime                       *big.Int
	EndTime                         *big.Int
	Salt                            *big.Int
	Offer                           []OfferItem
	Consideration                   []ConsiderationItem
	ZoneHash                        common.Hash
	ConduitKey                      common.Hash
	TotalOriginalConsiderationItems int
}

// OrderComponents is OrderParameters plus the offerer's counter, the exact
// struct the offerer signs over.
type OrderComponents struct {
	OrderParameters
	Counter *big.Int
}

// Order pairs parameters with a signature. The signature is the hex-encoded
// EIP-712 signature, or "0x" when the order has been validated on-chain and
// the contract will skip signature verification.
type Order struct {
	Parameters OrderParameters
	Signature  string
}

// OrderWithCounter is a fully created order ready to be fulfilled.
type OrderWithCounter struct {
	Parameters OrderComponents
	Signature  string
}

// Order returns the order view of an OrderWithCounter, dropping the counter.
func (o *OrderWithCounter) Order() Order {
	return Order{Parameters: o.Parameters.OrderParameters, Signature: o.Signature}
}

// OrderStatus is the contract's view of an order. Terminal when cancelled or
// when TotalFilled == TotalSize > 0.
type OrderStatus struct {
	IsValidated bool
	IsCancelled bool
	TotalFilled *big.Int
	TotalSize   *big.Int
}

// Fee is a basis-points cut of an order's currency value, deducted from the
// consideration and re-added as a consideration item for the fee recipient.
type Fee struct {
	Recipient   common.Address
	BasisPoints int
}

// InputCriteria resolves which concrete identifier a criteria item refers to.
// ValidIdentifiers must be the full set the criteria Merkle root was built
// over; the proof is derived from it.
type InputCriteria struct {
	Identifier       *big.Int
	ValidIdentifiers []*big.Int
}

// CriteriaResolver tells the contract which concrete identifier a criteria
// item resolves to, along with the Merkle proof against the committed root.
type CriteriaResolver struct {
	OrderIndex    int
	Side          Side
	Index         int
	Identifier    *big.Int
	CriteriaProof []common.Hash
}

// FulfillmentComponent references one item of one order inside a batch.
type FulfillmentComponent struct {
	OrderIndex int
	ItemIndex  int
}

// FulfillOrderDetails describes one order within a batch fulfillment.
type FulfillOrderDetails struct {
	Order                 *OrderWithCounter
	UnitsToFill           *big.Int
	OfferCriteria         []InputCriteria
	ConsiderationCriteria []InputCriteria
	Tips                  []ConsiderationInputItem
	ExtraData             []byte
}

// InputItemKind discriminates the closed union of caller-friendly input items.
type InputItemKind uint8

const (
	// InputItemCurrency is native currency or an ERC20 amount.
	InputItemCurrency InputItemKind = iota
	// InputItemNFT is a concrete ERC721 or ERC1155 item.
	InputItemNFT
	// InputItemNFTWithCriteria is a criteria-based ERC721 or ERC1155 item; the
	// Merkle root is derived from Identifiers.
	InputItemNFTWithCriteria
)

// CreateInputItem is a condensed input form of an offer item. Which fields are
// read depends on Kind:
//
//	InputItemCurrency:        Token (zero for native), Amount, EndAmount
//	InputItemNFT:             ItemType, Token, Identifier, Amount, EndAmount
//	InputItemNFTWithCriteria: ItemType, Token, Identifiers, Amount, EndAmount
//
// Amount defaults to 1 for NFT kinds; EndAmount defaults to Amount.
type CreateInputItem struct {
	Kind        InputItemKind
	ItemType    ItemType
	Token       common.Address
	Identifier  *big.Int
	Identifiers []*big.Int
	Amount      *big.Int
	EndAmount   *big.Int
}

// ConsiderationInputItem is a CreateInputItem plus a recipient. A zero
// recipient defaults to the offerer.
type ConsiderationInputItem struct {
	CreateInputItem
	Recipient common.Address
}

// BalanceAndApproval is a snapshot of an owner's balance and approved amount
// for one (token, identifier) pair against a resolved operator. Never cached.
type BalanceAndApproval struct {
	Token                common.Address
	IdentifierOrCriteria *big.Int
	Balance              *big.Int
	ApprovedAmount       *big.Int
	ItemType             ItemType
}

// BalancesAndApprovals is the per-item snapshot for one owner.
type BalancesAndApprovals []BalanceAndApproval

// InsufficientBalance records a balance shortfall for one (token, identifier).
type InsufficientBalance struct {
	Token                common.Address
	IdentifierOrCriteria *big.Int
	RequiredAmount       *big.Int
	AmountHave           *big.Int
	ItemType             ItemType
}

type InsufficientBalances []InsufficientBalance

// InsufficientApproval records an approval shortfall; it is remediable via an
// approval transaction against Operator rather than an error.
type InsufficientApproval struct {
	Token                  common.Address
	IdentifierOrCriteria   *big.Int
	ApprovedAmount         *big.Int
	RequiredApprovedAmount *big.Int
	Operator               common.Address
	ItemType               ItemType
}

type InsufficientApprovals []InsufficientApproval

// ActionType tags the entries of an action list.
type ActionType string

const (
	ActionTypeApproval ActionType = "approval"
	ActionTypeExchange ActionType = "exchange"
	ActionTypeCreate   ActionType = "create"
)

// Action is one step of a use case. Approval actions always precede the
// terminal create or exchange action, and each action must be confirmed before
// the next is executed.
type Action interface {
	ActionType() ActionType
}

// TransactionRequest carries fully assembled call parameters for the caller to
// submit. The SDK never submits implicitly.
type TransactionRequest struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

// ApprovalAction is a prerequisite approval transaction.
type ApprovalAction struct {
	Token                common.Address
	IdentifierOrCriteria *big.Int
	ItemType             ItemType
	Operator             common.Address
	Transaction          TransactionRequest
}

func (ApprovalAction) ActionType() ActionType { return ActionTypeApproval }

// ExchangeAction is the terminal transaction of a fulfillment, cancellation or
// validation flow.
type ExchangeAction struct {
	Transaction TransactionRequest
}

func (ExchangeAction) ActionType() ActionType { return ActionTypeExchange }

// CreateOrderAction is the terminal step of order creation: it requests a
// typed-data signature and returns the signed order.
type CreateOrderAction struct {
	GetMessageToSign func() (string, error)
	CreateOrder      func(ctx context.Context) (*OrderWithCounter, error)
}

func (CreateOrderAction) ActionType() ActionType { return ActionTypeCreate }

// CreateOrderUseCase is the ordered action list ending in a CreateOrderAction.
type CreateOrderUseCase struct {
	Actions           []Action
	ExecuteAllActions func(ctx context.Context) (*OrderWithCounter, error)
}

// FulfillOrderUseCase is the ordered action list ending in an ExchangeAction.
type FulfillOrderUseCase struct {
	Actions           []Action
	ExecuteAllActions func(ctx context.Context) (common.Hash, error)
}
