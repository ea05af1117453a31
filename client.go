package seaport

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/kaifufi/seaport-sdk-go/chain"
)

// ChainClient is the view of the chain layer the client needs. Implemented by
// chain.ContractCaller; tests substitute an in-memory fake.
type ChainClient interface {
	BalanceReader

	GetCounter(ctx context.Context, offerer common.Address) (*big.Int, error)
	GetOrderStatus(ctx context.Context, orderHash common.Hash) (isValidated, isCancelled bool, totalFilled, totalSize *big.Int, err error)
	BlockTimestamp(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	SubmitTransaction(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error)
	WaitForReceipt(ctx context.Context, txHash common.Hash) error
}

// Client is the main SDK client
type Client struct {
	chainClient     ChainClient
	signer          chain.Signer
	config          ClientConfig
	contractAddress common.Address
	log             *logrus.Entry

	mu      sync.Mutex
	chainID *big.Int
}

// NewClient creates a new marketplace SDK client connected over RPC.
func NewClient(config ClientConfig) (*Client, error) {
	caller, err := chain.NewContractCaller(config.RPCURL, config.contractAddress(), config.PrivateKey)
	if err != nil {
		return nil, errors.Wrap(err, "creating contract caller")
	}

	var signer chain.Signer
	if config.PrivateKey != "" {
		signer, err = chain.NewPrivateKeySigner(config.PrivateKey)
		if err != nil {
			return nil, errors.Wrap(err, "creating signer")
		}
	}

	return newClient(config, caller, signer), nil
}

// NewClientWithBackend creates a client over an existing chain backend and
// signer. Used for provider-managed accounts and in tests.
func NewClientWithBackend(config ClientConfig, chainClient ChainClient, signer chain.Signer) *Client {
	return newClient(config, chainClient, signer)
}

func newClient(config ClientConfig, chainClient ChainClient, signer chain.Signer) *Client {
	return &Client{
		chainClient:     chainClient,
		signer:          signer,
		config:          config,
		contractAddress: config.contractAddress(),
		log:             logrus.WithField("component", "seaport-client"),
	}
}

// Close releases the underlying chain connection when one exists.
func (c *Client) Close() {
	if caller, ok := c.chainClient.(*chain.ContractCaller); ok {
		caller.Close()
	}
}

func (c *Client) domain(ctx context.Context) (*chain.EIP712Domain, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chainID == nil {
		chainID, err := c.chainClient.ChainID(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "resolving chain id")
		}
		c.chainID = chainID
	}
	return chain.NewEIP712Domain(ContractName, ContractVersion, c.chainID, c.contractAddress), nil
}

// resolveOperator maps a conduit key to the address that will move tokens on
// a participant's behalf: the marketplace contract for the zero key, or the
// configured conduit otherwise.
func (c *Client) resolveOperator(conduitKey common.Hash) (common.Address, error) {
	if conduitKey == NoConduitKey {
		return c.contractAddress, nil
	}
	if conduit, ok := c.config.Conduits[conduitKey]; ok {
		return conduit, nil
	}
	return common.Address{}, ErrUnknownConduitKey
}

func (c *Client) conduitKeyOrDefault(conduitKey *common.Hash) common.Hash {
	if conduitKey != nil {
		return *conduitKey
	}
	return c.config.DefaultConduitKey
}

func (c *Client) accountOrSigner(account common.Address) common.Address {
	if !isZeroAddress(account) || c.signer == nil {
		return account
	}
	return c.signer.Address()
}

// GetOrderHash derives the contract's order hash purely client-side.
func (c *Client) GetOrderHash(components OrderComponents) common.Hash {
	return chain.OrderComponentsHash(toChainOrderComponents(components))
}

// GetCounter returns the offerer's current counter.
func (c *Client) GetCounter(ctx context.Context, offerer common.Address) (*big.Int, error) {
	return c.chainClient.GetCounter(ctx, offerer)
}

// GetOrderStatus returns the contract's view of an order.
func (c *Client) GetOrderStatus(ctx context.Context, orderHash common.Hash) (OrderStatus, error) {
	isValidated, isCancelled, totalFilled, totalSize, err := c.chainClient.GetOrderStatus(ctx, orderHash)
	if err != nil {
		return OrderStatus{}, errors.Wrap(err, "fetching order status")
	}
	return OrderStatus{
		IsValidated: isValidated,
		IsCancelled: isCancelled,
		TotalFilled: totalFilled,
		TotalSize:   totalSize,
	}, nil
}

// GetMaximumSizeForOrder returns the number of units an order divides into.
func (c *Client) GetMaximumSizeForOrder(order *OrderWithCounter) *big.Int {
	o := order.Order()
	return MaximumSizeForOrder(&o)
}

// SignOrder signs the order components with the configured signer.
func (c *Client) SignOrder(ctx context.Context, components OrderComponents) (string, error) {
	if c.signer == nil {
		return "", errors.New("no signer configured")
	}
	domain, err := c.domain(ctx)
	if err != nil {
		return "", err
	}
	signature, err := c.signer.SignOrder(ctx, domain, toChainOrderComponents(components))
	if err != nil {
		var typedDataErr *chain.TypedDataError
		if errors.As(err, &typedDataErr) {
			return "", &SignatureError{Payload: typedDataErr.Payload, Err: typedDataErr.Err}
		}
		return "", &SignatureError{Payload: err.Error(), Err: err}
	}
	return signature, nil
}

// CreateOrderInput collects the caller-friendly inputs of an order creation.
type CreateOrderInput struct {
	Offer         []CreateInputItem
	Consideration []ConsiderationInputItem

	// Offerer defaults to the signer's address.
	Offerer common.Address
	Zone    common.Address

	// StartTime defaults to the current time, EndTime to "never expires".
	StartTime *big.Int
	EndTime   *big.Int

	// Counter is fetched from the contract when nil.
	Counter *big.Int

	// Salt is drawn fresh from crypto/rand when nil.
	Salt *big.Int

	ZoneHash   common.Hash
	ConduitKey *common.Hash

	Fees []Fee

	AllowPartialFills bool
	RestrictedByZone  bool
}

// CreateOrder assembles an order from input items, validates the offerer can
// cover it, and returns the approval actions plus a terminal create action
// that requests the signature.
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderUseCase, error) {
	offerer := c.accountOrSigner(input.Offerer)
	conduitKey := c.conduitKeyOrDefault(input.ConduitKey)

	operator, err := c.resolveOperator(conduitKey)
	if err != nil {
		return nil, err
	}

	offer := make([]OfferItem, len(input.Offer))
	for i, item := range input.Offer {
		offer[i] = mapInputItemToOfferItem(item)
	}
	consideration := make([]ConsiderationItem, len(input.Consideration))
	for i, item := range input.Consideration {
		consideration[i] = mapConsiderationInputItem(item, offerer)
	}

	if !areAllCurrenciesSame(offer, consideration) {
		return nil, ErrMixedCurrencies
	}

	currencies := make([]ConsiderationItem, 0, len(consideration))
	for _, item := range consideration {
		if IsCurrencyItem(item.ItemType) {
			currencies = append(currencies, item)
		}
	}

	considerationWithFees := deductFees(consideration, input.Fees)
	if len(input.Fees) > 0 && len(currencies) > 0 {
		totalStart, totalEnd := totalItemsAmount(currencies)
		for _, fee := range input.Fees {
			considerationWithFees = append(considerationWithFees,
				feeToConsiderationItem(fee, currencies[0].Token, totalStart, totalEnd))
		}
	}

	startTime := input.StartTime
	if startTime == nil {
		startTime = big.NewInt(time.Now().Unix())
	}
	endTime := input.EndTime
	if endTime == nil {
		endTime = copyBig(MaxUint256)
	}

	salt := input.Salt
	if salt == nil {
		salt = GenerateRandomSalt()
	}

	parameters := OrderParameters{
		Offerer:                         offerer,
		Zone:                            input.Zone,
		OrderType:                       orderTypeFromOptions(input.AllowPartialFills, input.RestrictedByZone),
		StartTime:                       startTime,
		EndTime:                         endTime,
		Salt:                            salt,
		Offer:                           offer,
		Consideration:                   considerationWithFees,
		ZoneHash:                        input.ZoneHash,
		ConduitKey:                      conduitKey,
		TotalOriginalConsiderationItems: len(considerationWithFees),
	}

	var approvalActions []ApprovalAction
	if !c.config.SkipCreateOrderChecks {
		balancesAndApprovals, err := GetBalancesAndApprovals(ctx, c.chainClient, offerer, offer, nil, operator)
		if err != nil {
			return nil, err
		}
		insufficientApprovals, err := validateOfferBalancesAndApprovals(offerValidationParams{
			Offer:                       offer,
			BalancesAndApprovals:        balancesAndApprovals,
			Operator:                    operator,
			Offerer:                     offerer,
			ThrowOnInsufficientBalances: true,
		})
		if err != nil {
			return nil, err
		}
		approvalActions, err = getApprovalActions(insufficientApprovals)
		if err != nil {
			return nil, err
		}
	}

	counter := input.Counter
	if counter == nil {
		counter, err = c.chainClient.GetCounter(ctx, offerer)
		if err != nil {
			return nil, errors.Wrap(err, "fetching counter")
		}
	}

	components := OrderComponents{OrderParameters: parameters, Counter: counter}

	c.log.WithFields(logrus.Fields{
		"offerer":   offerer.Hex(),
		"approvals": len(approvalActions),
	}).Debug("planned order creation")

	createAction := CreateOrderAction{
		GetMessageToSign: func() (string, error) {
			domain, err := c.domain(ctx)
			if err != nil {
				return "", err
			}
			return chain.TypedDataJSON(domain, toChainOrderComponents(components))
		},
		CreateOrder: func(ctx context.Context) (*OrderWithCounter, error) {
			signature, err := c.SignOrder(ctx, components)
			if err != nil {
				return nil, err
			}
			return &OrderWithCounter{Parameters: components, Signature: signature}, nil
		},
	}

	actions := make([]Action, 0, len(approvalActions)+1)
	for _, approval := range approvalActions {
		actions = append(actions, approval)
	}
	actions = append(actions, createAction)

	return &CreateOrderUseCase{
		Actions: actions,
		ExecuteAllActions: func(ctx context.Context) (*OrderWithCounter, error) {
			for _, approval := range approvalActions {
				if err := c.executeTransaction(ctx, approval.Transaction); err != nil {
					return nil, err
				}
			}
			return createAction.CreateOrder(ctx)
		},
	}, nil
}

// FulfillOrderInput collects the caller-friendly inputs of a fulfillment.
type FulfillOrderInput struct {
	Order *OrderWithCounter

	// UnitsToFill requests a partial fill; nil fills whatever remains.
	UnitsToFill *big.Int

	OfferCriteria         []InputCriteria
	ConsiderationCriteria []InputCriteria

	// Tips are extra consideration items added by the fulfiller; zero tip
	// recipients default to the fulfiller.
	Tips []ConsiderationInputItem

	ExtraData []byte

	// AccountAddress overrides the fulfiller; defaults to the signer.
	AccountAddress common.Address

	ConduitKey *common.Hash

	// Recipient receives the offered items; the zero address means the
	// fulfiller itself.
	Recipient common.Address
}

// FulfillOrder plans the fulfillment of a single order: it checks order
// status, reconciles both sides' balances and approvals, picks the basic or
// advanced route and returns approval actions plus one exchange action.
func (c *Client) FulfillOrder(ctx context.Context, input FulfillOrderInput) (*FulfillOrderUseCase, error) {
	fulfiller := c.accountOrSigner(input.AccountAddress)
	conduitKey := c.conduitKeyOrDefault(input.ConduitKey)

	fulfillerOperator, err := c.resolveOperator(conduitKey)
	if err != nil {
		return nil, err
	}
	offererOperator, err := c.resolveOperator(input.Order.Parameters.ConduitKey)
	if err != nil {
		return nil, err
	}

	orderHash := c.GetOrderHash(input.Order.Parameters)
	status, err := c.GetOrderStatus(ctx, orderHash)
	if err != nil {
		return nil, err
	}

	sanitized, err := ValidateAndSanitizeFromOrderStatus(input.Order.Order(), status)
	if err != nil {
		return nil, err
	}
	params := sanitized.Parameters

	timestamp, err := c.chainClient.BlockTimestamp(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching block timestamp")
	}
	timeParams := &TimeBasedItemParams{
		CurrentBlockTimestamp:          timestamp,
		AscendingAmountTimestampBuffer: c.config.ascendingAmountBuffer(),
		StartTime:                      params.StartTime,
		EndTime:                        params.EndTime,
	}

	tips := make([]ConsiderationItem, len(input.Tips))
	for i, tip := range input.Tips {
		tips[i] = mapConsiderationInputItem(tip, fulfiller)
	}

	offererBalances, err := GetBalancesAndApprovals(ctx, c.chainClient, params.Offerer, params.Offer, input.OfferCriteria, offererOperator)
	if err != nil {
		return nil, err
	}

	fulfillerItems := allOrderItems(params)
	for _, tip := range tips {
		fulfillerItems = append(fulfillerItems, tip.OfferItem)
	}
	fulfillerCriteria := append(append([]InputCriteria{}, input.OfferCriteria...), input.ConsiderationCriteria...)
	fulfillerBalances, err := GetBalancesAndApprovals(ctx, c.chainClient, fulfiller, fulfillerItems, fulfillerCriteria, fulfillerOperator)
	if err != nil {
		return nil, err
	}

	recipientIsFulfiller := isZeroAddress(input.Recipient) || input.Recipient == fulfiller

	var actions []Action
	if input.UnitsToFill == nil && len(input.ExtraData) == 0 && recipientIsFulfiller &&
		ShouldUseBasicFulfill(params, status.TotalFilled) {
		c.log.WithField("orderHash", orderHash.Hex()).Debug("using basic fulfillment")
		actions, err = fulfillBasicOrder(fulfillBasicOrderParams{
			Order:                         sanitized,
			SeaportAddress:                c.contractAddress,
			OffererBalancesAndApprovals:   offererBalances,
			FulfillerBalancesAndApprovals: fulfillerBalances,
			TimeBasedItemParams:           timeParams,
			Fulfiller:                     fulfiller,
			OffererOperator:               offererOperator,
			FulfillerOperator:             fulfillerOperator,
			ConduitKey:                    conduitKey,
			Tips:                          tips,
		})
	} else {
		c.log.WithField("orderHash", orderHash.Hex()).Debug("using standard fulfillment")
		actions, err = fulfillStandardOrder(fulfillStandardOrderParams{
			Order:                         sanitized,
			UnitsToFill:                   input.UnitsToFill,
			TotalFilled:                   status.TotalFilled,
			TotalSize:                     status.TotalSize,
			OfferCriteria:                 input.OfferCriteria,
			ConsiderationCriteria:         input.ConsiderationCriteria,
			Tips:                          tips,
			ExtraData:                     input.ExtraData,
			SeaportAddress:                c.contractAddress,
			OffererBalancesAndApprovals:   offererBalances,
			FulfillerBalancesAndApprovals: fulfillerBalances,
			TimeBasedItemParams:           timeParams,
			Fulfiller:                     fulfiller,
			OffererOperator:               offererOperator,
			FulfillerOperator:             fulfillerOperator,
			ConduitKey:                    conduitKey,
			Recipient:                     input.Recipient,
		})
	}
	if err != nil {
		return nil, err
	}

	return c.fulfillUseCase(actions), nil
}

// FulfillOrdersInput collects the inputs of a batch fulfillment.
type FulfillOrdersInput struct {
	Orders         []FulfillOrderDetails
	AccountAddress common.Address
	ConduitKey     *common.Hash
	Recipient      common.Address
}

// FulfillOrders plans a batch fulfillment over the available-orders entry
// point, aggregating matching fungible transfers across orders.
func (c *Client) FulfillOrders(ctx context.Context, input FulfillOrdersInput) (*FulfillOrderUseCase, error) {
	fulfiller := c.accountOrSigner(input.AccountAddress)
	conduitKey := c.conduitKeyOrDefault(input.ConduitKey)

	fulfillerOperator, err := c.resolveOperator(conduitKey)
	if err != nil {
		return nil, err
	}

	timestamp, err := c.chainClient.BlockTimestamp(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching block timestamp")
	}

	prepared := make([]preparedOrder, len(input.Orders))
	offererSnapshots := make([]BalancesAndApprovals, len(input.Orders))
	timeParamsPerOrder := make([]*TimeBasedItemParams, len(input.Orders))
	var fulfillerItems []OfferItem
	var fulfillerCriteria []InputCriteria

	for i, details := range input.Orders {
		offererOperator, err := c.resolveOperator(details.Order.Parameters.ConduitKey)
		if err != nil {
			return nil, err
		}

		orderHash := c.GetOrderHash(details.Order.Parameters)
		status, err := c.GetOrderStatus(ctx, orderHash)
		if err != nil {
			return nil, err
		}

		sanitized, err := ValidateAndSanitizeFromOrderStatus(details.Order.Order(), status)
		if err != nil {
			return nil, err
		}

		numerator := big.NewInt(1)
		denominator := big.NewInt(1)
		if details.UnitsToFill != nil {
			numerator, denominator, err = GetAdvancedOrderNumeratorDenominator(&sanitized, details.UnitsToFill)
			if err != nil {
				return nil, err
			}
			sanitized, err = MapOrderAmountsFromUnitsToFill(sanitized, details.UnitsToFill, status.TotalFilled, status.TotalSize)
			if err != nil {
				return nil, err
			}
		} else {
			sanitized = MapOrderAmountsFromFilledStatus(sanitized, status.TotalFilled, status.TotalSize)
		}

		tips := make([]ConsiderationItem, len(details.Tips))
		for j, tip := range details.Tips {
			tips[j] = mapConsiderationInputItem(tip, fulfiller)
		}
		totalOriginal := len(sanitized.Parameters.Consideration)
		sanitized.Parameters.Consideration = append(
			append([]ConsiderationItem{}, sanitized.Parameters.Consideration...), tips...)
		sanitized.Parameters.TotalOriginalConsiderationItems = totalOriginal

		offererSnapshots[i], err = GetBalancesAndApprovals(ctx, c.chainClient,
			sanitized.Parameters.Offerer, sanitized.Parameters.Offer, details.OfferCriteria, offererOperator)
		if err != nil {
			return nil, err
		}

		timeParamsPerOrder[i] = &TimeBasedItemParams{
			CurrentBlockTimestamp:          timestamp,
			AscendingAmountTimestampBuffer: c.config.ascendingAmountBuffer(),
			StartTime:                      sanitized.Parameters.StartTime,
			EndTime:                        sanitized.Parameters.EndTime,
		}

		fulfillerItems = append(fulfillerItems, allOrderItems(sanitized.Parameters)...)
		fulfillerCriteria = append(fulfillerCriteria, details.OfferCriteria...)
		fulfillerCriteria = append(fulfillerCriteria, details.ConsiderationCriteria...)

		prepared[i] = preparedOrder{
			Order:                 sanitized,
			Numerator:             numerator,
			Denominator:           denominator,
			OfferCriteria:         details.OfferCriteria,
			ConsiderationCriteria: details.ConsiderationCriteria,
			ExtraData:             details.ExtraData,
			OffererOperator:       offererOperator,
		}
	}

	fulfillerBalances, err := GetBalancesAndApprovals(ctx, c.chainClient, fulfiller, fulfillerItems, fulfillerCriteria, fulfillerOperator)
	if err != nil {
		return nil, err
	}

	actions, err := fulfillAvailableOrders(fulfillAvailableOrdersParams{
		Orders:                        prepared,
		SeaportAddress:                c.contractAddress,
		FulfillerBalancesAndApprovals: fulfillerBalances,
		OffererSnapshots:              offererSnapshots,
		TimeBasedItemParamsPerOrder:   timeParamsPerOrder,
		Fulfiller:                     fulfiller,
		FulfillerOperator:             fulfillerOperator,
		ConduitKey:                    conduitKey,
		Recipient:                     input.Recipient,
	})
	if err != nil {
		return nil, err
	}

	c.log.WithField("orders", len(prepared)).Debug("planned batch fulfillment")

	return c.fulfillUseCase(actions), nil
}

// CancelOrders builds the exchange action cancelling the given orders.
func (c *Client) CancelOrders(orders []OrderComponents) (*ExchangeAction, error) {
	chainOrders := make([]chain.OrderComponents, len(orders))
	for i, order := range orders {
		chainOrders[i] = toChainOrderComponents(order)
	}

	data, err := chain.GetSeaportABI().Pack("cancel", chainOrders)
	if err != nil {
		return nil, errors.Wrap(err, "packing cancel calldata")
	}

	return &ExchangeAction{Transaction: TransactionRequest{
		To:    c.contractAddress,
		Value: new(big.Int),
		Data:  data,
	}}, nil
}

// BulkCancelOrders builds the exchange action bumping the signer's counter,
// invalidating every order signed against the old counter.
func (c *Client) BulkCancelOrders() (*ExchangeAction, error) {
	data, err := chain.GetSeaportABI().Pack("incrementCounter")
	if err != nil {
		return nil, errors.Wrap(err, "packing incrementCounter calldata")
	}

	return &ExchangeAction{Transaction: TransactionRequest{
		To:    c.contractAddress,
		Value: new(big.Int),
		Data:  data,
	}}, nil
}

// Validate builds the exchange action registering the orders' signatures
// on-chain so later fulfillments can omit them.
func (c *Client) Validate(orders []Order) (*ExchangeAction, error) {
	chainOrders := make([]chain.Order, len(orders))
	for i, order := range orders {
		chainOrders[i] = toChainOrder(order)
	}

	data, err := chain.GetSeaportABI().Pack("validate", chainOrders)
	if err != nil {
		return nil, errors.Wrap(err, "packing validate calldata")
	}

	return &ExchangeAction{Transaction: TransactionRequest{
		To:    c.contractAddress,
		Value: new(big.Int),
		Data:  data,
	}}, nil
}

// ApproveOrders is an alias for Validate matching marketplace terminology.
func (c *Client) ApproveOrders(orders []Order) (*ExchangeAction, error) {
	return c.Validate(orders)
}

// Submit signs and broadcasts an action's transaction.
func (c *Client) Submit(ctx context.Context, tx TransactionRequest) (common.Hash, error) {
	return c.chainClient.SubmitTransaction(ctx, tx.To, tx.Value, tx.Data)
}

func (c *Client) executeTransaction(ctx context.Context, tx TransactionRequest) error {
	txHash, err := c.chainClient.SubmitTransaction(ctx, tx.To, tx.Value, tx.Data)
	if err != nil {
		return err
	}
	return c.chainClient.WaitForReceipt(ctx, txHash)
}

func (c *Client) fulfillUseCase(actions []Action) *FulfillOrderUseCase {
	return &FulfillOrderUseCase{
		Actions: actions,
		ExecuteAllActions: func(ctx context.Context) (common.Hash, error) {
			var exchangeHash common.Hash
			for _, action := range actions {
				switch a := action.(type) {
				case ApprovalAction:
					if err := c.executeTransaction(ctx, a.Transaction); err != nil {
						return common.Hash{}, err
					}
				case ExchangeAction:
					txHash, err := c.chainClient.SubmitTransaction(ctx, a.Transaction.To, a.Transaction.Value, a.Transaction.Data)
					if err != nil {
						return common.Hash{}, err
					}
					if err := c.chainClient.WaitForReceipt(ctx, txHash); err != nil {
						return common.Hash{}, err
					}
					exchangeHash = txHash
				}
			}
			return exchangeHash, nil
		},
	}
}
