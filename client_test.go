package seaport

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaifufi/seaport-sdk-go/chain"
)

// fakeChain is an in-memory ChainClient for tests.
type fakeChain struct {
	nativeBalances map[common.Address]*big.Int
	erc721Owners   map[int64]common.Address
	approvedForAll map[common.Address]bool
	counter        *big.Int
	timestamp      uint64
	submitted      []TransactionRequest
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		nativeBalances: make(map[common.Address]*big.Int),
		erc721Owners:   make(map[int64]common.Address),
		approvedForAll: make(map[common.Address]bool),
		counter:        big.NewInt(0),
		timestamp:      1000,
	}
}

func (f *fakeChain) NativeBalance(_ context.Context, owner common.Address) (*big.Int, error) {
	if balance, ok := f.nativeBalances[owner]; ok {
		return copyBig(balance), nil
	}
	return new(big.Int), nil
}

func (f *fakeChain) ERC20Balance(context.Context, common.Address, common.Address) (*big.Int, error) {
	return new(big.Int), nil
}

func (f *fakeChain) ERC20Allowance(context.Context, common.Address, common.Address, common.Address) (*big.Int, error) {
	return new(big.Int), nil
}

func (f *fakeChain) ERC721Owner(_ context.Context, _ common.Address, identifier *big.Int) (common.Address, error) {
	return f.erc721Owners[identifier.Int64()], nil
}

func (f *fakeChain) ERC721Balance(context.Context, common.Address, common.Address) (*big.Int, error) {
	return new(big.Int), nil
}

func (f *fakeChain) ERC1155Balance(context.Context, common.Address, common.Address, *big.Int) (*big.Int, error) {
	return new(big.Int), nil
}

func (f *fakeChain) IsApprovedForAll(_ context.Context, _ common.Address, owner, _ common.Address) (bool, error) {
	return f.approvedForAll[owner], nil
}

func (f *fakeChain) GetCounter(context.Context, common.Address) (*big.Int, error) {
	return copyBig(f.counter), nil
}

func (f *fakeChain) GetOrderStatus(context.Context, common.Hash) (bool, bool, *big.Int, *big.Int, error) {
	return false, false, new(big.Int), new(big.Int), nil
}

func (f *fakeChain) BlockTimestamp(context.Context) (uint64, error) {
	return f.timestamp, nil
}

func (f *fakeChain) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (f *fakeChain) SubmitTransaction(_ context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	f.submitted = append(f.submitted, TransactionRequest{To: to, Value: value, Data: data})
	return common.BigToHash(big.NewInt(int64(len(f.submitted)))), nil
}

func (f *fakeChain) WaitForReceipt(context.Context, common.Hash) error {
	return nil
}

const testPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var testSignerAddr = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

func newTestClient(t *testing.T, fake *fakeChain) *Client {
	t.Helper()
	signer, err := chain.NewPrivateKeySigner(testPrivateKey)
	require.NoError(t, err)
	return NewClientWithBackend(ClientConfig{}, fake, signer)
}

func TestCreateOrderPlansApprovalAndSignature(t *testing.T) {
	fake := newFakeChain()
	// Signer owns the NFT but has not approved the marketplace
	fake.erc721Owners[5] = testSignerAddr

	client := newTestClient(t, fake)
	ctx := context.Background()

	useCase, err := client.CreateOrder(ctx, CreateOrderInput{
		Offer: []CreateInputItem{{
			Kind:       InputItemNFT,
			ItemType:   ItemTypeERC721,
			Token:      testNFT,
			Identifier: big.NewInt(5),
		}},
		Consideration: []ConsiderationInputItem{{
			CreateInputItem: CreateInputItem{Kind: InputItemCurrency, Amount: big.NewInt(10)},
		}},
	})
	require.NoError(t, err)
	require.Len(t, useCase.Actions, 2)
	assert.Equal(t, ActionTypeApproval, useCase.Actions[0].ActionType())
	assert.Equal(t, ActionTypeCreate, useCase.Actions[1].ActionType())

	createAction, ok := useCase.Actions[1].(CreateOrderAction)
	require.True(t, ok)
	payload, err := createAction.GetMessageToSign()
	require.NoError(t, err)
	assert.Contains(t, payload, "OrderComponents")

	order, err := useCase.ExecuteAllActions(ctx)
	require.NoError(t, err)

	// The approval transaction was submitted before signing
	require.Len(t, fake.submitted, 1)
	assert.Equal(t, testNFT, fake.submitted[0].To)

	assert.Equal(t, testSignerAddr, order.Parameters.Offerer)
	assert.Equal(t, int64(0), order.Parameters.Counter.Int64())
	assert.Len(t, order.Signature, 132)
	assert.Equal(t, 1, order.Parameters.TotalOriginalConsiderationItems)
	// Zero consideration recipient defaulted to the offerer
	assert.Equal(t, testSignerAddr, order.Parameters.Consideration[0].Recipient)
}

func TestCreateOrderSkipsApprovalWhenAlreadyGranted(t *testing.T) {
	fake := newFakeChain()
	fake.erc721Owners[5] = testSignerAddr
	fake.approvedForAll[testSignerAddr] = true

	client := newTestClient(t, fake)

	useCase, err := client.CreateOrder(context.Background(), CreateOrderInput{
		Offer: []CreateInputItem{{
			Kind:       InputItemNFT,
			ItemType:   ItemTypeERC721,
			Token:      testNFT,
			Identifier: big.NewInt(5),
		}},
		Consideration: []ConsiderationInputItem{{
			CreateInputItem: CreateInputItem{Kind: InputItemCurrency, Amount: big.NewInt(10)},
		}},
	})
	require.NoError(t, err)
	require.Len(t, useCase.Actions, 1)
	assert.Equal(t, ActionTypeCreate, useCase.Actions[0].ActionType())
}

func TestCreateOrderRejectsUnownedOffer(t *testing.T) {
	fake := newFakeChain()
	fake.erc721Owners[5] = testOfferer // someone else owns it

	client := newTestClient(t, fake)

	_, err := client.CreateOrder(context.Background(), CreateOrderInput{
		Offer: []CreateInputItem{{
			Kind:       InputItemNFT,
			ItemType:   ItemTypeERC721,
			Token:      testNFT,
			Identifier: big.NewInt(5),
		}},
	})

	var balanceErr *InsufficientBalanceError
	assert.ErrorAs(t, err, &balanceErr)
}

func TestCreateOrderAppendsFees(t *testing.T) {
	fake := newFakeChain()
	fake.erc721Owners[5] = testSignerAddr
	fake.approvedForAll[testSignerAddr] = true

	client := newTestClient(t, fake)

	useCase, err := client.CreateOrder(context.Background(), CreateOrderInput{
		Offer: []CreateInputItem{{
			Kind:       InputItemNFT,
			ItemType:   ItemTypeERC721,
			Token:      testNFT,
			Identifier: big.NewInt(5),
		}},
		Consideration: []ConsiderationInputItem{{
			CreateInputItem: CreateInputItem{Kind: InputItemCurrency, Amount: big.NewInt(1000)},
		}},
		Fees: []Fee{{Recipient: testRecipient, BasisPoints: 250}},
	})
	require.NoError(t, err)

	order, err := useCase.ExecuteAllActions(context.Background())
	require.NoError(t, err)

	require.Len(t, order.Parameters.Consideration, 2)
	assert.Equal(t, int64(975), order.Parameters.Consideration[0].StartAmount.Int64())
	assert.Equal(t, int64(25), order.Parameters.Consideration[1].StartAmount.Int64())
	assert.Equal(t, testRecipient, order.Parameters.Consideration[1].Recipient)
	assert.Equal(t, 2, order.Parameters.TotalOriginalConsiderationItems)
}

func TestCreateOrderRejectsMixedCurrencies(t *testing.T) {
	fake := newFakeChain()
	client := newTestClient(t, fake)

	_, err := client.CreateOrder(context.Background(), CreateOrderInput{
		Offer: []CreateInputItem{{
			Kind:   InputItemCurrency,
			Token:  testERC20,
			Amount: big.NewInt(10),
		}},
		Consideration: []ConsiderationInputItem{{
			CreateInputItem: CreateInputItem{Kind: InputItemCurrency, Amount: big.NewInt(10)},
		}},
	})
	assert.ErrorIs(t, err, ErrMixedCurrencies)
}

// listingFor builds a signed ERC721-for-native listing from testOfferer.
func listingFor(price int64) *OrderWithCounter {
	return &OrderWithCounter{
		Parameters: OrderComponents{
			OrderParameters: OrderParameters{
				Offerer: testOfferer,
				Offer: []OfferItem{{
					ItemType:             ItemTypeERC721,
					Token:                testNFT,
					IdentifierOrCriteria: big.NewInt(5),
					StartAmount:          big.NewInt(1),
					EndAmount:            big.NewInt(1),
				}},
				Consideration: []ConsiderationItem{{
					OfferItem: OfferItem{
						ItemType:             ItemTypeNative,
						IdentifierOrCriteria: big.NewInt(0),
						StartAmount:          big.NewInt(price),
						EndAmount:            big.NewInt(price),
					},
					Recipient: testOfferer,
				}},
				StartTime:                       big.NewInt(0),
				EndTime:                         big.NewInt(100000),
				Salt:                            big.NewInt(1),
				TotalOriginalConsiderationItems: 1,
			},
			Counter: big.NewInt(0),
		},
		Signature: "0x01",
	}
}

func fulfillableFake() *fakeChain {
	fake := newFakeChain()
	fake.erc721Owners[5] = testOfferer
	fake.approvedForAll[testOfferer] = true
	fake.nativeBalances[testSignerAddr] = big.NewInt(1000)
	return fake
}

func TestFulfillOrderUsesBasicRoute(t *testing.T) {
	fake := fulfillableFake()
	client := newTestClient(t, fake)

	useCase, err := client.FulfillOrder(context.Background(), FulfillOrderInput{
		Order: listingFor(10),
	})
	require.NoError(t, err)
	require.Len(t, useCase.Actions, 1)

	exchange, ok := useCase.Actions[0].(ExchangeAction)
	require.True(t, ok)
	assert.Equal(t, int64(10), exchange.Transaction.Value.Int64())
	assert.Equal(t, chain.GetSeaportABI().Methods["fulfillBasicOrder"].ID, exchange.Transaction.Data[:4])
}

func TestFulfillOrderRecipientForcesAdvancedRoute(t *testing.T) {
	fake := fulfillableFake()
	client := newTestClient(t, fake)

	useCase, err := client.FulfillOrder(context.Background(), FulfillOrderInput{
		Order:     listingFor(10),
		Recipient: testRecipient,
	})
	require.NoError(t, err)
	require.Len(t, useCase.Actions, 1)

	exchange := useCase.Actions[0].(ExchangeAction)
	assert.Equal(t, chain.GetSeaportABI().Methods["fulfillAdvancedOrder"].ID, exchange.Transaction.Data[:4])
}

func TestFulfillOrderAddsTipsToValue(t *testing.T) {
	fake := fulfillableFake()
	client := newTestClient(t, fake)

	useCase, err := client.FulfillOrder(context.Background(), FulfillOrderInput{
		Order: listingFor(10),
		Tips: []ConsiderationInputItem{{
			CreateInputItem: CreateInputItem{Kind: InputItemCurrency, Amount: big.NewInt(3)},
			Recipient:       testRecipient,
		}},
	})
	require.NoError(t, err)

	exchange := useCase.Actions[len(useCase.Actions)-1].(ExchangeAction)
	assert.Equal(t, int64(13), exchange.Transaction.Value.Int64())
}

func TestFulfillOrderInsufficientFunds(t *testing.T) {
	fake := fulfillableFake()
	fake.nativeBalances[testSignerAddr] = big.NewInt(5)
	client := newTestClient(t, fake)

	_, err := client.FulfillOrder(context.Background(), FulfillOrderInput{
		Order: listingFor(10),
	})

	var balanceErr *InsufficientBalanceError
	assert.ErrorAs(t, err, &balanceErr)
}

func TestFulfillOrderUnknownConduitKey(t *testing.T) {
	fake := fulfillableFake()
	client := newTestClient(t, fake)

	conduitKey := common.HexToHash("0xabcd")
	_, err := client.FulfillOrder(context.Background(), FulfillOrderInput{
		Order:      listingFor(10),
		ConduitKey: &conduitKey,
	})
	assert.ErrorIs(t, err, ErrUnknownConduitKey)
}

func TestFulfillOrdersBatch(t *testing.T) {
	fake := fulfillableFake()
	fake.erc721Owners[6] = testOfferer
	client := newTestClient(t, fake)

	second := listingFor(20)
	second.Parameters.Offer[0].IdentifierOrCriteria = big.NewInt(6)

	useCase, err := client.FulfillOrders(context.Background(), FulfillOrdersInput{
		Orders: []FulfillOrderDetails{
			{Order: listingFor(10)},
			{Order: second},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, useCase.Actions)

	exchange := useCase.Actions[len(useCase.Actions)-1].(ExchangeAction)
	assert.Equal(t, int64(30), exchange.Transaction.Value.Int64())
	assert.Equal(t, chain.GetSeaportABI().Methods["fulfillAvailableAdvancedOrders"].ID, exchange.Transaction.Data[:4])
}

func TestCancelAndValidateActions(t *testing.T) {
	client := newTestClient(t, newFakeChain())

	order := listingFor(10)

	cancel, err := client.CancelOrders([]OrderComponents{order.Parameters})
	require.NoError(t, err)
	assert.Equal(t, chain.GetSeaportABI().Methods["cancel"].ID, cancel.Transaction.Data[:4])

	bulk, err := client.BulkCancelOrders()
	require.NoError(t, err)
	assert.Equal(t, chain.GetSeaportABI().Methods["incrementCounter"].ID, bulk.Transaction.Data[:4])

	validate, err := client.Validate([]Order{order.Order()})
	require.NoError(t, err)
	assert.Equal(t, chain.GetSeaportABI().Methods["validate"].ID, validate.Transaction.Data[:4])
}

func TestGetOrderHashDeterministic(t *testing.T) {
	client := newTestClient(t, newFakeChain())

	order := listingFor(10)
	first := client.GetOrderHash(order.Parameters)
	assert.Equal(t, first, client.GetOrderHash(order.Parameters))

	bumped := listingFor(10)
	bumped.Parameters.Counter = big.NewInt(1)
	assert.NotEqual(t, first, client.GetOrderHash(bumped.Parameters))
}

func TestGetMaximumSizeForOrder(t *testing.T) {
	client := newTestClient(t, newFakeChain())
	assert.Equal(t, int64(1), client.GetMaximumSizeForOrder(listingFor(10)).Int64())

	order := listingFor(10)
	order.Parameters.Offer[0] = OfferItem{
		ItemType:             ItemTypeERC1155,
		Token:                testNFT,
		IdentifierOrCriteria: big.NewInt(5),
		StartAmount:          big.NewInt(10),
		EndAmount:            big.NewInt(10),
	}
	assert.Equal(t, int64(10), client.GetMaximumSizeForOrder(order).Int64())
}
