package seaport

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTypeFromOptions(t *testing.T) {
	assert.Equal(t, OrderTypeFullOpen, orderTypeFromOptions(false, false))
	assert.Equal(t, OrderTypePartialOpen, orderTypeFromOptions(true, false))
	assert.Equal(t, OrderTypeFullRestricted, orderTypeFromOptions(false, true))
	assert.Equal(t, OrderTypePartialRestricted, orderTypeFromOptions(true, true))
}

func TestMapInputItemDefaults(t *testing.T) {
	nft := mapInputItemToOfferItem(CreateInputItem{
		Kind:       InputItemNFT,
		ItemType:   ItemTypeERC721,
		Token:      common.HexToAddress("0x1"),
		Identifier: big.NewInt(5),
	})
	assert.Equal(t, ItemTypeERC721, nft.ItemType)
	assert.Equal(t, int64(1), nft.StartAmount.Int64())
	assert.Equal(t, int64(1), nft.EndAmount.Int64())
	assert.Equal(t, int64(5), nft.IdentifierOrCriteria.Int64())

	native := mapInputItemToOfferItem(CreateInputItem{
		Kind:   InputItemCurrency,
		Amount: big.NewInt(100),
	})
	assert.Equal(t, ItemTypeNative, native.ItemType)
	assert.Equal(t, int64(100), native.EndAmount.Int64())

	erc20 := mapInputItemToOfferItem(CreateInputItem{
		Kind:   InputItemCurrency,
		Token:  common.HexToAddress("0x2"),
		Amount: big.NewInt(100),
	})
	assert.Equal(t, ItemTypeERC20, erc20.ItemType)
}

func TestMapInputItemCriteriaRoot(t *testing.T) {
	ids := identifiers(1, 2, 3)
	item := mapInputItemToOfferItem(CreateInputItem{
		Kind:        InputItemNFTWithCriteria,
		ItemType:    ItemTypeERC721,
		Token:       common.HexToAddress("0x1"),
		Identifiers: ids,
	})

	assert.Equal(t, ItemTypeERC721WithCriteria, item.ItemType)
	assert.Equal(t, NewMerkleTree(ids).RootAsBigInt(), item.IdentifierOrCriteria)
}

func TestAreAllCurrenciesSame(t *testing.T) {
	usdc := common.HexToAddress("0xa")
	weth := common.HexToAddress("0xb")

	offer := []OfferItem{{ItemType: ItemTypeERC20, Token: usdc}}
	same := []ConsiderationItem{{OfferItem: OfferItem{ItemType: ItemTypeERC20, Token: usdc}}}
	mixed := []ConsiderationItem{{OfferItem: OfferItem{ItemType: ItemTypeERC20, Token: weth}}}

	assert.True(t, areAllCurrenciesSame(offer, same))
	assert.False(t, areAllCurrenciesSame(offer, mixed))

	// NFT items do not participate
	nftOnly := []OfferItem{{ItemType: ItemTypeERC721, Token: weth, IdentifierOrCriteria: big.NewInt(1)}}
	assert.True(t, areAllCurrenciesSame(nftOnly, same))
}

func TestDeductFeesAndFeeItem(t *testing.T) {
	recipient := common.HexToAddress("0xfee")
	consideration := []ConsiderationItem{{
		OfferItem: OfferItem{
			ItemType:             ItemTypeNative,
			IdentifierOrCriteria: big.NewInt(0),
			StartAmount:          big.NewInt(1000),
			EndAmount:            big.NewInt(1000),
		},
		Recipient: common.HexToAddress("0x1"),
	}}
	fees := []Fee{{Recipient: recipient, BasisPoints: 250}}

	deducted := deductFees(consideration, fees)
	require.Len(t, deducted, 1)
	assert.Equal(t, int64(975), deducted[0].StartAmount.Int64())
	assert.Equal(t, int64(975), deducted[0].EndAmount.Int64())

	// Original untouched
	assert.Equal(t, int64(1000), consideration[0].StartAmount.Int64())

	feeItem := feeToConsiderationItem(fees[0], common.Address{}, big.NewInt(1000), big.NewInt(1000))
	assert.Equal(t, ItemTypeNative, feeItem.ItemType)
	assert.Equal(t, int64(25), feeItem.StartAmount.Int64())
	assert.Equal(t, recipient, feeItem.Recipient)
}

func TestDeductFeesSkipsNFTItems(t *testing.T) {
	consideration := []ConsiderationItem{{
		OfferItem: OfferItem{
			ItemType:             ItemTypeERC721,
			IdentifierOrCriteria: big.NewInt(1),
			StartAmount:          big.NewInt(1),
			EndAmount:            big.NewInt(1),
		},
	}}

	deducted := deductFees(consideration, []Fee{{BasisPoints: 5000}})
	assert.Equal(t, int64(1), deducted[0].StartAmount.Int64())
}

func partialOrder() Order {
	return Order{Parameters: OrderParameters{
		Offer: []OfferItem{
			{ItemType: ItemTypeERC1155, IdentifierOrCriteria: big.NewInt(1), StartAmount: big.NewInt(10), EndAmount: big.NewInt(10)},
		},
		Consideration: []ConsiderationItem{
			{OfferItem: OfferItem{ItemType: ItemTypeERC20, IdentifierOrCriteria: big.NewInt(0), StartAmount: big.NewInt(100), EndAmount: big.NewInt(100)}},
		},
	}}
}

func TestMapOrderAmountsFromUnitsToFill(t *testing.T) {
	scaled, err := MapOrderAmountsFromUnitsToFill(partialOrder(), big.NewInt(2), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), scaled.Parameters.Offer[0].StartAmount.Int64())
	assert.Equal(t, int64(20), scaled.Parameters.Consideration[0].StartAmount.Int64())
}

func TestMapOrderAmountsClampsToRemaining(t *testing.T) {
	// Half the order is filled; asking for 8 of 10 units clamps to 5
	scaled, err := MapOrderAmountsFromUnitsToFill(partialOrder(), big.NewInt(8), big.NewInt(5), big.NewInt(10))
	require.NoError(t, err)
	assert.Equal(t, int64(5), scaled.Parameters.Offer[0].StartAmount.Int64())
	assert.Equal(t, int64(50), scaled.Parameters.Consideration[0].StartAmount.Int64())
}

func TestMapOrderAmountsInvalidUnits(t *testing.T) {
	_, err := MapOrderAmountsFromUnitsToFill(partialOrder(), big.NewInt(0), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidUnitsToFill)
}

func TestMapOrderAmountsFromFilledStatus(t *testing.T) {
	scaled := MapOrderAmountsFromFilledStatus(partialOrder(), big.NewInt(5), big.NewInt(10))
	assert.Equal(t, int64(5), scaled.Parameters.Offer[0].StartAmount.Int64())

	// Fresh orders pass through unchanged
	fresh := MapOrderAmountsFromFilledStatus(partialOrder(), big.NewInt(0), big.NewInt(0))
	assert.Equal(t, int64(10), fresh.Parameters.Offer[0].StartAmount.Int64())
}

func TestGetAdvancedOrderNumeratorDenominator(t *testing.T) {
	order := partialOrder()

	numerator, denominator, err := GetAdvancedOrderNumeratorDenominator(&order, big.NewInt(4))
	require.NoError(t, err)
	assert.Equal(t, int64(2), numerator.Int64())
	assert.Equal(t, int64(5), denominator.Int64())

	numerator, denominator, err = GetAdvancedOrderNumeratorDenominator(&order, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), numerator.Int64())
	assert.Equal(t, int64(1), denominator.Int64())

	_, _, err = GetAdvancedOrderNumeratorDenominator(&order, big.NewInt(-1))
	assert.ErrorIs(t, err, ErrInvalidUnitsToFill)
}

func TestValidateAndSanitizeFromOrderStatus(t *testing.T) {
	order := partialOrder()
	order.Signature = "0xdeadbeef"

	_, err := ValidateAndSanitizeFromOrderStatus(order, OrderStatus{
		IsCancelled: true, TotalFilled: big.NewInt(0), TotalSize: big.NewInt(0),
	})
	assert.ErrorIs(t, err, ErrOrderCancelled)

	_, err = ValidateAndSanitizeFromOrderStatus(order, OrderStatus{
		TotalFilled: big.NewInt(10), TotalSize: big.NewInt(10),
	})
	assert.ErrorIs(t, err, ErrOrderFilled)

	sanitized, err := ValidateAndSanitizeFromOrderStatus(order, OrderStatus{
		IsValidated: true, TotalFilled: big.NewInt(0), TotalSize: big.NewInt(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "0x", sanitized.Signature)

	untouched, err := ValidateAndSanitizeFromOrderStatus(order, OrderStatus{
		TotalFilled: big.NewInt(5), TotalSize: big.NewInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "0xdeadbeef", untouched.Signature)
}
