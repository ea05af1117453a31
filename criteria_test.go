package seaport

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCriteriaResolvers(t *testing.T) {
	ids := identifiers(10, 20, 30)
	tree := NewMerkleTree(ids)

	order := Order{Parameters: OrderParameters{
		Offer: []OfferItem{
			{ItemType: ItemTypeERC20, Token: testERC20, IdentifierOrCriteria: big.NewInt(0), StartAmount: big.NewInt(1), EndAmount: big.NewInt(1)},
			{ItemType: ItemTypeERC721WithCriteria, Token: testNFT, IdentifierOrCriteria: tree.RootAsBigInt(), StartAmount: big.NewInt(1), EndAmount: big.NewInt(1)},
		},
		Consideration: []ConsiderationItem{
			{OfferItem: OfferItem{ItemType: ItemTypeERC1155WithCriteria, Token: testNFT, IdentifierOrCriteria: tree.RootAsBigInt(), StartAmount: big.NewInt(1), EndAmount: big.NewInt(1)}},
		},
	}}

	resolvers, err := GenerateCriteriaResolvers(
		[]*Order{&order},
		[][]InputCriteria{{{Identifier: big.NewInt(20), ValidIdentifiers: ids}}},
		[][]InputCriteria{{{Identifier: big.NewInt(30), ValidIdentifiers: ids}}},
	)
	require.NoError(t, err)
	require.Len(t, resolvers, 2)

	// The offer resolver carries the real item index, skipping the ERC20
	assert.Equal(t, SideOffer, resolvers[0].Side)
	assert.Equal(t, 1, resolvers[0].Index)
	assert.Equal(t, int64(20), resolvers[0].Identifier.Int64())
	assert.Equal(t, tree.Proof(big.NewInt(20)), resolvers[0].CriteriaProof)

	assert.Equal(t, SideConsideration, resolvers[1].Side)
	assert.Equal(t, 0, resolvers[1].Index)
	assert.Equal(t, int64(30), resolvers[1].Identifier.Int64())
}

func TestGenerateCriteriaResolversZeroRoot(t *testing.T) {
	// A zero root accepts any identifier with an empty proof
	order := Order{Parameters: OrderParameters{
		Offer: []OfferItem{
			{ItemType: ItemTypeERC721WithCriteria, Token: testNFT, IdentifierOrCriteria: big.NewInt(0), StartAmount: big.NewInt(1), EndAmount: big.NewInt(1)},
		},
	}}

	resolvers, err := GenerateCriteriaResolvers(
		[]*Order{&order},
		[][]InputCriteria{{{Identifier: big.NewInt(42)}}},
		nil,
	)
	require.NoError(t, err)
	require.Len(t, resolvers, 1)
	assert.Empty(t, resolvers[0].CriteriaProof)
	assert.Equal(t, int64(42), resolvers[0].Identifier.Int64())
}

func TestGenerateCriteriaResolversMissingCriteria(t *testing.T) {
	order := Order{Parameters: OrderParameters{
		Offer: []OfferItem{
			{ItemType: ItemTypeERC721WithCriteria, Token: testNFT, IdentifierOrCriteria: big.NewInt(1), StartAmount: big.NewInt(1), EndAmount: big.NewInt(1)},
		},
	}}

	_, err := GenerateCriteriaResolvers([]*Order{&order}, nil, nil)
	assert.ErrorIs(t, err, ErrMissingCriteria)
}

func TestGenerateCriteriaResolversBatchOrderIndices(t *testing.T) {
	plain := Order{Parameters: OrderParameters{
		Offer: []OfferItem{
			{ItemType: ItemTypeERC20, Token: testERC20, IdentifierOrCriteria: big.NewInt(0), StartAmount: big.NewInt(1), EndAmount: big.NewInt(1)},
		},
	}}
	withCriteria := Order{Parameters: OrderParameters{
		Offer: []OfferItem{
			{ItemType: ItemTypeERC721WithCriteria, Token: testNFT, IdentifierOrCriteria: big.NewInt(0), StartAmount: big.NewInt(1), EndAmount: big.NewInt(1)},
		},
	}}

	resolvers, err := GenerateCriteriaResolvers(
		[]*Order{&plain, &withCriteria},
		[][]InputCriteria{nil, {{Identifier: big.NewInt(9)}}},
		nil,
	)
	require.NoError(t, err)
	require.Len(t, resolvers, 1)
	assert.Equal(t, 1, resolvers[0].OrderIndex)
}
