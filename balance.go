package seaport

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// BalanceReader is the read-only view of on-chain token state the
// reconciliation engine needs. chain.ContractCaller implements it; tests
// substitute an in-memory fake. Results are always fetched fresh, never
// cached, since stale balances or approvals risk fund loss.
type BalanceReader interface {
	NativeBalance(ctx context.Context, owner common.Address) (*big.Int, error)
	ERC20Balance(ctx context.Context, token, owner common.Address) (*big.Int, error)
	ERC20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	ERC721Owner(ctx context.Context, token common.Address, identifier *big.Int) (common.Address, error)
	ERC721Balance(ctx context.Context, token, owner common.Address) (*big.Int, error)
	ERC1155Balance(ctx context.Context, token, owner common.Address, identifier *big.Int) (*big.Int, error)
	IsApprovedForAll(ctx context.Context, token, owner, operator common.Address) (bool, error)
}

// GetBalancesAndApprovals snapshots the owner's balance and approved amount
// for every item against the resolved operator. Criteria items are checked
// against their resolved identifier when one is supplied.
func GetBalancesAndApprovals(ctx context.Context, reader BalanceReader, owner common.Address, items []OfferItem, criterias []InputCriteria, operator common.Address) (BalancesAndApprovals, error) {
	indexToCriteria := itemIndexToCriteriaMap(items, criterias)

	balancesAndApprovals := make(BalancesAndApprovals, 0, len(items))
	for i, item := range items {
		approvedAmount, err := approvedItemAmount(ctx, reader, owner, item, operator)
		if err != nil {
			return nil, errors.Wrap(err, "fetching approved amount")
		}

		var criteria *InputCriteria
		if c, ok := indexToCriteria[i]; ok {
			criteria = &c
		}
		balance, err := balanceOf(ctx, reader, owner, item, criteria)
		if err != nil {
			return nil, errors.Wrap(err, "fetching balance")
		}

		identifier := item.IdentifierOrCriteria
		if criteria != nil {
			identifier = criteria.Identifier
		}

		balancesAndApprovals = append(balancesAndApprovals, BalanceAndApproval{
			Token:                item.Token,
			IdentifierOrCriteria: copyBig(identifier),
			Balance:              balance,
			ApprovedAmount:       approvedAmount,
			ItemType:             item.ItemType,
		})
	}
	return balancesAndApprovals, nil
}

// approvedItemAmount returns how much of the item the operator may move on the
// owner's behalf. NFT blanket approvals collapse to zero or MaxUint256; native
// currency has no approval concept and is always MaxUint256.
func approvedItemAmount(ctx context.Context, reader BalanceReader, owner common.Address, item OfferItem, operator common.Address) (*big.Int, error) {
	switch {
	case IsERC721Item(item.ItemType) || IsERC1155Item(item.ItemType):
		approved, err := reader.IsApprovedForAll(ctx, item.Token, owner, operator)
		if err != nil {
			return nil, err
		}
		if approved {
			return copyBig(MaxUint256), nil
		}
		return new(big.Int), nil
	case IsERC20Item(item.ItemType):
		return reader.ERC20Allowance(ctx, item.Token, owner, operator)
	default:
		return copyBig(MaxUint256), nil
	}
}

// balanceOf returns the owner's balance of the item. Unresolved ERC721
// criteria items fall back to the collection balance; unresolved ERC1155
// criteria items optimistically assume sufficiency since the concrete
// identifier is unknown.
func balanceOf(ctx context.Context, reader BalanceReader, owner common.Address, item OfferItem, criteria *InputCriteria) (*big.Int, error) {
	switch {
	case IsERC721Item(item.ItemType):
		if item.ItemType == ItemTypeERC721WithCriteria {
			if criteria == nil {
				return reader.ERC721Balance(ctx, item.Token, owner)
			}
			return erc721OwnershipBalance(ctx, reader, owner, item.Token, criteria.Identifier)
		}
		return erc721OwnershipBalance(ctx, reader, owner, item.Token, item.IdentifierOrCriteria)
	case IsERC1155Item(item.ItemType):
		if item.ItemType == ItemTypeERC1155WithCriteria {
			if criteria == nil {
				return maxBig(item.StartAmount, item.EndAmount), nil
			}
			return reader.ERC1155Balance(ctx, item.Token, owner, criteria.Identifier)
		}
		return reader.ERC1155Balance(ctx, item.Token, owner, item.IdentifierOrCriteria)
	case IsERC20Item(item.ItemType):
		return reader.ERC20Balance(ctx, item.Token, owner)
	default:
		return reader.NativeBalance(ctx, owner)
	}
}

func erc721OwnershipBalance(ctx context.Context, reader BalanceReader, owner, token common.Address, identifier *big.Int) (*big.Int, error) {
	currentOwner, err := reader.ERC721Owner(ctx, token, identifier)
	if err != nil {
		return nil, err
	}
	if currentOwner == owner {
		return big.NewInt(1), nil
	}
	return new(big.Int), nil
}
