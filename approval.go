package seaport

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/kaifufi/seaport-sdk-go/chain"
)

// getApprovalActions turns approval shortfalls into ready-to-submit approval
// transactions. NFT approvals are blanket setApprovalForAll calls and ERC20
// approvals grant MaxUint256, so one transaction per (token, operator) pair
// covers every shortfall against that pair.
func getApprovalActions(insufficientApprovals InsufficientApprovals) ([]ApprovalAction, error) {
	deduped := dedupeApprovals(insufficientApprovals)

	actions := make([]ApprovalAction, 0, len(deduped))
	for _, approval := range deduped {
		var (
			data []byte
			err  error
		)
		if IsERC721Item(approval.ItemType) || IsERC1155Item(approval.ItemType) {
			data, err = chain.GetERC721ABI().Pack("setApprovalForAll", approval.Operator, true)
		} else {
			data, err = chain.GetERC20ABI().Pack("approve", approval.Operator, MaxUint256)
		}
		if err != nil {
			return nil, errors.Wrap(err, "packing approval calldata")
		}

		actions = append(actions, ApprovalAction{
			Token:                approval.Token,
			IdentifierOrCriteria: copyBig(approval.IdentifierOrCriteria),
			ItemType:             approval.ItemType,
			Operator:             approval.Operator,
			Transaction: TransactionRequest{
				To:    approval.Token,
				Value: new(big.Int),
				Data:  data,
			},
		})
	}
	return actions, nil
}

func dedupeApprovals(approvals InsufficientApprovals) InsufficientApprovals {
	type key struct {
		token    common.Address
		operator common.Address
	}
	seen := make(map[key]bool, len(approvals))
	var out InsufficientApprovals
	for _, approval := range approvals {
		k := key{approval.Token, approval.Operator}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, approval)
	}
	return out
}
