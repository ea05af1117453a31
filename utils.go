package seaport

import (
	"crypto/rand"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// GenerateRandomSalt returns a fresh 256-bit salt. A new salt is drawn on
// every call so that otherwise identical orders hash differently.
func GenerateRandomSalt() *big.Int {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("failed to read random salt: " + err.Error())
	}
	return new(big.Int).SetBytes(buf)
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

func maxBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return copyBig(a)
	}
	return copyBig(b)
}

func bigOrDefault(v *big.Int, def int64) *big.Int {
	if v == nil {
		return big.NewInt(def)
	}
	return new(big.Int).Set(v)
}

// identifierToBytes encodes an identifier as its 32-byte big-endian
// representation, the leaf encoding used for criteria Merkle trees.
func identifierToBytes(identifier *big.Int) [32]byte {
	var out [32]byte
	identifier.FillBytes(out[:])
	return out
}

func isZeroAddress(addr common.Address) bool {
	return addr == (common.Address{})
}

func copyOfferItem(item OfferItem) OfferItem {
	out := item
	out.IdentifierOrCriteria = copyBig(item.IdentifierOrCriteria)
	out.StartAmount = copyBig(item.StartAmount)
	out.EndAmount = copyBig(item.EndAmount)
	return out
}

func copyConsiderationItem(item ConsiderationItem) ConsiderationItem {
	return ConsiderationItem{OfferItem: copyOfferItem(item.OfferItem), Recipient: item.Recipient}
}

// considerationAsItems gives the offer-item view of consideration items for
// functions that aggregate over both sides.
func considerationAsItems(consideration []ConsiderationItem) []OfferItem {
	items := make([]OfferItem, len(consideration))
	for i, c := range consideration {
		items[i] = c.OfferItem
	}
	return items
}

func allOrderItems(params OrderParameters) []OfferItem {
	items := make([]OfferItem, 0, len(params.Offer)+len(params.Consideration))
	items = append(items, params.Offer...)
	items = append(items, considerationAsItems(params.Consideration)...)
	return items
}
