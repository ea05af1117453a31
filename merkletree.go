package seaport

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// MerkleTree commits to a set of token identifiers for criteria-based items.
// Leaves are keccak256 hashes of the 32-byte big-endian identifier encoding,
// sorted and de-duplicated. Interior nodes hash the byte-wise sorted pair, so
// proofs verify regardless of sibling position; an odd trailing node is
// promoted to the next layer unchanged.
type MerkleTree struct {
	identifiers []*big.Int
	elements    [][]byte
	elementIdx  map[string]int
}

// NewMerkleTree builds a tree over the given identifiers. An empty identifier
// set produces the zero root, which the protocol treats as "any identifier".
func NewMerkleTree(identifiers []*big.Int) *MerkleTree {
	hashed := make([][]byte, 0, len(identifiers))
	for _, identifier := range identifiers {
		hashed = append(hashed, hashIdentifier(identifier))
	}
	sort.Slice(hashed, func(i, j int) bool { return bytes.Compare(hashed[i], hashed[j]) < 0 })

	elements := make([][]byte, 0, len(hashed))
	for i, el := range hashed {
		if i > 0 && bytes.Equal(hashed[i-1], el) {
			continue
		}
		elements = append(elements, el)
	}

	elementIdx := make(map[string]int, len(elements))
	for i, el := range elements {
		elementIdx[string(el)] = i
	}

	return &MerkleTree{identifiers: identifiers, elements: elements, elementIdx: elementIdx}
}

// Identifiers returns the identifiers the tree was constructed over.
func (t *MerkleTree) Identifiers() []*big.Int {
	return t.identifiers
}

// Root returns the root hash, or the zero hash for an empty tree.
func (t *MerkleTree) Root() common.Hash {
	layers := t.layers()
	top := layers[len(layers)-1]
	if len(top) == 0 {
		return common.Hash{}
	}
	return common.BytesToHash(top[0])
}

// RootAsBigInt returns the root as the integer stored in identifierOrCriteria.
func (t *MerkleTree) RootAsBigInt() *big.Int {
	root := t.Root()
	return new(big.Int).SetBytes(root[:])
}

// Proof returns the sibling hashes from leaf to root for the given
// identifier, or nil when the identifier is not part of the tree.
func (t *MerkleTree) Proof(identifier *big.Int) []common.Hash {
	element := hashIdentifier(identifier)
	index, ok := t.elementIdx[string(element)]
	if !ok {
		return nil
	}

	var proof []common.Hash
	for _, layer := range t.layers() {
		pairIndex := index + 1
		if index%2 == 1 {
			pairIndex = index - 1
		}
		if pairIndex < len(layer) {
			proof = append(proof, common.BytesToHash(layer[pairIndex]))
		}
		index /= 2
	}
	return proof
}

func (t *MerkleTree) layers() [][][]byte {
	layers := [][][]byte{t.elements}
	for len(layers[len(layers)-1]) > 1 {
		layers = append(layers, nextLayer(layers[len(layers)-1]))
	}
	return layers
}

func nextLayer(elements [][]byte) [][]byte {
	layer := make([][]byte, 0, (len(elements)+1)/2)
	for i := 0; i < len(elements); i += 2 {
		if i+1 < len(elements) {
			layer = append(layer, combinedHash(elements[i], elements[i+1]))
		} else {
			layer = append(layer, elements[i])
		}
	}
	return layer
}

func combinedHash(first, second []byte) []byte {
	if bytes.Compare(first, second) > 0 {
		first, second = second, first
	}
	return crypto.Keccak256(first, second)
}

func hashIdentifier(identifier *big.Int) []byte {
	encoded := identifierToBytes(identifier)
	return crypto.Keccak256(encoded[:])
}
