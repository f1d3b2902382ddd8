// Package merkle implements the sorted-pair Merkle commitment over a fixed
// set of (account, amount) leaves, plus the manifest artifact published
// alongside the on-system root.
//
// The tree is built once by the trusted producer of a distribution; only
// proof verification sits on the redemption path. Interior nodes hash their
// two children in byte-ascending order, so proofs carry no left/right
// position bits and generation stays symmetric with verification. A level
// with an odd node count promotes its last node unchanged to the next
// level; nodes are never duplicated.
package merkle

import (
	"errors"
	"fmt"

	"github.com/vestdrop/vestdrop/core/types"
)

var (
	// ErrEmptyLeaves is returned when constructing a tree over no leaves.
	ErrEmptyLeaves = errors.New("merkle: empty leaf set")

	// ErrDuplicateLeaf is returned when two committed leaves hash
	// identically, meaning the same (account, amount) pair appears twice.
	ErrDuplicateLeaf = errors.New("merkle: duplicate leaf")

	// ErrUnknownLeaf is returned when requesting a proof for a leaf hash
	// that is not part of the committed set.
	ErrUnknownLeaf = errors.New("merkle: leaf not in tree")
)

// Tree is an immutable sorted-pair Merkle tree. Once constructed it is safe
// for concurrent use.
type Tree struct {
	leaves []Leaf             // committed order
	levels [][]types.Hash     // levels[0] holds leaf hashes; the last level holds only the root
	index  map[types.Hash]int // leaf hash -> position in levels[0]
}

// NewTree builds the commitment over the given leaves. The slice order is
// the committed order and is preserved. Empty sets and duplicate
// (account, amount) pairs are rejected.
func NewTree(leaves []Leaf) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyLeaves
	}

	t := &Tree{
		leaves: make([]Leaf, len(leaves)),
		index:  make(map[types.Hash]int, len(leaves)),
	}
	hashes := make([]types.Hash, len(leaves))
	for i, leaf := range leaves {
		h := leaf.Hash()
		if prev, dup := t.index[h]; dup {
			return nil, fmt.Errorf("%w: positions %d and %d", ErrDuplicateLeaf, prev, i)
		}
		t.index[h] = i
		t.leaves[i] = leaf.clone()
		hashes[i] = h
	}

	t.levels = buildLevels(hashes)
	return t, nil
}

// buildLevels folds the leaf level upward until a single root remains.
func buildLevels(leafHashes []types.Hash) [][]types.Hash {
	levels := [][]types.Hash{leafHashes}
	for level := leafHashes; len(level) > 1; {
		next := make([]types.Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, hashPair(level[i], level[i+1]))
			} else {
				// Odd node: promoted unchanged.
				next = append(next, level[i])
			}
		}
		levels = append(levels, next)
		level = next
	}
	return levels
}

// Root returns the 32-byte commitment to the leaf set. For a single-leaf
// tree the root is the leaf hash itself.
func (t *Tree) Root() types.Hash {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// Len returns the number of committed leaves.
func (t *Tree) Len() int {
	return len(t.leaves)
}

// Leaves returns a copy of the committed set in committed order.
func (t *Tree) Leaves() []Leaf {
	out := make([]Leaf, len(t.leaves))
	for i, leaf := range t.leaves {
		out[i] = leaf.clone()
	}
	return out
}

// Proof returns the sibling path for the given leaf hash, ordered leaf
// level first. The path carries no position bits; VerifyProof re-sorts
// each pair. A single-leaf tree yields an empty path.
func (t *Tree) Proof(leaf types.Hash) ([]types.Hash, error) {
	pos, ok := t.index[leaf]
	if !ok {
		return nil, ErrUnknownLeaf
	}

	proof := make([]types.Hash, 0, len(t.levels)-1)
	for _, level := range t.levels[:len(t.levels)-1] {
		if sib := pos ^ 1; sib < len(level) {
			proof = append(proof, level[sib])
		}
		// A promoted node contributes no path element; its position
		// still halves on the next level.
		pos /= 2
	}
	return proof, nil
}
