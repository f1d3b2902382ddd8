package merkle

import (
	"bytes"

	"github.com/vestdrop/vestdrop/core/types"
	"github.com/vestdrop/vestdrop/crypto"
)

// VerifyProof reports whether leaf is committed under root, given the
// sibling path proof. Each step hashes the running digest together with the
// next path element, ordering the pair byte-wise ascending first.
// Verification fails closed: a wrong-length path, a tampered element, or a
// mismatched root all yield false. It never panics, never returns an error,
// and has no side effects.
func VerifyProof(root, leaf types.Hash, proof []types.Hash) bool {
	computed := leaf
	for _, sibling := range proof {
		computed = hashPair(computed, sibling)
	}
	return computed == root
}

// hashPair returns the parent digest of two sibling nodes. The operands are
// ordered byte-wise ascending before hashing, so a pair has a single
// canonical digest regardless of which side each node sat on. Proof paths
// therefore carry no position bits.
func hashPair(a, b types.Hash) types.Hash {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return crypto.Keccak256Hash(a[:], b[:])
}
