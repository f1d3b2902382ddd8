package merkle

import (
	"github.com/holiman/uint256"

	"github.com/vestdrop/vestdrop/core/types"
	"github.com/vestdrop/vestdrop/crypto"
)

// Leaf is one committed entitlement: an account and the exact amount it may
// redeem. The pair is the unit of commitment; the same account committed
// with a different amount is a different leaf.
type Leaf struct {
	Account types.Address
	Amount  *uint256.Int
}

// Hash returns the canonical digest of the leaf.
func (l Leaf) Hash() types.Hash {
	return LeafHash(l.Account, l.Amount)
}

// clone deep-copies the leaf so a caller holding the original Amount cannot
// mutate the committed set.
func (l Leaf) clone() Leaf {
	amount := new(uint256.Int)
	if l.Amount != nil {
		amount.Set(l.Amount)
	}
	return Leaf{Account: l.Account, Amount: amount}
}

// LeafHash computes the leaf digest: Keccak-256 over the 20-byte account
// followed by the amount as a 32-byte big-endian word. A nil amount hashes
// as zero. The digest binds both fields, so tampering with either the
// account or the amount invalidates any proof carrying the pair.
func LeafHash(account types.Address, amount *uint256.Int) types.Hash {
	if amount == nil {
		amount = new(uint256.Int)
	}
	word := amount.Bytes32()
	return crypto.Keccak256Hash(account[:], word[:])
}
