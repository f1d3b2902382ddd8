package airdrop

import (
	"github.com/holiman/uint256"

	"github.com/vestdrop/vestdrop/core/types"
)

// Event is one record in the controller's journal. Records are appended in
// emission order and never rewritten.
type Event interface {
	Name() string
}

// TokensRedeemed records one successful redemption: the committed account,
// the exact committed amount, and the vesting lock the tokens moved into.
type TokensRedeemed struct {
	Account types.Address
	Amount  *uint256.Int
	Lock    types.Address
}

// Name implements Event.
func (*TokensRedeemed) Name() string { return "TokensRedeemed" }

// TokensRecovered records a post-deadline sweep of the controller's
// residual balance back to its owner. Amount may be zero.
type TokensRecovered struct {
	Owner  types.Address
	Amount *uint256.Int
}

// Name implements Event.
func (*TokensRecovered) Name() string { return "TokensRecovered" }
