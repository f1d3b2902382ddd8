// Package token defines the fungible-token collaborator consumed by the
// distribution controller and by vesting locks, plus an in-memory reference
// implementation backed by a balance map.
package token

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/vestdrop/vestdrop/core/types"
)

var (
	// ErrInsufficientBalance is returned when a transfer exceeds the
	// sender's balance. No balance changes in that case.
	ErrInsufficientBalance = errors.New("token: insufficient balance")

	// ErrSupplyOverflow is returned when a mint would push the total
	// supply past 2^256-1.
	ErrSupplyOverflow = errors.New("token: total supply overflow")
)

// Token is the fungible-token surface the distribution system depends on.
// Implementations must apply each operation atomically: a failed transfer
// or mint leaves every balance untouched.
type Token interface {
	// Address identifies the token itself.
	Address() types.Address

	// TotalSupply returns the sum of all balances.
	TotalSupply() *uint256.Int

	// BalanceOf returns the balance of the given account. Unknown
	// accounts hold zero.
	BalanceOf(account types.Address) *uint256.Int

	// Transfer moves amount from one account to another. A nil or zero
	// amount is a successful no-op.
	Transfer(from, to types.Address, amount *uint256.Int) error

	// Mint credits amount to the given account, growing the supply.
	// A nil or zero amount is a successful no-op.
	Mint(to types.Address, amount *uint256.Int) error
}
