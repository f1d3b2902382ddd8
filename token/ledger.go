package token

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/vestdrop/vestdrop/core/types"
)

// LedgerToken is the reference Token: a mutex-guarded balance map. Returned
// amounts are copies, so callers can never reach internal state through
// them.
type LedgerToken struct {
	mu       sync.RWMutex
	address  types.Address
	balances map[types.Address]*uint256.Int
	supply   *uint256.Int
}

// NewLedgerToken creates an empty token identified by address.
func NewLedgerToken(address types.Address) *LedgerToken {
	return &LedgerToken{
		address:  address,
		balances: make(map[types.Address]*uint256.Int),
		supply:   new(uint256.Int),
	}
}

// Address returns the token's own identifier.
func (t *LedgerToken) Address() types.Address {
	return t.address
}

// TotalSupply returns a copy of the current supply.
func (t *LedgerToken) TotalSupply() *uint256.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return new(uint256.Int).Set(t.supply)
}

// BalanceOf returns a copy of the account's balance. Unknown accounts hold
// zero.
func (t *LedgerToken) BalanceOf(account types.Address) *uint256.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if bal := t.balances[account]; bal != nil {
		return new(uint256.Int).Set(bal)
	}
	return new(uint256.Int)
}

// Transfer moves amount from one account to another. It fails with
// ErrInsufficientBalance, touching nothing, when the sender holds less than
// amount. A nil or zero amount succeeds without effect, as does a funded
// self-transfer.
func (t *LedgerToken) Transfer(from, to types.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	fromBal := t.balances[from]
	if fromBal == nil || fromBal.Lt(amount) {
		have := new(uint256.Int)
		if fromBal != nil {
			have.Set(fromBal)
		}
		return fmt.Errorf("%w: %s holds %s, needs %s", ErrInsufficientBalance, from, have, amount)
	}
	if from == to {
		return nil
	}

	fromBal.Sub(fromBal, amount)
	toBal := t.balances[to]
	if toBal == nil {
		toBal = new(uint256.Int)
		t.balances[to] = toBal
	}
	toBal.Add(toBal, amount)
	return nil
}

// Mint credits amount to the given account. It fails with ErrSupplyOverflow,
// touching nothing, when the total supply would exceed 2^256-1. A nil or
// zero amount succeeds without effect.
func (t *LedgerToken) Mint(to types.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	newSupply, overflow := new(uint256.Int).AddOverflow(t.supply, amount)
	if overflow {
		return fmt.Errorf("%w: %s + %s", ErrSupplyOverflow, t.supply, amount)
	}
	t.supply = newSupply

	bal := t.balances[to]
	if bal == nil {
		bal = new(uint256.Int)
		t.balances[to] = bal
	}
	bal.Add(bal, amount)
	return nil
}
