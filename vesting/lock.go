// Package vesting implements per-claim vesting locks and the factory that
// mints them. A lock holds one beneficiary's tokens and pays them out along
// a discrete schedule fixed at creation. Factory-made locks are never
// revocable and have no administrator; only the beneficiary, or a delegate
// the beneficiary appoints, can trigger a release, and released funds
// always land with the beneficiary.
package vesting

import (
	"errors"
	"sync"

	"github.com/holiman/uint256"

	"github.com/vestdrop/vestdrop/core/types"
	"github.com/vestdrop/vestdrop/token"
)

var (
	// ErrNotBeneficiary is returned when someone other than the
	// beneficiary tries to manage the lock's delegation.
	ErrNotBeneficiary = errors.New("vesting: caller is not the beneficiary")

	// ErrNotAuthorized is returned when a release is triggered by an
	// account that is neither the beneficiary nor its delegate.
	ErrNotAuthorized = errors.New("vesting: caller may not release")

	// ErrNothingDue is returned when a release finds no releasable amount.
	ErrNothingDue = errors.New("vesting: nothing releasable")

	// ErrNotRevocable is returned by Revoke: factory-made locks are
	// constructed with revocable=false and no revocation path exists.
	ErrNotRevocable = errors.New("vesting: lock is not revocable")

	// ErrDelegationDisabled is returned when delegation is attempted on a
	// lock whose canDelegate flag is off.
	ErrDelegationDisabled = errors.New("vesting: delegation disabled")
)

// Lock is a single vesting grant. It owns the token balance sitting at its
// address and tracks how much of the managed amount has been released.
type Lock struct {
	mu sync.Mutex

	address     types.Address
	beneficiary types.Address
	delegate    types.Address // zero when unset

	managedAmount *uint256.Int
	startTime     uint64
	endTime       uint64
	periods       uint64

	// Template fields, fixed for every factory-made lock.
	releaseStartTime uint64
	vestingCliffTime uint64
	revocable        bool
	canDelegate      bool

	released *uint256.Int
	token    token.Token
}

// Address returns the lock's own token account.
func (l *Lock) Address() types.Address { return l.address }

// Beneficiary returns the account the lock vests toward.
func (l *Lock) Beneficiary() types.Address { return l.beneficiary }

// ManagedAmount returns a copy of the total amount under management.
func (l *Lock) ManagedAmount() *uint256.Int {
	return new(uint256.Int).Set(l.managedAmount)
}

// StartTime returns the schedule start, Unix seconds.
func (l *Lock) StartTime() uint64 { return l.startTime }

// EndTime returns the schedule end, Unix seconds.
func (l *Lock) EndTime() uint64 { return l.endTime }

// Periods returns the number of discrete vesting steps.
func (l *Lock) Periods() uint64 { return l.periods }

// ReleaseStartTime is zero for factory-made locks: releases are allowed as
// soon as anything has vested.
func (l *Lock) ReleaseStartTime() uint64 { return l.releaseStartTime }

// VestingCliffTime is zero for factory-made locks: the schedule has no cliff.
func (l *Lock) VestingCliffTime() uint64 { return l.vestingCliffTime }

// Revocable reports whether the lock can be revoked. Always false for
// factory-made locks.
func (l *Lock) Revocable() bool { return l.revocable }

// CanDelegate reports whether the beneficiary may appoint a delegate.
// Always true for factory-made locks.
func (l *Lock) CanDelegate() bool { return l.canDelegate }

// Delegate returns the currently appointed delegate, or the zero address.
func (l *Lock) Delegate() types.Address {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.delegate
}

// Released returns a copy of the total amount already paid out.
func (l *Lock) Released() *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(uint256.Int).Set(l.released)
}

// VestedAt returns how much of the managed amount has vested at the given
// time: zero before startTime, everything at or after endTime, and a
// step function over the configured periods in between.
func (l *Lock) VestedAt(now uint64) *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.vestedAt(now)
}

// vestedAt computes the schedule. Callers hold l.mu.
func (l *Lock) vestedAt(now uint64) *uint256.Int {
	if now < l.startTime {
		return new(uint256.Int)
	}
	if now >= l.endTime {
		return new(uint256.Int).Set(l.managedAmount)
	}

	periodLen := (l.endTime - l.startTime) / l.periods
	if periodLen == 0 {
		// Degenerate schedule: more periods than seconds. Every second
		// completes one step.
		periodLen = 1
	}
	steps := (now - l.startTime) / periodLen
	if steps > l.periods {
		steps = l.periods
	}
	return stepAmount(l.managedAmount, steps, l.periods)
}

// stepAmount returns floor(total * steps / periods) without overflowing a
// 256-bit word. With total = q*periods + r the result is q*steps plus
// r*steps/periods, and both products stay in range: q*steps <= total, and
// r*steps fits in 128 bits since r and steps are below 2^64.
func stepAmount(total *uint256.Int, steps, periods uint64) *uint256.Int {
	q := new(uint256.Int)
	r := new(uint256.Int)
	q.DivMod(total, uint256.NewInt(periods), r)

	vested := q.Mul(q, uint256.NewInt(steps))
	rem := r.Mul(r, uint256.NewInt(steps))
	rem.Div(rem, uint256.NewInt(periods))
	return vested.Add(vested, rem)
}

// ReleasableAt returns the vested amount not yet released at the given time.
func (l *Lock) ReleasableAt(now uint64) *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.releasableAt(now)
}

func (l *Lock) releasableAt(now uint64) *uint256.Int {
	vested := l.vestedAt(now)
	if vested.Lt(l.released) {
		return new(uint256.Int)
	}
	return vested.Sub(vested, l.released)
}

// Release pays the currently releasable amount to the beneficiary. The
// caller must be the beneficiary or its delegate; the payout destination is
// the beneficiary either way. Returns the amount released, or ErrNothingDue
// when the schedule has nothing to pay. A failed token transfer leaves the
// released counter untouched.
func (l *Lock) Release(caller types.Address, now uint64) (*uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.beneficiary && (l.delegate.IsZero() || caller != l.delegate) {
		return nil, ErrNotAuthorized
	}

	due := l.releasableAt(now)
	if due.IsZero() {
		return nil, ErrNothingDue
	}
	if err := l.token.Transfer(l.address, l.beneficiary, due); err != nil {
		return nil, err
	}
	l.released.Add(l.released, due)
	return due, nil
}

// SetDelegate appoints an account allowed to trigger releases on the
// beneficiary's behalf. Only the beneficiary may call it, and only on locks
// created with delegation enabled. The zero address clears any standing
// delegation.
func (l *Lock) SetDelegate(caller, to types.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.beneficiary {
		return ErrNotBeneficiary
	}
	if !l.canDelegate {
		return ErrDelegationDisabled
	}
	l.delegate = to
	return nil
}

// Revoke always fails with ErrNotRevocable. Locks leave the factory with
// revocable=false and there is no administrator to revoke toward.
func (l *Lock) Revoke(types.Address) error {
	return ErrNotRevocable
}
