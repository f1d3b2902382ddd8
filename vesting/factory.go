package vesting

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/vestdrop/vestdrop/core/types"
	"github.com/vestdrop/vestdrop/geth"
	"github.com/vestdrop/vestdrop/log"
	"github.com/vestdrop/vestdrop/token"
)

var (
	// ErrZeroBeneficiary rejects locks vesting toward the zero address.
	ErrZeroBeneficiary = errors.New("vesting: zero beneficiary")

	// ErrWindowInverted rejects schedules whose start does not precede
	// their end.
	ErrWindowInverted = errors.New("vesting: start time not before end time")

	// ErrZeroPeriods rejects schedules with no vesting steps.
	ErrZeroPeriods = errors.New("vesting: zero vesting periods")

	// ErrNilToken rejects locks without a token to pay from.
	ErrNilToken = errors.New("vesting: nil token")
)

// Factory mints vesting locks with the fixed distribution template: no
// cliff, no release delay, revocable=false, delegation enabled, no
// administrator. Lock addresses derive from the factory address and a
// creation counter the way contract accounts derive from (deployer, nonce),
// so every lock gets a fresh, reproducible account.
type Factory struct {
	mu      sync.Mutex
	address types.Address
	nonce   uint64
	locks   map[types.Address]*Lock
	logger  *log.Logger
}

// NewFactory creates a factory deploying from the given address. A nil
// logger falls back to the package default.
func NewFactory(address types.Address, logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.Default()
	}
	return &Factory{
		address: address,
		locks:   make(map[types.Address]*Lock),
		logger:  logger.Module("vesting"),
	}
}

// Address returns the factory's deployer address.
func (f *Factory) Address() types.Address { return f.address }

// Create validates its arguments and, only then, mints a fresh lock bound
// to the template fields. A rejected argument leaves the factory untouched.
// A nil amount is managed as zero.
func (f *Factory) Create(beneficiary types.Address, amount *uint256.Int, startTime, endTime, periods uint64, tok token.Token) (*Lock, error) {
	if beneficiary.IsZero() {
		return nil, ErrZeroBeneficiary
	}
	if startTime >= endTime {
		return nil, fmt.Errorf("%w: start %d, end %d", ErrWindowInverted, startTime, endTime)
	}
	if periods == 0 {
		return nil, ErrZeroPeriods
	}
	if tok == nil {
		return nil, ErrNilToken
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	managed := new(uint256.Int)
	if amount != nil {
		managed.Set(amount)
	}

	lock := &Lock{
		address:       geth.ContractAddress(f.address, f.nonce),
		beneficiary:   beneficiary,
		managedAmount: managed,
		startTime:     startTime,
		endTime:       endTime,
		periods:       periods,

		releaseStartTime: 0,
		vestingCliffTime: 0,
		revocable:        false,
		canDelegate:      true,

		released: new(uint256.Int),
		token:    tok,
	}
	f.nonce++
	f.locks[lock.address] = lock

	f.logger.Info("lock created",
		"lock", lock.address,
		"beneficiary", beneficiary,
		"amount", managed,
		"start", startTime,
		"end", endTime,
		"periods", periods,
	)
	return lock, nil
}

// Lock returns the lock registered at the given address.
func (f *Factory) Lock(addr types.Address) (*Lock, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.locks[addr]
	return l, ok
}

// Count returns how many locks the factory has created.
func (f *Factory) Count() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nonce
}
