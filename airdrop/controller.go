// Package airdrop implements the distribution controller: the single
// stateful component that owns a Merkle commitment to a set of
// (account, amount) entitlements, gates redemption on a fixed time window,
// tracks redeemed leaves in a ledger, and converts each successful claim
// into a freshly minted vesting lock funded with the claimed amount. After
// the window closes, the owner may sweep whatever balance remains.
package airdrop

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"github.com/ipfs/go-cid"

	"github.com/vestdrop/vestdrop/core/types"
	"github.com/vestdrop/vestdrop/log"
	"github.com/vestdrop/vestdrop/merkle"
	"github.com/vestdrop/vestdrop/token"
	"github.com/vestdrop/vestdrop/vesting"
)

// Redemption and recovery errors. Every failure aborts its operation with
// zero state mutation.
var (
	// ErrRedeemBeforeStart is returned when a redemption arrives before
	// the window opens.
	ErrRedeemBeforeStart = errors.New("airdrop: cannot redeem before start time")

	// ErrRedeemAfterDeadline is returned when a redemption arrives after
	// the window closes.
	ErrRedeemAfterDeadline = errors.New("airdrop: cannot redeem after deadline")

	// ErrLeafAlreadyRedeemed is returned when the (account, amount) leaf
	// is already in the redemption ledger.
	ErrLeafAlreadyRedeemed = errors.New("airdrop: leaf already redeemed")

	// ErrInvalidMerkleProof is returned when the proof does not place the
	// leaf under the committed root. The leaf hash binds both the account
	// and the amount, so a tampered amount fails here too.
	ErrInvalidMerkleProof = errors.New("airdrop: invalid merkle proof")

	// ErrRecoverBeforeDeadline is returned when recovery is attempted
	// while the window is still open or pending.
	ErrRecoverBeforeDeadline = errors.New("airdrop: cannot recover before deadline")

	// ErrNotOwner is returned when recovery is attempted by anyone other
	// than the configured owner.
	ErrNotOwner = errors.New("airdrop: caller is not the owner")

	// ErrNothingToRecover is returned, only when RejectEmptyRecovery is
	// set, for a recovery that would sweep a zero balance.
	ErrNothingToRecover = errors.New("airdrop: nothing to recover")

	// ErrInvalidConfig is returned by NewController for a configuration
	// that can never run a distribution.
	ErrInvalidConfig = errors.New("airdrop: invalid config")
)

// WindowStatus is the controller's global state, computed per call from the
// caller-supplied time. It is never stored.
type WindowStatus int

const (
	// WindowPending means the redemption window has not opened yet.
	WindowPending WindowStatus = iota
	// WindowOpen means redemptions are accepted.
	WindowOpen
	// WindowClosed means the deadline has passed; only recovery remains.
	WindowClosed
)

// String returns the status name.
func (s WindowStatus) String() string {
	switch s {
	case WindowPending:
		return "pending"
	case WindowOpen:
		return "open"
	case WindowClosed:
		return "closed"
	default:
		return fmt.Sprintf("WindowStatus(%d)", int(s))
	}
}

// Config carries the controller's construction parameters. Every field is
// fixed at construction and never changes.
type Config struct {
	// Address is the controller's own token account, the pool claims are
	// paid from.
	Address types.Address

	// Owner is the administrator allowed to recover residual tokens
	// after the deadline.
	Owner types.Address

	// MetadataCID identifies the off-system manifest describing the
	// committed set. It is carried, not interpreted.
	MetadataCID cid.Cid

	// Root is the 32-byte Merkle commitment to the entitlement set.
	Root types.Hash

	// StartTime and EndTime bound the redemption window, Unix seconds,
	// StartTime strictly before EndTime.
	StartTime uint64
	EndTime   uint64

	// Periods is the number of discrete vesting steps each lock gets.
	Periods uint64

	// Token is the fungible asset being distributed.
	Token token.Token

	// Factory mints the per-claim vesting locks.
	Factory *vesting.Factory

	// RejectEmptyRecovery makes a zero-balance RecoverTokens fail with
	// ErrNothingToRecover instead of succeeding as a no-op.
	RejectEmptyRecovery bool
}

// validate rejects configurations that can never run a distribution.
func (c *Config) validate() error {
	if c.Root.IsZero() {
		return fmt.Errorf("%w: zero merkle root", ErrInvalidConfig)
	}
	if c.StartTime >= c.EndTime {
		return fmt.Errorf("%w: start %d not before end %d", ErrInvalidConfig, c.StartTime, c.EndTime)
	}
	if c.Periods == 0 {
		return fmt.Errorf("%w: zero vesting periods", ErrInvalidConfig)
	}
	if c.Token == nil {
		return fmt.Errorf("%w: nil token", ErrInvalidConfig)
	}
	if c.Factory == nil {
		return fmt.Errorf("%w: nil factory", ErrInvalidConfig)
	}
	if c.Address.IsZero() {
		return fmt.Errorf("%w: zero controller address", ErrInvalidConfig)
	}
	if c.Owner.IsZero() {
		return fmt.Errorf("%w: zero owner", ErrInvalidConfig)
	}
	if !c.MetadataCID.Defined() {
		return fmt.Errorf("%w: undefined metadata CID", ErrInvalidConfig)
	}
	return nil
}

// Controller runs one distribution. All public methods are safe for
// concurrent use; each operation applies atomically, so no caller ever
// observes a partial effect.
type Controller struct {
	mu      sync.Mutex
	cfg     Config
	ledger  *RedemptionLedger
	journal []Event
	logger  *log.Logger
}

// NewController validates cfg and builds the controller around it. A nil
// ledger starts a fresh one; a nil logger falls back to the package
// default.
func NewController(cfg Config, ledger *RedemptionLedger, logger *log.Logger) (*Controller, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if ledger == nil {
		ledger = NewRedemptionLedger()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		cfg:    cfg,
		ledger: ledger,
		logger: logger.Module("airdrop"),
	}, nil
}

// Root returns the committed Merkle root.
func (c *Controller) Root() types.Hash { return c.cfg.Root }

// Window returns the redemption window bounds.
func (c *Controller) Window() (startTime, endTime uint64) {
	return c.cfg.StartTime, c.cfg.EndTime
}

// Periods returns the vesting step count locks are created with.
func (c *Controller) Periods() uint64 { return c.cfg.Periods }

// MetadataCID returns the content identifier of the committed-set manifest.
func (c *Controller) MetadataCID() cid.Cid { return c.cfg.MetadataCID }

// Owner returns the administrator account.
func (c *Controller) Owner() types.Address { return c.cfg.Owner }

// Address returns the controller's token account.
func (c *Controller) Address() types.Address { return c.cfg.Address }

// Token returns the distributed asset.
func (c *Controller) Token() token.Token { return c.cfg.Token }

// Ledger returns the redemption ledger the controller writes to.
func (c *Controller) Ledger() *RedemptionLedger { return c.ledger }

// Balance returns the controller's remaining pool.
func (c *Controller) Balance() *uint256.Int {
	return c.cfg.Token.BalanceOf(c.cfg.Address)
}

// Status computes the window state at the given time.
func (c *Controller) Status(now uint64) WindowStatus {
	switch {
	case now < c.cfg.StartTime:
		return WindowPending
	case now > c.cfg.EndTime:
		return WindowClosed
	default:
		return WindowOpen
	}
}

// IsRedeemed reports whether the exact (account, amount) pair has already
// been redeemed.
func (c *Controller) IsRedeemed(account types.Address, amount *uint256.Int) bool {
	return c.ledger.Contains(merkle.LeafHash(account, amount))
}

// Events returns a copy of the journal in emission order.
func (c *Controller) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.journal))
	copy(out, c.journal)
	return out
}

// Redeem processes one claim at the given time. It checks the window, the
// ledger, and the Merkle proof, in that order; on success it mints a
// vesting lock for the account, marks the leaf redeemed, moves exactly
// amount into the lock, and journals a TokensRedeemed record, which it also
// returns. Checks and effects form one atomic unit: any failure leaves
// every piece of state exactly as it was.
func (c *Controller) Redeem(account types.Address, amount *uint256.Int, proof []types.Hash, now uint64) (*TokensRedeemed, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now < c.cfg.StartTime {
		return nil, fmt.Errorf("%w: now %d, start %d", ErrRedeemBeforeStart, now, c.cfg.StartTime)
	}
	if now > c.cfg.EndTime {
		return nil, fmt.Errorf("%w: now %d, deadline %d", ErrRedeemAfterDeadline, now, c.cfg.EndTime)
	}

	leaf := merkle.LeafHash(account, amount)
	if c.ledger.Contains(leaf) {
		return nil, fmt.Errorf("%w: leaf %s", ErrLeafAlreadyRedeemed, leaf)
	}
	if !merkle.VerifyProof(c.cfg.Root, leaf, proof) {
		return nil, fmt.Errorf("%w: leaf %s", ErrInvalidMerkleProof, leaf)
	}

	claimed := new(uint256.Int)
	if amount != nil {
		claimed.Set(amount)
	}

	// Last fallible check before any mutation: the pool must cover the
	// claim, so the transfer below cannot fail midway.
	if bal := c.cfg.Token.BalanceOf(c.cfg.Address); bal.Lt(claimed) {
		return nil, fmt.Errorf("%w: pool holds %s, claim needs %s",
			token.ErrInsufficientBalance, bal, claimed)
	}

	// The factory validates before mutating, so a rejection here still
	// leaves zero state anywhere.
	lock, err := c.cfg.Factory.Create(account, claimed, c.cfg.StartTime, c.cfg.EndTime, c.cfg.Periods, c.cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("airdrop: lock creation failed: %w", err)
	}

	c.ledger.Add(leaf)
	if err := c.cfg.Token.Transfer(c.cfg.Address, lock.Address(), claimed); err != nil {
		// Unreachable after the balance check; surfaced rather than
		// swallowed in case the token misbehaves.
		return nil, fmt.Errorf("airdrop: funding lock: %w", err)
	}

	ev := &TokensRedeemed{
		Account: account,
		Amount:  new(uint256.Int).Set(claimed),
		Lock:    lock.Address(),
	}
	c.journal = append(c.journal, ev)
	c.logger.Info("tokens redeemed",
		"account", account,
		"amount", claimed,
		"lock", lock.Address(),
	)
	return ev, nil
}

// RecoverTokens sweeps the controller's entire remaining balance to the
// owner. Only the owner may call it, and only after the deadline. By
// default a zero-balance sweep succeeds and recovers zero; with
// RejectEmptyRecovery set it fails with ErrNothingToRecover. The journaled
// TokensRecovered record is also returned.
func (c *Controller) RecoverTokens(caller types.Address, now uint64) (*TokensRecovered, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.cfg.Owner {
		return nil, fmt.Errorf("%w: caller %s", ErrNotOwner, caller)
	}
	if now <= c.cfg.EndTime {
		return nil, fmt.Errorf("%w: now %d, deadline %d", ErrRecoverBeforeDeadline, now, c.cfg.EndTime)
	}

	remaining := c.cfg.Token.BalanceOf(c.cfg.Address)
	if remaining.IsZero() && c.cfg.RejectEmptyRecovery {
		return nil, ErrNothingToRecover
	}
	if err := c.cfg.Token.Transfer(c.cfg.Address, c.cfg.Owner, remaining); err != nil {
		return nil, fmt.Errorf("airdrop: recovery transfer: %w", err)
	}

	ev := &TokensRecovered{
		Owner:  c.cfg.Owner,
		Amount: remaining,
	}
	c.journal = append(c.journal, ev)
	c.logger.Info("tokens recovered", "owner", c.cfg.Owner, "amount", remaining)
	return ev, nil
}
