package airdrop

import (
	"sync"

	"github.com/vestdrop/vestdrop/core/types"
)

// RedemptionLedger records which committed leaves have already been
// redeemed. Entries are leaf hashes, so the ledger keys on the exact
// (account, amount) pair; the same account committed with a different
// amount is a different entry. The set only grows: an entry, once added,
// is never removed, and its presence is the sole authority on "already
// claimed".
//
// A ledger is constructed independently and handed to the controller by
// reference. There is exactly one controller per deployment, so no
// process-wide instance exists.
type RedemptionLedger struct {
	mu       sync.RWMutex
	redeemed map[types.Hash]struct{}
}

// NewRedemptionLedger creates an empty ledger.
func NewRedemptionLedger() *RedemptionLedger {
	return &RedemptionLedger{
		redeemed: make(map[types.Hash]struct{}),
	}
}

// Contains reports whether the leaf has been redeemed.
func (l *RedemptionLedger) Contains(leaf types.Hash) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.redeemed[leaf]
	return ok
}

// Add marks the leaf as redeemed. It reports whether the leaf was newly
// added; re-adding an existing entry changes nothing and returns false.
func (l *RedemptionLedger) Add(leaf types.Hash) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.redeemed[leaf]; ok {
		return false
	}
	l.redeemed[leaf] = struct{}{}
	return true
}

// Len returns the number of redeemed leaves.
func (l *RedemptionLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.redeemed)
}

// Hashes returns the redeemed leaf hashes in unspecified order.
func (l *RedemptionLedger) Hashes() []types.Hash {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]types.Hash, 0, len(l.redeemed))
	for h := range l.redeemed {
		out = append(out, h)
	}
	return out
}
