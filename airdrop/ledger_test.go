package airdrop

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/vestdrop/vestdrop/core/types"
	"github.com/vestdrop/vestdrop/merkle"
)

func TestRedemptionLedger_Empty(t *testing.T) {
	l := NewRedemptionLedger()
	if l.Len() != 0 {
		t.Fatalf("new ledger has len %d, want 0", l.Len())
	}
	if l.Contains(types.HexToHash("0x01")) {
		t.Fatal("empty ledger claims to contain a leaf")
	}
	if len(l.Hashes()) != 0 {
		t.Fatal("empty ledger returned hashes")
	}
}

func TestRedemptionLedger_AddAndContains(t *testing.T) {
	l := NewRedemptionLedger()
	leaf := merkle.LeafHash(types.HexToAddress("0xa1"), uint256.NewInt(100))

	if !l.Add(leaf) {
		t.Fatal("first Add returned false")
	}
	if !l.Contains(leaf) {
		t.Fatal("ledger does not contain added leaf")
	}
	if l.Len() != 1 {
		t.Fatalf("len = %d, want 1", l.Len())
	}
}

func TestRedemptionLedger_AddIsIdempotent(t *testing.T) {
	l := NewRedemptionLedger()
	leaf := types.HexToHash("0xbeef")

	l.Add(leaf)
	if l.Add(leaf) {
		t.Fatal("second Add of the same leaf returned true")
	}
	if l.Len() != 1 {
		t.Fatalf("len = %d after duplicate add, want 1", l.Len())
	}
}

func TestRedemptionLedger_PairSensitivity(t *testing.T) {
	// The ledger keys on the (account, amount) leaf hash: the same
	// account with a different amount is a distinct entry.
	l := NewRedemptionLedger()
	account := types.HexToAddress("0xa1")

	l.Add(merkle.LeafHash(account, uint256.NewInt(100)))
	if l.Contains(merkle.LeafHash(account, uint256.NewInt(200))) {
		t.Fatal("ledger conflated two amounts for the same account")
	}
	l.Add(merkle.LeafHash(account, uint256.NewInt(200)))
	if l.Len() != 2 {
		t.Fatalf("len = %d, want 2", l.Len())
	}
}

func TestRedemptionLedger_Hashes(t *testing.T) {
	l := NewRedemptionLedger()
	leaves := []types.Hash{
		types.HexToHash("0x01"),
		types.HexToHash("0x02"),
		types.HexToHash("0x03"),
	}
	for _, h := range leaves {
		l.Add(h)
	}

	got := make(map[types.Hash]bool)
	for _, h := range l.Hashes() {
		got[h] = true
	}
	if len(got) != len(leaves) {
		t.Fatalf("Hashes returned %d distinct entries, want %d", len(got), len(leaves))
	}
	for _, h := range leaves {
		if !got[h] {
			t.Fatalf("Hashes missing %s", h)
		}
	}
}
