package token

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/vestdrop/vestdrop/core/types"
)

var (
	tokenAddr = types.HexToAddress("0x00000000000000000000000000000000000000f0")
	alice     = types.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob       = types.HexToAddress("0x00000000000000000000000000000000000000b2")
)

func TestLedgerToken_Address(t *testing.T) {
	tok := NewLedgerToken(tokenAddr)
	if tok.Address() != tokenAddr {
		t.Fatalf("address mismatch: got %s", tok.Address())
	}
}

func TestLedgerToken_MintAndBalance(t *testing.T) {
	tok := NewLedgerToken(tokenAddr)

	if !tok.BalanceOf(alice).IsZero() {
		t.Fatal("unknown account should hold zero")
	}
	if !tok.TotalSupply().IsZero() {
		t.Fatal("fresh token should have zero supply")
	}

	if err := tok.Mint(alice, uint256.NewInt(1000)); err != nil {
		t.Fatal(err)
	}
	if got := tok.BalanceOf(alice); got.Uint64() != 1000 {
		t.Fatalf("balance: got %s, want 1000", got)
	}
	if got := tok.TotalSupply(); got.Uint64() != 1000 {
		t.Fatalf("supply: got %s, want 1000", got)
	}

	if err := tok.Mint(alice, uint256.NewInt(500)); err != nil {
		t.Fatal(err)
	}
	if got := tok.BalanceOf(alice); got.Uint64() != 1500 {
		t.Fatalf("balance after second mint: got %s, want 1500", got)
	}
}

func TestLedgerToken_MintZeroNoOp(t *testing.T) {
	tok := NewLedgerToken(tokenAddr)

	if err := tok.Mint(alice, uint256.NewInt(0)); err != nil {
		t.Fatalf("zero mint should succeed: %v", err)
	}
	if err := tok.Mint(alice, nil); err != nil {
		t.Fatalf("nil mint should succeed: %v", err)
	}
	if !tok.TotalSupply().IsZero() {
		t.Fatal("no-op mints should not change supply")
	}
}

func TestLedgerToken_MintOverflow(t *testing.T) {
	tok := NewLedgerToken(tokenAddr)

	max := new(uint256.Int).SetAllOne()
	if err := tok.Mint(alice, max); err != nil {
		t.Fatal(err)
	}
	err := tok.Mint(bob, uint256.NewInt(1))
	if !errors.Is(err, ErrSupplyOverflow) {
		t.Fatalf("expected ErrSupplyOverflow, got %v", err)
	}

	// Nothing moved on the failed mint.
	if !tok.BalanceOf(bob).IsZero() {
		t.Fatal("failed mint credited the recipient")
	}
	if tok.TotalSupply().Cmp(max) != 0 {
		t.Fatal("failed mint changed the supply")
	}
}

func TestLedgerToken_Transfer(t *testing.T) {
	tok := NewLedgerToken(tokenAddr)
	if err := tok.Mint(alice, uint256.NewInt(300)); err != nil {
		t.Fatal(err)
	}

	if err := tok.Transfer(alice, bob, uint256.NewInt(100)); err != nil {
		t.Fatal(err)
	}
	if got := tok.BalanceOf(alice); got.Uint64() != 200 {
		t.Fatalf("sender balance: got %s, want 200", got)
	}
	if got := tok.BalanceOf(bob); got.Uint64() != 100 {
		t.Fatalf("recipient balance: got %s, want 100", got)
	}

	// Transfers conserve supply.
	if got := tok.TotalSupply(); got.Uint64() != 300 {
		t.Fatalf("supply after transfer: got %s, want 300", got)
	}
}

func TestLedgerToken_TransferInsufficient(t *testing.T) {
	tok := NewLedgerToken(tokenAddr)
	if err := tok.Mint(alice, uint256.NewInt(50)); err != nil {
		t.Fatal(err)
	}

	err := tok.Transfer(alice, bob, uint256.NewInt(51))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := tok.BalanceOf(alice); got.Uint64() != 50 {
		t.Fatal("failed transfer debited the sender")
	}
	if !tok.BalanceOf(bob).IsZero() {
		t.Fatal("failed transfer credited the recipient")
	}

	// An account the token has never seen cannot send anything.
	err = tok.Transfer(bob, alice, uint256.NewInt(1))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestLedgerToken_TransferZeroNoOp(t *testing.T) {
	tok := NewLedgerToken(tokenAddr)

	// Zero transfers succeed even from unfunded accounts.
	if err := tok.Transfer(alice, bob, uint256.NewInt(0)); err != nil {
		t.Fatalf("zero transfer should succeed: %v", err)
	}
	if err := tok.Transfer(alice, bob, nil); err != nil {
		t.Fatalf("nil transfer should succeed: %v", err)
	}
}

func TestLedgerToken_SelfTransfer(t *testing.T) {
	tok := NewLedgerToken(tokenAddr)
	if err := tok.Mint(alice, uint256.NewInt(75)); err != nil {
		t.Fatal(err)
	}

	if err := tok.Transfer(alice, alice, uint256.NewInt(75)); err != nil {
		t.Fatal(err)
	}
	if got := tok.BalanceOf(alice); got.Uint64() != 75 {
		t.Fatalf("self-transfer changed the balance: got %s", got)
	}

	// Still bounded by the actual balance.
	err := tok.Transfer(alice, alice, uint256.NewInt(76))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestLedgerToken_ReturnedValuesAreCopies(t *testing.T) {
	tok := NewLedgerToken(tokenAddr)
	if err := tok.Mint(alice, uint256.NewInt(10)); err != nil {
		t.Fatal(err)
	}

	tok.BalanceOf(alice).SetUint64(9999)
	if got := tok.BalanceOf(alice); got.Uint64() != 10 {
		t.Fatalf("BalanceOf leaked internal state: got %s", got)
	}

	tok.TotalSupply().SetUint64(9999)
	if got := tok.TotalSupply(); got.Uint64() != 10 {
		t.Fatalf("TotalSupply leaked internal state: got %s", got)
	}
}
