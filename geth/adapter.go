// Package geth adapts vestdrop types onto go-ethereum. This is the only
// package that imports go-ethereum directly; every other vestdrop package
// uses vestdrop/core/types.
package geth

import (
	gethcommon "github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/vestdrop/vestdrop/core/types"
)

// --- Address and Hash conversion (layout-compatible) ---

// ToGethAddress converts a vestdrop Address to a go-ethereum Address.
func ToGethAddress(a types.Address) gethcommon.Address {
	return gethcommon.Address(a)
}

// FromGethAddress converts a go-ethereum Address to a vestdrop Address.
func FromGethAddress(a gethcommon.Address) types.Address {
	return types.Address(a)
}

// ToGethHash converts a vestdrop Hash to a go-ethereum Hash.
func ToGethHash(h types.Hash) gethcommon.Hash {
	return gethcommon.Hash(h)
}

// FromGethHash converts a go-ethereum Hash to a vestdrop Hash.
func FromGethHash(h gethcommon.Hash) types.Hash {
	return types.Hash(h)
}

// --- Instance address derivation ---

// ContractAddress derives the address of the nth instance created by
// deployer, following the CREATE rule: keccak256(rlp(deployer, nonce))[12:].
// The lock factory uses it to give each vesting lock a fresh account.
func ContractAddress(deployer types.Address, nonce uint64) types.Address {
	return FromGethAddress(gethcrypto.CreateAddress(ToGethAddress(deployer), nonce))
}
