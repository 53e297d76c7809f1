package stateless

import (
	"github.com/eth-act/zkvm-ethereum-mpt/core/types"
	"github.com/eth-act/zkvm-ethereum-mpt/crypto"
	"github.com/holiman/uint256"
)

// HashedPostState is the set of account and storage changes produced by
// executing a block, keyed by hashed address and hashed slot.
type HashedPostState struct {
	// Accounts maps keccak256(address) to the account's post-state. A nil
	// entry marks the account as destroyed.
	Accounts map[types.Hash]*AccountUpdate
	// Storages maps keccak256(address) to that account's storage changes.
	Storages map[types.Hash]*StorageUpdate
}

// AccountUpdate is the post-execution shape of a surviving account. The
// storage root is not part of the update; it is recomputed from the storage
// trie during the commit.
type AccountUpdate struct {
	Nonce   uint64
	Balance *uint256.Int
	// CodeHash is nil for accounts without code; the empty code hash is
	// substituted at encoding time.
	CodeHash *types.Hash
}

// StorageUpdate is the per-account set of storage changes.
type StorageUpdate struct {
	// Wiped requests that the whole storage trie be discarded before the
	// slot changes are applied (SELFDESTRUCT-then-recreate semantics).
	Wiped bool
	// Slots maps keccak256(slot) to the post value; zero values mark
	// deletions.
	Slots map[types.Hash]*uint256.Int
}

// NewHashedPostState creates an empty post-state.
func NewHashedPostState() *HashedPostState {
	return &HashedPostState{
		Accounts: make(map[types.Hash]*AccountUpdate),
		Storages: make(map[types.Hash]*StorageUpdate),
	}
}

// HashAddress returns the account trie key of an address.
func HashAddress(addr types.Address) types.Hash {
	return crypto.Keccak256Hash(addr.Bytes())
}

// HashSlot returns the storage trie key of a slot number.
func HashSlot(slot *uint256.Int) types.Hash {
	b := slot.Bytes32()
	return crypto.Keccak256Hash(b[:])
}
