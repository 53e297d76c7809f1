package stateless

import (
	"errors"

	"github.com/eth-act/zkvm-ethereum-mpt/core/types"
	"github.com/holiman/uint256"
)

var (
	// ErrStateRootMismatch is returned when the trie revealed from the
	// witness does not hash to the expected pre-state root.
	ErrStateRootMismatch = errors.New("stateless: witness does not match pre-state root")
)

// StatelessTrie is the state access surface the block validator executes
// against. Account and Storage serve reads during execution;
// CalculateStateRoot commits the execution output and produces the
// post-state root the block header must carry.
type StatelessTrie interface {
	// Account returns the account stored at address, or nil if absent.
	Account(addr types.Address) (*types.Account, error)

	// Storage returns the value of the given slot. It requires a prior
	// Account call for the address; unknown slots read as zero.
	Storage(addr types.Address, slot *uint256.Int) (*uint256.Int, error)

	// CalculateStateRoot applies the post-state changes and returns the new
	// state root.
	CalculateStateRoot(post *HashedPostState) (types.Hash, error)
}
