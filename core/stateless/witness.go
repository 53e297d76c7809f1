// Package stateless implements the sparse two-level state a stateless
// block validator executes against: an account trie and lazily revealed
// per-account storage tries, both reconstructed from an execution witness.
package stateless

import (
	"github.com/eth-act/zkvm-ethereum-mpt/core/types"
	"github.com/eth-act/zkvm-ethereum-mpt/crypto"
)

// ExecutionWitness is the bundle a block producer ships alongside a block
// so it can be validated without local state: trie node preimages, contract
// bytecodes, the accessed keys and the ancestor headers. Keys and Headers
// are carried for the surrounding validator and are not consumed here.
type ExecutionWitness struct {
	// State holds RLP-encoded MPT nodes, unordered; unreachable nodes are
	// tolerated.
	State [][]byte
	// Codes holds the bytecodes of every contract the block touches.
	Codes [][]byte
	// Keys holds the accessed state keys (opaque to the state layer).
	Keys [][]byte
	// Headers holds RLP-encoded ancestor headers (opaque to the state layer).
	Headers [][]byte
}

// NodesByHash hashes every witness state blob once and returns the
// digest-to-RLP map the reveal engine consumes.
func (w *ExecutionWitness) NodesByHash() map[types.Hash][]byte {
	nodes := make(map[types.Hash][]byte, len(w.State))
	for _, enc := range w.State {
		nodes[crypto.Keccak256Hash(enc)] = enc
	}
	return nodes
}

// CodesByHash returns the witness bytecodes keyed by their Keccak hash.
func (w *ExecutionWitness) CodesByHash() map[types.Hash][]byte {
	codes := make(map[types.Hash][]byte, len(w.Codes))
	for _, code := range w.Codes {
		codes[crypto.Keccak256Hash(code)] = code
	}
	return codes
}
