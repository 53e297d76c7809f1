package stateless

import (
	"fmt"

	"github.com/eth-act/zkvm-ethereum-mpt/core/types"
	"github.com/eth-act/zkvm-ethereum-mpt/log"
	"github.com/eth-act/zkvm-ethereum-mpt/rlp"
	"github.com/eth-act/zkvm-ethereum-mpt/trie"
	"github.com/holiman/uint256"
)

// SparseState is a two-level sparse state: an account trie revealed from a
// witness around the pre-state root, plus per-account storage tries
// revealed on first access. It implements StatelessTrie.
//
// Account and Storage are logically read-only but memoize storage tries
// internally, so a SparseState must not be shared between goroutines
// without external synchronization.
type SparseState struct {
	state    *trie.Trie
	storages map[types.Hash]*trie.Trie // keyed by hashed address
	nodes    map[types.Hash][]byte     // witness node RLP by digest
	logger   *log.Logger
}

var _ StatelessTrie = (*SparseState)(nil)

// NewSparseState hashes the witness nodes, reveals the account trie around
// preStateRoot and returns the state together with the witness bytecodes
// keyed by code hash.
func NewSparseState(witness *ExecutionWitness, preStateRoot types.Hash) (*SparseState, map[types.Hash][]byte, error) {
	nodes := witness.NodesByHash()
	state, err := trie.RevealFromRLP(preStateRoot, nodes)
	if err != nil {
		return nil, nil, err
	}
	if got := state.Hash(); got != preStateRoot {
		return nil, nil, fmt.Errorf("%w: revealed %s, want %s", ErrStateRootMismatch, got, preStateRoot)
	}
	s := &SparseState{
		state:    state,
		storages: make(map[types.Hash]*trie.Trie),
		nodes:    nodes,
		logger:   log.Default().Module("stateless"),
	}
	return s, witness.CodesByHash(), nil
}

// Account returns the account stored at address, or nil if absent. As a
// side effect the account's storage trie is revealed and memoized so that
// subsequent Storage calls can serve reads.
func (s *SparseState) Account(addr types.Address) (*types.Account, error) {
	hashedAddr := HashAddress(addr)
	data, err := s.state.Get(hashedAddr)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	acc, err := decodeAccount(data)
	if err != nil {
		// The canonical trie never stores an undecodable account, so this
		// is observationally equivalent to absence. It can also mask a
		// corrupt witness, hence the warning.
		s.logger.Warn("masking undecodable account value", "address", addr.Hex(), "err", err)
		return nil, nil
	}
	if _, ok := s.storages[hashedAddr]; !ok {
		var st *trie.Trie
		if acc.HasStorage() {
			if st, err = trie.RevealFromRLP(acc.Root, s.nodes); err != nil {
				return nil, err
			}
		} else {
			st = trie.New()
		}
		s.storages[hashedAddr] = st
	}
	return acc, nil
}

// Storage returns the value of the given slot, or zero when the slot is
// unset. The account's storage trie must have been memoized by a prior
// Account call; without it every slot reads as zero.
func (s *SparseState) Storage(addr types.Address, slot *uint256.Int) (*uint256.Int, error) {
	st, ok := s.storages[HashAddress(addr)]
	if !ok {
		return new(uint256.Int), nil
	}
	data, err := st.Get(HashSlot(slot))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return new(uint256.Int), nil
	}
	value := new(uint256.Int)
	if err := rlp.DecodeBytes(data, value); err != nil {
		return nil, fmt.Errorf("stateless: decode storage value: %w", err)
	}
	return value, nil
}

// CalculateStateRoot applies the post-state to the tries and returns the
// new account trie root. Surviving accounts are committed before destroyed
// accounts are removed, so an address that is both updated and destroyed in
// one batch ends up destroyed. Within an account, non-zero slot writes land
// before zero-value removals: a removal may collapse a branch, and the
// collapse must see every slot the batch keeps.
func (s *SparseState) CalculateStateRoot(post *HashedPostState) (types.Hash, error) {
	if post == nil {
		return s.state.Hash(), nil
	}

	var destroyed []types.Hash
	for hashedAddr, update := range post.Accounts {
		if update == nil {
			destroyed = append(destroyed, hashedAddr)
			continue
		}
		storageRoot, err := s.commitStorage(hashedAddr, post.Storages[hashedAddr])
		if err != nil {
			return types.Hash{}, err
		}
		acc := &types.Account{
			Nonce:   update.Nonce,
			Balance: update.Balance,
			Root:    storageRoot,
		}
		if update.CodeHash != nil {
			acc.CodeHash = update.CodeHash.Bytes()
		}
		enc, err := encodeAccount(acc)
		if err != nil {
			return types.Hash{}, err
		}
		if err := s.state.Insert(hashedAddr, enc); err != nil {
			return types.Hash{}, err
		}
	}

	for _, hashedAddr := range destroyed {
		if err := s.state.Remove(hashedAddr); err != nil {
			return types.Hash{}, err
		}
		delete(s.storages, hashedAddr)
	}

	return s.state.Hash(), nil
}

// commitStorage applies one account's storage changes and returns the new
// storage root.
func (s *SparseState) commitStorage(hashedAddr types.Hash, diff *StorageUpdate) (types.Hash, error) {
	if diff == nil {
		st, err := s.storageTrie(hashedAddr)
		if err != nil {
			return types.Hash{}, err
		}
		return st.Hash(), nil
	}

	var st *trie.Trie
	var err error
	if diff.Wiped {
		st = s.clearStorage(hashedAddr)
	} else if st, err = s.storageTrie(hashedAddr); err != nil {
		return types.Hash{}, err
	}

	for hashedSlot, value := range diff.Slots {
		if value == nil || value.IsZero() {
			continue
		}
		enc, err := rlp.EncodeToBytes(value)
		if err != nil {
			return types.Hash{}, err
		}
		if err := st.Insert(hashedSlot, enc); err != nil {
			return types.Hash{}, err
		}
	}
	for hashedSlot, value := range diff.Slots {
		if value != nil && !value.IsZero() {
			continue
		}
		if err := st.Remove(hashedSlot); err != nil {
			return types.Hash{}, err
		}
	}
	return st.Hash(), nil
}

// storageTrie returns the memoized storage trie for the account, revealing
// it from the witness against the account's storage root on first use.
func (s *SparseState) storageTrie(hashedAddr types.Hash) (*trie.Trie, error) {
	if st, ok := s.storages[hashedAddr]; ok {
		return st, nil
	}
	root := types.EmptyRootHash
	data, err := s.state.Get(hashedAddr)
	if err != nil {
		return nil, err
	}
	if data != nil {
		acc, err := decodeAccount(data)
		if err != nil {
			return nil, fmt.Errorf("stateless: account for storage commit: %w", err)
		}
		root = acc.Root
	}
	st, err := trie.RevealFromRLP(root, s.nodes)
	if err != nil {
		return nil, err
	}
	s.storages[hashedAddr] = st
	return st, nil
}

// clearStorage replaces the account's storage trie with a fresh empty one.
func (s *SparseState) clearStorage(hashedAddr types.Hash) *trie.Trie {
	st := trie.New()
	s.storages[hashedAddr] = st
	return st
}
