package types

import (
	"github.com/holiman/uint256"
)

// Account is the consensus representation of an Ethereum account as stored
// in the state trie: [nonce, balance, storageRoot, codeHash].
type Account struct {
	Nonce    uint64
	Balance  *uint256.Int
	Root     Hash   // storage trie root (EmptyRootHash for no storage)
	CodeHash []byte // keccak256 of code (EmptyCodeHash for EOAs)
}

// NewAccount creates a new account with zero balance, no storage and no code.
func NewAccount() *Account {
	return &Account{
		Balance:  new(uint256.Int),
		Root:     EmptyRootHash,
		CodeHash: EmptyCodeHash.Bytes(),
	}
}

// HasStorage reports whether the account has a non-empty storage trie.
func (a *Account) HasStorage() bool {
	return a.Root != EmptyRootHash
}
