package stateless

import (
	"fmt"

	"github.com/eth-act/zkvm-ethereum-mpt/core/types"
	"github.com/eth-act/zkvm-ethereum-mpt/rlp"
	"github.com/holiman/uint256"
)

// trieAccount is the RLP shape of an account in the state trie:
// [nonce, balance, storageRoot, codeHash].
type trieAccount struct {
	Nonce    uint64
	Balance  *uint256.Int
	Root     []byte
	CodeHash []byte
}

// encodeAccount RLP-encodes an account for insertion into the account trie.
// A missing code hash encodes as the empty-code hash.
func encodeAccount(acc *types.Account) ([]byte, error) {
	balance := acc.Balance
	if balance == nil {
		balance = new(uint256.Int)
	}
	codeHash := acc.CodeHash
	if len(codeHash) == 0 {
		codeHash = types.EmptyCodeHash.Bytes()
	}
	return rlp.EncodeToBytes(trieAccount{
		Nonce:    acc.Nonce,
		Balance:  balance,
		Root:     acc.Root.Bytes(),
		CodeHash: codeHash,
	})
}

// decodeAccount decodes an RLP-encoded account value read from the account
// trie.
func decodeAccount(data []byte) (*types.Account, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, fmt.Errorf("decode account list: %w", err)
	}
	nonce, err := s.Uint64()
	if err != nil {
		return nil, fmt.Errorf("decode nonce: %w", err)
	}
	balance, err := s.Uint256()
	if err != nil {
		return nil, fmt.Errorf("decode balance: %w", err)
	}
	rootBytes, err := s.Bytes()
	if err != nil {
		return nil, fmt.Errorf("decode storage root: %w", err)
	}
	if len(rootBytes) != types.HashLength {
		return nil, fmt.Errorf("decode storage root: %d bytes", len(rootBytes))
	}
	codeHash, err := s.Bytes()
	if err != nil {
		return nil, fmt.Errorf("decode code hash: %w", err)
	}
	if len(codeHash) != types.HashLength {
		return nil, fmt.Errorf("decode code hash: %d bytes", len(codeHash))
	}
	if err := s.ListEnd(); err != nil {
		return nil, fmt.Errorf("decode account end: %w", err)
	}
	return &types.Account{
		Nonce:    nonce,
		Balance:  balance,
		Root:     types.BytesToHash(rootBytes),
		CodeHash: append([]byte(nil), codeHash...),
	}, nil
}
