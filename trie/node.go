package trie

import "github.com/eth-act/zkvm-ethereum-mpt/core/types"

// node is the closed set of trie node shapes. There is no extension node:
// branch and digest nodes carry an optional path prefix instead, and the
// canonical extension form is re-materialized at encode time. Every node
// memoizes its canonical hash; the cache is cleared on every mutating
// descent and repopulated by hashing.
type node interface {
	cachedHash() *types.Hash
	setCache(types.Hash)
	invalidate()
}

// leafNode is a terminal node. path is the key suffix remaining from the
// point the leaf is reached; value is the stored payload.
type leafNode struct {
	path  Nibbles
	value []byte
	hash  *types.Hash
}

// branchNode is a 16-way fan-out. path is a fused extension prefix consumed
// before the dispatch nibble; the branch value slot of the canonical
// encoding is always empty in state and storage tries.
type branchNode struct {
	path     Nibbles
	children childSet
	hash     *types.Hash
}

// digestNode stands in for an unrevealed subtree. digest is the Keccak root
// of the hidden subtree; path is an optional fused extension prefix in
// front of it.
type digestNode struct {
	path   Nibbles
	digest types.Hash
	hash   *types.Hash
}

func (n *leafNode) cachedHash() *types.Hash   { return n.hash }
func (n *branchNode) cachedHash() *types.Hash { return n.hash }
func (n *digestNode) cachedHash() *types.Hash { return n.hash }

func (n *leafNode) setCache(h types.Hash)   { n.hash = &h }
func (n *branchNode) setCache(h types.Hash) { n.hash = &h }
func (n *digestNode) setCache(h types.Hash) { n.hash = &h }

func (n *leafNode) invalidate()   { n.hash = nil }
func (n *branchNode) invalidate() { n.hash = nil }
func (n *digestNode) invalidate() { n.hash = nil }

// newBranch builds a branch with two children, the shape every split
// produces.
func newBranch(path Nibbles, i1 byte, c1 node, i2 byte, c2 node) *branchNode {
	b := &branchNode{path: path}
	b.children.put(i1, c1)
	b.children.put(i2, c2)
	return b
}
