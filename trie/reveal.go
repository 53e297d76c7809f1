package trie

import (
	"github.com/eth-act/zkvm-ethereum-mpt/core/types"
)

// RevealFromRLP builds a trie from a root hash and a digest-to-RLP node
// map, materializing every subtree the map covers. Hashes absent from the
// map stay behind digest placeholders. Revealing is idempotent and
// monotone: a superset map yields an equally- or more-materialized trie
// with the same root hash.
func RevealFromRLP(rootHash types.Hash, nodes map[types.Hash][]byte) (*Trie, error) {
	t := New()
	if rootHash == types.EmptyRootHash {
		return t, nil
	}
	root := &digestNode{digest: rootHash}
	root.setCache(rootHash)
	n, err := revealNode(root, nodes)
	if err != nil {
		return nil, err
	}
	t.root = n
	return t, nil
}

// revealNode expands digests below n against the node map and returns the
// replacement node.
func revealNode(n node, nodes map[types.Hash][]byte) (node, error) {
	switch n := n.(type) {
	case *leafNode:
		return n, nil

	case *branchNode:
		for i := byte(0); i < 16; i++ {
			child := n.children.get(i)
			if child == nil {
				continue
			}
			nn, err := revealNode(child, nodes)
			if err != nil {
				return nil, err
			}
			n.children.put(i, nn)
		}
		return n, nil

	case *digestNode:
		enc, ok := nodes[n.digest]
		if !ok {
			return n, nil
		}
		decoded, err := decodeNode(enc)
		if err != nil {
			return nil, err
		}
		if decoded == nil {
			return nil, errInvalidNode("digest preimage is the empty node")
		}
		if d, ok := decoded.(*digestNode); ok && len(d.path) == 0 {
			// The preimage names another bare hash: nothing new revealed.
			return n, nil
		}
		// The digest's node hash must be fixed before its fused prefix is
		// spliced onto the revealed node, so the seeded cache matches the
		// spliced node's canonical encoding.
		seed := hashNode(n)
		splicePrefix(decoded, n.path)
		decoded.setCache(seed)
		return revealNode(decoded, nodes)
	}
	return n, nil
}

// splicePrefix prepends the fused extension prefix a digest carried onto
// the node revealed in its place. On canonical input at most one of the two
// paths is non-empty.
func splicePrefix(n node, prefix Nibbles) {
	if len(prefix) == 0 {
		return
	}
	switch n := n.(type) {
	case *leafNode:
		n.path = prefix.Join(n.path)
	case *branchNode:
		n.path = prefix.Join(n.path)
	case *digestNode:
		n.path = prefix.Join(n.path)
	}
}
