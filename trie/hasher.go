package trie

import (
	"github.com/eth-act/zkvm-ethereum-mpt/core/types"
	"github.com/eth-act/zkvm-ethereum-mpt/crypto"
	"github.com/eth-act/zkvm-ethereum-mpt/rlp"
)

// Hash returns the canonical Keccak-256 root of the trie. The empty trie
// hashes to Keccak256(RLP("")).
func (t *Trie) Hash() types.Hash {
	if t.root == nil {
		return types.EmptyRootHash
	}
	return hashNode(t.root)
}

// hashNode returns the node's canonical hash, consulting and populating the
// per-node memo. A path-less digest hashes to its own value without
// encoding.
func hashNode(n node) types.Hash {
	if h := n.cachedHash(); h != nil {
		return *h
	}
	var h types.Hash
	if d, ok := n.(*digestNode); ok && len(d.path) == 0 {
		h = d.digest
	} else {
		h = crypto.Keccak256Hash(encodeNode(n))
	}
	n.setCache(h)
	return h
}

// encodeNode produces the canonical RLP encoding of a node. Fused extension
// prefixes are re-materialized as 2-item extension lists so the hashes
// agree with the standard four-kind MPT encoding.
func encodeNode(n node) []byte {
	switch n := n.(type) {
	case *leafNode:
		payload := rlp.EncodeString(hexPrefixEncode(n.path, true))
		payload = append(payload, rlp.EncodeString(n.value)...)
		return rlp.WrapList(payload)

	case *branchNode:
		var payload []byte
		for i := byte(0); i < 16; i++ {
			child := n.children.get(i)
			switch {
			case child == nil:
				payload = append(payload, emptyString)
			default:
				payload = append(payload, childReference(child)...)
			}
		}
		// The branch value slot is always empty in state and storage tries.
		payload = append(payload, emptyString)
		inner := rlp.WrapList(payload)
		if len(n.path) == 0 {
			return inner
		}
		// Re-materialize the extension in front of the branch.
		out := rlp.EncodeString(hexPrefixEncode(n.path, false))
		out = append(out, shortenEncoding(inner)...)
		return rlp.WrapList(out)

	case *digestNode:
		if len(n.path) == 0 {
			return rlp.EncodeString(n.digest.Bytes())
		}
		payload := rlp.EncodeString(hexPrefixEncode(n.path, false))
		payload = append(payload, rlp.EncodeString(n.digest.Bytes())...)
		return rlp.WrapList(payload)
	}
	return nil
}

// emptyString is the RLP encoding of the empty string, used for vacant
// child slots and the branch value.
const emptyString = 0x80

// childReference encodes a branch child slot: a path-less digest
// contributes its hash directly, any other child is inlined when its
// encoding is shorter than 32 bytes and referenced by hash otherwise.
func childReference(child node) []byte {
	if d, ok := child.(*digestNode); ok && len(d.path) == 0 {
		return rlp.EncodeString(d.digest.Bytes())
	}
	return shortenEncoding(encodeNode(child))
}

// shortenEncoding applies the 32-byte inlining rule: encodings shorter than
// a hash are embedded verbatim, longer ones are replaced by their Keccak
// hash.
func shortenEncoding(enc []byte) []byte {
	if len(enc) < 32 {
		return enc
	}
	return rlp.EncodeString(crypto.Keccak256(enc))
}
