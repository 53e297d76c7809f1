// Package trie implements a sparse, partially-revealed Merkle Patricia Trie
// for stateless block validation. The trie is reconstructed from a witness
// (a bag of RLP-encoded nodes keyed by hash) around a pre-state root;
// subtrees the witness does not cover stay behind 32-byte digest
// placeholders. Mutations and canonical Keccak-256 hashing operate on the
// mixed concrete/digest structure.
package trie

import "bytes"

// Nibbles is a hex-nibble path: one nibble per byte, values 0x0-0xf. Keys
// hashed to 32 bytes unpack to 64 nibbles.
type Nibbles []byte

// UnpackNibbles expands a byte string into its nibble sequence, high nibble
// first.
func UnpackNibbles(b []byte) Nibbles {
	n := make(Nibbles, len(b)*2)
	for i, x := range b {
		n[i*2] = x >> 4
		n[i*2+1] = x & 0x0f
	}
	return n
}

// CommonPrefixLength returns the number of leading nibbles shared with other.
func (n Nibbles) CommonPrefixLength(other Nibbles) int {
	i := 0
	for i < len(n) && i < len(other) && n[i] == other[i] {
		i++
	}
	return i
}

// Equal reports whether two paths hold the same nibble sequence.
func (n Nibbles) Equal(other Nibbles) bool {
	return bytes.Equal(n, other)
}

// Join returns a freshly allocated concatenation of n and other. Paths are
// routinely re-sliced views of one another, so joining must never write
// into a shared backing array.
func (n Nibbles) Join(other Nibbles) Nibbles {
	out := make(Nibbles, 0, len(n)+len(other))
	out = append(out, n...)
	return append(out, other...)
}

// joinPaths builds prefix ++ [nibble] ++ suffix into a fresh buffer. Used
// when a branch collapses into its only remaining child and the dispatch
// nibble rejoins the path.
func joinPaths(prefix Nibbles, nibble byte, suffix Nibbles) Nibbles {
	out := make(Nibbles, 0, len(prefix)+1+len(suffix))
	out = append(out, prefix...)
	out = append(out, nibble)
	return append(out, suffix...)
}

// Hex-prefix (HP) encoding as specified in the Ethereum Yellow Paper,
// Appendix C.
//
// The high nibble of the first byte encodes flags:
//   - bit 1 (0x20): set if the path belongs to a leaf node
//   - bit 0 (0x10): set if the nibble count is odd
//
// If the nibble count is odd, the low nibble of the first byte is the first
// path nibble. If even, the low nibble is zero padding. The remaining
// nibbles are packed two per byte.
//
// The fused node model stores the leaf flag out of band (in the node kind),
// so unlike the classic terminator-nibble representation the flag is passed
// explicitly.

// hexPrefixEncode converts a nibble path to its compact HP form.
func hexPrefixEncode(path Nibbles, isLeaf bool) []byte {
	buf := make([]byte, len(path)/2+1)
	if isLeaf {
		buf[0] = 0x20
	}
	if len(path)&1 == 1 {
		buf[0] |= 0x10 | path[0] // odd flag; first nibble rides in byte 0
		path = path[1:]
	}
	for i := 0; i < len(path); i += 2 {
		buf[i/2+1] = path[i]<<4 | path[i+1]
	}
	return buf
}

// hexPrefixDecode converts a compact HP byte string back into a nibble path
// and the leaf flag. Flag nibbles outside [0, 3] are invalid.
func hexPrefixDecode(compact []byte) (Nibbles, bool, error) {
	if len(compact) == 0 {
		return nil, false, errInvalidNode("empty hex-prefix path")
	}
	flags := compact[0] >> 4
	if flags > 3 {
		return nil, false, errInvalidNode("invalid hex-prefix flag nibble")
	}
	isLeaf := flags&2 != 0
	odd := flags&1 != 0

	path := make(Nibbles, 0, len(compact)*2-1)
	if odd {
		path = append(path, compact[0]&0x0f)
	}
	for _, b := range compact[1:] {
		path = append(path, b>>4, b&0x0f)
	}
	return path, isLeaf, nil
}
