package trie

import (
	"github.com/eth-act/zkvm-ethereum-mpt/core/types"
)

// decodeNode decodes one canonical MPT node encoding into its fused form.
// The empty string decodes to a nil node (a vacant slot); a 32-byte string
// decodes to a digest reference. Extension nodes are folded into the path
// of the branch or digest they point to.
func decodeNode(data []byte) (node, error) {
	n, rest, err := decodeItem(data)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, errInvalidNode("trailing bytes after node")
	}
	return n, nil
}

// decodeItem decodes the node at the front of data and returns the
// remainder.
func decodeItem(data []byte) (node, []byte, error) {
	isList, payload, _, rest, err := splitItem(data)
	if err != nil {
		return nil, nil, err
	}

	if !isList {
		switch len(payload) {
		case 0:
			return nil, rest, nil
		case types.HashLength:
			return &digestNode{digest: types.BytesToHash(payload)}, rest, nil
		default:
			return nil, nil, errInvalidNode("string payload is neither empty nor a hash")
		}
	}

	items, err := splitList(payload)
	if err != nil {
		return nil, nil, err
	}
	switch len(items) {
	case 17:
		n, err := decodeBranch(items)
		return n, rest, err
	case 2:
		n, err := decodeShort(items)
		return n, rest, err
	default:
		return nil, nil, errInvalidNode("node list is neither a branch nor a short node")
	}
}

// decodeBranch decodes a 17-item list: 16 child slots plus the value slot,
// which must be empty in state and storage tries.
func decodeBranch(items [][]byte) (node, error) {
	b := &branchNode{}
	for i := 0; i < 16; i++ {
		child, childRest, err := decodeItem(items[i])
		if err != nil {
			return nil, err
		}
		if len(childRest) != 0 {
			return nil, errInvalidNode("trailing bytes in child slot")
		}
		if child != nil {
			b.children.put(byte(i), child)
		}
	}
	if isList, payload, _, _, err := splitItem(items[16]); err != nil || isList || len(payload) != 0 {
		return nil, errInvalidNode("value in branch node")
	}
	return b, nil
}

// decodeShort decodes a 2-item list: a leaf, or an extension that is folded
// into its referent's path.
func decodeShort(items [][]byte) (node, error) {
	isList, compact, _, _, err := splitItem(items[0])
	if err != nil {
		return nil, err
	}
	if isList {
		return nil, errInvalidNode("path slot holds a list")
	}
	path, isLeaf, err := hexPrefixDecode(compact)
	if err != nil {
		return nil, err
	}

	if isLeaf {
		valIsList, value, _, _, err := splitItem(items[1])
		if err != nil {
			return nil, err
		}
		if valIsList {
			return nil, errInvalidNode("leaf value holds a list")
		}
		return &leafNode{path: path, value: value}, nil
	}

	// Extension: the referent is either a 32-byte hash or an inline node,
	// and must resolve to a branch or digest. Its own prefix, if any,
	// concatenates behind the extension path.
	child, childRest, err := decodeItem(items[1])
	if err != nil {
		return nil, err
	}
	if len(childRest) != 0 {
		return nil, errInvalidNode("trailing bytes after extension referent")
	}
	switch child := child.(type) {
	case *branchNode:
		child.path = path.Join(child.path)
		return child, nil
	case *digestNode:
		child.path = path.Join(child.path)
		return child, nil
	default:
		return nil, errInvalidNode("extension referent is not a branch or hash")
	}
}

// splitItem splits the first RLP item off data, returning whether it is a
// list, its payload, the full item including header, and the remainder.
func splitItem(data []byte) (isList bool, payload, full, rest []byte, err error) {
	if len(data) == 0 {
		return false, nil, nil, nil, errInvalidNode("empty input")
	}
	prefix := data[0]
	var headLen, payloadLen int
	switch {
	case prefix <= 0x7f:
		// Single byte: the payload is the byte itself.
		return false, data[:1], data[:1], data[1:], nil
	case prefix <= 0xb7:
		headLen, payloadLen = 1, int(prefix-0x80)
	case prefix <= 0xbf:
		lenLen := int(prefix - 0xb7)
		headLen = 1 + lenLen
		if payloadLen, err = readLength(data, lenLen); err != nil {
			return false, nil, nil, nil, err
		}
	case prefix <= 0xf7:
		isList = true
		headLen, payloadLen = 1, int(prefix-0xc0)
	default:
		isList = true
		lenLen := int(prefix - 0xf7)
		headLen = 1 + lenLen
		if payloadLen, err = readLength(data, lenLen); err != nil {
			return false, nil, nil, nil, err
		}
	}
	end := headLen + payloadLen
	if end < headLen || end > len(data) {
		return false, nil, nil, nil, errInvalidNode("truncated item")
	}
	return isList, data[headLen:end], data[:end], data[end:], nil
}

// splitList splits a list payload into its raw items (headers included).
func splitList(payload []byte) ([][]byte, error) {
	var items [][]byte
	for len(payload) > 0 {
		_, _, full, rest, err := splitItem(payload)
		if err != nil {
			return nil, err
		}
		items = append(items, full)
		payload = rest
	}
	return items, nil
}

// readLength decodes the big-endian length field of a long string or list.
func readLength(data []byte, lenLen int) (int, error) {
	if 1+lenLen > len(data) {
		return 0, errInvalidNode("truncated length field")
	}
	var length int
	for _, b := range data[1 : 1+lenLen] {
		length = length<<8 | int(b)
	}
	if length < 0 {
		return 0, errInvalidNode("length field overflow")
	}
	return length, nil
}
