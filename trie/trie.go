package trie

import (
	"github.com/eth-act/zkvm-ethereum-mpt/core/types"
)

// Trie is a sparse Merkle Patricia Trie over hex-nibble paths. Keyed
// operations take 32-byte hashed keys (64 nibbles); the *Path variants
// accept nibble paths of any length. Branch nodes hold no value, so no
// stored path may be a proper prefix of another: InsertPath panics when the
// new path and a stored path are proper prefixes of one another. A Trie is
// owned by a single workflow and must not be mutated concurrently.
type Trie struct {
	root node
}

// New creates an empty trie.
func New() *Trie {
	return &Trie{}
}

// Insert stores value under the hashed key, overriding a previous value.
func (t *Trie) Insert(key types.Hash, value []byte) error {
	return t.InsertPath(UnpackNibbles(key.Bytes()), value)
}

// InsertPath stores value under the given nibble path. Empty values are
// rejected before any state is touched; ErrUnresolvedNode is returned when
// the path descends into an unrevealed subtree.
func (t *Trie) InsertPath(path Nibbles, value []byte) error {
	if len(value) == 0 {
		return ErrEmptyValue
	}
	n, err := t.insert(t.root, path, value)
	if err != nil {
		return err
	}
	t.root = n
	return nil
}

func (t *Trie) insert(n node, path Nibbles, value []byte) (node, error) {
	if n == nil {
		return &leafNode{path: path, value: value}, nil
	}
	n.invalidate()

	switch n := n.(type) {
	case *leafNode:
		if n.path.Equal(path) {
			n.value = value
			return n, nil
		}
		// Split: a new branch carries the common prefix, the two leaves
		// hang off their diverging nibbles.
		cpl := n.path.CommonPrefixLength(path)
		return newBranch(path[:cpl],
			n.path[cpl], &leafNode{path: n.path[cpl+1:], value: n.value},
			path[cpl], &leafNode{path: path[cpl+1:], value: value},
		), nil

	case *branchNode:
		cpl := n.path.CommonPrefixLength(path)
		if cpl == len(n.path) {
			// The branch prefix is consumed; dispatch on the next nibble.
			d := path[cpl]
			child := n.children.get(d)
			if child == nil {
				n.children.put(d, &leafNode{path: path[cpl+1:], value: value})
				return n, nil
			}
			nn, err := t.insert(child, path[cpl+1:], value)
			if err != nil {
				return nil, err
			}
			n.children.put(d, nn)
			return n, nil
		}
		// Split inside the fused prefix: the original branch keeps its
		// tail, a new outer branch takes the common part.
		inner := &branchNode{path: n.path[cpl+1:], children: n.children}
		return newBranch(path[:cpl],
			n.path[cpl], inner,
			path[cpl], &leafNode{path: path[cpl+1:], value: value},
		), nil

	case *digestNode:
		cpl := path.CommonPrefixLength(n.path)
		if cpl < len(n.path) {
			// Splitting inside the digest's prefix never enters the hidden
			// subtree; the digest survives with a shortened path.
			return newBranch(path[:cpl],
				n.path[cpl], &digestNode{path: n.path[cpl+1:], digest: n.digest},
				path[cpl], &leafNode{path: path[cpl+1:], value: value},
			), nil
		}
		return nil, ErrUnresolvedNode
	}
	return n, nil
}

// Get retrieves the value stored under the hashed key. Absence is (nil, nil);
// ErrUnresolvedNode is returned when the path would descend past a digest.
func (t *Trie) Get(key types.Hash) ([]byte, error) {
	return t.GetPath(UnpackNibbles(key.Bytes()))
}

// GetPath retrieves the value stored under the given nibble path.
func (t *Trie) GetPath(path Nibbles) ([]byte, error) {
	return t.get(t.root, path)
}

func (t *Trie) get(n node, path Nibbles) ([]byte, error) {
	if n == nil {
		return nil, nil
	}
	switch n := n.(type) {
	case *leafNode:
		if n.path.Equal(path) {
			return n.value, nil
		}
		return nil, nil

	case *branchNode:
		cpl := n.path.CommonPrefixLength(path)
		if cpl < len(n.path) || cpl >= len(path) {
			// Diverges from or ends inside the fused prefix: absent. The
			// branch itself holds no value.
			return nil, nil
		}
		return t.get(n.children.get(path[cpl]), path[cpl+1:])

	case *digestNode:
		if len(path) <= len(n.path) || path.CommonPrefixLength(n.path) < len(n.path) {
			// The query never reaches past the digest's own position.
			return nil, nil
		}
		return nil, ErrUnresolvedNode
	}
	return nil, nil
}

// Remove deletes the hashed key from the trie. Removing an absent key is a
// no-op and leaves the root hash unchanged.
func (t *Trie) Remove(key types.Hash) error {
	return t.RemovePath(UnpackNibbles(key.Bytes()))
}

// RemovePath deletes the given nibble path from the trie.
func (t *Trie) RemovePath(path Nibbles) error {
	n, err := t.remove(t.root, path)
	if err != nil {
		return err
	}
	t.root = n
	return nil
}

// remove returns the replacement for n after deleting path below it. A nil
// return means the subtree vanished and the caller drops its slot.
func (t *Trie) remove(n node, path Nibbles) (node, error) {
	if n == nil {
		return nil, nil
	}
	n.invalidate()

	switch n := n.(type) {
	case *leafNode:
		if n.path.Equal(path) {
			return nil, nil
		}
		return n, nil

	case *branchNode:
		cpl := n.path.CommonPrefixLength(path)
		if cpl < len(n.path) || cpl >= len(path) {
			return n, nil
		}
		d := path[cpl]
		if child := n.children.get(d); child != nil {
			nn, err := t.remove(child, path[cpl+1:])
			if err != nil {
				return nil, err
			}
			if nn == nil {
				n.children.drop(d)
			} else {
				n.children.put(d, nn)
			}
		}
		if n.children.empty() {
			return nil, nil
		}
		// Collapse a single-child branch: the dispatch nibble rejoins the
		// path and the branch disappears.
		if i, ch, ok := n.children.only(); ok {
			switch ch := ch.(type) {
			case *leafNode:
				return &leafNode{path: joinPaths(n.path, i, ch.path), value: ch.value}, nil
			case *branchNode:
				return &branchNode{path: joinPaths(n.path, i, ch.path), children: ch.children}, nil
			case *digestNode:
				return nil, ErrUnresolvedNode
			}
		}
		return n, nil

	case *digestNode:
		if path.CommonPrefixLength(n.path) < len(n.path) {
			// Nothing visible to remove at this depth.
			return n, nil
		}
		return nil, ErrUnresolvedNode
	}
	return n, nil
}
