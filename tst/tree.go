// Package tst implements the ternary search tree core: insert, search,
// prefix-collection and delete-with-rebalancing over byte-string keys, plus
// the two mutually exclusive storage disciplines (owned copies vs borrowed
// references) a tree is built with.
package tst

import "bytes"

// Mode selects how a Tree takes ownership of the bytes it is given on
// Insert. It is fixed for the lifetime of a Tree; mixing modes on one tree
// is undefined, same as in the source this was ported from.
type Mode int

const (
	// ModeCopy duplicates every inserted key; the tree owns the copy and
	// releases it when the key is deleted or the tree is closed.
	ModeCopy Mode = iota
	// ModeReference borrows the slice passed to Insert. The caller must
	// keep it alive at least as long as the tree (or the deleting call
	// that drops the last reference to it).
	ModeReference
)

// Tree is a ternary search tree over byte-string keys. It is not safe for
// concurrent use; single-threaded access is the only supported model.
type Tree struct {
	root node
	mode Mode
	size int
}

// New creates an empty tree built for the given storage mode.
func New(mode Mode) *Tree {
	return &Tree{mode: mode}
}

// Mode reports the storage discipline the tree was created with.
func (t *Tree) Mode() Mode { return t.mode }

// Len reports the number of distinct keys currently stored (duplicate
// inserts of the same key do not increase this).
func (t *Tree) Len() int { return t.size }

// Handle identifies one stored key. It is only valid for the Tree that
// produced it and becomes stale once that key is fully deleted.
type Handle struct {
	node *terminalNode
}

// Valid reports whether h refers to a node at all, i.e. is not the zero
// Handle a failed lookup returns. It does not detect staleness: a handle
// whose key has since been fully deleted still reports true.
func (h Handle) Valid() bool { return h.node != nil }

// Bytes returns the stored key's payload. In ModeReference this is the
// caller's own backing slice; it must not be modified.
func (h Handle) Bytes() []byte {
	if h.node == nil {
		return nil
	}
	return h.node.payload
}

// Refcnt returns the handle's current reference count.
func (h Handle) Refcnt() uint32 {
	if h.node == nil {
		return 0
	}
	return h.node.refcnt
}

func validateKey(s []byte) error {
	if len(s) > MaxKeyLen {
		return ErrKeyTooLong
	}
	if bytes.IndexByte(s, 0) >= 0 {
		return ErrInvalidKey
	}
	return nil
}

// Insert adds s to the tree, or increments the refcnt of an existing equal
// key. It reports duplicate=true when s was already present. Storage of the
// payload follows the tree's Mode: ModeCopy duplicates s, ModeReference
// keeps the given slice.
func (t *Tree) Insert(s []byte) (h Handle, duplicate bool, err error) {
	if err := validateKey(s); err != nil {
		return Handle{}, false, err
	}

	pslot := &t.root
	i := 0
	for *pslot != nil {
		switch cur := (*pslot).(type) {
		case *branchNode:
			c := virtualChar(s, i)
			switch {
			case c < cur.key:
				pslot = &cur.lo
			case c > cur.key:
				pslot = &cur.hi
			default:
				i++
				pslot = &cur.eq
			}
		case *terminalNode:
			if i == len(s) {
				cur.refcnt++
				return Handle{cur}, true, nil
			}
			pslot = &cur.hi
		}
	}

	// s is not yet in the tree: chain fresh branch nodes for its
	// remaining bytes, then append the terminator.
	for i < len(s) {
		b := newBranch(s[i])
		*pslot = b
		pslot = &b.eq
		i++
	}
	term := newTerminal()
	term.refcnt = 1
	switch t.mode {
	case ModeCopy:
		term.payload = append([]byte(nil), s...)
	case ModeReference:
		term.payload = s
	}
	*pslot = term
	t.size++
	return Handle{term}, false, nil
}

// Search returns the handle for an exact match of s, or the zero Handle if
// s is not present. It never allocates or mutates the tree.
func (t *Tree) Search(s []byte) Handle {
	n := t.root
	i := 0
	for n != nil {
		switch cur := n.(type) {
		case *branchNode:
			c := virtualChar(s, i)
			switch {
			case c < cur.key:
				n = cur.lo
			case c > cur.key:
				n = cur.hi
			default:
				i++
				n = cur.eq
			}
		case *terminalNode:
			if i == len(s) {
				return Handle{cur}
			}
			n = cur.hi
		}
	}
	return Handle{}
}

// Delete removes one occurrence of s. If the key's refcnt is still above
// zero after the decrement, it returns *StillReferencedError carrying the
// new count and leaves the tree otherwise unchanged. A key not present
// returns ErrNotFound.
func (t *Tree) Delete(s []byte) error {
	if err := validateKey(s); err != nil {
		return err
	}

	var stk delStack
	pslot := &t.root
	i := 0
	for *pslot != nil {
		if !stk.push(pslot) {
			return ErrKeyTooLong
		}
		switch cur := (*pslot).(type) {
		case *branchNode:
			c := virtualChar(s, i)
			switch {
			case c < cur.key:
				pslot = &cur.lo
			case c > cur.key:
				pslot = &cur.hi
			default:
				i++
				pslot = &cur.eq
			}
		case *terminalNode:
			if i == len(s) {
				cur.refcnt--
				if cur.refcnt > 0 {
					return &StillReferencedError{Refcnt: cur.refcnt}
				}
				t.size--
				t.collapse(&stk, cur)
				return nil
			}
			pslot = &cur.hi
		}
	}
	return ErrNotFound
}

// collapse implements the unique-suffix collapse and rotate-to-remove
// steps once victim's refcnt has reached zero. stk holds the path of slot
// pointers from the root down to (and including) victim's own slot.
func (t *Tree) collapse(stk *delStack, victim *terminalNode) {
	pvictim := stk.pop()

	if t.mode == ModeCopy {
		victim.payload = nil
	}

	var cur node = victim
	for isLeaf(cur) {
		// A childless terminal with refcnt > 0 is some other key's live
		// sentinel, left with no lo/hi by the climb so far (e.g. deleting
		// "cats" after "cat" was already stored walks back up to "cat"'s
		// now-childless terminal). It must never be freed; nothing more
		// needs collapsing above it either.
		if term, ok := cur.(*terminalNode); ok && term.refcnt > 0 {
			return
		}
		releaseNode(cur)
		*pvictim = nil
		pvictim = stk.pop()
		if pvictim == nil {
			t.root = nil
			return
		}
		cur = *pvictim
	}

	// cur still has children: if it has an eq child it is an internal
	// node on some other key's path and nothing more needs doing.
	if hasEq(cur) {
		return
	}

	// cur has lo and/or hi but no eq: it is a bare prefix node left
	// behind by the removed key. Rotate a child subtree up to take its
	// slot, or tombstone it if neither rotation is possible.
	lo, hi := children(cur)
	switch {
	case lo != nil && hi != nil:
		if _, loHi := children(lo); loHi == nil {
			setHi(lo, hi)
			*pvictim = lo
		} else if hiLo, _ := children(hi); hiLo == nil {
			setLo(hi, lo)
			*pvictim = hi
		} else {
			return // neither rotation fits: leave the tombstone in place
		}
	case lo != nil:
		*pvictim = lo
	case hi != nil:
		*pvictim = hi
	}
	releaseNode(cur)
}

// Prefix collects up to max handles whose stored key begins with p, in the
// in-order traversal order of the matching subtree. An empty prefix
// returns nil.
func (t *Tree) Prefix(p []byte, max int) []Handle {
	if len(p) == 0 || max <= 0 {
		return nil
	}
	n := t.root
	i := 0
	for n != nil {
		switch cur := n.(type) {
		case *branchNode:
			switch {
			case p[i] < cur.key:
				n = cur.lo
			case p[i] > cur.key:
				n = cur.hi
			default:
				if i == len(p)-1 {
					var out []Handle
					suggest(cur, cur.key, len(p), &out, max)
					return out
				}
				i++
				n = cur.eq
			}
		case *terminalNode:
			// A stored key ends strictly before the prefix is fully
			// consumed; anything continuing past it sorts higher.
			n = cur.hi
		}
	}
	return nil
}

// suggest performs the in-order lo/eq/hi walk beneath the node that
// matched the prefix's last byte, keeping terminals whose byte at
// prefixLen-1 equals lastByte (guarding against sibling terminators that
// share the earlier prefix but diverge at the last byte).
func suggest(n node, lastByte byte, prefixLen int, out *[]Handle, max int) {
	if n == nil || len(*out) >= max {
		return
	}
	switch cur := n.(type) {
	case *branchNode:
		suggest(cur.lo, lastByte, prefixLen, out, max)
		suggest(cur.eq, lastByte, prefixLen, out, max)
		suggest(cur.hi, lastByte, prefixLen, out, max)
	case *terminalNode:
		suggest(cur.lo, lastByte, prefixLen, out, max)
		if len(cur.payload) >= prefixLen && cur.payload[prefixLen-1] == lastByte && len(*out) < max {
			*out = append(*out, Handle{cur})
		}
		suggest(cur.hi, lastByte, prefixLen, out, max)
	}
}

// Traverse visits every stored key in in-order (lo, eq, hi) order, calling
// visit once per terminal.
func (t *Tree) Traverse(visit func(Handle)) {
	var walk func(node)
	walk = func(n node) {
		if n == nil {
			return
		}
		switch cur := n.(type) {
		case *branchNode:
			walk(cur.lo)
			walk(cur.eq)
			walk(cur.hi)
		case *terminalNode:
			walk(cur.lo)
			visit(Handle{cur})
			walk(cur.hi)
		}
	}
	walk(t.root)
}

// Close tears the tree down and returns every node to the shared pools.
// It walks with an explicit stack rather than recursion, since the
// original's recursive free_tree can overflow the goroutine stack on deep
// trees.
func (t *Tree) Close() {
	if t.root == nil {
		return
	}
	stack := []node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		switch cur := n.(type) {
		case *branchNode:
			stack = append(stack, cur.lo, cur.eq, cur.hi)
			releaseBranch(cur)
		case *terminalNode:
			stack = append(stack, cur.lo, cur.hi)
			if t.mode == ModeCopy {
				cur.payload = nil
			}
			releaseTerminal(cur)
		}
	}
	t.root = nil
	t.size = 0
}
