package tst

// node is implemented by branchNode and terminalNode, the two node shapes a
// ternary search tree needs. The original C implementation overloads a
// single struct (one byte key, three child pointers, a refcnt, and an eqkid
// slot that means "next child" on internal nodes but "stored string" on a
// key terminator) and discriminates on key == 0. Per the safer variant noted
// in the design docs, this is split into two concrete types instead, so a
// terminator can never be mistaken for a branch with a real eq child.
type node interface {
	tstNode()
}

// branchNode holds one byte of some stored key's path. lo/hi lead to
// siblings whose byte at this position is respectively less than or
// greater than key; eq continues to the next byte of the same key.
type branchNode struct {
	key    byte
	lo, eq, hi node
}

func (*branchNode) tstNode() {}

// terminalNode marks the end of exactly one stored key. refcnt tracks how
// many times that key has been inserted. payload is either an owned copy
// (ModeCopy) or a slice borrowed from caller-owned memory (ModeReference);
// which one is a property of the owning Tree, not of the node.
//
// hi leads to the subtree of longer keys that share every byte of this key
// and continue past it. Because a NUL byte sorts below any real byte and
// keys may not contain one (see ErrInvalidKey), lo is never populated in
// practice -- it is kept so the rotation logic in collapse (tree.go) can
// treat every node uniformly.
type terminalNode struct {
	refcnt  uint32
	payload []byte
	lo, hi  node
}

func (*terminalNode) tstNode() {}

// virtualChar returns the byte of s the walk is currently comparing: the
// real byte at position i, or the implicit terminator (0) once i reaches
// the end of s. This is the Go stand-in for walking off the end of a
// NUL-terminated C string.
func virtualChar(s []byte, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

// children returns the lo/hi links of n regardless of its concrete type.
func children(n node) (lo, hi node) {
	switch v := n.(type) {
	case *branchNode:
		return v.lo, v.hi
	case *terminalNode:
		return v.lo, v.hi
	}
	return nil, nil
}

func setLo(n, v node) {
	switch x := n.(type) {
	case *branchNode:
		x.lo = v
	case *terminalNode:
		x.lo = v
	}
}

func setHi(n, v node) {
	switch x := n.(type) {
	case *branchNode:
		x.hi = v
	case *terminalNode:
		x.hi = v
	}
}

// hasEq reports whether n is a branch node with a live equal-child. Only
// branch nodes carry an eq link; a terminal never does.
func hasEq(n node) bool {
	b, ok := n.(*branchNode)
	return ok && b.eq != nil
}

// isLeaf reports whether n has no lo, eq or hi links at all.
func isLeaf(n node) bool {
	lo, hi := children(n)
	return lo == nil && hi == nil && !hasEq(n)
}
