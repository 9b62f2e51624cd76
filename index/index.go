// Package index binds a tst.Tree and a bloom.Filter into the single query
// surface described by the public operations in §6.1: the Bloom filter
// gates lookups with a fast definitive negative, and every mutation keeps
// both structures in step except delete, which the filter cannot undo.
package index

import (
	"errors"

	"github.com/davecgh/go-spew/spew"

	"github.com/jaiminpan/tstindex/bloom"
	"github.com/jaiminpan/tstindex/tst"
)

// Sentinel errors specific to the façade. Core tree errors (tst.ErrKeyTooLong,
// tst.ErrNotFound, *tst.StillReferencedError) pass through unchanged.
var (
	// ErrNotPresent is returned by Find when the Bloom filter gives a
	// definitive negative.
	ErrNotPresent = errors.New("index: key not present")

	// ErrBloomFalsePositive is returned by Find when the Bloom filter
	// answered positive but the tree has no matching key.
	ErrBloomFalsePositive = errors.New("index: bloom false positive")
)

// Index is the façade a caller drives: it owns exactly one tst.Tree and one
// bloom.Filter, created together and kept in the same storage mode for
// their shared lifetime.
type Index struct {
	tree  *tst.Tree
	bloom *bloom.Filter
	n     uint64 // insertions observed by the bloom filter, for false-positive-rate reporting
}

// New creates an empty index. bloomBits sizes the Bloom filter's bit array;
// mode fixes the tree's storage discipline for its lifetime.
func New(mode tst.Mode, bloomBits uint32) *Index {
	return &Index{
		tree:  tst.New(mode),
		bloom: bloom.New(bloomBits),
	}
}

// Mode reports the storage discipline of the underlying tree.
func (idx *Index) Mode() tst.Mode { return idx.tree.Mode() }

// AddHash registers an additional Bloom hash function beyond the default
// djb2+Jenkins pair, per the supplemented bloom_add_hash operation
// (SPEC_FULL.md §C). Callers who want a lower false-positive rate at a
// higher per-insert cost register bloom.Blake2bHash through this before
// any keys are loaded.
func (idx *Index) AddHash(name string, fn bloom.HashFunc) {
	idx.bloom.AddHash(name, fn)
}

// HashCount reports how many Bloom hash functions are currently
// registered.
func (idx *Index) HashCount() int { return idx.bloom.HashCount() }

// Len reports the number of distinct keys currently stored.
func (idx *Index) Len() int { return idx.tree.Len() }

// Insert adds s unconditionally, updating both the tree and the Bloom
// filter. It is the primitive Load, the CLI's corpus loader and its
// one-shot `--bench a` command build on; the REPL's `a` command uses AddOne.
func (idx *Index) Insert(s []byte) (tst.Handle, bool, error) {
	h, dup, err := idx.tree.Insert(s)
	if err != nil {
		return tst.Handle{}, false, err
	}
	idx.bloom.Add(s)
	idx.n++
	return h, dup, nil
}

// AddOne inserts s unless the Bloom filter already reports it present,
// per §4.6: a duplicate that happens to be a Bloom false positive is
// silently skipped rather than inserted a second time. This is a
// deliberate, documented compromise carried over unchanged from the
// source design, not a bug.
func (idx *Index) AddOne(s []byte) (tst.Handle, error) {
	if idx.bloom.Test(s) {
		return tst.Handle{}, nil
	}
	h, _, err := idx.tree.Insert(s)
	if err != nil {
		return tst.Handle{}, err
	}
	idx.bloom.Add(s)
	idx.n++
	return h, nil
}

// Load bulk-inserts every key yielded by next, stopping at the first
// error (allocation/length failure) or once next reports ok=false.
func (idx *Index) Load(next func() (key []byte, ok bool, err error)) error {
	for {
		key, ok, err := next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if _, _, err := idx.Insert(key); err != nil {
			return err
		}
	}
}

// Find looks s up behind the Bloom gate. A definitive negative short-
// circuits the tree walk entirely; a positive gate that the tree
// disagrees with is reported as ErrBloomFalsePositive so the caller can
// distinguish it from a genuine miss for reporting purposes.
func (idx *Index) Find(s []byte) (tst.Handle, error) {
	if !idx.bloom.Test(s) {
		return tst.Handle{}, ErrNotPresent
	}
	h := idx.tree.Search(s)
	if !h.Valid() {
		return tst.Handle{}, ErrBloomFalsePositive
	}
	return h, nil
}

// FalsePositiveRate estimates the Bloom filter's current false-positive
// rate from its configured size, hash count and observed insertion count,
// per the formula in §3.4: (1 - e^(-hn/m))^h.
func (idx *Index) FalsePositiveRate() float64 {
	return bloomFalsePositiveRate(idx.bloom.Size(), idx.bloom.HashCount(), idx.n)
}

// Prefix delegates directly to the tree; the Bloom filter has no
// membership signal useful for prefix queries (§4.6).
func (idx *Index) Prefix(p []byte, max int) []tst.Handle {
	return idx.tree.Prefix(p, max)
}

// Delete removes one occurrence of s from the tree only. The Bloom filter
// is never updated on delete (§9's documented bloom-delete hazard): a
// deleted key may still test positive on the filter until the process
// ends.
func (idx *Index) Delete(s []byte) error {
	return idx.tree.Delete(s)
}

// Traverse visits every stored key in-order.
func (idx *Index) Traverse(visit func(tst.Handle)) {
	idx.tree.Traverse(visit)
}

// Close releases the underlying tree's nodes.
func (idx *Index) Close() {
	idx.tree.Close()
}

// Dump renders the index's internal state with go-spew, for the CLI's
// undocumented `p` command.
func (idx *Index) Dump() string {
	return spew.Sdump(idx)
}
