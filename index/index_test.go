package index

import (
	"errors"
	"math"
	"testing"

	"github.com/jaiminpan/tstindex/bloom"
	"github.com/jaiminpan/tstindex/tst"
)

func TestInsertThenFind(t *testing.T) {
	idx := New(tst.ModeCopy, 1<<16)
	defer idx.Close()

	if _, _, err := idx.Insert([]byte("apple")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	h, err := idx.Find([]byte("apple"))
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if string(h.Bytes()) != "apple" {
		t.Fatalf("Find returned %q, want %q", h.Bytes(), "apple")
	}
}

func TestFindNotPresent(t *testing.T) {
	idx := New(tst.ModeCopy, 1<<16)
	defer idx.Close()

	if _, err := idx.Find([]byte("missing")); !errors.Is(err, ErrNotPresent) {
		t.Fatalf("Find on an unseeded filter: err = %v, want ErrNotPresent", err)
	}
}

func TestRoundTripInsertDelete(t *testing.T) {
	idx := New(tst.ModeCopy, 1<<16)
	defer idx.Close()

	if _, _, err := idx.Insert([]byte("orange")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := idx.Delete([]byte("orange")); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := idx.Find([]byte("orange"))
	if err == nil {
		t.Fatalf("Find after delete returned no error")
	}
	// The Bloom filter is never cleared on delete (§9), so a post-delete
	// Find legitimately reports either a definitive negative or, because
	// the bit is still set, a false positive -- never a handle.
	if !errors.Is(err, ErrNotPresent) && !errors.Is(err, ErrBloomFalsePositive) {
		t.Fatalf("Find after delete: err = %v, want ErrNotPresent or ErrBloomFalsePositive", err)
	}
}

func TestAddOneSkipsOnBloomPositive(t *testing.T) {
	idx := New(tst.ModeCopy, 1<<16)
	defer idx.Close()

	if _, err := idx.AddOne([]byte("kiwi")); err != nil {
		t.Fatalf("first AddOne: %v", err)
	}
	if idx.Len() != 1 {
		t.Fatalf("Len() = %d after one AddOne, want 1", idx.Len())
	}

	// Deleting then re-adding leaves the bloom bit set, so a second
	// AddOne of the same key must be silently skipped per §4.6.
	if err := idx.Delete([]byte("kiwi")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := idx.AddOne([]byte("kiwi")); err != nil {
		t.Fatalf("second AddOne: %v", err)
	}
	if idx.Len() != 0 {
		t.Fatalf("Len() = %d after AddOne skipped by bloom gate, want 0", idx.Len())
	}
}

func TestPrefixDelegatesToTree(t *testing.T) {
	idx := New(tst.ModeCopy, 1<<16)
	defer idx.Close()

	for _, w := range []string{"apple", "app", "apricot"} {
		if _, _, err := idx.Insert([]byte(w)); err != nil {
			t.Fatalf("Insert(%q): %v", w, err)
		}
	}

	got := idx.Prefix([]byte("ap"), 10)
	if len(got) != 3 {
		t.Fatalf("Prefix(%q) returned %d handles, want 3", "ap", len(got))
	}
}

func TestFalsePositiveRateMatchesFormula(t *testing.T) {
	idx := New(tst.ModeCopy, 1000)
	defer idx.Close()
	for i := 0; i < 50; i++ {
		idx.Insert([]byte{byte(i + 1), byte(i + 2)})
	}

	got := idx.FalsePositiveRate()
	want := math.Pow(1-math.Exp(-2*50/1000.0), 2)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("FalsePositiveRate() = %v, want %v", got, want)
	}
}

func TestAddHashRegistersBlake2b(t *testing.T) {
	idx := New(tst.ModeCopy, 1<<16)
	defer idx.Close()

	if got := idx.HashCount(); got != 2 {
		t.Fatalf("HashCount() = %d, want 2 before AddHash", got)
	}
	idx.AddHash("blake2b", bloom.Blake2bHash)
	if got := idx.HashCount(); got != 3 {
		t.Fatalf("HashCount() = %d, want 3 after AddHash", got)
	}

	if _, _, err := idx.Insert([]byte("kiwano")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := idx.Find([]byte("kiwano")); err != nil {
		t.Fatalf("Find after registering a third hash: %v", err)
	}
}

func TestLoadStopsWhenNextReportsDone(t *testing.T) {
	idx := New(tst.ModeCopy, 1<<16)
	defer idx.Close()

	words := [][]byte{[]byte("one"), []byte("two"), nil}
	i := 0
	err := idx.Load(func() ([]byte, bool, error) {
		if i >= len(words) {
			return nil, false, nil
		}
		w := words[i]
		i++
		if w == nil {
			return nil, false, nil
		}
		return w, true, nil
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if idx.Len() != 2 {
		t.Fatalf("Len() = %d after Load, want 2", idx.Len())
	}
}
