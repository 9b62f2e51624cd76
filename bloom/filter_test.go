package bloom

import "testing"

func TestAddThenTest(t *testing.T) {
	f := New(1024)
	words := []string{"apple", "banana", "cherry"}
	for _, w := range words {
		f.Add([]byte(w))
	}
	for _, w := range words {
		if !f.Test([]byte(w)) {
			t.Fatalf("Test(%q) = false after Add, want true (no false negatives)", w)
		}
	}
}

func TestTestOnEmptyFilter(t *testing.T) {
	f := New(1024)
	if f.Test([]byte("anything")) {
		t.Fatalf("Test on an empty filter returned true")
	}
}

func TestDefaultHashesRegistered(t *testing.T) {
	f := New(64)
	if got := f.HashCount(); got != 2 {
		t.Fatalf("HashCount() = %d, want 2 (djb2 + jenkins)", got)
	}
}

func TestAddHashRegistersAdditional(t *testing.T) {
	f := New(64)
	f.AddHash("blake2b", Blake2bHash)
	if got := f.HashCount(); got != 3 {
		t.Fatalf("HashCount() = %d, want 3 after AddHash", got)
	}
	f.Add([]byte("needle"))
	if !f.Test([]byte("needle")) {
		t.Fatalf("Test(%q) = false after Add with a third hash registered", "needle")
	}
}

func TestDjb2AndJenkinsDiffer(t *testing.T) {
	key := []byte("distinguish-these-hashes")
	if djb2(key) == jenkins(key) {
		t.Fatalf("djb2 and jenkins produced the same digest for %q; test key needs to change", key)
	}
}
