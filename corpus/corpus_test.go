package corpus

import (
	"strings"
	"testing"

	"github.com/jaiminpan/tstindex/pool"
)

func TestLoadCPYYieldsWholeLines(t *testing.T) {
	input := "new york\nlos angeles\n\nchicago\n"
	var got []string
	err := LoadCPY(strings.NewReader(input), func(key []byte) error {
		got = append(got, string(key))
		return nil
	})
	if err != nil {
		t.Fatalf("LoadCPY: %v", err)
	}
	want := []string{"new york", "los angeles", "chicago"}
	if len(got) != len(want) {
		t.Fatalf("LoadCPY yielded %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LoadCPY[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadREFSplitsOnCommasIntoArena(t *testing.T) {
	input := "apple, banana,cherry\ndate\n"
	arena := pool.New(0)
	var got []string
	err := LoadREF(strings.NewReader(input), arena, func(key []byte) error {
		got = append(got, string(key))
		return nil
	})
	if err != nil {
		t.Fatalf("LoadREF: %v", err)
	}
	want := []string{"apple", "banana", "cherry", "date"}
	if len(got) != len(want) {
		t.Fatalf("LoadREF yielded %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LoadREF[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if arena.Len() == 0 {
		t.Fatalf("arena.Len() = 0 after LoadREF, want > 0")
	}
}

func TestLoadTokensSplitsOnWhitespace(t *testing.T) {
	input := "new york  los\tangeles\nchicago"
	var got []string
	err := LoadTokens(strings.NewReader(input), func(key []byte) error {
		got = append(got, string(key))
		return nil
	})
	if err != nil {
		t.Fatalf("LoadTokens: %v", err)
	}
	want := []string{"new", "york", "los", "angeles", "chicago"}
	if len(got) != len(want) {
		t.Fatalf("LoadTokens yielded %v, want %v", got, want)
	}
}
