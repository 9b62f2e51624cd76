// Package corpus implements the two loading disciplines the original CLI
// hard-codes per storage mode (§6.2): ModeCopy treats each whole trimmed
// line (inner spaces kept) as one key, while ModeReference splits each
// line on commas (mirroring the original's comma/NUL record splitting)
// against a pool.Arena so every token becomes an independently addressable
// borrowed slice.
package corpus

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/jaiminpan/tstindex/pool"
)

// LoadCPY reads newline-delimited records from r, yielding each trimmed
// line whole as one key. It is the COPY-mode loading discipline: the
// caller is expected to copy each returned slice immediately (e.g. via
// Index.Insert in tst.ModeCopy), since the slice is only valid until the
// next call.
func LoadCPY(r io.Reader, visit func(key []byte) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 4096), 1<<20)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := visit(line); err != nil {
			return errors.Wrap(err, "corpus: LoadCPY visit")
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "corpus: LoadCPY scan")
	}
	return nil
}

// LoadREF reads newline-delimited records from r, splitting each line on
// commas (the original's comma/NUL record splitting) and copying every
// non-empty token into arena, yielding the arena-backed slice. This is the
// REFERENCE-mode loading discipline: the returned slices remain valid for
// the arena's lifetime, independent of r.
func LoadREF(r io.Reader, arena *pool.Arena, visit func(key []byte) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 4096), 1<<20)
	for sc.Scan() {
		line := sc.Bytes()
		for _, field := range bytes.Split(line, []byte(",")) {
			tok := bytes.TrimSpace(field)
			if len(tok) == 0 {
				continue
			}
			stored := arena.Put(tok)
			if err := visit(stored); err != nil {
				return errors.Wrap(err, "corpus: LoadREF visit")
			}
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "corpus: LoadREF scan")
	}
	return nil
}

// LoadTokens reads whitespace-delimited tokens from r, one key per token
// -- the cities5000.txt discipline used by the benchmark driver for
// 3-byte prefix probes.
func LoadTokens(r io.Reader, visit func(key []byte) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 4096), 1<<20)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		tok := sc.Bytes()
		if len(tok) == 0 {
			continue
		}
		if err := visit(tok); err != nil {
			return errors.Wrap(err, "corpus: LoadTokens visit")
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "corpus: LoadTokens scan")
	}
	return nil
}
