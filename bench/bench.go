// Package bench implements the timing driver described in §6.4: for every
// dictionary word at least 4 bytes long, it times a single Prefix call
// over the word's first 3 bytes and records the elapsed microseconds,
// mirroring bench.c's tvgetf()-bracketed loop over cities5000.txt.
package bench

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/jaiminpan/tstindex/index"
)

// Result is one timed Prefix probe.
type Result struct {
	Index     int
	Prefix    string
	Microsecs float64
}

// Run reads whitespace-delimited words from dict, probing idx.Prefix with
// each qualifying word's first 3 bytes and writing "<index> <microsecs>\n"
// lines to out. It returns
// the collected results for callers (tests, the CLI) that want them
// in-process too.
func Run(idx *index.Index, dict io.Reader, out io.Writer, max int) ([]Result, error) {
	w := bufio.NewWriter(out)
	defer w.Flush()

	sc := bufio.NewScanner(dict)
	sc.Buffer(make([]byte, 4096), 1<<20)
	sc.Split(bufio.ScanWords)

	var results []Result
	n := 0
	for sc.Scan() {
		word := sc.Bytes()
		if len(word) < 4 {
			continue
		}
		prefix := append([]byte(nil), word[:3]...)

		t0 := time.Now()
		idx.Prefix(prefix, max)
		elapsed := time.Since(t0)

		us := float64(elapsed.Nanoseconds()) / 1000.0
		if _, err := fmt.Fprintf(w, "%d %f\n", n, us); err != nil {
			return results, errors.Wrap(err, "bench: write result")
		}
		results = append(results, Result{Index: n, Prefix: string(prefix), Microsecs: us})
		n++
	}
	if err := sc.Err(); err != nil {
		return results, errors.Wrap(err, "bench: scan dictionary")
	}
	return results, nil
}
