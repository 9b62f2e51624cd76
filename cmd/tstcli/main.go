// Command tstcli is the external collaborator described in §6.3: a modal
// REPL with single-letter commands (a/f/s/d/q) over an index loaded from
// a corpus file, plus a scripted one-shot --bench mode.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/jaiminpan/tstindex/bench"
	"github.com/jaiminpan/tstindex/bloom"
	"github.com/jaiminpan/tstindex/corpus"
	"github.com/jaiminpan/tstindex/index"
	"github.com/jaiminpan/tstindex/pool"
	"github.com/jaiminpan/tstindex/tst"
)

var (
	verbosity  = flag.Int("verbosity", 3, "logging verbosity")
	corpusPath = flag.String("corpus", "cities.txt", "corpus file to load at startup")
	mode       = flag.String("mode", "ref", "storage mode: cpy or ref")
	bloomBits  = flag.Uint("bloom-bits", 5000000, "bloom filter bit-array size")
	hashes     = flag.Int("hashes", 2, "number of bloom hash functions (2 = djb2+jenkins default; 3 adds blake2b)")
	benchCmd   = flag.String("bench", "", "run a single scripted command (a/f/s/d) against the corpus then exit")
	benchArg   = flag.String("arg", "", "argument for --bench")
	timingDict = flag.String("timing-dict", "", "if set, run the prefix-timing benchmark over this dictionary file and exit")
	timingOut  = flag.String("timing-out", "", "output file for --timing-dict (defaults to bench_cpy.txt or bench_ref.txt per --mode)")
)

func main() {
	flag.Parse()
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stdout, verbosityLevel(*verbosity), false)))

	treeMode := tst.ModeReference
	if strings.EqualFold(*mode, "cpy") {
		treeMode = tst.ModeCopy
	}

	idx := index.New(treeMode, uint32(*bloomBits))
	defer idx.Close()

	if *hashes > idx.HashCount() {
		idx.AddHash("blake2b", bloom.Blake2bHash)
		log.Info("registered additional bloom hash", "name", "blake2b", "total", idx.HashCount())
	}

	var arena *pool.Arena
	if treeMode == tst.ModeReference {
		arena = pool.New(1 << 20)
	}

	n, loadErr := loadCorpus(idx, arena, treeMode)
	if loadErr != nil {
		log.Error("failed to load corpus", "path", *corpusPath, "err", loadErr)
		os.Exit(1)
	}
	log.Info("loaded corpus", "words", n, "path", *corpusPath, "mode", *mode)

	if *timingDict != "" {
		os.Exit(runTiming(idx, treeMode))
	}

	if *benchCmd != "" {
		os.Exit(runScripted(idx, *benchCmd, *benchArg))
	}

	os.Exit(repl(idx, n))
}

// verbosityLevel maps the legacy 0(crit)-5(trace) --verbosity scale (the
// dht.go grounding example's convention) onto the slog levels the current
// go-ethereum/log handler API takes.
func verbosityLevel(verbosity int) slog.Level {
	switch {
	case verbosity <= 1:
		return slog.LevelError
	case verbosity == 2:
		return slog.LevelWarn
	case verbosity == 3:
		return slog.LevelInfo
	case verbosity == 4:
		return slog.LevelDebug
	default:
		return slog.LevelDebug - 4
	}
}

// runTiming drives the §6.4 benchmark artifact: one timed Prefix call per
// qualifying dictionary word, written as "<index> <microsecs>" lines.
func runTiming(idx *index.Index, mode tst.Mode) int {
	dict, err := os.Open(*timingDict)
	if err != nil {
		log.Error("failed to open timing dictionary", "path", *timingDict, "err", err)
		return 1
	}
	defer dict.Close()

	outPath := *timingOut
	if outPath == "" {
		outPath = "bench_ref.txt"
		if mode == tst.ModeCopy {
			outPath = "bench_cpy.txt"
		}
	}
	out, err := os.Create(outPath)
	if err != nil {
		log.Error("failed to create timing output", "path", outPath, "err", err)
		return 1
	}
	defer out.Close()

	results, err := bench.Run(idx, dict, out, 1024)
	if err != nil {
		log.Error("timing benchmark failed", "err", err)
		return 1
	}
	log.Info("timing benchmark complete", "probes", len(results), "out", outPath)
	return 0
}

func loadCorpus(idx *index.Index, arena *pool.Arena, mode tst.Mode) (int, error) {
	f, err := os.Open(*corpusPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	visit := func(key []byte) error {
		if _, _, err := idx.Insert(key); err != nil {
			return err
		}
		n++
		return nil
	}

	t0 := time.Now()
	if mode == tst.ModeCopy {
		err = corpus.LoadCPY(f, visit)
	} else {
		err = corpus.LoadREF(f, arena, visit)
	}
	log.Info("load timing", "elapsed", time.Since(t0))
	return n, err
}

// runScripted executes one command (the --bench a/f/s/d shortcut) and
// returns the process exit code.
func runScripted(idx *index.Index, cmd, arg string) int {
	switch cmd {
	case "a":
		if _, _, err := idx.Insert([]byte(arg)); err != nil {
			fmt.Println("error:", err)
			return 1
		}
		fmt.Printf("  %s - inserted (%d words in tree)\n", arg, idx.Len())
	case "f":
		printFind(idx, arg)
	case "s":
		printPrefix(idx, arg, 1024)
	case "d":
		if err := idx.Delete([]byte(arg)); err != nil {
			fmt.Println("  delete failed:", err)
			return 1
		}
		fmt.Printf("  deleted %s\n", arg)
	default:
		fmt.Println("error: invalid selection.")
		return 1
	}
	return 0
}

func repl(idx *index.Index, loaded int) int {
	in := bufio.NewScanner(os.Stdin)
	count := loaded

	for {
		fmt.Print("\nCommands:\n" +
			" a  add word to the tree\n" +
			" f  find word in tree\n" +
			" s  search words matching prefix\n" +
			" d  delete word from the tree\n" +
			" q  quit, freeing all data\n" +
			" p  dump internal state (debug)\n\n" +
			"choice: ")

		if !in.Scan() {
			break
		}
		switch strings.TrimSpace(in.Text()) {
		case "a":
			fmt.Print("enter word to add: ")
			if !in.Scan() {
				fmt.Fprintln(os.Stderr, "error: insufficient input.")
				continue
			}
			word := strings.TrimSpace(in.Text())
			h, err := idx.AddOne([]byte(word))
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			if h.Valid() {
				count++
				fmt.Printf("  %s - inserted (%d words in tree)\n", word, count)
			}
		case "f":
			fmt.Print("find word in tree: ")
			if !in.Scan() {
				fmt.Fprintln(os.Stderr, "error: insufficient input.")
				continue
			}
			printFind(idx, strings.TrimSpace(in.Text()))
		case "s":
			fmt.Print("find words matching prefix (at least 1 char): ")
			if !in.Scan() {
				fmt.Fprintln(os.Stderr, "error: insufficient input.")
				continue
			}
			printPrefix(idx, strings.TrimSpace(in.Text()), 1024)
		case "d":
			fmt.Print("enter word to del: ")
			if !in.Scan() {
				fmt.Fprintln(os.Stderr, "error: insufficient input.")
				continue
			}
			word := strings.TrimSpace(in.Text())
			fmt.Printf("  deleting %s\n", word)
			if err := idx.Delete([]byte(word)); err != nil {
				fmt.Println("  delete failed:", err)
				continue
			}
			count--
			fmt.Printf("  deleted %s\n", word)
		case "q":
			return 0
		case "p":
			fmt.Println(idx.Dump())
		default:
			fmt.Fprintln(os.Stderr, "error: invalid selection.")
		}
	}
	return 0
}

func printFind(idx *index.Index, word string) {
	h, err := idx.Find([]byte(word))
	switch {
	case err == nil:
		fmt.Printf("  ----------\n  Tree found %s.\n", h.Bytes())
	case errors.Is(err, index.ErrBloomFalsePositive):
		fmt.Printf("  Bloomfilter found %s.\n", word)
		fmt.Printf("  Probability of false positives: %f\n", idx.FalsePositiveRate())
		fmt.Printf("  ----------\n  %s not found by tree.\n", word)
	default:
		fmt.Printf("  %s not found by bloom filter.\n", word)
	}
}

func printPrefix(idx *index.Index, prefix string, max int) {
	handles := idx.Prefix([]byte(prefix), max)
	if len(handles) == 0 {
		fmt.Printf("  %s - not found\n", prefix)
		return
	}
	fmt.Printf("  %s - found %d suggestion(s)\n\n", prefix, len(handles))
	for i, h := range handles {
		fmt.Printf("suggest[%d] : %s\n", i, h.Bytes())
	}
}
