package database

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/crypto/sha3"
)

// ValidateProof reports whether the candidate proof solves the puzzle
// seeded by the previous block's proof: the SHA3-256 digest of the two
// values must open with difficulty zero bytes. Validity is binary, a
// candidate is never better than another, only valid or not.
func ValidateProof(lastProof uint64, candidate uint64, difficulty int) bool {
	hasher := sha3.New256()
	writeUint64(hasher, lastProof)
	writeUint64(hasher, candidate)

	digest := hasher.Sum(nil)

	// A difficulty beyond the digest length cannot demand more zeros than
	// the digest has bytes.
	if difficulty > len(digest) {
		difficulty = len(digest)
	}

	for i := 0; i < difficulty; i++ {
		if digest[i] != 0 {
			return false
		}
	}

	return true
}

// SearchProof brute-force scans the proof space for a candidate that
// solves the puzzle seeded by the previous block's proof. The space is
// split into disjoint shards, one per worker; the first worker to find a
// valid candidate wins and the others stop cooperatively. There is no
// guarantee of the smallest satisfying candidate, only of a valid one.
func SearchProof(ctx context.Context, lastProof uint64, difficulty int, evHandler func(v string, args ...any)) (uint64, error) {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	workers := runtime.GOMAXPROCS(0)

	ev("database: SearchProof: started: seed[%d] difficulty[%d] workers[%d]", lastProof, difficulty, workers)
	defer ev("database: SearchProof: completed")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so every worker can report without a receiver. Only the
	// first result is used.
	found := make(chan uint64, workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func(start uint64) {
			defer wg.Done()

			// Each worker owns the candidates congruent to its start
			// value modulo the worker count.
			step := uint64(workers)
			var attempts uint64

			for candidate := start; ; candidate += step {
				attempts++
				if attempts&0x3FF == 0 && ctx.Err() != nil {
					return
				}

				if ValidateProof(lastProof, candidate, difficulty) {
					found <- candidate
					cancel()
					return
				}
			}
		}(uint64(i))
	}

	wg.Wait()

	select {
	case proof := <-found:
		ev("database: SearchProof: SOLVED: proof[%d]", proof)
		return proof, nil
	default:
		return 0, ctx.Err()
	}
}
