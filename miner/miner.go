// Package miner implements the multi-threaded sparse-ternary search for a
// pow_solution that makes sisverify.Verify accept: disjoint nonce residue
// classes per worker, atomic shared state, and a CAS-guarded single
// publish so exactly one winning attempt is reported even when several
// workers succeed near-simultaneously.
package miner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quantumbtc/sispow/blockheader"
	"github.com/quantumbtc/sispow/chainparams"
	"github.com/quantumbtc/sispow/lattice"
	"github.com/quantumbtc/sispow/sisverify"
	"github.com/quantumbtc/sispow/ternary"
)

// ProgressSink receives periodic miner progress reports. The production
// verifier path never constructs one; the default is a no-op so Search
// can be called without a monitor attached.
type ProgressSink interface {
	Progress(tries uint64, bestLinf int64, bestNonce uint64, elapsed time.Duration)
}

type noopSink struct{}

func (noopSink) Progress(uint64, int64, uint64, time.Duration) {}

// Result is a found solution, ready to be installed into a Header's
// PowSolution field.
type Result struct {
	Nonce  uint32
	X      []int8
	Packed []byte
	Linf   uint32
	Weight int
}

// state holds the atomics shared across worker goroutines. stop uses
// acquire/release semantics implicitly via atomic.Bool's happens-before
// guarantee: the winning goroutine flips stop with a CompareAndSwap and
// then writes result under resultMu; Search reads result, under resultMu,
// only after every worker has returned.
type state struct {
	stop      atomic.Bool
	tries     atomic.Uint64
	bestLinf  atomic.Int64
	bestNonce atomic.Uint64
}

// Search runs Threads workers (0 selects GOMAXPROCS) over disjoint nonce
// residue classes starting from Header's current Nonce, each deriving the
// lattice instance for its candidate header and sampling sparse ternary
// vectors until one satisfies p's residual bound or ctx is canceled.
//
// Header.Nonce is mutated per attempt only in each worker's local copy;
// the caller's Header is never modified. On success, Result.Packed is
// already canonical ternary.Encode output sized for p.M.
func Search(ctx context.Context, h blockheader.Header, p chainparams.Params, threads int, sink ProgressSink) (Result, bool, error) {
	if err := p.Validate(); err != nil {
		return Result{}, false, fmt.Errorf("miner: %w", err)
	}
	if sink == nil {
		sink = noopSink{}
	}
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	if threads <= 0 {
		threads = 1
	}

	var s state
	s.bestLinf.Store(int64(^uint32(0)))

	var resultMu sync.Mutex
	var result Result
	found := false

	baseNonce := h.Nonce
	start := time.Now()

	var wg sync.WaitGroup
	for tid := 0; tid < threads; tid++ {
		wg.Add(1)
		go func(tid int) {
			defer wg.Done()
			runWorker(ctx, h, p, baseNonce, uint32(tid), uint32(threads), &s, &resultMu, &result, &found)
		}(tid)
	}

	workersDone := make(chan struct{})
	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		ticker := time.NewTicker(3 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sink.Progress(s.tries.Load(), s.bestLinf.Load(), s.bestNonce.Load(), time.Since(start))
			case <-ctx.Done():
				return
			case <-workersDone:
				return
			}
			if s.stop.Load() {
				return
			}
		}
	}()

	wg.Wait()
	s.stop.Store(true)
	close(workersDone)
	<-monitorDone

	resultMu.Lock()
	defer resultMu.Unlock()
	return result, found, nil
}

func runWorker(ctx context.Context, h blockheader.Header, p chainparams.Params, baseNonce, tid, nthreads uint32, s *state, resultMu *sync.Mutex, result *Result, found *bool) {
	for offset := uint32(0); ; offset++ {
		if s.stop.Load() {
			return
		}
		select {
		case <-ctx.Done():
			s.stop.Store(true)
			return
		default:
		}

		nonce := baseNonce + tid + offset*nthreads
		attempt := h
		attempt.Nonce = nonce
		attempt.PowSolution = nil

		seed := attempt.Seed()
		inst, err := p.DeriveLattice(seed[:])
		if err != nil {
			s.stop.Store(true)
			return
		}

		var seedArr [32]byte
		copy(seedArr[:], seed[:])
		g := newPRNG(seedArr, uint64(nonce))
		x := sampleSparseTernary(int(p.M), int(p.W), g)

		linf := sisverify.CenteredLinfNorm(inst, x)
		s.tries.Add(1)

		if int64(linf) < s.bestLinf.Load() {
			s.bestLinf.Store(int64(linf))
			s.bestNonce.Store(uint64(nonce))
		}

		if p.L2Max > 0 && uint64(weightOf(x)) > p.L2Max {
			continue
		}
		if !satisfiesResidual(inst, x, p, attempt.Bits) {
			continue
		}

		packed, err := ternary.Encode(x)
		if err != nil {
			continue
		}

		if s.stop.CompareAndSwap(false, true) {
			resultMu.Lock()
			*result = Result{Nonce: nonce, X: x, Packed: packed, Linf: linf, Weight: weightOf(x)}
			*found = true
			resultMu.Unlock()
		}
		return
	}
}

// EffectiveRForAttempt mirrors sisverify.EffectiveRForBits; exported under
// this name here so callers evaluating a candidate header don't need to
// import sisverify just to compute the threshold.
func EffectiveRForAttempt(p chainparams.Params, h blockheader.Header) uint32 {
	return sisverify.EffectiveRForBits(p, h.Bits)
}

// satisfiesResidual applies the same strict/approximate branch as
// sisverify.VerifyDiagnostic steps 7-8, so every x the miner accepts is,
// by construction, accepted by Verify under the same (header, P).
func satisfiesResidual(inst lattice.Instance, x []int8, p chainparams.Params, bits uint32) bool {
	rEff := sisverify.EffectiveRForBits(p, bits)
	if rEff == 0 {
		y := sisverify.MatVecMod(inst, x)
		for i, bi := range inst.B {
			if y[i] != bi {
				return false
			}
		}
		return true
	}
	return sisverify.CenteredLinfNorm(inst, x) <= rEff
}

func weightOf(x []int8) int {
	n := 0
	for _, v := range x {
		if v != 0 {
			n++
		}
	}
	return n
}
