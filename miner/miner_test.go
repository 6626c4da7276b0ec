package miner

import (
	"context"
	"testing"
	"time"

	"github.com/quantumbtc/sispow/blockheader"
	"github.com/quantumbtc/sispow/chainparams"
	"github.com/quantumbtc/sispow/sisverify"
	"github.com/quantumbtc/sispow/ternary"
)

func s6Params() chainparams.Params {
	return chainparams.Params{
		PowMode:    chainparams.ApproxSIS,
		N:          32, M: 64, Q: 257, W: 8, R: 127, // q/2-1: fails only when a coordinate centers to +-128
		DeriveMode: chainparams.Bulk,
	}
}

// S6: a single-thread, single-attempt-scale search must find an accepted
// solution under a trivially generous residual bound.
func TestS6SingleThreadFindsSolutionQuickly(t *testing.T) {
	h := blockheader.Header{Time: 1700000000, Bits: 0x1d00ffff}
	p := s6Params()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, found, err := Search(ctx, h, p, 1, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !found {
		t.Fatal("expected a solution under a trivially generous r")
	}
	if result.Weight != int(p.W) {
		t.Fatalf("Weight = %d, want %d", result.Weight, p.W)
	}
}

// Property 7: every solution the miner emits is accepted by the verifier
// under the same P.
func TestMinerVerifierConsistency(t *testing.T) {
	h := blockheader.Header{Time: 42, Bits: 0x1d00ffff}
	p := s6Params()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, found, err := Search(ctx, h, p, 2, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !found {
		t.Fatal("expected a solution")
	}

	final := h
	final.Nonce = result.Nonce
	final.PowSolution = result.Packed

	if !sisverify.Verify(final, p) {
		t.Fatalf("verifier rejected miner's own solution: %v", sisverify.VerifyDiagnostic(final, p))
	}
}

func TestMinerRejectsInvalidParams(t *testing.T) {
	h := blockheader.Header{}
	p := s6Params()
	p.Q = 1 // invalid

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, _, err := Search(ctx, h, p, 1, nil)
	if err == nil {
		t.Fatal("expected error for invalid params")
	}
}

func TestMinerRespectsCancellation(t *testing.T) {
	h := blockheader.Header{Bits: 0x1d00ffff}
	p := chainparams.Params{
		PowMode:    chainparams.ApproxSIS,
		N:          8, M: 16, Q: 12289, W: 8, R: 0, // unsatisfiable: r=0, weight=8 means strict mode
		DeriveMode: chainparams.Bulk,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, found, err := Search(ctx, h, p, 2, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if found {
		t.Fatal("did not expect a solution for an effectively unsatisfiable strict target within 200ms")
	}
}

// Multiple invocations of the packer/verifier pipeline on the same found
// solution must agree — sanity check on purity interacting with encoding.
func TestFoundSolutionPacksCanonically(t *testing.T) {
	h := blockheader.Header{Bits: 0x1d00ffff}
	p := s6Params()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, found, err := Search(ctx, h, p, 1, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !found {
		t.Fatal("expected a solution")
	}

	decoded, err := ternary.Decode(result.Packed, int(p.M))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, v := range decoded {
		if v != result.X[i] {
			t.Fatalf("decoded[%d]=%d != result.X[%d]=%d", i, v, i, result.X[i])
		}
	}
}
