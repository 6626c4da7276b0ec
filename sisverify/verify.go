// Package sisverify implements the approximate- and strict-SIS lattice
// verification path: decode the packed solution, bound its weight, derive
// the lattice instance from the header's seed, and compare the residual
// against the chain's threshold. The verifier is pure and stateless; it
// performs no I/O and never mutates its inputs.
package sisverify

import (
	"fmt"

	"github.com/quantumbtc/sispow/blockheader"
	"github.com/quantumbtc/sispow/chainparams"
	"github.com/quantumbtc/sispow/ternary"
)

// Verify reports whether h's pow_solution satisfies p's lattice predicate.
// It collapses every internal rejection kind to false; callers that need
// the reason should call VerifyDiagnostic instead.
func Verify(h blockheader.Header, p chainparams.Params) bool {
	return VerifyDiagnostic(h, p) == nil
}

// VerifyDiagnostic runs the same check as Verify but returns the
// structured rejection reason, or nil on acceptance. It exists for logging
// and miner progress reporting; consensus code must use Verify.
func VerifyDiagnostic(h blockheader.Header, p chainparams.Params) *VerifyError {
	if err := p.Validate(); err != nil {
		return reject(ParamError, err.Error())
	}

	// Step 1: decode x.
	x, err := ternary.Decode(h.PowSolution, int(p.M))
	if err != nil {
		return reject(DecodeError, err.Error())
	}

	rEff := EffectiveRForBits(p, h.Bits)
	strict := rEff == 0

	// Step 2-3: weight and l2 bounds.
	weight := hammingWeight(x)
	if p.W > 0 {
		if strict {
			if uint32(weight) != p.W {
				return reject(WeightViolation, fmt.Sprintf("weight=%d, want exactly %d (strict mode)", weight, p.W))
			}
		} else if uint32(weight) > p.W {
			return reject(WeightViolation, fmt.Sprintf("weight=%d exceeds w=%d", weight, p.W))
		}
	}
	if p.L2Max > 0 && uint64(weight) > p.L2Max {
		return reject(L2Violation, fmt.Sprintf("||x||_2^2=%d exceeds l2_max=%d", weight, p.L2Max))
	}

	// Step 4: derive A (and b, for strict mode).
	seed := h.Seed()
	inst, err := p.DeriveLattice(seed[:])
	if err != nil {
		return reject(ParamError, err.Error())
	}

	if strict {
		// Strict-SIS: y[i] ?= b[i] for all i.
		y := matVecMod(inst, x)
		for i, bi := range inst.B {
			if y[i] != bi {
				return reject(EqualityViolation, fmt.Sprintf("A*x[%d]=%d != b[%d]=%d", i, y[i], i, bi))
			}
		}
		return nil
	}

	// Approximate-SIS: centered infinity norm against r_eff.
	linf := centeredLinfNorm(inst, x)
	if linf > rEff {
		return reject(ResidualViolation, fmt.Sprintf("linf=%d exceeds r_eff=%d", linf, rEff))
	}
	return nil
}

// EffectiveRForBits computes r_eff per spec.md §4.4 step 7: the static r
// when dynamic_r is false, or max(1, floor(q/8) - exponent(bits)) when
// true, where exponent(bits) is bits' high byte. Higher exponent (harder
// compact-target difficulty) tightens r_eff monotonically.
func EffectiveRForBits(p chainparams.Params, bits uint32) uint32 {
	if !p.DynamicR {
		return p.R
	}
	exponent := uint32(bits >> 24)
	qOver8 := p.Q / 8
	if exponent >= qOver8 {
		return 1
	}
	rEff := qOver8 - exponent
	if rEff < 1 {
		return 1
	}
	return rEff
}

func hammingWeight(x []int8) int {
	n := 0
	for _, v := range x {
		if v != 0 {
			n++
		}
	}
	return n
}
