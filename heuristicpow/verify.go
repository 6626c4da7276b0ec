package heuristicpow

import (
	"math/big"

	"github.com/quantumbtc/sispow/blockheader"
	"github.com/quantumbtc/sispow/chainparams"
	"github.com/quantumbtc/sispow/difficulty"
)

// Verify checks pow_solution against the polynomial-norm heuristic: decode
// a polynomial from the solution bytes, compute challenge = publicKey *
// solution, and bound its L2/Linf norms and sparsity. It does not verify
// any lattice relation and is not consensus-safe on its own; see this
// package's doc comment.
func Verify(h blockheader.Header, p chainparams.Params) bool {
	if len(h.PowSolution) == 0 {
		return false
	}
	solution, ok := decodeSolutionPolynomial(p.HeuristicDegree, h.PowSolution)
	if !ok {
		return false
	}

	seedValue := headerSeedValue(h)
	publicKey := generatePublicKey(p, seedValue)
	challenge := publicKey.mulMod(solution, int64(p.HeuristicQ))

	l2Threshold, linfThreshold := thresholds(p, h.Bits)
	if challenge.l2Norm() > l2Threshold {
		return false
	}
	if challenge.linfNorm() > linfThreshold {
		return false
	}
	if uint32(solution.nonZeroCount()) > p.HeuristicDensity {
		return false
	}
	return true
}

// VerifyComposed implements pow_hybrid.cpp's stronger variant (spec.md §9
// open question 2): the same norm/sparsity checks applied directly to the
// decoded solution polynomial (not a publicKey*solution challenge), plus a
// header-bound SHA-256d hash check against the compact target. Preserve
// only if a chain's parameters specifically demand this composed variant.
func VerifyComposed(h blockheader.Header, p chainparams.Params, dp difficulty.Params) bool {
	if len(h.PowSolution) == 0 {
		return false
	}
	solution, ok := decodeSolutionPolynomial(p.HeuristicDegree, h.PowSolution)
	if !ok {
		return false
	}

	if solution.l2Norm() > p.HeuristicL2Threshold {
		return false
	}
	if solution.linfNorm() > p.HeuristicLinfThreshold {
		return false
	}
	if uint32(solution.nonZeroCount()) > p.HeuristicDensity {
		return false
	}

	hash := h.ClassicalHash()
	target, err := difficulty.DeriveTarget(h.Bits, dp)
	if err != nil {
		return false
	}
	hashInt := new(big.Int).SetBytes(hash[:])
	return hashInt.Cmp(target) <= 0
}

// Generate produces a candidate pow_solution for h under p's HeuristicRing
// parameters: a sparse +-1 polynomial seeded from the header, packed as
// four little-endian bytes per coefficient. It does not search a nonce
// space; mining with this mode reduces to finding a header (nonce) whose
// derived seed happens to produce a passing challenge, which callers
// drive by varying h.Nonce and retrying Verify.
func Generate(h blockheader.Header, p chainparams.Params) []byte {
	seedValue := headerSeedValue(h)
	candidate := generateSparsePolynomial(p.HeuristicDegree, int64(seedValue), p.HeuristicDensity/2)
	return encodeSolutionPolynomial(candidate)
}
