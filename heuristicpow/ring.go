// Package heuristicpow implements the HeuristicRing pow_mode: a
// polynomial-norm heuristic ported from a source variant that reconstructs
// a polynomial from pow_solution and tests its norms against thresholds,
// without verifying any actual lattice relation.
//
// This is NOT consensus-safe: an attacker can emit a zero or low-norm
// polynomial independent of any header binding and pass Verify. It exists
// only for bit-exact compatibility with chains that already adopted it.
// A production chain should use chainparams.ApproxSIS instead.
package heuristicpow

import (
	"math"
	"math/rand"

	"github.com/quantumbtc/sispow/blockheader"
	"github.com/quantumbtc/sispow/chainparams"
)

// polynomial is a dense vector of coefficients over a cyclic convolution
// ring of fixed degree, mirroring the source's simplified-NTRU Polynomial.
type polynomial struct {
	coeffs []int32
}

func newPolynomial(degree uint32) polynomial {
	return polynomial{coeffs: make([]int32, degree)}
}

// mulMod computes p*other as a cyclic convolution mod q, matching the
// source's operator* (sign-flip on k>=N/2 is deliberately NOT reproduced
// here: spec.md §9 open question 5 notes it does not correspond to a
// standard ring and is not exercised by the verifier; this is a plain
// cyclic convolution).
func (p polynomial) mulMod(other polynomial, q int64) polynomial {
	n := len(p.coeffs)
	out := newPolynomial(uint32(n))
	for i := 0; i < n; i++ {
		if p.coeffs[i] == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			k := (i + j) % n
			prod := int64(p.coeffs[i]) * int64(other.coeffs[j])
			v := (int64(out.coeffs[k]) + prod) % q
			if v < 0 {
				v += q
			}
			out.coeffs[k] = int32(v)
		}
	}
	return out
}

func (p polynomial) l2Norm() float64 {
	var sum float64
	for _, c := range p.coeffs {
		sum += float64(c) * float64(c)
	}
	return math.Sqrt(sum)
}

func (p polynomial) linfNorm() int32 {
	var max int32
	for _, c := range p.coeffs {
		a := c
		if a < 0 {
			a = -a
		}
		if a > max {
			max = a
		}
	}
	return max
}

func (p polynomial) nonZeroCount() int {
	n := 0
	for _, c := range p.coeffs {
		if c != 0 {
			n++
		}
	}
	return n
}

// generateSparsePolynomial draws `density` nonzero +-1 coefficients at
// positions chosen by a math/rand source seeded deterministically from
// seed, matching the source's std::mt19937(seed) usage. This PRNG is a
// heuristic-mode implementation detail, not a cryptographic primitive.
func generateSparsePolynomial(degree uint32, seed int64, density uint32) polynomial {
	poly := newPolynomial(degree)
	r := rand.New(rand.NewSource(seed))
	for i := uint32(0); i < density; i++ {
		pos := r.Intn(int(degree))
		if r.Intn(2) == 1 {
			poly.coeffs[pos] = 1
		} else {
			poly.coeffs[pos] = -1
		}
	}
	return poly
}

// headerSeedValue folds the header's fixed fields into a 32-bit seed via
// the same polynomial-hash the source uses for GeneratePublicKey's seed
// derivation (seed_value = seed_value*31 + byte).
func headerSeedValue(h blockheader.Header) uint32 {
	seed := h.Seed()
	var v uint32
	for _, b := range seed {
		v = v*31 + uint32(b)
	}
	return v
}

// generatePublicKey derives f, g from seedValue and returns f*g mod q, the
// source's simplified (non-invertible) "public key" construction.
func generatePublicKey(p chainparams.Params, seedValue uint32) polynomial {
	f := generateSparsePolynomial(p.HeuristicDegree, int64(seedValue), p.HeuristicDensity)
	g := generateSparsePolynomial(p.HeuristicDegree, int64(seedValue)+1, p.HeuristicDensity)
	return f.mulMod(g, int64(p.HeuristicQ))
}

// decodeSolutionPolynomial reconstructs a polynomial from pow_solution,
// four little-endian bytes per coefficient, matching the source layout.
func decodeSolutionPolynomial(degree uint32, solution []byte) (polynomial, bool) {
	if uint32(len(solution)) != degree*4 {
		return polynomial{}, false
	}
	poly := newPolynomial(degree)
	for i := uint32(0); i < degree; i++ {
		var c int32
		for j := 0; j < 4; j++ {
			c |= int32(solution[i*4+uint32(j)]) << (8 * j)
		}
		poly.coeffs[i] = c
	}
	return poly, true
}

func encodeSolutionPolynomial(p polynomial) []byte {
	out := make([]byte, 0, len(p.coeffs)*4)
	for _, c := range p.coeffs {
		for j := 0; j < 4; j++ {
			out = append(out, byte(c>>(8*j)))
		}
	}
	return out
}

// thresholds computes the difficulty-scaled L2/Linf bounds per
// CalculateThresholds in the source: both widen as bits' exponent byte
// grows, i.e. this heuristic gets LESS strict at higher nominal difficulty
// — a further reason it is not consensus-safe on its own.
func thresholds(p chainparams.Params, bits uint32) (l2 float64, linf int32) {
	exponent := float64(bits >> 24)
	factor := 1.0 + exponent*0.05
	l2 = p.HeuristicL2Threshold * factor
	linf = p.HeuristicLinfThreshold + int32(exponent*2)
	return l2, linf
}
