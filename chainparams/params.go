// Package chainparams holds the consensus parameter record consumed by the
// lattice instance deriver, the SIS verifier, and the miner. Parameters are
// immutable for a given chain epoch and are always passed explicitly; the
// package keeps no global state.
package chainparams

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/quantumbtc/sispow/lattice"
	"github.com/quantumbtc/sispow/xof"
)

// PowMode selects which proof-of-work predicate a header must satisfy.
type PowMode uint8

const (
	// ClassicalHash checks only the compact-target hash, no lattice work.
	ClassicalHash PowMode = iota
	// ApproxSIS composes the classical hash check with approximate-SIS
	// (or strict-SIS, when R resolves to zero) lattice verification.
	ApproxSIS
	// HeuristicRing selects the pow_hybrid.cpp-derived polynomial-norm
	// heuristic. Not consensus-safe; see heuristicpow's doc comment.
	HeuristicRing
)

func (m PowMode) String() string {
	switch m {
	case ClassicalHash:
		return "ClassicalHash"
	case ApproxSIS:
		return "ApproxSIS"
	case HeuristicRing:
		return "HeuristicRing"
	default:
		return fmt.Sprintf("PowMode(%d)", uint8(m))
	}
}

// DeriveMode selects the lattice instance derivation strategy. Nodes on the
// same chain must agree on this flag; the two strategies produce different,
// mutually incompatible matrices for the same seed.
type DeriveMode uint8

const (
	// Bulk draws one 2*(n*m+n)-byte stream and slices it into entries.
	// Fewer hash calls; the spec's preferred variant.
	Bulk DeriveMode = iota
	// PerEntry derives A[i][j] = SHA256(seed||le32(i)||le32(j)) independently,
	// with no assumption on q beyond the usual (2,2^16) range.
	PerEntry
)

// Params is the immutable consensus parameter record for a chain epoch.
type Params struct {
	PowMode PowMode

	N, M uint32 // matrix dimensions
	Q    uint32 // prime modulus, 2 < Q < 2^16
	W    uint32 // target Hamming weight

	R        uint32 // infinity-norm residual threshold; 0 == strict SIS
	DynamicR bool   // derive R from nBits per the monotone map

	L2Max uint64 // optional ||x||_2^2 cap, 0 disables

	PowLimit [32]byte // 256-bit cap on classical target

	DeriveMode DeriveMode
	XOFMode    xof.Mode

	// HeuristicComposed requires HeuristicRing mode to also pass the
	// header-bound SHA-256d hash check (pow_hybrid.cpp's stronger variant).
	HeuristicComposed bool

	// HeuristicDegree, HeuristicQ, HeuristicDensity, HeuristicL2Threshold,
	// and HeuristicLinfThreshold parameterize HeuristicRing mode's
	// polynomial-norm check. Meaningless for ClassicalHash/ApproxSIS.
	HeuristicDegree       uint32
	HeuristicQ            int32
	HeuristicDensity      uint32
	HeuristicL2Threshold  float64
	HeuristicLinfThreshold int32
}

// Validate checks the structural invariants spec.md §3 requires before a
// Params value is used to derive a lattice instance or verify a header.
// HeuristicRing mode does not use (n,m,q,w,r) at all, so those checks are
// skipped for it; ClassicalHash likewise needs none of the lattice fields.
func (p Params) Validate() error {
	if p.PowMode != ApproxSIS {
		return nil
	}
	if p.Q <= 2 || p.Q >= 1<<16 {
		return fmt.Errorf("chainparams: q=%d out of range (2,65536)", p.Q)
	}
	if p.W == 0 || p.W > p.M {
		return fmt.Errorf("chainparams: w=%d must satisfy 1<=w<=m=%d", p.W, p.M)
	}
	if p.R >= p.Q/2 {
		return fmt.Errorf("chainparams: r=%d must be < q/2=%d", p.R, p.Q/2)
	}
	if p.N == 0 || p.M == 0 {
		return fmt.Errorf("chainparams: n and m must be positive (n=%d m=%d)", p.N, p.M)
	}
	return nil
}

// DeriveLattice derives (A, b) from seed under this Params' DeriveMode.
func (p Params) DeriveLattice(seed []byte) (lattice.Instance, error) {
	sp := lattice.Params{N: p.N, M: p.M, Q: p.Q}
	switch p.DeriveMode {
	case PerEntry:
		return lattice.DeriveInstancePerEntry(seed, sp)
	default:
		return lattice.DeriveInstance(seed, sp, p.XOFMode)
	}
}

// PowLimitInt returns PowLimit as a big-endian unsigned integer.
func (p Params) PowLimitInt() *big.Int {
	return new(big.Int).SetBytes(p.PowLimit[:])
}

// fileParams mirrors the on-disk JSON schema for Params read by LoadJSON,
// used by tests that load fixed parameter sets.
type fileParams struct {
	PowMode    string `json:"pow_mode"`
	N          uint32 `json:"n"`
	M          uint32 `json:"m"`
	Q          uint32 `json:"q"`
	W          uint32 `json:"w"`
	R          uint32 `json:"r"`
	DynamicR   bool   `json:"dynamic_r"`
	L2Max      uint64 `json:"l2_max"`
	PowLimit   string `json:"pow_limit_hex"`
	DeriveMode string `json:"derive_mode"`
	XOFMode    string `json:"xof_mode"`
	Composed   bool   `json:"heuristic_composed"`

	HeuristicDegree        uint32  `json:"heuristic_degree"`
	HeuristicQ             int32   `json:"heuristic_q"`
	HeuristicDensity       uint32  `json:"heuristic_density"`
	HeuristicL2Threshold   float64 `json:"heuristic_l2_threshold"`
	HeuristicLinfThreshold int32   `json:"heuristic_linf_threshold"`
}

// LoadJSON reads a Params record from a JSON file, following the teacher's
// directory-fallback search (".", "..", "../..") so tests and examples can
// be run from any package directory.
func LoadJSON(path string) (Params, error) {
	raw, resolved, err := readFileWithFallback(path)
	if err != nil {
		return Params{}, err
	}
	var fp fileParams
	if err := json.Unmarshal(raw, &fp); err != nil {
		return Params{}, fmt.Errorf("chainparams: parse %s: %w", resolved, err)
	}
	return fromFile(fp)
}

func readFileWithFallback(path string) ([]byte, string, error) {
	candidates := []string{path}
	if !filepath.IsAbs(path) {
		candidates = append(candidates, filepath.Join("..", path), filepath.Join("..", "..", path))
	}
	for _, p := range candidates {
		if data, err := os.ReadFile(p); err == nil {
			return data, p, nil
		}
	}
	return nil, "", fmt.Errorf("chainparams: read %s: not found", path)
}

func fromFile(fp fileParams) (Params, error) {
	p := Params{
		N: fp.N, M: fp.M, Q: fp.Q, W: fp.W, R: fp.R,
		DynamicR: fp.DynamicR, L2Max: fp.L2Max,
		HeuristicComposed:      fp.Composed,
		HeuristicDegree:        fp.HeuristicDegree,
		HeuristicQ:             fp.HeuristicQ,
		HeuristicDensity:       fp.HeuristicDensity,
		HeuristicL2Threshold:   fp.HeuristicL2Threshold,
		HeuristicLinfThreshold: fp.HeuristicLinfThreshold,
	}
	switch fp.PowMode {
	case "", "ApproxSIS":
		p.PowMode = ApproxSIS
	case "ClassicalHash":
		p.PowMode = ClassicalHash
	case "HeuristicRing":
		p.PowMode = HeuristicRing
	default:
		return Params{}, fmt.Errorf("chainparams: unknown pow_mode %q", fp.PowMode)
	}
	switch fp.DeriveMode {
	case "", "bulk":
		p.DeriveMode = Bulk
	case "per-entry":
		p.DeriveMode = PerEntry
	default:
		return Params{}, fmt.Errorf("chainparams: unknown derive_mode %q", fp.DeriveMode)
	}
	switch fp.XOFMode {
	case "", "sha256ctr":
		p.XOFMode = xof.SHA256Ctr
	case "shake256":
		p.XOFMode = xof.Shake256
	default:
		return Params{}, fmt.Errorf("chainparams: unknown xof_mode %q", fp.XOFMode)
	}
	if fp.PowLimit != "" {
		limit, ok := new(big.Int).SetString(fp.PowLimit, 16)
		if !ok {
			return Params{}, fmt.Errorf("chainparams: invalid pow_limit_hex %q", fp.PowLimit)
		}
		b := limit.Bytes()
		if len(b) > 32 {
			return Params{}, fmt.Errorf("chainparams: pow_limit_hex exceeds 256 bits")
		}
		copy(p.PowLimit[32-len(b):], b)
	}
	return p, nil
}
