// Package powcore dispatches a block header's proof-of-work check across
// the three pow_mode variants a chain may select: a classical compact-
// target hash check, that same check composed with approximate/strict-SIS
// lattice verification, or the heuristic polynomial-norm variant kept for
// bit-exact compatibility with chains that already adopted it.
package powcore

import (
	"fmt"

	"github.com/quantumbtc/sispow/blockheader"
	"github.com/quantumbtc/sispow/chainparams"
	"github.com/quantumbtc/sispow/difficulty"
	"github.com/quantumbtc/sispow/heuristicpow"
	"github.com/quantumbtc/sispow/sisverify"
)

// CheckProofOfWork dispatches on p.PowMode and short-circuits on first
// failure: ApproxSIS runs the cheap classical hash check before the
// lattice check, exactly as ClassicalHash and ApproxSIS share that first
// step. HeuristicRing runs no classical composition unless
// p.HeuristicComposed selects heuristicpow.VerifyComposed.
func CheckProofOfWork(h blockheader.Header, p chainparams.Params, dp difficulty.Params) bool {
	switch p.PowMode {
	case chainparams.ClassicalHash:
		return checkClassical(h, dp)

	case chainparams.ApproxSIS:
		if !checkClassical(h, dp) {
			return false
		}
		return sisverify.Verify(h, p)

	case chainparams.HeuristicRing:
		if p.HeuristicComposed {
			return heuristicpow.VerifyComposed(h, p, dp)
		}
		return heuristicpow.Verify(h, p)

	default:
		return false
	}
}

func checkClassical(h blockheader.Header, dp difficulty.Params) bool {
	return difficulty.CheckProofOfWorkImpl(h.ClassicalHash(), h.Bits, dp)
}

// Diagnostic is the optional logging-hook return value: the dispatch
// decision plus, for ApproxSIS, the structured rejection reason (nil on
// acceptance, TargetViolation when the classical check fails, otherwise
// the verifier's own reason). An unknown pow_mode reports ParamError;
// ClassicalHash and HeuristicRing carry no reason. Consensus callers use only
// CheckProofOfWork's bool; this exists for operators who want to log why
// a block was rejected without re-deriving the lattice instance.
type Diagnostic struct {
	Accepted bool
	Mode     chainparams.PowMode
	Reason   *sisverify.VerifyError
}

// CheckProofOfWorkDiagnostic mirrors CheckProofOfWork but also returns the
// sisverify rejection detail for ApproxSIS headers, for use by an
// operator's own logging, never by consensus logic itself.
func CheckProofOfWorkDiagnostic(h blockheader.Header, p chainparams.Params, dp difficulty.Params) Diagnostic {
	d := Diagnostic{Mode: p.PowMode}

	switch p.PowMode {
	case chainparams.ClassicalHash:
		d.Accepted = checkClassical(h, dp)

	case chainparams.ApproxSIS:
		if !checkClassical(h, dp) {
			d.Accepted = false
			d.Reason = &sisverify.VerifyError{Kind: sisverify.TargetViolation, Detail: "classical compact-target hash check failed"}
			return d
		}
		d.Reason = sisverify.VerifyDiagnostic(h, p)
		d.Accepted = d.Reason == nil

	case chainparams.HeuristicRing:
		if p.HeuristicComposed {
			d.Accepted = heuristicpow.VerifyComposed(h, p, dp)
		} else {
			d.Accepted = heuristicpow.Verify(h, p)
		}

	default:
		d.Reason = &sisverify.VerifyError{Kind: sisverify.ParamError, Detail: fmt.Sprintf("unknown pow_mode %v", p.PowMode)}
	}

	return d
}
