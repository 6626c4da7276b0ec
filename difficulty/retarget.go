package difficulty

import (
	"fmt"
	"math/big"
)

// Params mirrors the subset of consensus::Params that difficulty
// retargeting needs: the power limit, the target timespan and spacing,
// the adjustment interval, and the two network-policy escape hatches
// (allow-min-difficulty testnets, no-retargeting regtest-style chains).
type Params struct {
	PowLimit             [32]byte
	PowTargetTimespan    int64
	PowTargetSpacing     int64
	AllowMinDifficulty   bool
	NoRetargeting        bool
}

// DifficultyAdjustmentInterval returns how many blocks elapse between
// retargets, per Bitcoin's PowTargetTimespan / PowTargetSpacing ratio.
func (p Params) DifficultyAdjustmentInterval() int64 {
	return p.PowTargetTimespan / p.PowTargetSpacing
}

func (p Params) powLimitInt() *big.Int {
	return new(big.Int).SetBytes(p.PowLimit[:])
}

// DeriveTarget decodes bits into a target, rejecting negative, zero,
// overflowed, or above-powLimit encodings.
func DeriveTarget(bits uint32, p Params) (*big.Int, error) {
	target, negative, overflow := CompactToBig(bits)
	if negative || overflow || target.Sign() == 0 {
		return nil, fmt.Errorf("difficulty: bits %#x decodes to an invalid target", bits)
	}
	if target.Cmp(p.powLimitInt()) > 0 {
		return nil, fmt.Errorf("difficulty: bits %#x target exceeds pow_limit", bits)
	}
	return target, nil
}

// CheckProofOfWorkImpl reports whether hash (interpreted big-endian) is at
// or below the target encoded by bits.
func CheckProofOfWorkImpl(hash [32]byte, bits uint32, p Params) bool {
	target, err := DeriveTarget(bits, p)
	if err != nil {
		return false
	}
	h := new(big.Int).SetBytes(hash[:])
	return h.Cmp(target) <= 0
}

// AncestorTimes is the minimal chain-index view CalculateNextWorkRequired
// needs: the last block's nBits/time, and the timestamp of the first
// block of the just-completed retarget window.
type AncestorTimes struct {
	LastBits        uint32
	LastBlockTime   int64
	FirstBlockTime  int64
}

// CalculateNextWorkRequired implements the integer compact-target
// retargeting form only (spec.md §9 open question 4): clamp the actual
// timespan to [target/4, target*4], scale the last target by that ratio
// using big.Int arithmetic, and cap at pow_limit. The alternative
// float-ratio form seen alongside this in some source trees is buggy and
// intentionally not implemented.
func CalculateNextWorkRequired(at AncestorTimes, p Params) (uint32, error) {
	if p.NoRetargeting {
		return at.LastBits, nil
	}

	actualTimespan := at.LastBlockTime - at.FirstBlockTime
	minTimespan := p.PowTargetTimespan / 4
	maxTimespan := p.PowTargetTimespan * 4
	if actualTimespan < minTimespan {
		actualTimespan = minTimespan
	}
	if actualTimespan > maxTimespan {
		actualTimespan = maxTimespan
	}

	lastTarget, negative, overflow := CompactToBig(at.LastBits)
	if negative || overflow {
		return 0, fmt.Errorf("difficulty: last_bits %#x is not a valid target", at.LastBits)
	}

	newTarget := new(big.Int).Mul(lastTarget, big.NewInt(actualTimespan))
	newTarget.Div(newTarget, big.NewInt(p.PowTargetTimespan))

	powLimit := p.powLimitInt()
	if newTarget.Cmp(powLimit) > 0 {
		newTarget = powLimit
	}

	return BigToCompact(newTarget), nil
}

// GetNextWorkRequired decides the next block's bits: unchanged mid-interval
// (modulo the allow-min-difficulty testnet escape hatch), retargeted via
// CalculateNextWorkRequired at interval boundaries.
func GetNextWorkRequired(height int64, lastBits uint32, lastBlockTime, newBlockTime int64, at AncestorTimes, p Params) (uint32, error) {
	interval := p.DifficultyAdjustmentInterval()
	if interval <= 0 {
		return 0, fmt.Errorf("difficulty: non-positive adjustment interval")
	}

	nextHeight := height + 1
	if nextHeight%interval != 0 {
		if p.AllowMinDifficulty {
			powLimitBits := BigToCompact(p.powLimitInt())
			if newBlockTime > lastBlockTime+p.PowTargetSpacing*2 {
				return powLimitBits, nil
			}
		}
		return lastBits, nil
	}

	return CalculateNextWorkRequired(at, p)
}

// PermittedDifficultyTransition reports whether moving from oldBits to
// newBits at height is within the rules: bounded 4x change at interval
// boundaries, no change otherwise. Implemented with big.Int target ratios
// rather than the buggy float-division form spec.md §9 flags for removal.
func PermittedDifficultyTransition(height int64, oldBits, newBits uint32, p Params) bool {
	oldTarget, err := DeriveTarget(oldBits, p)
	if err != nil {
		return false
	}
	newTarget, err := DeriveTarget(newBits, p)
	if err != nil {
		return false
	}

	interval := p.DifficultyAdjustmentInterval()
	if interval > 0 && height%interval == 0 {
		// ratio = newTarget/oldTarget must lie in [0.25, 4.0].
		// newTarget*4 <= oldTarget*16 is equivalent to ratio<=4 without
		// division; likewise oldTarget <= newTarget*4 is ratio>=0.25.
		fourNew := new(big.Int).Mul(newTarget, big.NewInt(4))
		fourOld := new(big.Int).Mul(oldTarget, big.NewInt(4))
		if fourNew.Cmp(oldTarget) < 0 {
			return false // ratio < 0.25
		}
		if newTarget.Cmp(fourOld) > 0 {
			return false // ratio > 4.0
		}
		return true
	}

	return oldTarget.Cmp(newTarget) == 0
}
