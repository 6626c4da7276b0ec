package sisverify

import "github.com/quantumbtc/sispow/lattice"

// matVecMod computes y[i] = (sum_j A[i][j]*x[j]) mod q, accumulating as
// signed 64-bit per spec.md §4.4 step 5: +A[i][j] for x[j]=+1, -A[i][j]
// (equivalently +q-A[i][j]) for x[j]=-1, skip for x[j]=0.
func matVecMod(inst lattice.Instance, x []int8) []uint16 {
	q := int64(inst.Q)
	y := make([]uint16, inst.N)
	for i := uint32(0); i < inst.N; i++ {
		row := inst.Row(i)
		var acc int64
		for j, xj := range x {
			switch xj {
			case 1:
				acc += int64(row[j])
			case -1:
				acc -= int64(row[j])
			}
		}
		acc %= q
		if acc < 0 {
			acc += q
		}
		y[i] = uint16(acc)
	}
	return y
}

// centeredLinfNorm lifts A*x mod q into (-q/2, q/2] and returns the
// maximum absolute value across all n coordinates, per spec.md §4.4
// step 6.
func centeredLinfNorm(inst lattice.Instance, x []int8) uint32 {
	y := matVecMod(inst, x)
	q := inst.Q
	var maxAbs uint32
	for _, v := range y {
		centered := centerResidue(v, q)
		abs := centered
		if abs < 0 {
			abs = -abs
		}
		if uint32(abs) > maxAbs {
			maxAbs = uint32(abs)
		}
	}
	return maxAbs
}

// centerResidue lifts v in [0,q) into (-q/2, q/2].
func centerResidue(v uint16, q uint32) int32 {
	vi := int32(v)
	if vi > int32(q)/2 {
		vi -= int32(q)
	}
	return vi
}

// MatVecMod exposes the signed mod-q matrix-vector product for the miner,
// which must apply the same §4.4 steps 4-8 arithmetic the verifier uses so
// every emitted solution is, by construction, accepted by Verify.
func MatVecMod(inst lattice.Instance, x []int8) []uint16 {
	return matVecMod(inst, x)
}

// CenteredLinfNorm exposes the centered infinity-norm computation for the
// miner's per-attempt residual check.
func CenteredLinfNorm(inst lattice.Instance, x []int8) uint32 {
	return centeredLinfNorm(inst, x)
}
