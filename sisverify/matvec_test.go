package sisverify

import (
	"reflect"
	"testing"

	"github.com/quantumbtc/sispow/lattice"
)

func TestMatVecModSignedAccumulation(t *testing.T) {
	inst := lattice.Instance{
		A: []uint16{1, 2, 3, 4}, // 2x2, row-major
		N: 2, M: 2, Q: 5,
	}
	// x = [+1, -1]: row0 = 1 - 2 = -1 = 4 mod 5; row1 = 3 - 4 = -1 = 4 mod 5.
	got := matVecMod(inst, []int8{1, -1})
	want := []uint16{4, 4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("matVecMod = %v, want %v", got, want)
	}
}

func TestMatVecModZeroEntrySkipped(t *testing.T) {
	inst := lattice.Instance{
		A: []uint16{1, 2, 3}, // 1x3
		N: 1, M: 3, Q: 5,
	}
	got := matVecMod(inst, []int8{0, 1, 0})
	want := []uint16{2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("matVecMod = %v, want %v", got, want)
	}
}

func TestCenterResidue(t *testing.T) {
	cases := []struct {
		v    uint16
		q    uint32
		want int32
	}{
		{0, 5, 0},
		{2, 5, 2},
		{3, 5, -2}, // 3 > q/2=2, lift to 3-5=-2
		{4, 5, -1},
	}
	for _, c := range cases {
		if got := centerResidue(c.v, c.q); got != c.want {
			t.Errorf("centerResidue(%d,%d) = %d, want %d", c.v, c.q, got, c.want)
		}
	}
}

func TestCenteredLinfNorm(t *testing.T) {
	inst := lattice.Instance{
		A: []uint16{1, 2, 3, 4},
		N: 2, M: 2, Q: 5,
	}
	got := centeredLinfNorm(inst, []int8{1, -1})
	if got != 1 {
		t.Fatalf("centeredLinfNorm = %d, want 1 (centered 4 -> -1)", got)
	}
}
