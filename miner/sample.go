package miner

// sampleSparseTernary draws a weight-w vector over {-1,0,+1}^m: a
// Fisher-Yates partial shuffle picks w distinct positions, then each gets
// a sign from a fresh PRNG bit.
func sampleSparseTernary(m, w int, g *prng) []int8 {
	x := make([]int8, m)
	idx := make([]int, m)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < w; i++ {
		j := g.uniformInt(i, m-1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	for k := 0; k < w; k++ {
		pos := idx[k]
		if g.next()&1 != 0 {
			x[pos] = 1
		} else {
			x[pos] = -1
		}
	}
	return x
}
