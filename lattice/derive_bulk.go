package lattice

import "github.com/quantumbtc/sispow/xof"

// DeriveInstance implements the spec's preferred bulk-stream derivation:
// draw 2*(n*m+n) bytes from the XOF, interpret each consecutive
// little-endian 16-bit word as v, and set the entry to v mod q. Row-major
// layout: A[i*m+j] for 0<=i<n, 0<=j<m, followed by b's n entries.
func DeriveInstance(seed []byte, p Params, mode xof.Mode) (Instance, error) {
	if err := p.validate(); err != nil {
		return Instance{}, err
	}
	totalValues := uint64(p.N)*uint64(p.M) + uint64(p.N)
	buf := xof.Stream(mode, seed, int(totalValues*2))

	a := make([]uint16, uint64(p.N)*uint64(p.M))
	b := make([]uint16, p.N)
	off := 0
	for i := range a {
		v := uint16(buf[off]) | uint16(buf[off+1])<<8
		a[i] = v % uint16(p.Q)
		off += 2
	}
	for i := range b {
		v := uint16(buf[off]) | uint16(buf[off+1])<<8
		b[i] = v % uint16(p.Q)
		off += 2
	}
	return Instance{A: a, B: b, N: p.N, M: p.M, Q: p.Q}, nil
}
