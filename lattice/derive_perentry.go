package lattice

import (
	"crypto/sha256"
	"encoding/binary"
)

// DeriveInstancePerEntry implements the alternative strategy from spec.md
// §4.2: A[i][j] = le16(SHA256(seed||le32(i)||le32(j))[0:2]) mod q, with
// b[i] derived the same way from a distinct domain-separated hash. Unlike
// DeriveInstance's single bulk XOF stream, every entry gets its own
// independent SHA-256 call; this costs n*m+n hash calls instead of one
// stream draw but needs no assumption about q beyond Params.validate's
// own (2 < q < 2^16).
//
// This produces a matrix incompatible with DeriveInstance for the same
// seed; chains pin one strategy via chainparams.Params.DeriveMode.
func DeriveInstancePerEntry(seed []byte, p Params) (Instance, error) {
	if err := p.validate(); err != nil {
		return Instance{}, err
	}

	a := make([]uint16, uint64(p.N)*uint64(p.M))
	for i := uint32(0); i < p.N; i++ {
		for j := uint32(0); j < p.M; j++ {
			a[uint64(i)*uint64(p.M)+uint64(j)] = uint16(entryHash(seed, i, j) % uint32(p.Q))
		}
	}

	b := make([]uint16, p.N)
	for i := uint32(0); i < p.N; i++ {
		b[i] = uint16(bEntryHash(seed, i) % uint32(p.Q))
	}

	return Instance{A: a, B: b, N: p.N, M: p.M, Q: p.Q}, nil
}

func entryHash(seed []byte, i, j uint32) uint32 {
	h := sha256.New()
	h.Write(seed)
	var le [8]byte
	binary.LittleEndian.PutUint32(le[0:4], i)
	binary.LittleEndian.PutUint32(le[4:8], j)
	h.Write(le[:])
	sum := h.Sum(nil)
	return uint32(sum[0]) | uint32(sum[1])<<8
}

func bEntryHash(seed []byte, i uint32) uint32 {
	h := sha256.New()
	h.Write(seed)
	h.Write([]byte{'b'})
	var le [4]byte
	binary.LittleEndian.PutUint32(le[:], i)
	h.Write(le[:])
	sum := h.Sum(nil)
	return uint32(sum[0]) | uint32(sum[1])<<8
}
