package miner

import "encoding/binary"

// prng is a xoshiro-style generator seeded from (seed, nonce). It is
// explicitly non-cryptographic: sampling candidate solutions is untrusted
// work, and every candidate is re-verified against the cryptographically
// derived lattice instance before being reported. This stream must never
// be reused for anything security-critical.
type prng struct {
	s0, s1, s2, s3 uint64
}

func rotl(x uint64, k uint) uint64 {
	return (x << k) | (x >> (64 - k))
}

// newPRNG mixes seed and nonce through a small ARX round, matching the
// reference miner's initialization, then XORs in fixed constants to
// avoid an all-zero or low-entropy initial state.
func newPRNG(seed [32]byte, nonce uint64) *prng {
	var buf [40]byte
	copy(buf[:32], seed[:])
	binary.LittleEndian.PutUint64(buf[32:], nonce)

	var v [5]uint64
	for i := 0; i < 5; i++ {
		v[i] = binary.LittleEndian.Uint64(buf[i*8 : i*8+8])
	}

	mix1 := func(a, b uint64) uint64 {
		a ^= rotl(b, 13)
		b ^= rotl(a, 7)
		return a + b
	}
	for round := 0; round < 12; round++ {
		v[0] = mix1(v[0], v[1])
		v[1] = mix1(v[1], v[2])
		v[2] = mix1(v[2], v[3])
		v[3] = mix1(v[3], v[4])
		v[4] = mix1(v[4], v[0])
	}

	return &prng{
		s0: v[0] ^ 0x9E3779B97F4A7C15,
		s1: v[1] ^ 0xD1B54A32D192ED03,
		s2: v[2] ^ 0x94D049BB133111EB,
		s3: v[3] ^ 0xBF58476D1CE4E5B9,
	}
}

// next implements the xoshiro256+ update+output step.
func (p *prng) next() uint64 {
	result := p.s0 + p.s3
	t := p.s1 << 17

	p.s2 ^= p.s0
	p.s3 ^= p.s1
	p.s1 ^= p.s2
	p.s0 ^= p.s3
	p.s2 ^= t
	p.s3 = rotl(p.s3, 45)

	return result
}

// uniformInt returns a value in [lo, hi], inclusive.
func (p *prng) uniformInt(lo, hi int) int {
	span := uint64(hi - lo + 1)
	return lo + int(p.next()%span)
}
