// Package xof implements the deterministic byte expanders consumed by the
// lattice instance deriver: SHA-256 in counter mode (the consensus default)
// and a SHAKE256-backed alternative for chains that opt into it.
package xof

import (
	"crypto/sha256"
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// Mode selects which primitive expands (seed, counter) into a byte stream.
type Mode uint8

const (
	// SHA256Ctr expands via block_k = SHA256(seed || be64(k)); stream =
	// block_0 || block_1 || ... This is the spec's mandatory XOF.
	SHA256Ctr Mode = iota
	// Shake256 expands via a single SHAKE256 absorb-then-squeeze pass over
	// the seed. Ambient alternative, never selected unless a chain's
	// Params.XOFMode opts in.
	Shake256
)

// Stream returns n pseudorandom bytes derived from seed under the given
// counter-stream mode. Distinct (seed, mode) pairs never alias for any
// fixed n; distinct counters within a SHA256Ctr stream never repeat a
// block.
func Stream(mode Mode, seed []byte, n int) []byte {
	switch mode {
	case Shake256:
		return shakeStream(seed, n)
	default:
		return sha256CtrStream(seed, n)
	}
}

// Block returns the k-th 32-byte block of the SHA256Ctr stream for seed.
// Stream concatenates these blocks; Block makes a single one addressable.
func Block(seed []byte, k uint64) [32]byte {
	var out [32]byte
	h := sha256.New()
	h.Write(seed)
	var cbuf [8]byte
	binary.BigEndian.PutUint64(cbuf[:], k)
	h.Write(cbuf[:])
	copy(out[:], h.Sum(nil))
	return out
}

func sha256CtrStream(seed []byte, n int) []byte {
	out := make([]byte, 0, n+sha256.Size)
	var k uint64
	for len(out) < n {
		block := Block(seed, k)
		out = append(out, block[:]...)
		k++
	}
	return out[:n]
}

func shakeStream(seed []byte, n int) []byte {
	out := make([]byte, n)
	h := sha3.NewShake256()
	h.Write(seed)
	h.Read(out)
	return out
}
