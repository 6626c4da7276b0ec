// Package blockheader implements the 80-byte header layout and the seed
// binding invariant: the lattice seed is a pure function of every header
// field except pow_solution, so mining can only grind nonce (and therefore
// the lattice instance), never the matrix independent of the committed
// transactions.
package blockheader

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Header is the set of block-header fields the consensus core consumes.
// PowSolution is the variable-length packed ternary vector (ternary.Encode
// output); its length and bit pattern are validated by the verifier, not
// by this package.
type Header struct {
	Version     uint32
	PrevHash    [32]byte
	MerkleRoot  [32]byte
	Time        uint32
	Bits        uint32
	Nonce       uint32
	PowSolution []byte
}

const fixedFieldsLen = 4 + 32 + 32 + 4 + 4 + 4 // 80 bytes

// serializeFixedFields writes the 80-byte little-endian sequence of every
// field except PowSolution, in wire order.
func (h Header) serializeFixedFields() []byte {
	buf := make([]byte, fixedFieldsLen)
	off := 0
	binary.LittleEndian.PutUint32(buf[off:], h.Version)
	off += 4
	copy(buf[off:], h.PrevHash[:])
	off += 32
	copy(buf[off:], h.MerkleRoot[:])
	off += 32
	binary.LittleEndian.PutUint32(buf[off:], h.Time)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], h.Bits)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], h.Nonce)
	return buf
}

// Seed returns SHA-256 of the 80 fixed fields. PowSolution never enters
// this computation: changing only the solution bytes, for a fixed
// (version, prev_hash, merkle_root, time, bits, nonce), must not change
// the seed or the lattice instance derived from it.
func (h Header) Seed() [32]byte {
	return sha256.Sum256(h.serializeFixedFields())
}

// SerializeForClassicalHash returns the 80 fixed-field bytes followed by
// PowSolution, the input to the composed classical double-SHA-256 check.
func (h Header) SerializeForClassicalHash() []byte {
	out := h.serializeFixedFields()
	return append(out, h.PowSolution...)
}

// ClassicalHash returns SHA256d (double SHA-256) of
// SerializeForClassicalHash, interpreted as the block hash for compact
// target comparison.
func (h Header) ClassicalHash() [32]byte {
	first := sha256.Sum256(h.SerializeForClassicalHash())
	return sha256.Sum256(first[:])
}

// EncodeWireSolution prefixes PowSolution with a Bitcoin-style var_int
// length, for wire serialization beyond the fixed 80-byte header.
func (h Header) EncodeWireSolution() []byte {
	return append(encodeVarInt(uint64(len(h.PowSolution))), h.PowSolution...)
}

// DecodeWireSolution reads a var_int-prefixed byte string from buf and
// returns the remaining unconsumed bytes.
func DecodeWireSolution(buf []byte) (solution []byte, rest []byte, err error) {
	n, consumed, err := decodeVarInt(buf)
	if err != nil {
		return nil, nil, fmt.Errorf("blockheader: %w", err)
	}
	buf = buf[consumed:]
	if uint64(len(buf)) < n {
		return nil, nil, fmt.Errorf("blockheader: pow_solution truncated, want %d bytes, have %d", n, len(buf))
	}
	return buf[:n], buf[n:], nil
}

func encodeVarInt(n uint64) []byte {
	switch {
	case n < 0xfd:
		return []byte{byte(n)}
	case n <= 0xffff:
		buf := make([]byte, 3)
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:], uint16(n))
		return buf
	case n <= 0xffffffff:
		buf := make([]byte, 5)
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:], uint32(n))
		return buf
	default:
		buf := make([]byte, 9)
		buf[0] = 0xff
		binary.LittleEndian.PutUint64(buf[1:], n)
		return buf
	}
}

func decodeVarInt(buf []byte) (n uint64, consumed int, err error) {
	if len(buf) == 0 {
		return 0, 0, fmt.Errorf("empty var_int")
	}
	switch prefix := buf[0]; {
	case prefix < 0xfd:
		return uint64(prefix), 1, nil
	case prefix == 0xfd:
		if len(buf) < 3 {
			return 0, 0, fmt.Errorf("truncated var_int (0xfd)")
		}
		return uint64(binary.LittleEndian.Uint16(buf[1:3])), 3, nil
	case prefix == 0xfe:
		if len(buf) < 5 {
			return 0, 0, fmt.Errorf("truncated var_int (0xfe)")
		}
		return uint64(binary.LittleEndian.Uint32(buf[1:5])), 5, nil
	default:
		if len(buf) < 9 {
			return 0, 0, fmt.Errorf("truncated var_int (0xff)")
		}
		return binary.LittleEndian.Uint64(buf[1:9]), 9, nil
	}
}
