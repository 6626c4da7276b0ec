// Package difficulty implements Bitcoin-style compact-target difficulty
// retargeting: the integer arithmetic form only. The ratio-based float
// form that appears alongside it in some source trees is deliberately not
// implemented — it disagrees with the integer form at retarget boundaries
// and is not consensus-standard.
package difficulty

import "math/big"

// CompactToBig decodes a 32-bit "nBits" compact target into a big.Int,
// reporting whether the encoding is negative or overflowed a 256-bit
// unsigned integer. Mirrors arith_uint256::SetCompact.
func CompactToBig(bits uint32) (target *big.Int, negative bool, overflow bool) {
	size := bits >> 24
	word := bits & 0x007fffff

	target = new(big.Int)
	if size <= 3 {
		word >>= 8 * (3 - size)
		target.SetUint64(uint64(word))
	} else {
		target.SetUint64(uint64(word))
		target.Lsh(target, uint(8*(size-3)))
	}

	negative = word != 0 && (bits&0x00800000) != 0
	overflow = word != 0 && ((size > 34) ||
		(word > 0xff && size > 33) ||
		(word > 0xffff && size > 32))
	return target, negative, overflow
}

// BigToCompact encodes target into Bitcoin's 32-bit compact form. Mirrors
// arith_uint256::GetCompact.
func BigToCompact(target *big.Int) uint32 {
	if target.Sign() == 0 {
		return 0
	}

	bytes := target.Bytes()
	size := uint32(len(bytes))

	var word uint32
	if size <= 3 {
		var padded [3]byte
		copy(padded[:], bytes) // left-aligned, zero-padded on the right
		word = uint32(padded[0])<<16 | uint32(padded[1])<<8 | uint32(padded[2])
	} else {
		word = uint32(bytes[0])<<16 | uint32(bytes[1])<<8 | uint32(bytes[2])
	}

	// If the top bit of the mantissa would be set, it would look like a
	// negative encoding; shift right one byte and bump the exponent.
	if word&0x00800000 != 0 {
		word >>= 8
		size++
	}

	return uint32(size)<<24 | word
}
