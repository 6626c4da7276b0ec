package ternary

import (
	"reflect"
	"testing"
)

// Worked example from the packing rule in this package's doc comment,
// independently re-derived bit by bit: x[i]'s 2-bit code occupies bits
// (2i mod 8) and (2i mod 8)+1 of byte floor(2i/8), LSB first.
func TestEncodeWorkedExample(t *testing.T) {
	x := []int8{0, 1, -1, 0, 1, 1, -1, 0}
	got, err := Encode(x)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x34, 0x35}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Encode(%v) = %#x, want %#x", x, got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := [][]int8{
		{0, 1, -1, 0, 1, 1, -1, 0},
		{1},
		{-1},
		{0},
		{1, 1, 1, 1, 1, 1, 1},
		{-1, -1, -1, -1, -1, -1, -1, -1, -1},
		{},
	}
	for _, x := range cases {
		enc, err := Encode(x)
		if err != nil {
			t.Fatalf("Encode(%v): %v", x, err)
		}
		dec, err := Decode(enc, len(x))
		if err != nil {
			t.Fatalf("Decode(Encode(%v)): %v", x, err)
		}
		if !reflect.DeepEqual(dec, x) {
			t.Fatalf("round trip mismatch: got %v, want %v", dec, x)
		}
	}
}

func TestEncodeRejectsInvalidCoefficient(t *testing.T) {
	_, err := Encode([]int8{0, 1, 2})
	if err == nil {
		t.Fatal("expected error for coefficient 2")
	}
}

func TestDecodeRejectsInvalidCode(t *testing.T) {
	// entry 0 code = 10 (binary), the code never produced by Encode.
	_, err := Decode([]byte{0b00000010}, 1)
	if err == nil {
		t.Fatal("expected error for 10 code")
	}
}

func TestDecodeRejectsShortInput(t *testing.T) {
	_, err := Decode([]byte{0x00}, 8)
	if err == nil {
		t.Fatal("expected error: 8 entries need 2 bytes, got 1")
	}
}

func TestDecodeRejectsNonCanonicalPadding(t *testing.T) {
	// m=1 needs 1 byte; a second nonzero byte is non-canonical padding.
	_, err := Decode([]byte{0x01, 0x01}, 1)
	if err == nil {
		t.Fatal("expected error for non-canonical padding")
	}
}

func TestDecodeRejectsSetUnusedHighBitsInLastByte(t *testing.T) {
	// m=1 needs 1 byte; entry 0's code lives in bits 0-1, bits 2-7 are
	// unused and must be zero. Bit 2 set here is non-canonical even though
	// it lies within the single byte Decode was given, not past it.
	_, err := Decode([]byte{0b00000101}, 1)
	if err == nil {
		t.Fatal("expected error for set unused high bit within the last used byte")
	}

	// m=5 needs 2 bytes: byte 0 holds entries 0-3, byte 1 holds entry 4 in
	// bits 0-1 and leaves bits 2-7 unused.
	_, err = Decode([]byte{0x00, 0b00000100}, 5)
	if err == nil {
		t.Fatal("expected error for set unused high bit in the second byte")
	}
}

func TestEncodedLen(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 4: 1, 5: 2, 8: 2, 9: 3}
	for m, want := range cases {
		if got := EncodedLen(m); got != want {
			t.Errorf("EncodedLen(%d) = %d, want %d", m, got, want)
		}
	}
}
