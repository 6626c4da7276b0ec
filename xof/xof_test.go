package xof

import (
	"bytes"
	"crypto/sha256"
	"testing"
)

func TestSHA256CtrStreamMatchesBlocks(t *testing.T) {
	seed := []byte("test-vector-0")
	got := Stream(SHA256Ctr, seed, 96)

	var want []byte
	for k := uint64(0); k < 3; k++ {
		b := Block(seed, k)
		want = append(want, b[:]...)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("stream mismatch:\ngot  %x\nwant %x", got, want)
	}
}

func TestBlockDefinition(t *testing.T) {
	seed := []byte("abc")
	b := Block(seed, 0)

	h := sha256.New()
	h.Write(seed)
	h.Write([]byte{0, 0, 0, 0, 0, 0, 0, 0})
	want := h.Sum(nil)

	if !bytes.Equal(b[:], want) {
		t.Fatalf("block 0 mismatch: got %x want %x", b, want)
	}
}

func TestStreamDeterministic(t *testing.T) {
	seed := []byte("determinism")
	a := Stream(SHA256Ctr, seed, 1000)
	b := Stream(SHA256Ctr, seed, 1000)
	if !bytes.Equal(a, b) {
		t.Fatal("SHA256Ctr stream is not deterministic")
	}

	c := Stream(Shake256, seed, 1000)
	d := Stream(Shake256, seed, 1000)
	if !bytes.Equal(c, d) {
		t.Fatal("Shake256 stream is not deterministic")
	}
}

func TestStreamModesDiffer(t *testing.T) {
	seed := []byte("mode-split")
	a := Stream(SHA256Ctr, seed, 64)
	b := Stream(Shake256, seed, 64)
	if bytes.Equal(a, b) {
		t.Fatal("SHA256Ctr and Shake256 streams must not collide for the same seed")
	}
}

func TestStreamExactLength(t *testing.T) {
	for _, n := range []int{0, 1, 31, 32, 33, 257} {
		got := Stream(SHA256Ctr, []byte("len"), n)
		if len(got) != n {
			t.Fatalf("n=%d: got len %d", n, len(got))
		}
	}
}
