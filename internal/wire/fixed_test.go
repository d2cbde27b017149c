package wire

import (
	"math"
	"testing"
)

func TestFixed32RoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 0xdeadbeef, math.MaxUint32}
	for _, v := range cases {
		buf := AppendFixed32(nil, v)
		if len(buf) != Fixed32Size {
			t.Fatalf("AppendFixed32(%d) produced %d bytes, want %d", v, len(buf), Fixed32Size)
		}
		if got := DecodeFixed32(buf); got != v {
			t.Errorf("DecodeFixed32 = %d, want %d", got, v)
		}
		var put [Fixed32Size]byte
		PutFixed32(put[:], v)
		if DecodeFixed32(put[:]) != v {
			t.Errorf("PutFixed32/DecodeFixed32 mismatch for %d", v)
		}
	}
}

func TestFixed64RoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 0xdeadbeefcafebabe, math.MaxUint64}
	for _, v := range cases {
		buf := AppendFixed64(nil, v)
		if len(buf) != Fixed64Size {
			t.Fatalf("AppendFixed64(%d) produced %d bytes, want %d", v, len(buf), Fixed64Size)
		}
		if got := DecodeFixed64(buf); got != v {
			t.Errorf("DecodeFixed64 = %d, want %d", got, v)
		}
		var put [Fixed64Size]byte
		PutFixed64(put[:], v)
		if DecodeFixed64(put[:]) != v {
			t.Errorf("PutFixed64/DecodeFixed64 mismatch for %d", v)
		}
	}
}

func FuzzFixed32RoundTrip(f *testing.F) {
	f.Add(uint32(0))
	f.Add(uint32(0xdeadbeef))
	f.Fuzz(func(t *testing.T, v uint32) {
		buf := AppendFixed32(nil, v)
		if got := DecodeFixed32(buf); got != v {
			t.Fatalf("round trip mismatch: got %d, want %d", got, v)
		}
	})
}

func FuzzFixed64RoundTrip(f *testing.F) {
	f.Add(uint64(0))
	f.Add(uint64(0xdeadbeefcafebabe))
	f.Fuzz(func(t *testing.T, v uint64) {
		buf := AppendFixed64(nil, v)
		if got := DecodeFixed64(buf); got != v {
			t.Fatalf("round trip mismatch: got %d, want %d", got, v)
		}
	})
}
