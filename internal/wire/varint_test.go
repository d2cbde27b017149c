package wire

import (
	"bytes"
	"math"
	"testing"
)

func TestUvarintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 16383, 16384, 2097151, 2097152, math.MaxUint32, math.MaxUint64}
	for _, v := range cases {
		buf := AppendUvarint(nil, v)
		if len(buf) != UvarintSize(v) {
			t.Fatalf("UvarintSize(%d) = %d, encoded length = %d", v, UvarintSize(v), len(buf))
		}
		got, n, err := DecodeUvarint(buf)
		if err != nil {
			t.Fatalf("DecodeUvarint(%d): %v", v, err)
		}
		if n != len(buf) || got != v {
			t.Fatalf("DecodeUvarint(%d) = (%d, %d), want (%d, %d)", v, got, n, v, len(buf))
		}
	}
}

func TestUvarintKnownEncodings(t *testing.T) {
	cases := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
	}
	for _, c := range cases {
		got := AppendUvarint(nil, c.v)
		if !bytes.Equal(got, c.want) {
			t.Errorf("AppendUvarint(%d) = %x, want %x", c.v, got, c.want)
		}
	}
}

func TestDecodeUvarintIncomplete(t *testing.T) {
	_, _, err := DecodeUvarint([]byte{0x80, 0x80})
	if err != ErrIncompleteVarInt {
		t.Fatalf("got %v, want ErrIncompleteVarInt", err)
	}
	_, _, err = DecodeUvarint(nil)
	if err != ErrIncompleteVarInt {
		t.Fatalf("got %v, want ErrIncompleteVarInt", err)
	}
}

func TestDecodeUvarintOverflow(t *testing.T) {
	// 10 continuation bytes followed by a terminator overflows 64 bits.
	buf := bytes.Repeat([]byte{0xff}, 10)
	buf = append(buf, 0x01)
	_, _, err := DecodeUvarint(buf)
	if err != ErrVarintOverflow {
		t.Fatalf("got %v, want ErrVarintOverflow", err)
	}
}

func TestDecodeUvarintWidthFits(t *testing.T) {
	buf := AppendUvarint(nil, 300)
	res, n, err := DecodeUvarintWidth(buf, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(buf) || !res.Representable {
		t.Fatalf("expected representable result consuming %d bytes, got n=%d representable=%v", len(buf), n, res.Representable)
	}
	if len(res.Fitted) != 8 {
		t.Fatalf("Fitted length = %d, want 8", len(res.Fitted))
	}
	got, _, err := DecodeUvarint(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var want [8]byte
	PutFixed64(want[:], got)
	if !bytes.Equal(res.Fitted, want[:]) {
		t.Fatalf("Fitted = %x, want %x", res.Fitted, want[:])
	}
}

func TestDecodeUvarintWidthOverflows(t *testing.T) {
	// A value that needs 9 LE bytes does not fit into an 8-byte target.
	buf := AppendUvarint(nil, math.MaxUint64)
	// Append one more 7-bit group carrying a nonzero high bit so the value
	// needs a 9th byte to represent.
	extended := append(buf[:len(buf)-1], buf[len(buf)-1]|0x80, 0x01)
	res, _, err := DecodeUvarintWidth(extended, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Representable {
		t.Fatalf("expected unrepresentable result")
	}
	if len(res.Overflow) <= 8 {
		t.Fatalf("Overflow length = %d, want > 8", len(res.Overflow))
	}
}

func FuzzUvarintRoundTrip(f *testing.F) {
	f.Add(uint64(0))
	f.Add(uint64(1))
	f.Add(uint64(127))
	f.Add(uint64(128))
	f.Add(uint64(math.MaxUint64))
	f.Fuzz(func(t *testing.T, v uint64) {
		buf := AppendUvarint(nil, v)
		got, n, err := DecodeUvarint(buf)
		if err != nil {
			t.Fatalf("DecodeUvarint: %v", err)
		}
		if got != v || n != len(buf) {
			t.Fatalf("round trip mismatch: got (%d, %d), want (%d, %d)", got, n, v, len(buf))
		}
	})
}

func FuzzDecodeUvarintNoPanic(f *testing.F) {
	f.Add([]byte{0x80, 0x80, 0x80})
	f.Add([]byte{})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01})
	f.Fuzz(func(t *testing.T, data []byte) {
		_, _, _ = DecodeUvarint(data)
		_, _, _ = DecodeUvarintWidth(data, 8)
	})
}
