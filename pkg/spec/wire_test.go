package spec

import (
	"bytes"
	"testing"
)

func roundTrip(t *testing.T, s Spec) {
	t.Helper()
	buf := Encode(s)
	got, n, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("Decode consumed %d bytes, encoding was %d", n, len(buf))
	}
	if !Equal(got, s) {
		t.Fatalf("round trip mismatch: got %#v, want %#v", got, s)
	}
}

func TestRoundTripAllKinds(t *testing.T) {
	samples := []Spec{
		Bool{},
		Void{},
		Uint{K: 0},
		Uint{K: 3},
		Uint{K: 4},
		Int{K: 2},
		Int{K: 6},
		BinaryFP{Format: Single},
		BinaryFP{Format: Double},
		BinaryFP{Format: Half},
		BinaryFP{Format: Quadruple},
		BinaryFP{Format: Octuple},
		DecimalFP{Format: Dec32},
		DecimalFP{Format: Dec128},
		Decimal{Scale: 2, Precision: 10},
		Bytes{Size: FixedSize(16)},
		Bytes{Size: VariableSize()},
		String{Size: VariableSize(), Encoding: Utf8},
		String{Size: FixedSize(8), Encoding: Ascii},
		String{Size: RangeSize(1, 100), Encoding: Utf16},
		Optional{Elem: Bool{}},
		List{Size: VariableSize(), Value: Int{K: 2}},
		List{Size: GreaterThanSize(1), Value: Bool{}},
		Map{Size: VariableSize(), Key: String{Size: VariableSize(), Encoding: Utf8}, Value: Int{K: 2}},
		Record{Fields: []Field{{Name: "a", Spec: Bool{}}, {Name: "b", Spec: Void{}}}},
		Tuple{Elems: []Spec{Int{K: 2}, Optional{Elem: Int{K: 3}}}},
		Enum{Variants: []Variant{{Name: "A", Spec: Void{}}, {Name: "B", Spec: Bool{}}}},
		Union{Variants: []Spec{Bool{}, Int{K: 2}}},
		Name{Name: "List", Body: Tuple{Elems: []Spec{Int{K: 2}, Optional{Elem: Ref{Name: "List"}}}}},
	}
	for _, s := range samples {
		roundTrip(t, s)
	}
}

func TestEncodeEmitsShortestAliasForm(t *testing.T) {
	cases := []struct {
		s    Spec
		want []byte
	}{
		{Uint{K: 0}, []byte{tagUint0}},
		{Uint{K: 3}, []byte{tagUint3}},
		{Int{K: 1}, []byte{tagInt1}},
		{BinaryFP{Format: Single}, []byte{tagSingle}},
		{BinaryFP{Format: Double}, []byte{tagDouble}},
		{String{Size: VariableSize(), Encoding: Utf8}, []byte{tagUtf8}},
		{Bool{}, []byte{tagBool}},
	}
	for _, c := range cases {
		if got := Encode(c.s); !bytes.Equal(got, c.want) {
			t.Errorf("Encode(%#v) = %x, want %x", c.s, got, c.want)
		}
	}
}

func TestLongformNeverAliases(t *testing.T) {
	cases := []Spec{
		Uint{K: 0},
		Int{K: 2},
		BinaryFP{Format: Single},
		BinaryFP{Format: Double},
		String{Size: VariableSize(), Encoding: Utf8},
	}
	for _, s := range cases {
		buf := EncodeLongform(s)
		if len(buf) < 2 {
			t.Errorf("EncodeLongform(%#v) = %x, expected general (multi-byte) form", s, buf)
		}
		got, n, err := Decode(buf)
		if err != nil || n != len(buf) || !Equal(got, s) {
			t.Errorf("longform round trip failed for %#v: got=%#v n=%d err=%v", s, got, n, err)
		}
	}
}

func TestDecodeAcceptsBothAliasAndGeneralForm(t *testing.T) {
	s := Uint{K: 2}
	alias := Encode(s)
	general := EncodeLongform(s)
	if bytes.Equal(alias, general) {
		t.Fatalf("alias and general encodings should differ")
	}
	for _, buf := range [][]byte{alias, general} {
		got, n, err := Decode(buf)
		if err != nil || n != len(buf) || !Equal(got, s) {
			t.Fatalf("Decode(%x) = (%#v, %d, %v), want %#v", buf, got, n, err, s)
		}
	}
}

func TestDecodeUnknownSpecFlag(t *testing.T) {
	_, _, err := Decode([]byte{0xfe})
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != UnknownSpecFlag || pe.Byte != 0xfe {
		t.Fatalf("got %#v, want UnknownSpecFlag(0xfe)", err)
	}
}

func TestDecodeUnknownBinaryFormatFlag(t *testing.T) {
	_, _, err := Decode([]byte{tagBinaryFP, 0xff})
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != UnknownBinaryFormatFlag {
		t.Fatalf("got %#v, want UnknownBinaryFormatFlag", err)
	}
}

func TestDecodeUnknownSizeFormatFlag(t *testing.T) {
	_, _, err := Decode([]byte{tagBytes, 0x7f})
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != UnknownSizeFormatFlag {
		t.Fatalf("got %#v, want UnknownSizeFormatFlag", err)
	}
}

func TestDecodeTruncatedInputReportsEOF(t *testing.T) {
	full := Encode(Record{Fields: []Field{{Name: "x", Spec: Bool{}}}})
	for n := 0; n < len(full); n++ {
		if _, _, err := Decode(full[:n]); err != ErrUnexpectedEndOfBytes {
			t.Fatalf("Decode(truncated to %d bytes) = %v, want ErrUnexpectedEndOfBytes", n, err)
		}
	}
}

func FuzzDecodeNoPanic(f *testing.F) {
	f.Add(Encode(Record{Fields: []Field{{Name: "x", Spec: Optional{Elem: Int{K: 2}}}}}))
	f.Add([]byte{tagUnion, 0x02, tagBool, tagVoid})
	f.Fuzz(func(t *testing.T, data []byte) {
		_, _, _ = Decode(data)
	})
}
