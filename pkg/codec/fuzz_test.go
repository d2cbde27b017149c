package codec

import (
	"testing"

	"github.com/blockberries/gluino/pkg/compile"
	"github.com/blockberries/gluino/pkg/spec"
)

// FuzzDeserializeNoPanic guards the synthesized decoder tree against panics
// on arbitrary input, for a handful of representative schema shapes —
// scalar, variable-length, and recursive.
func FuzzDeserializeNoPanic(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})
	f.Add([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	schemas := []spec.Spec{
		spec.Uint{K: 3},
		spec.String{Size: spec.VariableSize(), Encoding: spec.Utf8},
		spec.List{Size: spec.VariableSize(), Value: spec.Bool{}},
		spec.Union{Variants: []spec.Spec{spec.Bool{}, spec.Int{K: 2}}},
		spec.Name{
			Name: "List",
			Body: spec.Tuple{Elems: []spec.Spec{
				spec.Int{K: 1},
				spec.Optional{Elem: spec.Ref{Name: "List"}},
			}},
		},
	}
	decoders := make([]*Decoder, len(schemas))
	for i, s := range schemas {
		cs, err := compile.Compile(s)
		if err != nil {
			f.Fatalf("Compile: %v", err)
		}
		dec, err := MakeDecoder(cs)
		if err != nil {
			f.Fatalf("MakeDecoder: %v", err)
		}
		decoders[i] = dec
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, dec := range decoders {
			r := NewReader(data, SecureOptions)
			_, _ = dec.Deserialize(r)
		}
	})
}

// FuzzStringRoundTrip guards the UTF-8/ASCII/UTF-16 transcoding layer
// against panics and checks that whatever decodes back re-encodes without
// error, for every declared encoding.
func FuzzStringRoundTrip(f *testing.F) {
	f.Add("")
	f.Add("hello")
	f.Add("héllo, 世界")
	f.Add(string([]byte{0xff, 0xfe, 0x00}))

	f.Fuzz(func(t *testing.T, s string) {
		for _, enc := range []spec.StringEncoding{spec.Utf8, spec.Ascii, spec.Utf16} {
			encoded, err := encodeText(s, enc)
			if err != nil {
				continue
			}
			decoded, err := decodeText(encoded, enc, false)
			if err != nil {
				t.Fatalf("decodeText(%q, %v) after successful encodeText: %v", s, enc, err)
			}
			reencoded, err := encodeText(decoded, enc)
			if err != nil {
				t.Fatalf("re-encodeText(%q, %v): %v", decoded, enc, err)
			}
			if string(reencoded) != string(encoded) {
				t.Fatalf("encoding %v not stable: %q -> %x -> %q -> %x", enc, s, encoded, decoded, reencoded)
			}
		}
	})
}
