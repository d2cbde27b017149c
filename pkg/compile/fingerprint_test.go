package compile

import (
	"testing"

	"github.com/blockberries/gluino/pkg/spec"
)

func TestFingerprintIdenticalShapesMatch(t *testing.T) {
	a := mustCompile(t, spec.Record{Fields: []spec.Field{
		{Name: "x", Spec: spec.Int{K: 2}},
		{Name: "y", Spec: spec.Optional{Elem: spec.Bool{}}},
	}})
	b := mustCompile(t, spec.Record{Fields: []spec.Field{
		{Name: "x", Spec: spec.Int{K: 2}},
		{Name: "y", Spec: spec.Optional{Elem: spec.Bool{}}},
	}})
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("identical-shape schemas produced different fingerprints")
	}
}

func TestFingerprintAliasChoiceDoesNotMatter(t *testing.T) {
	// Encode() picks the alias tag for Uint(2); EncodeLongform never does.
	// A schema decoded from either wire form must fingerprint identically,
	// since both compile to the same structure.
	alias, _, err := spec.Decode(spec.Encode(spec.Uint{K: 2}))
	if err != nil {
		t.Fatalf("Decode(alias form): %v", err)
	}
	general, _, err := spec.Decode(spec.EncodeLongform(spec.Uint{K: 2}))
	if err != nil {
		t.Fatalf("Decode(general form): %v", err)
	}
	a := mustCompile(t, alias)
	b := mustCompile(t, general)
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("fingerprints differ for structurally identical Uint(2) schemas")
	}
}

func TestFingerprintSensitiveToFieldOrder(t *testing.T) {
	a := mustCompile(t, spec.Record{Fields: []spec.Field{
		{Name: "x", Spec: spec.Bool{}}, {Name: "y", Spec: spec.Void{}},
	}})
	b := mustCompile(t, spec.Record{Fields: []spec.Field{
		{Name: "y", Spec: spec.Void{}}, {Name: "x", Spec: spec.Bool{}},
	}})
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("field order change produced identical fingerprints")
	}
}

func TestFingerprintSensitiveToFieldName(t *testing.T) {
	a := mustCompile(t, spec.Record{Fields: []spec.Field{{Name: "x", Spec: spec.Bool{}}}})
	b := mustCompile(t, spec.Record{Fields: []spec.Field{{Name: "z", Spec: spec.Bool{}}}})
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("field name change produced identical fingerprints")
	}
}

func TestFingerprintSensitiveToLeafType(t *testing.T) {
	a := mustCompile(t, spec.List{Size: spec.VariableSize(), Value: spec.Int{K: 2}})
	b := mustCompile(t, spec.List{Size: spec.VariableSize(), Value: spec.Int{K: 3}})
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("leaf width change produced identical fingerprints")
	}
}

func TestFingerprintSensitiveToSizeDescriptor(t *testing.T) {
	a := mustCompile(t, spec.Bytes{Size: spec.FixedSize(4)})
	b := mustCompile(t, spec.Bytes{Size: spec.FixedSize(8)})
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("size descriptor change produced identical fingerprints")
	}
}

func TestFingerprintDefinitionAndRefSitesAgree(t *testing.T) {
	// A field that is the Name's defining occurrence and a field that only
	// Refs it must fingerprint identically to each other and to the name
	// compiled on its own — the wire form a name resolves to doesn't depend
	// on which occurrence in the source happened to define it.
	standalone := mustCompile(t, spec.Name{Name: "testName", Body: spec.Bool{}})

	nested := mustCompile(t, spec.Record{Fields: []spec.Field{
		{Name: "field1", Spec: spec.Name{Name: "testName", Body: spec.Bool{}}},
		{Name: "field2", Spec: spec.Ref{Name: "testName"}},
	}})
	rec, ok := nested.Structure.(Record)
	if !ok {
		t.Fatalf("expected compiled Record structure, got %#v", nested.Structure)
	}
	field1 := rec.Fields[rec.FieldIndex["field1"]].Node
	field2 := rec.Fields[rec.FieldIndex["field2"]].Node

	fp1 := FingerprintOf(field1, nested.Env)
	fp2 := FingerprintOf(field2, nested.Env)
	if fp1 != fp2 {
		t.Fatalf("definition-site and ref-site fingerprints differ: %x vs %x", fp1, fp2)
	}
	if fp1 != standalone.Fingerprint() {
		t.Fatalf("nested name fingerprint differs from the same name compiled standalone")
	}
}

func TestFingerprintRecursiveSchemaIsStable(t *testing.T) {
	s := spec.Name{
		Name: "List",
		Body: spec.Tuple{Elems: []spec.Spec{
			spec.Int{K: 2},
			spec.Optional{Elem: spec.Ref{Name: "List"}},
		}},
	}
	a := mustCompile(t, s)
	b := mustCompile(t, s)
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("identical recursive schema compiled twice produced different fingerprints")
	}
}
