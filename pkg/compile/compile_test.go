package compile

import (
	"testing"

	"github.com/blockberries/gluino/pkg/spec"
)

func mustCompile(t *testing.T, s spec.Spec) *CompiledSpec {
	t.Helper()
	cs, err := Compile(s)
	if err != nil {
		t.Fatalf("Compile(%#v): %v", s, err)
	}
	return cs
}

func wantErrKind(t *testing.T, err error, kind ErrorKind) *Error {
	t.Helper()
	ce, ok := err.(*Error)
	if !ok {
		t.Fatalf("got error %v (%T), want *compile.Error with kind %s", err, err, kind)
	}
	if ce.Kind != kind {
		t.Fatalf("got error kind %s, want %s", ce.Kind, kind)
	}
	return ce
}

func TestCompilePrimitives(t *testing.T) {
	for _, s := range []spec.Spec{
		spec.Bool{}, spec.Void{}, spec.Uint{K: 2}, spec.Int{K: 5},
		spec.BinaryFP{Format: spec.Double}, spec.Decimal{Scale: 2, Precision: 4},
		spec.Bytes{Size: spec.FixedSize(16)},
	} {
		cs := mustCompile(t, s)
		if !spec.Equal(cs.ToSpec(), s) {
			t.Errorf("ToSpec round trip mismatch for %#v: got %#v", s, cs.ToSpec())
		}
	}
}

func TestCompileIllegalDecimalFmt(t *testing.T) {
	_, err := Compile(spec.Decimal{Scale: 5, Precision: 2})
	wantErrKind(t, err, IllegalDecimalFmt)
}

func TestCompileRecursiveListRoundTrips(t *testing.T) {
	s := spec.Name{
		Name: "List",
		Body: spec.Tuple{Elems: []spec.Spec{
			spec.Int{K: 2},
			spec.Optional{Elem: spec.Ref{Name: "List"}},
		}},
	}
	cs := mustCompile(t, s)
	if !spec.Equal(cs.ToSpec(), s) {
		t.Fatalf("ToSpec mismatch:\n got  %#v\n want %#v", cs.ToSpec(), s)
	}
	if _, ok := cs.Env["List"]; !ok {
		t.Fatalf("expected env to capture body for name List")
	}
	if !cs.NamesUsed["List"] {
		t.Fatalf("expected NamesUsed to include List")
	}
}

func TestCompileDuplicateName(t *testing.T) {
	s := spec.Record{Fields: []spec.Field{
		{Name: "a", Spec: spec.Name{Name: "X", Body: spec.Bool{}}},
		{Name: "b", Spec: spec.Name{Name: "X", Body: spec.Void{}}},
	}}
	_, err := Compile(s)
	wantErrKind(t, err, DuplicateName)
}

func TestCompileUndefinedName(t *testing.T) {
	_, err := Compile(spec.Ref{Name: "Nowhere"})
	wantErrKind(t, err, UndefinedName)
}

func TestCompileDuplicateRecordFieldNames(t *testing.T) {
	s := spec.Record{Fields: []spec.Field{
		{Name: "a", Spec: spec.Bool{}},
		{Name: "a", Spec: spec.Void{}},
	}}
	_, err := Compile(s)
	ce := wantErrKind(t, err, DuplicateRecordFieldNames)
	if len(ce.Names) != 1 || ce.Names[0] != "a" {
		t.Fatalf("got Names=%v, want [a]", ce.Names)
	}
}

func TestCompileDuplicateEnumVariantNames(t *testing.T) {
	s := spec.Enum{Variants: []spec.Variant{
		{Name: "A", Spec: spec.Bool{}},
		{Name: "A", Spec: spec.Void{}},
	}}
	_, err := Compile(s)
	wantErrKind(t, err, DuplicateEnumVariantNames)
}

func TestCompileDuplicateUnionVariantSpecs(t *testing.T) {
	s := spec.Union{Variants: []spec.Spec{spec.Bool{}, spec.Bool{}}}
	_, err := Compile(s)
	wantErrKind(t, err, DuplicateUnionVariantSpecs)
}

func TestCompileDirectlyRecursiveNameFails(t *testing.T) {
	s := spec.Name{Name: "X", Body: spec.Ref{Name: "X"}}
	_, err := Compile(s)
	wantErrKind(t, err, InfinitelyRecursiveType)
}

func TestCompileEnumEscapesRecursionViaSibling(t *testing.T) {
	// One variant is self-referential, the other is finite: the sum as a
	// whole is inhabited by picking the finite variant.
	s := spec.Name{
		Name: "Choice",
		Body: spec.Enum{Variants: []spec.Variant{
			{Name: "Recur", Spec: spec.Ref{Name: "Choice"}},
			{Name: "Base", Spec: spec.Bool{}},
		}},
	}
	cs := mustCompile(t, s)
	if !spec.Equal(cs.ToSpec(), s) {
		t.Fatalf("ToSpec mismatch:\n got  %#v\n want %#v", cs.ToSpec(), s)
	}
}

func TestCompileEnumAllVariantsRecursiveFails(t *testing.T) {
	s := spec.Name{
		Name: "Loop",
		Body: spec.Enum{Variants: []spec.Variant{
			{Name: "A", Spec: spec.Ref{Name: "Loop"}},
			{Name: "B", Spec: spec.Ref{Name: "Loop"}},
		}},
	}
	_, err := Compile(s)
	wantErrKind(t, err, InfinitelyRecursiveType)
}

func TestCompileOptionalBreaksRecursion(t *testing.T) {
	s := spec.Name{
		Name: "Stream",
		Body: spec.Optional{Elem: spec.Tuple{Elems: []spec.Spec{
			spec.Int{K: 2},
			spec.Ref{Name: "Stream"},
		}}},
	}
	mustCompile(t, s)
}
