// Package compile turns a schema AST (pkg/spec) into a CompiledSpec:
// a validated, cycle-safe structure paired with the named environment
// its Named leaves resolve against, and a content fingerprint.
package compile

import "github.com/blockberries/gluino/pkg/spec"

// Node is the sealed set of compiled schema node kinds. It mirrors
// pkg/spec.Spec except that every definition site (what was spec.Name) and
// every reference site (spec.Ref) collapse into a single Named leaf: the
// compiled structure never owns a cyclic subtree directly, only a name that
// indexes into the environment.
type Node interface {
	compiledNode()
}

type Bool struct{}
type Void struct{}
type Uint struct{ K byte }
type Int struct{ K byte }
type BinaryFP struct{ Format spec.BinaryFPFormat }
type DecimalFP struct{ Format spec.DecimalFPFormat }
type Decimal struct{ Scale, Precision uint64 }
type Bytes struct{ Size spec.Size }
type String struct {
	Size     spec.Size
	Encoding spec.StringEncoding
}
type Optional struct{ Elem Node }
type List struct {
	Size  spec.Size
	Value Node
}
type Map struct {
	Size  spec.Size
	Key   Node
	Value Node
}

// Field is one compiled record field, order-preserving.
type Field struct {
	Name string
	Node Node
}

// Record is a compiled product type. FieldIndex maps a field name to its
// position in Fields for O(1) lookup by synthesized codecs.
type Record struct {
	Fields     []Field
	FieldIndex map[string]int
}

type Tuple struct{ Elems []Node }

// Variant is one compiled enum case, order-preserving.
type Variant struct {
	Name string
	Node Node
}

// Enum is a compiled named sum. VariantIndex maps a variant name to its
// wire index.
type Enum struct {
	Variants     []Variant
	VariantIndex map[string]int
}

type Union struct{ Variants []Node }

// Named is a leaf that resolves through the environment rather than owning
// its body directly. It is emitted both where the source AST wrote
// spec.Name{n, body} (a definition site) and where it wrote spec.Ref{n} (a
// reference site) — after compilation the two are indistinguishable, which
// is what lets the environment be shared and cycles be broken.
type Named struct{ Name string }

func (Bool) compiledNode()      {}
func (Void) compiledNode()      {}
func (Uint) compiledNode()      {}
func (Int) compiledNode()       {}
func (BinaryFP) compiledNode()  {}
func (DecimalFP) compiledNode() {}
func (Decimal) compiledNode()   {}
func (Bytes) compiledNode()     {}
func (String) compiledNode()    {}
func (Optional) compiledNode()  {}
func (List) compiledNode()      {}
func (Map) compiledNode()       {}
func (Record) compiledNode()    {}
func (Tuple) compiledNode()     {}
func (Enum) compiledNode()      {}
func (Union) compiledNode()     {}
func (Named) compiledNode()     {}

// CompiledSpec is the output of Compile: a validated structure, the named
// environment its Named leaves share, and the set of names the structure
// actually depends on.
//
// Env entries are owned by reference: any number of Named leaves — in
// Structure or in other Env bodies — may point at the same name, and the
// environment, not any single leaf, is what keeps a cyclic body alive.
type CompiledSpec struct {
	Structure Node
	Env       map[string]Node
	NamesUsed map[string]bool

	fingerprint    [32]byte
	fingerprintSet bool
}
