// Package spec defines the schema AST — the closed sum of type descriptions
// a schema can be built from — and its wire encoding. Nothing in this
// package knows how to compile a schema or synthesize a codec for it; see
// pkg/compile and pkg/codec for those.
package spec

// Spec is the sealed set of schema node kinds. Every schema, named or
// anonymous, is a tree of these.
type Spec interface {
	specNode()
}

// SizeKind selects the shape of a Size descriptor.
type SizeKind byte

const (
	SizeVariable SizeKind = iota
	SizeFixed
	SizeRange
	SizeGreaterThan
	SizeLessThan
)

// Size constrains the length of a Bytes, String, List, or Map value.
//
// Fixed omits a wire length prefix; the encoder rejects any value whose
// length differs from N. The other four kinds write a varint length prefix
// and reject values outside the declared bound.
type Size struct {
	Kind  SizeKind
	N     uint64 // Fixed: exact length
	Start uint64 // Range: inclusive lower bound
	End   uint64 // Range: exclusive upper bound
	Bound uint64 // GreaterThan / LessThan
}

// FixedSize returns a Size requiring exactly n.
func FixedSize(n uint64) Size { return Size{Kind: SizeFixed, N: n} }

// VariableSize returns an unconstrained, length-prefixed Size.
func VariableSize() Size { return Size{Kind: SizeVariable} }

// RangeSize returns a Size requiring length in the half-open range [start, end).
func RangeSize(start, end uint64) Size { return Size{Kind: SizeRange, Start: start, End: end} }

// GreaterThanSize returns a Size requiring length >= n.
func GreaterThanSize(n uint64) Size { return Size{Kind: SizeGreaterThan, Bound: n} }

// LessThanSize returns a Size requiring length < n.
func LessThanSize(n uint64) Size { return Size{Kind: SizeLessThan, Bound: n} }

// Accepts reports whether length satisfies the size constraint.
func (s Size) Accepts(length uint64) bool {
	switch s.Kind {
	case SizeFixed:
		return length == s.N
	case SizeRange:
		return length >= s.Start && length < s.End
	case SizeGreaterThan:
		return length >= s.Bound
	case SizeLessThan:
		return length < s.Bound
	case SizeVariable:
		return true
	default:
		return false
	}
}

// BinaryFPFormat is an IEEE interchange binary floating-point format.
type BinaryFPFormat byte

const (
	Half BinaryFPFormat = iota
	Single
	Double
	Quadruple
	Octuple
)

// SignificandBits returns the number of significand bits carried on the wire,
// including the implicit leading bit.
func (f BinaryFPFormat) SignificandBits() int {
	switch f {
	case Half:
		return 11
	case Single:
		return 24
	case Double:
		return 53
	case Quadruple:
		return 113
	case Octuple:
		return 237
	default:
		return 0
	}
}

// ExponentBits returns the number of exponent bits carried on the wire.
func (f BinaryFPFormat) ExponentBits() int {
	switch f {
	case Half:
		return 5
	case Single:
		return 8
	case Double:
		return 11
	case Quadruple:
		return 15
	case Octuple:
		return 19
	default:
		return 0
	}
}

// ByteWidth returns the wire width in bytes: one sign bit plus the exponent
// bits plus the significand bits less the implicit leading bit, divided by
// eight. For every defined format that bit count is a multiple of eight.
func (f BinaryFPFormat) ByteWidth() int {
	return (1 + f.ExponentBits() + f.SignificandBits() - 1) / 8
}

// DecimalFPFormat is an IEEE interchange decimal floating-point format.
type DecimalFPFormat byte

const (
	Dec32 DecimalFPFormat = iota
	Dec64
	Dec128
)

// ByteWidth returns the wire width in bytes.
func (f DecimalFPFormat) ByteWidth() int {
	switch f {
	case Dec32:
		return 4
	case Dec64:
		return 8
	case Dec128:
		return 16
	default:
		return 0
	}
}

// StringEncoding selects how a String kind's bytes are interpreted.
type StringEncoding byte

const (
	Utf8 StringEncoding = iota
	Utf16
	Ascii
)

// Bool is the boolean kind.
type Bool struct{}

// Void carries no value; it always encodes as zero bytes.
type Void struct{}

// Uint is an unsigned integer of width 2^K bytes.
type Uint struct{ K byte }

// Int is a signed (two's complement) integer of width 2^K bytes.
type Int struct{ K byte }

// BinaryFP is an IEEE binary floating-point value.
type BinaryFP struct{ Format BinaryFPFormat }

// DecimalFP is an IEEE decimal floating-point value.
type DecimalFP struct{ Format DecimalFPFormat }

// Decimal is an arbitrary-precision fixed-point value with the given scale
// and precision. Precision must be >= scale.
type Decimal struct{ Scale, Precision uint64 }

// Bytes is a sized, opaque byte buffer.
type Bytes struct{ Size Size }

// String is a sized buffer with a declared text encoding.
type String struct {
	Size     Size
	Encoding StringEncoding
}

// Optional wraps a schema whose value may be absent.
type Optional struct{ Elem Spec }

// List is a homogeneous, ordered sequence.
type List struct {
	Size  Size
	Value Spec
}

// Map is a sequence of (key, value) pairs encoded as a flat pair list.
type Map struct {
	Size  Size
	Key   Spec
	Value Spec
}

// Field is one named, ordered member of a Record.
type Field struct {
	Name string
	Spec Spec
}

// Record is an ordered product with named fields, encoded positionally
// (field names are not written to the wire).
type Record struct{ Fields []Field }

// Tuple is an ordered, unnamed product.
type Tuple struct{ Elems []Spec }

// Variant is one named case of an Enum.
type Variant struct {
	Name string
	Spec Spec
}

// Enum is a named sum: the wire value is (variant index, inner value).
type Enum struct{ Variants []Variant }

// Union is an unnamed sum over distinct variant schemas.
type Union struct{ Variants []Spec }

// Name introduces a named schema. Name sites establish the environment
// entry that Ref leaves resolve against, and are the only way to express
// a cyclic schema.
type Name struct {
	Name string
	Body Spec
}

// Ref refers to a schema introduced by an enclosing or sibling Name.
type Ref struct{ Name string }

func (Bool) specNode()      {}
func (Void) specNode()      {}
func (Uint) specNode()      {}
func (Int) specNode()       {}
func (BinaryFP) specNode()  {}
func (DecimalFP) specNode() {}
func (Decimal) specNode()   {}
func (Bytes) specNode()     {}
func (String) specNode()    {}
func (Optional) specNode()  {}
func (List) specNode()      {}
func (Map) specNode()       {}
func (Record) specNode()    {}
func (Tuple) specNode()     {}
func (Enum) specNode()      {}
func (Union) specNode()     {}
func (Name) specNode()      {}
func (Ref) specNode()       {}
