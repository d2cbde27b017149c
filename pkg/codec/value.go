// Package codec synthesizes encoders and decoders from a compiled schema
// (pkg/compile) and defines the runtime Value a caller constructs or
// receives. Nothing here parses or compiles schemas; it only walks an
// already-compiled one once, up front, and produces closures that do the
// per-call work.
package codec

import (
	"math"

	"github.com/blockberries/gluino/internal/wire"
	"github.com/blockberries/gluino/pkg/spec"
)

// Kind tags which case of the sealed Value sum a value belongs to, for
// building mismatch errors without a type switch at every call site.
type Kind int

const (
	KindBool Kind = iota
	KindVoid
	KindInt
	KindUint
	KindBinaryFP
	KindDecimalFP
	KindDecimal
	KindBytes
	KindString
	KindOptional
	KindList
	KindMap
	KindRecord
	KindTuple
	KindEnum
	KindUnion
)

func (k Kind) String() string {
	names := [...]string{
		"Bool", "Void", "Int", "Uint", "BinaryFP", "DecimalFP", "Decimal",
		"Bytes", "String", "Optional", "List", "Map", "Record", "Tuple",
		"Enum", "Union",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Kind(?)"
	}
	return names[k]
}

// Value is the sealed set of runtime value shapes, one per schema kind.
type Value interface {
	Kind() Kind
}

// Bool is a boolean value.
type Bool bool

// Void is the single inhabitant of the Void kind.
type Void struct{}

// Int is a signed, two's complement integer of width 2^K bytes, carried as
// little-endian bytes. NewInt populates Bytes from a native int64 for
// K <= 3; wider values are constructed directly with their LE byte buffer.
type Int struct {
	K     byte
	Bytes []byte
}

// NewInt builds an Int of width 2^k bytes (k <= 3) from a native int64.
func NewInt(k byte, v int64) Int {
	width := 1 << k
	buf := make([]byte, width)
	u := uint64(v)
	switch width {
	case wire.Fixed32Size:
		wire.PutFixed32(buf, uint32(u))
	case wire.Fixed64Size:
		wire.PutFixed64(buf, u)
	default:
		for i := 0; i < width; i++ {
			buf[i] = byte(u >> (8 * i))
		}
	}
	return Int{K: k, Bytes: buf}
}

// Int64 returns i's value as a native int64, sign-extended, when its width
// is 8 bytes or narrower.
func (i Int) Int64() (int64, bool) {
	width := len(i.Bytes)
	if width > 8 {
		return 0, false
	}
	var u uint64
	switch width {
	case wire.Fixed32Size:
		u = uint64(wire.DecodeFixed32(i.Bytes))
	case wire.Fixed64Size:
		return int64(wire.DecodeFixed64(i.Bytes)), true
	default:
		for idx, b := range i.Bytes {
			u |= uint64(b) << (8 * idx)
		}
	}
	if width > 0 && width < 8 && i.Bytes[width-1]&0x80 != 0 {
		u |= ^uint64(0) << (8 * width)
	}
	return int64(u), true
}

// Uint is an unsigned integer of width 2^K bytes, carried as little-endian
// bytes.
type Uint struct {
	K     byte
	Bytes []byte
}

// NewUint builds a Uint of width 2^k bytes (k <= 3) from a native uint64.
func NewUint(k byte, v uint64) Uint {
	width := 1 << k
	buf := make([]byte, width)
	switch width {
	case wire.Fixed32Size:
		wire.PutFixed32(buf, uint32(v))
	case wire.Fixed64Size:
		wire.PutFixed64(buf, v)
	default:
		for i := 0; i < width; i++ {
			buf[i] = byte(v >> (8 * i))
		}
	}
	return Uint{K: k, Bytes: buf}
}

// Uint64 returns u's value as a native uint64 when its width is 8 bytes or
// narrower.
func (u Uint) Uint64() (uint64, bool) {
	switch len(u.Bytes) {
	case wire.Fixed32Size:
		return uint64(wire.DecodeFixed32(u.Bytes)), true
	case wire.Fixed64Size:
		return wire.DecodeFixed64(u.Bytes), true
	}
	if len(u.Bytes) > 8 {
		return 0, false
	}
	var v uint64
	for idx, b := range u.Bytes {
		v |= uint64(b) << (8 * idx)
	}
	return v, true
}

// BinaryFP is an IEEE binary floating-point value, carried as the raw
// little-endian bytes of its wire representation. Storing bytes rather
// than a decoded float64 is what makes two NaN values with the same bit
// pattern compare equal under reflect.DeepEqual.
type BinaryFP struct {
	Format spec.BinaryFPFormat
	Bytes  []byte
}

// NewFloat64 builds a Double BinaryFP from a native float64.
func NewFloat64(v float64) BinaryFP {
	buf := make([]byte, wire.Fixed64Size)
	wire.PutFixed64(buf, math.Float64bits(v))
	return BinaryFP{Format: spec.Double, Bytes: buf}
}

// NewFloat32 builds a Single BinaryFP from a native float32.
func NewFloat32(v float32) BinaryFP {
	buf := make([]byte, wire.Fixed32Size)
	wire.PutFixed32(buf, math.Float32bits(v))
	return BinaryFP{Format: spec.Single, Bytes: buf}
}

// Float64 decodes f as a native float64, valid only when Format is Double.
func (f BinaryFP) Float64() (float64, bool) {
	if f.Format != spec.Double || len(f.Bytes) != wire.Fixed64Size {
		return 0, false
	}
	return math.Float64frombits(wire.DecodeFixed64(f.Bytes)), true
}

// Float32 decodes f as a native float32, valid only when Format is Single.
func (f BinaryFP) Float32() (float32, bool) {
	if f.Format != spec.Single || len(f.Bytes) != wire.Fixed32Size {
		return 0, false
	}
	return math.Float32frombits(wire.DecodeFixed32(f.Bytes)), true
}

// DecimalFP is an IEEE decimal floating-point value, carried as opaque raw
// bytes (Go has no native decimal floating-point type to decode into).
type DecimalFP struct {
	Format spec.DecimalFPFormat
	Bytes  []byte
}

// Decimal is an arbitrary-precision fixed-point value, carried as its raw
// wire bytes.
type Decimal struct{ Bytes []byte }

// Bytes is an opaque, sized byte buffer.
type Bytes struct{ Data []byte }

// String is UTF-8 text. The wire encoding (UTF-8, UTF-16, or ASCII) is a
// schema-level concern the codec transcodes during Serialize/Deserialize;
// the runtime value is always a native Go string.
type String struct{ Text string }

// Optional carries a present value or signals absence.
type Optional struct {
	Present bool
	Elem    Value
}

// List is a homogeneous, ordered sequence.
type List struct{ Elems []Value }

// Pair is one (key, value) entry of a Map.
type Pair struct{ Key, Value Value }

// Map is a sequence of (key, value) pairs, encoded as a flat pair list.
type Map struct{ Pairs []Pair }

// Record is an ordered product; Fields aligns positionally with the
// compiled schema's field order, not by name.
type Record struct{ Fields []Value }

// Tuple is an ordered, unnamed product.
type Tuple struct{ Elems []Value }

// Enum is a named sum value: a variant index plus its inner value.
type Enum struct {
	Variant int
	Inner   Value
}

// Union is an unnamed sum value: a variant index plus its inner value.
type Union struct {
	Variant int
	Inner   Value
}

func (Bool) Kind() Kind      { return KindBool }
func (Void) Kind() Kind      { return KindVoid }
func (Int) Kind() Kind       { return KindInt }
func (Uint) Kind() Kind      { return KindUint }
func (BinaryFP) Kind() Kind  { return KindBinaryFP }
func (DecimalFP) Kind() Kind { return KindDecimalFP }
func (Decimal) Kind() Kind   { return KindDecimal }
func (Bytes) Kind() Kind     { return KindBytes }
func (String) Kind() Kind    { return KindString }
func (Optional) Kind() Kind  { return KindOptional }
func (List) Kind() Kind      { return KindList }
func (Map) Kind() Kind       { return KindMap }
func (Record) Kind() Kind    { return KindRecord }
func (Tuple) Kind() Kind     { return KindTuple }
func (Enum) Kind() Kind      { return KindEnum }
func (Union) Kind() Kind     { return KindUnion }
