package codec

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions. These can be checked with errors.Is.
var (
	// ErrMaxDepthExceeded indicates the maximum nesting depth was exceeded.
	ErrMaxDepthExceeded = errors.New("gluino/codec: maximum nesting depth exceeded")

	// ErrMaxMessageSize indicates the maximum message size was exceeded.
	ErrMaxMessageSize = errors.New("gluino/codec: maximum message size exceeded")

	// ErrUnexpectedEOF indicates the input ended before a value was fully read.
	ErrUnexpectedEOF = errors.New("gluino/codec: unexpected end of data")

	// ErrInvalidUTF8 indicates a decoded string is not valid UTF-8 (or, for
	// Ascii-encoded strings, not valid ASCII).
	ErrInvalidUTF8 = errors.New("gluino/codec: invalid encoded text")
)

// EncodeError provides detailed context for a Serialize failure.
type EncodeError struct {
	// Kind classifies the failure.
	Kind EncodeErrorKind

	// Expected and Actual carry the mismatched quantity for Kind values
	// that compare an expectation against what was actually supplied
	// (IncorrectDataSize, IncorrectNumberOfFields).
	Expected uint64
	Actual   uint64

	// ValueKind is the runtime Kind encountered, for the
	// ValueKindMismatch/ProductKindValueKindMismatch/SumKindValueKindMismatch
	// kinds, or the container Kind (Bytes/String/List/Map) for
	// IncorrectDataSize.
	ValueKind Kind

	// Cause is the underlying error, if any (e.g. a write failure from the
	// sink, or a transcoding failure from a String value).
	Cause error
}

// EncodeErrorKind classifies an EncodeError.
type EncodeErrorKind int

const (
	// WriteError indicates the Writer refused a write (it was frozen by
	// Bytes) or a String value could not be transcoded into its schema's
	// encoding; Cause carries the underlying error.
	WriteError EncodeErrorKind = iota
	// IncorrectDataSize indicates a Bytes/String/List/Map value's length
	// does not satisfy the schema's Size descriptor.
	IncorrectDataSize
	// ValueKindMismatch indicates the Value's Kind does not match what the
	// schema node at this position expects.
	ValueKindMismatch
	// ProductKindValueKindMismatch indicates a Record or Tuple was expected
	// but the Value was neither.
	ProductKindValueKindMismatch
	// IncorrectNumberOfFields indicates a Record or Tuple value's field
	// count does not match the schema.
	IncorrectNumberOfFields
	// SumKindValueKindMismatch indicates an Enum or Union was expected but
	// the Value was neither.
	SumKindValueKindMismatch
	// InvalidVariantID indicates an Enum or Union value names a variant
	// index outside the schema's variant count.
	InvalidVariantID
	// IncorrectNumberOfIntegerBytes indicates an Int/Uint value's byte
	// buffer does not match the schema's declared width.
	IncorrectNumberOfIntegerBytes
	// IncorrectNumberOfFloatingPointBytes indicates a BinaryFP/DecimalFP
	// value's byte buffer does not match the schema's declared format
	// width.
	IncorrectNumberOfFloatingPointBytes
)

func (k EncodeErrorKind) String() string {
	switch k {
	case WriteError:
		return "write error"
	case IncorrectDataSize:
		return "incorrect data size"
	case ValueKindMismatch:
		return "value kind mismatch"
	case ProductKindValueKindMismatch:
		return "product kind value mismatch"
	case IncorrectNumberOfFields:
		return "incorrect number of fields"
	case SumKindValueKindMismatch:
		return "sum kind value mismatch"
	case InvalidVariantID:
		return "invalid variant id"
	case IncorrectNumberOfIntegerBytes:
		return "incorrect number of integer bytes"
	case IncorrectNumberOfFloatingPointBytes:
		return "incorrect number of floating-point bytes"
	default:
		return "unknown encode error"
	}
}

func (e *EncodeError) Error() string {
	switch e.Kind {
	case IncorrectDataSize:
		return fmt.Sprintf("gluino/codec: encode: %s: %s: expected %d, got %d", e.Kind, e.ValueKind, e.Expected, e.Actual)
	case IncorrectNumberOfFields, IncorrectNumberOfIntegerBytes, IncorrectNumberOfFloatingPointBytes:
		return fmt.Sprintf("gluino/codec: encode: %s: expected %d, got %d", e.Kind, e.Expected, e.Actual)
	case ValueKindMismatch, ProductKindValueKindMismatch, SumKindValueKindMismatch:
		return fmt.Sprintf("gluino/codec: encode: %s: got %s", e.Kind, e.ValueKind)
	case WriteError:
		return fmt.Sprintf("gluino/codec: encode: %s: %v", e.Kind, e.Cause)
	default:
		return fmt.Sprintf("gluino/codec: encode: %s", e.Kind)
	}
}

func (e *EncodeError) Unwrap() error { return e.Cause }

// DecodeError provides detailed context for a Deserialize failure.
type DecodeError struct {
	Kind     DecodeErrorKind
	Expected uint64
	Actual   uint64

	// ValueKind is the container Kind (Bytes/String/List/Map) for
	// DataSizeOutOfBounds, identifying which schema node failed.
	ValueKind Kind

	Cause error
}

// DecodeErrorKind classifies a DecodeError.
type DecodeErrorKind int

const (
	// ReadError indicates the source ran out of bytes or otherwise failed.
	ReadError DecodeErrorKind = iota
	// DataSizeOutOfBounds indicates a decoded length does not satisfy the
	// schema's Size descriptor.
	DataSizeOutOfBounds
	// InvalidVariantIDDecode indicates a decoded variant index is outside
	// the schema's variant count.
	InvalidVariantIDDecode
	// MalformedText indicates decoded bytes are not valid text under the
	// schema's declared encoding.
	MalformedText
	// LimitExceeded indicates a configured Limits bound was exceeded.
	LimitExceeded
)

func (k DecodeErrorKind) String() string {
	switch k {
	case ReadError:
		return "read error"
	case DataSizeOutOfBounds:
		return "data size out of bounds"
	case InvalidVariantIDDecode:
		return "invalid variant id"
	case MalformedText:
		return "malformed text"
	case LimitExceeded:
		return "limit exceeded"
	default:
		return "unknown decode error"
	}
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case DataSizeOutOfBounds:
		return fmt.Sprintf("gluino/codec: decode: %s: %s: expected %d, got %d", e.Kind, e.ValueKind, e.Expected, e.Actual)
	case InvalidVariantIDDecode:
		return fmt.Sprintf("gluino/codec: decode: %s: got %d, max %d", e.Kind, e.Actual, e.Expected)
	default:
		if e.Cause != nil {
			return fmt.Sprintf("gluino/codec: decode: %s: %v", e.Kind, e.Cause)
		}
		return fmt.Sprintf("gluino/codec: decode: %s", e.Kind)
	}
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// IsLimitExceeded reports whether err indicates a configured Limits bound
// was exceeded during decoding.
func IsLimitExceeded(err error) bool {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind == LimitExceeded
	}
	return errors.Is(err, ErrMaxDepthExceeded) || errors.Is(err, ErrMaxMessageSize)
}
