// Package wire provides low-level encoding primitives for the schema and
// value wire formats: variable-length integers and fixed-width little-endian
// scalars. Nothing in this package knows about schemas or values.
package wire

import (
	"errors"
	"math/big"
)

// MaxVarintLen64 is the maximum number of bytes a varint-encoded uint64 can occupy.
// A uint64 has 64 bits and each varint byte carries 7 bits, so ceil(64/7) = 10.
const MaxVarintLen64 = 10

var (
	// ErrIncompleteVarInt indicates the input ended before a terminating byte was found.
	ErrIncompleteVarInt = errors.New("wire: incomplete varint")

	// ErrVarintOverflow indicates a varint decoded into a fixed uint64 target overflows it.
	ErrVarintOverflow = errors.New("wire: varint overflows target width")
)

// AppendUvarint appends the varint encoding of v to buf and returns the extended buffer.
//
// The encoding uses 7 bits per byte with the MSB as a continuation flag, bytes
// ordered least-significant-group first. The encoding is unique: the encoder
// never emits a trailing continuation byte whose payload is zero.
func AppendUvarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// UvarintSize returns the number of bytes AppendUvarint would produce for v.
func UvarintSize(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// DecodeUvarint decodes a varint from data into a uint64, returning the value
// and the number of bytes consumed. Returns ErrIncompleteVarInt if data ends
// before a terminating byte, and ErrVarintOverflow if the encoded value does
// not fit in 64 bits.
func DecodeUvarint(data []byte) (uint64, int, error) {
	var v uint64
	var shift uint
	for i := 0; i < len(data); i++ {
		b := data[i]
		if shift >= 64 || (shift == 63 && b&0x7f > 1) {
			return 0, 0, ErrVarintOverflow
		}
		v |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return v, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, ErrIncompleteVarInt
}

// VarintResult is the outcome of decoding a varint into a caller-chosen target
// width. When the decoded value fits in widthBytes, Fitted holds its
// little-endian representation zero-padded to widthBytes and Representable is
// true. When it does not fit (the domain needs more than widthBytes, e.g. a
// 64-bit caller reading a value meant for a 128-bit domain), Representable is
// false and Overflow carries the full little-endian value with no padding.
type VarintResult struct {
	Representable bool
	Fitted        []byte
	Overflow      []byte
}

// DecodeUvarintWidth decodes a varint of unbounded precision from data and
// fits it into widthBytes little-endian bytes. The value codec's length
// prefixes and the schema codec's Size bounds are decoded through it at
// widthBytes=8, so a varint too wide for 64 bits is reported rather than
// truncated; a 64-bit caller and a 128-bit caller can decode the exact same
// byte stream and each get a result shaped for their own domain.
func DecodeUvarintWidth(data []byte, widthBytes int) (VarintResult, int, error) {
	value, n, err := decodeUvarintBig(data)
	if err != nil {
		return VarintResult{}, 0, err
	}
	le := littleEndianBytes(value)
	if len(le) <= widthBytes {
		fitted := make([]byte, widthBytes)
		copy(fitted, le)
		return VarintResult{Representable: true, Fitted: fitted}, n, nil
	}
	return VarintResult{Representable: false, Overflow: le}, n, nil
}

// decodeUvarintBig decodes a varint of unbounded precision, returning the
// value as a big.Int and the number of input bytes consumed.
func decodeUvarintBig(data []byte) (*big.Int, int, error) {
	var result big.Int
	var group big.Int
	shift := uint(0)
	for i := 0; i < len(data); i++ {
		b := data[i]
		group.SetUint64(uint64(b & 0x7f))
		group.Lsh(&group, shift)
		result.Or(&result, &group)
		if b < 0x80 {
			return &result, i + 1, nil
		}
		shift += 7
	}
	return nil, 0, ErrIncompleteVarInt
}

// littleEndianBytes returns the minimal little-endian byte representation of
// a non-negative big.Int (at least one byte, even for zero).
func littleEndianBytes(v *big.Int) []byte {
	be := v.Bytes() // big-endian, minimal, empty slice for zero
	if len(be) == 0 {
		return []byte{0}
	}
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return le
}
