package spec

import "github.com/blockberries/gluino/internal/wire"

// Wire tags. Tags below 32 are aliases for common shapes; tags 32 and above
// are the general form every kind can always be written in.
const (
	tagUint0  = 0
	tagUint1  = 1
	tagUint2  = 2
	tagUint3  = 3
	tagInt0   = 4
	tagInt1   = 5
	tagInt2   = 6
	tagInt3   = 7
	tagSingle = 8
	tagDouble = 9
	tagUtf8   = 10

	tagBool      = 32
	tagUint      = 33
	tagName      = 34
	tagInt       = 35
	tagBinaryFP  = 36
	tagDecimalFP = 37
	tagRef       = 38
	tagVoid      = 39
	tagList      = 40
	tagMap       = 41
	tagRecord    = 42
	tagEnum      = 43
	tagUnion     = 45
	tagDecimal   = 46
	tagTuple     = 47
	tagBytes     = 48
	tagString    = 49
	tagOptional  = 63
)

const (
	sizeTagVariable    = 0
	sizeTagFixed       = 1
	sizeTagRange       = 2
	sizeTagGreaterThan = 3
	sizeTagLessThan    = 4
)

// Encode returns the regular wire encoding of s: every kind with an alias
// form is written in its shortest (aliased) representation.
func Encode(s Spec) []byte {
	return appendSpec(nil, s, false)
}

// EncodeLongform returns the longform wire encoding of s: aliased tags are
// never used, even where one exists. Longform is the fingerprint input.
func EncodeLongform(s Spec) []byte {
	return appendSpec(nil, s, true)
}

func appendSpec(buf []byte, s Spec, longform bool) []byte {
	switch v := s.(type) {
	case Bool:
		return append(buf, tagBool)
	case Void:
		return append(buf, tagVoid)
	case Uint:
		if !longform && v.K <= 3 {
			return append(buf, tagUint0+v.K)
		}
		buf = append(buf, tagUint)
		return wire.AppendUvarint(buf, uint64(v.K))
	case Int:
		if !longform && v.K <= 3 {
			return append(buf, tagInt0+v.K)
		}
		buf = append(buf, tagInt)
		return wire.AppendUvarint(buf, uint64(v.K))
	case BinaryFP:
		if !longform && v.Format == Single {
			return append(buf, tagSingle)
		}
		if !longform && v.Format == Double {
			return append(buf, tagDouble)
		}
		return append(buf, tagBinaryFP, byte(v.Format))
	case DecimalFP:
		return append(buf, tagDecimalFP, byte(v.Format))
	case Decimal:
		buf = append(buf, tagDecimal)
		buf = wire.AppendUvarint(buf, v.Scale)
		return wire.AppendUvarint(buf, v.Precision)
	case Bytes:
		buf = append(buf, tagBytes)
		return appendSize(buf, v.Size)
	case String:
		if !longform && v.Size.Kind == SizeVariable && v.Encoding == Utf8 {
			return append(buf, tagUtf8)
		}
		buf = append(buf, tagString)
		buf = appendSize(buf, v.Size)
		return append(buf, byte(v.Encoding))
	case Optional:
		buf = append(buf, tagOptional)
		return appendSpec(buf, v.Elem, longform)
	case List:
		buf = append(buf, tagList)
		buf = appendSize(buf, v.Size)
		return appendSpec(buf, v.Value, longform)
	case Map:
		buf = append(buf, tagMap)
		buf = appendSize(buf, v.Size)
		buf = appendSpec(buf, v.Key, longform)
		return appendSpec(buf, v.Value, longform)
	case Record:
		buf = append(buf, tagRecord)
		buf = wire.AppendUvarint(buf, uint64(len(v.Fields)))
		for _, f := range v.Fields {
			buf = appendString(buf, f.Name)
			buf = appendSpec(buf, f.Spec, longform)
		}
		return buf
	case Tuple:
		buf = append(buf, tagTuple)
		buf = wire.AppendUvarint(buf, uint64(len(v.Elems)))
		for _, e := range v.Elems {
			buf = appendSpec(buf, e, longform)
		}
		return buf
	case Enum:
		buf = append(buf, tagEnum)
		buf = wire.AppendUvarint(buf, uint64(len(v.Variants)))
		for _, variant := range v.Variants {
			buf = appendString(buf, variant.Name)
			buf = appendSpec(buf, variant.Spec, longform)
		}
		return buf
	case Union:
		buf = append(buf, tagUnion)
		buf = wire.AppendUvarint(buf, uint64(len(v.Variants)))
		for _, variant := range v.Variants {
			buf = appendSpec(buf, variant, longform)
		}
		return buf
	case Name:
		buf = append(buf, tagName)
		buf = appendString(buf, v.Name)
		return appendSpec(buf, v.Body, longform)
	case Ref:
		buf = append(buf, tagRef)
		return appendString(buf, v.Name)
	default:
		panic("spec: unreachable Spec variant")
	}
}

func appendString(buf []byte, s string) []byte {
	buf = wire.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func appendSize(buf []byte, s Size) []byte {
	switch s.Kind {
	case SizeVariable:
		return append(buf, sizeTagVariable)
	case SizeFixed:
		buf = append(buf, sizeTagFixed)
		return wire.AppendUvarint(buf, s.N)
	case SizeRange:
		buf = append(buf, sizeTagRange)
		buf = wire.AppendUvarint(buf, s.Start)
		return wire.AppendUvarint(buf, s.End)
	case SizeGreaterThan:
		buf = append(buf, sizeTagGreaterThan)
		return wire.AppendUvarint(buf, s.Bound)
	case SizeLessThan:
		buf = append(buf, sizeTagLessThan)
		return wire.AppendUvarint(buf, s.Bound)
	default:
		panic("spec: unreachable Size kind")
	}
}

// Decode reads one Spec from the front of data and returns it along with
// the number of bytes consumed. Both the regular and longform encodings
// decode identically: the decoder accepts aliased and general forms
// interchangeably.
func Decode(data []byte) (Spec, int, error) {
	s, n, err := decodeSpec(data)
	if err != nil {
		return nil, 0, err
	}
	return s, n, nil
}

func decodeSpec(data []byte) (Spec, int, error) {
	if len(data) < 1 {
		return nil, 0, ErrUnexpectedEndOfBytes
	}
	tag := data[0]
	rest := data[1:]
	switch {
	case tag <= tagUint3:
		return Uint{K: tag - tagUint0}, 1, nil
	case tag >= tagInt0 && tag <= tagInt3:
		return Int{K: tag - tagInt0}, 1, nil
	case tag == tagSingle:
		return BinaryFP{Format: Single}, 1, nil
	case tag == tagDouble:
		return BinaryFP{Format: Double}, 1, nil
	case tag == tagUtf8:
		return String{Size: VariableSize(), Encoding: Utf8}, 1, nil
	}

	switch tag {
	case tagBool:
		return Bool{}, 1, nil
	case tagVoid:
		return Void{}, 1, nil
	case tagUint:
		k, n, err := decodeUintWidth(rest)
		return Uint{K: k}, 1 + n, err
	case tagInt:
		k, n, err := decodeUintWidth(rest)
		return Int{K: k}, 1 + n, err
	case tagBinaryFP:
		if len(rest) < 1 {
			return nil, 0, ErrUnexpectedEndOfBytes
		}
		f := rest[0]
		if f > byte(Octuple) {
			return nil, 0, unknownFlag(UnknownBinaryFormatFlag, f)
		}
		return BinaryFP{Format: BinaryFPFormat(f)}, 2, nil
	case tagDecimalFP:
		if len(rest) < 1 {
			return nil, 0, ErrUnexpectedEndOfBytes
		}
		f := rest[0]
		if f > byte(Dec128) {
			return nil, 0, unknownFlag(UnknownDecimalFormatFlag, f)
		}
		return DecimalFP{Format: DecimalFPFormat(f)}, 2, nil
	case tagDecimal:
		scale, n1, err := wire.DecodeUvarint(rest)
		if err != nil {
			return nil, 0, translateVarintErr(err)
		}
		precision, n2, err := wire.DecodeUvarint(rest[n1:])
		if err != nil {
			return nil, 0, translateVarintErr(err)
		}
		return Decimal{Scale: scale, Precision: precision}, 1 + n1 + n2, nil
	case tagBytes:
		sz, n, err := decodeSize(rest)
		if err != nil {
			return nil, 0, err
		}
		return Bytes{Size: sz}, 1 + n, nil
	case tagString:
		sz, n, err := decodeSize(rest)
		if err != nil {
			return nil, 0, err
		}
		if len(rest) < n+1 {
			return nil, 0, ErrUnexpectedEndOfBytes
		}
		enc := rest[n]
		if enc > byte(Ascii) {
			return nil, 0, unknownFlag(UnknownStringFormatFlag, enc)
		}
		return String{Size: sz, Encoding: StringEncoding(enc)}, 1 + n + 1, nil
	case tagOptional:
		inner, n, err := decodeSpec(rest)
		if err != nil {
			return nil, 0, err
		}
		return Optional{Elem: inner}, 1 + n, nil
	case tagList:
		sz, n1, err := decodeSize(rest)
		if err != nil {
			return nil, 0, err
		}
		inner, n2, err := decodeSpec(rest[n1:])
		if err != nil {
			return nil, 0, err
		}
		return List{Size: sz, Value: inner}, 1 + n1 + n2, nil
	case tagMap:
		sz, n1, err := decodeSize(rest)
		if err != nil {
			return nil, 0, err
		}
		key, n2, err := decodeSpec(rest[n1:])
		if err != nil {
			return nil, 0, err
		}
		val, n3, err := decodeSpec(rest[n1+n2:])
		if err != nil {
			return nil, 0, err
		}
		return Map{Size: sz, Key: key, Value: val}, 1 + n1 + n2 + n3, nil
	case tagRecord:
		count, n, err := wire.DecodeUvarint(rest)
		if err != nil {
			return nil, 0, translateVarintErr(err)
		}
		off := n
		fields := make([]Field, 0, count)
		for i := uint64(0); i < count; i++ {
			name, n1, err := decodeString(rest[off:])
			if err != nil {
				return nil, 0, err
			}
			off += n1
			fspec, n2, err := decodeSpec(rest[off:])
			if err != nil {
				return nil, 0, err
			}
			off += n2
			fields = append(fields, Field{Name: name, Spec: fspec})
		}
		return Record{Fields: fields}, 1 + off, nil
	case tagTuple:
		count, n, err := wire.DecodeUvarint(rest)
		if err != nil {
			return nil, 0, translateVarintErr(err)
		}
		off := n
		elems := make([]Spec, 0, count)
		for i := uint64(0); i < count; i++ {
			e, n1, err := decodeSpec(rest[off:])
			if err != nil {
				return nil, 0, err
			}
			off += n1
			elems = append(elems, e)
		}
		return Tuple{Elems: elems}, 1 + off, nil
	case tagEnum:
		count, n, err := wire.DecodeUvarint(rest)
		if err != nil {
			return nil, 0, translateVarintErr(err)
		}
		off := n
		variants := make([]Variant, 0, count)
		for i := uint64(0); i < count; i++ {
			name, n1, err := decodeString(rest[off:])
			if err != nil {
				return nil, 0, err
			}
			off += n1
			vspec, n2, err := decodeSpec(rest[off:])
			if err != nil {
				return nil, 0, err
			}
			off += n2
			variants = append(variants, Variant{Name: name, Spec: vspec})
		}
		return Enum{Variants: variants}, 1 + off, nil
	case tagUnion:
		count, n, err := wire.DecodeUvarint(rest)
		if err != nil {
			return nil, 0, translateVarintErr(err)
		}
		off := n
		variants := make([]Spec, 0, count)
		for i := uint64(0); i < count; i++ {
			v, n1, err := decodeSpec(rest[off:])
			if err != nil {
				return nil, 0, err
			}
			off += n1
			variants = append(variants, v)
		}
		return Union{Variants: variants}, 1 + off, nil
	case tagName:
		name, n1, err := decodeString(rest)
		if err != nil {
			return nil, 0, err
		}
		body, n2, err := decodeSpec(rest[n1:])
		if err != nil {
			return nil, 0, err
		}
		return Name{Name: name, Body: body}, 1 + n1 + n2, nil
	case tagRef:
		name, n, err := decodeString(rest)
		if err != nil {
			return nil, 0, err
		}
		return Ref{Name: name}, 1 + n, nil
	default:
		return nil, 0, unknownFlag(UnknownSpecFlag, tag)
	}
}

// decodeUintWidth reads the varint-encoded K value of a general-form Uint/Int.
func decodeUintWidth(data []byte) (byte, int, error) {
	k, n, err := wire.DecodeUvarint(data)
	if err != nil {
		return 0, 0, translateVarintErr(err)
	}
	if k > 255 {
		return 0, 0, overflow(data[:n])
	}
	return byte(k), n, nil
}

func decodeString(data []byte) (string, int, error) {
	length, n, err := wire.DecodeUvarint(data)
	if err != nil {
		return "", 0, translateVarintErr(err)
	}
	if uint64(len(data)-n) < length {
		return "", 0, ErrUnexpectedEndOfBytes
	}
	return string(data[n : uint64(n)+length]), n + int(length), nil
}

func decodeSize(data []byte) (Size, int, error) {
	if len(data) < 1 {
		return Size{}, 0, ErrUnexpectedEndOfBytes
	}
	tag := data[0]
	rest := data[1:]
	switch tag {
	case sizeTagVariable:
		return VariableSize(), 1, nil
	case sizeTagFixed:
		n, consumed, err := decodeBound(rest)
		if err != nil {
			return Size{}, 0, err
		}
		return FixedSize(n), 1 + consumed, nil
	case sizeTagRange:
		start, n1, err := decodeBound(rest)
		if err != nil {
			return Size{}, 0, err
		}
		end, n2, err := decodeBound(rest[n1:])
		if err != nil {
			return Size{}, 0, err
		}
		return RangeSize(start, end), 1 + n1 + n2, nil
	case sizeTagGreaterThan:
		bound, n, err := decodeBound(rest)
		if err != nil {
			return Size{}, 0, err
		}
		return GreaterThanSize(bound), 1 + n, nil
	case sizeTagLessThan:
		bound, n, err := decodeBound(rest)
		if err != nil {
			return Size{}, 0, err
		}
		return LessThanSize(bound), 1 + n, nil
	default:
		return Size{}, 0, unknownFlag(UnknownSizeFormatFlag, tag)
	}
}

// decodeBound decodes a single Size bound (N, Start, End, or Bound) through
// DecodeUvarintWidth's 64-bit domain rather than plain DecodeUvarint, so a
// bound whose value needs more than 64 bits to represent is reported as an
// overflow instead of silently wrapping — the same contract a 128-bit
// domain reader would apply at its own width.
func decodeBound(data []byte) (uint64, int, error) {
	res, n, err := wire.DecodeUvarintWidth(data, wire.Fixed64Size)
	if err != nil {
		return 0, 0, translateVarintErr(err)
	}
	if !res.Representable {
		return 0, 0, overflow(data[:n])
	}
	return wire.DecodeFixed64(res.Fitted), n, nil
}

func translateVarintErr(err error) error {
	if err == wire.ErrIncompleteVarInt {
		return ErrUnexpectedEndOfBytes
	}
	return &ParseError{Kind: IntegerOverflow}
}
