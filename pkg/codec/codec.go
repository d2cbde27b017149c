package codec

import (
	"sort"

	"github.com/blockberries/gluino/pkg/compile"
	"github.com/blockberries/gluino/pkg/spec"
)

// Encoder serializes Values that conform to the schema it was synthesized
// from. Build one with MakeEncoder; an Encoder is safe for concurrent use
// by multiple goroutines, since synthesis happens once up front and
// Serialize only reads the synthesized tree.
type Encoder struct{ root *encoderCell }

// Decoder deserializes Values that conform to the schema it was
// synthesized from. Build one with MakeDecoder; safe for concurrent use
// for the same reason as Encoder.
type Decoder struct{ root *decoderCell }

// encoderCell is the recursion primitive: a mutable cell holding the
// not-yet-known encode function for one Named leaf, shared by every
// occurrence (definition or reference) of that name. "Tying the knot":
// the cell is registered in the build cache before its body is built, so
// a self-reference inside the body captures this same pointer, and
// setting cell.fn once the body is ready updates every captured closure
// at once.
type encoderCell struct {
	fn func(Value, *Writer) error
}

type decoderCell struct {
	fn func(*Reader) (Value, error)
}

// MakeEncoder synthesizes an Encoder from a compiled schema.
func MakeEncoder(cs *compile.CompiledSpec) (*Encoder, error) {
	cache := make(map[string]*encoderCell)
	root := buildEncoder(cs.Structure, cs.Env, cache)
	return &Encoder{root: root}, nil
}

// MakeDecoder synthesizes a Decoder from a compiled schema.
func MakeDecoder(cs *compile.CompiledSpec) (*Decoder, error) {
	cache := make(map[string]*decoderCell)
	root := buildDecoder(cs.Structure, cs.Env, cache)
	return &Decoder{root: root}, nil
}

// Serialize writes v into w according to the schema Encoder was built
// from, returning the number of bytes written.
func (e *Encoder) Serialize(v Value, w *Writer) (int, error) {
	start := w.Len()
	if err := e.root.fn(v, w); err != nil {
		return 0, err
	}
	if w.err != nil {
		return 0, w.err
	}
	return w.Len() - start, nil
}

// Deserialize reads one Value from r according to the schema Decoder was
// built from.
func (d *Decoder) Deserialize(r *Reader) (Value, error) {
	start := r.pos
	v, err := d.root.fn(r)
	if err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}
	if max := r.opts.Limits.MaxMessageSize; max > 0 && int64(r.pos-start) > max {
		r.setError(&DecodeError{Kind: LimitExceeded, Cause: ErrMaxMessageSize})
		return nil, r.err
	}
	return v, nil
}

func buildEncoder(node compile.Node, env map[string]compile.Node, cache map[string]*encoderCell) *encoderCell {
	if named, ok := node.(compile.Named); ok {
		if existing, ok := cache[named.Name]; ok {
			return existing
		}
		c := &encoderCell{}
		cache[named.Name] = c
		body := buildEncoder(env[named.Name], env, cache)
		c.fn = func(v Value, w *Writer) error { return body.fn(v, w) }
		return c
	}

	c := &encoderCell{}
	switch v := node.(type) {
	case compile.Bool:
		c.fn = encodeBool
	case compile.Void:
		c.fn = encodeVoid
	case compile.Uint:
		width := 1 << v.K
		c.fn = func(val Value, w *Writer) error { return encodeFixedWidthInt(val, w, width, false) }
	case compile.Int:
		width := 1 << v.K
		c.fn = func(val Value, w *Writer) error { return encodeFixedWidthInt(val, w, width, true) }
	case compile.BinaryFP:
		width := v.Format.ByteWidth()
		c.fn = func(val Value, w *Writer) error { return encodeBinaryFP(val, w, v.Format, width) }
	case compile.DecimalFP:
		width := v.Format.ByteWidth()
		c.fn = func(val Value, w *Writer) error { return encodeDecimalFP(val, w, v.Format, width) }
	case compile.Decimal:
		c.fn = encodeDecimal
	case compile.Bytes:
		size := v.Size
		c.fn = func(val Value, w *Writer) error { return encodeBytes(val, w, size) }
	case compile.String:
		size, enc := v.Size, v.Encoding
		c.fn = func(val Value, w *Writer) error { return encodeString(val, w, size, enc) }
	case compile.Optional:
		elem := buildEncoder(v.Elem, env, cache)
		c.fn = func(val Value, w *Writer) error { return encodeOptional(val, w, elem) }
	case compile.List:
		size := v.Size
		elem := buildEncoder(v.Value, env, cache)
		c.fn = func(val Value, w *Writer) error { return encodeList(val, w, size, elem) }
	case compile.Map:
		size := v.Size
		key := buildEncoder(v.Key, env, cache)
		value := buildEncoder(v.Value, env, cache)
		c.fn = func(val Value, w *Writer) error { return encodeMap(val, w, size, key, value) }
	case compile.Record:
		fields := make([]*encoderCell, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = buildEncoder(f.Node, env, cache)
		}
		c.fn = func(val Value, w *Writer) error { return encodeProduct(val, w, fields, KindRecord) }
	case compile.Tuple:
		elems := make([]*encoderCell, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = buildEncoder(e, env, cache)
		}
		c.fn = func(val Value, w *Writer) error { return encodeProduct(val, w, elems, KindTuple) }
	case compile.Enum:
		variants := make([]*encoderCell, len(v.Variants))
		for i, variant := range v.Variants {
			variants[i] = buildEncoder(variant.Node, env, cache)
		}
		c.fn = func(val Value, w *Writer) error { return encodeSum(val, w, variants, KindEnum) }
	case compile.Union:
		variants := make([]*encoderCell, len(v.Variants))
		for i, variant := range v.Variants {
			variants[i] = buildEncoder(variant, env, cache)
		}
		c.fn = func(val Value, w *Writer) error { return encodeSum(val, w, variants, KindUnion) }
	default:
		panic("codec: unreachable compiled Node variant")
	}
	return c
}

func buildDecoder(node compile.Node, env map[string]compile.Node, cache map[string]*decoderCell) *decoderCell {
	if named, ok := node.(compile.Named); ok {
		if existing, ok := cache[named.Name]; ok {
			return existing
		}
		c := &decoderCell{}
		cache[named.Name] = c
		body := buildDecoder(env[named.Name], env, cache)
		c.fn = func(r *Reader) (Value, error) { return body.fn(r) }
		return c
	}

	c := &decoderCell{}
	switch v := node.(type) {
	case compile.Bool:
		c.fn = decodeBool
	case compile.Void:
		c.fn = decodeVoid
	case compile.Uint:
		k, width := v.K, 1<<v.K
		c.fn = func(r *Reader) (Value, error) { return decodeFixedWidthUint(r, k, width) }
	case compile.Int:
		k, width := v.K, 1<<v.K
		c.fn = func(r *Reader) (Value, error) { return decodeFixedWidthInt(r, k, width) }
	case compile.BinaryFP:
		format, width := v.Format, v.Format.ByteWidth()
		c.fn = func(r *Reader) (Value, error) { return decodeBinaryFP(r, format, width) }
	case compile.DecimalFP:
		format, width := v.Format, v.Format.ByteWidth()
		c.fn = func(r *Reader) (Value, error) { return decodeDecimalFP(r, format, width) }
	case compile.Decimal:
		c.fn = decodeDecimal
	case compile.Bytes:
		size := v.Size
		c.fn = func(r *Reader) (Value, error) { return decodeBytes(r, size) }
	case compile.String:
		size, enc := v.Size, v.Encoding
		c.fn = func(r *Reader) (Value, error) { return decodeString(r, size, enc) }
	case compile.Optional:
		elem := buildDecoder(v.Elem, env, cache)
		c.fn = func(r *Reader) (Value, error) { return decodeOptional(r, elem) }
	case compile.List:
		size := v.Size
		elem := buildDecoder(v.Value, env, cache)
		c.fn = func(r *Reader) (Value, error) { return decodeList(r, size, elem) }
	case compile.Map:
		size := v.Size
		key := buildDecoder(v.Key, env, cache)
		value := buildDecoder(v.Value, env, cache)
		c.fn = func(r *Reader) (Value, error) { return decodeMap(r, size, key, value) }
	case compile.Record:
		fields := make([]*decoderCell, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = buildDecoder(f.Node, env, cache)
		}
		c.fn = func(r *Reader) (Value, error) { return decodeRecord(r, fields) }
	case compile.Tuple:
		elems := make([]*decoderCell, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = buildDecoder(e, env, cache)
		}
		c.fn = func(r *Reader) (Value, error) { return decodeTuple(r, elems) }
	case compile.Enum:
		variants := make([]*decoderCell, len(v.Variants))
		for i, variant := range v.Variants {
			variants[i] = buildDecoder(variant.Node, env, cache)
		}
		c.fn = func(r *Reader) (Value, error) { return decodeEnum(r, variants) }
	case compile.Union:
		variants := make([]*decoderCell, len(v.Variants))
		for i, variant := range v.Variants {
			variants[i] = buildDecoder(variant, env, cache)
		}
		c.fn = func(r *Reader) (Value, error) { return decodeUnion(r, variants) }
	default:
		panic("codec: unreachable compiled Node variant")
	}
	return c
}

// --- Bool / Void ---

func encodeBool(v Value, w *Writer) error {
	b, ok := v.(Bool)
	if !ok {
		return &EncodeError{Kind: ValueKindMismatch, ValueKind: v.Kind()}
	}
	if b {
		w.writeByte(1)
	} else {
		w.writeByte(0)
	}
	return w.err
}

func decodeBool(r *Reader) (Value, error) {
	b := r.readByte()
	if r.err != nil {
		return nil, r.err
	}
	return Bool(b != 0), nil
}

func encodeVoid(v Value, w *Writer) error {
	if _, ok := v.(Void); !ok {
		return &EncodeError{Kind: ValueKindMismatch, ValueKind: v.Kind()}
	}
	return nil
}

func decodeVoid(r *Reader) (Value, error) { return Void{}, nil }

// --- fixed-width integers ---

func encodeFixedWidthInt(v Value, w *Writer, width int, signed bool) error {
	var buf []byte
	if signed {
		i, ok := v.(Int)
		if !ok {
			return &EncodeError{Kind: ValueKindMismatch, ValueKind: v.Kind()}
		}
		buf = i.Bytes
	} else {
		u, ok := v.(Uint)
		if !ok {
			return &EncodeError{Kind: ValueKindMismatch, ValueKind: v.Kind()}
		}
		buf = u.Bytes
	}
	if len(buf) != width {
		return &EncodeError{Kind: IncorrectNumberOfIntegerBytes, Expected: uint64(width), Actual: uint64(len(buf))}
	}
	w.writeRaw(buf)
	return w.err
}

func decodeFixedWidthUint(r *Reader, k byte, width int) (Value, error) {
	buf := r.readRaw(width)
	if r.err != nil {
		return nil, r.err
	}
	return Uint{K: k, Bytes: buf}, nil
}

func decodeFixedWidthInt(r *Reader, k byte, width int) (Value, error) {
	buf := r.readRaw(width)
	if r.err != nil {
		return nil, r.err
	}
	return Int{K: k, Bytes: buf}, nil
}

// --- floating point ---

func encodeBinaryFP(v Value, w *Writer, format spec.BinaryFPFormat, width int) error {
	f, ok := v.(BinaryFP)
	if !ok {
		return &EncodeError{Kind: ValueKindMismatch, ValueKind: v.Kind()}
	}
	if f.Format != format || len(f.Bytes) != width {
		return &EncodeError{Kind: IncorrectNumberOfFloatingPointBytes, Expected: uint64(width), Actual: uint64(len(f.Bytes))}
	}
	w.writeRaw(f.Bytes)
	return w.err
}

func decodeBinaryFP(r *Reader, format spec.BinaryFPFormat, width int) (Value, error) {
	buf := r.readRaw(width)
	if r.err != nil {
		return nil, r.err
	}
	return BinaryFP{Format: format, Bytes: buf}, nil
}

func encodeDecimalFP(v Value, w *Writer, format spec.DecimalFPFormat, width int) error {
	f, ok := v.(DecimalFP)
	if !ok {
		return &EncodeError{Kind: ValueKindMismatch, ValueKind: v.Kind()}
	}
	if f.Format != format || len(f.Bytes) != width {
		return &EncodeError{Kind: IncorrectNumberOfFloatingPointBytes, Expected: uint64(width), Actual: uint64(len(f.Bytes))}
	}
	w.writeRaw(f.Bytes)
	return w.err
}

func decodeDecimalFP(r *Reader, format spec.DecimalFPFormat, width int) (Value, error) {
	buf := r.readRaw(width)
	if r.err != nil {
		return nil, r.err
	}
	return DecimalFP{Format: format, Bytes: buf}, nil
}

// Decimal's wire width isn't determined by Scale/Precision alone (neither
// fixes a unique packed-digit byte layout), so it is carried the same way
// Bytes(Variable) is: a varint length prefix followed by raw bytes.
func encodeDecimal(v Value, w *Writer) error {
	d, ok := v.(Decimal)
	if !ok {
		return &EncodeError{Kind: ValueKindMismatch, ValueKind: v.Kind()}
	}
	w.writeUvarint(uint64(len(d.Bytes)))
	w.writeRaw(d.Bytes)
	return w.err
}

func decodeDecimal(r *Reader) (Value, error) {
	n := r.readLength(r.opts.Limits.MaxBytesLength)
	if r.err != nil {
		return nil, r.err
	}
	buf := r.readRaw(n)
	if r.err != nil {
		return nil, r.err
	}
	return Decimal{Bytes: buf}, nil
}

// --- Bytes / String ---

func encodeBytes(v Value, w *Writer, size spec.Size) error {
	b, ok := v.(Bytes)
	if !ok {
		return &EncodeError{Kind: ValueKindMismatch, ValueKind: v.Kind()}
	}
	if err := writeSized(w, size, len(b.Data), KindBytes); err != nil {
		return err
	}
	w.writeRaw(b.Data)
	return w.err
}

func decodeBytes(r *Reader, size spec.Size) (Value, error) {
	n, err := readSized(r, size, r.opts.Limits.MaxBytesLength, KindBytes)
	if err != nil {
		return nil, err
	}
	buf := r.readRaw(n)
	if r.err != nil {
		return nil, r.err
	}
	return Bytes{Data: buf}, nil
}

func encodeString(v Value, w *Writer, size spec.Size, enc spec.StringEncoding) error {
	s, ok := v.(String)
	if !ok {
		return &EncodeError{Kind: ValueKindMismatch, ValueKind: v.Kind()}
	}
	encoded, err := encodeText(s.Text, enc)
	if err != nil {
		return &EncodeError{Kind: WriteError, Cause: err}
	}
	if err := writeSized(w, size, len(encoded), KindString); err != nil {
		return err
	}
	w.writeRaw(encoded)
	return w.err
}

func decodeString(r *Reader, size spec.Size, enc spec.StringEncoding) (Value, error) {
	n, err := readSized(r, size, r.opts.Limits.MaxStringLength, KindString)
	if err != nil {
		return nil, err
	}
	buf := r.readRaw(n)
	if r.err != nil {
		return nil, r.err
	}
	text, terr := decodeText(buf, enc, r.opts.ValidateText)
	if terr != nil {
		return nil, &DecodeError{Kind: MalformedText, Cause: terr}
	}
	return String{Text: text}, nil
}

// sizeExpected returns the bound of size that a failing length violated, for
// error reporting: the exact length for Fixed, whichever Range endpoint the
// length fell outside of, and the bound itself for GreaterThan/LessThan.
func sizeExpected(size spec.Size, length uint64) uint64 {
	switch size.Kind {
	case spec.SizeFixed:
		return size.N
	case spec.SizeRange:
		if length < size.Start {
			return size.Start
		}
		return size.End
	case spec.SizeGreaterThan, spec.SizeLessThan:
		return size.Bound
	default:
		return 0
	}
}

// writeSized writes the length prefix (if any) a Size descriptor calls
// for and validates length against it. Fixed sizes write no prefix at
// all; the others write a varint length. kind identifies the container
// (Bytes/String/List/Map) for the IncorrectDataSize error.
func writeSized(w *Writer, size spec.Size, length int, kind Kind) error {
	if !size.Accepts(uint64(length)) {
		return &EncodeError{Kind: IncorrectDataSize, Expected: sizeExpected(size, uint64(length)), Actual: uint64(length), ValueKind: kind}
	}
	if size.Kind != spec.SizeFixed {
		w.writeUvarint(uint64(length))
	}
	return w.err
}

// readSized reads (if not Fixed) a varint length and validates it against
// size, returning the length to read. max is the caller's applicable
// Limits ceiling (MaxBytesLength or MaxStringLength); 0 means unbounded.
// kind identifies the container (Bytes/String) for the DataSizeOutOfBounds
// error.
func readSized(r *Reader, size spec.Size, max int, kind Kind) (int, error) {
	if size.Kind == spec.SizeFixed {
		n := int(size.N)
		if max > 0 && n > max {
			r.setError(&DecodeError{Kind: LimitExceeded, Cause: ErrMaxMessageSize})
			return 0, r.err
		}
		return n, nil
	}
	n := r.readLength(max)
	if r.err != nil {
		return 0, r.err
	}
	if !size.Accepts(uint64(n)) {
		r.setError(&DecodeError{Kind: DataSizeOutOfBounds, Expected: sizeExpected(size, uint64(n)), Actual: uint64(n), ValueKind: kind})
		return 0, r.err
	}
	return n, nil
}

// --- Optional ---

func encodeOptional(v Value, w *Writer, elem *encoderCell) error {
	o, ok := v.(Optional)
	if !ok {
		return &EncodeError{Kind: ValueKindMismatch, ValueKind: v.Kind()}
	}
	if !o.Present {
		w.writeByte(0)
		return w.err
	}
	w.writeByte(1)
	if w.err != nil {
		return w.err
	}
	if !w.enterNested() {
		return w.err
	}
	defer w.exitNested()
	return elem.fn(o.Elem, w)
}

func decodeOptional(r *Reader, elem *decoderCell) (Value, error) {
	present := r.readByte()
	if r.err != nil {
		return nil, r.err
	}
	if present == 0 {
		return Optional{Present: false}, nil
	}
	if !r.enterNested() {
		return nil, r.err
	}
	defer r.exitNested()
	v, err := elem.fn(r)
	if err != nil {
		return nil, err
	}
	return Optional{Present: true, Elem: v}, nil
}

// --- List / Map ---

func encodeList(v Value, w *Writer, size spec.Size, elem *encoderCell) error {
	l, ok := v.(List)
	if !ok {
		return &EncodeError{Kind: ValueKindMismatch, ValueKind: v.Kind()}
	}
	if err := writeSized(w, size, len(l.Elems), KindList); err != nil {
		return err
	}
	if !w.enterNested() {
		return w.err
	}
	defer w.exitNested()
	for _, e := range l.Elems {
		if err := elem.fn(e, w); err != nil {
			return err
		}
	}
	return w.err
}

func decodeList(r *Reader, size spec.Size, elem *decoderCell) (Value, error) {
	n, err := readSizedCount(r, size, r.opts.Limits.MaxCollectionLength, KindList)
	if err != nil {
		return nil, err
	}
	if !r.enterNested() {
		return nil, r.err
	}
	defer r.exitNested()
	elems := make([]Value, 0, clampHint(n))
	for i := 0; i < n; i++ {
		v, err := elem.fn(r)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return List{Elems: elems}, nil
}

func encodeMap(v Value, w *Writer, size spec.Size, key, value *encoderCell) error {
	m, ok := v.(Map)
	if !ok {
		return &EncodeError{Kind: ValueKindMismatch, ValueKind: v.Kind()}
	}
	if err := writeSized(w, size, len(m.Pairs), KindMap); err != nil {
		return err
	}
	if !w.enterNested() {
		return w.err
	}
	defer w.exitNested()
	pairs := m.Pairs
	if w.opts.DeterministicMaps {
		pairs = sortedPairs(pairs, key)
	}
	for _, p := range pairs {
		if err := key.fn(p.Key, w); err != nil {
			return err
		}
		if err := value.fn(p.Value, w); err != nil {
			return err
		}
	}
	return w.err
}

// sortedPairs returns pairs ordered by their encoded key bytes, so two
// Maps equal as sets of pairs always produce identical wire output.
func sortedPairs(pairs []Pair, key *encoderCell) []Pair {
	type keyed struct {
		pair Pair
		enc  []byte
	}
	scratch := make([]keyed, len(pairs))
	for i, p := range pairs {
		kw := &Writer{opts: Options{}}
		_ = key.fn(p.Key, kw)
		scratch[i] = keyed{pair: p, enc: kw.buf}
	}
	sort.Slice(scratch, func(i, j int) bool {
		return compareBytes(scratch[i].enc, scratch[j].enc) < 0
	})
	out := make([]Pair, len(scratch))
	for i, s := range scratch {
		out[i] = s.pair
	}
	return out
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return len(a) - len(b)
}

func decodeMap(r *Reader, size spec.Size, key, value *decoderCell) (Value, error) {
	n, err := readSizedCount(r, size, r.opts.Limits.MaxCollectionLength, KindMap)
	if err != nil {
		return nil, err
	}
	if !r.enterNested() {
		return nil, r.err
	}
	defer r.exitNested()
	pairs := make([]Pair, 0, clampHint(n))
	for i := 0; i < n; i++ {
		k, err := key.fn(r)
		if err != nil {
			return nil, err
		}
		v, err := value.fn(r)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	return Map{Pairs: pairs}, nil
}

// readSizedCount mirrors readSized for List/Map element/entry counts. kind
// identifies the container (List/Map) for the DataSizeOutOfBounds error.
func readSizedCount(r *Reader, size spec.Size, max int, kind Kind) (int, error) {
	if size.Kind == spec.SizeFixed {
		n := int(size.N)
		if max > 0 && n > max {
			r.setError(&DecodeError{Kind: LimitExceeded, Cause: ErrMaxMessageSize})
			return 0, r.err
		}
		return n, nil
	}
	n := r.readLength(max)
	if r.err != nil {
		return 0, r.err
	}
	if !size.Accepts(uint64(n)) {
		r.setError(&DecodeError{Kind: DataSizeOutOfBounds, Expected: sizeExpected(size, uint64(n)), Actual: uint64(n), ValueKind: kind})
		return 0, r.err
	}
	return n, nil
}

func clampHint(n int) int {
	if n > 1024 {
		return 1024
	}
	return n
}

// --- Record / Tuple ---

func encodeProduct(v Value, w *Writer, fields []*encoderCell, expect Kind) error {
	var values []Value
	switch p := v.(type) {
	case Record:
		if expect != KindRecord {
			return &EncodeError{Kind: ProductKindValueKindMismatch, ValueKind: v.Kind()}
		}
		values = p.Fields
	case Tuple:
		if expect != KindTuple {
			return &EncodeError{Kind: ProductKindValueKindMismatch, ValueKind: v.Kind()}
		}
		values = p.Elems
	default:
		return &EncodeError{Kind: ProductKindValueKindMismatch, ValueKind: v.Kind()}
	}
	if len(values) != len(fields) {
		return &EncodeError{Kind: IncorrectNumberOfFields, Expected: uint64(len(fields)), Actual: uint64(len(values))}
	}
	if !w.enterNested() {
		return w.err
	}
	defer w.exitNested()
	for i, f := range fields {
		if err := f.fn(values[i], w); err != nil {
			return err
		}
	}
	return w.err
}

func decodeRecord(r *Reader, fields []*decoderCell) (Value, error) {
	if !r.enterNested() {
		return nil, r.err
	}
	defer r.exitNested()
	values := make([]Value, len(fields))
	for i, f := range fields {
		v, err := f.fn(r)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return Record{Fields: values}, nil
}

func decodeTuple(r *Reader, elems []*decoderCell) (Value, error) {
	if !r.enterNested() {
		return nil, r.err
	}
	defer r.exitNested()
	values := make([]Value, len(elems))
	for i, e := range elems {
		v, err := e.fn(r)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return Tuple{Elems: values}, nil
}

// --- Enum / Union ---

func encodeSum(v Value, w *Writer, variants []*encoderCell, expect Kind) error {
	var variant int
	var inner Value
	switch s := v.(type) {
	case Enum:
		if expect != KindEnum {
			return &EncodeError{Kind: SumKindValueKindMismatch, ValueKind: v.Kind()}
		}
		variant, inner = s.Variant, s.Inner
	case Union:
		if expect != KindUnion {
			return &EncodeError{Kind: SumKindValueKindMismatch, ValueKind: v.Kind()}
		}
		variant, inner = s.Variant, s.Inner
	default:
		return &EncodeError{Kind: SumKindValueKindMismatch, ValueKind: v.Kind()}
	}
	if variant < 0 || variant >= len(variants) {
		return &EncodeError{Kind: InvalidVariantID, Expected: uint64(len(variants)), Actual: uint64(variant)}
	}
	w.writeUvarint(uint64(variant))
	if w.err != nil {
		return w.err
	}
	if !w.enterNested() {
		return w.err
	}
	defer w.exitNested()
	return variants[variant].fn(inner, w)
}

func decodeEnum(r *Reader, variants []*decoderCell) (Value, error) {
	variant, inner, err := decodeSumBody(r, variants)
	if err != nil {
		return nil, err
	}
	return Enum{Variant: variant, Inner: inner}, nil
}

func decodeUnion(r *Reader, variants []*decoderCell) (Value, error) {
	variant, inner, err := decodeSumBody(r, variants)
	if err != nil {
		return nil, err
	}
	return Union{Variant: variant, Inner: inner}, nil
}

func decodeSumBody(r *Reader, variants []*decoderCell) (int, Value, error) {
	id := r.readUvarint()
	if r.err != nil {
		return 0, nil, r.err
	}
	if id >= uint64(len(variants)) {
		r.setError(&DecodeError{Kind: InvalidVariantIDDecode, Expected: uint64(len(variants)), Actual: id})
		return 0, nil, r.err
	}
	if !r.enterNested() {
		return 0, nil, r.err
	}
	defer r.exitNested()
	inner, err := variants[id].fn(r)
	if err != nil {
		return 0, nil, err
	}
	return int(id), inner, nil
}
