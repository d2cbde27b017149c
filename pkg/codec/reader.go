package codec

import (
	"github.com/blockberries/gluino/internal/wire"
)

// Reader decodes the bytes produced by a Writer. The zero value is not
// ready to use; construct one with NewReader.
type Reader struct {
	data  []byte
	pos   int
	opts  Options
	depth int
	err   error
}

// NewReader creates a Reader over data with the given options.
func NewReader(data []byte, opts Options) *Reader {
	return &Reader{data: data, opts: opts}
}

// Reset rewinds r to read data with opts.
func (r *Reader) Reset(data []byte, opts Options) {
	r.data = data
	r.opts = opts
	r.pos = 0
	r.depth = 0
	r.err = nil
}

// Pos returns the current read offset.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the unread tail of the input.
func (r *Reader) Remaining() []byte {
	if r.pos >= len(r.data) {
		return nil
	}
	return r.data[r.pos:]
}

// Err returns the first error recorded during reading, if any.
func (r *Reader) Err() error { return r.err }

func (r *Reader) setError(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) checkRead() bool { return r.err == nil }

func (r *Reader) ensure(n int) bool {
	if !r.checkRead() {
		return false
	}
	if n < 0 || r.pos+n > len(r.data) {
		r.setError(&DecodeError{Kind: ReadError, Cause: ErrUnexpectedEOF})
		return false
	}
	return true
}

func (r *Reader) enterNested() bool {
	if !r.checkRead() {
		return false
	}
	if r.opts.Limits.MaxDepth > 0 && r.depth >= r.opts.Limits.MaxDepth {
		r.setError(&DecodeError{Kind: LimitExceeded, Cause: ErrMaxDepthExceeded})
		return false
	}
	r.depth++
	return true
}

func (r *Reader) exitNested() {
	if r.depth > 0 {
		r.depth--
	}
}

// readByte reads and returns a single raw byte.
func (r *Reader) readByte() byte {
	if !r.ensure(1) {
		return 0
	}
	b := r.data[r.pos]
	r.pos++
	return b
}

// readRaw reads and returns a copy of exactly n raw bytes.
func (r *Reader) readRaw(n int) []byte {
	if !r.ensure(n) {
		return nil
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out
}

// readUvarint reads a varint and fits it into this reader's 64-bit domain.
// It goes through DecodeUvarintWidth rather than DecodeUvarint so a varint
// whose value needs more than 64 bits (the domain a wider, e.g. 128-bit,
// reader could represent) is reported as overflow rather than silently
// truncated.
func (r *Reader) readUvarint() uint64 {
	if !r.checkRead() {
		return 0
	}
	res, n, err := wire.DecodeUvarintWidth(r.data[r.pos:], wire.Fixed64Size)
	if err != nil {
		r.setError(&DecodeError{Kind: ReadError, Cause: translateReadErr(err)})
		return 0
	}
	if !res.Representable {
		r.setError(&DecodeError{Kind: ReadError, Cause: wire.ErrVarintOverflow})
		return 0
	}
	r.pos += n
	return wire.DecodeFixed64(res.Fitted)
}

// readLength reads a varint-encoded element/byte count and checks it
// against max (0 means unbounded).
func (r *Reader) readLength(max int) int {
	n := r.readUvarint()
	if r.err != nil {
		return 0
	}
	if n > uint64(int(^uint(0)>>1)) {
		r.setError(&DecodeError{Kind: ReadError, Cause: wire.ErrVarintOverflow})
		return 0
	}
	if max > 0 && int(n) > max {
		r.setError(&DecodeError{Kind: LimitExceeded, Cause: ErrMaxMessageSize})
		return 0
	}
	return int(n)
}

func translateReadErr(err error) error {
	if err == wire.ErrIncompleteVarInt {
		return ErrUnexpectedEOF
	}
	return err
}
