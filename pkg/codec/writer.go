package codec

import (
	"errors"

	"github.com/blockberries/gluino/internal/wire"
)

var errWriterFrozen = errors.New("gluino/codec: writer is frozen after Bytes()")

// Writer accumulates the encoded bytes of one Serialize call. The zero
// value is not ready to use; construct one with NewWriter or GetWriter.
type Writer struct {
	buf    []byte
	opts   Options
	depth  int
	err    error
	frozen bool // prevents further writes after Bytes() is called
}

// NewWriter creates a Writer with the given options and a small starting
// buffer.
func NewWriter(opts Options) *Writer {
	return &Writer{buf: make([]byte, 0, 256), opts: opts}
}

// Reset clears w for reuse with opts.
func (w *Writer) Reset(opts Options) {
	w.buf = w.buf[:0]
	w.opts = opts
	w.depth = 0
	w.err = nil
	w.frozen = false
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Bytes returns the written data and freezes w: every later write fails
// until Reset. The slice is valid only until the next Reset; call BytesCopy
// for an independent copy.
func (w *Writer) Bytes() []byte {
	w.frozen = true
	return w.buf
}

// BytesCopy returns an independent copy of the written data.
func (w *Writer) BytesCopy() []byte {
	out := make([]byte, len(w.buf))
	copy(out, w.buf)
	return out
}

// Err returns the first error recorded during writing, if any.
func (w *Writer) Err() error { return w.err }

func (w *Writer) setError(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) checkWrite() bool {
	if w.frozen {
		w.setError(&EncodeError{Kind: WriteError, Cause: errWriterFrozen})
		return false
	}
	return w.err == nil
}

func (w *Writer) grow(n int) {
	if len(w.buf)+n <= cap(w.buf) {
		return
	}
	if w.opts.Limits.MaxMessageSize > 0 && int64(len(w.buf)+n) > w.opts.Limits.MaxMessageSize {
		w.setError(ErrMaxMessageSize)
		return
	}
	newCap := cap(w.buf) * 2
	if newCap < len(w.buf)+n {
		newCap = len(w.buf) + n
	}
	newBuf := make([]byte, len(w.buf), newCap)
	copy(newBuf, w.buf)
	w.buf = newBuf
}

// enterNested increases the nesting depth, enforcing MaxDepth.
func (w *Writer) enterNested() bool {
	if !w.checkWrite() {
		return false
	}
	if w.opts.Limits.MaxDepth > 0 && w.depth >= w.opts.Limits.MaxDepth {
		w.setError(ErrMaxDepthExceeded)
		return false
	}
	w.depth++
	return true
}

func (w *Writer) exitNested() {
	if w.depth > 0 {
		w.depth--
	}
}

// writeByte appends a single raw byte.
func (w *Writer) writeByte(b byte) {
	if !w.checkWrite() {
		return
	}
	w.grow(1)
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, b)
}

// writeRaw appends b with no length prefix.
func (w *Writer) writeRaw(b []byte) {
	if !w.checkWrite() {
		return
	}
	w.grow(len(b))
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, b...)
}

// writeUvarint appends v as a varint.
func (w *Writer) writeUvarint(v uint64) {
	if !w.checkWrite() {
		return
	}
	w.grow(wire.MaxVarintLen64)
	if w.err != nil {
		return
	}
	w.buf = wire.AppendUvarint(w.buf, v)
}
