package codec

import "sync"

// Size-tiered buffer pools for Writer reuse. Buffers are pooled in size
// classes: 64, 256, 1024, 4096, 16384, 65536 bytes.
var bufferPools = [6]sync.Pool{
	{New: func() any { return make([]byte, 0, 64) }},
	{New: func() any { return make([]byte, 0, 256) }},
	{New: func() any { return make([]byte, 0, 1024) }},
	{New: func() any { return make([]byte, 0, 4096) }},
	{New: func() any { return make([]byte, 0, 16384) }},
	{New: func() any { return make([]byte, 0, 65536) }},
}

var bufferSizes = [6]int{64, 256, 1024, 4096, 16384, 65536}

// poolIndex returns the pool index for a given size hint, or -1 if size is
// too large for pooling.
func poolIndex(size int) int {
	for i, max := range bufferSizes {
		if size <= max {
			return i
		}
	}
	return -1
}

// GetBuffer gets a zero-length buffer with at least sizeHint capacity from
// the appropriate size-tiered pool.
func GetBuffer(sizeHint int) []byte {
	idx := poolIndex(sizeHint)
	if idx < 0 {
		return make([]byte, 0, sizeHint)
	}
	buf := bufferPools[idx].Get().([]byte)
	return buf[:0]
}

// PutBuffer returns a buffer to the appropriate size-tiered pool, keyed by
// its capacity: the largest size class it can fully serve. Buffers larger
// than 64KB or smaller than 64 bytes are not pooled.
func PutBuffer(buf []byte) {
	c := cap(buf)
	if c > 65536 {
		return
	}
	for i := len(bufferSizes) - 1; i >= 0; i-- {
		if c >= bufferSizes[i] {
			bufferPools[i].Put(buf[:0])
			return
		}
	}
}

var writerPool = sync.Pool{New: func() any { return &Writer{} }}

// GetWriter returns a pooled Writer configured with opts, ready to use.
func GetWriter(opts Options) *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset(opts)
	return w
}

// PutWriter returns w's buffer to the buffer pool and w itself to the
// writer pool. w must not be used afterward.
func PutWriter(w *Writer) {
	if w == nil {
		return
	}
	PutBuffer(w.buf)
	w.buf = nil
	writerPool.Put(w)
}
