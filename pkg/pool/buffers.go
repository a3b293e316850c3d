// Package pool reuses render buffers on the page and live diff paths.
package pool

import (
	"bytes"
	"sync"
)

// maxPooledCap bounds the buffers kept for reuse.
const maxPooledCap = 64 * 1024

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// GetBuffer retrieves an empty buffer from the pool.
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool. Oversized buffers are dropped.
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledCap {
		return
	}
	bufferPool.Put(buf)
}

// WithBuffer runs fn with a pooled buffer and returns what fn wrote as a string.
func WithBuffer(fn func(buf *bytes.Buffer) error) (string, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if err := fn(buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
