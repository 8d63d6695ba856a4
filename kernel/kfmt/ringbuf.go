package kfmt

import "io"

// ringBufferSize defines the size of the ring buffer that captures early
// Printf output. It is large enough to hold a full 80x25 text-mode screen and
// must always be a power of 2.
const ringBufferSize = 2048

// ringBuffer retains the most recent ringBufferSize bytes written to it.
// Once full, new writes overwrite the oldest data.
type ringBuffer struct {
	buffer      [ringBufferSize]byte
	start, size int
}

// Len returns the number of unread bytes in the buffer.
func (rb *ringBuffer) Len() int {
	return rb.size
}

// Write writes len(p) bytes from p to the ringBuffer.
func (rb *ringBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.buffer[(rb.start+rb.size)&(ringBufferSize-1)] = b
		if rb.size == ringBufferSize {
			rb.start = (rb.start + 1) & (ringBufferSize - 1)
			continue
		}
		rb.size++
	}

	return len(p), nil
}

// Read reads up to len(p) bytes into p. Reads never wrap around the end of
// the backing array so a wrapped buffer is drained by two calls.
func (rb *ringBuffer) Read(p []byte) (int, error) {
	if rb.size == 0 {
		return 0, io.EOF
	}

	n := rb.size
	if tail := ringBufferSize - rb.start; n > tail {
		n = tail
	}
	if n > len(p) {
		n = len(p)
	}

	copy(p, rb.buffer[rb.start:rb.start+n])
	rb.start = (rb.start + n) & (ringBufferSize - 1)
	rb.size -= n

	return n, nil
}
