// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"unsafe"
)

// Flusher is implemented by an underlying writer that buffers internally
// and needs an explicit flush beyond Write returning, e.g. a bufio.Writer
// or a TLS record writer. Sink.Flush calls it when present.
type Flusher interface {
	Flush() error
}

// Sink is a buffered, blocking byte output over an io.Writer. It mirrors
// Source: EnsureRemaining(n) guarantees n bytes of writable space,
// flushing as needed.
type Sink struct {
	_ noCopy

	w      io.Writer
	alloc  *Allocator
	buf    []byte
	pos    int // next writable offset
	logger Logger
	closed bool

	stats counters
}

// NewSink wraps w with an internal write buffer acquired from the
// configured (or a private unpooled) Allocator.
func NewSink(w io.Writer, opts ...SinkOption) *Sink {
	cfg := newSinkConfig(opts...)
	capacity := cfg.bufferCapacity
	if capacity < minBufferCapacity {
		capacity = minBufferCapacity
	}
	buf, err := cfg.allocator.AcquireByteBuffer(capacity)
	if err != nil {
		buf = make([]byte, 0, capacity)
	}
	return &Sink{
		w:      w,
		alloc:  cfg.allocator,
		buf:    buf[:capacity],
		logger: cfg.logger,
	}
}

func (s *Sink) writable() int { return cap(s.buf) - s.pos }

// EnsureRemaining guarantees at least n bytes of writable space in the
// buffer, flushing as needed. Fails with ErrBufferTooSmall if n exceeds
// the buffer's total capacity.
func (s *Sink) EnsureRemaining(n int) error {
	if s.closed {
		return ErrClosed
	}
	if n > cap(s.buf) {
		return fmt.Errorf("ensure remaining %d > capacity %d: %w", n, cap(s.buf), ErrBufferTooSmall)
	}
	if s.writable() >= n {
		return nil
	}
	return s.flushBuffer()
}

func (s *Sink) flushBuffer() error {
	if s.pos == 0 {
		return nil
	}
	n, err := s.w.Write(s.buf[:s.pos])
	if n > 0 {
		s.stats.addBytesWritten(uint64(n))
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if n < s.pos {
		return fmt.Errorf("short write %d of %d: %w", n, s.pos, ErrIO)
	}
	s.pos = 0
	return nil
}

func (s *Sink) push(b byte) {
	s.buf[s.pos] = b
	s.pos++
}

// WriteByte appends a single byte, calling EnsureRemaining(1) first.
func (s *Sink) WriteByte(b byte) error {
	if err := s.EnsureRemaining(1); err != nil {
		return err
	}
	s.push(b)
	return nil
}

// WriteUint8 writes the tag byte followed by a big-endian uint8 payload.
func (s *Sink) WriteUint8(tag byte, v uint8) error {
	if err := s.EnsureRemaining(2); err != nil {
		return err
	}
	s.push(tag)
	s.push(v)
	return nil
}

// WriteUint16 writes the tag byte followed by a big-endian uint16.
func (s *Sink) WriteUint16(tag byte, v uint16) error {
	if err := s.EnsureRemaining(3); err != nil {
		return err
	}
	s.push(tag)
	binary.BigEndian.PutUint16(s.buf[s.pos:], v)
	s.pos += 2
	return nil
}

// WriteUint32 writes the tag byte followed by a big-endian uint32.
func (s *Sink) WriteUint32(tag byte, v uint32) error {
	if err := s.EnsureRemaining(5); err != nil {
		return err
	}
	s.push(tag)
	binary.BigEndian.PutUint32(s.buf[s.pos:], v)
	s.pos += 4
	return nil
}

// WriteUint64 writes the tag byte followed by a big-endian uint64.
func (s *Sink) WriteUint64(tag byte, v uint64) error {
	if err := s.EnsureRemaining(9); err != nil {
		return err
	}
	s.push(tag)
	binary.BigEndian.PutUint64(s.buf[s.pos:], v)
	s.pos += 8
	return nil
}

// WritePayload appends buf verbatim. When buf is larger than the buffer's
// free space the buffer is flushed first; buf bypasses the internal buffer
// with a direct write only when it is larger than the buffer's capacity.
func (s *Sink) WritePayload(buf []byte) error {
	if s.closed {
		return ErrClosed
	}
	if len(buf) == 0 {
		return nil
	}
	if len(buf) <= s.writable() {
		s.pos += copy(s.buf[s.pos:], buf)
		return nil
	}
	if err := s.flushBuffer(); err != nil {
		return err
	}
	if len(buf) <= cap(s.buf) {
		s.pos += copy(s.buf[s.pos:], buf)
		return nil
	}
	n, err := s.w.Write(buf)
	if n > 0 {
		s.stats.addBytesWritten(uint64(n))
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if n < len(buf) {
		return fmt.Errorf("short write %d of %d: %w", n, len(buf), ErrIO)
	}
	return nil
}

// WriteBuffers flushes the internal buffer together with extra in a
// single gather write when the underlying writer exposes
// (*net.Buffers).WriteTo-compatible behavior; extra must not alias the
// internal buffer, or ErrAliasedBuffer is returned.
func (s *Sink) WriteBuffers(extra ...[]byte) error {
	if s.closed {
		return ErrClosed
	}
	for _, e := range extra {
		if len(e) > 0 && aliases(s.buf, e) {
			return ErrAliasedBuffer
		}
	}
	bufs := make(net.Buffers, 0, len(extra)+1)
	if s.pos > 0 {
		bufs = append(bufs, s.buf[:s.pos])
	}
	bufs = append(bufs, extra...)
	if len(bufs) == 0 {
		return nil
	}
	n, err := bufs.WriteTo(s.w)
	if n > 0 {
		s.stats.addBytesWritten(uint64(n))
	}
	s.pos = 0
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

func aliases(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aStart := uintptr(unsafe.Pointer(&a[0]))
	aEnd := aStart + uintptr(len(a))
	bStart := uintptr(unsafe.Pointer(&b[0]))
	bEnd := bStart + uintptr(len(b))
	return aStart < bEnd && bStart < aEnd
}

// TransferFrom streams up to maxBytes from r through the internal buffer,
// flushing on each full cycle, stopping early at EOF.
func (s *Sink) TransferFrom(r io.Reader, maxBytes int64) error {
	if s.closed {
		return ErrClosed
	}
	remaining := maxBytes
	for remaining > 0 {
		if s.writable() == 0 {
			if err := s.flushBuffer(); err != nil {
				return err
			}
		}
		chunk := int64(s.writable())
		if chunk > remaining {
			chunk = remaining
		}
		n, err := r.Read(s.buf[s.pos : s.pos+int(chunk)])
		if n > 0 {
			s.pos += n
			remaining -= int64(n)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
		if n == 0 {
			return ErrNonBlockingChannel
		}
	}
	return nil
}

// Flush writes the internal buffer to the underlying writer, then calls
// its Flush method if it implements Flusher.
func (s *Sink) Flush() error {
	if s.closed {
		return ErrClosed
	}
	if err := s.flushBuffer(); err != nil {
		return err
	}
	if f, ok := s.w.(Flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}
	return nil
}

// Stats returns a snapshot of this sink's byte-transfer counters.
func (s *Sink) Stats() Stats { return s.stats.snapshot() }

// Close flushes and closes the underlying writer (if it implements
// io.Closer), then releases the internal buffer back to its allocator
// regardless of the close outcome.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	flushErr := s.flushBuffer()
	s.closed = true
	var closeErr error
	if c, ok := s.w.(io.Closer); ok {
		closeErr = c.Close()
		if closeErr != nil {
			s.logger.Warnf("msgpack: sink close error: %v", closeErr)
		}
	}
	s.alloc.Release(s.buf)
	s.buf = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
