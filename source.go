// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"errors"
	"fmt"
	"io"
)

// Source is a buffered, blocking byte input over an io.Reader. It
// guarantees EnsureRemaining(n)'s precondition so the codec never has to
// special-case a short read mid-value.
type Source struct {
	_ noCopy

	r      io.Reader
	alloc  *Allocator
	buf    []byte
	pos    int // next unread byte
	limit  int // one past last readable byte
	logger Logger
	closed bool
	offset int64 // absolute bytes consumed, for DecodeError reporting

	stats counters
}

// NewSource wraps r with an internal read buffer acquired from the
// configured (or a private unpooled) Allocator.
func NewSource(r io.Reader, opts ...SourceOption) *Source {
	cfg := newSourceConfig(opts...)
	capacity := cfg.bufferCapacity
	if capacity < minBufferCapacity {
		capacity = minBufferCapacity
	}
	buf, err := cfg.allocator.AcquireByteBuffer(capacity)
	if err != nil {
		buf = make([]byte, 0, capacity)
	}
	return &Source{
		r:      r,
		alloc:  cfg.allocator,
		buf:    buf[:capacity],
		logger: cfg.logger,
	}
}

// readable reports how many unconsumed bytes remain in the buffer.
func (s *Source) readable() int { return s.limit - s.pos }

// EnsureRemaining guarantees at least n unread bytes are available in the
// buffer, refilling from the underlying reader as needed. It fails with
// ErrBufferTooSmall if n exceeds the buffer's capacity, and with
// ErrEndOfInput if the underlying reader is exhausted first.
func (s *Source) EnsureRemaining(n int) error {
	if s.closed {
		return ErrClosed
	}
	if n > cap(s.buf) {
		return fmt.Errorf("ensure remaining %d > capacity %d: %w", n, cap(s.buf), ErrBufferTooSmall)
	}
	if s.readable() >= n {
		return nil
	}
	if s.pos > 0 {
		copy(s.buf, s.buf[s.pos:s.limit])
		s.limit -= s.pos
		s.pos = 0
	}
	for s.readable() < n {
		m, err := s.r.Read(s.buf[s.limit:cap(s.buf)])
		if m == 0 && err == nil {
			return ErrNonBlockingChannel
		}
		if m > 0 {
			s.limit += m
			s.offset += int64(m)
			s.stats.addBytesRead(uint64(m))
			s.logger.Debugf("msgpack: source refilled %d bytes (readable=%d)", m, s.readable())
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if s.readable() >= n {
					return nil
				}
				return fmt.Errorf("need %d, have %d: %w", n, s.readable(), ErrEndOfInput)
			}
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}
	return nil
}

// peekByte returns the next unread byte without consuming it. The caller
// must have called EnsureRemaining(1) first.
func (s *Source) peekByte() byte { return s.buf[s.pos] }

// readByte consumes and returns the next byte. The caller must have
// called EnsureRemaining(1) first.
func (s *Source) readByte() byte {
	b := s.buf[s.pos]
	s.pos++
	return b
}

// readInto copies the next n buffered bytes into dst and advances pos.
// The caller must have called EnsureRemaining(n) first.
func (s *Source) readInto(dst []byte) {
	n := copy(dst, s.buf[s.pos:s.limit])
	s.pos += n
}

// bufferedOffset reports the logical byte offset of the next unread byte,
// used to annotate DecodeError.
func (s *Source) bufferedOffset() int64 {
	return s.offset - int64(s.readable())
}

// ReadAny reads into target directly, preferring already-buffered bytes
// and falling back to the underlying reader for the remainder. It never
// blocks waiting for len(target) bytes; callers that need exactly that
// many should loop. Returns io.EOF once no more bytes are available.
func (s *Source) ReadAny(target []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if len(target) == 0 {
		return 0, nil
	}
	if s.readable() > 0 {
		n := copy(target, s.buf[s.pos:s.limit])
		s.pos += n
		return n, nil
	}
	n, err := s.r.Read(target)
	if n == 0 && err == nil {
		return 0, ErrNonBlockingChannel
	}
	if n > 0 {
		s.offset += int64(n)
		s.stats.addBytesRead(uint64(n))
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return n, err
}

// TransferTo moves exactly byteCount bytes from this source into sink,
// first draining buffered bytes, then streaming the remainder directly
// from the underlying reader to the sink's writer so large payloads
// never round-trip through an intermediate allocation.
func (s *Source) TransferTo(sink *Sink, byteCount int64) error {
	if s.closed {
		return ErrClosed
	}
	for byteCount > 0 && s.readable() > 0 {
		n := s.readable()
		if int64(n) > byteCount {
			n = int(byteCount)
		}
		if err := sink.WritePayload(s.buf[s.pos : s.pos+n]); err != nil {
			return err
		}
		s.pos += n
		byteCount -= int64(n)
	}
	if byteCount == 0 {
		return nil
	}
	if err := sink.Flush(); err != nil {
		return err
	}
	n, err := io.CopyN(sink.w, s.r, byteCount)
	s.offset += n
	s.stats.addBytesRead(uint64(n))
	sink.stats.addBytesWritten(uint64(n))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("need %d more bytes: %w", byteCount-n, ErrEndOfInput)
		}
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// Stats returns a snapshot of this source's byte-transfer counters.
func (s *Source) Stats() Stats { return s.stats.snapshot() }

// Close releases the internal buffer back to its allocator. If the
// underlying reader implements io.Closer, it is closed first; the buffer
// release always happens regardless of that outcome.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var closeErr error
	if c, ok := s.r.(io.Closer); ok {
		closeErr = c.Close()
		if closeErr != nil {
			s.logger.Warnf("msgpack: source close error: %v", closeErr)
		}
	}
	s.alloc.Release(s.buf)
	s.buf = nil
	return closeErr
}
