// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"sync"
)

// Default allocator caps, used when no AllocatorOption overrides them.
const (
	defaultMaxByteBufferCapacity       = bufferSizeTitan
	defaultMaxCharBufferCapacity       = bufferSizeTitan
	defaultMaxPooledByteBufferCapacity = bufferSizeGiant
	defaultMaxPooledCharBufferCapacity = bufferSizeGiant
	defaultMaxByteBufferPoolCapacity   = 64 * bufferSizeGiant
	defaultMaxCharBufferPoolCapacity   = 64 * bufferSizeGiant
)

// Allocator owns pools of reusable byte and char buffers, keyed by
// power-of-two capacity tier. Two variants are constructed by
// NewPooledAllocator and NewUnpooledAllocator; both satisfy the same
// Acquire/Release/Close contract. A char buffer is a []byte used as UTF-8
// decode scratch space; Go has no distinct rune-array type worth pooling
// separately from a byte buffer on the hot path.
type Allocator struct {
	_ noCopy

	pooled bool
	prefer bool // PreferDirectBuffers

	maxByteBuffer       int
	maxCharBuffer       int
	maxPooledByteBuffer int
	maxPooledCharBuffer int
	maxByteBufferPool   int
	maxCharBufferPool   int

	logger Logger

	mu            sync.Mutex
	closed        bool
	byteFreeLists [tierEnd][][]byte
	charFreeLists [tierEnd][][]byte
	byteBytesUsed int
	charBytesUsed int

	stats counters
}

// AllocatorOption configures an Allocator at construction time.
type AllocatorOption func(*Allocator)

// WithMaxByteBufferCapacity caps the largest byte buffer Acquire will ever
// hand out, pooled or not.
func WithMaxByteBufferCapacity(n int) AllocatorOption {
	return func(a *Allocator) { a.maxByteBuffer = n }
}

// WithMaxCharBufferCapacity caps the largest char buffer Acquire will ever
// hand out.
func WithMaxCharBufferCapacity(n int) AllocatorOption {
	return func(a *Allocator) { a.maxCharBuffer = n }
}

// WithMaxPooledByteBufferCapacity caps the capacity above which a released
// byte buffer is freed instead of returned to its pool.
func WithMaxPooledByteBufferCapacity(n int) AllocatorOption {
	return func(a *Allocator) { a.maxPooledByteBuffer = n }
}

// WithMaxPooledCharBufferCapacity is the char-buffer analogue of
// WithMaxPooledByteBufferCapacity.
func WithMaxPooledCharBufferCapacity(n int) AllocatorOption {
	return func(a *Allocator) { a.maxPooledCharBuffer = n }
}

// WithMaxByteBufferPoolCapacity caps the sum of capacities of all pooled
// byte buffers held at once.
func WithMaxByteBufferPoolCapacity(n int) AllocatorOption {
	return func(a *Allocator) { a.maxByteBufferPool = n }
}

// WithMaxCharBufferPoolCapacity is the char-buffer analogue of
// WithMaxByteBufferPoolCapacity.
func WithMaxCharBufferPoolCapacity(n int) AllocatorOption {
	return func(a *Allocator) { a.maxCharBufferPool = n }
}

// WithPreferDirectBuffers makes requests above the largest pooled tier
// (and, if set, all requests) bypass pooling and allocate fresh every time.
// Requests above tierTitan's capacity always bypass pooling regardless of
// this option.
func WithPreferDirectBuffers(prefer bool) AllocatorOption {
	return func(a *Allocator) { a.prefer = prefer }
}

// WithAllocatorLogger installs a diagnostic logger on the allocator. The
// default is a no-op logger.
func WithAllocatorLogger(l Logger) AllocatorOption {
	return func(a *Allocator) {
		if l != nil {
			a.logger = l
		}
	}
}

func newAllocator(pooled bool, opts ...AllocatorOption) *Allocator {
	a := &Allocator{
		pooled:              pooled,
		maxByteBuffer:       defaultMaxByteBufferCapacity,
		maxCharBuffer:       defaultMaxCharBufferCapacity,
		maxPooledByteBuffer: defaultMaxPooledByteBufferCapacity,
		maxPooledCharBuffer: defaultMaxPooledCharBufferCapacity,
		maxByteBufferPool:   defaultMaxByteBufferPoolCapacity,
		maxCharBufferPool:   defaultMaxCharBufferPoolCapacity,
		logger:              noopLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewPooledAllocator returns an Allocator that maintains per-tier free
// lists guarded by a single mutex. See SPEC_FULL's concurrency section for
// why a mutex, not a lock-free structure, guards these lists: acquisition
// is infrequent outside of scratch-buffer paths, never a tight hot loop.
func NewPooledAllocator(opts ...AllocatorOption) *Allocator {
	return newAllocator(true, opts...)
}

// NewUnpooledAllocator returns an Allocator where every Acquire allocates
// fresh and every Release simply drops the buffer. Useful for tests and
// for callers who already own a buffering strategy upstream.
func NewUnpooledAllocator(opts ...AllocatorOption) *Allocator {
	return newAllocator(false, opts...)
}

// AcquireByteBuffer returns a buffer of capacity >= cap, length 0, ready
// for writing. It fails with ErrBufferTooLarge when cap exceeds the
// allocator's configured maximum byte buffer capacity.
func (a *Allocator) AcquireByteBuffer(capacity int) ([]byte, error) {
	return a.acquire(capacity, a.maxByteBuffer, a.maxPooledByteBuffer, &a.byteFreeLists, &a.byteBytesUsed)
}

// AcquireCharBuffer is the char-buffer analogue of AcquireByteBuffer.
func (a *Allocator) AcquireCharBuffer(capacity int) ([]byte, error) {
	return a.acquire(capacity, a.maxCharBuffer, a.maxPooledCharBuffer, &a.charFreeLists, &a.charBytesUsed)
}

func (a *Allocator) acquire(want, maxCap, maxPooledCap int, freeLists *[tierEnd][][]byte, used *int) ([]byte, error) {
	if want > maxCap {
		return nil, ErrBufferTooLarge
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, ErrClosed
	}

	tier, pooledTier := tierBySize(want)
	direct := !a.pooled || a.prefer || !pooledTier || capacityForTier(tier) > maxPooledCap

	if direct {
		a.stats.addPoolMiss(1)
		return make([]byte, 0, max(want, 1)), nil
	}

	list := freeLists[tier]
	if n := len(list); n > 0 {
		buf := list[n-1]
		freeLists[tier] = list[:n-1]
		*used -= cap(buf)
		a.stats.addPoolHit(1)
		return buf[:0], nil
	}
	a.stats.addPoolMiss(1)
	return make([]byte, 0, capacityForTier(tier)), nil
}

// Release returns buf to its pool when the allocator is pooled, buf's
// capacity does not exceed the per-buffer pooling cap, and doing so would
// not exceed the pool's total capacity cap; otherwise the buffer is
// dropped. Release is a no-op on a nil or zero-capacity buffer.
func (a *Allocator) Release(buf []byte) {
	a.release(buf, a.maxPooledByteBuffer, a.maxByteBufferPool, &a.byteFreeLists, &a.byteBytesUsed)
}

// ReleaseCharBuffer is the char-buffer analogue of Release.
func (a *Allocator) ReleaseCharBuffer(buf []byte) {
	a.release(buf, a.maxPooledCharBuffer, a.maxCharBufferPool, &a.charFreeLists, &a.charBytesUsed)
}

func (a *Allocator) release(buf []byte, maxPooledCap, maxPoolCap int, freeLists *[tierEnd][][]byte, used *int) {
	if cap(buf) == 0 || !a.pooled {
		return
	}
	tier, pooledTier := tierBySize(cap(buf))
	if !pooledTier || capacityForTier(tier) > maxPooledCap {
		a.logger.Debugf("msgpack: dropping buffer of capacity %d, exceeds pooled cap %d", cap(buf), maxPooledCap)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if *used+capacityForTier(tier) > maxPoolCap {
		a.logger.Debugf("msgpack: dropping buffer, pool at capacity (%d/%d)", *used, maxPoolCap)
		return
	}
	freeLists[tier] = append(freeLists[tier], buf[:0])
	*used += capacityForTier(tier)
}

// Close drops all pooled buffers; subsequent Acquire calls fail with
// ErrClosed. Release remains a no-op rather than an error, since buffers
// already checked out by in-flight readers/writers must still be returnable.
func (a *Allocator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	for t := range a.byteFreeLists {
		a.byteFreeLists[t] = nil
	}
	for t := range a.charFreeLists {
		a.charFreeLists[t] = nil
	}
	a.byteBytesUsed = 0
	a.charBytesUsed = 0
	return nil
}

// Stats returns a snapshot of this allocator's pool hit/miss counters.
func (a *Allocator) Stats() Stats { return a.stats.snapshot() }
