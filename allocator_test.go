// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"errors"
	"testing"
)

func TestUnpooledAllocator_AlwaysMisses(t *testing.T) {
	a := NewUnpooledAllocator()
	buf, err := a.AcquireByteBuffer(128)
	if err != nil {
		t.Fatalf("AcquireByteBuffer: %v", err)
	}
	a.Release(buf)
	if got := a.Stats(); got.PoolHits != 0 || got.PoolMisses != 1 {
		t.Errorf("Stats = %+v, want 0 hits, 1 miss", got)
	}
}

func TestPooledAllocator_ReuseAfterRelease(t *testing.T) {
	a := NewPooledAllocator()
	buf, err := a.AcquireByteBuffer(200)
	if err != nil {
		t.Fatalf("AcquireByteBuffer: %v", err)
	}
	a.Release(buf)

	buf2, err := a.AcquireByteBuffer(200)
	if err != nil {
		t.Fatalf("AcquireByteBuffer: %v", err)
	}
	stats := a.Stats()
	if stats.PoolHits != 1 {
		t.Errorf("PoolHits = %d, want 1", stats.PoolHits)
	}
	if cap(buf2) < 200 {
		t.Errorf("buf2 cap = %d, want >= 200", cap(buf2))
	}
}

func TestAllocator_TooLarge(t *testing.T) {
	a := NewPooledAllocator(WithMaxByteBufferCapacity(1024))
	_, err := a.AcquireByteBuffer(2048)
	if !errors.Is(err, ErrBufferTooLarge) {
		t.Errorf("err = %v, want ErrBufferTooLarge", err)
	}
}

func TestAllocator_PreferDirectBuffers(t *testing.T) {
	a := NewPooledAllocator(WithPreferDirectBuffers(true))
	buf, err := a.AcquireByteBuffer(64)
	if err != nil {
		t.Fatalf("AcquireByteBuffer: %v", err)
	}
	a.Release(buf)
	a.AcquireByteBuffer(64)
	if got := a.Stats(); got.PoolHits != 0 {
		t.Errorf("PoolHits = %d, want 0 with PreferDirectBuffers", got.PoolHits)
	}
}

func TestAllocator_PoolCapacityCap(t *testing.T) {
	a := NewPooledAllocator(WithMaxByteBufferPoolCapacity(1))
	buf, _ := a.AcquireByteBuffer(64)
	a.Release(buf)
	buf2, _ := a.AcquireByteBuffer(64)
	a.Release(buf2)
	if got := a.Stats(); got.PoolMisses != 2 {
		t.Errorf("PoolMisses = %d, want 2 (pool cap too small to retain anything)", got.PoolMisses)
	}
}

func TestAllocator_Close(t *testing.T) {
	a := NewPooledAllocator()
	buf, _ := a.AcquireByteBuffer(64)
	a.Release(buf)
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	_, err := a.AcquireByteBuffer(64)
	if !errors.Is(err, ErrClosed) {
		t.Errorf("AcquireByteBuffer after Close: err = %v, want ErrClosed", err)
	}
	// Release must stay a no-op after Close, since buffers already
	// checked out by in-flight readers/writers still need somewhere to go.
	a.Release(make([]byte, 0, 64))
}
