// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package msgpack

import (
	"bytes"
	"sync"
	"testing"
)

// TestAllocator_ConcurrentAcquireRelease exercises the mutex-guarded free
// lists under the race detector: many goroutines acquiring and releasing
// buffers of mixed tiers against one shared pooled Allocator.
func TestAllocator_ConcurrentAcquireRelease(t *testing.T) {
	a := NewPooledAllocator()
	sizes := []int{32, 200, 900, 5000}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				want := sizes[(n+i)%len(sizes)]
				buf, err := a.AcquireByteBuffer(want)
				if err != nil {
					t.Error(err)
					return
				}
				buf = append(buf, byte(i))
				a.Release(buf)
			}
		}(g)
	}
	wg.Wait()
}

// TestReader_ConcurrentConstructionSharedAllocator checks that building
// many Sources and Readers against one shared Allocator, each reading one
// identifier, is race-free. The identifier cache itself is per Reader and
// is not shared.
func TestReader_ConcurrentConstructionSharedAllocator(t *testing.T) {
	a := NewPooledAllocator()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			src := NewSource(bytes.NewReader([]byte{0xa1, 0x6b}), WithSourceAllocator(a))
			r := NewReader(src, WithReaderAllocator(a))
			if _, err := r.ReadIdentifier(); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
}
