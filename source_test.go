// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestSource_EnsureRemaining(t *testing.T) {
	src := NewSource(strings.NewReader("hello world"), WithSourceBufferCapacity(16))
	if err := src.EnsureRemaining(5); err != nil {
		t.Fatalf("EnsureRemaining: %v", err)
	}
	got := make([]byte, 5)
	src.readInto(got)
	if string(got) != "hello" {
		t.Errorf("got %q, want hello", got)
	}
}

func TestSource_EnsureRemaining_TooSmallBuffer(t *testing.T) {
	src := NewSource(strings.NewReader("hello"), WithSourceBufferCapacity(minBufferCapacity))
	if err := src.EnsureRemaining(100); !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("err = %v, want ErrBufferTooSmall", err)
	}
}

func TestSource_EnsureRemaining_EOF(t *testing.T) {
	src := NewSource(strings.NewReader("ab"), WithSourceBufferCapacity(16))
	if err := src.EnsureRemaining(10); !errors.Is(err, ErrEndOfInput) {
		t.Errorf("err = %v, want ErrEndOfInput", err)
	}
}

func TestSource_CompactsOnRefill(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 32)
	src := NewSource(bytes.NewReader(data), WithSourceBufferCapacity(16))
	if err := src.EnsureRemaining(10); err != nil {
		t.Fatalf("EnsureRemaining: %v", err)
	}
	for i := 0; i < 10; i++ {
		src.readByte()
	}
	if err := src.EnsureRemaining(16); err != nil {
		t.Fatalf("EnsureRemaining after compaction: %v", err)
	}
}

func TestSource_TransferTo(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 1000)
	src := NewSource(bytes.NewReader(data), WithSourceBufferCapacity(64))
	var out bytes.Buffer
	sink := NewSink(&out, WithSinkBufferCapacity(64))

	if err := src.EnsureRemaining(10); err != nil {
		t.Fatalf("EnsureRemaining: %v", err)
	}
	if err := src.TransferTo(sink, 1000); err != nil {
		t.Fatalf("TransferTo: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if out.Len() != 1000 {
		t.Errorf("out.Len() = %d, want 1000", out.Len())
	}
	if !bytes.Equal(out.Bytes(), data) {
		t.Error("transferred bytes do not match source")
	}
}

func TestSource_CloseReleasesBuffer(t *testing.T) {
	src := NewSource(strings.NewReader("x"))
	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if src.buf != nil {
		t.Error("internal buffer still held after Close")
	}
	if err := src.EnsureRemaining(1); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}
