// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"bytes"
	"errors"
	"testing"
)

// TestScenario1_MixedValues covers: nil, true, int 42, string "Hello".
func TestScenario1_MixedValues(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWriter(&buf)
	if err := w.WriteNil(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBool(true); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteInt64(42); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString("Hello"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	want := []byte{0xc0, 0xc3, 0x2a, 0xa5, 0x48, 0x65, 0x6c, 0x6c, 0x6f}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("wire bytes = % x, want % x", buf.Bytes(), want)
	}

	r := newTestReader(buf.Bytes())
	types := []Type{TypeNil, TypeBoolean, TypeInteger, TypeString}
	for i, want := range types {
		got, err := r.NextType()
		if err != nil {
			t.Fatalf("NextType[%d]: %v", i, err)
		}
		if got != want {
			t.Errorf("NextType[%d] = %v, want %v", i, got, want)
		}
		switch want {
		case TypeNil:
			if err := r.ReadNil(); err != nil {
				t.Fatal(err)
			}
		case TypeBoolean:
			v, err := r.ReadBool()
			if err != nil || !v {
				t.Fatalf("ReadBool = %v, %v", v, err)
			}
		case TypeInteger:
			v, err := r.ReadInt64()
			if err != nil || v != 42 {
				t.Fatalf("ReadInt64 = %v, %v", v, err)
			}
		case TypeString:
			v, err := r.ReadString()
			if err != nil || v != "Hello" {
				t.Fatalf("ReadString = %v, %v", v, err)
			}
		}
	}
}

// TestScenario2_Array covers: [1, 2, 3].
func TestScenario2_Array(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWriter(&buf)
	if err := w.WriteArrayHeader(3); err != nil {
		t.Fatal(err)
	}
	for _, v := range []int64{1, 2, 3} {
		if err := w.WriteInt64(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x93, 0x01, 0x02, 0x03}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("wire bytes = % x, want % x", buf.Bytes(), want)
	}
}

// TestScenario4_Str8 covers a 40-byte ASCII string.
func TestScenario4_Str8(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWriter(&buf)
	s := string(bytes.Repeat([]byte{'a'}, 40))
	if err := w.WriteString(s); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	want := append([]byte{0xd9, 0x28}, bytes.Repeat([]byte{0x61}, 40)...)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("wire bytes = % x, want % x", buf.Bytes(), want)
	}
}

// TestScenario5_Uint8Overflow covers writing 128 then reading as int8
// (overflow) and int16 (success).
func TestScenario5_Uint8Overflow(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWriter(&buf)
	if err := w.WriteInt64(128); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	want := []byte{0xcc, 0x80}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("wire bytes = % x, want % x", buf.Bytes(), want)
	}

	if _, err := newTestReader(buf.Bytes()).ReadInt8(); !errors.Is(err, ErrIntegerOverflow) {
		t.Errorf("ReadInt8 err = %v, want ErrIntegerOverflow", err)
	}
	v, err := newTestReader(buf.Bytes()).ReadInt16()
	if err != nil || v != 128 {
		t.Errorf("ReadInt16 = %d, %v, want 128, nil", v, err)
	}
}

// TestScenario6_MapStringString covers {"k": "v"}.
func TestScenario6_MapStringString(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWriter(&buf)
	if err := w.WriteMapHeader(1); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString("k"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString("v"); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x81, 0xa1, 0x6b, 0xa1, 0x76}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("wire bytes = % x, want % x", buf.Bytes(), want)
	}

	r := newTestReader(buf.Bytes())
	n, err := r.ReadMapHeader()
	if err != nil || n != 1 {
		t.Fatalf("ReadMapHeader = %d, %v, want 1, nil", n, err)
	}
	k, err := r.ReadString()
	if err != nil || k != "k" {
		t.Fatalf("ReadString(key) = %q, %v", k, err)
	}
	v, err := r.ReadString()
	if err != nil || v != "v" {
		t.Fatalf("ReadString(value) = %q, %v", v, err)
	}
}

// TestRoundTrip_HeterogeneousArray exercises the universal round-trip
// property across a mix of scalar kinds in a single array.
func TestRoundTrip_HeterogeneousArray(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWriter(&buf)
	if err := w.WriteArrayHeader(6); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBool(true); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteInt64(-12345); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteUint64(99999999999); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteFloat64(3.14159); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString("héllo wörld"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBytes([]byte{1, 2, 3, 4, 5}); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	r := newTestReader(buf.Bytes())
	n, err := r.ReadArrayHeader()
	if err != nil || n != 6 {
		t.Fatalf("ReadArrayHeader = %d, %v", n, err)
	}
	if v, err := r.ReadBool(); err != nil || !v {
		t.Fatalf("ReadBool = %v, %v", v, err)
	}
	if v, err := r.ReadInt64(); err != nil || v != -12345 {
		t.Fatalf("ReadInt64 = %v, %v", v, err)
	}
	if v, err := r.ReadUint64(); err != nil || v != 99999999999 {
		t.Fatalf("ReadUint64 = %v, %v", v, err)
	}
	if v, err := r.ReadFloat64(); err != nil || v != 3.14159 {
		t.Fatalf("ReadFloat64 = %v, %v", v, err)
	}
	if v, err := r.ReadString(); err != nil || v != "héllo wörld" {
		t.Fatalf("ReadString = %q, %v", v, err)
	}
	n2, err := r.ReadBinaryHeader()
	if err != nil || n2 != 5 {
		t.Fatalf("ReadBinaryHeader = %d, %v", n2, err)
	}
	got := make([]byte, n2)
	if err := r.ReadPayload(got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3, 4, 5}) {
		t.Errorf("binary payload = %v, want [1 2 3 4 5]", got)
	}
}
