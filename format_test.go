// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

import "testing"

func TestIsFixInt(t *testing.T) {
	cases := []struct {
		b    byte
		want bool
	}{
		{0x00, true},
		{0x7f, true},
		{0x80, false},
		{0xe0, true},
		{0xff, true},
		{0xdf, false},
	}
	for _, c := range cases {
		if got := IsFixInt(c.b); got != c.want {
			t.Errorf("IsFixInt(0x%02x) = %v, want %v", c.b, got, c.want)
		}
	}
}

func TestIsFixStrArrayMap(t *testing.T) {
	if !IsFixStr(0xa5) {
		t.Error("IsFixStr(0xa5) = false, want true")
	}
	if IsFixStr(0xc0) {
		t.Error("IsFixStr(0xc0) = true, want false")
	}
	if !IsFixArray(0x93) {
		t.Error("IsFixArray(0x93) = false, want true")
	}
	if !IsFixMap(0x81) {
		t.Error("IsFixMap(0x81) = false, want true")
	}
}

func TestTypeOf(t *testing.T) {
	cases := []struct {
		b    byte
		want Type
	}{
		{tagNil, TypeNil},
		{tagTrue, TypeBoolean},
		{tagFalse, TypeBoolean},
		{0x2a, TypeInteger},
		{tagUint64, TypeInteger},
		{tagFloat32, TypeFloat},
		{tagFloat64, TypeFloat},
		{0xa5, TypeString},
		{tagStr32, TypeString},
		{tagBin8, TypeBinary},
		{0x93, TypeArray},
		{tagArray32, TypeArray},
		{0x81, TypeMap},
		{tagMap32, TypeMap},
		{tagFixExt1, TypeExtension},
	}
	for _, c := range cases {
		if got := typeOf(c.b); got != c.want {
			t.Errorf("typeOf(0x%02x) = %v, want %v", c.b, got, c.want)
		}
	}
}
