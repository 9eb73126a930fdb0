// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

import "testing"

func TestIdentifierCache_InternsAndReuses(t *testing.T) {
	c := newIdentifierCache(8, 64)
	a := c.intern([]byte("hello"), "hello")
	b := c.intern([]byte("hello"), "hello")
	if a != b {
		t.Errorf("intern mismatch: %q vs %q", a, b)
	}
	if c.ll.Len() != 1 {
		t.Errorf("cache len = %d, want 1", c.ll.Len())
	}
}

func TestIdentifierCache_EvictsLRU(t *testing.T) {
	c := newIdentifierCache(2, 64)
	c.intern([]byte("a"), "a")
	c.intern([]byte("b"), "b")
	c.intern([]byte("c"), "c")
	if c.ll.Len() != 2 {
		t.Errorf("cache len = %d, want 2", c.ll.Len())
	}
	if _, ok := c.index[fnv1a([]byte("a"))]; ok {
		t.Error("oldest entry \"a\" should have been evicted")
	}
}

func TestIdentifierCache_SkipsLongStrings(t *testing.T) {
	c := newIdentifierCache(8, 2)
	c.intern([]byte("abc"), "abc")
	if c.ll.Len() != 0 {
		t.Errorf("cache len = %d, want 0 for string over maxLength", c.ll.Len())
	}
}

func TestIdentifierCache_HashCollisionDoesNotCorruptOtherEntry(t *testing.T) {
	c := newIdentifierCache(8, 64)
	alpha := c.intern([]byte("alpha"), "alpha")

	// Force a synthetic bucket collision: plant a second, distinct entry
	// under alpha's real hash, as a genuine FNV-64 collision would.
	h := fnv1a([]byte("alpha"))
	entry := &identifierEntry{hash: h, bytes: []byte("beta"), value: "beta"}
	el := c.ll.PushFront(entry)
	c.index[h] = append(c.index[h], el)

	if got := c.intern([]byte("alpha"), "alpha"); got != alpha {
		t.Errorf("collided lookup for alpha = %q, want %q", got, alpha)
	}
	if got := c.intern([]byte("beta"), "beta"); got != "beta" {
		t.Errorf("collided lookup for beta = %q, want beta", got)
	}
	if len(c.index[h]) != 2 {
		t.Errorf("bucket len = %d, want 2 entries chained under the shared hash", len(c.index[h]))
	}
}

func TestValidateUTF8_Valid(t *testing.T) {
	if _, ok := validateUTF8([]byte("hello 世界")); !ok {
		t.Error("validateUTF8 reported valid UTF-8 as invalid")
	}
}

func TestValidateUTF8_Invalid(t *testing.T) {
	bad := []byte{'a', 'b', 0xff, 'c'}
	off, ok := validateUTF8(bad)
	if ok {
		t.Fatal("validateUTF8 reported invalid UTF-8 as valid")
	}
	if off != 2 {
		t.Errorf("offset = %d, want 2", off)
	}
}
