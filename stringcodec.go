// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"container/list"
	"hash/fnv"
	"unicode/utf8"
)

// identifierCache interns short, frequently repeated decoded strings by
// their raw UTF-8 bytes, evicting the least recently used entry once the
// configured limit is reached. It is not safe for concurrent use; it
// belongs to exactly one Reader.
type identifierCache struct {
	limit     int
	maxLength int
	ll        *list.List // front: most recently used; back: next to evict
	index     map[uint64][]*list.Element
}

type identifierEntry struct {
	hash  uint64
	bytes []byte
	value string
}

func newIdentifierCache(limit, maxLength int) *identifierCache {
	return &identifierCache{
		limit:     limit,
		maxLength: maxLength,
		ll:        list.New(),
		index:     make(map[uint64][]*list.Element, limit),
	}
}

func fnv1a(b []byte) uint64 {
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}

// intern returns the cached decoded string for raw if present, or stores
// the caller's decoded string as a new entry and returns it. raw must not be retained by the caller after
// this call if its backing array is reused (intern copies it on insert).
// index buckets by hash, chaining on collision, since two distinct byte
// sequences sharing an FNV-64 hash must not shadow or evict one another.
func (c *identifierCache) intern(raw []byte, decoded string) string {
	if c.limit <= 0 || len(raw) > c.maxLength {
		return decoded
	}
	h := fnv1a(raw)
	for _, el := range c.index[h] {
		e := el.Value.(*identifierEntry)
		if string(e.bytes) == string(raw) {
			c.ll.MoveToFront(el)
			return e.value
		}
	}
	owned := make([]byte, len(raw))
	copy(owned, raw)
	entry := &identifierEntry{hash: h, bytes: owned, value: decoded}
	el := c.ll.PushFront(entry)
	c.index[h] = append(c.index[h], el)
	if c.ll.Len() > c.limit {
		if back := c.ll.Back(); back != nil {
			c.evict(back)
		}
	}
	return decoded
}

// evict removes el from both the LRU list and its hash bucket, identifying
// it by pointer within the bucket rather than by hash alone.
func (c *identifierCache) evict(el *list.Element) {
	c.ll.Remove(el)
	h := el.Value.(*identifierEntry).hash
	chain := c.index[h]
	for i, e := range chain {
		if e == el {
			chain = append(chain[:i], chain[i+1:]...)
			break
		}
	}
	if len(chain) == 0 {
		delete(c.index, h)
	} else {
		c.index[h] = chain
	}
}

// validateUTF8 checks raw for well-formedness and, if invalid, returns
// the byte offset of the first bad sequence together with false.
func validateUTF8(raw []byte) (int, bool) {
	if utf8.Valid(raw) {
		return 0, true
	}
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			return i, false
		}
		i += size
	}
	return len(raw), false
}
