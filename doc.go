// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package msgpack is a streaming encoder/decoder for the MessagePack
// binary serialization format over blocking byte-oriented transports.
//
// # Layout
//
// A Reader decodes from a Source; a Writer encodes to a Sink. Source and
// Sink wrap an io.Reader/io.Writer with an internal buffer obtained from
// an Allocator, and guarantee "N bytes readable/writable" as a
// precondition for every codec operation:
//
//	alloc := msgpack.NewPooledAllocator()
//	src := msgpack.NewSource(r, msgpack.WithSourceAllocator(alloc))
//	rd := msgpack.NewReader(src)
//
//	n, err := rd.ReadInt64()
//
// # Buffer tiers
//
// The allocator pools byte and char buffers keyed by a small ladder of
// power-of-two capacity tiers (64 B .. 1 MiB); requests above the largest
// tier always allocate fresh rather than pool, the same "pool up to a
// ladder, fall back to direct allocation above it" shape this codebase's
// buffer pools have always used.
//
// # Smallest-representation encoding
//
// Writer always emits the narrowest legal tag for a value: fixint where
// the value fits in -32..127, the narrowest sized integer tag otherwise;
// fixstr/fixarray/fixmap below their size thresholds, sized headers
// above. Reader recognizes every tag in the grammar and widens integers
// to the requested Go type, failing with ErrIntegerOverflow rather than
// silently truncating.
//
// # Concurrency
//
// A Reader, Writer, Source, Sink and their buffers are single-owner: do
// not share one across goroutines. The only resource safe to share is an
// Allocator, whose free lists are guarded by a single mutex. This codec
// acquires from the allocator at Source/Sink construction and close, and
// for one scratch buffer per decoded string and per WriteRunes call;
// scalar, header and binary values never touch it.
package msgpack
