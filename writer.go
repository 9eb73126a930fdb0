// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"io"
	"math"
	"time"
	"unicode/utf8"
)

// Writer encodes MessagePack values to a Sink, always choosing the
// smallest legal wire representation. A Writer is not safe for
// concurrent use and must not be shared across goroutines.
type Writer struct {
	_ noCopy

	sink      *Sink
	alloc     *Allocator
	estimator func(charCount int) int
}

// NewWriter returns a Writer encoding to sink.
func NewWriter(sink *Sink, opts ...WriterOption) *Writer {
	cfg := newWriterConfig(opts...)
	alloc := cfg.allocator
	if alloc == nil {
		alloc = NewUnpooledAllocator()
	}
	return &Writer{sink: sink, alloc: alloc, estimator: cfg.stringSizeEstimator}
}

// WriteNil writes the nil tag.
func (w *Writer) WriteNil() error { return w.sink.WriteByte(tagNil) }

// WriteBool writes a boolean.
func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.sink.WriteByte(tagTrue)
	}
	return w.sink.WriteByte(tagFalse)
}

// WriteInt64 writes the narrowest tag that losslessly represents v. For
// v >= 0 this is the same unsigned ladder WriteUint64 picks (positive
// fixint, uint8, uint16, uint32, uint64); only negative values ever use a
// signed tag (negative fixint, int8, int16, int32, int64).
func (w *Writer) WriteInt64(v int64) error {
	if v >= 0 {
		return w.WriteUint64(uint64(v))
	}
	switch {
	case v >= -32:
		return w.sink.WriteByte(byte(v))
	case v >= math.MinInt8:
		return w.sink.WriteUint8(tagInt8, uint8(int8(v)))
	case v >= math.MinInt16:
		return w.sink.WriteUint16(tagInt16, uint16(int16(v)))
	case v >= math.MinInt32:
		return w.sink.WriteUint32(tagInt32, uint32(int32(v)))
	default:
		return w.sink.WriteUint64(tagInt64, uint64(v))
	}
}

// WriteInt8 writes v via WriteInt64; provided for API symmetry with the
// Reader's typed accessors.
func (w *Writer) WriteInt8(v int8) error { return w.WriteInt64(int64(v)) }

// WriteInt16 writes v via WriteInt64.
func (w *Writer) WriteInt16(v int16) error { return w.WriteInt64(int64(v)) }

// WriteInt32 writes v via WriteInt64.
func (w *Writer) WriteInt32(v int32) error { return w.WriteInt64(int64(v)) }

// WriteUint64 writes the narrowest tag that losslessly represents v:
// positive fixint, else the narrowest of uint8/uint16/uint32/uint64.
func (w *Writer) WriteUint64(v uint64) error {
	switch {
	case v <= posFixIntMax:
		return w.sink.WriteByte(byte(v))
	case v <= math.MaxUint8:
		return w.sink.WriteUint8(tagUint8, uint8(v))
	case v <= math.MaxUint16:
		return w.sink.WriteUint16(tagUint16, uint16(v))
	case v <= math.MaxUint32:
		return w.sink.WriteUint32(tagUint32, uint32(v))
	default:
		return w.sink.WriteUint64(tagUint64, v)
	}
}

// WriteUint8 writes v via WriteUint64.
func (w *Writer) WriteUint8(v uint8) error { return w.WriteUint64(uint64(v)) }

// WriteUint16 writes v via WriteUint64.
func (w *Writer) WriteUint16(v uint16) error { return w.WriteUint64(uint64(v)) }

// WriteUint32 writes v via WriteUint64.
func (w *Writer) WriteUint32(v uint32) error { return w.WriteUint64(uint64(v)) }

// WriteFloat32 writes an IEEE-754 single-precision float.
func (w *Writer) WriteFloat32(v float32) error {
	return w.sink.WriteUint32(tagFloat32, math.Float32bits(v))
}

// WriteFloat64 writes an IEEE-754 double-precision float.
func (w *Writer) WriteFloat64(v float64) error {
	return w.sink.WriteUint64(tagFloat64, math.Float64bits(v))
}

// WriteArrayHeader writes the narrowest array header for n elements:
// fixarray (n<=15), array16 (n<=65535), else array32.
func (w *Writer) WriteArrayHeader(n int) error {
	switch {
	case n <= fixArrayMax:
		return w.sink.WriteByte(tagFixArrayMask | byte(n))
	case n <= math.MaxUint16:
		return w.sink.WriteUint16(tagArray16, uint16(n))
	default:
		return w.sink.WriteUint32(tagArray32, uint32(n))
	}
}

// WriteMapHeader writes the narrowest map header for n entries.
func (w *Writer) WriteMapHeader(n int) error {
	switch {
	case n <= fixMapMax:
		return w.sink.WriteByte(tagFixMapMask | byte(n))
	case n <= math.MaxUint16:
		return w.sink.WriteUint16(tagMap16, uint16(n))
	default:
		return w.sink.WriteUint32(tagMap32, uint32(n))
	}
}

// WriteStringHeader writes the narrowest string header for a payload of
// byteLen bytes: fixstr (<32), str8 (<256), str16 (<65536), else str32.
func (w *Writer) WriteStringHeader(byteLen int) error {
	switch {
	case byteLen <= fixStrMax:
		return w.sink.WriteByte(tagFixStrMask | byte(byteLen))
	case byteLen <= math.MaxUint8:
		return w.sink.WriteUint8(tagStr8, uint8(byteLen))
	case byteLen <= math.MaxUint16:
		return w.sink.WriteUint16(tagStr16, uint16(byteLen))
	default:
		return w.sink.WriteUint32(tagStr32, uint32(byteLen))
	}
}

// WriteBinaryHeader writes the narrowest binary header for byteLen bytes.
func (w *Writer) WriteBinaryHeader(byteLen int) error {
	switch {
	case byteLen <= math.MaxUint8:
		return w.sink.WriteUint8(tagBin8, uint8(byteLen))
	case byteLen <= math.MaxUint16:
		return w.sink.WriteUint16(tagBin16, uint16(byteLen))
	default:
		return w.sink.WriteUint32(tagBin32, uint32(byteLen))
	}
}

// WriteExtensionHeader writes an extension header for extType with a
// byteLen-byte payload to follow (written separately via WritePayload).
func (w *Writer) WriteExtensionHeader(extType int8, byteLen int) error {
	switch byteLen {
	case 1:
		return w.writeExtTag(tagFixExt1, extType)
	case 2:
		return w.writeExtTag(tagFixExt2, extType)
	case 4:
		return w.writeExtTag(tagFixExt4, extType)
	case 8:
		return w.writeExtTag(tagFixExt8, extType)
	case 16:
		return w.writeExtTag(tagFixExt16, extType)
	}
	switch {
	case byteLen <= math.MaxUint8:
		if err := w.sink.WriteUint8(tagExt8, uint8(byteLen)); err != nil {
			return err
		}
	case byteLen <= math.MaxUint16:
		if err := w.sink.WriteUint16(tagExt16, uint16(byteLen)); err != nil {
			return err
		}
	default:
		if err := w.sink.WriteUint32(tagExt32, uint32(byteLen)); err != nil {
			return err
		}
	}
	return w.sink.WriteByte(byte(extType))
}

func (w *Writer) writeExtTag(tag byte, extType int8) error {
	if err := w.sink.WriteByte(tag); err != nil {
		return err
	}
	return w.sink.WriteByte(byte(extType))
}

// WritePayload writes buf verbatim as a raw passthrough, used after a
// header write (string/binary/extension) to emit the payload.
func (w *Writer) WritePayload(buf []byte) error { return w.sink.WritePayload(buf) }

// WriteFrom streams up to maxBytes from r into the sink.
func (w *Writer) WriteFrom(r io.Reader, maxBytes int64) error {
	return w.sink.TransferFrom(r, maxBytes)
}

// WriteBytes writes a binary value: header then payload.
func (w *Writer) WriteBytes(b []byte) error {
	if err := w.WriteBinaryHeader(len(b)); err != nil {
		return err
	}
	return w.WritePayload(b)
}

// WriteString writes a string value. Because a Go string already knows
// its exact UTF-8 byte length, this is the idiomatic fast path: the
// header is sized exactly, with no estimation needed.
func (w *Writer) WriteString(s string) error {
	if err := w.WriteStringHeader(len(s)); err != nil {
		return err
	}
	return w.WritePayload([]byte(s))
}

// WriteRunes is the literal analogue of a contiguous-character-array fast
// path: it reserves a header width from the configured string size
// estimator (default charCount*3) before the final UTF-8 byte length is
// known, then encodes into a scratch buffer and backfills. The header
// slot's width is never retro-narrowed even if the actual encoded length
// would fit a narrower class, matching the reserve-then-fill contract.
func (w *Writer) WriteRunes(rs []rune) error {
	estimate := w.estimator(len(rs))
	if estimate < 0 {
		estimate = 0
	}
	scratch, err := w.alloc.AcquireCharBuffer(estimate)
	if err != nil {
		scratch = make([]byte, 0, estimate)
	}
	defer w.alloc.ReleaseCharBuffer(scratch)

	for _, rn := range rs {
		var tmp [utf8.UTFMax]byte
		n := utf8.EncodeRune(tmp[:], rn)
		scratch = append(scratch, tmp[:n]...)
	}

	if err := w.writeHeaderForClass(estimate, len(scratch)); err != nil {
		return err
	}
	return w.WritePayload(scratch)
}

// writeHeaderForClass writes a string header sized to reservedClass's
// width (the class picked from the pre-encode estimate), but carrying
// the true actualLen as the length value: only the header's byte-width
// selection is pinned up front, never the length value itself.
func (w *Writer) writeHeaderForClass(reservedClass, actualLen int) error {
	switch {
	case reservedClass <= fixStrMax:
		if actualLen <= fixStrMax {
			return w.sink.WriteByte(tagFixStrMask | byte(actualLen))
		}
		fallthrough
	case reservedClass <= math.MaxUint8:
		if actualLen <= math.MaxUint8 {
			return w.sink.WriteUint8(tagStr8, uint8(actualLen))
		}
		fallthrough
	case reservedClass <= math.MaxUint16:
		if actualLen <= math.MaxUint16 {
			return w.sink.WriteUint16(tagStr16, uint16(actualLen))
		}
		fallthrough
	default:
		return w.sink.WriteUint32(tagStr32, uint32(actualLen))
	}
}

// WriteTimestamp writes a timestamp extension (type -1) choosing the
// smallest variant that losslessly represents t.
func (w *Writer) WriteTimestamp(t time.Time) error {
	extType, payload := encodeTimestampPayload(t)
	if err := w.WriteExtensionHeader(extType, len(payload)); err != nil {
		return err
	}
	return w.WritePayload(payload)
}

// Flush flushes the underlying sink.
func (w *Writer) Flush() error { return w.sink.Flush() }

// Close closes the underlying Sink.
func (w *Writer) Close() error { return w.sink.Close() }
