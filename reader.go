// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Reader decodes MessagePack values from a Source. Every operation
// advances the stream; a Reader is not safe for concurrent use and must
// not be shared across goroutines.
type Reader struct {
	_ noCopy

	source *Source
	alloc  *Allocator
	ids    *identifierCache
	maxID  int
}

// NewReader returns a Reader decoding from source.
func NewReader(source *Source, opts ...ReaderOption) *Reader {
	cfg := newReaderConfig(opts...)
	alloc := cfg.allocator
	if alloc == nil {
		alloc = NewUnpooledAllocator()
	}
	return &Reader{
		source: source,
		alloc:  alloc,
		ids:    newIdentifierCache(cfg.identifierCacheLimit, cfg.maxIdentifierLength),
		maxID:  cfg.maxIdentifierLength,
	}
}

func (r *Reader) fail(offset int64, tag byte, err error) error {
	return newDecodeError(offset, tag, err)
}

// NextFormat returns the upcoming tag byte without consuming it.
func (r *Reader) NextFormat() (byte, error) {
	if err := r.source.EnsureRemaining(1); err != nil {
		return 0, err
	}
	return r.source.peekByte(), nil
}

// NextType returns the Type category of the upcoming value without
// consuming it.
func (r *Reader) NextType() (Type, error) {
	b, err := r.NextFormat()
	if err != nil {
		return TypeNil, err
	}
	return typeOf(b), nil
}

func (r *Reader) readTag() (byte, int64, error) {
	offset := r.source.bufferedOffset()
	if err := r.source.EnsureRemaining(1); err != nil {
		return 0, offset, err
	}
	return r.source.readByte(), offset, nil
}

// ReadNil consumes a nil tag. Fails ErrTypeMismatch on any other tag.
func (r *Reader) ReadNil() error {
	tag, offset, err := r.readTag()
	if err != nil {
		return err
	}
	if tag != tagNil {
		return r.fail(offset, tag, newTypeMismatchError(TypeNil, typeOf(tag)))
	}
	return nil
}

// ReadBool decodes a boolean.
func (r *Reader) ReadBool() (bool, error) {
	tag, offset, err := r.readTag()
	if err != nil {
		return false, err
	}
	switch tag {
	case tagTrue:
		return true, nil
	case tagFalse:
		return false, nil
	default:
		return false, r.fail(offset, tag, newTypeMismatchError(TypeBoolean, typeOf(tag)))
	}
}

func (r *Reader) readBigEndian(n int) ([]byte, error) {
	if err := r.source.EnsureRemaining(n); err != nil {
		return nil, err
	}
	// The returned slice views the source buffer and is valid only until
	// the next source operation; callers decode it immediately.
	buf := r.source.buf[r.source.pos : r.source.pos+n]
	r.source.pos += n
	return buf, nil
}

// ReadUint64 decodes an unsigned integer losslessly, including values
// that exceed the signed 64-bit range. Fails ErrTypeMismatch if the next
// tag is not an integer, or ErrIntegerOverflow if the value is a negative
// signed integer.
func (r *Reader) ReadUint64() (uint64, error) {
	tag, offset, err := r.readTag()
	if err != nil {
		return 0, err
	}
	switch {
	case IsPosFixInt(tag):
		return uint64(tag), nil
	case IsNegFixInt(tag):
		return 0, r.fail(offset, tag, newOverflowError(int8(tag), "uint64"))
	case tag == tagUint8:
		b, err := r.readBigEndian(1)
		if err != nil {
			return 0, err
		}
		return uint64(b[0]), nil
	case tag == tagUint16:
		b, err := r.readBigEndian(2)
		if err != nil {
			return 0, err
		}
		return uint64(binary.BigEndian.Uint16(b)), nil
	case tag == tagUint32:
		b, err := r.readBigEndian(4)
		if err != nil {
			return 0, err
		}
		return uint64(binary.BigEndian.Uint32(b)), nil
	case tag == tagUint64:
		b, err := r.readBigEndian(8)
		if err != nil {
			return 0, err
		}
		return binary.BigEndian.Uint64(b), nil
	case tag == tagInt8:
		b, err := r.readBigEndian(1)
		if err != nil {
			return 0, err
		}
		v := int8(b[0])
		if v < 0 {
			return 0, r.fail(offset, tag, newOverflowError(v, "uint64"))
		}
		return uint64(v), nil
	case tag == tagInt16:
		b, err := r.readBigEndian(2)
		if err != nil {
			return 0, err
		}
		v := int16(binary.BigEndian.Uint16(b))
		if v < 0 {
			return 0, r.fail(offset, tag, newOverflowError(v, "uint64"))
		}
		return uint64(v), nil
	case tag == tagInt32:
		b, err := r.readBigEndian(4)
		if err != nil {
			return 0, err
		}
		v := int32(binary.BigEndian.Uint32(b))
		if v < 0 {
			return 0, r.fail(offset, tag, newOverflowError(v, "uint64"))
		}
		return uint64(v), nil
	case tag == tagInt64:
		b, err := r.readBigEndian(8)
		if err != nil {
			return 0, err
		}
		v := int64(binary.BigEndian.Uint64(b))
		if v < 0 {
			return 0, r.fail(offset, tag, newOverflowError(v, "uint64"))
		}
		return uint64(v), nil
	default:
		return 0, r.fail(offset, tag, newTypeMismatchError(TypeInteger, typeOf(tag)))
	}
}

// ReadInt64 decodes a signed integer. Fails ErrIntegerOverflow if the
// wire value is an unsigned integer that exceeds math.MaxInt64; use
// ReadUint64 for that case.
func (r *Reader) ReadInt64() (int64, error) {
	tag, offset, err := r.readTag()
	if err != nil {
		return 0, err
	}
	switch {
	case IsPosFixInt(tag):
		return int64(tag), nil
	case IsNegFixInt(tag):
		return int64(int8(tag)), nil
	case tag == tagUint8:
		b, err := r.readBigEndian(1)
		if err != nil {
			return 0, err
		}
		return int64(b[0]), nil
	case tag == tagUint16:
		b, err := r.readBigEndian(2)
		if err != nil {
			return 0, err
		}
		return int64(binary.BigEndian.Uint16(b)), nil
	case tag == tagUint32:
		b, err := r.readBigEndian(4)
		if err != nil {
			return 0, err
		}
		return int64(binary.BigEndian.Uint32(b)), nil
	case tag == tagUint64:
		b, err := r.readBigEndian(8)
		if err != nil {
			return 0, err
		}
		v := binary.BigEndian.Uint64(b)
		if v > math.MaxInt64 {
			return 0, r.fail(offset, tag, newOverflowError(v, "int64"))
		}
		return int64(v), nil
	case tag == tagInt8:
		b, err := r.readBigEndian(1)
		if err != nil {
			return 0, err
		}
		return int64(int8(b[0])), nil
	case tag == tagInt16:
		b, err := r.readBigEndian(2)
		if err != nil {
			return 0, err
		}
		return int64(int16(binary.BigEndian.Uint16(b))), nil
	case tag == tagInt32:
		b, err := r.readBigEndian(4)
		if err != nil {
			return 0, err
		}
		return int64(int32(binary.BigEndian.Uint32(b))), nil
	case tag == tagInt64:
		b, err := r.readBigEndian(8)
		if err != nil {
			return 0, err
		}
		return int64(binary.BigEndian.Uint64(b)), nil
	default:
		return 0, r.fail(offset, tag, newTypeMismatchError(TypeInteger, typeOf(tag)))
	}
}

// ReadInt8 decodes a signed integer, failing ErrIntegerOverflow if it
// does not fit in an int8.
func (r *Reader) ReadInt8() (int8, error) { return readNarrowed[int8](r, math.MinInt8, math.MaxInt8) }

// ReadInt16 decodes a signed integer, failing ErrIntegerOverflow if it
// does not fit in an int16.
func (r *Reader) ReadInt16() (int16, error) {
	return readNarrowed[int16](r, math.MinInt16, math.MaxInt16)
}

// ReadInt32 decodes a signed integer, failing ErrIntegerOverflow if it
// does not fit in an int32.
func (r *Reader) ReadInt32() (int32, error) {
	return readNarrowed[int32](r, math.MinInt32, math.MaxInt32)
}

func readNarrowed[T ~int8 | ~int16 | ~int32](r *Reader, lo, hi int64) (T, error) {
	v, err := r.ReadInt64()
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, newOverflowError(v, fmt.Sprintf("%T", T(0)))
	}
	return T(v), nil
}

// ReadFloat32 decodes an IEEE-754 single-precision float. Integer tags
// are not auto-promoted; only tagFloat32 is accepted.
func (r *Reader) ReadFloat32() (float32, error) {
	tag, offset, err := r.readTag()
	if err != nil {
		return 0, err
	}
	if tag != tagFloat32 {
		return 0, r.fail(offset, tag, newTypeMismatchError(TypeFloat, typeOf(tag)))
	}
	b, err := r.readBigEndian(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

// ReadFloat64 decodes an IEEE-754 double-precision float. Integer tags
// are not auto-promoted; only tagFloat64 is accepted.
func (r *Reader) ReadFloat64() (float64, error) {
	tag, offset, err := r.readTag()
	if err != nil {
		return 0, err
	}
	if tag != tagFloat64 {
		return 0, r.fail(offset, tag, newTypeMismatchError(TypeFloat, typeOf(tag)))
	}
	b, err := r.readBigEndian(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// ReadStringHeader decodes a string header and returns its byte length;
// the caller then consumes the payload (e.g. via ReadPayload).
func (r *Reader) ReadStringHeader() (int, error) {
	tag, offset, err := r.readTag()
	if err != nil {
		return 0, err
	}
	switch {
	case IsFixStr(tag):
		return int(tag &^ tagFixStrMask), nil
	case tag == tagStr8:
		b, err := r.readBigEndian(1)
		if err != nil {
			return 0, err
		}
		return int(b[0]), nil
	case tag == tagStr16:
		b, err := r.readBigEndian(2)
		if err != nil {
			return 0, err
		}
		return int(binary.BigEndian.Uint16(b)), nil
	case tag == tagStr32:
		b, err := r.readBigEndian(4)
		if err != nil {
			return 0, err
		}
		return int(binary.BigEndian.Uint32(b)), nil
	default:
		return 0, r.fail(offset, tag, newTypeMismatchError(TypeString, typeOf(tag)))
	}
}

// ReadBinaryHeader decodes a binary header and returns its byte length.
func (r *Reader) ReadBinaryHeader() (int, error) {
	tag, offset, err := r.readTag()
	if err != nil {
		return 0, err
	}
	switch tag {
	case tagBin8:
		b, err := r.readBigEndian(1)
		if err != nil {
			return 0, err
		}
		return int(b[0]), nil
	case tagBin16:
		b, err := r.readBigEndian(2)
		if err != nil {
			return 0, err
		}
		return int(binary.BigEndian.Uint16(b)), nil
	case tagBin32:
		b, err := r.readBigEndian(4)
		if err != nil {
			return 0, err
		}
		return int(binary.BigEndian.Uint32(b)), nil
	default:
		return 0, r.fail(offset, tag, newTypeMismatchError(TypeBinary, typeOf(tag)))
	}
}

// ReadExtensionHeader decodes an extension header, returning its type id
// and payload byte length.
func (r *Reader) ReadExtensionHeader() (int8, int, error) {
	tag, offset, err := r.readTag()
	if err != nil {
		return 0, 0, err
	}
	var length int
	switch tag {
	case tagFixExt1:
		length = 1
	case tagFixExt2:
		length = 2
	case tagFixExt4:
		length = 4
	case tagFixExt8:
		length = 8
	case tagFixExt16:
		length = 16
	case tagExt8:
		b, err := r.readBigEndian(1)
		if err != nil {
			return 0, 0, err
		}
		length = int(b[0])
	case tagExt16:
		b, err := r.readBigEndian(2)
		if err != nil {
			return 0, 0, err
		}
		length = int(binary.BigEndian.Uint16(b))
	case tagExt32:
		b, err := r.readBigEndian(4)
		if err != nil {
			return 0, 0, err
		}
		length = int(binary.BigEndian.Uint32(b))
	default:
		return 0, 0, r.fail(offset, tag, newTypeMismatchError(TypeExtension, typeOf(tag)))
	}
	typeByte, err := r.readBigEndian(1)
	if err != nil {
		return 0, 0, err
	}
	return int8(typeByte[0]), length, nil
}

// ReadArrayHeader decodes an array header and returns its element count.
func (r *Reader) ReadArrayHeader() (int, error) {
	tag, offset, err := r.readTag()
	if err != nil {
		return 0, err
	}
	switch {
	case IsFixArray(tag):
		return int(tag &^ tagFixArrayMask), nil
	case tag == tagArray16:
		b, err := r.readBigEndian(2)
		if err != nil {
			return 0, err
		}
		return int(binary.BigEndian.Uint16(b)), nil
	case tag == tagArray32:
		b, err := r.readBigEndian(4)
		if err != nil {
			return 0, err
		}
		return int(binary.BigEndian.Uint32(b)), nil
	default:
		return 0, r.fail(offset, tag, newTypeMismatchError(TypeArray, typeOf(tag)))
	}
}

// ReadMapHeader decodes a map header and returns its entry count.
func (r *Reader) ReadMapHeader() (int, error) {
	tag, offset, err := r.readTag()
	if err != nil {
		return 0, err
	}
	switch {
	case IsFixMap(tag):
		return int(tag &^ tagFixMapMask), nil
	case tag == tagMap16:
		b, err := r.readBigEndian(2)
		if err != nil {
			return 0, err
		}
		return int(binary.BigEndian.Uint16(b)), nil
	case tag == tagMap32:
		b, err := r.readBigEndian(4)
		if err != nil {
			return 0, err
		}
		return int(binary.BigEndian.Uint32(b)), nil
	default:
		return 0, r.fail(offset, tag, newTypeMismatchError(TypeMap, typeOf(tag)))
	}
}

// ReadPayload copies exactly len(dest) bytes from the stream. It is used
// after ReadStringHeader/ReadBinaryHeader/ReadExtensionHeader to consume
// the value's raw payload.
func (r *Reader) ReadPayload(dest []byte) error {
	remaining := dest
	for len(remaining) > 0 {
		chunk := len(remaining)
		if chunk > cap(r.source.buf) {
			chunk = cap(r.source.buf)
		}
		if err := r.source.EnsureRemaining(chunk); err != nil {
			return err
		}
		r.source.readInto(remaining[:chunk])
		remaining = remaining[chunk:]
	}
	return nil
}

// ReadString decodes a string value. Fails ErrInvalidUTF8 on malformed
// bytes, reported via a *DecodeError carrying the byte offset.
func (r *Reader) ReadString() (string, error) {
	return r.readString(false)
}

// ReadIdentifier decodes a string value the same way as ReadString, but
// interns the result in the reader's bounded identifier cache when its
// byte length is within the configured limit.
func (r *Reader) ReadIdentifier() (string, error) {
	return r.readString(true)
}

func (r *Reader) readString(intern bool) (string, error) {
	n, err := r.ReadStringHeader()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	buf, err := r.alloc.AcquireCharBuffer(n)
	if err != nil {
		buf = make([]byte, 0, n)
	}
	buf = buf[:n]
	defer r.alloc.ReleaseCharBuffer(buf)
	if err := r.ReadPayload(buf); err != nil {
		return "", err
	}
	if off, ok := validateUTF8(buf); !ok {
		return "", r.fail(r.source.bufferedOffset()-int64(n)+int64(off), 0, fmt.Errorf("invalid byte at relative offset %d: %w", off, ErrInvalidUTF8))
	}
	decoded := string(buf)
	if intern {
		return r.ids.intern(buf, decoded), nil
	}
	return decoded, nil
}

// ReadTimestamp decodes a timestamp extension (type -1) in its 4-, 8-, or
// 12-byte wire layout.
func (r *Reader) ReadTimestamp() (time.Time, error) {
	extType, n, err := r.ReadExtensionHeader()
	if err != nil {
		return time.Time{}, err
	}
	if extType != extTimestampType {
		return time.Time{}, fmt.Errorf("extension type %d is not a timestamp: %w", extType, ErrTypeMismatch)
	}
	payload := make([]byte, n)
	if err := r.ReadPayload(payload); err != nil {
		return time.Time{}, err
	}
	return decodeTimestampPayload(payload)
}

// Skip advances past n whole values without decoding them. Nested arrays
// and maps expand the remaining-skip count (arrays by their element
// count, maps by twice their entry count); it never allocates beyond the
// small counter itself.
func (r *Reader) Skip(n int) error {
	remaining := n
	for remaining > 0 {
		remaining--
		if err := r.skipOne(&remaining); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) skipOne(remaining *int) error {
	tag, offset, err := r.readTag()
	if err != nil {
		return err
	}
	switch {
	case tag == tagNil, tag == tagTrue, tag == tagFalse:
		return nil
	case IsFixInt(tag):
		return nil
	case tag == tagUint8, tag == tagInt8:
		_, err := r.readBigEndian(1)
		return err
	case tag == tagUint16, tag == tagInt16:
		_, err := r.readBigEndian(2)
		return err
	case tag == tagUint32, tag == tagInt32, tag == tagFloat32:
		_, err := r.readBigEndian(4)
		return err
	case tag == tagUint64, tag == tagInt64, tag == tagFloat64:
		_, err := r.readBigEndian(8)
		return err
	case IsFixStr(tag):
		return r.skipPayload(int(tag &^ tagFixStrMask))
	case tag == tagStr8, tag == tagBin8:
		b, err := r.readBigEndian(1)
		if err != nil {
			return err
		}
		return r.skipPayload(int(b[0]))
	case tag == tagStr16, tag == tagBin16:
		b, err := r.readBigEndian(2)
		if err != nil {
			return err
		}
		return r.skipPayload(int(binary.BigEndian.Uint16(b)))
	case tag == tagStr32, tag == tagBin32:
		b, err := r.readBigEndian(4)
		if err != nil {
			return err
		}
		return r.skipPayload(int(binary.BigEndian.Uint32(b)))
	case IsFixArray(tag):
		*remaining += int(tag &^ tagFixArrayMask)
		return nil
	case tag == tagArray16:
		b, err := r.readBigEndian(2)
		if err != nil {
			return err
		}
		*remaining += int(binary.BigEndian.Uint16(b))
		return nil
	case tag == tagArray32:
		b, err := r.readBigEndian(4)
		if err != nil {
			return err
		}
		*remaining += int(binary.BigEndian.Uint32(b))
		return nil
	case IsFixMap(tag):
		*remaining += 2 * int(tag&^tagFixMapMask)
		return nil
	case tag == tagMap16:
		b, err := r.readBigEndian(2)
		if err != nil {
			return err
		}
		*remaining += 2 * int(binary.BigEndian.Uint16(b))
		return nil
	case tag == tagMap32:
		b, err := r.readBigEndian(4)
		if err != nil {
			return err
		}
		*remaining += 2 * int(binary.BigEndian.Uint32(b))
		return nil
	case isExtTag(tag):
		var length int
		switch tag {
		case tagFixExt1:
			length = 1
		case tagFixExt2:
			length = 2
		case tagFixExt4:
			length = 4
		case tagFixExt8:
			length = 8
		case tagFixExt16:
			length = 16
		case tagExt8:
			b, err := r.readBigEndian(1)
			if err != nil {
				return err
			}
			length = int(b[0])
		case tagExt16:
			b, err := r.readBigEndian(2)
			if err != nil {
				return err
			}
			length = int(binary.BigEndian.Uint16(b))
		case tagExt32:
			b, err := r.readBigEndian(4)
			if err != nil {
				return err
			}
			length = int(binary.BigEndian.Uint32(b))
		}
		return r.skipPayload(length + 1) // +1 for the type byte
	default:
		return r.fail(offset, tag, ErrInvalidValue)
	}
}

func (r *Reader) skipPayload(n int) error {
	for n > 0 {
		chunk := n
		if chunk > cap(r.source.buf) {
			chunk = cap(r.source.buf)
		}
		if err := r.source.EnsureRemaining(chunk); err != nil {
			return err
		}
		r.source.pos += chunk
		n -= chunk
	}
	return nil
}

// Close closes the underlying Source.
func (r *Reader) Close() error { return r.source.Close() }
