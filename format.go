// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

// Format byte constants for the MessagePack wire grammar
// (https://github.com/msgpack/msgpack/blob/master/spec.md).
//
// Fixint, fixstr, fixarray and fixmap are single-byte-header encodings
// recognized via mask comparisons rather than named constants per value;
// see IsFixInt, IsFixStr, IsFixArray and IsFixMap below.
const (
	tagNil     = 0xc0
	tagUnused  = 0xc1 // never assigned by the grammar
	tagFalse   = 0xc2
	tagTrue    = 0xc3
	tagBin8    = 0xc4
	tagBin16   = 0xc5
	tagBin32   = 0xc6
	tagExt8    = 0xc7
	tagExt16   = 0xc8
	tagExt32   = 0xc9
	tagFloat32 = 0xca
	tagFloat64 = 0xcb
	tagUint8   = 0xcc
	tagUint16  = 0xcd
	tagUint32  = 0xce
	tagUint64  = 0xcf
	tagInt8    = 0xd0
	tagInt16   = 0xd1
	tagInt32   = 0xd2
	tagInt64   = 0xd3
	tagFixExt1  = 0xd4
	tagFixExt2  = 0xd5
	tagFixExt4  = 0xd6
	tagFixExt8  = 0xd7
	tagFixExt16 = 0xd8
	tagStr8    = 0xd9
	tagStr16   = 0xda
	tagStr32   = 0xdb
	tagArray16 = 0xdc
	tagArray32 = 0xdd
	tagMap16   = 0xde
	tagMap32   = 0xdf

	tagFixMapMask   = 0x80 // 1000xxxx, xxxx = count (0..15)
	tagFixArrayMask = 0x90 // 1001xxxx, xxxx = count (0..15)
	tagFixStrMask   = 0xa0 // 101xxxxx, xxxxx = length (0..31)

	posFixIntMax = 0x7f // positive fixint: 0xxxxxxx, 0..127
	negFixIntMin = 0xe0 // negative fixint: 111xxxxx, -32..-1

	fixStrMax   = 31
	fixArrayMax = 15
	fixMapMax   = 15
)

// extTimestampType is the reserved extension type id for timestamps,
// defined by the MessagePack spec as -1.
const extTimestampType int8 = -1

// IsFixInt reports whether b encodes a positive or negative fixint.
func IsFixInt(b byte) bool {
	return b <= posFixIntMax || b >= negFixIntMin
}

// IsPosFixInt reports whether b encodes a positive fixint (0..127).
func IsPosFixInt(b byte) bool {
	return b&0x80 == 0
}

// IsNegFixInt reports whether b encodes a negative fixint (-32..-1).
func IsNegFixInt(b byte) bool {
	return b&0xe0 == negFixIntMin
}

// IsFixStr reports whether b is a fixstr header (length 0..31).
func IsFixStr(b byte) bool {
	return b&0xe0 == tagFixStrMask
}

// IsFixArray reports whether b is a fixarray header (count 0..15).
func IsFixArray(b byte) bool {
	return b&0xf0 == tagFixArrayMask
}

// IsFixMap reports whether b is a fixmap header (count 0..15).
func IsFixMap(b byte) bool {
	return b&0xf0 == tagFixMapMask
}

func isIntTag(b byte) bool {
	switch {
	case IsFixInt(b):
		return true
	case b >= tagUint8 && b <= tagUint64:
		return true
	case b >= tagInt8 && b <= tagInt64:
		return true
	default:
		return false
	}
}

func isStrTag(b byte) bool {
	return IsFixStr(b) || b == tagStr8 || b == tagStr16 || b == tagStr32
}

func isBinTag(b byte) bool {
	return b == tagBin8 || b == tagBin16 || b == tagBin32
}

func isArrayTag(b byte) bool {
	return IsFixArray(b) || b == tagArray16 || b == tagArray32
}

func isMapTag(b byte) bool {
	return IsFixMap(b) || b == tagMap16 || b == tagMap32
}

func isExtTag(b byte) bool {
	switch b {
	case tagFixExt1, tagFixExt2, tagFixExt4, tagFixExt8, tagFixExt16, tagExt8, tagExt16, tagExt32:
		return true
	default:
		return false
	}
}
