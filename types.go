// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

// Type classifies the upcoming value as reported by Reader.NextType,
// without consuming it from the stream.
type Type int

const (
	TypeNil Type = iota
	TypeBoolean
	TypeInteger
	TypeFloat
	TypeString
	TypeBinary
	TypeArray
	TypeMap
	TypeExtension
)

func (t Type) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeBoolean:
		return "boolean"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBinary:
		return "binary"
	case TypeArray:
		return "array"
	case TypeMap:
		return "map"
	case TypeExtension:
		return "extension"
	default:
		return "unknown"
	}
}

// typeOf classifies a format byte into its Type category.
// b == tagUnused (0xc1) is not part of the MessagePack grammar; typeOf
// does not single it out, so it falls to the default TypeExtension.
// Reader.Skip rejects it with ErrInvalidValue and ReadExtensionHeader
// with ErrTypeMismatch.
func typeOf(b byte) Type {
	switch {
	case b == tagNil:
		return TypeNil
	case b == tagTrue || b == tagFalse:
		return TypeBoolean
	case isIntTag(b):
		return TypeInteger
	case b == tagFloat32 || b == tagFloat64:
		return TypeFloat
	case isStrTag(b):
		return TypeString
	case isBinTag(b):
		return TypeBinary
	case isArrayTag(b):
		return TypeArray
	case isMapTag(b):
		return TypeMap
	default:
		return TypeExtension
	}
}

// noCopy is a sentinel used to prevent copying of types that own internal
// buffers and cursors (Allocator's free lists, Source/Sink buffer state).
// go vet flags any value containing a noCopy field that is copied or
// passed by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
